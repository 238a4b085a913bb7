// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/jaonoctus/bitcoin-snapshots/view"
	"github.com/pterm/pterm"
)

// list prints the technical details table
func list(f *globalFlags) {
	reg := loadRegistry(f)
	page := view.Project(reg, view.Initial(), nil, nil)
	header := []string{"Metric"}
	for _, column := range page.Details.Columns {
		header = append(header, column.Name)
	}
	data := pterm.TableData{header}
	for _, row := range page.Details.Rows {
		line := []string{row.Label}
		for _, cell := range row.Cells {
			line = append(line, cell.Text)
		}
		data = append(data, line)
	}
	err := pterm.DefaultTable.
		WithHasHeader().
		WithHeaderRowSeparator("-").
		WithData(data).
		Render()
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	pterm.Println()
	pterm.Printf("$ %s\n", view.ChecksumCommand)
	pterm.Printf("$ %s\n", view.SignatureCommand)
	pterm.Printf("digests:   %s\n", reg.DigestsUrl())
	pterm.Printf("signature: %s\n", reg.SignatureUrl())
}
