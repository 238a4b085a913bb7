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
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/jaonoctus/bitcoin-snapshots/cbor"
	"gopkg.in/yaml.v3"
)

type exportFlags struct {
	flagset *flag.FlagSet
	format  string
}

func newExportFlags() *exportFlags {
	f := &exportFlags{
		flagset: flag.NewFlagSet("export", flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.format,
		"format",
		"json",
		"output format (json, yaml, cbor, cbor-diag)",
	)
	return f
}

// export writes the registry document to stdout
func export(f *globalFlags) {
	exportFlags := newExportFlags()
	err := exportFlags.flagset.Parse(f.flagset.Args()[1:])
	if err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}

	doc := loadRegistry(f).Document()
	var out []byte
	switch exportFlags.format {
	case "json":
		out, err = json.MarshalIndent(doc, "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(doc)
	case "cbor":
		out, err = cbor.Encode(doc)
	case "cbor-diag":
		var cborData []byte
		cborData, err = cbor.Encode(doc)
		if err == nil {
			var diag string
			diag, err = cbor.Diagnose(cborData)
			out = []byte(diag + "\n")
		}
	default:
		fmt.Printf("Unknown export format: %s\n", exportFlags.format)
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("ERROR: failed to encode registry: %s\n", err)
		os.Exit(1)
	}
	if _, err := os.Stdout.Write(out); err != nil {
		os.Exit(1)
	}
}
