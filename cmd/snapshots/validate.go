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
	"errors"
	"fmt"
	"os"

	snapshots "github.com/jaonoctus/bitcoin-snapshots"
)

// validate loads a registry document and reports the first problem found
func validate(f *globalFlags) {
	path := f.registry
	if f.flagset.NArg() > 1 {
		path = f.flagset.Arg(1)
	}
	if path == "" {
		fmt.Printf("You must specify a registry document with -registry or as an argument\n")
		os.Exit(1)
	}
	reg, err := snapshots.NewRegistryFromFile(path)
	if err != nil {
		var regErr *snapshots.RegistryError
		if errors.As(err, &regErr) {
			fmt.Printf(
				"INVALID: network %q, field %q: %s\n",
				regErr.NetworkId,
				regErr.Field,
				regErr.Err,
			)
		} else {
			fmt.Printf("ERROR: %s\n", err)
		}
		os.Exit(1)
	}
	fmt.Printf("%s: %d networks OK\n", path, reg.Len())
}
