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
	"flag"
	"fmt"
	"log/slog"
	"os"

	snapshots "github.com/jaonoctus/bitcoin-snapshots"
)

type globalFlags struct {
	flagset  *flag.FlagSet
	registry string
	logLevel string
}

func newGlobalFlags() *globalFlags {
	f := &globalFlags{
		flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.registry,
		"registry",
		"",
		"path to a JSON or YAML registry document (defaults to the built-in networks)",
	)
	f.flagset.StringVar(
		&f.logLevel,
		"log-level",
		"info",
		"log level (debug, info, warn, error)",
	)
	return f
}

func main() {
	f := newGlobalFlags()
	err := f.flagset.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(f.logLevel)
	if err != nil {
		fmt.Printf("Invalid log level specified: %s\n", f.logLevel)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if len(f.flagset.Args()) > 0 {
		switch f.flagset.Arg(0) {
		case "serve":
			serve(f, logger)
		case "list":
			list(f)
		case "validate":
			validate(f)
		case "export":
			export(f)
		default:
			fmt.Printf("Unknown subcommand: %s\n", f.flagset.Arg(0))
			os.Exit(1)
		}
	} else {
		fmt.Printf("You must specify a subcommand (serve, list, validate or export)\n")
		os.Exit(1)
	}
}

func newLogger(level string) (*slog.Logger, error) {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}),
	), nil
}

// loadRegistry returns the registry from -registry, or the built-in one
func loadRegistry(f *globalFlags) *snapshots.Registry {
	if f.registry == "" {
		return snapshots.DefaultRegistry()
	}
	reg, err := snapshots.NewRegistryFromFile(f.registry)
	if err != nil {
		fmt.Printf("ERROR: failed to load registry: %s\n", err)
		os.Exit(1)
	}
	return reg
}
