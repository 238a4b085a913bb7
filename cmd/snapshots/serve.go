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
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jaonoctus/bitcoin-snapshots/server"
)

const shutdownTimeout = 10 * time.Second

type serveFlags struct {
	flagset *flag.FlagSet
	address string
}

func newServeFlags() *serveFlags {
	f := &serveFlags{
		flagset: flag.NewFlagSet("serve", flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.address,
		"address",
		server.DefaultAddress,
		"TCP address to listen on in address:port format",
	)
	return f
}

func serve(f *globalFlags, logger *slog.Logger) {
	serveFlags := newServeFlags()
	err := serveFlags.flagset.Parse(f.flagset.Args()[1:])
	if err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}

	gin.SetMode(gin.ReleaseMode)
	s, err := server.New(
		server.WithAddress(serveFlags.address),
		server.WithRegistry(loadRegistry(f)),
		server.WithLogger(logger),
	)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := s.Start(); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Stop(shutdownCtx); err != nil {
		logger.Error("failed to shut down cleanly", "error", err)
		os.Exit(1)
	}
}
