//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Command pgbackrest-config-demo wires the production osfs and zap
// adapters together with os.Args/os.Environ and prints the resolved
// Config as JSON. It exists as a real consumer of the production
// adapters; the underlying command implementations (backup, restore,
// ...) remain out of scope.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pgguru/pgbackrest/internal/cfgerr"
	"github.com/pgguru/pgbackrest/internal/engine"
	"github.com/pgguru/pgbackrest/internal/osfs"
	"github.com/pgguru/pgbackrest/internal/rbslog"
)

// summary is the JSON-friendly projection of the resolved config.Config
// this demo binary prints; it is not the engine's internal representation.
type summary struct {
	Command  string   `json:"command"`
	Role     string   `json:"role"`
	Help     bool     `json:"help"`
	Params   []string `json:"params,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Environ()))
}

func run(argv, environ []string) int {
	log, err := rbslog.NewZap()
	if err != nil {
		fmt.Fprintln(os.Stderr, "unable to initialize logger:", err)
		return 1
	}

	cfg, err := engine.Run(argv, environ, osfs.New(), engine.WithLogger(log))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if ke, ok := err.(cfgerr.KindError); ok {
			return cfgerr.ExitCode(ke.Kind())
		}
		return 1
	}

	out := summary{
		Command: cfg.CommandName,
		Role:    cfg.Role.String(),
		Help:    cfg.Help,
		Params:  cfg.Params,
	}
	if cfg.Warnings != nil {
		out.Warnings = cfg.Warnings.Messages()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, "error encoding config:", err)
		return 1
	}
	return 0
}
