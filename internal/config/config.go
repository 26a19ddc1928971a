//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package config implements the Finalizer: it assembles
// the immutable [Config] from the outputs of every earlier phase. After
// finalization, queries by option id (or option id + group index) are
// simple map lookups.
package config

import (
	"github.com/pgguru/pgbackrest/internal/group"
	"github.com/pgguru/pgbackrest/internal/resolve"
	"github.com/pgguru/pgbackrest/internal/rule"
	"github.com/pgguru/pgbackrest/internal/warnings"
)

// Config is the immutable, fully-typed, validated configuration object
// produced by a single engine run. Once returned, it is never mutated;
// re-running the engine produces a brand new Config.
type Config struct {
	Command     rule.Command
	CommandName string
	Role        rule.Role
	Help        bool
	Params      []string
	ExePath     string

	options *resolve.Result
	groups  map[rule.GroupID]*group.Resolved

	// Warnings collects the non-fatal anomalies tolerated during
	// environment and file scanning (unknown options, negate/reset
	// prefixes in a config section, and so on), in addition to them
	// having already been logged as they occurred.
	Warnings *warnings.Collector
}

// Option returns the resolved value of the ungrouped option id.
func (c *Config) Option(id rule.OptionID) (resolve.Option, bool) {
	return c.options.Get(id, 0)
}

// GroupOption returns the resolved value of the grouped option id at dense
// group index denseIdx.
func (c *Config) GroupOption(id rule.OptionID, denseIdx int) (resolve.Option, bool) {
	return c.options.Get(id, denseIdx)
}

// Group returns the resolved state of group id.
func (c *Config) Group(id rule.GroupID) (*group.Resolved, bool) {
	g, ok := c.groups[id]
	return g, ok
}

// Bool returns the boolean value of an ungrouped boolean option, treating
// an unresolved or unset value as false.
func (c *Config) Bool(id rule.OptionID) bool {
	o, ok := c.Option(id)
	if !ok || o.Value.Null {
		return false
	}
	return o.Value.Bool
}

// Str returns the string value of an ungrouped option, or "" if unset.
func (c *Config) Str(id rule.OptionID) string {
	o, ok := c.Option(id)
	if !ok || o.Value.Null {
		return ""
	}
	return o.Value.Str
}

// Int returns the int64 value of an ungrouped option, or 0 if unset.
func (c *Config) Int(id rule.OptionID) int64 {
	o, ok := c.Option(id)
	if !ok || o.Value.Null {
		return 0
	}
	return o.Value.Int
}

// Build assembles the final [Config] from the outputs of every earlier
// phase: the parsed command/role/help/params, the resolved option values,
// the resolved group index maps, and the accumulated warnings.
func Build(
	cmd rule.Command, cmdName string, role rule.Role, help bool, params []string, exePath string,
	options *resolve.Result, groups map[rule.GroupID]*group.Resolved, w *warnings.Collector,
) *Config {
	return &Config{
		Command: cmd, CommandName: cmdName, Role: role, Help: help,
		Params: params, ExePath: exePath,
		options: options, groups: groups, Warnings: w,
	}
}
