//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package config_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgguru/pgbackrest/internal/config"
	"github.com/pgguru/pgbackrest/internal/group"
	"github.com/pgguru/pgbackrest/internal/resolve"
	"github.com/pgguru/pgbackrest/internal/rule"
	"github.com/pgguru/pgbackrest/internal/slot"
	"github.com/pgguru/pgbackrest/internal/value"
	"github.com/pgguru/pgbackrest/internal/warnings"
)

func TestBuildExposesScalarAccessors(t *testing.T) {
	options := &resolve.Result{Options: map[slot.Key]resolve.Option{
		{OptionID: rule.OptStanza}: {Source: slot.SourceParam, Value: value.Value{Type: rule.TypeString, Str: "demo"}},
		{OptionID: rule.OptDelta}:  {Source: slot.SourceDefault, Value: value.Value{Type: rule.TypeBoolean, Bool: true}},
		{OptionID: rule.OptProcessMax}: {
			Source: slot.SourceDefault, Value: value.Value{Type: rule.TypeInteger, Int: 4},
		},
	}}
	groups := map[rule.GroupID]*group.Resolved{}
	col := &warnings.Collector{}

	cfg := config.Build(rule.CmdBackup, "backup", rule.RoleDefault, false, nil, "/usr/bin/pgbackrest", options, groups, col)

	assert.Equal(t, "demo", cfg.Str(rule.OptStanza))
	assert.True(t, cfg.Bool(rule.OptDelta))
	assert.EqualValues(t, 4, cfg.Int(rule.OptProcessMax))
	assert.Equal(t, "/usr/bin/pgbackrest", cfg.ExePath)
	assert.Same(t, col, cfg.Warnings)
}

func TestScalarAccessorsDefaultOnMissingOption(t *testing.T) {
	cfg := config.Build(
		rule.CmdInfo, "info", rule.RoleDefault, false, nil, "",
		&resolve.Result{Options: map[slot.Key]resolve.Option{}},
		map[rule.GroupID]*group.Resolved{}, &warnings.Collector{},
	)

	assert.Equal(t, "", cfg.Str(rule.OptStanza))
	assert.False(t, cfg.Bool(rule.OptDelta))
	assert.EqualValues(t, 0, cfg.Int(rule.OptProcessMax))
}

func TestGroupOptionLooksUpByDenseIndex(t *testing.T) {
	options := &resolve.Result{Options: map[slot.Key]resolve.Option{
		{OptionID: rule.OptPgPath, KeyIdx: 0}: {Source: slot.SourceParam, Value: value.Value{Type: rule.TypePath, Str: "/pg1"}},
		{OptionID: rule.OptPgPath, KeyIdx: 1}: {Source: slot.SourceParam, Value: value.Value{Type: rule.TypePath, Str: "/pg2"}},
	}}
	groups := map[rule.GroupID]*group.Resolved{
		rule.GroupPg: {Name: "pg", Valid: true, IndexTotal: 2, IndexMap: []int{0, 1}},
	}

	cfg := config.Build(rule.CmdBackup, "backup", rule.RoleDefault, false, nil, "", options, groups, &warnings.Collector{})

	g, ok := cfg.Group(rule.GroupPg)
	require.True(t, ok)
	assert.Equal(t, 2, g.IndexTotal)

	wantGroup := &group.Resolved{Name: "pg", Valid: true, IndexTotal: 2, IndexMap: []int{0, 1}}
	if diff := cmp.Diff(wantGroup, g); diff != "" {
		t.Errorf("resolved group mismatch (-want +got):\n%s", diff)
	}

	opt, ok := cfg.GroupOption(rule.OptPgPath, 1)
	require.True(t, ok)
	assert.Equal(t, "/pg2", opt.Value.Str)
}

func TestGroupLookupMissingGroupReturnsFalse(t *testing.T) {
	cfg := config.Build(
		rule.CmdInfo, "info", rule.RoleDefault, false, nil, "",
		&resolve.Result{Options: map[slot.Key]resolve.Option{}},
		map[rule.GroupID]*group.Resolved{}, &warnings.Collector{},
	)
	_, ok := cfg.Group(rule.GroupRepo)
	assert.False(t, ok)
}
