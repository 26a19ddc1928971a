//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgguru/pgbackrest/internal/rule"
)

// position returns the index of id in order, or -1.
func position(order []rule.OptionID, id rule.OptionID) int {
	for i, o := range order {
		if o == id {
			return i
		}
	}
	return -1
}

func TestResolveOrderRespectsDependencies(t *testing.T) {
	tbl := rule.New()

	typePos := position(tbl.ResolveOrder, rule.OptType)
	targetActionPos := position(tbl.ResolveOrder, rule.OptTargetAction)
	recoveryOptionPos := position(tbl.ResolveOrder, rule.OptRecoveryOption)

	require.GreaterOrEqual(t, typePos, 0)
	require.GreaterOrEqual(t, targetActionPos, 0)
	require.GreaterOrEqual(t, recoveryOptionPos, 0)

	assert.Less(t, typePos, targetActionPos)
	assert.Less(t, typePos, recoveryOptionPos)
}

func TestResolveOrderCoversEveryOption(t *testing.T) {
	tbl := rule.New()
	assert.Len(t, tbl.ResolveOrder, len(tbl.Options))
}

func TestLookupByCanonicalName(t *testing.T) {
	tbl := rule.New()
	r := tbl.Lookup("stanza")
	require.NotNil(t, r)
	assert.Equal(t, rule.OptStanza, r.ID)
}

func TestLookupUnknownNameIsNil(t *testing.T) {
	tbl := rule.New()
	assert.Nil(t, tbl.Lookup("does-not-exist"))
}

func TestValidForCommandHonorsRoleMask(t *testing.T) {
	tbl := rule.New()
	r := tbl.Options[rule.OptRecoveryOption]

	assert.True(t, r.ValidForCommand(rule.CmdRestore, rule.RoleDefault))
	assert.False(t, r.ValidForCommand(rule.CmdBackup, rule.RoleDefault))
}

func TestEffectiveRequiredAppliesOverride(t *testing.T) {
	tbl := rule.New()
	r := tbl.Options[rule.OptStanza]

	assert.True(t, r.EffectiveRequired(rule.CmdBackup))
	assert.False(t, r.EffectiveRequired(rule.CmdInfo))
}

func TestEffectiveDefaultFallsBackWhenNoOverride(t *testing.T) {
	tbl := rule.New()
	r := tbl.Options[rule.OptCompressLevel]

	def, ok := r.EffectiveDefault(rule.CmdBackup)
	assert.True(t, ok)
	assert.Equal(t, "6", def)
}

func TestRoleStringRoundTrip(t *testing.T) {
	cases := map[rule.Role]string{
		rule.RoleDefault: "default",
		rule.RoleAsync:   "async",
		rule.RoleLocal:   "local",
		rule.RoleRemote:  "remote",
	}
	for role, want := range cases {
		assert.Equal(t, want, role.String())
	}
}

func TestRoleSetHas(t *testing.T) {
	mask := rule.RoleSet(rule.RoleDefault, rule.RoleLocal)
	assert.True(t, mask.Has(rule.RoleDefault))
	assert.True(t, mask.Has(rule.RoleLocal))
	assert.False(t, mask.Has(rule.RoleAsync))
	assert.False(t, mask.Has(rule.RoleRemote))
}

func TestGroupPgMinKeyIsOne(t *testing.T) {
	tbl := rule.New()
	assert.Equal(t, 1, tbl.Groups[rule.GroupPg].MinKey)
}
