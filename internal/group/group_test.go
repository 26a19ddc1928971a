//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package group_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgguru/pgbackrest/internal/group"
	"github.com/pgguru/pgbackrest/internal/rule"
	"github.com/pgguru/pgbackrest/internal/slot"
)

func TestResolveDefaultsToSingleKey(t *testing.T) {
	t2 := rule.New()
	slots := &slot.Table{}
	slots.Get(slot.Key{OptionID: rule.OptPgPath, KeyIdx: 0}).Found = true
	slots.Get(slot.Key{OptionID: rule.OptPgPath, KeyIdx: 0}).Values = []string{"/var/lib/pg"}

	groups, err := group.Resolve(t2, rule.CmdBackup, rule.RoleDefault, slots)
	require.NoError(t, err)

	pg := groups[rule.GroupPg]
	assert.Equal(t, 1, pg.IndexTotal)
	assert.Equal(t, []int{0}, pg.IndexMap)
	assert.True(t, pg.IndexDefaultExists)
	assert.Equal(t, 0, pg.IndexDefault)
}

func TestResolveSparseKeysCompact(t *testing.T) {
	t2 := rule.New()
	slots := &slot.Table{}
	// pg1-path and pg3-path set (sparse key indices 0 and 2).
	slots.Get(slot.Key{OptionID: rule.OptPgPath, KeyIdx: 0}).Found = true
	slots.Get(slot.Key{OptionID: rule.OptPgPath, KeyIdx: 0}).Values = []string{"/a"}
	slots.Get(slot.Key{OptionID: rule.OptPgPath, KeyIdx: 2}).Found = true
	slots.Get(slot.Key{OptionID: rule.OptPgPath, KeyIdx: 2}).Values = []string{"/b"}

	groups, err := group.Resolve(t2, rule.CmdBackup, rule.RoleDefault, slots)
	require.NoError(t, err)

	pg := groups[rule.GroupPg]
	assert.Equal(t, 2, pg.IndexTotal)
	assert.Equal(t, []int{0, 2}, pg.IndexMap)

	dense, ok := pg.DenseOf(2)
	require.True(t, ok)
	assert.Equal(t, 1, dense)
}

func TestResolveDefaultSelector(t *testing.T) {
	t2 := rule.New()
	slots := &slot.Table{}
	slots.Get(slot.Key{OptionID: rule.OptPgPath, KeyIdx: 0}).Found = true
	slots.Get(slot.Key{OptionID: rule.OptPgPath, KeyIdx: 0}).Values = []string{"/a"}
	slots.Get(slot.Key{OptionID: rule.OptPgPath, KeyIdx: 2}).Found = true
	slots.Get(slot.Key{OptionID: rule.OptPgPath, KeyIdx: 2}).Values = []string{"/b"}
	// --pg=3 selects the sparse key 3 (1-based), which is dense index 1.
	slots.Get(slot.Key{OptionID: rule.OptPg, KeyIdx: 0}).Found = true
	slots.Get(slot.Key{OptionID: rule.OptPg, KeyIdx: 0}).Values = []string{"3"}

	groups, err := group.Resolve(t2, rule.CmdBackup, rule.RoleDefault, slots)
	require.NoError(t, err)

	pg := groups[rule.GroupPg]
	assert.Equal(t, 1, pg.IndexDefault)
}

func TestResolveDefaultSelectorUnknownKey(t *testing.T) {
	t2 := rule.New()
	slots := &slot.Table{}
	slots.Get(slot.Key{OptionID: rule.OptPgPath, KeyIdx: 0}).Found = true
	slots.Get(slot.Key{OptionID: rule.OptPgPath, KeyIdx: 0}).Values = []string{"/a"}
	slots.Get(slot.Key{OptionID: rule.OptPg, KeyIdx: 0}).Found = true
	slots.Get(slot.Key{OptionID: rule.OptPg, KeyIdx: 0}).Values = []string{"9"}

	_, err := group.Resolve(t2, rule.CmdBackup, rule.RoleDefault, slots)
	assert.Error(t, err)
}
