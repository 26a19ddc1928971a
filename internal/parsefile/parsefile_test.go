//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package parsefile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgguru/pgbackrest/internal/fs"
	"github.com/pgguru/pgbackrest/internal/parsefile"
	"github.com/pgguru/pgbackrest/internal/rule"
	"github.com/pgguru/pgbackrest/internal/slot"
)

func setOpt(slots *slot.Table, id rule.OptionID, value string) {
	s := slots.Get(slot.Key{OptionID: id})
	s.Found, s.Source, s.Values = true, slot.SourceParam, []string{value}
}

func TestDefaultsOptionalWithLegacyFallback(t *testing.T) {
	memfs := fs.NewMemFS().Put(parsefile.LegacyConfigFile, "[global]\nlog-level-console=info\n")
	slots := &slot.Table{}

	data, err := parsefile.Load(slots, memfs)
	require.NoError(t, err)
	assert.Contains(t, string(data), "log-level-console")
}

func TestDefaultsOptionalNoFilesAtAll(t *testing.T) {
	memfs := fs.NewMemFS()
	slots := &slot.Table{}

	data, err := parsefile.Load(slots, memfs)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestConfigSetRequired(t *testing.T) {
	memfs := fs.NewMemFS()
	slots := &slot.Table{}
	setOpt(slots, rule.OptConfig, "/my/pgbackrest.conf")

	_, err := parsefile.Load(slots, memfs)
	require.Error(t, err)

	memfs.Put("/my/pgbackrest.conf", "[global]\nstanza=demo\n")
	data, err := parsefile.Load(slots, memfs)
	require.NoError(t, err)
	assert.Contains(t, string(data), "stanza=demo")
}

func TestNoConfigWithIncludePathRequired(t *testing.T) {
	memfs := fs.NewMemFS().
		Put("/x/a.conf", "[global]\na=1\n").
		Put("/x/b.conf", "[global]\nb=2\n")
	slots := &slot.Table{}
	no := slots.Get(slot.Key{OptionID: rule.OptConfig})
	no.Found, no.Negate, no.Source = true, true, slot.SourceParam
	setOpt(slots, rule.OptConfigIncludePath, "/x")

	data, err := parsefile.Load(slots, memfs)
	require.NoError(t, err)
	// a.conf then b.conf, in lexicographic order, joined by a single newline.
	assert.Equal(t, "[global]\na=1\n\n[global]\nb=2\n", string(data))
}

func TestNoConfigNoIncludePathSkipsEverything(t *testing.T) {
	memfs := fs.NewMemFS()
	slots := &slot.Table{}
	no := slots.Get(slot.Key{OptionID: rule.OptConfig})
	no.Found, no.Negate, no.Source = true, true, slot.SourceParam

	data, err := parsefile.Load(slots, memfs)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestEmptyConfigValueBehavesAsNoConfig(t *testing.T) {
	memfs := fs.NewMemFS()
	slots := &slot.Table{}
	s := slots.Get(slot.Key{OptionID: rule.OptConfig})
	s.Found, s.Source, s.Values = true, slot.SourceParam, []string{""}

	data, err := parsefile.Load(slots, memfs)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestConfigPathDefaultsIncludeDirOptional(t *testing.T) {
	memfs := fs.NewMemFS().Put("/cp/pgbackrest.conf", "[global]\nc=1\n")
	slots := &slot.Table{}
	setOpt(slots, rule.OptConfigPath, "/cp")

	data, err := parsefile.Load(slots, memfs)
	require.NoError(t, err)
	assert.Contains(t, string(data), "c=1")
}

func TestIncludeFilesFilteredByConfExtension(t *testing.T) {
	memfs := fs.NewMemFS().
		Put("/x/a.conf", "[global]\na=1\n").
		Put("/x/readme.txt", "ignored")
	slots := &slot.Table{}
	no := slots.Get(slot.Key{OptionID: rule.OptConfig})
	no.Found, no.Negate, no.Source = true, true, slot.SourceParam
	setOpt(slots, rule.OptConfigIncludePath, "/x")

	data, err := parsefile.Load(slots, memfs)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "readme")
}
