//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgguru/pgbackrest/internal/cfgerr"
	"github.com/pgguru/pgbackrest/internal/engine"
	"github.com/pgguru/pgbackrest/internal/fs"
	"github.com/pgguru/pgbackrest/internal/rbslog"
	"github.com/pgguru/pgbackrest/internal/rule"
	"github.com/pgguru/pgbackrest/internal/slot"
)

// Scenario 1 : argv sets stanza and pg1-path directly; no env,
// no config file. Resolves with source=param and a single-entry pg group.
func TestScenarioCommandLineOnly(t *testing.T) {
	log := &rbslog.Recording{}
	cfg, err := engine.Run(
		[]string{"backup", "--stanza=demo", "--pg1-path=/var/lib/pg"},
		nil, fs.NewMemFS(), engine.WithLogger(log),
	)
	require.NoError(t, err)

	assert.Equal(t, "backup", cfg.CommandName)
	assert.Equal(t, rule.RoleDefault, cfg.Role)
	assert.Equal(t, "demo", cfg.Str(rule.OptStanza))

	pg, ok := cfg.Group(rule.GroupPg)
	require.True(t, ok)
	assert.Equal(t, 1, pg.IndexTotal)
	assert.Equal(t, []int{0}, pg.IndexMap)

	opt, ok := cfg.GroupOption(rule.OptPgPath, 0)
	require.True(t, ok)
	assert.Equal(t, "/var/lib/pg", opt.Value.Str)
	assert.Equal(t, slot.SourceParam, opt.Source)
}

// Scenario 2: stanza from the environment, repo1-path from the default
// config file (with info's stanza not required).
func TestScenarioEnvAndConfigFile(t *testing.T) {
	memfs := fs.NewMemFS().Put("/etc/pgbackrest/pgbackrest.conf", "[global]\nrepo1-path=/var/lib/backup\n")

	cfg, err := engine.Run(
		[]string{"info"},
		[]string{"PGBACKREST_STANZA=demo"},
		memfs,
	)
	require.NoError(t, err)

	s, ok := cfg.Option(rule.OptStanza)
	require.True(t, ok)
	assert.Equal(t, "demo", s.Value.Str)
	assert.Equal(t, slot.SourceConfig, s.Source)

	r, ok := cfg.GroupOption(rule.OptRepoPath, 0)
	require.True(t, ok)
	assert.Equal(t, "/var/lib/backup", r.Value.Str)
	assert.Equal(t, slot.SourceConfig, r.Source)
}

// Scenario 3: --no-config with --config-include-path loads only the
// include directory's *.conf files, concatenated in lexicographic order,
// and archive-push's positional parameter survives.
func TestScenarioNoConfigWithIncludePath(t *testing.T) {
	memfs := fs.NewMemFS().
		Put("/x/a.conf", "[global]\nlog-level-console=info\n").
		Put("/x/b.conf", "[global:archive-push]\nprocess-max=2\n")

	cfg, err := engine.Run(
		[]string{"--no-config", "--config-include-path=/x", "archive-push", "wal1"},
		nil, memfs,
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"wal1"}, cfg.Params)

	lvl, ok := cfg.Option(rule.OptLogLevelConsole)
	require.True(t, ok)
	assert.Equal(t, "info", lvl.Value.Str)

	pm, ok := cfg.Option(rule.OptProcessMax)
	require.True(t, ok)
	assert.EqualValues(t, 2, pm.Value.Int)
}

// Scenario 4: size coercion, tested directly through the resolved Config
// rather than the internal value package, to exercise the full pipeline.
func TestScenarioSizeCoercion(t *testing.T) {
	cfg, err := engine.Run(
		[]string{"backup", "--stanza=demo", "--pg1-path=/var/lib/pg", "--buffer-size=2kb"},
		nil, fs.NewMemFS(),
	)
	require.NoError(t, err)

	bs, ok := cfg.Option(rule.OptBufferSize)
	require.True(t, ok)
	assert.EqualValues(t, 2048, bs.Value.Int)
}

// Scenario 5: compress-level outside its allow_range fails with
// OptionInvalidValue.
func TestScenarioRangeViolation(t *testing.T) {
	_, err := engine.Run(
		[]string{"backup", "--stanza=demo", "--pg1-path=/var/lib/pg", "--compress-level=12"},
		nil, fs.NewMemFS(),
	)
	require.Error(t, err)
	ke, ok := err.(cfgerr.KindError)
	require.True(t, ok)
	assert.Equal(t, cfgerr.OptionInvalidValue, ke.Kind())
	assert.Contains(t, err.Error(), "out of range")
}

// Scenario 6: recovery-option set explicitly but type has no value that
// satisfies its depend -- fatal OptionInvalid naming the allowed values.
func TestScenarioDependUnsatisfiedOnCmdline(t *testing.T) {
	_, err := engine.Run(
		[]string{
			"restore", "--stanza=demo", "--pg1-path=/p", "--type=time", "--target-action=promote",
			"--recovery-option=a=1",
		},
		nil, fs.NewMemFS(),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid without option 'type' in ('default', 'immediate')")
}

func TestHelpModeSkipsCommandAndRequired(t *testing.T) {
	cfg, err := engine.Run([]string{"--help"}, nil, fs.NewMemFS())
	require.NoError(t, err)
	assert.True(t, cfg.Help)
}

func TestBareInvocationIsHelp(t *testing.T) {
	cfg, err := engine.Run(nil, nil, fs.NewMemFS())
	require.NoError(t, err)
	assert.True(t, cfg.Help)
}

func TestUnknownCommandIsFatal(t *testing.T) {
	_, err := engine.Run([]string{"not-a-command"}, nil, fs.NewMemFS())
	require.Error(t, err)
	ke, ok := err.(cfgerr.KindError)
	require.True(t, ok)
	assert.Equal(t, cfgerr.CommandInvalid, ke.Kind())
}

func TestSecureOptionOnCommandLineIsFatal(t *testing.T) {
	_, err := engine.Run(
		[]string{"backup", "--stanza=demo", "--pg1-path=/p", "--repo1-cipher-pass=secret"},
		nil, fs.NewMemFS(),
	)
	require.Error(t, err)
	ke, ok := err.(cfgerr.KindError)
	require.True(t, ok)
	assert.Equal(t, cfgerr.OptionInvalid, ke.Kind())
}

func TestIdempotentAcrossRuns(t *testing.T) {
	argv := []string{"backup", "--stanza=demo", "--pg1-path=/var/lib/pg"}

	cfg1, err := engine.Run(argv, nil, fs.NewMemFS())
	require.NoError(t, err)
	cfg2, err := engine.Run(argv, nil, fs.NewMemFS())
	require.NoError(t, err)

	assert.Equal(t, cfg1.CommandName, cfg2.CommandName)
	o1, _ := cfg1.GroupOption(rule.OptPgPath, 0)
	o2, _ := cfg2.GroupOption(rule.OptPgPath, 0)
	assert.Equal(t, o1.Value, o2.Value)
}
