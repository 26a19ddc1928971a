//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package engine is the entry point of the configuration resolution
// engine: [Run] drives, in order, the argument parser, environment
// scanner, file loader, file section resolver, group index resolver,
// dependency + type validator, and finalizer, and returns the immutable
// [config.Config].
package engine

import (
	"github.com/pgguru/pgbackrest/internal/cfgerr"
	"github.com/pgguru/pgbackrest/internal/config"
	"github.com/pgguru/pgbackrest/internal/fs"
	"github.com/pgguru/pgbackrest/internal/group"
	"github.com/pgguru/pgbackrest/internal/inidoc"
	"github.com/pgguru/pgbackrest/internal/optlookup"
	"github.com/pgguru/pgbackrest/internal/parseargs"
	"github.com/pgguru/pgbackrest/internal/parseenv"
	"github.com/pgguru/pgbackrest/internal/parsefile"
	"github.com/pgguru/pgbackrest/internal/rbslog"
	"github.com/pgguru/pgbackrest/internal/resolve"
	"github.com/pgguru/pgbackrest/internal/rule"
	"github.com/pgguru/pgbackrest/internal/section"
	"github.com/pgguru/pgbackrest/internal/slot"
	"github.com/pgguru/pgbackrest/internal/warnings"
)

// Option configures [Run]. The zero-value engine already matches
// pgBackRest's real defaults; every knob here is only for tests or
// unusual embeddings.
type Option func(*settings)

type settings struct {
	logger  rbslog.Logger
	table   *rule.Table
	exePath string
}

// WithLogger overrides the [rbslog.Logger] warnings are reported through.
// The default is [rbslog.Nop].
func WithLogger(log rbslog.Logger) Option {
	return func(s *settings) { s.logger = log }
}

// WithTable overrides the [rule.Table] used to resolve option names and
// command/role validity. The default is [rule.New].
func WithTable(t *rule.Table) Option {
	return func(s *settings) { s.table = t }
}

// WithExePath sets the executable path recorded on the resolved
// [config.Config]. The default is "", since argv passed to [Run] excludes
// the program name by contract.
func WithExePath(path string) Option {
	return func(s *settings) { s.exePath = path }
}

// fanoutLogger reports every warning both to the embedding program's
// logger and into a [warnings.Collector], so a caller can inspect the
// Config's Warnings field without having to wire its own logger to do so.
type fanoutLogger struct {
	log rbslog.Logger
	col *warnings.Collector
}

func (f fanoutLogger) Warnf(format string, args ...any) {
	f.log.Warnf(format, args...)
	f.col.Addf(format, args...)
}

func (f fanoutLogger) Debugf(format string, args ...any) {
	f.log.Debugf(format, args...)
}

// Run executes a single pass of the engine against argv (excluding the
// program name, i.e. os.Args[1:]), environ (as returned by os.Environ),
// and fsys (the storage collaborator, out of scope). It
// returns the resolved, immutable [config.Config].
//
// Run never mutates global state and may be called repeatedly (e.g. in
// tests); each call produces a fully independent Config.
func Run(argv []string, environ []string, fsys fs.FileSystem, opts ...Option) (*config.Config, error) {
	s := &settings{logger: rbslog.Nop{}, table: rule.New()}
	for _, o := range opts {
		o(s)
	}

	t := s.table
	idx := optlookup.New(t)
	col := &warnings.Collector{}
	log := fanoutLogger{log: s.logger, col: col}

	parsed, err := parseargs.Parse(argv, t, idx, log)
	if err != nil {
		return nil, err
	}

	if !parsed.Help {
		if err := parseenv.Scan(environ, parsed.Command, parsed.Role, t, idx, log, parsed.Slots); err != nil {
			return nil, err
		}

		data, err := parsefile.Load(parsed.Slots, fsys)
		if err != nil {
			return nil, err
		}
		if data != nil {
			doc, err := inidoc.Parse(data)
			if err != nil {
				return nil, cfgerr.ErrFileOpen{Path: "config", Err: err}
			}
			if err := section.Resolve(doc, stanzaName(parsed.Slots), parsed.Command, parsed.Role, t, idx, log, parsed.Slots); err != nil {
				return nil, err
			}
		}
	}

	groups, err := group.Resolve(t, parsed.Command, parsed.Role, parsed.Slots)
	if err != nil {
		return nil, err
	}

	resolved, err := resolve.Resolve(t, parsed.Command, parsed.Role, parsed.Help, parsed.Slots, groups)
	if err != nil {
		return nil, err
	}

	cmdName := ""
	if cr, ok := t.Commands[parsed.Command]; ok {
		cmdName = cr.Name
	}

	cfg := config.Build(parsed.Command, cmdName, parsed.Role, parsed.Help, parsed.Params, s.exePath, resolved, groups, col)
	return cfg, nil
}

// stanzaName reads the "stanza" slot as already filled by the argument
// parser or environment scanner, so the file section resolver can build
// its stanza:command/stanza search entries before the dependency + type
// validator has formally resolved anything.
func stanzaName(slots *slot.Table) string {
	s, ok := slots.Lookup(slot.Key{OptionID: rule.OptStanza})
	if !ok || !s.Found || s.Negate || s.Reset || len(s.Values) == 0 {
		return ""
	}
	return s.Values[0]
}
