//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package optlookup

import (
	"strconv"
	"strings"

	"github.com/pgguru/pgbackrest/internal/rule"
)

// Result is what a name resolves to.
type Result struct {
	Found      bool
	OptionID   rule.OptionID
	KeyIdx     int // 0-based
	Negate     bool
	Reset      bool
	Deprecated bool
	// Canonical is the canonical spelling to suggest when Deprecated is
	// true (used to build the warning text).
	Canonical string
}

type entry struct {
	optionID   rule.OptionID
	keyIdx     int
	negate     bool
	reset      bool
	deprecated bool
	canonical  string
}

// Index is the precompiled table of canonical and alias spellings for one
// [rule.Table]. Build it once with [New] and reuse it.
type Index struct {
	names map[string]entry
}

// negatableNonBoolean lists the options that may be negated despite not
// being boolean-typed. `config` is pgBackRest's one documented exception:
// `--no-config` skips loading the config file entirely even though `config`
// itself is a path option.
var negatableNonBoolean = map[rule.OptionID]bool{
	rule.OptConfig: true,
}

// deprecatedAliases maps a legacy spelling to the option it now means. This
// table corresponds to PARSE_DEPRECATE_FLAG entries in the original rule
// table.
var deprecatedAliases = map[string]rule.OptionID{
	"archive-timeout": rule.OptDbTimeout,
}

// New compiles an [Index] from t.
func New(t *rule.Table) *Index {
	idx := &Index{names: make(map[string]entry)}

	for _, r := range t.Options {
		if r.Group {
			continue
		}
		idx.addUngrouped(r)
	}

	for groupID, g := range t.Groups {
		for _, r := range t.Options {
			if !r.Group || r.GroupID != groupID {
				continue
			}
			idx.addGrouped(t, g, r)
		}
	}

	for alias, target := range deprecatedAliases {
		r := t.Options[target]
		idx.names[alias] = entry{optionID: target, keyIdx: 0, deprecated: true, canonical: r.Name}
	}

	return idx
}

func (idx *Index) addUngrouped(r *rule.OptionRule) {
	idx.names[r.Name] = entry{optionID: r.ID, keyIdx: 0}

	if canNegate(r) {
		idx.names["no-"+r.Name] = entry{optionID: r.ID, keyIdx: 0, negate: true}
	}
	if !r.Secure {
		idx.names["reset-"+r.Name] = entry{optionID: r.ID, keyIdx: 0, reset: true}
	}
}

// groupRemainder returns the part of the option name after the group's own
// name, e.g. "-path" for option "pg-path" in group "pg".
func groupRemainder(groupName, optionName string) string {
	return strings.TrimPrefix(optionName, groupName)
}

func (idx *Index) addGrouped(t *rule.Table, g *rule.GroupRule, r *rule.OptionRule) {
	remainder := groupRemainder(g.Name, r.Name)
	for key := g.MinKey; key < g.MinKey+rule.KeyMax; key++ {
		name := g.Name + strconv.Itoa(key) + remainder
		keyIdx := key - 1
		idx.names[name] = entry{optionID: r.ID, keyIdx: keyIdx}

		if canNegate(r) {
			idx.names["no-"+name] = entry{optionID: r.ID, keyIdx: keyIdx, negate: true}
		}
		if !r.Secure {
			idx.names["reset-"+name] = entry{optionID: r.ID, keyIdx: keyIdx, reset: true}
		}
	}
}

func canNegate(r *rule.OptionRule) bool {
	return r.Type == rule.TypeBoolean || negatableNonBoolean[r.ID]
}

// Lookup resolves name to a [Result]. Options whose rule carries Group=true
// are only reachable through their indexed spellings (e.g. "pg1-path"), not
// their bare group-relative name.
func (idx *Index) Lookup(name string) Result {
	e, ok := idx.names[name]
	if !ok {
		return Result{Found: false}
	}
	return Result{
		Found: true, OptionID: e.optionID, KeyIdx: e.keyIdx,
		Negate: e.negate, Reset: e.reset, Deprecated: e.deprecated, Canonical: e.canonical,
	}
}
