//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package resolve implements the Dependency + Type Validator: it walks
// every option in the rule table's pre-computed
// [rule.Table.ResolveOrder], checks depend constraints against
// already-resolved values, applies defaults, coerces raw strings to typed
// values, and enforces range/allow-list constraints.
package resolve

import (
	"strconv"

	"github.com/pgguru/pgbackrest/internal/cfgerr"
	"github.com/pgguru/pgbackrest/internal/group"
	"github.com/pgguru/pgbackrest/internal/rule"
	"github.com/pgguru/pgbackrest/internal/slot"
	"github.com/pgguru/pgbackrest/internal/value"
)

// Option is one fully resolved option value: its source, its negate/reset
// state, and its coerced value.
type Option struct {
	Source slot.Source
	Negate bool
	Reset  bool
	// Value has Null set when the option was never set and has no
	// default (a required option only reaches this state in help mode,
	// since OptionRequired is otherwise fatal).
	Value value.Value
	// Unresolved is true when a depend constraint was not satisfied and
	// the option was not explicitly set on the command line: the option
	// has no meaningful value at this index.
	Unresolved bool
}

// Result indexes every resolved option by (option_id, dense key index).
type Result struct {
	Options map[slot.Key]Option
}

// Get returns the resolved option at (id, denseIdx), or the zero [Option]
// if it was never populated (e.g. a group index beyond IndexTotal).
func (r *Result) Get(id rule.OptionID, denseIdx int) (Option, bool) {
	o, ok := r.Options[slot.Key{OptionID: id, KeyIdx: denseIdx}]
	return o, ok
}

// Resolve walks t.ResolveOrder and produces the [Result], given the slots
// filled by the parser/env/file stages and the group index maps already
// computed by package group.
func Resolve(
	t *rule.Table, cmd rule.Command, role rule.Role, help bool,
	slots *slot.Table, groups map[rule.GroupID]*group.Resolved,
) (*Result, error) {
	res := &Result{Options: make(map[slot.Key]Option)}

	for _, id := range t.ResolveOrder {
		r := t.Options[id]

		denseCount := 1
		var g *group.Resolved
		if r.Group {
			g = groups[r.GroupID]
			denseCount = g.IndexTotal
		}

		for dense := 0; dense < denseCount; dense++ {
			sparse := dense
			if r.Group {
				sparse = g.IndexMap[dense]
			}

			if err := resolveOne(t, r, cmd, role, help, dense, sparse, slots, res); err != nil {
				return nil, err
			}
		}
	}

	return res, nil
}

func resolveOne(
	t *rule.Table, r *rule.OptionRule, cmd rule.Command, role rule.Role, help bool,
	dense, sparse int, slots *slot.Table, res *Result,
) error {
	s, hasSlot := slots.Lookup(slot.Key{OptionID: r.ID, KeyIdx: sparse})
	explicitlySetOnCmdline := hasSlot && s.Found && s.Source == slot.SourceParam

	if !r.ValidForCommand(cmd, role) {
		if explicitlySetOnCmdline {
			return cfgerr.ErrOptionInvalid{Option: r.Name, Reason: "not valid for command '" + t.Commands[cmd].Name + "'"}
		}
		return nil
	}

	if r.HasDepend {
		satisfied, err := dependSatisfied(t, r, dense, res)
		if err != nil {
			return err
		}
		if !satisfied {
			if explicitlySetOnCmdline {
				return cfgerr.ErrOptionInvalid{
					Option: r.Name,
					Reason: dependMessage(t, r),
				}
			}
			res.Options[slot.Key{OptionID: r.ID, KeyIdx: dense}] = Option{Unresolved: true, Value: value.Value{Null: true}}
			return nil
		}
	}

	if hasSlot && s.Found && !s.Reset {
		if s.Negate {
			if r.Type == rule.TypeBoolean {
				res.Options[slot.Key{OptionID: r.ID, KeyIdx: dense}] = Option{
					Source: s.Source, Negate: true,
					Value: value.Value{Type: rule.TypeBoolean, Bool: false},
				}
				return nil
			}
			res.Options[slot.Key{OptionID: r.ID, KeyIdx: dense}] = Option{
				Source: s.Source, Negate: true, Value: value.Value{Null: true},
			}
			return nil
		}

		if r.Type == rule.TypeBoolean {
			res.Options[slot.Key{OptionID: r.ID, KeyIdx: dense}] = Option{
				Source: s.Source, Value: value.Value{Type: rule.TypeBoolean, Bool: true},
			}
			return nil
		}

		v, err := value.Coerce(r.Name, r, s.Values)
		if err != nil {
			return err
		}
		res.Options[slot.Key{OptionID: r.ID, KeyIdx: dense}] = Option{Source: s.Source, Value: v}
		return nil
	}

	// Unset (including reset, which forces default).
	def, ok := r.EffectiveDefault(cmd)
	if ok {
		var v value.Value
		if r.Type == rule.TypeBoolean {
			v = value.Value{Type: rule.TypeBoolean, Bool: def == "true"}
		} else {
			var err error
			v, err = value.Coerce(r.Name, r, []string{def})
			if err != nil {
				return err
			}
		}
		res.Options[slot.Key{OptionID: r.ID, KeyIdx: dense}] = Option{Source: slot.SourceDefault, Value: v}
		return nil
	}

	if r.EffectiveRequired(cmd) && !help {
		return cfgerr.ErrOptionRequired{Option: r.Name, StanzaHint: r.Section == rule.SectionStanzaOnly}
	}

	res.Options[slot.Key{OptionID: r.ID, KeyIdx: dense}] = Option{Value: value.Value{Null: true}}
	return nil
}

// dependSatisfied reports whether r's depend constraint is met at dense
// index dense, reading the already-resolved value of the dependency
// (guaranteed resolved first by t.ResolveOrder).
func dependSatisfied(t *rule.Table, r *rule.OptionRule, dense int, res *Result) (bool, error) {
	dep, ok := res.Get(r.Depend.On, dense)
	if !ok || dep.Unresolved || dep.Value.Null {
		return false, nil
	}

	if len(r.Depend.Values) == 0 {
		return true, nil
	}

	literal := canonicalLiteral(dep.Value)
	for _, allowed := range r.Depend.Values {
		if allowed == literal {
			return true, nil
		}
	}
	return false, nil
}

// canonicalLiteral renders a resolved value as the string dependency
// allow-lists are compared against: booleans canonicalize to "0"/"1",
// everything else to its coerced string form.
func canonicalLiteral(v value.Value) string {
	switch v.Type {
	case rule.TypeBoolean:
		if v.Bool {
			return "1"
		}
		return "0"
	case rule.TypeInteger, rule.TypeSize, rule.TypeTime:
		return strconv.FormatInt(v.Int, 10)
	default:
		return v.Str
	}
}

func dependMessage(t *rule.Table, r *rule.OptionRule) string {
	depName := t.Options[r.Depend.On].Name
	if len(r.Depend.Values) == 0 {
		return "not valid without option '" + depName + "'"
	}
	msg := "not valid without option '" + depName + "' in ("
	for i, v := range r.Depend.Values {
		if i > 0 {
			msg += ", "
		}
		msg += "'" + v + "'"
	}
	msg += ")"
	return msg
}
