//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package parseargs

import (
	"strconv"
	"strings"

	"github.com/bassosimone/flagscanner"
	"github.com/bassosimone/runtimex"

	"github.com/pgguru/pgbackrest/internal/cfgerr"
	"github.com/pgguru/pgbackrest/internal/optlookup"
	"github.com/pgguru/pgbackrest/internal/rbslog"
	"github.com/pgguru/pgbackrest/internal/rule"
	"github.com/pgguru/pgbackrest/internal/slot"
)

// Result is everything the argument parser produces from argv.
type Result struct {
	Command rule.Command
	Role    rule.Role
	Help    bool
	Params  []string
	Slots   *slot.Table
}

var roleNames = map[string]rule.Role{
	"default": rule.RoleDefault,
	"async":   rule.RoleAsync,
	"local":   rule.RoleLocal,
	"remote":  rule.RoleRemote,
}

// Parse parses argv (excluding the program name) against t and idx,
// logging any deprecated-alias usage through log.
func Parse(argv []string, t *rule.Table, idx *optlookup.Index, log rbslog.Logger) (*Result, error) {
	sx := &flagscanner.Scanner{Prefixes: []string{"--", "-"}}
	tokens := sx.Scan(argv)

	if earlyHelp(tokens) {
		return &Result{Help: true, Slots: &slot.Table{}}, nil
	}

	input := &deque[flagscanner.Token]{values: tokens}

	res := &Result{Slots: &slot.Table{}}
	var (
		commandFound bool
		optionsSeen  int
	)

	for !input.Empty() {
		cur, _ := input.Front()
		input.PopFront()

		switch cur := cur.(type) {

		case flagscanner.PositionalArgumentToken:
			if !commandFound {
				if err := resolveCommand(t, cur.Value, res); err != nil {
					return nil, err
				}
				commandFound = true
				continue
			}
			res.Params = append(res.Params, cur.Value)

		case flagscanner.OptionsArgumentsSeparatorToken:
			// not configured; flagscanner never emits this token because
			// the Scanner above leaves Separator empty.

		case flagscanner.OptionToken:
			optionsSeen++
			if err := applyOption(t, idx, log, cur, input, res); err != nil {
				return nil, err
			}
		}
	}

	runtimex.Assert(input.Empty())

	if !commandFound {
		if optionsSeen > 0 {
			return nil, cfgerr.ErrCommandRequired{}
		}
		res.Help = true
		return res, nil
	}

	if !res.Help {
		cmdRule := t.Commands[res.Command]
		if !cmdRule.ParameterAllowed && len(res.Params) > 0 {
			return nil, cfgerr.ErrParamInvalid{Command: cmdRule.Name, Param: res.Params[0]}
		}
	}

	return res, nil
}

func resolveCommand(t *rule.Table, token string, res *Result) error {
	name, roleName, hasRole := strings.Cut(token, ":")

	if name == "help" {
		res.Help = true
		return nil
	}

	var (
		cmd  rule.Command
		cmdR *rule.CommandRule
		ok   bool
	)
	for id, r := range t.Commands {
		if r.Name == name {
			cmd, cmdR, ok = id, r, true
			break
		}
	}
	if !ok {
		return cfgerr.ErrCommandInvalid{Token: token, Why: "unknown command"}
	}

	role := rule.RoleDefault
	if hasRole {
		r, ok := roleNames[roleName]
		if !ok {
			return cfgerr.ErrCommandInvalid{Token: token, Why: "unknown command role " + strconv.Quote(roleName)}
		}
		role = r
	}
	if !cmdR.ValidRoles.Has(role) {
		return cfgerr.ErrCommandInvalid{Token: token, Why: "role not valid for command " + strconv.Quote(name)}
	}

	res.Command = cmd
	res.Role = role
	return nil
}

func applyOption(
	t *rule.Table, idx *optlookup.Index, log rbslog.Logger,
	cur flagscanner.OptionToken, input *deque[flagscanner.Token], res *Result,
) error {
	optname, optvalue, hasValue := strings.Cut(cur.Name, "=")

	found := idx.Lookup(optname)
	if !found.Found {
		return cfgerr.ErrOptionInvalid{Option: optname, Reason: "is unknown"}
	}
	if found.Deprecated {
		log.Warnf("option '%s' is deprecated and will be removed in a future release, use option '%s' instead",
			optname, found.Canonical)
	}

	r := t.Options[found.OptionID]
	if r.Secure {
		return cfgerr.ErrOptionInvalid{Option: optname, Reason: "is secure and cannot be specified on the command line",
			Hint: "set it in a config file instead"}
	}

	key := slot.Key{OptionID: found.OptionID, KeyIdx: found.KeyIdx}
	s := res.Slots.Get(key)

	switch {
	case found.Reset:
		if hasValue {
			return cfgerr.ErrOptionInvalid{Option: optname, Reason: "reset option takes no value"}
		}
		if s.Reset {
			return cfgerr.ErrOptionInvalid{Option: optname, Reason: "reset specified multiple times"}
		}
		if s.Negate || s.Found {
			return cfgerr.ErrOptionInvalid{Option: optname, Reason: "cannot combine reset with a value or negation"}
		}
		s.Reset = true
		s.Found = true
		s.Source = slot.SourceParam
		return nil

	case found.Negate:
		if hasValue {
			return cfgerr.ErrOptionInvalid{Option: optname, Reason: "negated option takes no value"}
		}
		if s.Negate {
			return cfgerr.ErrOptionInvalid{Option: optname, Reason: "negation specified multiple times"}
		}
		if s.Reset || (s.Found && len(s.Values) > 0) {
			return cfgerr.ErrOptionInvalid{Option: optname, Reason: "cannot combine negation with reset or a value"}
		}
		s.Negate = true
		s.Found = true
		s.Source = slot.SourceParam
		return nil
	}

	// Plain set: resolve the value, consuming the next token if necessary.
	switch {
	case r.Type == rule.TypeBoolean:
		if hasValue {
			return cfgerr.ErrOptionInvalid{Option: optname, Reason: "is a boolean and takes no value on the command line"}
		}
	case !hasValue:
		tok, ok := input.Front()
		if !ok {
			return cfgerr.ErrOptionInvalid{Option: optname, Reason: "requires an argument"}
		}
		input.PopFront()
		optvalue = tok.String()
	}

	if s.Negate {
		return cfgerr.ErrOptionInvalid{Option: optname, Reason: "cannot set a value after negating the option"}
	}
	if s.Reset {
		return cfgerr.ErrOptionInvalid{Option: optname, Reason: "cannot set a value after resetting the option"}
	}
	if s.Found && !r.Multi {
		return cfgerr.ErrOptionInvalid{Option: optname, Reason: "specified multiple times", Hint: "it does not accept multiple values"}
	}

	s.Found = true
	s.Source = slot.SourceParam
	s.Values = append(s.Values, optvalue)
	return nil
}
