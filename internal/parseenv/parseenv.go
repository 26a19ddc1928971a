//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package parseenv

import (
	"strings"

	"github.com/pgguru/pgbackrest/internal/cfgerr"
	"github.com/pgguru/pgbackrest/internal/optlookup"
	"github.com/pgguru/pgbackrest/internal/rbslog"
	"github.com/pgguru/pgbackrest/internal/rule"
	"github.com/pgguru/pgbackrest/internal/slot"
)

// EnvPrefix is the fixed prefix every recognized environment variable
// must carry.
const EnvPrefix = "PGBACKREST_"

// Scan sweeps environ (the "KEY=VALUE" strings of a process environment,
// as returned by os.Environ) and fills slots not already found, for the
// given active command and role.
func Scan(environ []string, cmd rule.Command, role rule.Role, t *rule.Table, idx *optlookup.Index, log rbslog.Logger, slots *slot.Table) error {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if !strings.HasPrefix(key, EnvPrefix) {
			continue
		}

		optname := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(key, EnvPrefix), "_", "-"))

		found := idx.Lookup(optname)
		if !found.Found {
			log.Warnf("unknown environment option '%s%s'", EnvPrefix, strings.ToUpper(strings.ReplaceAll(optname, "-", "_")))
			continue
		}
		if found.Negate || found.Reset {
			log.Warnf("environment option '%s' may not use the negate or reset form", key)
			continue
		}

		r := t.Options[found.OptionID]
		skey := slot.Key{OptionID: found.OptionID, KeyIdx: found.KeyIdx}
		s := slots.Get(skey)
		if s.Found {
			continue // command-line already set this slot
		}

		if !r.ValidForCommand(cmd, role) {
			continue // silently skipped: not valid for the active command/role
		}

		if value == "" {
			return cfgerr.ErrOptionInvalidValue{Option: r.Name, Value: value, Reason: "environment value cannot be empty"}
		}

		if r.Type == rule.TypeBoolean {
			switch value {
			case "y":
				s.Found = true
				s.Source = slot.SourceConfig
			case "n":
				s.Found = true
				s.Negate = true
				s.Source = slot.SourceConfig
			default:
				log.Warnf("environment boolean option '%s' must be 'y' or 'n'", key)
			}
			continue
		}

		s.Found = true
		s.Source = slot.SourceConfig
		if r.Multi {
			s.Values = append(s.Values, strings.Split(value, ":")...)
		} else {
			s.Values = append(s.Values, value)
		}
	}
	return nil
}
