//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package section

import (
	"github.com/pgguru/pgbackrest/internal/cfgerr"
	"github.com/pgguru/pgbackrest/internal/inidoc"
	"github.com/pgguru/pgbackrest/internal/optlookup"
	"github.com/pgguru/pgbackrest/internal/rbslog"
	"github.com/pgguru/pgbackrest/internal/rule"
	"github.com/pgguru/pgbackrest/internal/slot"
)

const globalSection = "global"

type searchEntry struct {
	name      string
	isCommand bool
}

// searchList builds the ordered section search list (stanza:command,
// stanza, global:command, global) for the given stanza name (may be
// empty) and command name.
func searchList(stanza, cmdName string) []searchEntry {
	var list []searchEntry
	if stanza != "" {
		list = append(list, searchEntry{stanza + ":" + cmdName, true})
		list = append(list, searchEntry{stanza, false})
	}
	list = append(list, searchEntry{globalSection + ":" + cmdName, true})
	list = append(list, searchEntry{globalSection, false})
	return list
}

// Resolve walks doc's sections in priority order and fills slots not
// already found, for the given stanza, command, and role.
func Resolve(
	doc inidoc.Document, stanza string, cmd rule.Command, role rule.Role,
	t *rule.Table, idx *optlookup.Index, log rbslog.Logger, slots *slot.Table,
) error {
	cmdName := t.Commands[cmd].Name
	present := make(map[string]bool)
	for _, s := range doc.Sections() {
		present[s] = true
	}

	for _, entry := range searchList(stanza, cmdName) {
		if !present[entry.name] {
			continue
		}
		if err := resolveSection(doc, entry, cmd, role, t, idx, log, slots); err != nil {
			return err
		}
	}
	return nil
}

func resolveSection(
	doc inidoc.Document, entry searchEntry, cmd rule.Command, role rule.Role,
	t *rule.Table, idx *optlookup.Index, log rbslog.Logger, slots *slot.Table,
) error {
	isGlobal := entry.name == globalSection || hasCommandSuffix(entry.name, globalSection)
	seen := make(map[slot.Key]string) // key -> the alias name that first resolved it, within this section

	for _, key := range doc.Keys(entry.name) {
		found := idx.Lookup(key)
		if !found.Found {
			log.Warnf("unknown option '%s' in section [%s]", key, entry.name)
			continue
		}
		if found.Negate {
			log.Warnf("option '%s' in section [%s] uses the negate prefix, which has no effect in a config file", key, entry.name)
			continue
		}
		if found.Reset {
			log.Warnf("option '%s' in section [%s] uses the reset prefix, which has no effect in a config file", key, entry.name)
			continue
		}

		r := t.Options[found.OptionID]
		skey := slot.Key{OptionID: found.OptionID, KeyIdx: found.KeyIdx}

		if r.Section == rule.SectionCmdLineOnly {
			log.Warnf("option '%s' is command-line only and was found in section [%s]", key, entry.name)
			continue
		}
		if isGlobal && r.Section == rule.SectionStanzaOnly {
			log.Warnf("option '%s' may only be set in a stanza section, but was found in section [%s]", key, entry.name)
			continue
		}

		if prior, ok := seen[skey]; ok && prior != key {
			return cfgerr.ErrOptionInvalid{
				Option: key, Reason: "duplicate option: also set as '" + prior + "' in the same section",
			}
		}
		seen[skey] = key

		s := slots.Get(skey)
		if s.Found {
			continue
		}

		if !r.ValidForCommand(cmd, role) {
			if entry.isCommand {
				log.Warnf("option '%s' is not valid for command '%s' and was ignored", key, t.Commands[cmd].Name)
			}
			continue
		}

		values := doc.Values(entry.name, key)
		if len(values) == 0 || values[0] == "" {
			return cfgerr.ErrOptionInvalidValue{Option: key, Value: "", Reason: "value cannot be empty"}
		}
		if len(values) > 1 && !r.Multi {
			return cfgerr.ErrOptionInvalid{Option: key, Reason: "specified multiple times", Hint: "it does not accept multiple values"}
		}

		if r.Type == rule.TypeBoolean {
			switch values[0] {
			case "y":
				s.Found = true
				s.Source = slot.SourceConfig
			case "n":
				s.Found = true
				s.Negate = true
				s.Source = slot.SourceConfig
			default:
				return cfgerr.ErrOptionInvalidValue{Option: key, Value: values[0], Reason: "boolean option must be 'y' or 'n'"}
			}
			continue
		}

		s.Found = true
		s.Source = slot.SourceConfig
		s.Values = append(s.Values, values...)
	}
	return nil
}

func hasCommandSuffix(name, base string) bool {
	if len(name) <= len(base)+1 {
		return false
	}
	return name[:len(base)+1] == base+":"
}
