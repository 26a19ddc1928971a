//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package rule holds the statically declared, pure-data description of
// every command, command role, option group, and option rule that the
// engine resolves against. Nothing in this package parses anything; it is
// the table that every other component reads.
package rule

// Command identifies one of the closed set of commands the engine knows
// about.
type Command int

const (
	CmdNone Command = iota
	CmdHelp
	CmdVersion
	CmdBackup
	CmdRestore
	CmdCheck
	CmdArchivePush
	CmdArchiveGet
	CmdInfo
	CmdStanzaCreate
	cmdTotal
)

// Role is one of the four fixed command roles.
type Role int

const (
	RoleDefault Role = iota
	RoleAsync
	RoleLocal
	RoleRemote
	roleTotal
)

func (r Role) String() string {
	switch r {
	case RoleAsync:
		return "async"
	case RoleLocal:
		return "local"
	case RoleRemote:
		return "remote"
	default:
		return "default"
	}
}

// RoleMask is a bitmask over [Role], built with [RoleSet].
type RoleMask uint8

// RoleSet builds a [RoleMask] from the given roles.
func RoleSet(roles ...Role) RoleMask {
	var mask RoleMask
	for _, r := range roles {
		mask |= 1 << uint(r)
	}
	return mask
}

// Has reports whether role is set in the mask.
func (m RoleMask) Has(r Role) bool {
	return m&(1<<uint(r)) != 0
}

// CommandRule describes one command: which roles it may run under and
// whether it accepts positional parameters.
type CommandRule struct {
	Name             string
	ValidRoles       RoleMask
	ParameterAllowed bool
}

// GroupID identifies an option group.
type GroupID int

const (
	GroupNone GroupID = iota
	GroupPg
	GroupRepo
	groupTotal
)

// GroupRule describes an option group. MinKey is the externally-visible
// 1-based minimum key a member option may use; pgBackRest hard-codes this
// to 1 for the "pg" group for backward compatibility -- here it is data on
// the rule rather than a hard-coded special case, so other groups can
// carry a different minimum without a special case in the resolver.
type GroupRule struct {
	Name   string
	MinKey int
	// SelectorOption is the option_id of the group's default-selector
	// option (e.g. "pg" for group pg, "repo" for group repo), or -1 if
	// the group has none.
	SelectorOption int
}

// ValueType is the typed value domain of an option.
type ValueType int

const (
	TypeBoolean ValueType = iota
	TypeInteger
	TypeSize
	TypeTime
	TypeString
	TypePath
	TypeHash
	TypeList
)

// Section constrains where an option may be set outside the command line.
type Section int

const (
	SectionCmdLineOnly Section = iota
	SectionGlobalOrStanza
	SectionStanzaOnly
)

// KeyMax is the exclusive upper bound on a group's internal (0-based) key
// index: CFG_OPTION_KEY_MAX in the original source.
const KeyMax = 8

// OptionID identifies an option rule. The zero value is not a valid option.
type OptionID int

// Depend is a dependency predicate: the option is only meaningful once the
// option identified by On resolves to one of Values at the same dense
// group index (or, if Values is empty, to any non-null value).
type Depend struct {
	On     OptionID
	Values []string
}

// AllowRange is an inclusive [Min, Max] bound enforced on integer-typed
// values after coercion.
type AllowRange struct {
	Min, Max int64
}

// Override packs the per-command overrides a rule may carry: a different
// default, a different required flag, or both, scoped to one command.
type Override struct {
	Command     Command
	HasDefault  bool
	Default     string
	HasRequired bool
	Required    bool
}

// OptionRule is the declarative description of one option. The original's
// packed opaque-word data blob becomes these plain typed fields instead
// of a runtime-scanned array.
type OptionRule struct {
	ID       OptionID
	Name     string
	Type     ValueType
	Required bool
	Section  Section
	Secure   bool
	Multi    bool
	Group    bool
	GroupID  GroupID

	// ValidRoles[cmd] is the role mask for which this option is valid
	// under command cmd. A command absent from the map is entirely
	// invalid for this option.
	ValidRoles map[Command]RoleMask

	Default    string
	HasDefault bool

	AllowList  []string
	HasRange   bool
	AllowRange AllowRange

	HasDepend bool
	Depend    Depend

	Overrides []Override
}

// ValidForCommand reports whether the option is valid for the given
// (command, role) pair.
func (r *OptionRule) ValidForCommand(cmd Command, role Role) bool {
	mask, ok := r.ValidRoles[cmd]
	return ok && mask.Has(role)
}

// EffectiveDefault returns the default (and whether one exists) after
// applying any per-command override.
func (r *OptionRule) EffectiveDefault(cmd Command) (value string, ok bool) {
	for _, o := range r.Overrides {
		if o.Command == cmd && o.HasDefault {
			return o.Default, true
		}
	}
	return r.Default, r.HasDefault
}

// EffectiveRequired returns whether the option is required for the given
// command after applying any per-command override.
func (r *OptionRule) EffectiveRequired(cmd Command) bool {
	for _, o := range r.Overrides {
		if o.Command == cmd && o.HasRequired {
			return o.Required
		}
	}
	return r.Required
}

// Table is the full rule table: commands, roles, groups, options, and the
// pre-computed dependency-safe resolve order.
type Table struct {
	Commands map[Command]*CommandRule
	Groups   map[GroupID]*GroupRule
	Options  map[OptionID]*OptionRule

	// ByName maps an option's canonical name (without group index) to its
	// rule. For grouped options, Name is the un-indexed spelling
	// (e.g. "pg-path" for "pg1-path").
	ByName map[string]*OptionRule

	// ResolveOrder lists every OptionID in an order such that any
	// option's Depend.On target appears earlier: optionResolveOrder in
	// the original source, pre-computed here at table-build time instead
	// of being topologically walked at runtime.
	ResolveOrder []OptionID
}

// Lookup returns the rule for name, or nil if unknown.
func (t *Table) Lookup(name string) *OptionRule {
	return t.ByName[name]
}
