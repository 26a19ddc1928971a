//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package rule

// Option identifiers. The numeric values are arbitrary and stable only
// within a process; nothing persists them across builds.
const (
	OptNone OptionID = iota
	OptStanza
	OptPg
	OptPgPath
	OptPgPort
	OptPgHost
	OptRepo
	OptRepoPath
	OptRepoCipherPass
	OptRepoRetentionFull
	OptCompressLevel
	OptProcessMax
	OptBufferSize
	OptDbTimeout
	OptLogLevelConsole
	OptType
	OptTargetAction
	OptRecoveryOption
	OptExclude
	OptDelta
	OptOnline
	OptConfig
	OptConfigPath
	OptConfigIncludePath
)

var allCommands = []Command{
	CmdHelp, CmdVersion, CmdBackup, CmdRestore, CmdCheck,
	CmdArchivePush, CmdArchiveGet, CmdInfo, CmdStanzaCreate,
}

// allRoles is the full role mask, used by options valid under every role of
// every command they support.
var allRoles = RoleSet(RoleDefault, RoleAsync, RoleLocal, RoleRemote)

func rolesFor(cmds []Command, mask RoleMask) map[Command]RoleMask {
	out := make(map[Command]RoleMask, len(cmds))
	for _, c := range cmds {
		out[c] = mask
	}
	return out
}

// New builds the rule table used throughout this module. In the original
// source this data is generated at build time into parse.auto.c; here it is
// a plain Go literal, which is the idiomatic equivalent the REDESIGN FLAGS
// note in asks for.
func New() *Table {
	t := &Table{
		Commands: map[Command]*CommandRule{
			CmdHelp: {Name: "help", ValidRoles: RoleSet(RoleDefault), ParameterAllowed: true},
			CmdVersion: {Name: "version", ValidRoles: RoleSet(RoleDefault), ParameterAllowed: false},
			CmdBackup: {
				Name: "backup", ValidRoles: RoleSet(RoleDefault, RoleAsync, RoleLocal), ParameterAllowed: false,
			},
			CmdRestore: {
				Name: "restore", ValidRoles: RoleSet(RoleDefault, RoleLocal, RoleRemote), ParameterAllowed: false,
			},
			CmdCheck: {Name: "check", ValidRoles: RoleSet(RoleDefault), ParameterAllowed: false},
			CmdArchivePush: {
				Name: "archive-push", ValidRoles: RoleSet(RoleDefault, RoleAsync, RoleLocal, RoleRemote),
				ParameterAllowed: true,
			},
			CmdArchiveGet: {
				Name: "archive-get", ValidRoles: RoleSet(RoleDefault, RoleAsync, RoleLocal, RoleRemote),
				ParameterAllowed: true,
			},
			CmdInfo:         {Name: "info", ValidRoles: RoleSet(RoleDefault), ParameterAllowed: false},
			CmdStanzaCreate: {Name: "stanza-create", ValidRoles: RoleSet(RoleDefault), ParameterAllowed: false},
		},
		Groups: map[GroupID]*GroupRule{
			// The pg group keeps a hard 1-based minimum key of 1, matching
			// pgBackRest's backward-compatibility behavior, expressed here
			// as per-group data rather than a special case in the
			// resolver.
			GroupPg:   {Name: "pg", MinKey: 1, SelectorOption: int(OptPg)},
			GroupRepo: {Name: "repo", MinKey: 1, SelectorOption: int(OptRepo)},
		},
		Options: map[OptionID]*OptionRule{},
	}

	add := func(r *OptionRule) {
		t.Options[r.ID] = r
	}

	backupRestoreCheck := []Command{CmdBackup, CmdRestore, CmdCheck, CmdInfo, CmdStanzaCreate, CmdArchivePush, CmdArchiveGet}

	add(&OptionRule{
		ID: OptStanza, Name: "stanza", Type: TypeString, Section: SectionGlobalOrStanza,
		ValidRoles: rolesFor(backupRestoreCheck, allRoles),
		Required:   true,
		Overrides:  []Override{
			{Command: CmdInfo, HasRequired: true, Required: false},
			{Command: CmdArchivePush, HasRequired: true, Required: false},
			{Command: CmdArchiveGet, HasRequired: true, Required: false},
		},
	})

	add(&OptionRule{
		ID: OptPg, Name: "pg", Type: TypeInteger, Section: SectionGlobalOrStanza,
		ValidRoles: rolesFor([]Command{CmdBackup, CmdRestore, CmdCheck}, allRoles),
	})
	add(&OptionRule{
		ID: OptPgPath, Name: "pg-path", Type: TypePath, Section: SectionGlobalOrStanza,
		Group: true, GroupID: GroupPg, Required: true,
		ValidRoles: rolesFor([]Command{CmdBackup, CmdRestore, CmdCheck}, allRoles),
	})
	add(&OptionRule{
		ID: OptPgPort, Name: "pg-port", Type: TypeInteger, Section: SectionGlobalOrStanza,
		Group: true, GroupID: GroupPg,
		ValidRoles: rolesFor([]Command{CmdBackup, CmdRestore, CmdCheck}, allRoles),
		Default:    "5432", HasDefault: true,
		HasRange: true, AllowRange: AllowRange{Min: 1, Max: 65535},
	})
	add(&OptionRule{
		ID: OptPgHost, Name: "pg-host", Type: TypeString, Section: SectionGlobalOrStanza,
		Group: true, GroupID: GroupPg,
		ValidRoles: rolesFor([]Command{CmdBackup, CmdRestore, CmdCheck}, allRoles),
	})

	add(&OptionRule{
		ID: OptRepo, Name: "repo", Type: TypeInteger, Section: SectionGlobalOrStanza,
		ValidRoles: rolesFor(backupRestoreCheck, allRoles),
	})
	add(&OptionRule{
		ID: OptRepoPath, Name: "repo-path", Type: TypePath, Section: SectionGlobalOrStanza,
		Group: true, GroupID: GroupRepo,
		ValidRoles: rolesFor(backupRestoreCheck, allRoles),
		Default:    "/var/lib/pgbackrest", HasDefault: true,
	})
	add(&OptionRule{
		ID: OptRepoCipherPass, Name: "repo-cipher-pass", Type: TypeString, Section: SectionGlobalOrStanza,
		Group: true, GroupID: GroupRepo, Secure: true,
		ValidRoles: rolesFor(backupRestoreCheck, allRoles),
	})
	add(&OptionRule{
		ID: OptRepoRetentionFull, Name: "repo-retention-full", Type: TypeInteger, Section: SectionGlobalOrStanza,
		Group: true, GroupID: GroupRepo,
		ValidRoles: rolesFor([]Command{CmdBackup}, allRoles),
		HasRange:   true, AllowRange: AllowRange{Min: 1, Max: 9999999},
	})

	add(&OptionRule{
		ID: OptCompressLevel, Name: "compress-level", Type: TypeInteger, Section: SectionGlobalOrStanza,
		ValidRoles: rolesFor([]Command{CmdBackup, CmdArchivePush}, allRoles),
		Default:    "6", HasDefault: true,
		HasRange: true, AllowRange: AllowRange{Min: 0, Max: 9},
	})
	add(&OptionRule{
		ID: OptProcessMax, Name: "process-max", Type: TypeInteger, Section: SectionGlobalOrStanza,
		ValidRoles: rolesFor([]Command{CmdBackup, CmdRestore, CmdArchivePush, CmdArchiveGet}, allRoles),
		Default:    "1", HasDefault: true,
		HasRange: true, AllowRange: AllowRange{Min: 1, Max: 999},
	})
	add(&OptionRule{
		ID: OptBufferSize, Name: "buffer-size", Type: TypeSize, Section: SectionGlobalOrStanza,
		ValidRoles: rolesFor([]Command{CmdBackup, CmdRestore, CmdArchivePush, CmdArchiveGet}, allRoles),
		Default:    "1mb", HasDefault: true,
	})
	add(&OptionRule{
		ID: OptDbTimeout, Name: "db-timeout", Type: TypeTime, Section: SectionGlobalOrStanza,
		ValidRoles: rolesFor([]Command{CmdBackup, CmdRestore, CmdCheck}, allRoles),
		Default:    "1800", HasDefault: true,
	})
	add(&OptionRule{
		ID: OptLogLevelConsole, Name: "log-level-console", Type: TypeString, Section: SectionGlobalOrStanza,
		ValidRoles: rolesFor(allCommands, allRoles),
		Default:    "warn", HasDefault: true,
		AllowList: []string{"off", "error", "warn", "info", "detail", "debug", "trace"},
	})

	add(&OptionRule{
		ID: OptType, Name: "type", Type: TypeString, Section: SectionCmdLineOnly,
		ValidRoles: rolesFor([]Command{CmdRestore}, allRoles),
		Default:    "default", HasDefault: true,
		AllowList: []string{"default", "immediate", "name", "time", "xid", "lsn", "standby", "preserve"},
	})
	add(&OptionRule{
		ID: OptTargetAction, Name: "target-action", Type: TypeString, Section: SectionCmdLineOnly,
		ValidRoles: rolesFor([]Command{CmdRestore}, allRoles),
		AllowList:  []string{"pause", "promote", "shutdown"},
		HasDepend:  true, Depend: Depend{On: OptType, Values: []string{"time", "xid", "lsn"}},
	})
	add(&OptionRule{
		ID: OptRecoveryOption, Name: "recovery-option", Type: TypeHash, Section: SectionCmdLineOnly,
		Multi:      true,
		ValidRoles: rolesFor([]Command{CmdRestore}, allRoles),
		HasDepend:  true, Depend: Depend{On: OptType, Values: []string{"default", "immediate"}},
	})
	add(&OptionRule{
		ID: OptExclude, Name: "exclude", Type: TypeList, Section: SectionCmdLineOnly,
		Multi:      true,
		ValidRoles: rolesFor([]Command{CmdRestore}, allRoles),
	})
	add(&OptionRule{
		ID: OptDelta, Name: "delta", Type: TypeBoolean, Section: SectionGlobalOrStanza,
		ValidRoles: rolesFor([]Command{CmdBackup, CmdRestore}, allRoles),
		Default:    "false", HasDefault: true,
	})
	add(&OptionRule{
		ID: OptOnline, Name: "online", Type: TypeBoolean, Section: SectionGlobalOrStanza,
		ValidRoles: rolesFor([]Command{CmdBackup, CmdCheck}, allRoles),
		Default:    "true", HasDefault: true,
	})

	// config/config-path/config-include-path are command-line-only, never
	// appear in a config file (enforced by the caller since SectionCmdLineOnly
	// already forbids it), and are valid for every real command -- "help"
	// and "version" included, so `--config` can still be rejected sanely.
	add(&OptionRule{
		ID: OptConfig, Name: "config", Type: TypePath, Section: SectionCmdLineOnly,
		ValidRoles: rolesFor(allCommands, allRoles),
	})
	add(&OptionRule{
		ID: OptConfigPath, Name: "config-path", Type: TypePath, Section: SectionCmdLineOnly,
		ValidRoles: rolesFor(allCommands, allRoles),
		Default:    "/etc/pgbackrest", HasDefault: true,
	})
	add(&OptionRule{
		ID: OptConfigIncludePath, Name: "config-include-path", Type: TypePath, Section: SectionCmdLineOnly,
		ValidRoles: rolesFor(allCommands, allRoles),
		Default:    "/etc/pgbackrest/conf.d", HasDefault: true,
	})

	t.ByName = make(map[string]*OptionRule, len(t.Options))
	for _, r := range t.Options {
		t.ByName[r.Name] = r
	}

	t.ResolveOrder = topoOrder(t.Options)

	return t
}

// topoOrder returns every option id in an order where each option's
// Depend.On predecessor comes first, breaking ties by id for determinism.
// This materializes, once at table-build time, the walk the original
// source performs by scanning optionResolveOrder, so dependency
// validation never has to topologically sort at resolve time.
func topoOrder(options map[OptionID]*OptionRule) []OptionID {
	ids := make([]OptionID, 0, len(options))
	for id := range options {
		ids = append(ids, id)
	}
	// deterministic base order
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}

	var (
		order   []OptionID
		visited = make(map[OptionID]int) // 0=unvisited, 1=visiting, 2=done
	)
	var visit func(id OptionID)
	visit = func(id OptionID) {
		switch visited[id] {
		case 2:
			return
		case 1:
			// dependency cycle in the rule table; break it rather than
			// recursing forever -- this should never happen in a valid table.
			return
		}
		visited[id] = 1
		if r, ok := options[id]; ok && r.HasDepend {
			visit(r.Depend.On)
		}
		visited[id] = 2
		order = append(order, id)
	}
	for _, id := range ids {
		visit(id)
	}
	return order
}
