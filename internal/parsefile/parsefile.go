//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package parsefile

import (
	"errors"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/pgguru/pgbackrest/internal/cfgerr"
	"github.com/pgguru/pgbackrest/internal/fs"
	"github.com/pgguru/pgbackrest/internal/inidoc"
	"github.com/pgguru/pgbackrest/internal/rule"
	"github.com/pgguru/pgbackrest/internal/slot"
)

const (
	// DefaultConfigPath is the default for --config-path.
	DefaultConfigPath = "/etc/pgbackrest"
	// DefaultConfigFile is the default main config file path.
	DefaultConfigFile = DefaultConfigPath + "/pgbackrest.conf"
	// DefaultIncludeDirName is the subdirectory name searched for *.conf
	// include files under a config-path.
	DefaultIncludeDirName = "conf.d"
	// DefaultIncludePath is the default --config-include-path.
	DefaultIncludePath = DefaultConfigPath + "/" + DefaultIncludeDirName
	// LegacyConfigFile is the single extra path tried when the default
	// config file is missing and the user did not override any of
	// --config/--config-path/--config-include-path .
	LegacyConfigFile = "/etc/pgbackrest.conf"
)

var includeFileRe = regexp.MustCompile(`.+\.conf$`)

// Load applies the seven-case --config/--config-path/--config-include-path
// precedence table, using the slots already filled by the argument parser
// and environment scanner, then returns the concatenated bytes ready for
// INI parsing. A nil return means no file was loaded at all.
func Load(slots *slot.Table, fsys fs.FileSystem) ([]byte, error) {
	configSet, noConfig, configValue := readConfig(slots)
	includeSet, includeValue := readPathOption(slots, rule.OptConfigIncludePath)
	configPathSet, configPathValue := readPathOption(slots, rule.OptConfigPath)

	mainSpec, includeSpec := decide(configSet, noConfig, configValue, includeSet, includeValue, configPathSet, configPathValue)

	var parts [][]byte

	if !mainSpec.skip {
		data, err := loadOneFile(fsys, mainSpec.path, mainSpec.required)
		if err != nil {
			return nil, err
		}
		if data == nil && mainSpec.tryLegacy {
			data, err = loadOneFile(fsys, LegacyConfigFile, false)
			if err != nil {
				return nil, err
			}
		}
		if data != nil {
			parts = append(parts, data)
		}
	}

	if !includeSpec.skip {
		names, err := fsys.ListDir(includeSpec.path)
		switch {
		case err == nil:
			// fall through
		case isMissing(err) && !includeSpec.required:
			names = nil
		case isMissing(err) && includeSpec.required:
			return nil, err
		default:
			return nil, err
		}

		var confNames []string
		for _, n := range names {
			if includeFileRe.MatchString(n) {
				confNames = append(confNames, n)
			}
		}
		sort.Strings(confNames) // reproducibility only,

		for _, n := range confNames {
			full := path.Join(includeSpec.path, n)
			data, err := fsys.ReadFile(full)
			if err != nil {
				return nil, err
			}
			if err := inidoc.Validate(data); err != nil {
				return nil, cfgerr.ErrFileOpen{Path: full, Err: err}
			}
			parts = append(parts, data)
		}
	}

	if len(parts) == 0 {
		return nil, nil
	}
	return inidoc.Concat(parts), nil
}

type fileSpec struct {
	skip      bool
	required  bool
	path      string
	tryLegacy bool
}

type dirSpec struct {
	skip     bool
	required bool
	path     string
}

func decide(
	configSet, noConfig bool, configValue string,
	includeSet bool, includeValue string,
	configPathSet bool, configPathValue string,
) (fileSpec, dirSpec) {
	switch {
	case noConfig:
		switch {
		case includeSet:
			return fileSpec{skip: true}, dirSpec{required: true, path: includeValue}
		case configPathSet:
			return fileSpec{skip: true}, dirSpec{path: path.Join(configPathValue, DefaultIncludeDirName)}
		default:
			return fileSpec{skip: true}, dirSpec{skip: true}
		}

	case configSet:
		switch {
		case includeSet:
			return fileSpec{required: true, path: configValue}, dirSpec{required: true, path: includeValue}
		case configPathSet:
			return fileSpec{required: true, path: configValue},
				dirSpec{path: path.Join(configPathValue, DefaultIncludeDirName)}
		default:
			return fileSpec{required: true, path: configValue}, dirSpec{skip: true}
		}

	default:
		switch {
		case includeSet:
			return fileSpec{path: DefaultConfigFile}, dirSpec{required: true, path: includeValue}
		case configPathSet:
			return fileSpec{path: path.Join(configPathValue, "pgbackrest.conf")},
				dirSpec{path: path.Join(configPathValue, DefaultIncludeDirName)}
		default:
			return fileSpec{path: DefaultConfigFile, tryLegacy: true}, dirSpec{path: DefaultIncludePath}
		}
	}
}

// readConfig reports whether --config was set, whether it (or its negated
// form) means "no config", and its value when meaningfully set. An
// explicitly empty --config= is treated the same as --no-config, matching
// original_source's cfgFileLoadParam handling.
func readConfig(slots *slot.Table) (set, noConfig bool, value string) {
	s, ok := slots.Lookup(slot.Key{OptionID: rule.OptConfig})
	if !ok || !s.Found {
		return false, false, ""
	}
	if s.Negate {
		return false, true, ""
	}
	if len(s.Values) == 0 || s.Values[0] == "" {
		return false, true, ""
	}
	return true, false, s.Values[0]
}

func readPathOption(slots *slot.Table, id rule.OptionID) (set bool, value string) {
	s, ok := slots.Lookup(slot.Key{OptionID: id})
	if !ok || !s.Found || len(s.Values) == 0 {
		return false, ""
	}
	return true, strings.TrimSuffix(s.Values[0], "/")
}

func loadOneFile(fsys fs.FileSystem, p string, required bool) ([]byte, error) {
	data, err := fsys.ReadFile(p)
	switch {
	case err == nil:
		return data, nil
	case isMissing(err) && !required:
		return nil, nil
	default:
		return nil, err
	}
}

func isMissing(err error) bool {
	var fileMissing cfgerr.ErrFileMissing
	var pathMissing cfgerr.ErrPathMissing
	return errors.As(err, &fileMissing) || errors.As(err, &pathMissing)
}
