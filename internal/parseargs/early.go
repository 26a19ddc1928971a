//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package parseargs

import (
	"strings"

	"github.com/bassosimone/flagscanner"
)

// earlyHelp preflights tokens for -h, -?, or --help appearing anywhere
// before a valid command is resolved, and reports whether one was found.
// This lets -h/--help short-circuit the rest of parsing so a malformed
// command line still produces help instead of a parse error, matching
// original_source's cfgCmdHelp handling of a pre-command -h/-?/--help.
func earlyHelp(tokens []flagscanner.Token) bool {
	for _, tok := range tokens {
		opt, ok := tok.(flagscanner.OptionToken)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(opt.Name, "=")
		switch {
		case opt.Prefix == "--" && name == "help":
			return true
		case opt.Prefix == "-" && (name == "h" || name == "?"):
			return true
		}
	}
	return false
}
