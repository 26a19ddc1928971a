//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package rule is the declarative rule table: every command, role,
// option, group, and dependency pgBackRest's configuration system knows
// about. Adapted in spirit from the option/command declarations in
// original_source/src/config/parse.c (PARSE_RULE_COMMAND /
// PARSE_RULE_OPTION macros), re-architected as plain typed struct fields
// instead of a packed opaque-word blob walked at runtime.
package rule
