//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package optlookup resolves a raw option name -- as typed on the command
// line, in an environment variable, or in a config file key -- to an
// (option_id, key_idx, flags) tuple, including the `no-`/`reset-`
// prefixes, deprecated aliases, and the group-index forms like
// `pg3-path`.
//
// The original multiplexes these into one packed integer return value;
// here [Result] is a small struct instead.
package optlookup
