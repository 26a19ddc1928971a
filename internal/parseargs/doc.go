//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package parseargs is the Argument Parser: it consumes
// os.Args[1:]-style tokens and produces the command, role, help flag,
// positional parameters, and a filled-in [slot.Table].
//
// Built directly on github.com/bassosimone/flagscanner, used for exactly
// the purpose it serves: turning argv into a stream of option/positional
// tokens. Options are not registered ahead of time -- every option name is
// resolved against the shared [rule.Table] through [optlookup.Index],
// since the set of valid options depends on the rule table rather than on
// static per-parser configuration.
package parseargs
