//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package parseenv implements the Environment Scanner: it
// sweeps the process environment, filters by the PGBACKREST_ prefix, maps
// each entry to an option, and fills slots not already set by the
// Argument Parser.
package parseenv
