//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package section implements the File Section Resolver: it
// searches an INI document's sections in priority order
// (stanza:command, stanza, global:command, global) and fills slots not
// already set by a higher-precedence source.
package section
