//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package parsefile implements the File Loader: it applies
// the seven-case precedence table for --config/--config-path/
// --config-include-path, loads the main config file and every *.conf file
// from the include directory, and concatenates them for INI parsing.
package parsefile
