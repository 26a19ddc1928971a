//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package warnings accumulates the non-fatal anomalies the resolution
// engine tolerates (unknown options in the environment, negate-prefixed
// keys in a config section, and so on) so a caller can inspect them after
// a successful resolve, in addition to seeing them logged as they occur.
package warnings

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Collector accumulates warnings without ever becoming a fatal error on its
// own; it is attached to the resolved Config rather than returned as the
// engine's error value.
type Collector struct {
	errs *multierror.Error
}

// Addf records a formatted warning.
func (c *Collector) Addf(format string, args ...any) {
	c.errs = multierror.Append(c.errs, &message{text: fmt.Sprintf(format, args...)})
}

// Len reports how many warnings were recorded.
func (c *Collector) Len() int {
	if c.errs == nil {
		return 0
	}
	return len(c.errs.Errors)
}

// Err returns the accumulated warnings as a single error, or nil if none
// were recorded.
func (c *Collector) Err() error {
	if c.errs == nil {
		return nil
	}
	return c.errs.ErrorOrNil()
}

// Messages returns every recorded warning's text, in order.
func (c *Collector) Messages() []string {
	if c.errs == nil {
		return nil
	}
	out := make([]string, 0, len(c.errs.Errors))
	for _, e := range c.errs.Errors {
		out = append(out, e.Error())
	}
	return out
}

type message struct{ text string }

func (m *message) Error() string { return m.text }
