//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package slot holds the pre-resolution container for a single
// (option_id, key_idx) pair, the value the argument parser, environment
// scanner, and file section resolver each may fill before the dependency
// and type validator runs.
package slot

import "github.com/pgguru/pgbackrest/internal/rule"

// Source tags where a slot's value came from.
type Source int

const (
	SourceNone Source = iota
	SourceParam
	SourceConfig
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourceParam:
		return "param"
	case SourceConfig:
		return "config"
	case SourceDefault:
		return "default"
	default:
		return "none"
	}
}

// Key identifies a slot.
type Key struct {
	OptionID rule.OptionID
	KeyIdx   int
}

// Slot is one parsed (option_id, key_idx) entry.
type Slot struct {
	Found  bool
	Negate bool
	Reset  bool
	Source Source
	// Values holds the raw string values observed, in encounter order.
	// Single-valued options never have more than one entry.
	Values []string
}

// Table is the full set of slots observed during a single parse pass. The
// zero value is ready to use.
type Table struct {
	slots map[Key]*Slot
}

// Get returns the slot for key, creating it if necessary.
func (t *Table) Get(key Key) *Slot {
	if t.slots == nil {
		t.slots = make(map[Key]*Slot)
	}
	s, ok := t.slots[key]
	if !ok {
		s = &Slot{}
		t.slots[key] = s
	}
	return s
}

// Lookup returns the slot for key without creating it.
func (t *Table) Lookup(key Key) (*Slot, bool) {
	if t.slots == nil {
		return nil, false
	}
	s, ok := t.slots[key]
	return s, ok
}

// Keys returns every key with a slot, in no particular order.
func (t *Table) Keys() []Key {
	keys := make([]Key, 0, len(t.slots))
	for k := range t.slots {
		keys = append(keys, k)
	}
	return keys
}
