//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package group implements the Group Index Resolver: for
// each option group, it collapses the sparse set of key indices the user
// actually touched into a dense index map, and picks a default index from
// the group's selector option (e.g. "pg" for group "pg").
package group

import (
	"sort"
	"strconv"

	"github.com/pgguru/pgbackrest/internal/cfgerr"
	"github.com/pgguru/pgbackrest/internal/rule"
	"github.com/pgguru/pgbackrest/internal/slot"
)

// Resolved is the per-group result: the dense index map and default
// index for one option group.
type Resolved struct {
	Name  string
	Valid bool

	IndexTotal int
	// IndexMap[dense] is the sparse (0-based) key index that dense slot
	// maps to.
	IndexMap []int

	IndexDefault       int
	IndexDefaultExists bool
}

// DenseOf returns the dense index corresponding to sparse key index
// sparseKeyIdx, or false if that key was never set.
func (r *Resolved) DenseOf(sparseKeyIdx int) (int, bool) {
	for dense, sparse := range r.IndexMap {
		if sparse == sparseKeyIdx {
			return dense, true
		}
	}
	return 0, false
}

// Resolve computes the [Resolved] state for every group in t, given the
// slots filled by the parser/env/file stages and the current command/role.
func Resolve(t *rule.Table, cmd rule.Command, role rule.Role, slots *slot.Table) (map[rule.GroupID]*Resolved, error) {
	out := make(map[rule.GroupID]*Resolved, len(t.Groups))

	for id, g := range t.Groups {
		seen := map[int]bool{}
		for _, r := range t.Options {
			if !r.Group || r.GroupID != id {
				continue
			}
			for keyIdx := 0; keyIdx < rule.KeyMax; keyIdx++ {
				s, ok := slots.Lookup(slot.Key{OptionID: r.ID, KeyIdx: keyIdx})
				if !ok || !s.Found || s.Reset {
					continue
				}
				seen[keyIdx] = true
			}
		}

		resolved := &Resolved{Name: g.Name, Valid: groupValid(t, id, cmd, role)}

		if len(seen) == 0 {
			resolved.IndexTotal = 1
			resolved.IndexMap = []int{0}
		} else {
			sparse := make([]int, 0, len(seen))
			for k := range seen {
				sparse = append(sparse, k)
			}
			sort.Ints(sparse)
			resolved.IndexTotal = len(sparse)
			resolved.IndexMap = sparse
		}

		if err := resolveDefault(t, g, id, cmd, role, slots, resolved); err != nil {
			return nil, err
		}

		out[id] = resolved
	}

	return out, nil
}

// groupValid reports whether any member option of the group is valid for
// the active (command, role).
func groupValid(t *rule.Table, id rule.GroupID, cmd rule.Command, role rule.Role) bool {
	for _, r := range t.Options {
		if r.Group && r.GroupID == id && r.ValidForCommand(cmd, role) {
			return true
		}
	}
	return false
}

// resolveDefault consumes the group's default-selector option as a
// post-step, translating its numeric value to a dense index.
func resolveDefault(
	t *rule.Table, g *rule.GroupRule, id rule.GroupID, cmd rule.Command, role rule.Role,
	slots *slot.Table, resolved *Resolved,
) error {
	switch id {
	case rule.GroupPg:
		resolved.IndexDefaultExists = true
	case rule.GroupRepo:
		selectorRule := t.Options[rule.OptionID(g.SelectorOption)]
		resolved.IndexDefaultExists = selectorRule.ValidForCommand(cmd, role)
	}

	if g.SelectorOption <= 0 {
		return nil
	}
	selectorID := rule.OptionID(g.SelectorOption)
	s, ok := slots.Lookup(slot.Key{OptionID: selectorID, KeyIdx: 0})
	if !ok || !s.Found || len(s.Values) == 0 {
		return nil
	}

	n, err := strconv.Atoi(s.Values[0])
	if err != nil {
		return cfgerr.ErrOptionInvalidValue{
			Option: t.Options[selectorID].Name, Value: s.Values[0],
			Reason: "must be an integer group key",
		}
	}
	sparseKeyIdx := n - g.MinKey
	dense, ok := resolved.DenseOf(sparseKeyIdx)
	if !ok {
		return cfgerr.ErrOptionInvalidValue{
			Option: t.Options[selectorID].Name, Value: s.Values[0],
			Reason: "does not match a key in this group",
		}
	}
	resolved.IndexDefault = dense
	return nil
}
