// Package costtable is the pure lookup accessor described in spec.md
// §4.4: a two-level mapping from identifiers (and sub-API identifiers)
// to either a constant cost or a function of the player state.
package costtable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scarbo87/scriptram/internal/model"
)

// Entry is one leaf of the table. Exactly one of Cost or Fn is
// meaningful for a leaf entry; Sub is set instead for a sub-API table.
type Entry struct {
	Cost float64
	Fn   func(model.PlayerState) float64
	Sub  Table
}

// Constant builds a fixed-cost leaf entry.
func Constant(cost float64) Entry { return Entry{Cost: cost} }

// PlayerScaled builds a leaf entry whose cost is a function of the
// player state, resolved at lookup time so pure callers never need to
// supply a player object up front.
func PlayerScaled(fn func(model.PlayerState) float64) Entry { return Entry{Fn: fn} }

// SubTable builds a nested sub-API entry, e.g. costTable["hacknet"].
func SubTable(sub Table) Entry { return Entry{Sub: sub} }

func (e Entry) resolve(player model.PlayerState) float64 {
	if e.Fn != nil {
		return e.Fn(player)
	}
	return e.Cost
}

// Table is the host-supplied, read-only cost table.
type Table map[string]Entry

// Lookup implements spec.md §4.4's generic lookup: a namespace with a
// dot in it uses its last segment as a sub-table key
// (costTable[subKey][name]); any other namespace (including empty)
// falls through to a bare top-level lookup of name, ignoring the
// namespace entirely. A miss costs 0.
func (t Table) Lookup(name, namespace string, player model.PlayerState) float64 {
	if idx := strings.LastIndex(namespace, "."); idx >= 0 {
		subKey := namespace[idx+1:]
		if top, ok := t[subKey]; ok && top.Sub != nil {
			if e, ok := top.Sub[name]; ok {
				return e.resolve(player)
			}
		}
		return 0
	}
	if e, ok := t[name]; ok {
		return e.resolve(player)
	}
	return 0
}

// SpecialEntry pre-bakes a fixed cost and entry type for a namespace
// that charges just for being referenced, regardless of which member
// is accessed on it (spec.md §4.4 step 1).
type SpecialEntry struct {
	Namespace string
	Name      string
	Type      model.EntryType
	Cost      float64
}

// Specials returns the fixed four-entry set spec.md §4.4 names:
// ns.hacknet, document, window, and ns.corporation. The costs below
// are illustrative placeholders: spec.md gives these only as symbolic
// constants (H, G, S, B) in its test scenarios, never literal numbers,
// so a real deployment would source them from the same host document
// LoadTable reads rather than this fixed slice.
func Specials() []SpecialEntry {
	return []SpecialEntry{
		{Namespace: "ns.hacknet", Name: "hacknet", Type: model.EntryNamespace, Cost: 4},
		{Namespace: "document", Name: "document", Type: model.EntryDOM, Cost: 25},
		{Namespace: "window", Name: "window", Type: model.EntryDOM, Cost: 25},
		{Namespace: "ns.corporation", Name: "corporation", Type: model.EntryNamespace, Cost: 0},
	}
}

// rawEntry is the on-disk shape of one table leaf or sub-table.
//
//	{"cost": 0.2}                     -> a constant leaf
//	{"sub": {"getPurchaseNodeCost": {"cost": 0}}} -> a sub-table
//
// There is no on-disk representation for PlayerScaled entries: a
// function can't be serialized. Callers that need player-scaled costs
// overlay them onto the Table LoadTable returns, keyed by name, after
// loading the constant leaves a host document can express directly.
type rawEntry struct {
	Cost float64             `json:"cost"`
	Sub  map[string]rawEntry `json:"sub"`
}

// LoadTable parses a host-supplied cost table document (spec.md §4.4's
// "cost table collaborator"). Unknown shapes are rejected rather than
// silently defaulted to cost 0, so a malformed document fails at load
// time instead of understating every RAM calculation that uses it.
func LoadTable(data []byte) (Table, error) {
	var raw map[string]rawEntry
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing cost table: %w", err)
	}
	return buildTable(raw), nil
}

func buildTable(raw map[string]rawEntry) Table {
	t := make(Table, len(raw))
	for name, entry := range raw {
		if entry.Sub != nil {
			t[name] = SubTable(buildTable(entry.Sub))
			continue
		}
		t[name] = Constant(entry.Cost)
	}
	return t
}
