// Package ramcalc wires the module parser, link resolver,
// reachability walk, and cost table together into the four operations
// spec.md §6 names, and implements the cost reducer itself (spec.md
// §4.4's dedup, special-namespace, and generic-lookup steps).
package ramcalc

import (
	"context"

	"github.com/scarbo87/scriptram/internal/costtable"
	"github.com/scarbo87/scriptram/internal/jsast"
	"github.com/scarbo87/scriptram/internal/linker"
	"github.com/scarbo87/scriptram/internal/model"
	"github.com/scarbo87/scriptram/internal/reachability"
	"github.com/scarbo87/scriptram/internal/scriptparser"
)

// BaseCost is the fixed floor every successful calculation must clear
// (spec.md §8's base-cost floor property), prepended as the
// "baseCost" misc entry.
const BaseCost = 1.6

// Error codes returned as RamCalculation.Cost when CalculateRamUsage
// recovers a thrown error, per spec.md §7.
const (
	ErrCodeSyntax    = -1
	ErrCodeImport    = -2
	ErrCodeURLImport = -3
)

// CalculateRamUsage is the top-level operation (spec.md §6). It never
// returns a Go error: SyntaxError, ImportError, and URLImportError are
// all caught here and folded into a negative Cost with nil Entries, so
// a host UI can render "syntax error" in place of a number without a
// separate control-flow channel.
func CalculateRamUsage(ctx context.Context, player model.PlayerState, code string, otherScripts []model.ScriptFile, table costtable.Table) *model.RamCalculation {
	modules, err := linker.ParseAll(ctx, code, otherScripts)
	if err != nil {
		return &model.RamCalculation{Cost: errorCode(err)}
	}

	_, unresolved := reachability.FindAllCalledFunctions(modules, nil)
	return Reduce(unresolved, player, table)
}

func errorCode(err error) float64 {
	switch err.(type) {
	case *jsast.SyntaxError:
		return ErrCodeSyntax
	case *linker.ImportError:
		return ErrCodeImport
	case *linker.URLImportError:
		return ErrCodeURLImport
	default:
		return ErrCodeSyntax
	}
}

// Reduce implements the cost reducer (spec.md §4.4): dedup the
// unresolved call set by structural equality, classify each call by
// the fixed special-namespace table or the generic cost-table lookup,
// and sum against a prepended base cost.
func Reduce(unresolved []model.DefinedFunction, player model.PlayerState, table costtable.Table) *model.RamCalculation {
	seen := make(map[model.DefinedFunction]bool, len(unresolved))
	entries := []model.RamUsageEntry{{Type: model.EntryMisc, Name: "baseCost", Cost: BaseCost}}
	total := BaseCost

	specials := costtable.Specials()

	for _, call := range unresolved {
		if seen[call] {
			continue
		}
		seen[call] = true

		if special, ok := matchSpecial(specials, call.Namespace); ok {
			entries = append(entries, model.RamUsageEntry{Type: special.Type, Name: special.Name, Cost: special.Cost})
			total += special.Cost
			continue
		}

		cost := table.Lookup(call.Name, call.Namespace, player)
		entries = append(entries, model.RamUsageEntry{Type: model.EntryNamespace, Name: call.Name, Cost: cost})
		total += cost
	}

	return &model.RamCalculation{Cost: total, Entries: entries}
}

func matchSpecial(specials []costtable.SpecialEntry, namespace string) (costtable.SpecialEntry, bool) {
	for _, s := range specials {
		if s.Namespace == namespace {
			return s, true
		}
	}
	return costtable.SpecialEntry{}, false
}

// ParseScript re-exports the module parser (spec.md §6); errors
// propagate unwrapped, unlike CalculateRamUsage.
func ParseScript(code, filePath string) (*model.ParsedModule, error) {
	return scriptparser.ParseScript(code, filePath)
}

// ParseAll re-exports the link resolver (spec.md §6); errors propagate
// unwrapped, unlike CalculateRamUsage.
func ParseAll(ctx context.Context, code string, otherScripts []model.ScriptFile) ([]*model.ParsedModule, error) {
	return linker.ParseAll(ctx, code, otherScripts)
}

// FindAllCalledFunctions re-exports the reachability walk (spec.md §6).
func FindAllCalledFunctions(modules []*model.ParsedModule, entry *model.DefinedFunction) (resolved, unresolved []model.DefinedFunction) {
	return reachability.FindAllCalledFunctions(modules, entry)
}
