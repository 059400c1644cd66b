// Package reachability implements the traversal in spec.md §4.3: from
// an entry function, classify every reached callee as resolved (a
// declaration we can recurse into) or unresolved (charged against the
// cost table).
package reachability

import (
	"strings"

	"github.com/scarbo87/scriptram/internal/model"
)

// DefaultEntry is the entry function used when the caller does not
// name one explicitly.
var DefaultEntry = model.DefinedFunction{Name: "main", Namespace: "", FilePath: ""}

// FindAllCalledFunctions runs the single worklist traversal described
// in spec.md §4.3. entry may be nil, in which case DefaultEntry is
// used. The two returned slices are disjoint under structural equality.
func FindAllCalledFunctions(modules []*model.ParsedModule, entry *model.DefinedFunction) (resolved, unresolved []model.DefinedFunction) {
	start := DefaultEntry
	if entry != nil {
		start = *entry
	}

	byPath := make(map[string]*model.ParsedModule, len(modules))
	for _, m := range modules {
		byPath[m.FilePath] = m
	}

	enqueued := map[model.DefinedFunction]bool{start: true}
	worklist := []model.DefinedFunction{start}

	for len(worklist) > 0 {
		current := worklist[0]
		worklist = worklist[1:]

		mod, ok := byPath[current.FilePath]
		if !ok {
			// The entry's own file path ("") is legitimate; any other
			// missing module means the callee's file was never
			// resolved and is silently dropped.
			continue
		}

		node, found := resolveNode(mod, current, byPath)
		if !found {
			unresolved = append(unresolved, current)
			continue
		}

		resolved = append(resolved, current)
		for _, callee := range node.CalledFunctions {
			if !enqueued[callee] {
				enqueued[callee] = true
				worklist = append(worklist, callee)
			}
		}
	}

	return resolved, unresolved
}

// resolveNode looks for current's declaration first in mod's own
// function tree, then through mod's imports into the module they name.
func resolveNode(mod *model.ParsedModule, current model.DefinedFunction, byPath map[string]*model.ParsedModule) (*model.FunctionGraphNode, bool) {
	for i := range mod.FunctionTree {
		if mod.FunctionTree[i].Fn == current {
			return &mod.FunctionTree[i], true
		}
	}

	for _, imp := range mod.ImportedModules {
		if imp.Alias != current.Namespace {
			continue
		}
		if !importsName(imp, current.Name) {
			continue
		}
		target, ok := byPath[strings.TrimPrefix(imp.FilePath, "./")]
		if !ok {
			continue
		}
		if fn, ok := target.FindFunction(current.Name); ok {
			return fn, true
		}
	}

	return nil, false
}

func importsName(imp model.ImportEntry, name string) bool {
	for _, n := range imp.Imports {
		if n == name || n == "*" {
			return true
		}
	}
	return false
}
