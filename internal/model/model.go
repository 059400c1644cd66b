// Package model holds the data shapes shared by every stage of the
// analyzer: module parser, link resolver, reachability walk, and cost
// reducer.
package model

// DefinedFunction is a fully-qualified reference to a declaration or a
// call site. Two values are equal iff Name, Namespace, and FilePath are
// all equal; that structural equality is the only comparison used
// against the call graph.
type DefinedFunction struct {
	Name      string
	Namespace string
	FilePath  string
}

// FunctionGraphNode is one declared function or class in a file.
// CalledFunctions preserves source order and may contain duplicates;
// order is not observable through the public contract.
type FunctionGraphNode struct {
	Fn              DefinedFunction
	CalledFunctions []DefinedFunction
}

// ImportEntry describes one import clause. Imports is either exactly
// ["*"] (namespace import, non-empty Alias) or a list of named
// bindings (Alias empty). No mixed form is representable.
type ImportEntry struct {
	FilePath string
	Alias    string
	Imports  []string
}

// IsNamespace reports whether this entry is a namespace-style import
// (`import * as X` or a default import, both recorded the same way).
func (e ImportEntry) IsNamespace() bool {
	return len(e.Imports) == 1 && e.Imports[0] == "*"
}

// ParsedModule is the output of the module parser for one source file.
// It is immutable after construction and lives only for the duration of
// a single CalculateRamUsage invocation.
type ParsedModule struct {
	FilePath        string
	ImportedModules []ImportEntry
	FunctionTree    []FunctionGraphNode
}

// FindFunction returns the node in m.FunctionTree whose declaration is
// named name and has an empty namespace, if any.
func (m *ParsedModule) FindFunction(name string) (*FunctionGraphNode, bool) {
	for i := range m.FunctionTree {
		if m.FunctionTree[i].Fn.Name == name && m.FunctionTree[i].Fn.Namespace == "" {
			return &m.FunctionTree[i], true
		}
	}
	return nil, false
}

// ScriptFile is the host contract for an auxiliary source file: any
// record with at least a filename and its source text.
type ScriptFile struct {
	Filename string
	Code     string
}

// RamUsageEntry is one line of a cost breakdown.
type RamUsageEntry struct {
	Type EntryType
	Name string
	Cost float64
}

// EntryType classifies a RamUsageEntry.
type EntryType string

const (
	EntryNamespace EntryType = "ns"
	EntryDOM       EntryType = "dom"
	EntryFunction  EntryType = "fn"
	EntryMisc      EntryType = "misc"
)

// RamCalculation is the final output of the cost reducer: a total and
// its per-API breakdown.
type RamCalculation struct {
	Cost    float64
	Entries []RamUsageEntry
}

// PlayerState is the opaque, host-supplied player object passed to
// player-dependent cost functions. The analyzer never inspects it; it
// only forwards it to the cost table's registered functions.
type PlayerState any
