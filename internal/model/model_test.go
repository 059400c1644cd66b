package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportEntry_IsNamespace(t *testing.T) {
	assert.True(t, ImportEntry{Alias: "util", Imports: []string{"*"}}.IsNamespace())
	assert.False(t, ImportEntry{Imports: []string{"helper"}}.IsNamespace())
	assert.False(t, ImportEntry{}.IsNamespace())
}

func TestParsedModule_FindFunction(t *testing.T) {
	mod := &ParsedModule{
		FunctionTree: []FunctionGraphNode{
			{Fn: DefinedFunction{Name: "main"}},
			{Fn: DefinedFunction{Name: "hack", Namespace: "ns"}},
		},
	}

	fn, ok := mod.FindFunction("main")
	assert.True(t, ok)
	assert.Equal(t, "main", fn.Fn.Name)

	_, ok = mod.FindFunction("missing")
	assert.False(t, ok)

	// A namespaced declaration (e.g. a class method recorded with a
	// namespace) is never returned by name alone.
	_, ok = mod.FindFunction("hack")
	assert.False(t, ok)
}

func TestDefinedFunction_StructuralEquality(t *testing.T) {
	a := DefinedFunction{Name: "hack", Namespace: "ns", FilePath: "main.js"}
	b := DefinedFunction{Name: "hack", Namespace: "ns", FilePath: "main.js"}
	c := DefinedFunction{Name: "hack", Namespace: "ns", FilePath: "lib.js"}

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	set := map[DefinedFunction]bool{a: true}
	assert.True(t, set[b])
	assert.False(t, set[c])
}
