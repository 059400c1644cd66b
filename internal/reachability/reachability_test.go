package reachability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scarbo87/scriptram/internal/model"
)

func mod(path string, nodes ...model.FunctionGraphNode) *model.ParsedModule {
	return &model.ParsedModule{FilePath: path, FunctionTree: nodes}
}

func TestFindAllCalledFunctions_ResolvesLocalCalls(t *testing.T) {
	modules := []*model.ParsedModule{
		mod("",
			model.FunctionGraphNode{
				Fn: model.DefinedFunction{Name: "main"},
				CalledFunctions: []model.DefinedFunction{
					{Name: "helper"},
					{Namespace: "ns", Name: "hack"},
				},
			},
			model.FunctionGraphNode{Fn: model.DefinedFunction{Name: "helper"}},
		),
	}

	resolved, unresolved := FindAllCalledFunctions(modules, nil)
	assert.Contains(t, resolved, model.DefinedFunction{Name: "main"})
	assert.Contains(t, resolved, model.DefinedFunction{Name: "helper"})
	assert.Contains(t, unresolved, model.DefinedFunction{Namespace: "ns", Name: "hack"})
}

func TestFindAllCalledFunctions_ResolvedAndUnresolvedAreDisjoint(t *testing.T) {
	modules := []*model.ParsedModule{
		mod("",
			model.FunctionGraphNode{
				Fn:              model.DefinedFunction{Name: "main"},
				CalledFunctions: []model.DefinedFunction{{Namespace: "ns", Name: "hack"}},
			},
		),
	}
	resolved, unresolved := FindAllCalledFunctions(modules, nil)
	for _, r := range resolved {
		for _, u := range unresolved {
			assert.NotEqual(t, r, u)
		}
	}
}

func TestFindAllCalledFunctions_FollowsImportedModule(t *testing.T) {
	entry := mod("",
		model.FunctionGraphNode{
			Fn:              model.DefinedFunction{Name: "main"},
			CalledFunctions: []model.DefinedFunction{{Name: "helper"}},
		},
	)
	entry.ImportedModules = []model.ImportEntry{
		{FilePath: "lib.js", Imports: []string{"helper"}},
	}
	lib := mod("lib.js",
		model.FunctionGraphNode{
			Fn:              model.DefinedFunction{Name: "helper", FilePath: "lib.js"},
			CalledFunctions: []model.DefinedFunction{{Namespace: "ns", Name: "grow", FilePath: "lib.js"}},
		},
	)

	resolved, unresolved := FindAllCalledFunctions([]*model.ParsedModule{entry, lib}, nil)
	assert.Contains(t, resolved, model.DefinedFunction{Name: "helper"})
	assert.Contains(t, unresolved, model.DefinedFunction{Namespace: "ns", Name: "grow", FilePath: "lib.js"})
}

func TestFindAllCalledFunctions_CustomEntry(t *testing.T) {
	modules := []*model.ParsedModule{
		mod("",
			model.FunctionGraphNode{Fn: model.DefinedFunction{Name: "boot"}},
		),
	}
	entry := model.DefinedFunction{Name: "boot"}
	resolved, unresolved := FindAllCalledFunctions(modules, &entry)
	require.Empty(t, unresolved)
	assert.Equal(t, []model.DefinedFunction{{Name: "boot"}}, resolved)
}
