package graphexport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scarbo87/scriptram/internal/model"
)

func TestFuncKey_DistinguishesByFilePathAndNamespace(t *testing.T) {
	a := model.DefinedFunction{Name: "hack", Namespace: "ns", FilePath: "main.js"}
	b := model.DefinedFunction{Name: "hack", Namespace: "ns", FilePath: "lib.js"}
	c := model.DefinedFunction{Name: "hack", Namespace: "", FilePath: "main.js"}

	assert.NotEqual(t, funcKey(a), funcKey(b))
	assert.NotEqual(t, funcKey(a), funcKey(c))
	assert.Equal(t, funcKey(a), funcKey(model.DefinedFunction{Name: "hack", Namespace: "ns", FilePath: "main.js"}))
}
