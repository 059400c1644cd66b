package jsast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidSource(t *testing.T) {
	tree, err := Parse(context.Background(), []byte(`function main() { return 1; }`), "main.js")
	require.NoError(t, err)
	require.NotNil(t, tree.Root)
	assert.False(t, tree.Root.HasError())
}

func TestParse_SyntaxErrorRejected(t *testing.T) {
	_, err := Parse(context.Background(), []byte(`function main( {`), "main.js")
	require.Error(t, err)

	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, "main.js", syntaxErr.FilePath)
}

func TestTree_Text(t *testing.T) {
	tree, err := Parse(context.Background(), []byte(`function foo() {}`), "")
	require.NoError(t, err)

	fn := tree.Root.NamedChild(0)
	require.NotNil(t, fn)
	name := fn.ChildByFieldName("name")
	require.NotNil(t, name)
	assert.Equal(t, "foo", tree.Text(name))
}
