// Package jsast is the AST front end: it turns source text into a
// tree-sitter parse tree tagged by node kind. Everything above this
// package treats tree-sitter as the "assumed external" front end
// spec.md describes and never depends on it directly.
package jsast

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// SyntaxError wraps a rejection from the AST front end.
type SyntaxError struct {
	FilePath string
	Reason   string
}

func (e *SyntaxError) Error() string {
	if e.FilePath == "" {
		return fmt.Sprintf("syntax error: %s", e.Reason)
	}
	return fmt.Sprintf("syntax error in %s: %s", e.FilePath, e.Reason)
}

// Tree is a parsed source file: the tree-sitter tree plus the source
// bytes needed to slice node text out of it.
type Tree struct {
	Source []byte
	Root   *sitter.Node
}

// Text returns the source text spanned by n.
func (t *Tree) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(t.Source[n.StartByte():n.EndByte()])
}

// Parse runs the AST front end once against code, requesting the
// latest JavaScript grammar. filePath is used only for error messages.
func Parse(ctx context.Context, code []byte, filePath string) (*Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, code)
	if err != nil {
		return nil, &SyntaxError{FilePath: filePath, Reason: err.Error()}
	}

	root := tree.RootNode()
	if root == nil {
		return nil, &SyntaxError{FilePath: filePath, Reason: "empty parse tree"}
	}
	if root.HasError() {
		return nil, &SyntaxError{FilePath: filePath, Reason: "source contains syntax errors"}
	}

	return &Tree{Source: code, Root: root}, nil
}
