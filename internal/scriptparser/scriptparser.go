// Package scriptparser implements the module parser (spec.md §4.1): a
// single top-level walk that extracts imports and top-level
// function/class declarations, plus a within-function walker that
// records one DefinedFunction per call/new/member-expression site.
package scriptparser

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/scarbo87/scriptram/internal/jsast"
	"github.com/scarbo87/scriptram/internal/model"
)

type parser struct {
	tree     *jsast.Tree
	filePath string
	module   *model.ParsedModule
}

// ParseScript runs the AST front end once over code and produces its
// ParsedModule. filePath labels every DefinedFunction produced from
// this file; it may be empty for the entry-point script.
func ParseScript(code string, filePath string) (*model.ParsedModule, error) {
	tree, err := jsast.Parse(context.Background(), []byte(code), filePath)
	if err != nil {
		return nil, err
	}

	p := &parser{
		tree:     tree,
		filePath: filePath,
		module:   &model.ParsedModule{FilePath: filePath},
	}
	p.walkTopLevel(tree.Root)
	return p.module, nil
}

// walkTopLevel dispatches each direct child of the program node: import
// declarations, function/class declarations, everything else ignored.
func (p *parser) walkTopLevel(root *sitter.Node) {
	count := int(root.ChildCount())
	for i := 0; i < count; i++ {
		p.dispatchTop(root.Child(i))
	}
}

func (p *parser) dispatchTop(node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "import_statement":
		p.handleImport(node)
	case "function_declaration", "generator_function_declaration":
		p.handleFunctionDecl(node)
	case "class_declaration":
		p.handleClassDecl(node)
	case "export_statement":
		// `export function f(){}` / `export default function(){}` /
		// `export class C{}` wrap the real declaration as a child.
		count := int(node.ChildCount())
		for i := 0; i < count; i++ {
			p.dispatchTop(node.Child(i))
		}
	default:
		// ignored: variable statements, expression statements, etc.
	}
}

func (p *parser) handleImport(node *sitter.Node) {
	strNode := firstChildOfType(node, "string")
	if strNode == nil {
		return
	}
	specifier := stripQuotes(p.tree.Text(strNode))

	clause := firstChildOfType(node, "import_clause")
	if clause == nil {
		return
	}

	if def := firstChildOfType(clause, "identifier"); def != nil {
		p.module.ImportedModules = append(p.module.ImportedModules, model.ImportEntry{
			FilePath: specifier,
			Alias:    p.tree.Text(def),
			Imports:  []string{"*"},
		})
		return
	}

	if ns := firstChildOfType(clause, "namespace_import"); ns != nil {
		alias := ""
		if id := firstChildOfType(ns, "identifier"); id != nil {
			alias = p.tree.Text(id)
		}
		p.module.ImportedModules = append(p.module.ImportedModules, model.ImportEntry{
			FilePath: specifier,
			Alias:    alias,
			Imports:  []string{"*"},
		})
		return
	}

	if named := firstChildOfType(clause, "named_imports"); named != nil {
		var names []string
		for _, spec := range allChildrenOfType(named, "import_specifier") {
			if ids := allChildrenOfType(spec, "identifier"); len(ids) > 0 {
				names = append(names, p.tree.Text(ids[0]))
			}
		}
		p.module.ImportedModules = append(p.module.ImportedModules, model.ImportEntry{
			FilePath: specifier,
			Alias:    "",
			Imports:  names,
		})
	}
}

func (p *parser) handleFunctionDecl(node *sitter.Node) {
	nameNode := firstChildOfType(node, "identifier")
	if nameNode == nil {
		return
	}
	fn := model.FunctionGraphNode{
		Fn: model.DefinedFunction{Name: p.tree.Text(nameNode), FilePath: p.filePath},
	}
	if body := firstChildOfType(node, "statement_block"); body != nil {
		p.walkFn(body, &fn)
	}
	p.module.FunctionTree = append(p.module.FunctionTree, fn)
}

func (p *parser) handleClassDecl(node *sitter.Node) {
	nameNode := firstChildOfType(node, "identifier")
	if nameNode == nil {
		return
	}
	fn := model.FunctionGraphNode{
		Fn: model.DefinedFunction{Name: p.tree.Text(nameNode), FilePath: p.filePath},
	}
	if body := firstChildOfType(node, "class_body"); body != nil {
		p.walkFn(body, &fn)
	}
	p.module.FunctionTree = append(p.module.FunctionTree, fn)
}

// walkFn is the within-function walker. It dispatches on call
// expression, new expression, and member expression, recording one
// DefinedFunction per match, then recurses into the matched node's
// remaining sub-tree so that nested chains produce multiple edges.
// Every other node kind falls through to the default recursive policy.
func (p *parser) walkFn(node *sitter.Node, fn *model.FunctionGraphNode) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "call_expression", "new_expression":
		callee := node.NamedChild(0)
		if name, ns := extractCallee(p.tree, callee); name != "" {
			fn.CalledFunctions = append(fn.CalledFunctions, model.DefinedFunction{
				Name: name, Namespace: ns, FilePath: p.filePath,
			})
		}
		p.walkCalleeChain(callee, fn)
		if args := firstChildOfType(node, "arguments"); args != nil {
			p.walkChildren(args, fn)
		}
	case "member_expression":
		if name, ns := extractCallee(p.tree, node); name != "" {
			fn.CalledFunctions = append(fn.CalledFunctions, model.DefinedFunction{
				Name: name, Namespace: ns, FilePath: p.filePath,
			})
		}
		p.walkChildren(node, fn)
	default:
		p.walkChildren(node, fn)
	}
}

// walkCalleeChain descends through a call/new expression's callee
// without re-classifying it: extractCallee already consumed the whole
// member-expression chain as a single site, so re-running walkFn on
// that same node would record it a second time (and, for a two-deep
// chain, record its inner member expression as a spurious third site).
// A call or new expression nested inside the chain (e.g. a
// `getHandler().foo()` shape) is still a genuine, distinct site, so it
// gets the normal full walk.
func (p *parser) walkCalleeChain(node *sitter.Node, fn *model.FunctionGraphNode) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "member_expression":
		p.walkCalleeChain(node.NamedChild(0), fn)
	case "call_expression", "new_expression":
		p.walkFn(node, fn)
	}
}

func (p *parser) walkChildren(node *sitter.Node, fn *model.FunctionGraphNode) {
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		p.walkFn(node.Child(i), fn)
	}
}

// extractCallee computes (name, namespace) for a call/new callee, or
// for a member expression evaluated on its own (the "standalone member
// expression" case in spec.md §4.1 is this same ladder applied to the
// member expression node itself). The three-case ladder is preserved
// literally: see spec.md §9's open question about the third rung.
func extractCallee(t *jsast.Tree, callee *sitter.Node) (name, namespace string) {
	if callee == nil {
		return "", ""
	}

	if callee.Type() == "identifier" {
		return t.Text(callee), ""
	}

	if callee.Type() != "member_expression" {
		return "", ""
	}

	object := callee.NamedChild(0)
	property := callee.NamedChild(1)
	name = t.Text(property)

	if object != nil && object.Type() == "member_expression" {
		outerObject := object.NamedChild(0)
		outerProperty := object.NamedChild(1)
		if outerObject != nil && outerObject.Type() == "identifier" {
			return name, t.Text(outerObject) + "." + t.Text(outerProperty)
		}
	}

	if object != nil {
		switch object.Type() {
		case "identifier":
			namespace = t.Text(object)
		case "call_expression":
			if inner := object.NamedChild(0); inner != nil && inner.Type() == "identifier" {
				namespace = t.Text(inner)
			}
		}
	}
	return name, namespace
}

func firstChildOfType(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		if c := node.Child(i); c != nil && c.Type() == kind {
			return c
		}
	}
	return nil
}

func allChildrenOfType(node *sitter.Node, kind string) []*sitter.Node {
	if node == nil {
		return nil
	}
	var out []*sitter.Node
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		if c := node.Child(i); c != nil && c.Type() == kind {
			out = append(out, c)
		}
	}
	return out
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			return s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}
