// Package linker implements the link resolver (spec.md §4.2): a
// breadth-first closure over imports starting at the entry-point
// module, producing the full set of ParsedModule the reachability
// stage needs.
package linker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/scarbo87/scriptram/internal/model"
	"github.com/scarbo87/scriptram/internal/scriptparser"
)

// ImportError reports a non-URL import specifier that matched no file
// in the supplied set.
type ImportError struct {
	Path string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import not found: %s", e.Path)
}

// URLImportError reports any failure fetching or parsing a remote
// module.
type URLImportError struct {
	URL    string
	Reason string
}

func (e *URLImportError) Error() string {
	return fmt.Sprintf("failed to import %s: %s", e.URL, e.Reason)
}

// FileMatcher decides whether an import specifier refers to an
// auxiliary script's filename. Exposed as a collaborator so a host can
// tune the equivalence (spec.md §9's second open question) without
// touching the resolution loop.
type FileMatcher func(specifier, filename string) bool

// DefaultFileMatcher compares specifier and filename with any trailing
// extension stripped, and with a leading "./" removed from the
// specifier, so "libTest" and "./libTest.js" both match "libTest.js".
func DefaultFileMatcher(specifier, filename string) bool {
	return stripExt(strings.TrimPrefix(specifier, "./")) == stripExt(filename)
}

func stripExt(s string) string {
	return strings.TrimSuffix(s, filepath.Ext(s))
}

// Resolver holds the in-memory file set and collaborators used while
// resolving an import closure.
type Resolver struct {
	Files      []model.ScriptFile
	Matcher    FileMatcher
	HTTPClient *http.Client
}

// NewResolver builds a Resolver over files with sensible defaults.
func NewResolver(files []model.ScriptFile) *Resolver {
	return &Resolver{
		Files:      files,
		Matcher:    DefaultFileMatcher,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ParseAll parses code as the entry-point and transitively resolves
// every module it (or its dependencies) import, from otherScripts or
// from a URL. The first element of the returned slice is always the
// entry-point module.
func ParseAll(ctx context.Context, code string, otherScripts []model.ScriptFile) ([]*model.ParsedModule, error) {
	return NewResolver(otherScripts).Resolve(ctx, code)
}

// Resolve runs the breadth-first closure described in spec.md §4.2.
func (r *Resolver) Resolve(ctx context.Context, entryCode string) ([]*model.ParsedModule, error) {
	entry, err := scriptparser.ParseScript(entryCode, "")
	if err != nil {
		return nil, err
	}

	modules := []*model.ParsedModule{entry}
	seen := map[string]bool{"": true}

	var worklist []string
	for _, imp := range entry.ImportedModules {
		worklist = append(worklist, imp.FilePath)
	}

	for len(worklist) > 0 {
		raw := worklist[0]
		worklist = worklist[1:]

		norm := strings.TrimPrefix(raw, "./")
		if seen[norm] {
			continue
		}

		src, err := r.resolveSource(ctx, raw, norm)
		if err != nil {
			return nil, err
		}

		mod, err := scriptparser.ParseScript(src, norm)
		if err != nil {
			return nil, err
		}

		modules = append(modules, mod)
		seen[norm] = true
		for _, imp := range mod.ImportedModules {
			worklist = append(worklist, imp.FilePath)
		}
	}

	return modules, nil
}

func (r *Resolver) resolveSource(ctx context.Context, raw, norm string) (string, error) {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return r.fetchURL(ctx, raw)
	}
	for _, f := range r.Files {
		if r.Matcher(norm, f.Filename) {
			return f.Code, nil
		}
	}
	return "", &ImportError{Path: raw}
}

// fetchURL is the link resolver's only suspension point. The real
// module is degraded to a parseable text bundle: we fetch its body and
// parse it directly as a module, rather than evaluating it in a JS
// runtime and re-serializing its exported functions — this analyzer
// has no embedded JS VM to do that evaluation with, only a parser.
func (r *Resolver) fetchURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &URLImportError{URL: url, Reason: err.Error()}
	}

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return "", &URLImportError{URL: url, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &URLImportError{URL: url, Reason: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &URLImportError{URL: url, Reason: err.Error()}
	}
	return string(body), nil
}
