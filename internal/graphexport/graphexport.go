// Package graphexport is the optional Neo4j sink described in
// SPEC_FULL.md §10: it adapts scarbo87-go-callgraph-neo4j's
// UNWIND-batch loader from Go packages/functions to script
// modules/functions and RAM charges.
package graphexport

import (
	"context"
	"fmt"
	"log"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/scarbo87/scriptram/internal/model"
)

// Loader loads a calculation's call graph into Neo4j using batch
// UNWIND queries, the way the teacher's Neo4jLoader does for Go call
// graphs.
type Loader struct {
	driver neo4j.DriverWithContext
	ctx    context.Context
}

// NewLoader connects to Neo4j and returns a ready-to-use loader.
func NewLoader(ctx context.Context, uri, user, password string) (*Loader, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	return &Loader{driver: driver, ctx: ctx}, nil
}

// Close releases the underlying Neo4j driver resources.
func (l *Loader) Close() {
	l.driver.Close(l.ctx)
}

func (l *Loader) runCypher(cypher string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(l.ctx, l.driver, cypher, params, neo4j.EagerResultTransformer)
	return err
}

// CleanGraph removes all previously loaded script-graph nodes and
// relationships.
func (l *Loader) CleanGraph() error {
	log.Println("Cleaning existing script graph data...")
	queries := []string{
		"MATCH ()-[r:CALLS]->() DELETE r",
		"MATCH ()-[r:CHARGED]->() DELETE r",
		"MATCH ()-[r:IMPORTS]->() DELETE r",
		"MATCH ()-[r:DECLARES]->() DELETE r",
		"MATCH (n:ScriptModule) DETACH DELETE n",
		"MATCH (n:ScriptFunction) DETACH DELETE n",
		"MATCH (n:RamCharge) DETACH DELETE n",
	}
	for _, q := range queries {
		if err := l.runCypher(q, nil); err != nil {
			return err
		}
	}
	return nil
}

// CreateIndexes ensures the required Neo4j indexes exist.
func (l *Loader) CreateIndexes() error {
	log.Println("Creating indexes...")
	indexes := []string{
		"CREATE INDEX script_module_path IF NOT EXISTS FOR (n:ScriptModule) ON (n.file_path)",
		"CREATE INDEX script_func_key IF NOT EXISTS FOR (n:ScriptFunction) ON (n.key)",
	}
	for _, q := range indexes {
		if err := l.runCypher(q, nil); err != nil {
			return err
		}
	}
	return nil
}

func funcKey(fn model.DefinedFunction) string {
	return fn.FilePath + "#" + fn.Namespace + "#" + fn.Name
}

// LoadModules upserts ScriptModule nodes for every module the link
// resolver produced.
func (l *Loader) LoadModules(modules []*model.ParsedModule) error {
	log.Printf("Loading %d modules...", len(modules))
	batch := make([]map[string]any, 0, len(modules))
	for _, m := range modules {
		batch = append(batch, map[string]any{"path": m.FilePath})
	}
	return l.runCypher(
		`UNWIND $batch AS row
		 MERGE (n:ScriptModule {file_path: row.path})`,
		map[string]any{"batch": batch},
	)
}

// LoadImports upserts IMPORTS relationships between modules.
func (l *Loader) LoadImports(modules []*model.ParsedModule) error {
	var batch []map[string]any
	for _, m := range modules {
		for _, imp := range m.ImportedModules {
			batch = append(batch, map[string]any{
				"from": m.FilePath,
				"to":   imp.FilePath,
			})
		}
	}
	log.Printf("Loading %d import edges...", len(batch))
	if len(batch) == 0 {
		return nil
	}
	return l.runCypher(
		`UNWIND $batch AS row
		 MERGE (a:ScriptModule {file_path: row.from})
		 MERGE (b:ScriptModule {file_path: row.to})
		 MERGE (a)-[:IMPORTS]->(b)`,
		map[string]any{"batch": batch},
	)
}

// LoadFunctions upserts ScriptFunction nodes and DECLARES edges from
// their owning module, for every declared function or class in every
// module.
func (l *Loader) LoadFunctions(modules []*model.ParsedModule) error {
	var batch []map[string]any
	for _, m := range modules {
		for _, node := range m.FunctionTree {
			batch = append(batch, map[string]any{
				"key":       funcKey(node.Fn),
				"name":      node.Fn.Name,
				"namespace": node.Fn.Namespace,
				"module":    m.FilePath,
			})
		}
	}
	log.Printf("Loading %d functions...", len(batch))
	if len(batch) == 0 {
		return nil
	}
	return l.runCypher(
		`UNWIND $batch AS row
		 MERGE (n:ScriptFunction {key: row.key})
		 SET n.name = row.name, n.namespace = row.namespace
		 WITH n, row
		 MATCH (m:ScriptModule {file_path: row.module})
		 MERGE (m)-[:DECLARES]->(n)`,
		map[string]any{"batch": batch},
	)
}

// LoadCalls upserts a CALLS relationship from every declared function
// to each of its call sites, creating a ScriptFunction node for any
// callee key not loaded yet (including unresolved API calls).
func (l *Loader) LoadCalls(modules []*model.ParsedModule) error {
	var batch []map[string]any
	for _, m := range modules {
		for _, node := range m.FunctionTree {
			for _, callee := range node.CalledFunctions {
				batch = append(batch, map[string]any{
					"caller": funcKey(node.Fn),
					"callee": funcKey(callee),
				})
			}
		}
	}
	log.Printf("Loading %d call edges...", len(batch))
	if len(batch) == 0 {
		return nil
	}
	return l.runCypher(
		`UNWIND $batch AS row
		 MERGE (caller:ScriptFunction {key: row.caller})
		 MERGE (callee:ScriptFunction {key: row.callee})
		 MERGE (caller)-[:CALLS]->(callee)`,
		map[string]any{"batch": batch},
	)
}

// LoadCharges upserts a RamCharge node per calculation entry and
// CHARGED edges from the entry-point module, so a host can diff RAM
// breakdowns across calculations in Cypher.
func (l *Loader) LoadCharges(entryPath string, entries []model.RamUsageEntry) error {
	log.Printf("Loading %d ram charges...", len(entries))
	batch := make([]map[string]any, 0, len(entries))
	for i, e := range entries {
		batch = append(batch, map[string]any{
			"id":   fmt.Sprintf("%s#%d#%s", entryPath, i, e.Name),
			"type": string(e.Type),
			"name": e.Name,
			"cost": e.Cost,
		})
	}
	if err := l.runCypher(
		`UNWIND $batch AS row
		 MERGE (n:RamCharge {charge_id: row.id})
		 SET n.type = row.type, n.name = row.name, n.cost = row.cost`,
		map[string]any{"batch": batch, "entry": entryPath},
	); err != nil {
		return err
	}

	return l.runCypher(
		`UNWIND $batch AS row
		 MATCH (m:ScriptModule {file_path: $entry}), (n:RamCharge {charge_id: row.id})
		 MERGE (m)-[:CHARGED]->(n)`,
		map[string]any{"batch": batch, "entry": entryPath},
	)
}
