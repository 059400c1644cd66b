// Command scriptram is the CLI front end over the analyzer: a calc
// subcommand that prints a RAM breakdown, and an export-graph
// subcommand that loads the resolved call graph into Neo4j.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scarbo87/scriptram/internal/config"
	"github.com/scarbo87/scriptram/internal/costtable"
	"github.com/scarbo87/scriptram/internal/graphexport"
	"github.com/scarbo87/scriptram/internal/model"
	"github.com/scarbo87/scriptram/internal/ramcalc"
)

func main() {
	var (
		configPath    string
		codePath      string
		scriptsDir    string
		costTablePath string
		playerPath    string
		jsonOutput    bool
		neo4jClean    bool
	)

	rootCmd := &cobra.Command{
		Use:   "scriptram",
		Short: "Static RAM-cost analyzer for game scripts",
	}

	calcCmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute the RAM cost of a script",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(configPath, codePath, scriptsDir, costTablePath, playerPath, jsonOutput)
		},
	}
	calcCmd.Flags().StringVar(&configPath, "config", "", "Config file path (optional)")
	calcCmd.Flags().StringVar(&codePath, "code", "", "Path to the entry-point script")
	calcCmd.Flags().StringVar(&scriptsDir, "scripts", "", "Directory of auxiliary scripts the entry-point may import")
	calcCmd.Flags().StringVar(&costTablePath, "cost-table", "", "Path to the host cost table document (JSON)")
	calcCmd.Flags().StringVar(&playerPath, "player", "", "Path to a JSON document describing player state (optional)")
	calcCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full RamCalculation as JSON")
	_ = calcCmd.MarkFlagRequired("code")
	_ = calcCmd.MarkFlagRequired("cost-table")

	exportCmd := &cobra.Command{
		Use:   "export-graph",
		Short: "Load the resolved call graph and RAM breakdown into Neo4j",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportGraph(configPath, codePath, scriptsDir, costTablePath, playerPath, neo4jClean)
		},
	}
	exportCmd.Flags().StringVar(&configPath, "config", "", "Config file path")
	exportCmd.Flags().StringVar(&codePath, "code", "", "Path to the entry-point script")
	exportCmd.Flags().StringVar(&scriptsDir, "scripts", "", "Directory of auxiliary scripts the entry-point may import")
	exportCmd.Flags().StringVar(&costTablePath, "cost-table", "", "Path to the host cost table document (JSON)")
	exportCmd.Flags().StringVar(&playerPath, "player", "", "Path to a JSON document describing player state (optional)")
	exportCmd.Flags().BoolVar(&neo4jClean, "clean", false, "Clean existing script graph data before loading")
	_ = exportCmd.MarkFlagRequired("config")
	_ = exportCmd.MarkFlagRequired("code")
	_ = exportCmd.MarkFlagRequired("cost-table")

	rootCmd.AddCommand(calcCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runCalc(configPath, codePath, scriptsDir, costTablePath, playerPath string, jsonOutput bool) error {
	if configPath != "" {
		if _, err := config.Load(configPath); err != nil {
			return err
		}
	}

	code, err := os.ReadFile(codePath)
	if err != nil {
		return fmt.Errorf("reading entry script: %w", err)
	}

	scripts, err := loadScripts(scriptsDir)
	if err != nil {
		return err
	}

	table, err := loadCostTable(costTablePath)
	if err != nil {
		return err
	}

	player, err := loadPlayerState(playerPath)
	if err != nil {
		return err
	}

	calc := ramcalc.CalculateRamUsage(context.Background(), player, string(code), scripts, table)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(calc)
	}

	if calc.Entries == nil {
		fmt.Printf("error (code %.0f)\n", calc.Cost)
		return nil
	}
	fmt.Printf("total: %.2f GB\n", calc.Cost)
	for _, e := range calc.Entries {
		fmt.Printf("  %-6s %-30s %6.2f\n", e.Type, e.Name, e.Cost)
	}
	return nil
}

func runExportGraph(configPath, codePath, scriptsDir, costTablePath, playerPath string, clean bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Graph.URI == "" {
		return fmt.Errorf("graph.uri is not set in %s", configPath)
	}

	code, err := os.ReadFile(codePath)
	if err != nil {
		return fmt.Errorf("reading entry script: %w", err)
	}

	scripts, err := loadScripts(scriptsDir)
	if err != nil {
		return err
	}

	table, err := loadCostTable(costTablePath)
	if err != nil {
		return err
	}

	player, err := loadPlayerState(playerPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	modules, err := ramcalc.ParseAll(ctx, string(code), scripts)
	if err != nil {
		return fmt.Errorf("resolving import closure: %w", err)
	}

	_, unresolved := ramcalc.FindAllCalledFunctions(modules, nil)
	calc := ramcalc.Reduce(unresolved, player, table)

	loader, err := graphexport.NewLoader(ctx, cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password)
	if err != nil {
		return err
	}
	defer loader.Close()

	if clean {
		if err := loader.CleanGraph(); err != nil {
			return err
		}
	}
	if err := loader.CreateIndexes(); err != nil {
		return err
	}
	if err := loader.LoadModules(modules); err != nil {
		return err
	}
	if err := loader.LoadImports(modules); err != nil {
		return err
	}
	if err := loader.LoadFunctions(modules); err != nil {
		return err
	}
	if err := loader.LoadCalls(modules); err != nil {
		return err
	}
	if err := loader.LoadCharges(modules[0].FilePath, calc.Entries); err != nil {
		return err
	}

	fmt.Println("Done! Script graph loaded into Neo4j.")
	return nil
}

func loadScripts(dir string) ([]model.ScriptFile, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scripts dir: %w", err)
	}

	var scripts []model.ScriptFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		code, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		scripts = append(scripts, model.ScriptFile{Filename: e.Name(), Code: string(code)})
	}
	return scripts, nil
}

func loadCostTable(path string) (costtable.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cost table: %w", err)
	}
	return costtable.LoadTable(data)
}

func loadPlayerState(path string) (model.PlayerState, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading player state: %w", err)
	}
	var player any
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, fmt.Errorf("parsing player state: %w", err)
	}
	return player, nil
}
