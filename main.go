package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alc6/mismo2schema/config"
	"github.com/alc6/mismo2schema/ddl"
	"github.com/alc6/mismo2schema/providers"
)

var (
	extractMode  bool
	infoMode     bool
	mcpMode      bool
	verbose      bool
	configPath   string
	outDir       string
	mappingsPath string
	containers   []string
	dialectName  string
	schemaName   string
	expandNested bool
	maxDepth     int
	verifyWith   string
	providerName string
)

var rootCmd = &cobra.Command{
	Use:   "mismo2schema [xsd-file-or-directory]",
	Short: "Derive a relational schema from MISMO XSD files",
	Long: `mismo2schema reads a MISMO XML schema (a single .xsd file or a directory of them)
and derives one table per top-level container (DEAL, LOAN, PROPERTY, PARTY,
BORROWER, ASSET, LIABILITY). It writes SQL DDL, an optional pass-through field
mapping CSV, and a DBML diagram of the derived tables.

Modes:
  generate mode (default): Writes artifacts to --out-dir or the configured bucket
  extract mode (-e): Outputs SQL CREATE statements
  info mode (--info): Shows the derived relational model
  mcp mode (--mcp): Run as Model Context Protocol server

--verify sqlite|postgres applies the generated DDL to a scratch database and
checks that every table, column and foreign key reads back as derived.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if mcpMode {
			return nil
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	Run: runMismo2Schema,
}

func main() {
	if err := run(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	setupLogging(slog.LevelInfo)
	registerFlags()

	return rootCmd.Execute()
}

func setupLogging(level slog.Level) {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func registerFlags() {
	flags := rootCmd.Flags()
	if flags.Lookup("extract") == nil {
		flags.BoolVarP(&extractMode, "extract", "e", false, "Extract schema as SQL CREATE statements")
	}
	if flags.Lookup("info") == nil {
		flags.BoolVar(&infoMode, "info", false, "Show the derived relational model")
	}
	if flags.Lookup("mcp") == nil {
		flags.BoolVar(&mcpMode, "mcp", false, "Run as Model Context Protocol server")
	}
	if flags.Lookup("verbose") == nil {
		flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	}
	if flags.Lookup("config") == nil {
		flags.StringVar(&configPath, "config", "", "Path to YAML config file")
	}
	if flags.Lookup("out-dir") == nil {
		flags.StringVarP(&outDir, "out-dir", "o", config.DefaultOutDir, "Directory for generated artifacts")
	}
	if flags.Lookup("mappings") == nil {
		flags.StringVarP(&mappingsPath, "mappings", "m", "", "Field mapping CSV to pass through")
	}
	if flags.Lookup("containers") == nil {
		flags.StringSliceVar(&containers, "containers", nil, "Top-level containers to derive (default DEAL,LOAN,PROPERTY,PARTY,BORROWER,ASSET,LIABILITY)")
	}
	if flags.Lookup("dialect") == nil {
		flags.StringVar(&dialectName, "dialect", config.DefaultDialect, "SQL dialect: postgres or sqlite")
	}
	if flags.Lookup("schema") == nil {
		flags.StringVar(&schemaName, "schema", config.DefaultSchema, "Postgres schema that qualifies table names")
	}
	if flags.Lookup("expand-nested") == nil {
		flags.BoolVar(&expandNested, "expand-nested", false, "Derive structured child elements as child tables")
	}
	if flags.Lookup("max-depth") == nil {
		flags.IntVar(&maxDepth, "max-depth", 0, "Nesting limit for --expand-nested (0 means unlimited)")
	}
	if flags.Lookup("verify") == nil {
		flags.StringVar(&verifyWith, "verify", "", "Apply the DDL to a scratch database: sqlite or postgres")
	}
	if flags.Lookup("provider") == nil {
		flags.StringVar(&providerName, "provider", config.DefaultProvider, "Schema provider for postgres verification: native or pg_dump")
	}
}

// loadConfig reads the config file, if any, and applies flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("out-dir") {
		cfg.OutDir = outDir
	}
	if flags.Changed("mappings") {
		cfg.Mappings = mappingsPath
	}
	if flags.Changed("containers") {
		cfg.Containers = make([]string, 0, len(containers))
		for _, c := range containers {
			if c = strings.TrimSpace(c); c != "" {
				cfg.Containers = append(cfg.Containers, c)
			}
		}
	}
	if flags.Changed("dialect") {
		cfg.Dialect = strings.ToLower(dialectName)
	}
	if flags.Changed("schema") {
		cfg.Schema = schemaName
	}
	if flags.Changed("expand-nested") {
		cfg.ExpandNested = expandNested
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = maxDepth
	}
	if flags.Changed("verify") {
		cfg.Verify.Backend = strings.ToLower(verifyWith)
	}
	if flags.Changed("provider") {
		cfg.Verify.Provider = providerName
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runMismo2Schema(cmd *cobra.Command, args []string) {
	if verbose {
		setupLogging(slog.LevelDebug)
	}

	if mcpMode {
		slog.Info("starting mcp server")
		if err := StartMCPServer(); err != nil {
			slog.Error("failed to start mcp server", "error", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var writer ArtifactWriter
	if !extractMode && !infoMode {
		writer, err = NewArtifactWriter(ctx, cfg)
		if err != nil {
			slog.Error("failed to create artifact writer", "error", err)
			os.Exit(1)
		}
	}

	var dbManager DatabaseManager
	if cfg.Verify.Backend != "" {
		dbManager, err = NewDatabaseManager(cfg.Verify.Backend, cfg.Verify.Image)
		if err != nil {
			slog.Error("failed to create database manager", "error", err)
			os.Exit(1)
		}
	}

	if err := processSchema(ctx, args[0], cfg, NewFileSchemaLoader(), writer, dbManager, cmd.OutOrStdout()); err != nil {
		slog.Error("failed to process schema", "error", err)
		os.Exit(1)
	}
}

func processSchema(ctx context.Context, input string, cfg *config.Config, loader SchemaLoader, writer ArtifactWriter, dbManager DatabaseManager, out io.Writer) error {
	slog.Info("processing schema input", "path", input)

	if _, err := os.Stat(input); os.IsNotExist(err) {
		return fmt.Errorf("schema input does not exist: %s", input)
	}

	slog.Info("parsing schema files")
	schema, err := loader.LoadSchema(input)
	if err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}

	if len(schema.Unresolved) > 0 {
		slog.Warn("schema references undeclared types", "types", schema.Unresolved)
	}
	slog.Info("loaded schema", "elements", len(schema.Elements), "types", len(schema.Types))

	gen, err := generate(schema, cfg)
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if gen.Model.Len() == 0 {
		slog.Warn("no allow-listed containers found in schema", "containers", cfg.Containers)
	}

	switch {
	case extractMode:
		fmt.Fprint(out, gen.DDL)
	case infoMode:
		fmt.Fprintln(out, "\n=== RELATIONAL MODEL ===")
		fmt.Fprint(out, ddl.FormatModel(gen.Model))
	default:
		if writer == nil {
			return fmt.Errorf("no artifact writer configured")
		}
		mappings, err := loadMappings(cfg.Mappings)
		if err != nil {
			return err
		}
		written, err := writeArtifacts(ctx, writer, gen, mappings)
		if err != nil {
			return fmt.Errorf("failed to write artifacts: %w", err)
		}
		for _, location := range written {
			fmt.Fprintln(out, location)
		}
	}

	if cfg.Verify.Backend == "" {
		return nil
	}
	if dbManager == nil {
		return fmt.Errorf("no database manager for verify backend: %s", cfg.Verify.Backend)
	}

	report, err := verifyModel(ctx, gen.Model, cfg, dbManager, providers.NewDefaultRegistry())
	if err != nil {
		return fmt.Errorf("failed to verify ddl: %w", err)
	}

	switch {
	case extractMode:
		fmt.Fprintln(out, "\n=== EXTRACTED DDL ===")
		fmt.Fprint(out, report.ExtractedSQL)
	case infoMode:
		fmt.Fprintln(out, "\n=== DATABASE SCHEMA ===")
		fmt.Fprint(out, providers.FormatSchemaInfo(report.Extracted))
	}

	fmt.Fprintln(out, "\n=== VERIFICATION ===")
	fmt.Fprint(out, report.String())
	if !report.OK() {
		return fmt.Errorf("generated ddl does not match the derived model")
	}
	return nil
}
