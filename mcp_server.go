package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/alc6/mismo2schema/artifacts"
	"github.com/alc6/mismo2schema/config"
	"github.com/alc6/mismo2schema/relational"
)

// StartMCPServer starts the MCP server for schema generation
func StartMCPServer() error {
	s := server.NewMCPServer(
		"mismo2schema",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	generateDDLTool := mcp.NewTool("generate_ddl",
		mcp.WithDescription("Generate SQL DDL and a DBML diagram from MISMO XSD files"),
		mcp.WithString("xsd_path",
			mcp.Required(),
			mcp.Description("Path to an .xsd file or a directory of .xsd files"),
		),
		mcp.WithString("dialect",
			mcp.Description("SQL dialect (default: postgres)"),
			mcp.Enum("postgres", "sqlite"),
		),
		mcp.WithString("schema",
			mcp.Description("Postgres schema that qualifies table names (default: public)"),
		),
		mcp.WithString("containers",
			mcp.Description("Comma separated top-level containers (default: DEAL,LOAN,PROPERTY,PARTY,BORROWER,ASSET,LIABILITY)"),
		),
		mcp.WithBoolean("expand_nested",
			mcp.Description("Derive structured child elements as child tables"),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Nesting limit for expand_nested (default: 0, unlimited)"),
		),
	)

	s.AddTool(generateDDLTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGenerateDDL(ctx, request)
	})

	describeModelTool := mcp.NewTool("describe_model",
		mcp.WithDescription("Describe the relational model derived from MISMO XSD files as JSON"),
		mcp.WithString("xsd_path",
			mcp.Required(),
			mcp.Description("Path to an .xsd file or a directory of .xsd files"),
		),
		mcp.WithString("containers",
			mcp.Description("Comma separated top-level containers"),
		),
		mcp.WithBoolean("expand_nested",
			mcp.Description("Derive structured child elements as child tables"),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Nesting limit for expand_nested (default: 0, unlimited)"),
		),
	)

	s.AddTool(describeModelTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDescribeModel(ctx, request)
	})

	validateSchemaTool := mcp.NewTool("validate_schema",
		mcp.WithDescription("Parse MISMO XSD files and report which containers and types resolve, without generating DDL"),
		mcp.WithString("xsd_path",
			mcp.Required(),
			mcp.Description("Path to an .xsd file or a directory of .xsd files"),
		),
	)

	s.AddTool(validateSchemaTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleValidateSchema(ctx, request)
	})

	slog.Info("starting mismo2schema mcp server")
	return server.ServeStdio(s)
}

// toolConfig builds a run configuration from tool arguments.
func toolConfig(request mcp.CallToolRequest) (*config.Config, error) {
	cfg := &config.Config{
		Dialect:      strings.ToLower(request.GetString("dialect", config.DefaultDialect)),
		Schema:       request.GetString("schema", config.DefaultSchema),
		ExpandNested: request.GetBool("expand_nested", false),
		MaxDepth:     request.GetInt("max_depth", 0),
	}
	if list := request.GetString("containers", ""); list != "" {
		cfg.Containers = splitContainers(list)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitContainers(list string) []string {
	var names []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// handleGenerateDDL processes the generate_ddl tool request
func handleGenerateDDL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	xsdPath, err := request.RequireString("xsd_path")
	if err != nil {
		return mcp.NewToolResultError("xsd_path parameter is required"), nil
	}

	cfg, err := toolConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	output, err := generateDDLCore(ctx, xsdPath, cfg, NewFileSchemaLoader())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("ddl generated successfully:\n\n%s", output)), nil
}

// generateDDLCore contains the core logic for DDL generation, separated for testing
func generateDDLCore(ctx context.Context, xsdPath string, cfg *config.Config, loader SchemaLoader) (string, error) {
	gen, err := loadAndGenerate(xsdPath, cfg, loader)
	if err != nil {
		return "", err
	}

	writer := artifacts.NewMemoryWriter()
	if _, err := writeArtifacts(ctx, writer, gen, &artifacts.Mappings{}); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, name := range []string{artifacts.DDLFileName, artifacts.ERDFileName} {
		data, ok := writer.Get(name)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "-- %s\n%s\n", name, data)
	}
	return sb.String(), nil
}

func loadAndGenerate(xsdPath string, cfg *config.Config, loader SchemaLoader) (*Generation, error) {
	if _, err := os.Stat(xsdPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("schema input does not exist: %s", xsdPath)
	}

	schema, err := loader.LoadSchema(xsdPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	return generate(schema, cfg)
}

// handleDescribeModel processes the describe_model tool request
func handleDescribeModel(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	xsdPath, err := request.RequireString("xsd_path")
	if err != nil {
		return mcp.NewToolResultError("xsd_path parameter is required"), nil
	}

	cfg, err := toolConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	output, err := describeModelCore(xsdPath, cfg, NewFileSchemaLoader())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("model derived successfully:\n\n%s", output)), nil
}

type columnDescription struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	PrimaryKey bool   `json:"primary_key,omitempty"`
	Default    string `json:"default,omitempty"`
	References string `json:"references,omitempty"`
}

type tableDescription struct {
	Container string              `json:"container"`
	Name      string              `json:"name"`
	Parent    string              `json:"parent,omitempty"`
	Columns   []columnDescription `json:"columns"`
	Omitted   []string            `json:"omitted,omitempty"`
}

func describeTable(table *relational.Table) tableDescription {
	desc := tableDescription{
		Container: table.Container,
		Name:      table.Name,
		Omitted:   table.Omitted,
		Columns:   make([]columnDescription, 0, len(table.Columns)),
	}
	if table.Parent != nil {
		desc.Parent = table.Parent.Name
	}
	for _, col := range table.Columns {
		c := columnDescription{
			Name:       col.Name,
			Type:       col.Type.String(),
			PrimaryKey: col.IsPrimaryKey,
			References: col.References,
		}
		if col.Default != relational.DefaultNone {
			c.Default = col.Default.String()
		}
		desc.Columns = append(desc.Columns, c)
	}
	return desc
}

// describeModelCore contains the core logic for model description, separated for testing
func describeModelCore(xsdPath string, cfg *config.Config, loader SchemaLoader) (string, error) {
	gen, err := loadAndGenerate(xsdPath, cfg, loader)
	if err != nil {
		return "", err
	}

	tables := make([]tableDescription, 0, gen.Model.Len())
	for _, table := range gen.Model.Ordered() {
		tables = append(tables, describeTable(table))
	}

	result := map[string]interface{}{
		"dialect":     gen.Dialect.Name(),
		"table_count": len(tables),
		"tables":      tables,
	}

	jsonOutput, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result to JSON: %w", err)
	}

	return string(jsonOutput), nil
}

// handleValidateSchema processes the validate_schema tool request
func handleValidateSchema(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	xsdPath, err := request.RequireString("xsd_path")
	if err != nil {
		return mcp.NewToolResultError("xsd_path parameter is required"), nil
	}

	output, err := validateSchemaCore(xsdPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("schema validation completed:\n\n%s", output)), nil
}

// validateSchemaCore contains the core logic for schema validation, separated for testing
func validateSchemaCore(xsdPath string) (string, error) {
	info, err := os.Stat(xsdPath)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("schema input does not exist: %s", xsdPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat schema input: %w", err)
	}

	files := []string{xsdPath}
	if info.IsDir() {
		files, err = DiscoverSchemaFiles(xsdPath)
		if err != nil {
			return "", fmt.Errorf("failed to discover schema files: %w", err)
		}
	}

	result := map[string]interface{}{
		"valid":      true,
		"file_count": len(files),
		"files":      files,
	}

	if len(files) == 0 {
		result["valid"] = false
		result["element_count"] = 0
	} else {
		schema, err := NewFileSchemaLoader().LoadSchema(xsdPath)
		if err != nil {
			return "", fmt.Errorf("failed to load schema: %w", err)
		}

		var present, missing []string
		for _, name := range relational.DefaultContainers {
			if _, ok := schema.Lookup(name); ok {
				present = append(present, name)
			} else {
				missing = append(missing, name)
			}
		}

		result["element_count"] = len(schema.Elements)
		result["containers_present"] = present
		result["containers_missing"] = missing
		if len(schema.Unresolved) > 0 {
			result["unresolved_types"] = schema.Unresolved
		}
	}

	jsonOutput, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result to JSON: %w", err)
	}

	return string(jsonOutput), nil
}
