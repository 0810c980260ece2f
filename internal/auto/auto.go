// Package auto turns a resolved configuration into model files: it
// introspects the database, renders the models and writes them out.
package auto

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dbauto/internal/database"
	"dbauto/internal/generators"
	"dbauto/internal/schema"
	"dbauto/pkg/config"
)

// Runner is the generation step that consumes a resolved configuration.
type Runner interface {
	Run(ctx context.Context) error
}

// Auto is the default Runner.
type Auto struct {
	cfg    *config.Config
	logger *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Auto {
	return &Auto{cfg: cfg, logger: logger}
}

func (a *Auto) Run(ctx context.Context) error {
	connector, err := database.NewConnector(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("failed to create database connector: %w", err)
	}
	defer connector.Close()

	sch, err := connector.ExtractSchema(ctx, schema.Filter{
		Schema:     a.cfg.Schema,
		Tables:     a.cfg.Tables,
		SkipTables: a.cfg.SkipTables,
		SkipFields: a.cfg.SkipFields,
		Views:      a.cfg.Views,
	})
	if err != nil {
		return fmt.Errorf("failed to extract schema: %w", err)
	}
	a.logger.DebugContext(ctx, "Extracted schema", "tables", len(sch.Tables), "foreign_keys", len(sch.ForeignKeys))

	files, err := generators.Generate(sch, generators.Options{
		Lang:         a.cfg.Lang,
		CaseModel:    a.cfg.CaseModel,
		CaseFile:     a.cfg.CaseFile,
		CaseProp:     a.cfg.CaseProp,
		Singularize:  a.cfg.Singularize,
		NoAlias:      a.cfg.NoAlias,
		NoInitModels: a.cfg.NoInitModels,
		Additional:   a.cfg.Additional,
	})
	if err != nil {
		return err
	}

	if a.cfg.NoWrite {
		a.logger.InfoContext(ctx, "Generated models without writing", "files", len(files))
		return nil
	}

	if err := os.MkdirAll(a.cfg.Directory, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, f := range files {
		path := filepath.Join(a.cfg.Directory, f.Name)
		if err := os.WriteFile(path, f.Content, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	a.logger.InfoContext(ctx, "Models generated",
		"directory", a.cfg.Directory,
		"tables", len(sch.Tables),
		"relationships", len(sch.ForeignKeys),
	)
	return nil
}
