package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"dbauto/internal/auto"
	"dbauto/internal/prompt"
	"dbauto/pkg/config"

	"github.com/spf13/cobra"
)

// Deps are the process-level collaborators of the root command. Zero fields
// fall back to the real implementations.
type Deps struct {
	Logger    *slog.Logger
	NewRunner func(cfg *config.Config, logger *slog.Logger) auto.Runner
	Getwd     func() (string, error)
}

// NewRootCmd builds the dbauto command. Flag values are collected into a
// single config.Arguments value owned by the returned command.
func NewRootCmd(deps Deps) *cobra.Command {
	var args config.Arguments

	rootCmd := &cobra.Command{
		Use:   "dbauto",
		Short: "Generate ORM models from an existing database",
		Long: `A CLI tool that connects to a database and generates Sequelize model
definitions for every table it finds.

Examples:
  dbauto -h localhost -d shop -u root -x -e mysql -o ./models
  dbauto -d shop -h db.internal -e postgres -p 5433 --skipTables audit_log sessions
  dbauto -d ./app.sqlite -e sqlite -l ts --cm p --singularize
  dbauto -c ./dbauto.json -a ./additional.json`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateArguments(args)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(cmd.Context(), cmd, deps, args)
		},
	}

	flags := rootCmd.Flags()
	flags.SetNormalizeFunc(aliasNames)
	flags.SortFlags = false

	// -h belongs to --host, so help is long-only.
	flags.Bool("help", false, "help for dbauto")
	flags.StringVarP(&args.Host, "host", "h", "", "IP/Hostname for the database")
	flags.StringVarP(&args.Database, "database", "d", "", "Database name")
	flags.StringVarP(&args.User, "user", "u", "", "Username for database")
	flags.VarP(&passwordValue{p: &args.Pass}, "pass", "x", "Password for database; give no value (or end a flag group with it, e.g. -nx) to be prompted")
	flags.IntVarP(&args.Port, "port", "p", 0, "Port number for database (not for sqlite), defaults by dialect")
	flags.StringVarP(&args.Config, "config", "c", "", "Path to JSON file with connection and generation settings")
	flags.StringVarP(&args.Output, "output", "o", "", "What directory to place the models (default ./models)")
	flags.StringVarP(&args.Dialect, "dialect", "e", "", "The dialect/engine that you're using: postgres, mysql, mariadb, sqlite, mssql (default mysql)")
	flags.StringVarP(&args.Additional, "additional", "a", "", "Path to JSON file containing model options (for all tables)")
	flags.StringSliceVarP(&args.Tables, "tables", "t", nil, "Space-separated names of tables to import")
	flags.StringSliceVarP(&args.SkipTables, "skipTables", "T", nil, "Space-separated names of tables to skip")
	flags.StringSliceVarP(&args.SkipFields, "skipFields", "F", nil, "Space-separated names of fields to skip")
	flags.StringVar(&args.CaseModel, "caseModel", "", "Set case of model names: c|l|o|p|u (default o)")
	flags.StringVar(&args.CaseFile, "caseFile", "", "Set case of file names: c|l|o|p|u (default o)")
	flags.StringVar(&args.CaseProp, "caseProp", "", "Set case of property names: c|l|o|p|u (default o)")
	flags.BoolVar(&args.NoAlias, "noAlias", false, "Avoid creating alias 'as' property in relations")
	flags.BoolVar(&args.NoInitModels, "noInitModels", false, "Prevent writing the init-models file")
	flags.BoolVarP(&args.NoWrite, "noWrite", "n", false, "Prevent writing the models to disk")
	flags.StringVarP(&args.Schema, "schema", "s", "", "Database schema from which to retrieve tables")
	flags.BoolVarP(&args.Views, "views", "v", false, "Include database views in generated models")
	flags.StringVarP(&args.Lang, "lang", "l", "", "Language for model output: es5|es6|esm|ts (default es5)")
	flags.BoolVar(&args.Singularize, "singularize", false, "Singularize model and file names from plural table names")

	return rootCmd
}

// Execute runs the command against the process arguments.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd(Deps{})
	rootCmd.SetArgs(normalizeArgs(os.Args[1:]))
	return rootCmd.ExecuteContext(ctx)
}

func run(ctx context.Context, cmd *cobra.Command, deps Deps, args config.Arguments) error {
	logger := deps.Logger
	if logger == nil {
		logger = newLogger(os.Getenv("DBAUTO_LOG_LEVEL"), cmd.ErrOrStderr())
	}

	resolver := &config.Resolver{
		Prompter: &prompt.Terminal{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()},
		Logger:   logger,
		Getwd:    deps.Getwd,
	}
	cfg, err := resolver.Resolve(ctx, args)
	if err != nil {
		return err
	}

	newRunner := deps.NewRunner
	if newRunner == nil {
		newRunner = func(cfg *config.Config, logger *slog.Logger) auto.Runner {
			return auto.New(cfg, logger)
		}
	}
	return newRunner(cfg, logger).Run(ctx)
}

func newLogger(levelStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(outW, &slog.HandlerOptions{Level: level}))
}
