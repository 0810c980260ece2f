package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	DefaultDialect = "mysql"
	DefaultHost    = "localhost"
	DefaultLang    = "es5"
	DefaultCase    = "o"
)

// Prompter reads a secret from the operator.
type Prompter interface {
	PromptSecret() (string, error)
}

// Resolver merges command-line arguments, the config file and defaults into
// a Config.
type Resolver struct {
	Prompter Prompter
	Logger   *slog.Logger
	// Getwd defaults to os.Getwd.
	Getwd func() (string, error)
}

// Resolve loads the referenced files, acquires the password and merges every
// source. Precedence is flag, then config file, then default. Nothing is
// returned unless resolution completes.
func (r *Resolver) Resolve(ctx context.Context, args Arguments) (*Config, error) {
	logger := r.logger()

	file := &File{}
	if args.Config != "" {
		f, err := LoadFile(args.Config)
		if err != nil {
			return nil, err
		}
		logger.DebugContext(ctx, "Loaded config file", "path", args.Config)
		file = f
	}

	additional := file.Additional
	if args.Additional != "" {
		a, err := LoadAdditional(args.Additional)
		if err != nil {
			return nil, err
		}
		logger.DebugContext(ctx, "Loaded additional options", "path", args.Additional)
		additional = a
	}
	if additional == nil {
		additional = map[string]any{}
	}

	password, err := r.password(ctx, args.Pass, file.Password)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Host:     firstString(args.Host, file.Host, DefaultHost),
		Database: firstString(args.Database, file.Database),
		Username: firstString(args.User, file.Username),
		Password: password,
		Dialect:  firstString(args.Dialect, file.Dialect, DefaultDialect),

		Additional: additional,

		Tables:     firstSlice(args.Tables, file.Tables),
		SkipTables: firstSlice(args.SkipTables, file.SkipTables),
		SkipFields: firstSlice(args.SkipFields, file.SkipFields),
		Schema:     firstString(args.Schema, file.Schema),

		CaseModel: firstString(args.CaseModel, file.CaseModel, DefaultCase),
		CaseFile:  firstString(args.CaseFile, file.CaseFile, DefaultCase),
		CaseProp:  firstString(args.CaseProp, file.CaseProp, DefaultCase),
		Lang:      firstString(args.Lang, file.Lang, DefaultLang),

		// An explicit false on the command line cannot turn off a true from
		// the config file.
		NoAlias:      args.NoAlias || file.NoAlias,
		NoInitModels: args.NoInitModels || file.NoInitModels,
		NoWrite:      args.NoWrite || file.NoWrite,
		Views:        args.Views || file.Views,
		Singularize:  args.Singularize || file.Singularize,

		DialectOptions: file.DialectOptions,
	}

	cfg.Port = firstInt(args.Port, file.Port, DefaultPort(cfg.Dialect))
	cfg.Storage = firstString(file.Storage, cfg.Database)

	if !cfg.NoWrite {
		dir, err := r.directory(args.Output, file.Directory)
		if err != nil {
			return nil, err
		}
		cfg.Directory = dir
	}

	logger.Log(ctx, confirmLevel(ctx, logger), "Resolved configuration", "config", cfg)
	return cfg, nil
}

// DefaultPort returns the conventional port for a dialect.
func DefaultPort(dialect string) int {
	switch dialect {
	case "mssql":
		return 1433
	case "postgres":
		return 5432
	default:
		return 3306
	}
}

// confirmLevel is the lowest of info, warn and error the logger emits, so
// the resolved configuration is shown even when the operator raised the
// log level.
func confirmLevel(ctx context.Context, logger *slog.Logger) slog.Level {
	for _, level := range []slog.Level{slog.LevelInfo, slog.LevelWarn} {
		if logger.Enabled(ctx, level) {
			return level
		}
	}
	return slog.LevelError
}

func (r *Resolver) password(ctx context.Context, pass Password, fromFile string) (string, error) {
	switch pass.Source {
	case PasswordPrompt:
		if r.Prompter == nil {
			return "", errors.WithStack(&PromptError{Err: errors.New("no prompter configured")})
		}
		secret, err := r.Prompter.PromptSecret()
		if err != nil {
			return "", errors.WithStack(&PromptError{Err: err})
		}
		return secret, nil
	case PasswordLiteral:
		r.logger().WarnContext(ctx, "Passing the password on the command line is insecure, use --pass without a value to be prompted")
		return pass.Value(), nil
	default:
		return fromFile, nil
	}
}

func (r *Resolver) directory(output, fromFile string) (string, error) {
	if dir := firstString(output, fromFile); dir != "" {
		return dir, nil
	}

	getwd := r.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	wd, err := getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to get working directory")
	}
	return filepath.Join(wd, "models"), nil
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstInt(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstSlice(vals ...[]string) []string {
	for _, v := range vals {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}
