package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dbauto/internal/auto"
	"dbauto/pkg/config"

	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	err  error
	runs int
}

func (f *fakeRunner) Run(context.Context) error {
	f.runs++
	return f.err
}

type result struct {
	cfg    *config.Config
	runner *fakeRunner
	out    string
	logs   string
	err    error
}

func execute(t *testing.T, stdin string, runErr error, args ...string) result {
	t.Helper()

	var out, logs bytes.Buffer
	res := result{runner: &fakeRunner{err: runErr}}

	rootCmd := NewRootCmd(Deps{
		Logger: slog.New(slog.NewJSONHandler(&logs, nil)),
		NewRunner: func(cfg *config.Config, _ *slog.Logger) auto.Runner {
			res.cfg = cfg
			return res.runner
		},
		Getwd: func() (string, error) { return "/work", nil },
	})
	rootCmd.SetArgs(normalizeArgs(args))
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	res.err = rootCmd.ExecuteContext(context.Background())
	res.out = out.String()
	res.logs = logs.String()
	return res
}

func writeConfig(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "dbauto.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestRoot_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"database and host", []string{"-d", "db1", "-h", "localhost"}, false},
		{"sqlite without host", []string{"-d", "db1", "-e", "sqlite"}, false},
		{"database alone", []string{"-d", "db1"}, true},
		{"host alone", []string{"--host", "localhost"}, true},
		{"nothing", nil, true},
		{"bad case", []string{"-d", "db1", "-h", "h", "--cm", "x"}, true},
		{"bad lang", []string{"-d", "db1", "-h", "h", "-l", "coffee"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, "", nil, tt.args...)
			if tt.wantErr {
				require.Error(t, res.err)
				require.Contains(t, res.out, "Usage:")
				require.Zero(t, res.runner.runs)
				return
			}
			require.NoError(t, res.err)
			require.Equal(t, 1, res.runner.runs)
		})
	}
}

func TestValidateArguments_ConfigAlone(t *testing.T) {
	t.Parallel()

	require.NoError(t, validateArguments(config.Arguments{Config: "/path/to/file.json"}))
	require.ErrorIs(t, validateArguments(config.Arguments{Database: "db1"}), errMissingConnection)
}

func TestRoot_PromptsForPassword(t *testing.T) {
	t.Parallel()

	res := execute(t, "s3cret\n", nil, "-d", "db1", "-h", "localhost", "--pass")
	require.NoError(t, res.err)
	require.Equal(t, "s3cret", res.cfg.Password)
	require.Equal(t, "Password: \n", res.out)
	require.NotContains(t, res.logs, "s3cret")
	require.NotContains(t, res.logs, "insecure")
}

func TestRoot_PromptShorthandBeforeFlag(t *testing.T) {
	t.Parallel()

	res := execute(t, "typed\n", nil, "-x", "-d", "db1", "-h", "localhost")
	require.NoError(t, res.err)
	require.Equal(t, "typed", res.cfg.Password)
}

func TestRoot_PromptInShorthandGroup(t *testing.T) {
	t.Parallel()

	res := execute(t, "typed\n", nil, "-d", "db1", "-h", "localhost", "-nx")
	require.NoError(t, res.err)
	require.Equal(t, "typed", res.cfg.Password)
	require.True(t, res.cfg.NoWrite)
}

func TestRoot_HelpIsLongOnly(t *testing.T) {
	t.Parallel()

	res := execute(t, "", nil, "--help")
	require.NoError(t, res.err)
	require.Contains(t, res.out, "--help")
	require.Contains(t, res.out, "-h, --host")
	require.Zero(t, res.runner.runs)
}

func TestRoot_LiteralPassword(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{
		{"--pass=secret123"},
		{"--pass", "secret123"},
		{"-x", "secret123"},
		{"-xsecret123"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			res := execute(t, "never read\n", nil, append([]string{"-d", "db1", "-h", "localhost"}, args...)...)
			require.NoError(t, res.err)
			require.Equal(t, "secret123", res.cfg.Password)
			require.NotContains(t, res.out, "Password:")
			require.Contains(t, res.logs, "insecure")

			var logged struct {
				Config map[string]any `json:"config"`
			}
			for _, line := range strings.Split(strings.TrimSpace(res.logs), "\n") {
				if strings.Contains(line, "Resolved configuration") {
					require.NoError(t, json.Unmarshal([]byte(line), &logged))
				}
			}
			require.NotNil(t, logged.Config)
			require.NotContains(t, logged.Config, "password")
			require.NotContains(t, res.logs, "secret123")
		})
	}
}

func TestRoot_DigitPasswordStaysText(t *testing.T) {
	t.Parallel()

	res := execute(t, "", nil, "-d", "db1", "-h", "localhost", "-x", "000123")
	require.NoError(t, res.err)
	require.Equal(t, "000123", res.cfg.Password)
}

func TestRoot_Precedence(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, map[string]any{
		"database":   "shop",
		"dialect":    "mysql",
		"skipTables": []string{"c", "d"},
		"directory":  "/srv/models",
	})

	res := execute(t, "", nil, "-c", path, "--dialect=postgres", "--skipTables", "a", "b", "-v")
	require.NoError(t, res.err)
	require.Equal(t, "postgres", res.cfg.Dialect)
	require.Equal(t, 5432, res.cfg.Port)
	require.Equal(t, []string{"a", "b"}, res.cfg.SkipTables)
	require.Equal(t, "/srv/models", res.cfg.Directory)
	require.True(t, res.cfg.Views)

	res = execute(t, "", nil, "-c", path)
	require.NoError(t, res.err)
	require.Equal(t, "mysql", res.cfg.Dialect)
	require.Equal(t, 3306, res.cfg.Port)
	require.Equal(t, []string{"c", "d"}, res.cfg.SkipTables)
}

func TestRoot_Aliases(t *testing.T) {
	t.Parallel()

	res := execute(t, "", nil,
		"-d", "db1", "-h", "h",
		"--cm", "p", "--cf", "l", "--cp", "c",
		"-sg", "-n", "--noAlias", "--noInitModels",
		"-t", "users", "posts", "-F", "created_at",
		"-s", "sales", "-p", "3307", "-u", "admin", "-l", "ts",
	)
	require.NoError(t, res.err)

	cfg := res.cfg
	require.Equal(t, "p", cfg.CaseModel)
	require.Equal(t, "l", cfg.CaseFile)
	require.Equal(t, "c", cfg.CaseProp)
	require.True(t, cfg.Singularize)
	require.True(t, cfg.NoWrite)
	require.Empty(t, cfg.Directory)
	require.True(t, cfg.NoAlias)
	require.True(t, cfg.NoInitModels)
	require.Equal(t, []string{"users", "posts"}, cfg.Tables)
	require.Equal(t, []string{"created_at"}, cfg.SkipFields)
	require.Equal(t, "sales", cfg.Schema)
	require.Equal(t, 3307, cfg.Port)
	require.Equal(t, "admin", cfg.Username)
	require.Equal(t, "ts", cfg.Lang)
}

func TestRoot_LoadErrorSkipsRunner(t *testing.T) {
	t.Parallel()

	res := execute(t, "", nil, "-c", filepath.Join(t.TempDir(), "missing.json"))
	var loadErr *config.LoadError
	require.ErrorAs(t, res.err, &loadErr)
	require.Zero(t, res.runner.runs)
	require.NotContains(t, res.out, "Usage:")
}

func TestRoot_RunnerError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	res := execute(t, "", boom, "-d", "db1", "-h", "localhost")
	require.ErrorIs(t, res.err, boom)
	require.NotContains(t, res.out, "Usage:")
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	logger := newLogger("warn", io.Discard)
	require.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	require.True(t, logger.Enabled(context.Background(), slog.LevelWarn))

	logger = newLogger("", io.Discard)
	require.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}
