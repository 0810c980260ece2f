package config

import "log/slog"

// Arguments holds the flag values supplied on the command line. A zero value
// for a field means the flag was not given.
type Arguments struct {
	Host       string
	Database   string
	User       string
	Pass       Password
	Port       int
	Config     string
	Output     string
	Dialect    string
	Additional string

	Tables     []string
	SkipTables []string
	SkipFields []string
	Schema     string

	CaseModel string
	CaseFile  string
	CaseProp  string
	Lang      string

	NoAlias      bool
	NoInitModels bool
	NoWrite      bool
	Views        bool
	Singularize  bool
}

// File is the shape of the optional JSON config file.
type File struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	Dialect  string `json:"dialect"`
	Storage  string `json:"storage"`

	Directory  string         `json:"directory"`
	Additional map[string]any `json:"additional"`

	Tables     []string `json:"tables"`
	SkipTables []string `json:"skipTables"`
	SkipFields []string `json:"skipFields"`
	Schema     string   `json:"schema"`

	CaseModel string `json:"caseModel"`
	CaseFile  string `json:"caseFile"`
	CaseProp  string `json:"caseProp"`
	Lang      string `json:"lang"`

	NoAlias      bool `json:"noAlias"`
	NoInitModels bool `json:"noInitModels"`
	NoWrite      bool `json:"noWrite"`
	Views        bool `json:"views"`
	Singularize  bool `json:"singularize"`

	DialectOptions map[string]any `json:"dialectOptions"`
}

// Config is the fully resolved configuration handed to the generator.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Dialect  string
	Storage  string

	// Directory is empty when NoWrite is set.
	Directory  string
	Additional map[string]any

	// Nil slices and an empty Schema mean no filter.
	Tables     []string
	SkipTables []string
	SkipFields []string
	Schema     string

	CaseModel string
	CaseFile  string
	CaseProp  string
	Lang      string

	NoAlias      bool
	NoInitModels bool
	NoWrite      bool
	Views        bool
	Singularize  bool

	DialectOptions map[string]any
}

// LogValue implements slog.LogValuer. The password is never part of the
// logged representation.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("host", c.Host),
		slog.Int("port", c.Port),
		slog.String("database", c.Database),
		slog.String("username", c.Username),
		slog.String("dialect", c.Dialect),
		slog.String("storage", c.Storage),
		slog.String("directory", c.Directory),
		slog.Any("additional", c.Additional),
		slog.Any("tables", c.Tables),
		slog.Any("skipTables", c.SkipTables),
		slog.Any("skipFields", c.SkipFields),
		slog.String("schema", c.Schema),
		slog.String("caseModel", c.CaseModel),
		slog.String("caseFile", c.CaseFile),
		slog.String("caseProp", c.CaseProp),
		slog.String("lang", c.Lang),
		slog.Bool("noAlias", c.NoAlias),
		slog.Bool("noInitModels", c.NoInitModels),
		slog.Bool("noWrite", c.NoWrite),
		slog.Bool("views", c.Views),
		slog.Bool("singularize", c.Singularize),
	)
}

// Recognized enum values.
var (
	CaseOptions = []string{"c", "l", "o", "p", "u"}
	LangOptions = []string{"es5", "es6", "esm", "ts"}
)
