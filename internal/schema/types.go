package schema

// Schema is the introspected shape of a database.
type Schema struct {
	Dialect     string       `json:"dialect"`
	Tables      []Table      `json:"tables"`
	ForeignKeys []ForeignKey `json:"foreign_keys"`
}

type Table struct {
	Name        string   `json:"name"`
	Schema      string   `json:"schema"`
	IsView      bool     `json:"is_view"`
	Columns     []Column `json:"columns"`
	PrimaryKeys []string `json:"primary_keys"`
	Comment     string   `json:"comment"`
}

type Column struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	IsNullable    bool    `json:"is_nullable"`
	DefaultValue  *string `json:"default_value,omitempty"`
	IsPrimaryKey  bool    `json:"is_primary_key"`
	AutoIncrement bool    `json:"auto_increment"`
	Comment       string  `json:"comment"`
}

type ForeignKey struct {
	Name             string `json:"name"`
	Table            string `json:"table"`
	Column           string `json:"column"`
	ReferencedTable  string `json:"referenced_table"`
	ReferencedColumn string `json:"referenced_column"`
}

// Filter selects which tables and columns are introspected. Empty fields do
// not filter.
type Filter struct {
	Schema     string
	Tables     []string
	SkipTables []string
	SkipFields []string
	Views      bool
}

// IncludeTable reports whether a table passes the filter.
func (f Filter) IncludeTable(name string) bool {
	if len(f.Tables) > 0 && !contains(f.Tables, name) {
		return false
	}
	return !contains(f.SkipTables, name)
}

// IncludeColumn reports whether a column passes the filter.
func (f Filter) IncludeColumn(name string) bool {
	return !contains(f.SkipFields, name)
}

// Table returns the named table, or nil.
func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
