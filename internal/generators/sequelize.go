package generators

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"dbauto/internal/schema"

	"github.com/Masterminds/sprig/v3"
)

// Options controls how models are rendered.
type Options struct {
	Lang         string
	CaseModel    string
	CaseFile     string
	CaseProp     string
	Singularize  bool
	NoAlias      bool
	NoInitModels bool
	Additional   map[string]any
}

// File is a rendered output file, relative to the output directory.
type File struct {
	Name    string
	Content []byte
}

type modelData struct {
	Lang       string
	ModelName  string
	TableName  string
	Schema     string
	Fields     []fieldData
	Additional map[string]any
}

type fieldData struct {
	Prop          string
	Column        string
	Type          string
	AllowNull     bool
	PrimaryKey    bool
	AutoIncrement bool
	DefaultValue  *string
	Comment       string
	RefModel      string
	RefKey        string
}

type initData struct {
	Lang   string
	Ext    string
	Models []initModel
	Assocs []assocData
}

type initModel struct {
	Var  string
	File string
}

type assocData struct {
	Source     string
	Target     string
	Kind       string
	Alias      string
	ForeignKey string
}

var funcs = template.FuncMap{
	"js": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}

var (
	modelTmpl = template.Must(template.New("model").Funcs(sprig.TxtFuncMap()).Funcs(funcs).Parse(modelTemplate))
	initTmpl  = template.Must(template.New("init").Funcs(sprig.TxtFuncMap()).Funcs(funcs).Parse(initModelsTemplate))
)

// Generate renders one model file per table and, unless disabled, an
// init-models file wiring the associations found in foreign keys.
func Generate(s *schema.Schema, opts Options) ([]File, error) {
	if opts.Lang == "" {
		opts.Lang = "es5"
	}
	n := namer{opts: opts}
	ext := extension(opts.Lang)

	var files []File
	for _, table := range s.Tables {
		data := modelData{
			Lang:       opts.Lang,
			ModelName:  n.model(table.Name),
			TableName:  table.Name,
			Schema:     table.Schema,
			Additional: opts.Additional,
		}
		for _, col := range table.Columns {
			f := fieldData{
				Prop:          n.prop(col.Name),
				Column:        col.Name,
				Type:          col.Type,
				AllowNull:     col.IsNullable,
				PrimaryKey:    col.IsPrimaryKey,
				AutoIncrement: col.AutoIncrement,
				DefaultValue:  col.DefaultValue,
				Comment:       col.Comment,
			}
			if fk := foreignKey(s, table.Name, col.Name); fk != nil {
				f.RefModel = fk.ReferencedTable
				f.RefKey = fk.ReferencedColumn
			}
			data.Fields = append(data.Fields, f)
		}

		var buf bytes.Buffer
		if err := modelTmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("failed to render model %s: %w", table.Name, err)
		}
		files = append(files, File{Name: n.file(table.Name) + ext, Content: buf.Bytes()})
	}

	if opts.NoInitModels {
		return files, nil
	}

	data := initData{Lang: opts.Lang, Ext: ext}
	for _, table := range s.Tables {
		data.Models = append(data.Models, initModel{Var: ident(n.model(table.Name)), File: n.file(table.Name)})
	}
	for _, fk := range s.ForeignKeys {
		if s.Table(fk.Table) == nil || s.Table(fk.ReferencedTable) == nil {
			continue
		}
		source, target := ident(n.model(fk.Table)), ident(n.model(fk.ReferencedTable))
		belongs := assocData{Source: source, Target: target, Kind: "belongsTo", ForeignKey: fk.Column}
		many := assocData{Source: target, Target: source, Kind: "hasMany", ForeignKey: fk.Column}
		if !opts.NoAlias {
			belongs.Alias = n.belongsToAlias(fk.Column)
			many.Alias = n.hasManyAlias(fk.Table)
		}
		data.Assocs = append(data.Assocs, belongs, many)
	}

	var buf bytes.Buffer
	if err := initTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render init-models: %w", err)
	}
	files = append(files, File{Name: "init-models" + ext, Content: buf.Bytes()})

	return files, nil
}

func extension(lang string) string {
	if lang == "ts" {
		return ".ts"
	}
	return ".js"
}

func foreignKey(s *schema.Schema, table, column string) *schema.ForeignKey {
	for i := range s.ForeignKeys {
		if s.ForeignKeys[i].Table == table && s.ForeignKeys[i].Column == column {
			return &s.ForeignKeys[i]
		}
	}
	return nil
}

const modelTemplate = `
{{- if eq .Lang "es5" -}}
module.exports = function(sequelize, DataTypes) {
{{- else if eq .Lang "es6" -}}
const { DataTypes } = require('sequelize');

module.exports = (sequelize) => {
{{- else if eq .Lang "esm" -}}
import { DataTypes } from 'sequelize';

export default function(sequelize) {
{{- else -}}
import { DataTypes, Sequelize } from 'sequelize';

export default function(sequelize: Sequelize) {
{{- end }}
  return sequelize.define({{ js .ModelName }}, {
{{- range .Fields }}
    {{ js .Prop }}: {
      type: {{ js (upper .Type) }},
      allowNull: {{ .AllowNull }},
{{- if .PrimaryKey }}
      primaryKey: true,
{{- end }}
{{- if .AutoIncrement }}
      autoIncrement: true,
{{- end }}
{{- if .DefaultValue }}
      defaultValue: sequelize.literal({{ js .DefaultValue }}),
{{- end }}
{{- if .Comment }}
      comment: {{ js .Comment }},
{{- end }}
{{- if .RefModel }}
      references: {
        model: {{ js .RefModel }},
        key: {{ js .RefKey }}
      },
{{- end }}
      field: {{ js .Column }}
    },
{{- end }}
  }, {
    tableName: {{ js .TableName }},
{{- if .Schema }}
    schema: {{ js .Schema }},
{{- end }}
{{- $additional := .Additional }}
{{- range $key := keys .Additional | sortAlpha }}
    {{ js $key }}: {{ js (get $additional $key) }},
{{- end }}
  });
}{{ if eq .Lang "es6" }};{{ end }}
`

const initModelsTemplate = `
{{- $esm := or (eq .Lang "esm") (eq .Lang "ts") -}}
{{- $ext := .Ext -}}
{{- if $esm -}}
import { DataTypes{{ if eq .Lang "ts" }}, Sequelize{{ end }} } from 'sequelize';
{{- range .Models }}
import _{{ .Var }} from './{{ .File }}{{ if eq $ext ".js" }}.js{{ end }}';
{{- end }}

export default function initModels(sequelize{{ if eq .Lang "ts" }}: Sequelize{{ end }}) {
{{- else -}}
const DataTypes = require('sequelize').DataTypes;
{{- range .Models }}
const _{{ .Var }} = require('./{{ .File }}');
{{- end }}

function initModels(sequelize) {
{{- end }}
{{- range .Models }}
  const {{ .Var }} = _{{ .Var }}(sequelize, DataTypes);
{{- end }}
{{ range .Assocs }}
  {{ .Source }}.{{ .Kind }}({{ .Target }}, { {{ if .Alias }}as: {{ js .Alias }}, {{ end }}foreignKey: {{ js .ForeignKey }} });
{{- end }}

  return {
{{- range .Models }}
    {{ .Var }},
{{- end }}
  };
}
{{- if not $esm }}

module.exports = initModels;
module.exports.initModels = initModels;
module.exports.default = initModels;
{{- end }}
`
