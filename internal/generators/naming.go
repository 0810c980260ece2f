package generators

import (
	"regexp"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/volatiletech/strmangle"
)

// Recase converts name according to a single-letter case code:
// c camelCase, l lower_case, o original, p PascalCase, u UPPER_CASE.
func Recase(name, code string) string {
	switch code {
	case "c":
		return strmangle.CamelCase(name)
	case "p":
		return strmangle.TitleCase(name)
	case "l":
		return strings.ToLower(name)
	case "u":
		return strings.ToUpper(name)
	default:
		return name
	}
}

type namer struct {
	opts Options
}

func (n namer) model(table string) string {
	if n.opts.Singularize {
		table = inflection.Singular(table)
	}
	return Recase(table, n.opts.CaseModel)
}

func (n namer) file(table string) string {
	if n.opts.Singularize {
		table = inflection.Singular(table)
	}
	return Recase(table, n.opts.CaseFile)
}

func (n namer) prop(column string) string {
	return Recase(column, n.opts.CaseProp)
}

func (n namer) belongsToAlias(column string) string {
	alias := strings.TrimSuffix(strings.TrimSuffix(column, "_id"), "Id")
	return Recase(alias, n.opts.CaseProp)
}

func (n namer) hasManyAlias(table string) string {
	return Recase(inflection.Plural(table), n.opts.CaseProp)
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_$]`)

// ident turns a name into a usable JavaScript identifier.
func ident(name string) string {
	name = nonIdent.ReplaceAllString(name, "_")
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "_" + name
	}
	return name
}
