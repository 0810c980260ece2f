package cmd

import (
	"errors"
	"strings"

	"dbauto/pkg/config"

	"github.com/spf13/pflag"
)

// promptSentinel is handed to the password flag when it was given without a
// value. It cannot be typed on a command line.
const promptSentinel = "\x00prompt"

// passwordValue backs --pass. It is kept as a string so digit-only passwords
// are never coerced to numbers.
type passwordValue struct {
	p *config.Password
}

func (v *passwordValue) Set(s string) error {
	switch s {
	case "":
		*v.p = config.NoPassword()
	case promptSentinel:
		*v.p = config.PromptPassword()
	default:
		*v.p = config.LiteralPassword(s)
	}
	return nil
}

func (v *passwordValue) String() string { return "" }

func (v *passwordValue) Type() string { return "string" }

var (
	listFlags = map[string]string{
		"--tables": "--tables", "-t": "--tables",
		"--skipTables": "--skipTables", "-T": "--skipTables",
		"--skipFields": "--skipFields", "-F": "--skipFields",
	}
	passFlags = map[string]bool{"--pass": true, "-x": true}

	// shorthands that take no value and may precede x in a group
	boolShorthands = "nv"

	// single-dash spellings that are not POSIX shorthands
	legacyAliases = map[string]string{
		"-sg": "--singularize",
		"-cm": "--caseModel",
		"-cf": "--caseFile",
		"-cp": "--caseProp",
	}
)

// normalizeArgs rewrites the argument list into a form pflag understands:
// list flags take every following value up to the next flag, --pass takes
// an optional value, and legacy multi-letter aliases become long flags.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		if long, ok := legacyAliases[arg]; ok {
			arg = long
		}
		if group, ok := splitPassGroup(arg); ok {
			out = append(out, group)
			arg = "-x"
		}

		if long, ok := listFlags[arg]; ok {
			n := 0
			for i+1 < len(args) && isValue(args[i+1]) {
				i++
				n++
				out = append(out, long+"="+args[i])
			}
			if n == 0 {
				out = append(out, long+"=")
			}
			continue
		}

		if !passFlags[arg] {
			out = append(out, arg)
			continue
		}
		if i+1 < len(args) && isValue(args[i+1]) {
			i++
			out = append(out, "--pass="+args[i])
		} else {
			out = append(out, "--pass="+promptSentinel)
		}
	}
	return out
}

// splitPassGroup splits a shorthand group such as -nvx into -nv and a
// trailing -x, which then takes an optional value like a standalone -x.
func splitPassGroup(arg string) (string, bool) {
	if len(arg) < 3 || arg[0] != '-' || arg[1] == '-' || !strings.HasSuffix(arg, "x") {
		return "", false
	}
	group := arg[1 : len(arg)-1]
	for _, c := range group {
		if !strings.ContainsRune(boolShorthands, c) {
			return "", false
		}
	}
	return "-" + group, true
}

func isValue(arg string) bool {
	return arg == "-" || !strings.HasPrefix(arg, "-")
}

// aliasNames maps alternate long names onto the canonical flag names.
func aliasNames(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "cm":
		name = "caseModel"
	case "cf":
		name = "caseFile"
	case "cp":
		name = "caseProp"
	case "sg":
		name = "singularize"
	}
	return pflag.NormalizedName(name)
}

var errMissingConnection = errors.New("either --database with --host (or --dialect sqlite), or --config is required")

// validateArguments rejects flag combinations that can neither open a
// connection nor point at a config file.
func validateArguments(a config.Arguments) error {
	if !((a.Database != "" && (a.Host != "" || a.Dialect == "sqlite")) || a.Config != "") {
		return errMissingConnection
	}

	for _, opt := range []struct {
		name, value string
		choices     []string
	}{
		{"caseModel", a.CaseModel, config.CaseOptions},
		{"caseFile", a.CaseFile, config.CaseOptions},
		{"caseProp", a.CaseProp, config.CaseOptions},
		{"lang", a.Lang, config.LangOptions},
	} {
		if err := config.CheckChoice(opt.name, opt.value, opt.choices); err != nil {
			return err
		}
	}
	return nil
}
