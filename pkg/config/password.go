package config

// PasswordSource tells how the database password was given on the command line.
type PasswordSource int

const (
	PasswordAbsent PasswordSource = iota
	PasswordPrompt
	PasswordLiteral
)

func (s PasswordSource) String() string {
	switch s {
	case PasswordPrompt:
		return "prompt"
	case PasswordLiteral:
		return "literal"
	default:
		return "absent"
	}
}

// Password is the value of the --pass flag: absent, a request to prompt, or
// a literal value.
type Password struct {
	Source PasswordSource
	value  string
}

func NoPassword() Password { return Password{} }

func PromptPassword() Password { return Password{Source: PasswordPrompt} }

func LiteralPassword(s string) Password {
	return Password{Source: PasswordLiteral, value: s}
}

// Value returns the literal password. It is empty for the other sources.
func (p Password) Value() string { return p.value }
