package cmd

import (
	"testing"

	"dbauto/pkg/config"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "list values",
			in:   []string{"--skipTables", "a", "b", "-d", "db"},
			want: []string{"--skipTables=a", "--skipTables=b", "-d", "db"},
		},
		{
			name: "list shorthand",
			in:   []string{"-t", "users", "-F", "created_at", "updated_at"},
			want: []string{"--tables=users", "--skipFields=created_at", "--skipFields=updated_at"},
		},
		{
			name: "list without values",
			in:   []string{"-T", "-v"},
			want: []string{"--skipTables=", "-v"},
		},
		{
			name: "prompt at end",
			in:   []string{"-d", "db", "--pass"},
			want: []string{"-d", "db", "--pass=" + promptSentinel},
		},
		{
			name: "prompt before flag",
			in:   []string{"-x", "-h", "localhost"},
			want: []string{"--pass=" + promptSentinel, "-h", "localhost"},
		},
		{
			name: "literal",
			in:   []string{"-x", "123", "--pass=abc", "-xdef"},
			want: []string{"--pass=123", "--pass=abc", "-xdef"},
		},
		{
			name: "prompt in shorthand group",
			in:   []string{"-nx", "-d", "db"},
			want: []string{"-n", "--pass=" + promptSentinel, "-d", "db"},
		},
		{
			name: "literal after shorthand group",
			in:   []string{"-vnx", "secret"},
			want: []string{"-vn", "--pass=secret"},
		},
		{
			name: "group with a value flag is left alone",
			in:   []string{"-sx", "-xabc"},
			want: []string{"-sx", "-xabc"},
		},
		{
			name: "legacy aliases",
			in:   []string{"-sg", "-cm", "p"},
			want: []string{"--singularize", "--caseModel", "p"},
		},
		{
			name: "stops at terminator",
			in:   []string{"-v", "--", "-x"},
			want: []string{"-v", "--", "-x"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, normalizeArgs(tt.in)); diff != "" {
				t.Errorf("normalizeArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPasswordValue(t *testing.T) {
	var p config.Password
	v := &passwordValue{p: &p}

	tests := []struct {
		in     string
		source config.PasswordSource
	}{
		{promptSentinel, config.PasswordPrompt},
		{"hunter2", config.PasswordLiteral},
		{"", config.PasswordAbsent},
	}
	for _, tt := range tests {
		if err := v.Set(tt.in); err != nil {
			t.Fatalf("Set(%q) error: %v", tt.in, err)
		}
		if p.Source != tt.source {
			t.Errorf("Set(%q) source = %v, want %v", tt.in, p.Source, tt.source)
		}
		if v.String() != "" {
			t.Errorf("String() must not reveal the password, got %q", v.String())
		}
	}
}
