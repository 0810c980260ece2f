package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// LoadFile reads and strictly decodes a JSON config file. Unknown keys and
// out-of-range enum values are rejected.
func LoadFile(path string) (*File, error) {
	k, err := loadJSON(path)
	if err != nil {
		return nil, err
	}

	var f File
	err = k.UnmarshalWithConf("", &f, koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &f,
			TagName:          "json",
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, errors.WithStack(&LoadError{Path: path, Err: err})
	}

	if err := f.validate(); err != nil {
		return nil, errors.WithStack(&LoadError{Path: path, Err: err})
	}

	return &f, nil
}

// LoadAdditional reads a JSON object of per-model options. Keys are kept
// exactly as written.
func LoadAdditional(path string) (map[string]any, error) {
	k, err := loadJSON(path)
	if err != nil {
		return nil, err
	}
	return k.Raw(), nil
}

func loadJSON(path string) (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return nil, errors.WithStack(&LoadError{Path: path, Err: err})
	}
	return k, nil
}

func (f *File) validate() error {
	for _, opt := range []struct{ name, value string }{
		{"caseModel", f.CaseModel},
		{"caseFile", f.CaseFile},
		{"caseProp", f.CaseProp},
	} {
		if err := CheckChoice(opt.name, opt.value, CaseOptions); err != nil {
			return err
		}
	}
	return CheckChoice("lang", f.Lang, LangOptions)
}

// CheckChoice returns an error if value is set and not one of choices.
func CheckChoice(name, value string, choices []string) error {
	if value == "" || slices.Contains(choices, value) {
		return nil
	}
	return fmt.Errorf("invalid %s %q, valid values: %s", name, value, strings.Join(choices, ", "))
}
