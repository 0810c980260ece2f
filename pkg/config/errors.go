package config

import "fmt"

// LoadError reports a config or additional-options file that could not be
// read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// PromptError reports a failure to read the password interactively.
type PromptError struct {
	Err error
}

func (e *PromptError) Error() string {
	return fmt.Sprintf("failed to read password: %v", e.Err)
}

func (e *PromptError) Unwrap() error { return e.Err }
