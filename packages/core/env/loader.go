package env

import (
	"os"
)

// LookupFunc resolves a variable name, reporting whether it was found.
type LookupFunc func(key string) (string, bool)

// FromMap returns a LookupFunc backed by vars.
func FromMap(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

// OS looks variables up in the process environment.
func OS() LookupFunc {
	return os.LookupEnv
}

// Chain returns a LookupFunc that tries each source in order and returns the
// first hit.
func Chain(sources ...LookupFunc) LookupFunc {
	return func(key string) (string, bool) {
		for _, src := range sources {
			if src == nil {
				continue
			}
			if v, ok := src(key); ok {
				return v, true
			}
		}
		return "", false
	}
}

// Load returns the lookup used by the CLI: the process environment first,
// then the optional .env file at path.
func Load(path string) (LookupFunc, error) {
	if path == "" {
		return OS(), nil
	}
	vars, err := LoadDotEnv(path)
	if err != nil {
		return nil, err
	}
	return Chain(OS(), FromMap(vars)), nil
}
