// Package options parses the "key=value" option lists passed to backends
// as extra parameters (backend.OpenParams.Extra), in the same shape as
// restic's internal/options package.
package options

import (
	"strings"

	"github.com/h5s3/h5s3/internal/errors"
)

// Options is a parsed set of lower-cased option keys to their values.
type Options map[string]string

// Parse turns a list of "key=value" (or bare "key", meaning "key=") strings
// into an Options map. Keys are folded to lower case; a duplicate key is a
// ConfigError, as is an empty key.
func Parse(in []string) (Options, error) {
	opts := make(Options, len(in))

	for _, s := range in {
		key, value, _ := strings.Cut(s, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if key == "" {
			return nil, errors.ConfigError("empty key is not a valid option")
		}

		if _, ok := opts[key]; ok {
			return nil, errors.ConfigError("key %q present more than once", key)
		}

		opts[key] = value
	}

	return opts, nil
}

// Get returns the value for key and whether it was present.
func (o Options) Get(key string) (string, bool) {
	v, ok := o[key]
	return v, ok
}

// GetDefault returns the value for key, or def if key is absent or empty.
func (o Options) GetDefault(key, def string) string {
	if v, ok := o[key]; ok && v != "" {
		return v
	}
	return def
}
