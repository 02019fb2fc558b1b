package encoder

import (
	"fmt"
	"strings"
)

// DefaultFormat is used when no requested format is available.
const DefaultFormat = "stored"

// Registry holds all available encoders.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry, probing all encoders for availability.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}

	all := []Encoder{
		&StoredEncoder{},
		&DeflateEncoder{},
	}

	for _, enc := range all {
		if enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}

	return r
}

// Get returns an encoder for the given format, or nil if unavailable.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[strings.ToLower(format)]
}

// Available returns all available format names.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range []string{"stored", "deflate"} {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// ResolveFormats filters requested formats to those available, dropping
// duplicates, and falls back to DefaultFormat when nothing is left.
func (r *Registry) ResolveFormats(requested []string) []string {
	var resolved []string
	seen := map[string]bool{}

	for _, f := range requested {
		f = strings.ToLower(f)
		if _, ok := r.encoders[f]; ok && !seen[f] {
			resolved = append(resolved, f)
			seen[f] = true
		}
	}

	if len(resolved) == 0 && r.encoders[DefaultFormat] != nil {
		resolved = append(resolved, DefaultFormat)
	}
	return resolved
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}
