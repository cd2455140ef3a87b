// Package attributes holds the preconfigured attribute values the plugin
// releases instead of performing real authentication.
package attributes

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownAttribute is returned when a requested attribute is not configured.
var ErrUnknownAttribute = errors.New("unknown attribute")

// Store maps attribute names to their preconfigured values.
type Store struct {
	values map[string]string
}

// NewStore creates a store from the configured attribute map.
func NewStore(values map[string]string) *Store {
	copied := make(map[string]string, len(values))
	for name, value := range values {
		copied[name] = value
	}
	return &Store{values: copied}
}

// Verify checks that every requested attribute is configured.
func (s *Store) Verify(requested []string) error {
	for _, name := range requested {
		if _, ok := s.values[name]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownAttribute, name)
		}
	}
	return nil
}

// Map resolves the requested attribute names to their configured values.
func (s *Store) Map(requested []string) (map[string]string, error) {
	result := make(map[string]string, len(requested))
	for _, name := range requested {
		value, ok := s.values[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAttribute, name)
		}
		result[name] = value
	}
	return result, nil
}

// Names returns the configured attribute names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of configured attributes.
func (s *Store) Len() int {
	return len(s.values)
}
