package ident

import (
	"strings"

	"github.com/leapstack-labs/jsonsql/pkg/core"
)

// Scope tracks the identifiers used in one namespace, such as the columns of
// a table. Names compare case-insensitively, like unquoted identifiers in
// every supported engine.
type Scope struct {
	kind   string
	claims map[string]claim
}

type claim struct {
	key       string
	generated bool
}

// NewScope creates a scope of the given kind (core.NameColumn or
// core.NameTable) with generated names already taken.
func NewScope(kind string, generated ...string) *Scope {
	s := &Scope{kind: kind, claims: make(map[string]claim)}
	for _, name := range generated {
		s.claims[strings.ToLower(name)] = claim{generated: true}
	}
	return s
}

// Claim records that key, found at path, maps to name. It fails with a
// core.NameCollisionError when name is already taken.
func (s *Scope) Claim(name, key, path string) error {
	folded := strings.ToLower(name)
	if prev, ok := s.claims[folded]; ok {
		err := &core.NameCollisionError{Path: path, Key: key, Name: name, Kind: s.kind}
		if !prev.generated {
			err.Other = prev.key
		}
		return err
	}
	s.claims[folded] = claim{key: key}
	return nil
}
