// Package ident turns JSON keys into SQL identifiers according to the
// configured identifier mode.
package ident

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/leapstack-labs/jsonsql/pkg/core"
	"github.com/leapstack-labs/jsonsql/pkg/dialect"
)

// Namer maps keys to identifiers and renders them for one dialect.
type Namer struct {
	mode    core.IdentifierMode
	dialect *dialect.Dialect
}

// NewNamer creates a namer. A nil dialect disables quoting.
func NewNamer(mode core.IdentifierMode, d *dialect.Dialect) Namer {
	return Namer{mode: mode, dialect: d}
}

// Key returns the identifier a JSON key (or root table name) becomes.
// Composite names such as main_address are built from Key results, so
// normalization happens once per path segment.
func (n Namer) Key(key string) string {
	if n.mode == core.IdentifiersNormalized {
		return Normalize(key)
	}
	return key
}

// Quote renders an identifier for output; it is the identity except in
// quoted mode.
func (n Namer) Quote(name string) string {
	if n.mode == core.IdentifiersQuoted && n.dialect != nil {
		return n.dialect.QuoteIdentifier(name)
	}
	return name
}

var (
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folder     = cases.Fold()
)

// Normalize folds a key into a lowercase ASCII snake_case identifier:
// diacritics are removed, camelCase is split, every run of other
// characters becomes a single underscore and a leading digit gets an
// underscore prefix.
func Normalize(key string) string {
	s, _, err := transform.String(stripMarks, key)
	if err != nil {
		s = key
	}
	s = folder.String(inflect.Underscore(s))

	var b strings.Builder
	pendingSep := false
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	out := b.String()
	if out == "" {
		return "_"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	return out
}
