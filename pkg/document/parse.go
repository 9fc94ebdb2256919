package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/leapstack-labs/jsonsql/pkg/core"
)

// ParseOptions configures parsing.
type ParseOptions struct {
	// DetectDates turns ISO 8601 date-time strings into KindDate values.
	DetectDates bool
}

// DefaultParseOptions returns options with date detection enabled.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{DetectDates: true}
}

// dateLayouts are the ISO 8601 date-time shapes recognized as dates.
// Seconds are required: a date without them, or without a time part,
// stays a string.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// Parse reads a single JSON document whose root must be an object.
func Parse(r io.Reader, opts ParseOptions) (*Object, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	p := &parser{dec: dec, opts: opts}
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &core.MalformedInputError{Message: "empty document"}
		}
		return nil, &core.MalformedInputError{Message: "invalid JSON", Err: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &core.MalformedInputError{Message: "the input JSON must be an object type"}
	}

	obj, err := p.object()
	if err != nil {
		return nil, &core.MalformedInputError{Message: "invalid JSON", Err: err}
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &core.MalformedInputError{Message: "unexpected data after the root object"}
	}
	return obj, nil
}

// ParseBytes parses a JSON document held in memory.
func ParseBytes(data []byte, opts ParseOptions) (*Object, error) {
	return Parse(bytes.NewReader(data), opts)
}

// ParseString parses a JSON document held in a string.
func ParseString(s string, opts ParseOptions) (*Object, error) {
	return Parse(strings.NewReader(s), opts)
}

type parser struct {
	dec  *json.Decoder
	opts ParseOptions
}

// object reads members after the opening brace has been consumed.
func (p *parser) object() (*Object, error) {
	obj := &Object{}
	for p.dec.More() {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	if _, err := p.dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

// array reads elements after the opening bracket has been consumed.
func (p *parser) array() ([]Value, error) {
	items := []Value{}
	for p.dec.More() {
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	if _, err := p.dec.Token(); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *parser) value() (Value, error) {
	tok, err := p.dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj, err := p.object()
			if err != nil {
				return Value{}, err
			}
			return ObjectValue(obj), nil
		case '[':
			items, err := p.array()
			if err != nil {
				return Value{}, err
			}
			return Value{Kind: KindArray, Array: items}, nil
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %v", t)
		}
	case json.Number:
		return number(t), nil
	case string:
		if p.opts.DetectDates {
			if ts, ok := parseDate(t); ok {
				return Value{Kind: KindDate, Text: t, Time: ts}, nil
			}
		}
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func number(n json.Number) Value {
	s := n.String()
	if strings.ContainsAny(s, ".eE") {
		return Value{Kind: KindFloat, Text: s}
	}
	return Value{Kind: KindInteger, Text: s}
}

func parseDate(s string) (time.Time, bool) {
	// Cheap shape check before trying layouts: yyyy-MM-ddTHH:mm:ss
	if len(s) < 19 || s[4] != '-' || s[7] != '-' || s[10] != 'T' {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
