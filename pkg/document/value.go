// Package document parses JSON into an order-preserving value tree and
// classifies values into the kinds schema synthesis and insert emission
// understand.
package document

import (
	"strconv"
	"time"
)

// Kind classifies a JSON value.
type Kind int

const (
	// KindNull is JSON null.
	KindNull Kind = iota
	// KindObject is a JSON object.
	KindObject
	// KindArray is a JSON array.
	KindArray
	// KindString is a JSON string that is not date-like.
	KindString
	// KindInteger is a JSON number without fraction or exponent.
	KindInteger
	// KindFloat is a JSON number with a fraction or exponent.
	KindFloat
	// KindBoolean is JSON true or false.
	KindBoolean
	// KindDate is a JSON string holding an ISO 8601 date-time.
	KindDate
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsScalar reports whether values of this kind become a single column.
// Null is not scalar: it has no column type of its own.
func (k Kind) IsScalar() bool {
	switch k {
	case KindString, KindInteger, KindFloat, KindBoolean, KindDate:
		return true
	default:
		return false
	}
}

// Value is a parsed JSON value. Only the fields matching Kind are set.
type Value struct {
	Kind Kind

	// Text holds the string contents for KindString and KindDate, and the
	// number literal as written for KindInteger and KindFloat.
	Text   string
	Bool   bool
	Time   time.Time
	Object *Object
	Array  []Value
}

// Float returns the numeric value of a KindInteger or KindFloat value.
// A literal outside the float64 range fails with strconv.ErrRange.
func (v Value) Float() (float64, error) {
	f, err := strconv.ParseFloat(v.Text, 64)
	if err != nil {
		return 0, err
	}
	return f, nil
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object with its members in document order.
type Object struct {
	Members []Member
}

// NewObject builds an object from key/value pairs; a repeated key replaces
// the earlier value in place.
func NewObject(members ...Member) *Object {
	o := &Object{}
	for _, m := range members {
		o.Set(m.Key, m.Value)
	}
	return o
}

// Set adds key or replaces its value, keeping the original position.
func (o *Object) Set(key string, v Value) {
	for i := range o.Members {
		if o.Members[i].Key == key {
			o.Members[i].Value = v
			return
		}
	}
	o.Members = append(o.Members, Member{Key: key, Value: v})
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	for _, m := range o.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Len returns the number of members.
func (o *Object) Len() int { return len(o.Members) }

// Convenience constructors, mostly used by tests and array normalization.

// Null returns a null value.
func Null() Value { return Value{Kind: KindNull} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Text: s} }

// Integer returns an integer value.
func Integer(i int64) Value { return Value{Kind: KindInteger, Text: strconv.FormatInt(i, 10)} }

// Float returns a float value.
func Float(f float64) Value {
	return Value{Kind: KindFloat, Text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// Date returns a date value.
func Date(t time.Time) Value {
	return Value{Kind: KindDate, Text: t.Format(time.RFC3339Nano), Time: t}
}

// ObjectValue wraps an object.
func ObjectValue(o *Object) Value { return Value{Kind: KindObject, Object: o} }

// ArrayValue wraps a list of values.
func ArrayValue(items ...Value) Value { return Value{Kind: KindArray, Array: items} }
