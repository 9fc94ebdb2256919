package document

import "strconv"

// ValueColumn is the single data column of a normalized scalar array table.
const ValueColumn = "value"

// ArrayShape returns the object a non-empty array's child table is shaped
// from, together with the kind of its first element.
//
// Only element 0 is sampled. An object element is used as is; a scalar or
// null element normalizes to a one-member object {"value": element}. An
// array element yields a nil shape. ok is false for an empty array.
func ArrayShape(items []Value) (shape *Object, first Kind, ok bool) {
	if len(items) == 0 {
		return nil, KindNull, false
	}
	head := items[0]
	switch {
	case head.Kind == KindObject:
		return head.Object, KindObject, true
	case head.Kind.IsScalar(), head.Kind == KindNull:
		return NewObject(Member{Key: ValueColumn, Value: head}), head.Kind, true
	default:
		return nil, head.Kind, true
	}
}

// Path helpers for error reporting.

// RootPath is the JSON path of the document root.
const RootPath = "$"

// MemberPath appends an object key to a JSON path.
func MemberPath(path, key string) string {
	return path + "." + key
}

// IndexPath appends an array index to a JSON path.
func IndexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
