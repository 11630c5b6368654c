package lang

import (
	"fmt"
	"strings"
)

// ValueKind tags the four runtime value variants.
// Exhaustive: every dispatcher over ValueKind must handle all four.
type ValueKind uint8

const (
	ValueNil ValueKind = iota
	ValueString
	ValueNumber
	ValueList
)

// Value is the interpreter's runtime value. Nil is both the unit result of
// side-effectful expressions and the result of failed statements.
type Value struct {
	kind ValueKind
	str  string
	num  uint64
	list []Value
}

func NilValue() Value            { return Value{kind: ValueNil} }
func StringValue(s string) Value { return Value{kind: ValueString, str: s} }
func NumberValue(n uint64) Value { return Value{kind: ValueNumber, num: n} }
func ListValue(vs []Value) Value { return Value{kind: ValueList, list: vs} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNil() bool     { return v.kind == ValueNil }

// AsString returns the string payload, reporting whether the value holds one.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == ValueString
}

// AsNumber returns the numeric payload, reporting whether the value holds one.
func (v Value) AsNumber() (uint64, bool) {
	return v.num, v.kind == ValueNumber
}

// AsList returns the list payload, reporting whether the value holds one.
func (v Value) AsList() ([]Value, bool) {
	return v.list, v.kind == ValueList
}

func (v Value) String() string {
	switch v.kind {
	case ValueNil:
		return "Nil"
	case ValueString:
		return fmt.Sprintf("%q", v.str)
	case ValueNumber:
		return fmt.Sprintf("%d", v.num)
	case ValueList:
		parts := make([]string, len(v.list))
		for i, elem := range v.list {
			parts[i] = elem.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		panic(fmt.Sprintf("unhandled value kind %d", uint8(v.kind)))
	}
}
