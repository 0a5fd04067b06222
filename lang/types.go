package lang

import "strings"

// ReturnType is the static type of a node: a single flag once resolved, or a
// set of flags when used as an operand constraint in a signature.
type ReturnType uint8

const (
	// TypeNone is the type of statements and blocks, which produce no value.
	TypeNone ReturnType = 1 << iota
	// TypeUnknown is the type of an absent child.
	TypeUnknown
	TypeNumber
	TypeBool
	TypeString
	// TypeVariable marks a value whose concrete type is known only once the
	// referenced parameter is bound, at evaluation time.
	TypeVariable

	TypeAny = TypeNone | TypeUnknown | TypeNumber | TypeBool | TypeString |
		TypeVariable
)

var returnTypeNames = [...]struct {
	flag ReturnType
	name string
}{
	{TypeNone, "None"},
	{TypeUnknown, "Unknown"},
	{TypeNumber, "Number"},
	{TypeBool, "Bool"},
	{TypeString, "String"},
	{TypeVariable, "Variable"},
}

// Has reports whether t shares any flag with set.
func (t ReturnType) Has(set ReturnType) bool { return t&set != 0 }

// Concrete reports whether t is exactly one of Number, Bool or String.
func (t ReturnType) Concrete() bool {
	return t == TypeNumber || t == TypeBool || t == TypeString
}

func (t ReturnType) String() string {
	switch t {
	case 0:
		return "Invalid"
	case TypeAny:
		return "Any"
	}

	var names []string

	for _, n := range returnTypeNames {
		if t.Has(n.flag) {
			names = append(names, n.name)
		}
	}

	return strings.Join(names, "|")
}
