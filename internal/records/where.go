package records

import "strings"

// Condition is one (Field,op,Value) term of a where filter.
type Condition struct {
	Field string
	Op    string
	Value string
}

// Eq builds an equality condition.
func Eq(field, value string) Condition {
	return Condition{Field: field, Op: "eq", Value: value}
}

// Gte builds a greater-or-equal condition.
func Gte(field, value string) Condition {
	return Condition{Field: field, Op: "gte", Value: value}
}

func (c Condition) String() string {
	return "(" + c.Field + "," + c.Op + "," + c.Value + ")"
}

// Where joins conditions with ~and, e.g.
// (First Name,eq,Jane)~and(Last Name,eq,Doe).
func Where(conds ...Condition) string {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, "~and")
}
