package store

// Filter is a typed predicate tree. Each variant names one operator
// (equality, $ne, $lt, $nin, $in, $regex, and a conjunction of filters) —
// there is no escape hatch to an untyped map, by design.
type Filter interface{ isFilter() }

type EqFilter struct {
	Field string
	Value any
}

func (EqFilter) isFilter() {}

// Eq matches documents where Field equals Value.
func Eq(field string, value any) Filter { return EqFilter{Field: field, Value: value} }

type NeFilter struct {
	Field string
	Value any
}

func (NeFilter) isFilter() {}

// Ne matches documents where Field does not equal Value.
func Ne(field string, value any) Filter { return NeFilter{Field: field, Value: value} }

type LtFilter struct {
	Field string
	Value any
}

func (LtFilter) isFilter() {}

// Lt matches documents where Field is less than Value.
func Lt(field string, value any) Filter { return LtFilter{Field: field, Value: value} }

type NotInFilter struct {
	Field  string
	Values []any
}

func (NotInFilter) isFilter() {}

// NotIn matches documents where Field's value (an array field) does not
// contain any element of Values. Used for "pendingTransactions does not
// already contain this txn ID" guards.
func NotIn(field string, values ...any) Filter { return NotInFilter{Field: field, Values: values} }

type InFilter struct {
	Field  string
	Values []any
}

func (InFilter) isFilter() {}

// In matches documents where Field's array value contains any element of
// Values. Used for "pendingTransactions already contains this txn ID".
func In(field string, values ...any) Filter { return InFilter{Field: field, Values: values} }

type RegexFilter struct {
	Field   string
	Pattern string
}

func (RegexFilter) isFilter() {}

// Regex matches documents whose Field matches the given regular expression
// (anchored per the caller's pattern). Used by the tree-of-pages module's
// ancestor-prefix query.
func Regex(field, pattern string) Filter { return RegexFilter{Field: field, Pattern: pattern} }

type AndFilter struct {
	Filters []Filter
}

func (AndFilter) isFilter() {}

// And combines filters with logical AND.
func And(filters ...Filter) Filter { return AndFilter{Filters: filters} }
