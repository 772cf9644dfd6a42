package filter

import (
	"github.com/pinecone-io/pinecone-client/v1/metadata"
)

// Operator is a filter-language operator such as "$eq".
type Operator string

// Comparison operators apply to a single metadata field.
const (
	OpEq     Operator = "$eq"
	OpNe     Operator = "$ne"
	OpGt     Operator = "$gt"
	OpGte    Operator = "$gte"
	OpLt     Operator = "$lt"
	OpLte    Operator = "$lte"
	OpIn     Operator = "$in"
	OpNin    Operator = "$nin"
	OpExists Operator = "$exists"
)

// Logical operators combine sub-expressions.
const (
	OpAnd Operator = "$and"
	OpOr  Operator = "$or"
)

// Expr is a parsed filter. The implementations are Condition and Group.
type Expr interface {
	// Map renders the expression in the filter language.
	Map() metadata.Map
	isExpr()
}

// Condition compares one metadata field against an operand.
type Condition struct {
	Field string
	Op    Operator
	Value metadata.Value
}

// Group joins sub-expressions with $and or $or.
type Group struct {
	Op    Operator
	Exprs []Expr
}

func (Condition) isExpr() {}
func (Group) isExpr()     {}

func (c Condition) Map() metadata.Map {
	return metadata.Map{c.Field: metadata.Map{string(c.Op): c.Value}}
}

func (g Group) Map() metadata.Map {
	list := make(metadata.List, len(g.Exprs))
	for i, e := range g.Exprs {
		list[i] = e.Map()
	}
	return metadata.Map{string(g.Op): list}
}

// Eq matches records whose field equals v.
func Eq(field string, v metadata.Value) Expr {
	return Condition{Field: field, Op: OpEq, Value: v}
}

// Ne matches records whose field differs from v.
func Ne(field string, v metadata.Value) Expr {
	return Condition{Field: field, Op: OpNe, Value: v}
}

func Gt(field string, n float64) Expr {
	return Condition{Field: field, Op: OpGt, Value: metadata.Number(n)}
}

func Gte(field string, n float64) Expr {
	return Condition{Field: field, Op: OpGte, Value: metadata.Number(n)}
}

func Lt(field string, n float64) Expr {
	return Condition{Field: field, Op: OpLt, Value: metadata.Number(n)}
}

func Lte(field string, n float64) Expr {
	return Condition{Field: field, Op: OpLte, Value: metadata.Number(n)}
}

// In matches records whose field equals any of values.
func In(field string, values ...metadata.Value) Expr {
	return Condition{Field: field, Op: OpIn, Value: metadata.List(values)}
}

// Nin matches records whose field equals none of values.
func Nin(field string, values ...metadata.Value) Expr {
	return Condition{Field: field, Op: OpNin, Value: metadata.List(values)}
}

// Exists matches on the presence (or absence) of field.
func Exists(field string, present bool) Expr {
	return Condition{Field: field, Op: OpExists, Value: metadata.Bool(present)}
}

// And matches when every sub-expression matches.
func And(exprs ...Expr) Expr {
	return Group{Op: OpAnd, Exprs: exprs}
}

// Or matches when at least one sub-expression matches.
func Or(exprs ...Expr) Expr {
	return Group{Op: OpOr, Exprs: exprs}
}

// Render returns e.Map(), or nil for a nil expression.
func Render(e Expr) metadata.Map {
	if e == nil {
		return nil
	}
	return e.Map()
}
