package filter

import (
	"strings"

	"github.com/pinecone-io/pinecone-client/v1/metadata"
)

// Parse validates a filter written in the filter language and returns its
// expression tree. Keys are visited in sorted order so the result is stable.
// An empty or nil filter yields a nil Expr.
func Parse(m metadata.Map) (Expr, error) {
	exprs, err := parseClauses(m)
	if err != nil {
		return nil, err
	}
	return join(exprs), nil
}

// FromAny converts a dynamic filter, such as decoded JSON, and parses it.
func FromAny(v any) (Expr, error) {
	if v == nil {
		return nil, nil
	}
	m, err := metadata.MapFromAny(v)
	if err != nil {
		return nil, err
	}
	return Parse(m)
}

func parseClauses(m metadata.Map) ([]Expr, error) {
	var exprs []Expr
	for _, key := range m.Keys() {
		val := m[key]

		if strings.HasPrefix(key, "$") {
			g, err := parseGroup(Operator(key), val)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, g)
			continue
		}

		conds, err := parseField(key, val)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, conds...)
	}
	return exprs, nil
}

func parseGroup(op Operator, val metadata.Value) (Expr, error) {
	if op != OpAnd && op != OpOr {
		return nil, &OperatorError{Op: string(op)}
	}
	list, ok := val.(metadata.List)
	if !ok || len(list) == 0 {
		return nil, &OperandError{Op: op, Expected: "a non-empty list of filters"}
	}

	g := Group{Op: op, Exprs: make([]Expr, 0, len(list))}
	for _, item := range list {
		sub, ok := item.(metadata.Map)
		if !ok {
			return nil, &OperandError{Op: op, Expected: "a non-empty list of filters"}
		}
		e, err := Parse(sub)
		if err != nil {
			return nil, err
		}
		// an empty clause would match every record
		if e == nil {
			return nil, &OperandError{Op: op, Expected: "a non-empty list of filters"}
		}
		g.Exprs = append(g.Exprs, e)
	}
	return g, nil
}

func parseField(field string, val metadata.Value) ([]Expr, error) {
	ops, ok := val.(metadata.Map)
	if !ok {
		// a bare value is shorthand for $eq
		if err := checkOperand(field, OpEq, val); err != nil {
			return nil, err
		}
		return []Expr{Condition{Field: field, Op: OpEq, Value: val}}, nil
	}

	if len(ops) == 0 {
		return nil, &OperandError{Field: field, Expected: "at least one operator"}
	}

	exprs := make([]Expr, 0, len(ops))
	for _, key := range ops.Keys() {
		op := Operator(key)
		if err := checkOperand(field, op, ops[key]); err != nil {
			return nil, err
		}
		exprs = append(exprs, Condition{Field: field, Op: op, Value: ops[key]})
	}
	return exprs, nil
}

func checkOperand(field string, op Operator, v metadata.Value) error {
	switch op {
	case OpEq, OpNe:
		if !isScalar(v) {
			return &OperandError{Field: field, Op: op, Expected: "a string, number or boolean"}
		}
	case OpGt, OpGte, OpLt, OpLte:
		if _, ok := v.(metadata.Number); !ok {
			return &OperandError{Field: field, Op: op, Expected: "a number"}
		}
	case OpIn, OpNin:
		list, ok := v.(metadata.List)
		if !ok {
			return &OperandError{Field: field, Op: op, Expected: "a list"}
		}
		for _, item := range list {
			if !isScalar(item) {
				return &OperandError{Field: field, Op: op, Expected: "a list of strings, numbers or booleans"}
			}
		}
	case OpExists:
		if _, ok := v.(metadata.Bool); !ok {
			return &OperandError{Field: field, Op: op, Expected: "a boolean"}
		}
	default:
		return &OperatorError{Field: field, Op: string(op)}
	}
	return nil
}

func isScalar(v metadata.Value) bool {
	switch v.(type) {
	case metadata.String, metadata.Number, metadata.Bool:
		return true
	}
	return false
}

func join(exprs []Expr) Expr {
	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	default:
		return Group{Op: OpAnd, Exprs: exprs}
	}
}
