package qdrant

import (
	"fmt"
	"math"
	"strings"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/pinecone-io/pinecone-client/v1/filter"
	"github.com/pinecone-io/pinecone-client/v1/metadata"
)

// UserPayloadPrefix is the prefix for user-defined metadata fields
const UserPayloadPrefix = "custom"

// Reserved top-level payload fields.
const (
	idField        = "_id"
	namespaceField = "_namespace"
)

// FieldType indicates whether a field is internal or user-defined
type FieldType int

const (
	// InternalField - system-managed fields stored at top-level
	InternalField FieldType = iota
	// UserField - user-defined fields stored under "custom." prefix
	UserField
)

// resolveFieldKey returns the full field path based on FieldType
// Internal fields: "_namespace" -> "_namespace"
// User fields: "genre" -> "custom.genre"
func resolveFieldKey(key string, fieldType FieldType) string {
	if fieldType == UserField {
		// Prevent double-prefixing
		if strings.HasPrefix(key, UserPayloadPrefix+".") {
			return key
		}
		return UserPayloadPrefix + "." + key
	}
	return key
}

// Compile translates a filter expression into a Qdrant filter scoped to one
// namespace. A nil expression selects the whole namespace.
//
// Example:
//
//	f, err := qdrant.Compile("ns", filter.And(
//	    filter.Eq("genre", metadata.String("drama")),
//	    filter.Gte("year", 2020),
//	))
func Compile(namespace string, e filter.Expr) (*qdrant.Filter, error) {
	scope := &qdrant.Filter{
		Must: []*qdrant.Condition{qdrant.NewMatch(namespaceField, namespace)},
	}
	if e == nil {
		return scope, nil
	}

	inner, err := compileExpr(e)
	if err != nil {
		return nil, err
	}
	scope.Must = append(scope.Must, asCondition(inner))
	return scope, nil
}

func compileExpr(e filter.Expr) (*qdrant.Filter, error) {
	switch x := e.(type) {
	case filter.Condition:
		return compileCondition(x)
	case filter.Group:
		return compileGroup(x)
	default:
		return nil, fmt.Errorf("[Qdrant] unsupported filter expression %T", e)
	}
}

func compileGroup(g filter.Group) (*qdrant.Filter, error) {
	// An empty Must or Should matches every point.
	if len(g.Exprs) == 0 {
		return nil, &filter.OperandError{Op: g.Op, Expected: "a non-empty list of filters"}
	}

	conds := make([]*qdrant.Condition, 0, len(g.Exprs))
	for _, sub := range g.Exprs {
		f, err := compileExpr(sub)
		if err != nil {
			return nil, err
		}
		conds = append(conds, asCondition(f))
	}

	switch g.Op {
	case filter.OpAnd:
		return &qdrant.Filter{Must: conds}, nil
	case filter.OpOr:
		return &qdrant.Filter{Should: conds}, nil
	default:
		return nil, &filter.OperatorError{Op: string(g.Op)}
	}
}

func compileCondition(c filter.Condition) (*qdrant.Filter, error) {
	key := resolveFieldKey(c.Field, UserField)

	switch c.Op {
	case filter.OpEq, filter.OpNe:
		cond, err := matchValue(key, c.Value)
		if err != nil {
			return nil, operandError(c, "a string, number or boolean")
		}
		if c.Op == filter.OpNe {
			return &qdrant.Filter{MustNot: []*qdrant.Condition{cond}}, nil
		}
		return &qdrant.Filter{Must: []*qdrant.Condition{cond}}, nil

	case filter.OpGt, filter.OpGte, filter.OpLt, filter.OpLte:
		n, ok := c.Value.(metadata.Number)
		if !ok {
			return nil, operandError(c, "a number")
		}
		return &qdrant.Filter{Must: []*qdrant.Condition{qdrant.NewRange(key, rangeFor(c.Op, float64(n)))}}, nil

	case filter.OpIn, filter.OpNin:
		list, ok := c.Value.(metadata.List)
		if !ok {
			return nil, operandError(c, "a list")
		}
		conds, err := matchAny(key, list)
		if err != nil {
			return nil, operandError(c, "a list of strings, numbers or booleans")
		}
		if c.Op == filter.OpNin {
			return &qdrant.Filter{MustNot: conds}, nil
		}
		if len(conds) == 1 {
			return &qdrant.Filter{Must: conds}, nil
		}
		return &qdrant.Filter{Should: conds}, nil

	case filter.OpExists:
		present, ok := c.Value.(metadata.Bool)
		if !ok {
			return nil, operandError(c, "a boolean")
		}
		empty := []*qdrant.Condition{qdrant.NewIsEmpty(key)}
		if present {
			return &qdrant.Filter{MustNot: empty}, nil
		}
		return &qdrant.Filter{Must: empty}, nil

	default:
		return nil, &filter.OperatorError{Field: c.Field, Op: string(c.Op)}
	}
}

// matchValue builds an equality condition. Integral numbers are stored as
// integers and match exactly; other numbers match a closed range.
func matchValue(key string, v metadata.Value) (*qdrant.Condition, error) {
	switch val := v.(type) {
	case metadata.String:
		return qdrant.NewMatch(key, string(val)), nil
	case metadata.Bool:
		return qdrant.NewMatchBool(key, bool(val)), nil
	case metadata.Number:
		if i, ok := asInt(float64(val)); ok {
			return qdrant.NewMatchInt(key, i), nil
		}
		n := float64(val)
		return qdrant.NewRange(key, &qdrant.Range{Gte: &n, Lte: &n}), nil
	default:
		return nil, fmt.Errorf("[Qdrant] cannot match %T", v)
	}
}

// matchAny groups keywords and integers into single conditions and falls
// back to one condition per remaining value.
func matchAny(key string, list metadata.List) ([]*qdrant.Condition, error) {
	var (
		keywords []string
		ints     []int64
		rest     []*qdrant.Condition
	)
	for _, item := range list {
		switch val := item.(type) {
		case metadata.String:
			keywords = append(keywords, string(val))
		case metadata.Number:
			if i, ok := asInt(float64(val)); ok {
				ints = append(ints, i)
				continue
			}
			cond, _ := matchValue(key, val)
			rest = append(rest, cond)
		case metadata.Bool:
			rest = append(rest, qdrant.NewMatchBool(key, bool(val)))
		default:
			return nil, fmt.Errorf("[Qdrant] cannot match %T", item)
		}
	}

	var conds []*qdrant.Condition
	if len(keywords) > 0 {
		conds = append(conds, qdrant.NewMatchKeywords(key, keywords...))
	}
	if len(ints) > 0 {
		conds = append(conds, qdrant.NewMatchInts(key, ints...))
	}
	return append(conds, rest...), nil
}

func rangeFor(op filter.Operator, n float64) *qdrant.Range {
	switch op {
	case filter.OpGt:
		return &qdrant.Range{Gt: &n}
	case filter.OpGte:
		return &qdrant.Range{Gte: &n}
	case filter.OpLt:
		return &qdrant.Range{Lt: &n}
	default:
		return &qdrant.Range{Lte: &n}
	}
}

// asCondition unwraps single-condition filters to keep the tree shallow.
func asCondition(f *qdrant.Filter) *qdrant.Condition {
	if len(f.Must) == 1 && len(f.Should) == 0 && len(f.MustNot) == 0 {
		return f.Must[0]
	}
	return qdrant.NewFilterAsCondition(f)
}

func asInt(n float64) (int64, bool) {
	if n != math.Trunc(n) || math.Abs(n) > 1<<53 {
		return 0, false
	}
	return int64(n), true
}

func operandError(c filter.Condition, expected string) error {
	return &filter.OperandError{Field: c.Field, Op: c.Op, Expected: expected}
}
