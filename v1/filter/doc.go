// Package filter models metadata filters.
//
// A filter is a metadata map in the store's filter language:
//
//	{"genre": {"$eq": "drama"}, "year": {"$gte": 2020}}
//	{"$or": [{"genre": "comedy"}, {"genre": {"$in": ["drama", "thriller"]}}]}
//
// Filters can be built in code and rendered with Expr.Map:
//
//	f := filter.And(
//	    filter.Eq("genre", metadata.String("drama")),
//	    filter.Gte("year", 2020),
//	)
//
// or parsed from a map with Parse, which checks operator names and operand
// types. A bare value is shorthand for $eq, and several keys at the same
// level are combined with $and.
package filter
