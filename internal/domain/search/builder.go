package search

import (
	"net/url"
	"strconv"
	"strings"
)

// BedroomMode selects how bare bedroom/bathroom numbers are interpreted.
// General listing treats them as exact counts; the search endpoint treats
// them as minimums.
type BedroomMode int

const (
	BedroomEquality BedroomMode = iota
	BedroomAtLeast
)

// BuildFilter translates untyped query parameters into a Predicate. Every
// parameter is optional; malformed numeric values drop only the offending
// clause, never default to zero. The function is pure: the same input
// always yields a structurally equal predicate.
func BuildFilter(params url.Values, mode BedroomMode) Predicate {
	var pred Predicate

	if term := strings.TrimSpace(first(params, "search", "query", "searchQuery")); term != "" {
		pred = pred.With(Substring{Fields: TextSearchFields, Term: term})
	}

	minPrice := parseFloat(first(params, "minPrice", "priceMin"))
	maxPrice := parseFloat(first(params, "maxPrice", "priceMax"))
	if minPrice != nil || maxPrice != nil {
		pred = pred.With(Range{Field: FieldPrice, Min: minPrice, Max: maxPrice})
	}

	pred = withCount(pred, FieldBedrooms, params.Get("bedrooms"), mode)
	pred = withCount(pred, FieldBathrooms, params.Get("bathrooms"), mode)

	if v := params.Get("propertyType"); v != "" {
		pred = pred.With(Equals{Field: FieldPropertyType, Value: v})
	}

	// The public vocabulary says "buy"; listings are stored as "sale".
	if v := first(params, "purpose", "type"); v != "" {
		if v == "buy" {
			v = "sale"
		}
		pred = pred.With(Equals{Field: FieldPurpose, Value: v})
	}

	if v := params.Get("city"); v != "" {
		pred = pred.With(Substring{Fields: []string{FieldCity}, Term: v})
	}
	if v := params.Get("country"); v != "" {
		pred = pred.With(Substring{Fields: []string{FieldCountry}, Term: v})
	}

	if v := params.Get("status"); v != "" {
		pred = pred.With(Equals{Field: FieldStatus, Value: v})
	}

	return pred
}

func withCount(pred Predicate, field, raw string, mode BedroomMode) Predicate {
	if raw == "" {
		return pred
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return pred
	}
	if mode == BedroomAtLeast {
		return pred.With(AtLeast{Field: field, Value: float64(n)})
	}
	return pred.With(Equals{Field: field, Value: n})
}

// first returns the first non-empty value among the aliases of a parameter.
func first(params url.Values, keys ...string) string {
	for _, key := range keys {
		if v := params.Get(key); v != "" {
			return v
		}
	}
	return ""
}

func parseFloat(raw string) *float64 {
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}
