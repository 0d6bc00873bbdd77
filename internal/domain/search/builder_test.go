package search_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatehub/estatehub/internal/domain/search"
)

func TestBuildFilter_EmptyParams(t *testing.T) {
	pred := search.BuildFilter(url.Values{}, search.BedroomEquality)
	assert.True(t, pred.IsEmpty())
}

func TestBuildFilter_FreeTextSearch(t *testing.T) {
	t.Run("search term spans all text fields", func(t *testing.T) {
		pred := search.BuildFilter(url.Values{"search": {"lagos"}}, search.BedroomEquality)
		require.Len(t, pred.Clauses, 1)

		sub, ok := pred.Clauses[0].(search.Substring)
		require.True(t, ok)
		assert.Equal(t, "lagos", sub.Term)
		assert.Equal(t, search.TextSearchFields, sub.Fields)
	})

	t.Run("query and searchQuery are aliases", func(t *testing.T) {
		a := search.BuildFilter(url.Values{"query": {"villa"}}, search.BedroomEquality)
		b := search.BuildFilter(url.Values{"searchQuery": {"villa"}}, search.BedroomEquality)
		assert.Equal(t, a, b)
	})

	t.Run("whitespace-only term is absent", func(t *testing.T) {
		pred := search.BuildFilter(url.Values{"search": {"   "}}, search.BedroomEquality)
		assert.True(t, pred.IsEmpty())
	})
}

func TestBuildFilter_PriceRange(t *testing.T) {
	t.Run("both bounds", func(t *testing.T) {
		pred := search.BuildFilter(url.Values{
			"minPrice": {"100000"},
			"maxPrice": {"500000"},
		}, search.BedroomEquality)
		require.Len(t, pred.Clauses, 1)

		rng, ok := pred.Clauses[0].(search.Range)
		require.True(t, ok)
		assert.Equal(t, search.FieldPrice, rng.Field)
		require.NotNil(t, rng.Min)
		require.NotNil(t, rng.Max)
		assert.Equal(t, 100000.0, *rng.Min)
		assert.Equal(t, 500000.0, *rng.Max)
	})

	t.Run("malformed bound is dropped, valid bound survives", func(t *testing.T) {
		pred := search.BuildFilter(url.Values{
			"minPrice": {"abc"},
			"maxPrice": {"500000"},
		}, search.BedroomEquality)
		require.Len(t, pred.Clauses, 1)

		rng, ok := pred.Clauses[0].(search.Range)
		require.True(t, ok)
		assert.Nil(t, rng.Min)
		require.NotNil(t, rng.Max)
		assert.Equal(t, 500000.0, *rng.Max)
	})

	t.Run("both bounds malformed yields no clause", func(t *testing.T) {
		pred := search.BuildFilter(url.Values{
			"minPrice": {"abc"},
			"maxPrice": {"xyz"},
		}, search.BedroomEquality)
		assert.True(t, pred.IsEmpty())
	})

	t.Run("priceMin and priceMax aliases", func(t *testing.T) {
		a := search.BuildFilter(url.Values{"priceMin": {"10"}, "priceMax": {"20"}}, search.BedroomEquality)
		b := search.BuildFilter(url.Values{"minPrice": {"10"}, "maxPrice": {"20"}}, search.BedroomEquality)
		assert.Equal(t, a, b)
	})
}

func TestBuildFilter_BedroomModes(t *testing.T) {
	params := url.Values{"bedrooms": {"3"}, "bathrooms": {"2"}}

	t.Run("equality mode", func(t *testing.T) {
		pred := search.BuildFilter(params, search.BedroomEquality)
		require.Len(t, pred.Clauses, 2)
		assert.Equal(t, search.Equals{Field: search.FieldBedrooms, Value: 3}, pred.Clauses[0])
		assert.Equal(t, search.Equals{Field: search.FieldBathrooms, Value: 2}, pred.Clauses[1])
	})

	t.Run("at-least mode", func(t *testing.T) {
		pred := search.BuildFilter(params, search.BedroomAtLeast)
		require.Len(t, pred.Clauses, 2)
		assert.Equal(t, search.AtLeast{Field: search.FieldBedrooms, Value: 3}, pred.Clauses[0])
		assert.Equal(t, search.AtLeast{Field: search.FieldBathrooms, Value: 2}, pred.Clauses[1])
	})

	t.Run("malformed count is dropped", func(t *testing.T) {
		pred := search.BuildFilter(url.Values{"bedrooms": {"three"}}, search.BedroomEquality)
		assert.True(t, pred.IsEmpty())
	})
}

func TestBuildFilter_Purpose(t *testing.T) {
	t.Run("buy is normalized to sale", func(t *testing.T) {
		pred := search.BuildFilter(url.Values{"purpose": {"buy"}}, search.BedroomEquality)
		require.Len(t, pred.Clauses, 1)
		assert.Equal(t, search.Equals{Field: search.FieldPurpose, Value: "sale"}, pred.Clauses[0])
	})

	t.Run("rent passes through", func(t *testing.T) {
		pred := search.BuildFilter(url.Values{"purpose": {"rent"}}, search.BedroomEquality)
		require.Len(t, pred.Clauses, 1)
		assert.Equal(t, search.Equals{Field: search.FieldPurpose, Value: "rent"}, pred.Clauses[0])
	})

	t.Run("type is an alias for purpose", func(t *testing.T) {
		a := search.BuildFilter(url.Values{"type": {"buy"}}, search.BedroomEquality)
		b := search.BuildFilter(url.Values{"purpose": {"buy"}}, search.BedroomEquality)
		assert.Equal(t, a, b)
	})
}

func TestBuildFilter_LocationAndStatus(t *testing.T) {
	pred := search.BuildFilter(url.Values{
		"city":    {"Lagos"},
		"country": {"Nigeria"},
		"status":  {"approved"},
	}, search.BedroomEquality)
	require.Len(t, pred.Clauses, 3)

	assert.Equal(t, search.Substring{Fields: []string{search.FieldCity}, Term: "Lagos"}, pred.Clauses[0])
	assert.Equal(t, search.Substring{Fields: []string{search.FieldCountry}, Term: "Nigeria"}, pred.Clauses[1])
	assert.Equal(t, search.Equals{Field: search.FieldStatus, Value: "approved"}, pred.Clauses[2])
}

func TestBuildFilter_Deterministic(t *testing.T) {
	params := url.Values{
		"search":       {"garden"},
		"minPrice":     {"50000"},
		"bedrooms":     {"2"},
		"propertyType": {"apartment"},
		"purpose":      {"buy"},
		"city":         {"Abuja"},
	}

	a := search.BuildFilter(params, search.BedroomEquality)
	b := search.BuildFilter(params, search.BedroomEquality)
	assert.Equal(t, a, b)
}
