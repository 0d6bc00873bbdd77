package database

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/estatehub/estatehub/internal/domain/entities"
	"github.com/estatehub/estatehub/internal/domain/repositories"
	"github.com/estatehub/estatehub/internal/domain/search"
	apperrors "github.com/estatehub/estatehub/pkg/errors"
)

// propertyColumns maps predicate field names to physical columns. The
// predicate layer stays store-agnostic; only this adapter knows the schema.
var propertyColumns = map[string]string{
	search.FieldID:           "id",
	search.FieldTitle:        "title",
	search.FieldDescription:  "description",
	search.FieldPropertyType: "property_type",
	search.FieldPurpose:      "purpose",
	search.FieldPrice:        "price",
	search.FieldStatus:       "status",
	search.FieldFeatured:     "featured",
	search.FieldBedrooms:     "total_bedrooms",
	search.FieldBathrooms:    "total_bathrooms",
	search.FieldAddress:      "address",
	search.FieldCity:         "city",
	search.FieldCountry:      "country",
	search.FieldOwner:        "owner_id",
	search.FieldCreatedAt:    "created_at",
}

func column(field string) (string, error) {
	col, ok := propertyColumns[field]
	if !ok {
		return "", apperrors.NewInternalError(fmt.Sprintf("unknown predicate field %q", field), nil)
	}
	return col, nil
}

// excludeDeleted is appended to every read query regardless of the predicate:
// soft-deleted listings are invisible to all search surfaces.
func excludeDeleted() goqu.Expression {
	return goqu.I("status").Neq(string(entities.StatusDeleted))
}

// translatePredicate converts a predicate AST into goqu WHERE expressions.
// Clauses are AND'd; a Substring clause expands to a case-insensitive ILIKE
// OR'd across its fields.
func translatePredicate(pred search.Predicate) ([]goqu.Expression, error) {
	exprs := make([]goqu.Expression, 0, len(pred.Clauses)+1)

	for _, clause := range pred.Clauses {
		switch c := clause.(type) {
		case search.Range:
			col, err := column(c.Field)
			if err != nil {
				return nil, err
			}
			if c.Min != nil {
				exprs = append(exprs, goqu.I(col).Gte(*c.Min))
			}
			if c.Max != nil {
				exprs = append(exprs, goqu.I(col).Lte(*c.Max))
			}
		case search.Equals:
			col, err := column(c.Field)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, goqu.I(col).Eq(c.Value))
		case search.AtLeast:
			col, err := column(c.Field)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, goqu.I(col).Gte(c.Value))
		case search.Substring:
			pattern := fmt.Sprintf("%%%s%%", c.Term)
			or := make([]goqu.Expression, 0, len(c.Fields))
			for _, field := range c.Fields {
				col, err := column(field)
				if err != nil {
					return nil, err
				}
				or = append(or, goqu.I(col).ILike(pattern))
			}
			exprs = append(exprs, goqu.Or(or...))
		case search.In:
			col, err := column(c.Field)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, goqu.Ex{col: c.Values})
		case search.Not:
			col, err := column(c.Field)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, goqu.I(col).Neq(c.Value))
		default:
			return nil, apperrors.NewInternalError(fmt.Sprintf("unknown predicate clause %T", clause), nil)
		}
	}

	exprs = append(exprs, excludeDeleted())
	return exprs, nil
}

// translateSort converts sort fields to ORDER BY expressions and appends the
// identifier tiebreak so equal sort keys cannot drift between pages.
func translateSort(sort []repositories.SortField) ([]exp.OrderedExpression, error) {
	ordered := make([]exp.OrderedExpression, 0, len(sort)+1)
	for _, s := range sort {
		col, err := column(s.Field)
		if err != nil {
			return nil, err
		}
		if s.Desc {
			ordered = append(ordered, goqu.I(col).Desc())
		} else {
			ordered = append(ordered, goqu.I(col).Asc())
		}
	}
	ordered = append(ordered, goqu.I("id").Asc())
	return ordered, nil
}
