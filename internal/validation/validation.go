// Package validation holds the input checks shared by the organizer and
// participant operations. Every function takes its input explicitly and
// returns either the normalized value or a bad-request error.
package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/macerhappen/backend/internal/errdef"
)

// TitleMaxLength matches the events.title column.
const TitleMaxLength = 100

// MaxAmount is the largest value a NUMERIC(10,2) column holds.
var MaxAmount = decimal.RequireFromString("99999999.99")

var validate = validator.New()

// Title checks an event title and returns it trimmed.
func Title(title string) (string, error) {
	title = strings.TrimSpace(title)
	err := validate.Var(title, "required,max=100")
	if err == nil {
		return title, nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].Tag() == "max" {
		return "", errdef.NewBadRequest("title must be at most %d characters", TitleMaxLength)
	}
	return "", errdef.NewBadRequest("title is required")
}

// Description checks an event description.
func Description(description string) (string, error) {
	if err := validate.Var(strings.TrimSpace(description), "required"); err != nil {
		return "", errdef.NewBadRequest("description is required")
	}
	return description, nil
}

// Amount checks a price or budget: non-negative, at most two decimal places
// and within the storage range.
func Amount(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errdef.NewBadRequest("%s must not be negative", field)
	}
	if !amount.Equal(amount.Round(2)) {
		return errdef.NewBadRequest("%s must have at most 2 decimal places", field)
	}
	if amount.GreaterThan(MaxAmount) {
		return errdef.NewBadRequest("%s must not exceed %s", field, MaxAmount.StringFixed(2))
	}
	return nil
}

// CategoryIDs checks a list of category IDs and returns it deduplicated in
// first-seen order. When required is true the list must not be empty.
func CategoryIDs(ids []int64, required bool) ([]int64, error) {
	if len(ids) == 0 {
		if required {
			return nil, errdef.NewBadRequest("at least one category is required")
		}
		return []int64{}, nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, errdef.NewBadRequest("One or more categories IDs are invalid.")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// KnownCategories fails when fewer categories exist than were requested.
func KnownCategories(requested []int64, existing int) error {
	if existing != len(requested) {
		return errdef.NewBadRequest("One or more categories IDs are invalid.")
	}
	return nil
}

// AnyProvided fails with a message naming the accepted fields when none of
// them were supplied.
func AnyProvided(provided bool, fields ...string) error {
	if provided {
		return nil
	}
	return errdef.NewBadRequest("You must provide at least one of: %s.", strings.Join(fields, ", "))
}
