package deal

import (
	"errors"
	"strings"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-playground/validator/v10"

	"stealdeals/internal/domain/entity"
	"stealdeals/internal/domain/value"
	"stealdeals/pkg/errcodes"
)

const (
	msgDiscountNotBelowOriginal = "Discounted price must be less than original price"
	msgInvalidDeal              = "Invalid deal"
)

//nolint:gochecknoglobals
var fieldMessages = map[string]string{
	"Title.min":             "Title must be at least 3 characters",
	"Title.max":             "Title must be at most 200 characters",
	"ImageURL.required":     "Image URL is required",
	"ImageURL.url":          "Image URL must be a valid URL",
	"AffiliateURL.required": "Affiliate URL is required",
	"AffiliateURL.url":      "Affiliate URL must be a valid URL",
	"OriginalPrice.gt":      "Price must be positive",
	"DiscountedPrice.gt":    "Price must be positive",
	"Category.required":     "Category is required",
	"Category.category":     "Unknown category",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	//nolint:errcheck // the tag name is a constant
	v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return value.Category(fl.Field().String()).Valid()
	})

	return v
}

// validateDraft applies the schema rules first and the price rule second, so
// a draft is rejected with exactly one message, and before any write.
func validateDraft(v *validator.Validate, draft entity.DealDraft) (entity.DealDraft, error) {
	draft.Title = strings.TrimSpace(draft.Title)

	if err := v.Struct(draft); err != nil {
		code, msg := firstViolation(err)

		return entity.DealDraft{}, failure.NewInvalidArgumentError(
			err.Error(),
			failure.WithCode(code),
			failure.WithDescription(msg),
		)
	}

	if draft.DiscountedPrice >= draft.OriginalPrice {
		return entity.DealDraft{}, failure.NewInvalidArgumentError(
			"discounted price is not below original price",
			failure.WithCode(errcodes.DiscountNotBelowOriginal),
			failure.WithDescription(msgDiscountNotBelowOriginal),
		)
	}

	return draft, nil
}

// firstViolation maps the first failed rule to an error code and a message.
func firstViolation(err error) (failure.ErrorCode, string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errcodes.ValidationError, msgInvalidDeal
	}

	code := errcodes.ValidationError
	switch verrs[0].Tag() {
	case "url":
		code = errcodes.InvalidURL
	case "category":
		code = errcodes.InvalidCategory
	}

	if msg, ok := fieldMessages[verrs[0].Field()+"."+verrs[0].Tag()]; ok {
		return code, msg
	}

	return code, msgInvalidDeal
}
