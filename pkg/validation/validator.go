package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxNodeID bounds node identifiers read from tabular sources
	MaxNodeID int64 = 1 << 40
)

func init() {
	validate = validator.New()
}

// EdgeRecord is one row of a tabular edge source
type EdgeRecord struct {
	Line int     `validate:"-"`
	From int64   `validate:"min=0"`
	To   int64   `validate:"min=0"`
	Cost float64 `validate:"gte=0"`
}

// ValidateEdgeRecord validates a parsed edge row
func ValidateEdgeRecord(rec *EdgeRecord) error {
	if rec == nil {
		return errors.New("edge record cannot be nil")
	}

	if err := validate.Struct(rec); err != nil {
		return formatValidationError(err)
	}

	if rec.From > MaxNodeID || rec.To > MaxNodeID {
		return fmt.Errorf("From/To: node id exceeds maximum %d", MaxNodeID)
	}
	if math.IsNaN(rec.Cost) || math.IsInf(rec.Cost, 0) {
		return errors.New("Cost: must be a finite number")
	}
	return nil
}

// ValidateStruct validates any struct carrying `validate` tags
func ValidateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError turns the first tag failure into a readable error
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		case "required_if":
			return fmt.Errorf("%s: field is required when %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
