package core

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("sentiment", func(fl validator.FieldLevel) bool {
		return IsSentiment(Sentiment(fl.Field().String()))
	})
	_ = v.RegisterValidation("business_unit", func(fl validator.FieldLevel) bool {
		return IsBusinessUnit(BusinessUnit(fl.Field().String()))
	})
	return v
}

// IsSentiment reports whether s is one of the schema's sentiment values
func IsSentiment(s Sentiment) bool {
	for _, allowed := range Sentiments {
		if s == allowed {
			return true
		}
	}
	return false
}

// IsBusinessUnit reports whether u is one of the schema's business units
func IsBusinessUnit(u BusinessUnit) bool {
	for _, allowed := range BusinessUnits {
		if u == allowed {
			return true
		}
	}
	return false
}

// CheckConformance verifies a parsed summary against the constraints declared
// in the summarize_email schema. Employee sentiment may be empty since the
// item schema does not require it.
func CheckConformance(result *SummaryResult) error {
	if result == nil {
		return NewError("check conformance", ErrSchemaViolation, errors.New("nil summary"))
	}
	if err := validate.Struct(result); err != nil {
		return NewError("check conformance", ErrSchemaViolation, err)
	}
	return nil
}

// Violations lists the fields that failed validation in err
func Violations(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("%s failed %q (value: %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return out
}
