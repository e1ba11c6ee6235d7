package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/noah-isme/classroom-api/internal/dto"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

// NewValidator returns a validator reporting fields by their JSON or query name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

func validationError(err error) *appErrors.Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return appErrors.Validation(err, "Invalid payload")
	}
	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", fe.Field())
	case "notblank":
		msg = fmt.Sprintf("%s must not be blank", fe.Field())
	case "oneof":
		msg = fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "email":
		msg = fmt.Sprintf("%s must be a valid email", fe.Field())
	case "min", "gt":
		msg = fmt.Sprintf("%s must be at least %s", fe.Field(), minParam(fe))
	case "max":
		msg = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return appErrors.Validation(err, msg)
}

func minParam(fe validator.FieldError) string {
	if fe.Tag() == "gt" {
		return "1"
	}
	return fe.Param()
}

var errEmptyUpdate = appErrors.Clone(appErrors.ErrValidation, "At least one field must be provided")

// PageLimits bounds list pagination.
type PageLimits struct {
	Default int
	Max     int
}

// DefaultPageLimits applies when no limits are configured.
var DefaultPageLimits = PageLimits{Default: 10, Max: 100}

// pager is embedded by services exposing list endpoints.
type pager struct {
	limits PageLimits
}

// SetPageLimits overrides the default and maximum page size.
func (p *pager) SetPageLimits(limits PageLimits) {
	if limits.Max <= 0 {
		limits.Max = DefaultPageLimits.Max
	}
	if limits.Default <= 0 {
		limits.Default = DefaultPageLimits.Default
	}
	if limits.Default > limits.Max {
		limits.Default = limits.Max
	}
	p.limits = limits
}

func (p *pager) resolve(q dto.PageQuery) (int, int, error) {
	limits := p.limits
	if limits.Max == 0 {
		limits = DefaultPageLimits
	}
	page, limit := q.Resolve(limits.Default)
	if page < 1 {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "page must be at least 1")
	}
	if limit < 1 || limit > limits.Max {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("limit must be between 1 and %d", limits.Max))
	}
	return page, limit, nil
}
