package sources

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/agentstation/profilemerge/pkg/constants"
	"github.com/agentstation/profilemerge/pkg/errors"
	"github.com/agentstation/profilemerge/pkg/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names in field errors
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// validate a Text as the string it holds, or as absent
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		t, ok := field.Interface().(Text)
		if !ok || !t.Valid {
			return nil
		}
		return &t.Value
	}, Text{})

	if err := v.RegisterValidation("orgdomain", func(fl validator.FieldLevel) bool {
		return IsOrganizationEmail(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

// IsOrganizationEmail reports whether email ends with one of the accepted
// organization domains.
func IsOrganizationEmail(email string) bool {
	for _, domain := range constants.OrganizationDomains() {
		if strings.HasSuffix(email, domain) {
			return true
		}
	}
	return false
}

// structError converts validator output into a ShapeError naming the
// first failing field.
func structError(source types.SourceID, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		return errors.NewShapeError(source.String(), field, fmt.Errorf("rule %q failed", fe.Tag()))
	}
	return errors.NewShapeError(source.String(), "", err)
}
