package experiment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmptyVariable     = errors.New("variable name is empty")
	ErrDuplicateVariable = errors.New("this variable already exists")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError is a required-field failure rendered next to its field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects the failures of one form submission.
type ValidationErrors []*ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, 0, len(es))
	for _, e := range es {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// For returns the message for field, or "".
func (es ValidationErrors) For(field string) string {
	for _, e := range es {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

// BasicInfo is the input of the first wizard step.
type BasicInfo struct {
	Focus       string `validate:"required"`
	Name        string `validate:"required"`
	Description string `validate:"required"`
}

var requiredMessages = map[string]string{
	"Focus":       "Please provide the focus of your experiment",
	"Name":        "Name is required",
	"Description": "Description is required",
}

// ValidateBasicInfo checks the required fields of the first step. It returns
// ValidationErrors when any field is blank.
func ValidateBasicInfo(in BasicInfo) error {
	in.Focus = strings.TrimSpace(in.Focus)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate basic info: %w", err)
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := requiredMessages[fe.Field()]
		if !ok {
			msg = fmt.Sprintf("failed %s", fe.Tag())
		}
		out = append(out, &ValidationError{Field: fe.Field(), Message: msg})
	}
	return out
}

// ValidateVariableName checks a manually entered variable name against the
// working list. Names compare case-sensitively.
func ValidateVariableName(name string, existing []Variable) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyVariable
	}
	if HasVariable(existing, strings.TrimSpace(name)) {
		return ErrDuplicateVariable
	}
	return nil
}

// HasVariable reports whether vars contains name.
func HasVariable(vars []Variable, name string) bool {
	for _, v := range vars {
		if v.Name == name {
			return true
		}
	}
	return false
}

// InferDataType guesses a data type from a suggested variable name.
func InferDataType(name string) DataType {
	switch {
	case strings.Contains(name, "Rate"), strings.Contains(name, "Percentage"):
		return DataNumeric
	case strings.Contains(name, "Category"), strings.Contains(name, "Type"):
		return DataCategorical
	case strings.Contains(name, "Is"), strings.Contains(name, "Has"):
		return DataBinary
	default:
		return DataNumeric
	}
}
