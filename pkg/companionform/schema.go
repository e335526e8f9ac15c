package companionform

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names a Draft input. The value is the JSON wire name of the field.
type Field string

const (
	FieldName         Field = "name"
	FieldDescription  Field = "description"
	FieldInstructions Field = "instructions"
	FieldSeed         Field = "seed"
	FieldImageRef     Field = "src"
	FieldCategoryID   Field = "categoryId"
)

// Fields lists every Draft field in the order the form presents them.
var Fields = []Field{
	FieldImageRef,
	FieldName,
	FieldDescription,
	FieldCategoryID,
	FieldInstructions,
	FieldSeed,
}

const (
	MinInstructionsLength = 200
	MinSeedLength         = 200
)

var ErrUnknownField = errors.New("companionform: unknown field")

// Draft is the companion being created or edited.
type Draft struct {
	Name         string `json:"name" yaml:"name" validate:"min=1"`
	Description  string `json:"description" yaml:"description" validate:"min=1"`
	Instructions string `json:"instructions" yaml:"instructions" validate:"min=200"`
	Seed         string `json:"seed" yaml:"seed" validate:"min=200"`
	Src          string `json:"src" yaml:"src" validate:"min=1"`
	CategoryID   string `json:"categoryId" yaml:"categoryId" validate:"min=1"`
}

// Get returns the value of f, or "" for an unknown field.
func (d Draft) Get(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldDescription:
		return d.Description
	case FieldInstructions:
		return d.Instructions
	case FieldSeed:
		return d.Seed
	case FieldImageRef:
		return d.Src
	case FieldCategoryID:
		return d.CategoryID
	}
	return ""
}

func (d *Draft) set(f Field, value string) error {
	switch f {
	case FieldName:
		d.Name = value
	case FieldDescription:
		d.Description = value
	case FieldInstructions:
		d.Instructions = value
	case FieldSeed:
		d.Seed = value
	case FieldImageRef:
		d.Src = value
	case FieldCategoryID:
		d.CategoryID = value
	default:
		return ErrUnknownField
	}
	return nil
}

// Category is an externally owned classification a Draft can select.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Record is a persisted companion. Supplying one to a Workflow switches it to update mode.
type Record struct {
	ID string `json:"id"`
	Draft
}

var messages = map[Field]string{
	FieldName:         "Name is required.",
	FieldDescription:  "Description is required.",
	FieldInstructions: "Instructions require at least 200 characters.",
	FieldSeed:         "Seed requires at least 200 characters.",
	FieldImageRef:     "Image is required.",
	FieldCategoryID:   "Category is required",
}

// Message returns the violation message shown for f.
func Message(f Field) string {
	return messages[f]
}

// FieldErrors maps each failing field to its violation message.
type FieldErrors map[Field]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range Fields {
		if msg, ok := e[f]; ok {
			parts = append(parts, string(f)+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}

// Clone returns a copy of e. A nil or empty receiver yields nil.
func (e FieldErrors) Clone() FieldErrors {
	if len(e) == 0 {
		return nil
	}
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every field of d and returns nil when d may be submitted.
// String lengths are counted in code points.
func Validate(d Draft) FieldErrors {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Only reachable when Struct is handed a non-struct value.
		panic(err)
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		f := Field(fe.Field())
		out[f] = messages[f]
	}
	return out
}

// ValidateField returns the violation message for f in d, or "" when f is valid.
func ValidateField(d Draft, f Field) string {
	return Validate(d)[f]
}
