package domain

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	domerr "github.com/mycelium-catalog/mycelium/pkg/domain/errors"
)

const msgRequired = "Field required"

// FieldError is a violation found at Loc.
//
// Loc is a path from the document root, like ["body", "info", "title"].
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func (fe FieldError) String() string {
	return strings.Join(fe.Loc, ".") + ": " + fe.Msg
}

// ValidationError reports all violations found in a document.
//
// errors.Is(err, ErrInvalidContract) is true for ValidationError.
type ValidationError struct {
	Errors []FieldError
}

var _ error = &ValidationError{}

func (v *ValidationError) Error() string {
	msgs := make([]string, len(v.Errors))
	for i, fe := range v.Errors {
		msgs[i] = fe.String()
	}
	return fmt.Sprintf("%s: %s", domerr.ErrInvalidContract, strings.Join(msgs, "; "))
}

func (v *ValidationError) Unwrap() error {
	return domerr.ErrInvalidContract
}

func (v *ValidationError) Add(fe ...FieldError) {
	v.Errors = append(v.Errors, fe...)
}

func (v *ValidationError) Len() int {
	return len(v.Errors)
}

// Prefixed returns a copy of v with locations under prefix.
func (v *ValidationError) Prefixed(prefix ...string) *ValidationError {
	ret := &ValidationError{Errors: make([]FieldError, 0, len(v.Errors))}
	for _, fe := range v.Errors {
		loc := make([]string, 0, len(prefix)+len(fe.Loc))
		loc = append(append(loc, prefix...), fe.Loc...)
		ret.Add(FieldError{Loc: loc, Msg: fe.Msg, Type: fe.Type})
	}
	return ret
}

// errOrNil returns v as error if v has some violations, or nil.
func (v *ValidationError) errOrNil() error {
	if v.Len() == 0 {
		return nil
	}
	sort.SliceStable(v.Errors, func(i, j int) bool {
		return strings.Join(v.Errors[i].Loc, "\x00") < strings.Join(v.Errors[j].Loc, "\x00")
	})
	return v
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" {
			return f.Name
		}
		return name
	})

	if err := v.RegisterValidation("datatype", func(fl validator.FieldLevel) bool {
		return DataType(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("infostatus", func(fl validator.FieldLevel) bool {
		return InfoStatus(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
	return v
}

// validateStruct checks constraints declared with `validate` tags on s.
//
// Locations of returned errors start with root.
func validateStruct(s any, root ...string) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Loc: root, Msg: err.Error(), Type: "value_error"}}
	}

	ret := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		loc := append(append([]string{}, root...), namespaceToLoc(fe.Namespace())...)
		msg, typ := describe(fe)
		ret = append(ret, FieldError{Loc: loc, Msg: msg, Type: typ})
	}
	return ret
}

// namespaceToLoc converts "DataContract.models[orders.v1].fields[id].type"
// into ["models", "orders.v1", "fields", "id", "type"].
//
// Map keys in brackets are taken as they are, even if they contain dots.
func namespaceToLoc(ns string) []string {
	loc := []string{}
	root := true // the first name is the type of the root struct
	name := strings.Builder{}
	flush := func() {
		if root {
			root = false
		} else if name.Len() != 0 {
			loc = append(loc, name.String())
		}
		name.Reset()
	}

	for i := 0; i < len(ns); i++ {
		switch ns[i] {
		case '.':
			flush()
		case '[':
			flush()
			end := closingBracket(ns, i)
			loc = append(loc, ns[i+1:end])
			i = end
		default:
			name.WriteByte(ns[i])
		}
	}
	flush()
	return loc
}

// closingBracket returns the index of "]" closing "[" at open.
//
// It is the first "]" followed by ".", "[" or the end of ns.
// When there are none, it returns len(ns).
func closingBracket(ns string, open int) int {
	for i := open + 1; i < len(ns); i++ {
		if ns[i] != ']' {
			continue
		}
		if i+1 == len(ns) || ns[i+1] == '.' || ns[i+1] == '[' {
			return i
		}
	}
	return len(ns)
}

func describe(fe validator.FieldError) (msg string, typ string) {
	switch fe.Tag() {
	case "required":
		return msgRequired, "missing"
	case "email":
		return "value is not a valid email address", "value_error"
	case "http_url", "url":
		return "Input should be a valid URL", "url_parsing"
	case "datatype":
		return "Input should be " + quoted(dataTypes), "enum"
	case "infostatus":
		return "Input should be " + quoted(infoStatuses), "literal_error"
	default:
		return fmt.Sprintf("failed on the '%s' constraint", fe.Tag()), "value_error"
	}
}
