package core

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"
)

var (
	// custom validation tags & texts
	alphaNumUnderTag   = "alphanum_"
	alphaNumUnderText  = "only alphanumeric characters and underscores are allowed"
	alphaNumUnderRegex = regexp.MustCompile(`^[\w\s]+$`)

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"

	enumTag = "enum"

	// udecimal=P_S : a non-negative decimal with at most P digits, S of which after the point
	uDecimalTag = "udecimal"
)

// Enum is implemented by closed value sets.
type Enum interface {
	IsValid() bool
	Values() []string
}

// Validator bundles a validator with the translator used to render its errors.
type Validator struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

// NewValidator creates an english Validator with the core validators registered.
func NewValidator() *Validator {
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)
	return &Validator{Validate: validate, Translator: translator}
}

func NewTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// Struct validates s and converts failures into a *ValidationError carrying translated field errors.
func (v *Validator) Struct(s interface{}) error {
	err := v.Validate.Struct(s)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return NewValidationError(errors.Wrap(err, "validating input"))
	}
	flds := make([]FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		flds = append(flds, FieldError{Field: fe.Field(), Error: fe.Translate(v.Translator)})
	}
	return &ValidationError{Fields: flds}
}

// RegisterStructValidation registers fn for the given struct types along with the custom tags it reports.
func (v *Validator) RegisterStructValidation(fn validator.StructLevelFunc, tags map[string]string, types ...interface{}) {
	v.Validate.RegisterStructValidation(fn, types...)
	for tag, text := range tags {
		RegisterCustomTranslation(v.Validate, v.Translator, tag, text)
	}
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// validate nullable & value types on what they would store
	validate.RegisterCustomTypeFunc(valuerTypeFunc,
		null.String{}, null.Int{}, null.Int64{}, null.Bool{},
		decimal.Decimal{}, decimal.NullDecimal{},
		Date{}, datatypes.Time(0),
	)

	// register custom validators
	_ = validate.RegisterValidation(alphaNumUnderTag, alphaNumUnderValidation)
	RegisterCustomTranslation(validate, translator, alphaNumUnderTag, alphaNumUnderText)

	_ = validate.RegisterValidation(enumTag, enumValidation)
	registerEnumTranslation(validate, translator)

	_ = validate.RegisterValidation(uDecimalTag, uDecimalValidation)
	registerUDecimalTranslation(validate, translator)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func registerEnumTranslation(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterTranslation(
		enumTag, translator,
		func(t ut.Translator) error { return t.Add(enumTag, "must be one of: {0}", false) },
		func(t ut.Translator, fe validator.FieldError) string {
			var values []string
			if e, ok := fe.Value().(Enum); ok {
				values = e.Values()
			}
			s, _ := t.T(enumTag, strings.Join(values, ", "))
			return s
		},
	)
}

func registerUDecimalTranslation(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterTranslation(
		uDecimalTag, translator,
		func(t ut.Translator) error {
			return t.Add(uDecimalTag, "must be a positive number with at most {0} digits and {1} decimal places", false)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			precision, scale, _ := parseDecimalParam(fe.Param())
			s, _ := t.T(uDecimalTag, strconv.Itoa(precision), strconv.Itoa(scale))
			return s
		},
	)
}

// Custom Global Validators

// valuerTypeFunc makes driver.Valuer types validate on the value they would store; NULL validates as empty.
func valuerTypeFunc(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(driver.Valuer); ok {
		if val, err := valuer.Value(); err == nil {
			return val
		}
	}
	return nil
}

// alphaNumUnderValidation only allows alphanumeric characters and underscores.
func alphaNumUnderValidation(fl validator.FieldLevel) bool {
	return alphaNumUnderRegex.MatchString(fl.Field().String())
}

// enumValidation checks that the value belongs to its closed set.
func enumValidation(fl validator.FieldLevel) bool {
	if e, ok := fl.Field().Interface().(Enum); ok {
		return e.IsValid()
	}
	return false
}

// uDecimalValidation checks a decimal against a NUMERIC(P,S) column and rejects negative numbers.
func uDecimalValidation(fl validator.FieldLevel) bool {
	precision, scale, err := parseDecimalParam(fl.Param())
	if err != nil {
		panic(err)
	}
	var d decimal.Decimal
	switch val := fl.Field().Interface().(type) {
	case string:
		if d, err = decimal.NewFromString(val); err != nil {
			return false
		}
	case decimal.Decimal:
		d = val
	default:
		return false
	}
	return DecimalFits(d, precision, scale) && !d.IsNegative()
}

// DecimalFits reports whether d can be stored in a NUMERIC(precision, scale) column without rounding.
func DecimalFits(d decimal.Decimal, precision, scale int) bool {
	if !d.Equal(d.Truncate(int32(scale))) {
		return false
	}
	return d.Abs().LessThan(decimal.New(1, int32(precision-scale)))
}

func parseDecimalParam(param string) (precision, scale int, err error) {
	parts := strings.SplitN(param, "_", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid %s param %q: want P_S", uDecimalTag, param)
	}
	if precision, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid %s precision %q", uDecimalTag, parts[0])
	}
	if scale, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid %s scale %q", uDecimalTag, parts[1])
	}
	return precision, scale, nil
}
