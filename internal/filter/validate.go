package filter

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"penguindash/internal/dataset"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator used for selection states. Field
// names in errors are the json names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()

		v.RegisterValidation("plot", oneOf(PlotScatter, PlotHistogram))
		v.RegisterValidation("secondary_plot", oneOf(SecondaryHeatmap, SecondaryViolin))
		v.RegisterValidation("axis", oneOf(dataset.NumericColumns...))
		v.RegisterValidation("hue", oneOf(dataset.CategoryColumns...))

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		v.RegisterStructValidation(validateRanges, State{})
		validate = v
	})
	return validate
}

// Validate checks that every control value is one the sidebar can produce.
// The returned error is a validator.ValidationErrors.
func (s State) Validate() error {
	return Validator().Struct(s)
}

func oneOf(allowed ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		for _, a := range allowed {
			if v == a {
				return true
			}
		}
		return false
	}
}

func validateRanges(sl validator.StructLevel) {
	s := sl.Current().Interface().(State)

	check := func(r, bounds Range, name, field string) {
		switch {
		case r.Low > r.High:
			sl.ReportError(r, name, field, "range", "")
		case !r.Within(bounds):
			sl.ReportError(r, name, field, "bounds", bounds.String())
		}
	}
	check(s.Mass, MassBounds, "mass", "Mass")
	check(s.BillDepth, BillDepthBounds, "bill_depth", "BillDepth")
	check(s.BillLength, BillLengthBounds, "bill_length", "BillLength")
}
