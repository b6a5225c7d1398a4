package api

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type dayRequest struct {
	Date string `query:"date" validate:"required,datetime=2006-01-02"`
}

type dayRangeRequest struct {
	Start string `query:"start" validate:"omitempty,datetime=2006-01-02"`
	Count int    `query:"count" validate:"min=0,max=31"`
}

type calendarRequest struct {
	Year     int    `query:"year" validate:"min=1,max=9999"`
	Month    int    `query:"month" validate:"min=1,max=12"`
	Selected string `query:"selected" validate:"omitempty,datetime=2006-01-02"`
}

type slotsRequest struct {
	Date string `query:"date" validate:"required,datetime=2006-01-02"`
	Meal string `query:"meal" validate:"required,oneof=breakfast lunch dinner"`
}

type exportRequest struct {
	Start string `query:"start" validate:"required,datetime=2006-01-02"`
	End   string `query:"end" validate:"required,datetime=2006-01-02"`
}

type settingsRequest struct {
	UseDeviceTimezone bool   `json:"use_device_timezone"`
	DeviceTimezone    string `json:"device_timezone" validate:"omitempty,timezone"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"query", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// validationMessage turns the first validation failure into a client message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "datetime":
		return fmt.Sprintf("invalid %s format; expected YYYY-MM-DD", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "max":
		return fmt.Sprintf("%s is out of range", fe.Field())
	case "timezone":
		return fmt.Sprintf("unknown %s", fe.Field())
	default:
		return fmt.Sprintf("invalid %s", fe.Field())
	}
}

// intParam reads an optional integer query parameter. Absent means def.
func intParam(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}
