// Package validation checks request input before it reaches the store. Every
// failure is an apperr validation error with one entry per offending field.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"geosocial/pkg/apperr"

	"github.com/go-playground/validator/v10"
)

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return field.Name
		})
	})
	return validate
}

// Struct validates v against its `validate` tags.
func Struct(v interface{}) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperr.Internal("validation failed", err)
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = describe(fe)
		}
	}
	return apperr.Validation("invalid input", fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "alphanum":
		return "must contain only letters and digits"
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// Coordinates checks that lat and lon are both set or both absent and within
// range. With required, absence is also an error.
func Coordinates(lat, lon *float64, required bool) error {
	fields := map[string]string{}

	switch {
	case lat == nil && lon == nil:
		if required {
			fields["latitude"] = "is required"
			fields["longitude"] = "is required"
		}
	case lat == nil:
		fields["latitude"] = "is required when longitude is set"
	case lon == nil:
		fields["longitude"] = "is required when latitude is set"
	}

	if lat != nil {
		if reason := checkRange(*lat, MinLatitude, MaxLatitude); reason != "" {
			fields["latitude"] = reason
		}
	}
	if lon != nil {
		if reason := checkRange(*lon, MinLongitude, MaxLongitude); reason != "" {
			fields["longitude"] = reason
		}
	}

	if len(fields) > 0 {
		return apperr.Validation("invalid coordinates", fields)
	}
	return nil
}

// BoundingBox checks a latitude/longitude rectangle. Boxes crossing the
// antimeridian (lonMin > lonMax) are rejected rather than wrapped.
func BoundingBox(latMin, latMax, lonMin, lonMax float64) error {
	fields := map[string]string{}

	if reason := checkRange(latMin, MinLatitude, MaxLatitude); reason != "" {
		fields["lat_min"] = reason
	}
	if reason := checkRange(latMax, MinLatitude, MaxLatitude); reason != "" {
		fields["lat_max"] = reason
	}
	if reason := checkRange(lonMin, MinLongitude, MaxLongitude); reason != "" {
		fields["lon_min"] = reason
	}
	if reason := checkRange(lonMax, MinLongitude, MaxLongitude); reason != "" {
		fields["lon_max"] = reason
	}

	if _, bad := fields["lat_min"]; !bad && latMin > latMax {
		fields["lat_min"] = "must be less than or equal to lat_max"
	}
	if _, bad := fields["lon_min"]; !bad && lonMin > lonMax {
		fields["lon_min"] = "must be less than or equal to lon_max"
	}

	if len(fields) > 0 {
		return apperr.Validation("invalid bounding box", fields)
	}
	return nil
}

func Pagination(page, size, maxSize int) error {
	fields := map[string]string{}
	if page < 1 {
		fields["page"] = "must be at least 1"
	}
	if size < 1 {
		fields["size"] = "must be at least 1"
	} else if size > maxSize {
		fields["size"] = fmt.Sprintf("must be at most %d", maxSize)
	} else if page > 1 && page-1 > math.MaxInt/size {
		// (page-1)*size must fit in an int offset.
		fields["page"] = "is too large"
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid pagination", fields)
	}
	return nil
}

func Radius(meters, maxMeters float64) error {
	if meters <= 0 || meters > maxMeters {
		return apperr.FieldError("radius", fmt.Sprintf("must be greater than 0 and at most %g", maxMeters))
	}
	return nil
}

func checkRange(v, lo, hi float64) string {
	// NaN fails both comparisons.
	if !(v >= lo && v <= hi) {
		return fmt.Sprintf("must be between %g and %g", lo, hi)
	}
	return ""
}
