package flightservice

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/flightpath/internal/apperr"
	"github.com/starford/flightpath/internal/models"
	"github.com/starford/flightpath/internal/routing"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var codeRules = []validation.Rule{validation.Required, validation.Length(2, 4)}

func validateAirport(a models.Airport) error {
	return invalid(validation.ValidateStruct(&a,
		validation.Field(&a.Code, codeRules...),
		validation.Field(&a.Lat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&a.Lng, validation.Min(-180.0), validation.Max(180.0)),
	))
}

func validateFlight(f models.Flight) error {
	return invalid(validation.ValidateStruct(&f,
		validation.Field(&f.ID, validation.Required),
		validation.Field(&f.FromCode, codeRules...),
		validation.Field(&f.ToCode, codeRules...),
		validation.Field(&f.Date, validation.Required, validation.Date(dateLayout)),
		validation.Field(&f.Departure, validation.Required, validation.Date(timeLayout)),
		validation.Field(&f.Arrival, validation.Required, validation.Date(timeLayout)),
		validation.Field(&f.Duration, validation.By(durationRule)),
		validation.Field(&f.Price, validation.Min(0)),
	))
}

// durationRule accepts an empty duration (the search falls back to the
// default) or text ParseDuration understands.
func durationRule(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if _, err := routing.ParseDuration(s); err != nil {
		return errors.New("must look like 2h 15m")
	}
	return nil
}

// validateQuery checks search input shape only. Codes that name no airport
// are not an error; the search returns nothing for them.
func validateQuery(from, to, date string, requireDate bool) error {
	q := struct{ From, To, Date string }{from, to, date}
	return invalid(validation.ValidateStruct(&q,
		validation.Field(&q.From, validation.Required),
		validation.Field(&q.To, validation.Required),
		validation.Field(&q.Date, validation.When(requireDate, validation.Required), validation.Date(dateLayout)),
	))
}

func validateDate(date string) error {
	return invalid(validation.Validate(date, validation.Required, validation.Date(dateLayout)))
}

// invalid tags a validation failure with apperr.ErrInvalid.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
}
