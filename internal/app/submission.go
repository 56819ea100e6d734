package app

import (
	"errors"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Harsh636/TravelUttarakhandBackend/internal/domain"
)

// File fields accepted on a submission.
const (
	FieldImage     = "image"
	FieldBanner    = "banner"
	FieldMainImage = "mainImage"
)

// Upload is one received file part. Open is called at most once.
type Upload struct {
	Field    string
	Filename string
	Open     func() (io.ReadCloser, error)
}

// Submission is a create request as received, before any coercion.
// Pointer fields are nil when the client omitted them.
type Submission struct {
	Name             string  `form:"name" validate:"required,max=255"`
	Duration         *string `form:"duration" validate:"omitempty,max=100"`
	Difficulty       *string `form:"difficulty" validate:"omitempty,max=100"`
	RealPrice        string  `form:"realPrice" validate:"required,price"`
	DiscountedPrice  string  `form:"discountedPrice" validate:"required,price"`
	Heading          *string `form:"heading"`
	Overview         *string `form:"overview"`
	Highlight        *string `form:"highlight"`
	Itinerary        *string `form:"itinerary"`
	ItineraryDetails *string `form:"itinerary_details"`
	Altitude         *string `form:"altitude" validate:"omitempty,max=255"`
	Distance         *string `form:"distance" validate:"omitempty,max=255"`
	Transportation   *string `form:"transportation" validate:"omitempty,max=255"`
	Meals            *string `form:"meals" validate:"omitempty,max=255"`
	Season           *string `form:"season" validate:"omitempty,max=255"`
	TrekType         *string `form:"trek_type" validate:"omitempty,max=255"`

	Files []Upload `form:"-" validate:"-"`
}

var errBadPrice = errors.New("price must be a finite non-negative number")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		_, err := parsePrice(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return v
}

func parsePrice(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, errBadPrice
	}
	return f, nil
}

// Validate rejects what cannot be stored faithfully. The result is a
// *domain.ValidationError (errors.Is(err, domain.ErrInvalidInput)).
// Name is checked on a trimmed copy so a blank name is rejected while the
// stored value stays exactly as sent.
func (s Submission) Validate() error {
	fields := map[string]string{}
	checked := s
	checked.Name = strings.TrimSpace(s.Name)
	if err := validate.Struct(checked); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			return err
		}
		for _, fe := range ves {
			fields[fe.Field()] = describe(fe)
		}
	}
	seen := map[string]bool{}
	for _, u := range s.Files {
		switch u.Field {
		case FieldImage, FieldBanner, FieldMainImage:
		default:
			fields[u.Field] = "unexpected file field"
			continue
		}
		if seen[u.Field] {
			fields[u.Field] = "only one file allowed"
		}
		seen[u.Field] = true
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "price":
		return "must be a non-negative number"
	}
	return "is invalid"
}
