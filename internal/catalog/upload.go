package catalog

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
)

var (
	ErrNoFile        = errors.New("no file uploaded")
	ErrMissingFields = errors.New("missing required fields")
	ErrNotImage      = errors.New("file must be an image")
)

// Upload is a new wallpaper submitted by a user.
// File is nil when no file was sent; an empty file is accepted.
type Upload struct {
	File        []byte   `validate:"required"`
	Filename    string
	ContentType string   `validate:"image"`
	Title       string   `validate:"required"`
	Author      string   `validate:"required"`
	Category    Category `validate:"required,category"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("image", func(fl validator.FieldLevel) bool {
		return strings.HasPrefix(fl.Field().String(), "image/")
	})
	return v
}

// Validate checks the upload preconditions. When several fail, the error
// reported is the first of ErrNoFile, ErrMissingFields, ErrInvalidCategory,
// ErrNotImage.
func (u Upload) Validate() error {
	err := validate.Struct(u)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var res error
	rank := len(precedence)
	for _, fe := range verrs {
		e := fieldError(fe)
		for i, p := range precedence {
			if p == e && i < rank {
				rank, res = i, e
			}
		}
	}
	return res
}

var precedence = []error{ErrNoFile, ErrMissingFields, ErrInvalidCategory, ErrNotImage}

func fieldError(fe validator.FieldError) error {
	switch fe.Field() {
	case "File":
		return ErrNoFile
	case "ContentType":
		return ErrNotImage
	case "Category":
		if fe.Tag() == "category" {
			return ErrInvalidCategory
		}
	}
	return ErrMissingFields
}
