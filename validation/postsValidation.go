package validation

import (
	"blog-app/models"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Static messages shared with the store.
const (
	MsgSlugBlank = "slug can't be blank"
	MsgSlugTaken = "slug has already been taken"
)

// NormalizePost trims surrounding whitespace so that blank input fails
// the required checks.
func NormalizePost(post *models.Post) {
	post.Title = strings.TrimSpace(post.Title)
	post.Content = strings.TrimSpace(post.Content)
	post.Summary = strings.TrimSpace(post.Summary)
}

// ValidatePost checks that title, content and summary are present.
func ValidatePost(post models.Post) error {
	NormalizePost(&post)

	verr := &ValidationError{}
	if err := validate.Struct(post); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fieldErr := range fieldErrs {
			verr.Add(messageFor(fieldErr))
		}
	}
	return verr.Err()
}

// ValidateSlug checks a derived slug before it is written.
func ValidateSlug(slug string) error {
	if slug == "" {
		return &ValidationError{Errors: []string{MsgSlugBlank}}
	}
	return nil
}
