package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrPostNotFound is returned when no post matches a lookup.
var ErrPostNotFound = errors.New("post not found")

type Post struct {
	ID        int64     `json:"id" db:"id" yaml:"-"`
	Title     string    `json:"title" db:"title" yaml:"title" validate:"required"`
	Content   string    `json:"content" db:"content" yaml:"content" validate:"required"`
	Summary   string    `json:"summary" db:"summary" yaml:"summary" validate:"required"`
	Slug      string    `json:"slug" db:"slug" yaml:"-"`
	Published bool      `json:"published" db:"published" yaml:"published"`
	CreatedAt time.Time `json:"created_at" db:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" yaml:"-"`
}

// PostScaffold is the blank post returned by the "new" endpoint. Nothing
// has been persisted, so id and timestamps are null.
type PostScaffold struct {
	ID        *int64     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Summary   string     `json:"summary"`
	Slug      string     `json:"slug"`
	Published bool       `json:"published"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func NewPostScaffold() PostScaffold {
	return PostScaffold{}
}

// PostFilter narrows ListAll. A nil Published returns every post.
type PostFilter struct {
	Published *bool
}

// PostStats holds the counts shown on the admin dashboard.
type PostStats struct {
	Total     int `json:"total" db:"total"`
	Published int `json:"published" db:"published"`
}

// SlugSource names the post field a slug is generated from.
type SlugSource string

const (
	SlugFromTitle   SlugSource = "title"
	SlugFromSummary SlugSource = "summary"
)

// ParseSlugSource maps a config value to a SlugSource, defaulting to title.
func ParseSlugSource(value string) (SlugSource, error) {
	switch SlugSource(strings.ToLower(strings.TrimSpace(value))) {
	case "", SlugFromTitle:
		return SlugFromTitle, nil
	case SlugFromSummary:
		return SlugFromSummary, nil
	}
	return "", fmt.Errorf("unknown slug source %q (want title or summary)", value)
}

// SlugBase returns the field value the slug is derived from.
func (p Post) SlugBase(source SlugSource) string {
	if source == SlugFromSummary {
		return p.Summary
	}
	return p.Title
}
