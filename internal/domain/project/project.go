package project

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 1000
)

var urlPattern = regexp.MustCompile(`^https?://[\w\-]+(\.[\w\-]+)+[/#?]?.*$`)

// Project is a portfolio entry. Image is empty when no file was attached.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Fields are the user-editable attributes of a Project. Create and update
// both replace all of them.
type Fields struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Normalize returns a copy with surrounding whitespace stripped.
func (f Fields) Normalize() Fields {
	return Fields{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		URL:         strings.TrimSpace(f.URL),
	}
}

// Validate checks the normalized fields. Blank values fail Required.
func (f Fields) Validate() error {
	n := f.Normalize()
	return validation.ValidateStruct(&n,
		validation.Field(&n.Name,
			validation.Required.Error("project name is required"),
			validation.RuneLength(1, MaxNameLength),
		),
		validation.Field(&n.Description,
			validation.Required.Error("project description is required"),
			validation.RuneLength(1, MaxDescriptionLength),
		),
		validation.Field(&n.URL,
			validation.Required.Error("project URL is required"),
			validation.Match(urlPattern).Error("please enter a valid URL"),
		),
	)
}

// Replacement is the full set of mutable columns written by an update.
type Replacement struct {
	Fields
	Image     string
	UpdatedAt time.Time
}
