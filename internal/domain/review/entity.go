// Package review holds student reviews of housing units. A review may only be
// written by a student who completed a lease on the unit; that proof is
// checked by the application layer, the entity only guards its own fields.
package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
)

const domainName = "review"

// Content and rating bounds.
const (
	MinContentLength = 10
	MaxContentLength = 2000
	MinRating        = 1
	MaxRating        = 5
)

// Rating is a 1..5 star score.
type Rating int

// IsValid reports whether r is within 1..5.
func (r Rating) IsValid() bool {
	return r >= MinRating && r <= MaxRating
}

// Review is a rating and comment on a housing unit.
type Review struct {
	// ID - unique identifier (UUID).
	ID string

	// Content - trimmed text, 10..2000 characters.
	Content string

	// Rating - 1..5.
	Rating Rating

	// HousingID - the reviewed unit.
	HousingID string

	// AuthorID - the student who wrote it. Only the author may edit.
	AuthorID string

	// CreatedAt - when the review was posted.
	CreatedAt time.Time

	// ModifiedAt - when the author last edited it.
	ModifiedAt *time.Time
}

// NewParams holds the input for New.
type NewParams struct {
	ID        string
	Content   string
	Rating    int
	HousingID string
	AuthorID  string
	Now       time.Time
}

// New builds a review after validating content and rating.
func New(p NewParams) (*Review, error) {
	if err := ValidateContent("Create", p.Content); err != nil {
		return nil, err
	}
	if err := ValidateRating("Create", p.Rating); err != nil {
		return nil, err
	}
	if err := shared.RequireID(domainName, "Create", "housing id", p.HousingID); err != nil {
		return nil, err
	}
	if err := shared.RequireID(domainName, "Create", "author id", p.AuthorID); err != nil {
		return nil, err
	}

	return &Review{
		ID:        p.ID,
		Content:   strings.TrimSpace(p.Content),
		Rating:    Rating(p.Rating),
		HousingID: p.HousingID,
		AuthorID:  p.AuthorID,
		CreatedAt: p.Now.UTC(),
	}, nil
}

// ValidateContent checks the trimmed length of the text.
func ValidateContent(op, content string) error {
	n := shared.RuneLen(content)
	if n < MinContentLength || n > MaxContentLength {
		return shared.Validation(domainName, op,
			"content must be between %d and %d characters, got %d",
			MinContentLength, MaxContentLength, n)
	}
	return nil
}

// ValidateRating checks the 1..5 range.
func ValidateRating(op string, rating int) error {
	if !Rating(rating).IsValid() {
		return shared.Validation(domainName, op, "rating must be between %d and %d, got %d",
			MinRating, MaxRating, rating)
	}
	return nil
}

// IsAuthor reports whether actorID wrote the review.
func (r *Review) IsAuthor(actorID string) bool {
	return actorID != "" && r.AuthorID == actorID
}

// Edit applies new content and/or rating. Nil arguments leave the field as is.
func (r *Review) Edit(content *string, rating *int, at time.Time) error {
	if content != nil {
		if err := ValidateContent("Update", *content); err != nil {
			return err
		}
	}
	if rating != nil {
		if err := ValidateRating("Update", *rating); err != nil {
			return err
		}
	}

	if content != nil {
		r.Content = strings.TrimSpace(*content)
	}
	if rating != nil {
		r.Rating = Rating(*rating)
	}
	modified := at.UTC()
	r.ModifiedAt = &modified
	return nil
}

// String returns a compact representation for logging.
func (r *Review) String() string {
	return fmt.Sprintf("Review{ID: %s, Housing: %s, Author: %s, Rating: %d}",
		r.ID, r.HousingID, r.AuthorID, r.Rating)
}

// Clone creates a deep copy of the review.
func (r *Review) Clone() *Review {
	if r == nil {
		return nil
	}
	clone := *r
	if r.ModifiedAt != nil {
		modifiedAt := *r.ModifiedAt
		clone.ModifiedAt = &modifiedAt
	}
	return &clone
}
