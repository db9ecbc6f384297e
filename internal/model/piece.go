package model

import (
	"fmt"
	"strconv"

	"github.com/deppfellow/repertoire/internal/validation"
)

const (
	MinDifficulty = 1
	MaxDifficulty = 10
)

// DifficultyMessage is the detail returned whenever a difficulty falls
// outside [MinDifficulty, MaxDifficulty].
var DifficultyMessage = fmt.Sprintf("Difficulty is limited to the integers of %d - %d inclusively.", MinDifficulty, MaxDifficulty)

// Piece is a single composition, authored by exactly one composer.
type Piece struct {
	ID         int     `json:"id" db:"id"`
	Name       string  `json:"name" db:"name"`
	AltName    *string `json:"alt_name" db:"alt_name"`
	Difficulty int     `json:"difficulty" db:"difficulty"`
	ComposerID int     `json:"composer_id" db:"composer_id"`
}

// Snapshot returns a detached copy, safe to hold across a mutation.
func (p Piece) Snapshot() Piece {
	if p.AltName != nil {
		alt := *p.AltName
		p.AltName = &alt
	}
	return p
}

// ValidateDifficulty rejects values outside the closed range [1, 10].
func ValidateDifficulty(difficulty int) error {
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		return validation.CustomValidationErrors{
			{Field: "difficulty", Message: DifficultyMessage},
		}
	}
	return nil
}

// ----------------------------------------------------------------------------

type ListPiecesRequest struct {
	// ComposerID stays a string so "?composer_id=" and a missing filter look the same.
	ComposerID string `query:"composer_id"`
}

// ComposerFilterMessage is the detail returned for a non-integer composer_id.
const ComposerFilterMessage = "composer_id must be an integer."

// Validate only checks that the filter parses. Any integer is accepted, so an
// id no composer has is reported by the lookup as not found.
func (r *ListPiecesRequest) Validate() error {
	if _, err := r.Filter(); err != nil {
		return validation.CustomValidationErrors{
			{Field: "composer_id", Message: ComposerFilterMessage},
		}
	}
	return nil
}

// Filter returns the parsed composer filter, or nil when none was given.
func (r *ListPiecesRequest) Filter() (*int, error) {
	if r.ComposerID == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(r.ComposerID)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ----------------------------------------------------------------------------

type CreatePieceRequest struct {
	Name       string  `json:"name" validate:"required"`
	AltName    *string `json:"alt_name"`
	Difficulty *int    `json:"difficulty" validate:"required"`
	ComposerID *int    `json:"composer_id" validate:"required"`
}

func (r *CreatePieceRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return ValidateDifficulty(*r.Difficulty)
}

// Piece builds the entity to insert. ID is assigned by the store.
func (r *CreatePieceRequest) Piece() Piece {
	return Piece{
		Name:       r.Name,
		AltName:    r.AltName,
		Difficulty: *r.Difficulty,
		ComposerID: *r.ComposerID,
	}
}

// ----------------------------------------------------------------------------

// UpdatePieceRequest is a partial update: nil fields keep their stored value.
type UpdatePieceRequest struct {
	// Target is the name the piece is currently stored under.
	Target     string  `param:"name" json:"-" validate:"required"`
	Name       *string `json:"name" validate:"omitempty,min=1"`
	AltName    *string `json:"alt_name"`
	Difficulty *int    `json:"difficulty"`
	ComposerID *int    `json:"composer_id"`
}

func (r *UpdatePieceRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Difficulty != nil {
		return ValidateDifficulty(*r.Difficulty)
	}
	return nil
}

// Apply copies every supplied field onto p.
func (r *UpdatePieceRequest) Apply(p *Piece) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.AltName != nil {
		alt := *r.AltName
		p.AltName = &alt
	}
	if r.Difficulty != nil {
		p.Difficulty = *r.Difficulty
	}
	if r.ComposerID != nil {
		p.ComposerID = *r.ComposerID
	}
}

// ----------------------------------------------------------------------------

type DeletePieceRequest struct {
	Name string `param:"name" json:"-" validate:"required"`
}

func (r *DeletePieceRequest) Validate() error {
	return validate.Struct(r)
}
