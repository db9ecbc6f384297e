package model

// SeedComposer is one record of the composers seed file. ComposerID is kept
// as the row id so pieces in the other file can reference it.
type SeedComposer struct {
	ComposerID  int    `json:"composer_id" validate:"gt=0"`
	Name        string `json:"name" validate:"required"`
	HomeCountry string `json:"home_country" validate:"required"`
}

func (s *SeedComposer) Validate() error {
	return validate.Struct(s)
}

// SeedPiece is one record of the pieces seed file.
type SeedPiece struct {
	Name       string  `json:"name" validate:"required"`
	AltName    *string `json:"alt_name"`
	Difficulty int     `json:"difficulty"`
	ComposerID int     `json:"composer_id" validate:"gt=0"`
}

func (s *SeedPiece) Validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	return ValidateDifficulty(s.Difficulty)
}

func (s *SeedPiece) Piece() Piece {
	return Piece{
		Name:       s.Name,
		AltName:    s.AltName,
		Difficulty: s.Difficulty,
		ComposerID: s.ComposerID,
	}
}
