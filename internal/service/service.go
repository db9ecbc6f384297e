// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations inside one unit of work per call, and
// calls repository methods to interact with the data
package service

import (
	"errors"
	"fmt"

	"github.com/deppfellow/repertoire/internal/errs"
	"github.com/deppfellow/repertoire/internal/model"
	"github.com/jackc/pgx/v5"
)

func composerNotFound(id int) error {
	return errs.NewNotFoundError(fmt.Sprintf("Composer ID: %d not found.", id), true, errs.StrPtr("COMPOSER_NOT_FOUND"))
}

func pieceNotFound(name string) error {
	return errs.NewNotFoundError(fmt.Sprintf("Piece name: '%s' not found.", name), true, errs.StrPtr("PIECE_NOT_FOUND"))
}

// unknownComposerReference is the 400 returned when an update points a piece
// at a composer that does not exist.
func unknownComposerReference(id int) error {
	return errs.NewBadRequestError(
		fmt.Sprintf("Composer ID: %d not found.", id),
		true,
		errs.StrPtr("PIECE_INVALID"),
		[]errs.FieldError{{Field: "composer_id", Error: "must reference an existing composer"}},
	)
}

func checkDifficulty(difficulty int) error {
	if err := model.ValidateDifficulty(difficulty); err != nil {
		return errs.NewBadRequestError(
			model.DifficultyMessage,
			true,
			errs.StrPtr("PIECE_INVALID"),
			[]errs.FieldError{{Field: "difficulty", Error: model.DifficultyMessage}},
		)
	}
	return nil
}

// orNotFound replaces a "no rows" error with notFound and passes anything else through.
func orNotFound(err error, notFound func() error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound()
	}
	return err
}
