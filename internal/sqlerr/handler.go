package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/repertoire/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Constraint names declared by the schema migrations.
const (
	ConstraintPieceDifficulty = "piece_difficulty_check"
	ConstraintPieceComposer   = "piece_composer_id_fkey"
	ConstraintComposerName    = "composer_name_check"
	ConstraintComposerCountry = "composer_home_country_check"
	ConstraintPieceName       = "piece_name_check"
)

// constraintMessages holds client-facing explanations for named constraints.
// The database cause is appended to these when the error is surfaced.
var constraintMessages = map[string]string{
	ConstraintPieceDifficulty: "Difficulty is limited to the integers of 1 - 10 inclusively.",
	ConstraintPieceComposer:   "The referenced composer does not exist.",
	ConstraintComposerName:    "Composer name must not be empty.",
	ConstraintComposerCountry: "Composer home country must not be empty.",
	ConstraintPieceName:       "Piece name must not be empty.",
}

var uniqueKeyPattern = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// ErrCode reports the mapped Code for a given error.
//
// If err can be unwrapped into *Error its Code is returned; a raw
// *pgconn.PgError is mapped on the fly. Anything else is Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return MapCode(pgErr.Code)
	}
	return Other
}

// ConvertPgError converts a pgconn.PgError into our custom Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// generateErrorCode creates application error codes from DB errors.
//
// Output format:
//
//	<DOMAIN>_<ACTION>
//
// Example:
//
//	piece + CheckViolation => PIECE_INVALID
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)

	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation, NumericValueOutOfRange, InvalidTextRepresentation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage produces an end-user-facing error message.
func formatUserFriendlyMessage(sqlErr *Error) string {
	if msg, ok := constraintMessages[sqlErr.ConstraintName]; ok {
		return msg
	}

	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist.", entityName)

	case UniqueViolation:
		// "identifier" is replaced later if the column can be inferred.
		return fmt.Sprintf("A %s with this identifier already exists.", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required.", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions.", fieldName)
		}
		return "One or more values do not meet required conditions."

	case NumericValueOutOfRange, InvalidTextRepresentation:
		return "One or more values are outside the range the database accepts."

	default:
		return "An error occurred while processing your request."
	}
}

// withCause appends the database's own explanation to a client message.
func withCause(message string, sqlErr *Error) string {
	if sqlErr.Message == "" {
		return message
	}
	return fmt.Sprintf("%s Error: %s", message, sqlErr.Message)
}

// getEntityName infers an entity name from table/column data.
//
// Priority rules:
//  1. A column ending with "_id" names the referenced entity ("composer_id" -> "Composer").
//  2. Otherwise the table name, singularized if it ends with "s".
//  3. Otherwise "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case into Title Case.
//
//	"home_country" -> "Home Country"
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation infers the column from a unique constraint name.
//
// Supported conventions:
//
//  1. "unique_<table>_<column>"
//  2. "<table>_<column>_(key|ukey)"
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	matches := uniqueKeyPattern.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// HandleError converts a low-level database error into an application-level error.
//
// Output:
//   - *errs.HTTPError: returned unchanged
//   - *pgconn.PgError: constraint violations become 400s carrying the
//     database cause, anything else becomes a 500
//   - ErrNoRows: 404, naming the entity when the error carries a
//     "table:<name>:" hint
//   - anything else: 500
//
// A constraint violation reported at commit time takes exactly the same path
// as one reported by an individual statement.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)

		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(withCause(userMessage, sqlErr), true, &errorCode, nil)

		case UniqueViolation:
			columnName := extractColumnForUniqueViolation(sqlErr.ConstraintName)
			if columnName != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors)

		case CheckViolation, NumericValueOutOfRange, InvalidTextRepresentation:
			return errs.NewBadRequestError(withCause(userMessage, sqlErr), true, &errorCode, nil)

		default:
			return errs.NewInternalServerError()
		}
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, sql.ErrNoRows):
		errMsg := err.Error()
		tablePrefix := "table:"
		if strings.Contains(errMsg, tablePrefix) {
			table := strings.Split(strings.Split(errMsg, tablePrefix)[1], ":")[0]
			entityName := getEntityName(table, "")
			return errs.NewNotFoundError(fmt.Sprintf("%s not found.", entityName), true, nil)
		}
		return errs.NewNotFoundError("Resource not found.", false, nil)
	}

	return errs.NewInternalServerError()
}
