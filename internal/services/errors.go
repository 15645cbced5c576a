// internal/services/errors.go
package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Sentinel errors surfaced to handlers, which map them onto the wire error
// codes. Services never leak raw datastore errors upward without wrapping.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("not authorized")
	ErrAlreadyPurchased = errors.New("design already purchased by this buyer")
	ErrSoldExclusively  = errors.New("design has been sold exclusively")
	ErrChatClosed       = errors.New("chat is closed for this design")
	ErrInvalidState     = errors.New("operation not valid in current state")
	ErrNotParticipant   = errors.New("not a participant in this conversation")
	ErrBlobUpload       = errors.New("blob upload failed")
	ErrDBInsert         = errors.New("database insert failed")
	ErrConfig           = errors.New("service not configured")
)

// uniqueViolation catches the raw SQLSTATE 23505 from the postgres driver and
// returns the violated constraint's name. The gorm sentinel is a fallback for
// callers that run with driver error translation on; it carries no constraint
// name, which is why the connection setup keeps translation off.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	return "", false
}

// serializationFailure reports SQLSTATE 40001, the retryable abort a
// serializable transaction gets when it loses a concurrent race.
func serializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}
