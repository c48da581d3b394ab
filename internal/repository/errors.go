// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver errors. MySQL error numbers are translated here and
// nowhere else.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a row does not exist or is soft-deleted.
// Handlers translate it into a 404 with an entity-specific message.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken signals a duplicate users.user_name.
var ErrUsernameTaken = errors.New("username already taken")

// ErrPasswordTooLong is returned by UserRepo.Create when the password
// exceeds bcrypt's 72-byte input limit.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// ErrInvalidCredentials is returned by UserRepo.Authenticate for an unknown
// user, an inactive user or a wrong password alike.
var ErrInvalidCredentials = errors.New("invalid username/password")

// ErrDuplicateReview signals that the (user, product) pair already has a
// review. It is raised by the unique key when two submissions race past the
// handler's pre-check.
var ErrDuplicateReview = errors.New("review already exists for user and product")

// ErrTagExists signals a duplicate tag.tag_name.
var ErrTagExists = errors.New("tag already exists")

// ErrUnknownReference is returned when an insert points at a row that does
// not exist (foreign key violation), e.g. a product created with an unknown
// tag id.
var ErrUnknownReference = errors.New("referenced row does not exist")

const (
	mysqlDuplicateEntry  = 1062
	mysqlNoReferencedRow = 1452
)

func mysqlCode(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

func isDuplicateKey(err error) bool { return mysqlCode(err) == mysqlDuplicateEntry }

func isMissingReference(err error) bool { return mysqlCode(err) == mysqlNoReferencedRow }

// notFound maps sql.ErrNoRows to ErrNotFound and passes anything else through.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
