package sqlite

import (
	"errors"

	driver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrEmptyPath            = errors.New("empty sqlite database path, set SQLITE_PATH")
	ErrFailedToOpenDatabase = errors.New("failed to open sqlite database")
	ErrHealthcheckFailed    = errors.New("healthcheck failed, database is not available")
)

// IsDuplicateKeyError reports a UNIQUE or PRIMARY KEY constraint violation.
func IsDuplicateKeyError(err error) bool {
	code, ok := errorCode(err)
	return ok && (code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY)
}

// IsCheckViolationError reports a CHECK constraint violation.
func IsCheckViolationError(err error) bool {
	code, ok := errorCode(err)
	return ok && code == sqlite3.SQLITE_CONSTRAINT_CHECK
}

func errorCode(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	var sqErr *driver.Error
	if !errors.As(err, &sqErr) {
		return 0, false
	}
	return sqErr.Code(), true
}
