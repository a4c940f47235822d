package sqlstore

import (
	"catalog/app/catalog"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// translate maps driver constraint violations onto the catalog sentinels and
// returns every other error unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return fmt.Errorf("%w: %s", catalog.ErrDuplicate, pqErr.Message)
		case "foreign_key_violation":
			return fmt.Errorf("%w: %s", catalog.ErrReferenced, pqErr.Message)
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %s", catalog.ErrDuplicate, liteErr.Error())
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %s", catalog.ErrReferenced, liteErr.Error())
		}
		if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			msg := liteErr.Error()
			switch {
			case strings.Contains(msg, "UNIQUE"):
				return fmt.Errorf("%w: %s", catalog.ErrDuplicate, msg)
			case strings.Contains(msg, "FOREIGN KEY"):
				return fmt.Errorf("%w: %s", catalog.ErrReferenced, msg)
			}
		}
	}

	return err
}
