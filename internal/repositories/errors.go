package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL error number for a unique key violation
const mysqlDuplicateEntry = 1062

// isDuplicateEntry reports whether err is a unique constraint violation. The
// constraint is the authoritative arbiter for races the advisory
// exists-checks in the services cannot close.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
