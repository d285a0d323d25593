package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/zaiko-app/zaiko/internal/port"
)

// SQLStore implements the repository ports over a relational store. The
// SQL is portable: MySQL in production, in-memory sqlite in tests, with
// `?` placeholders and timestamps always passed from Go.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

var (
	_ port.AccountRepository  = (*SQLStore)(nil)
	_ port.TeamRepository     = (*SQLStore)(nil)
	_ port.ItemRepository     = (*SQLStore)(nil)
	_ port.LedgerRepository   = (*SQLStore)(nil)
	_ port.SupplierRepository = (*SQLStore)(nil)
)

const mysqlDupEntry = 1062

// isUniqueViolation recognizes a duplicate-key insert on either
// supported driver.
func isUniqueViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDupEntry
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// sqliteTimeLayouts are the formats the sqlite driver emits for
// timestamp values read back through expressions, which carry no
// column decl type and so arrive as strings.
var sqliteTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// exprTime scans a timestamp produced by a SQL expression. MySQL types
// expression results and hands over time.Time; sqlite hands over the
// stored string.
type exprTime struct {
	time.Time
}

func (t *exprTime) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		t.Time = x
		return nil
	case []byte:
		return t.parse(string(x))
	case string:
		return t.parse(x)
	default:
		return fmt.Errorf("scan timestamp: unsupported type %T", v)
	}
}

func (t *exprTime) parse(s string) error {
	for _, layout := range sqliteTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("scan timestamp: unrecognized value %q", s)
}
