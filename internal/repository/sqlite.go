package repository

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	"modernc.org/sqlite"
)

var (
	sqliteFuncsOnce sync.Once
	sqliteFuncsErr  error
)

// registerSQLiteFunctions replaces SQLite's ASCII-only LOWER with Unicode
// case folding, matching what Postgres does under a UTF-8 locale. It
// applies to connections opened afterwards.
func registerSQLiteFunctions() error {
	sqliteFuncsOnce.Do(func() {
		if err := sqlite.RegisterDeterministicScalarFunction("lower", 1, sqliteLower); err != nil {
			sqliteFuncsErr = fmt.Errorf("failed to register sqlite lower: %w", err)
		}
	})
	return sqliteFuncsErr
}

func sqliteLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return bytes.ToLower(v), nil
	default:
		return v, nil
	}
}
