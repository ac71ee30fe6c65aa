package postgres_test

import "database/sql"

func errNoRows() error { return sql.ErrNoRows }
