package sqlite

import "database/sql"

// DB exposes the underlying handle to tests.
func (s *Store) DB() *sql.DB { return s.db }
