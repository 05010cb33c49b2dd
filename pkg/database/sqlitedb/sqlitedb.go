// Initium
// Copyright (c) 2026 The Initium Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Initium.
//
// Initium is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Initium is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Initium.  If not, see <http://www.gnu.org/licenses/>.

// Package sqlitedb stores the launcher registry in a SQLite database.
package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/initium-app/initium/pkg/database"
	"github.com/initium-app/initium/pkg/launchers"
	"github.com/mattn/go-sqlite3"
)

const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"

type Store struct {
	sql  *sql.DB
	ctx  context.Context
	path string
}

var _ database.Store = (*Store)(nil)

// Open connects to the database at path, creating it and applying
// migrations as needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("%w: creating database directory: %v", launchers.ErrPersistence, err)
	}

	db, err := sql.Open("sqlite3", path+sqliteConnParams)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", launchers.ErrPersistence, err)
	}

	if err := quickCheck(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{sql: db, ctx: ctx, path: path}
	if err := sqlMigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// quickCheck fails with database.ErrCorrupt when the file is not a SQLite
// database or its pages are damaged. A missing file is created empty.
func quickCheck(ctx context.Context, db *sql.DB) error {
	var result string
	err := db.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&result)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) &&
			(sqliteErr.Code == sqlite3.ErrNotADB || sqliteErr.Code == sqlite3.ErrCorrupt) {
			return fmt.Errorf("%w: %w: %v", launchers.ErrPersistence, database.ErrCorrupt, err)
		}
		return fmt.Errorf("%w: checking database: %v", launchers.ErrPersistence, err)
	}
	if result != "ok" {
		return fmt.Errorf("%w: %w: integrity check: %s", launchers.ErrPersistence, database.ErrCorrupt, result)
	}
	return nil
}

// NewWithDB wraps an existing connection whose schema is already current.
func NewWithDB(ctx context.Context, db *sql.DB) *Store {
	return &Store{sql: db, ctx: ctx}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load() ([]launchers.Launcher, error) {
	return sqlLoad(s.ctx, s.sql)
}

func (s *Store) Save(ls []launchers.Launcher) error {
	return sqlSave(s.ctx, s.sql, ls)
}

func (s *Store) Close() error {
	if s.sql == nil {
		return nil
	}
	if err := s.sql.Close(); err != nil {
		return fmt.Errorf("%w: closing database: %v", launchers.ErrPersistence, err)
	}
	return nil
}
