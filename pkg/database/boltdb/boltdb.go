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

// Package boltdb stores the launcher registry document in a bbolt file.
package boltdb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/initium-app/initium/pkg/database"
	"github.com/initium-app/initium/pkg/launchers"
	bolt "go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"
)

const (
	BucketRegistry = "registry"
	KeyLaunchers   = "launchers"
)

type Store struct {
	bdb *bolt.DB
}

var _ database.Store = (*Store)(nil)

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("%w: creating database directory: %v", launchers.ErrPersistence, err)
	}

	// the file lock is exclusive; fail instead of hanging when another
	// instance holds it
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		if isCorrupt(err) {
			return nil, fmt.Errorf("%w: %w: %v", launchers.ErrPersistence, database.ErrCorrupt, err)
		}
		return nil, fmt.Errorf("%w: failed to open bolt database: %v", launchers.ErrPersistence, err)
	}

	return &Store{bdb: db}, nil
}

func (s *Store) Path() string {
	return s.bdb.Path()
}

func (s *Store) Load() ([]launchers.Launcher, error) {
	var data []byte
	err := s.bdb.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketRegistry))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(KeyLaunchers)); v != nil {
			// v is only valid inside the transaction
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to view bolt database: %v", launchers.ErrPersistence, err)
	}

	if data == nil {
		return []launchers.Launcher{}, nil
	}
	return database.DecodeDocument(data)
}

func (s *Store) Save(ls []launchers.Launcher) error {
	data, err := database.EncodeDocument(ls)
	if err != nil {
		return err
	}

	err = s.bdb.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketRegistry))
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		return b.Put([]byte(KeyLaunchers), data)
	})
	if err != nil {
		return fmt.Errorf("%w: failed to update bolt database: %v", launchers.ErrPersistence, err)
	}
	return nil
}

func (s *Store) Close() error {
	if err := s.bdb.Close(); err != nil {
		return fmt.Errorf("%w: failed to close bolt database: %v", launchers.ErrPersistence, err)
	}
	return nil
}

// isCorrupt matches the open errors bbolt returns for files that are not a
// readable bolt database. A truncated file fails the mmap size check with an
// unexported error, so that one is matched by text.
func isCorrupt(err error) bool {
	return errors.Is(err, berrors.ErrInvalid) ||
		errors.Is(err, berrors.ErrVersionMismatch) ||
		errors.Is(err, berrors.ErrChecksum) ||
		strings.Contains(err.Error(), "file size too small")
}
