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

// Package jsondb stores the launcher registry as a single JSON document.
package jsondb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/initium-app/initium/pkg/database"
	"github.com/initium-app/initium/pkg/launchers"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

type Store struct {
	fs   afero.Fs
	path string
}

var _ database.Store = (*Store)(nil)

func New(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Open returns a store for the document at path on the real filesystem.
func Open(path string) (*Store, error) {
	s := New(afero.NewOsFs(), path)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", launchers.ErrPersistence, filepath.Dir(path), err)
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the document. A missing file is an empty registry.
func (s *Store) Load() ([]launchers.Launcher, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", s.path).Msg("no launcher document, starting empty")
		return []launchers.Launcher{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", launchers.ErrPersistence, s.path, err)
	}

	ls, err := database.DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return ls, nil
}

// Save writes the whole document to a temp file in the same directory and
// renames it over the old one, so readers see either version but never a
// partial write.
func (s *Store) Save(ls []launchers.Launcher) error {
	data, err := database.EncodeDocument(ls)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%w: creating %s: %v", launchers.ErrPersistence, dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", launchers.ErrPersistence, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		if rmErr := s.fs.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Warn().Err(rmErr).Str("path", tmpName).Msg("failed to remove temp file")
		}
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: writing %s: %v", launchers.ErrPersistence, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: syncing %s: %v", launchers.ErrPersistence, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: closing %s: %v", launchers.ErrPersistence, tmpName, err)
	}
	if err := s.fs.Chmod(tmpName, 0o600); err != nil {
		log.Debug().Err(err).Msg("failed to set document permissions")
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("%w: replacing %s: %v", launchers.ErrPersistence, s.path, err)
	}

	log.Debug().Int("count", len(ls)).Str("path", s.path).Msg("saved launcher document")
	return nil
}

func (*Store) Close() error {
	return nil
}
