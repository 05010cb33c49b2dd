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

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/initium-app/initium/pkg/config"
	"github.com/initium-app/initium/pkg/database"
	"github.com/initium-app/initium/pkg/database/boltdb"
	"github.com/initium-app/initium/pkg/database/jsondb"
	"github.com/initium-app/initium/pkg/database/sqlitedb"
	"github.com/rs/zerolog/log"
)

// sidecarSuffixes are the extra files SQLite keeps next to the database.
var sidecarSuffixes = []string{"-wal", "-shm"}

// openStore opens the registry backend selected in the config and returns
// it with the resolved file path. A file the backend can't recognise is
// moved aside and replaced with an empty store, so the service still starts.
func openStore(ctx context.Context, cfg *config.Instance, dataDir string) (database.Store, string, error) {
	path := cfg.RegistryPath(dataDir)
	backend := cfg.StorageBackend()

	store, err := openBackend(ctx, backend, path)
	if errors.Is(err, database.ErrCorrupt) {
		log.Error().Err(err).Str("path", path).Msg("launcher registry is corrupt, starting empty")
		moved, qErr := quarantine(path, time.Now())
		if qErr != nil {
			return nil, "", fmt.Errorf("failed to move corrupt %s registry aside: %w", backend, qErr)
		}
		log.Warn().Str("path", moved).Msg("corrupt launcher registry kept for recovery")
		store, err = openBackend(ctx, backend, path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s registry at %s: %w", backend, path, err)
	}
	return store, path, nil
}

func openBackend(ctx context.Context, backend, path string) (database.Store, error) {
	switch backend {
	case config.StorageJSON:
		return jsondb.Open(path)
	case config.StorageSQLite:
		return sqlitedb.Open(ctx, path)
	case config.StorageBolt:
		return boltdb.Open(path)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", backend)
	}
}

// quarantine renames path, and any SQLite sidecar files, to
// <path>.corrupt-<timestamp> and returns the new name.
func quarantine(path string, now time.Time) (string, error) {
	suffix := ".corrupt-" + now.Format("20060102-150405")
	moved := path + suffix
	if err := os.Rename(path, moved); err != nil {
		return "", fmt.Errorf("failed to rename %s: %w", path, err)
	}
	for _, side := range sidecarSuffixes {
		if err := os.Rename(path+side, moved+side); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path+side).Msg("failed to move registry sidecar file")
		}
	}
	return moved, nil
}
