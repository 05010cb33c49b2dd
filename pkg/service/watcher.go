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
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/initium-app/initium/pkg/commands"
	"github.com/initium-app/initium/pkg/database"
	"github.com/initium-app/initium/pkg/launchers"
	"github.com/rs/zerolog/log"
)

const reloadDebounce = 250 * time.Millisecond

// watchRegistry reloads the registry when the document at path is changed
// by something other than the service. The parent directory is watched
// because saves replace the file with a rename.
func watchRegistry(
	ctx context.Context,
	path string,
	store database.Store,
	cmds *commands.Commands,
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			log.Error().Err(err).Msg("error closing file watcher")
		}
	}()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch registry dir: %w", err)
	}
	log.Info().Str("path", path).Msg("watching launcher registry for external changes")

	name := filepath.Clean(path)
	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce = time.After(reloadDebounce)
		case <-debounce:
			debounce = nil
			reloadIfChanged(store, cmds)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(watchErr).Msg("file watcher error")
		}
	}
}

// reloadIfChanged skips events caused by the service's own saves.
func reloadIfChanged(store database.Store, cmds *commands.Commands) bool {
	onDisk, err := store.Load()
	if err != nil {
		log.Error().Err(err).Msg("launcher registry changed on disk but can't be read, keeping current state")
		return false
	}

	if sameDocument(onDisk, cmds.GetLaunchers()) {
		return false
	}

	log.Info().Msg("launcher registry changed on disk, reloading")
	if err := cmds.ReloadLaunchers(); err != nil {
		log.Error().Err(err).Msg("error reloading launcher registry")
		return false
	}
	return true
}

// sameDocument compares the lists as they would be written, so empty and
// nil icons, args or env count as equal.
func sameDocument(a, b []launchers.Launcher) bool {
	da, err := database.EncodeDocument(a)
	if err != nil {
		return false
	}
	db, err := database.EncodeDocument(b)
	if err != nil {
		return false
	}
	return bytes.Equal(da, db)
}
