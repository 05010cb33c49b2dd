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

package config

import "path/filepath"

const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
	StorageBolt   = "bolt"
)

type Storage struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path,omitempty"`
	Watch   bool   `toml:"watch"`
}

func validBackend(b string) bool {
	switch b {
	case StorageJSON, StorageSQLite, StorageBolt:
		return true
	default:
		return false
	}
}

func (c *Instance) StorageBackend() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Storage.Backend == "" {
		return StorageJSON
	}
	return c.vals.Storage.Backend
}

// RegistryPath returns the configured registry location, or the backend's
// default file name inside dataDir.
func (c *Instance) RegistryPath(dataDir string) string {
	c.mu.RLock()
	path := c.vals.Storage.Path
	c.mu.RUnlock()

	if path != "" {
		if filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(dataDir, path)
	}

	switch c.StorageBackend() {
	case StorageSQLite:
		return filepath.Join(dataDir, RegistrySQLFile)
	case StorageBolt:
		return filepath.Join(dataDir, RegistryBoltFile)
	default:
		return filepath.Join(dataDir, RegistryJSONFile)
	}
}

// WatchRegistry reports whether external edits to the JSON registry file
// should be picked up while running.
func (c *Instance) WatchRegistry() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Storage.Watch
}
