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

package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"github.com/initium-app/initium/pkg/config"
)

const (
	// ExeEnv overrides the executable path used to find a portable user dir.
	ExeEnv  = "INITIUM_EXE"
	UserDir = "user"
)

// Dirs are the locations Initium reads and writes.
type Dirs struct {
	Config string
	Data   string
	Log    string
}

var (
	userDirCache       string
	userDirCacheExists bool
	userDirOnce        sync.Once
)

// HasUserDir checks for a "user" directory next to the binary. If it exists,
// it replaces every platform directory, for a portable install.
func HasUserDir() (string, bool) {
	userDirOnce.Do(func() {
		userDirCache, userDirCacheExists = findUserDir(os.Getenv(ExeEnv))
	})
	return userDirCache, userDirCacheExists
}

func findUserDir(exe string) (string, bool) {
	if exe == "" {
		var err error
		exe, err = os.Executable()
		if err != nil {
			return "", false
		}
	}

	userDir := filepath.Join(filepath.Dir(exe), UserDir)
	info, err := os.Stat(userDir)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return userDir, true
}

// DefaultDirs resolves the XDG locations for this platform, or the portable
// user dir when present.
func DefaultDirs() Dirs {
	if v, ok := HasUserDir(); ok {
		return Dirs{
			Config: v,
			Data:   v,
			Log:    filepath.Join(v, config.LogsDir),
		}
	}
	return Dirs{
		Config: filepath.Join(xdg.ConfigHome, config.AppName),
		Data:   filepath.Join(xdg.DataHome, config.AppName),
		Log:    filepath.Join(xdg.StateHome, config.AppName, config.LogsDir),
	}
}

func EnsureDirectories(d Dirs) error {
	for _, dir := range []string{d.Config, d.Data, d.Log} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
