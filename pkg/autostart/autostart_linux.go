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

package autostart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
)

const EntryName = "initium.desktop"

type linuxRegistrar struct {
	dir string
	exe string
}

// NewRegistrar manages an XDG autostart entry that runs exe with -daemon.
// An empty dir selects $XDG_CONFIG_HOME/autostart.
func NewRegistrar(dir, exe string) Registrar {
	if dir == "" {
		dir = filepath.Join(xdg.ConfigHome, "autostart")
	}
	return &linuxRegistrar{dir: dir, exe: exe}
}

func (l *linuxRegistrar) entryPath() string {
	return filepath.Join(l.dir, EntryName)
}

func (l *linuxRegistrar) entry() string {
	var sb strings.Builder
	sb.WriteString("[Desktop Entry]\n")
	sb.WriteString("Type=Application\n")
	sb.WriteString("Name=Initium\n")
	sb.WriteString("Comment=Application and website launcher\n")
	sb.WriteString("Exec=" + quoteExec(l.exe) + " -daemon\n")
	sb.WriteString("Terminal=false\n")
	sb.WriteString("X-GNOME-Autostart-enabled=true\n")
	return sb.String()
}

// quoteExec escapes a path for the Exec key of a desktop entry.
func quoteExec(s string) string {
	if !strings.ContainsAny(s, " \t\n\"'\\><~|&;$*?#()`") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(s) + `"`
}

func (l *linuxRegistrar) GetState() (RegistrationState, error) {
	_, err := os.Stat(l.entryPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RegistrationState{Supported: true}, nil
		}
		return RegistrationState{Supported: true}, fmt.Errorf("failed to read autostart entry %s: %w", l.entryPath(), err)
	}
	return RegistrationState{Supported: true, Registered: true}, nil
}

func (l *linuxRegistrar) Register() error {
	if l.exe == "" {
		return errors.New("executable path is unknown")
	}
	if err := os.MkdirAll(l.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create autostart dir: %w", err)
	}
	//nolint:gosec // desktop entries must be readable by the session manager
	if err := os.WriteFile(l.entryPath(), []byte(l.entry()), 0o644); err != nil {
		return fmt.Errorf("failed to write autostart entry: %w", err)
	}
	log.Info().Str("path", l.entryPath()).Msg("autostart entry written")
	return nil
}

func (l *linuxRegistrar) Deregister() error {
	err := os.Remove(l.entryPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove autostart entry: %w", err)
	}
	log.Info().Str("path", l.entryPath()).Msg("autostart entry removed")
	return nil
}
