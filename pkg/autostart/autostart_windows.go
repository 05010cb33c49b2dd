//go:build windows

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

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows/registry"
)

const (
	runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`
	ValueName  = "Initium"
)

type windowsRegistrar struct {
	root registry.Key
	path string
	exe  string
}

// NewRegistrar manages a per-user Run key value that starts exe with
// -daemon at login. dir is unused on Windows.
func NewRegistrar(_, exe string) Registrar {
	return &windowsRegistrar{root: registry.CURRENT_USER, path: runKeyPath, exe: exe}
}

func (w *windowsRegistrar) command() string {
	return `"` + w.exe + `" -daemon`
}

func (w *windowsRegistrar) GetState() (RegistrationState, error) {
	key, err := registry.OpenKey(w.root, w.path, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return RegistrationState{Supported: true}, nil
		}
		return RegistrationState{Supported: true}, fmt.Errorf("failed to open run key: %w", err)
	}
	defer func() { _ = key.Close() }()

	_, _, err = key.GetStringValue(ValueName)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return RegistrationState{Supported: true}, nil
		}
		return RegistrationState{Supported: true}, fmt.Errorf("failed to read run key value: %w", err)
	}
	return RegistrationState{Supported: true, Registered: true}, nil
}

func (w *windowsRegistrar) Register() error {
	if w.exe == "" {
		return errors.New("executable path unknown")
	}

	key, _, err := registry.CreateKey(w.root, w.path, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open run key: %w", err)
	}
	defer func() { _ = key.Close() }()

	if err := key.SetStringValue(ValueName, w.command()); err != nil {
		return fmt.Errorf("failed to write run key value: %w", err)
	}
	log.Info().Str("value", ValueName).Msg("registered autostart entry")
	return nil
}

// Deregister is a no-op when nothing is registered.
func (w *windowsRegistrar) Deregister() error {
	key, err := registry.OpenKey(w.root, w.path, registry.SET_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open run key: %w", err)
	}
	defer func() { _ = key.Close() }()

	if err := key.DeleteValue(ValueName); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("failed to delete run key value: %w", err)
	}
	log.Info().Str("value", ValueName).Msg("removed autostart entry")
	return nil
}
