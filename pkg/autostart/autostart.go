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

// Package autostart registers Initium to start with the user session.
package autostart

import (
	"errors"
	"fmt"
)

var ErrUnsupported = errors.New("autostart is not supported on this platform")

type RegistrationState struct {
	Supported  bool
	Registered bool
}

type Registrar interface {
	GetState() (RegistrationState, error)
	Register() error
	Deregister() error
}

// Apply registers or deregisters r to match enabled.
func Apply(r Registrar, enabled bool) error {
	if enabled {
		if err := r.Register(); err != nil {
			return fmt.Errorf("failed to enable autostart: %w", err)
		}
		return nil
	}
	if err := r.Deregister(); err != nil {
		return fmt.Errorf("failed to disable autostart: %w", err)
	}
	return nil
}
