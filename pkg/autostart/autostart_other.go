//go:build !linux && !windows

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
	"runtime"

	"github.com/rs/zerolog/log"
)

type defaultRegistrar struct{}

func NewRegistrar(_, _ string) Registrar {
	return defaultRegistrar{}
}

func (defaultRegistrar) GetState() (RegistrationState, error) {
	return RegistrationState{}, nil
}

func (defaultRegistrar) Register() error {
	log.Debug().Str("os", runtime.GOOS).Msg("autostart requested on unsupported OS")
	return ErrUnsupported
}

// Deregister succeeds since nothing can be registered.
func (defaultRegistrar) Deregister() error {
	return nil
}
