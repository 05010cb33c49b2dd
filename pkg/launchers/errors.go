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

package launchers

import "errors"

var (
	// ErrValidation is malformed caller input, rejected before any state change.
	ErrValidation = errors.New("invalid launcher")
	// ErrDuplicateID is an id collision on add.
	ErrDuplicateID = errors.New("launcher already exists")
	// ErrNotFound is an operation referencing an unknown id.
	ErrNotFound = errors.New("launcher not found")
	// ErrSpawn is the OS failing to start a process or open a URL.
	ErrSpawn = errors.New("launch failed")
	// ErrPersistence is storage that is unreadable, malformed or unwritable.
	ErrPersistence = errors.New("launcher storage error")
)
