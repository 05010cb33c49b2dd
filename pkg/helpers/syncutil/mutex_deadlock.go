//go:build deadlock

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

// Package syncutil provides the mutexes used across Initium. Building with
// -tags=deadlock swaps them for deadlock-detecting versions.
package syncutil

import (
	"time"

	"github.com/rs/zerolog/log"
	deadlock "github.com/sasha-s/go-deadlock"
)

const DeadlockEnabled = true

// registry saves hold the write lock across a disk write, so the timeout
// is generous.
const deadlockTimeout = 30 * time.Second

func init() {
	deadlock.Opts.DeadlockTimeout = deadlockTimeout
	deadlock.Opts.OnPotentialDeadlock = func() {
		log.Fatal().Msg("potential deadlock detected")
	}
}

type Mutex struct {
	deadlock.Mutex
}

type RWMutex struct {
	deadlock.RWMutex
}
