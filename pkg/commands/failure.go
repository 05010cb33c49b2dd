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

package commands

import (
	"errors"

	"github.com/initium-app/initium/pkg/api/validation"
	"github.com/initium-app/initium/pkg/launchers"
)

type Kind string

const (
	KindValidation  Kind = "validation"
	KindDuplicateID Kind = "duplicate_id"
	KindNotFound    Kind = "not_found"
	KindSpawn       Kind = "spawn"
	KindPersistence Kind = "persistence"
	KindInternal    Kind = "internal"
)

// Failure is the caller-facing form of an error returned by Commands.
type Failure struct {
	Kind    Kind                    `json:"kind"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

func (f Failure) Error() string {
	return f.Message
}

// Describe classifies err by the launcher error kind it wraps.
func Describe(err error) Failure {
	if err == nil {
		return Failure{}
	}

	f := Failure{Kind: KindInternal, Message: err.Error()}
	switch {
	case errors.Is(err, launchers.ErrPersistence):
		f.Kind = KindPersistence
	case errors.Is(err, launchers.ErrSpawn):
		f.Kind = KindSpawn
	case errors.Is(err, launchers.ErrNotFound):
		f.Kind = KindNotFound
	case errors.Is(err, launchers.ErrDuplicateID):
		f.Kind = KindDuplicateID
	case errors.Is(err, launchers.ErrValidation):
		f.Kind = KindValidation
		var verr *validation.Error
		if errors.As(err, &verr) {
			f.Fields = verr.Fields
		}
	}
	return f
}
