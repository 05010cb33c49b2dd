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

// Package database holds the persistence contract for the launcher registry
// and the pieces shared by its backends.
package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/initium-app/initium/pkg/launchers"
)

// Store is a durable home for the full ordered launcher list. Every error
// returned wraps launchers.ErrPersistence.
type Store interface {
	// Load returns the persisted launchers in order. A store that has never
	// been written returns an empty list.
	Load() ([]launchers.Launcher, error)
	// Save replaces the persisted list atomically: after a failure the
	// previous contents are still intact.
	Save(ls []launchers.Launcher) error
	Close() error
}

// ErrCorrupt marks a backing file that exists but is not a database the
// backend can open. It is always wrapped together with
// launchers.ErrPersistence.
var ErrCorrupt = errors.New("registry file is corrupt")

const DocumentVersion = 1

// Document is the on-disk shape used by the file and key/value backends.
type Document struct {
	Launchers []launchers.Launcher `json:"launchers"`
	Version   int                  `json:"version"`
}

func EncodeDocument(ls []launchers.Launcher) ([]byte, error) {
	if ls == nil {
		ls = []launchers.Launcher{}
	}
	data, err := json.MarshalIndent(Document{Version: DocumentVersion, Launchers: ls}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encoding document: %v", launchers.ErrPersistence, err)
	}
	return data, nil
}

func DecodeDocument(data []byte) ([]launchers.Launcher, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: document is empty", launchers.ErrPersistence)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: malformed document: %v", launchers.ErrPersistence, err)
	}
	if doc.Version != DocumentVersion {
		return nil, fmt.Errorf(
			"%w: unsupported document version %d",
			launchers.ErrPersistence, doc.Version,
		)
	}
	if doc.Launchers == nil {
		doc.Launchers = []launchers.Launcher{}
	}
	return doc.Launchers, nil
}

// CheckLaunchers reports a persisted list that breaks the registry
// invariants: a bad record or a repeated id.
func CheckLaunchers(ls []launchers.Launcher) error {
	seen := make(map[string]struct{}, len(ls))
	for i := range ls {
		if err := ls[i].Check(); err != nil {
			return fmt.Errorf("%w: record %d: %v", launchers.ErrPersistence, i, err)
		}
		if _, ok := seen[ls[i].ID]; ok {
			return fmt.Errorf("%w: duplicate id %q", launchers.ErrPersistence, ls[i].ID)
		}
		seen[ls[i].ID] = struct{}{}
	}
	return nil
}
