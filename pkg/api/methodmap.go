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

package api

import (
	"fmt"
	"strings"

	"github.com/initium-app/initium/pkg/api/methods"
	"github.com/initium-app/initium/pkg/api/models"
	"github.com/initium-app/initium/pkg/api/models/requests"
	"github.com/initium-app/initium/pkg/helpers/syncutil"
)

type MethodFunc func(requests.RequestEnv) (any, error)

// MethodMap holds the JSON-RPC methods the server dispatches to. Names are
// matched case-insensitively.
type MethodMap struct {
	methods map[string]MethodFunc
	mu      syncutil.RWMutex
}

var defaultMethods = map[string]MethodFunc{
	// launchers
	models.MethodLaunchers:       methods.HandleLaunchers,
	models.MethodLaunchersNew:    methods.HandleAddLauncher,
	models.MethodLaunchersUpdate: methods.HandleUpdateLauncher,
	models.MethodLaunchersDelete: methods.HandleDeleteLauncher,
	models.MethodLaunchersRun:    methods.HandleRunLauncher,
	models.MethodLaunchersReload: methods.HandleReloadLaunchers,
	// settings
	models.MethodSettings:       methods.HandleSettings,
	models.MethodSettingsUpdate: methods.HandleSettingsUpdate,
	// utils
	models.MethodVersion: methods.HandleVersion,
}

func NewMethodMap() *MethodMap {
	m := &MethodMap{methods: make(map[string]MethodFunc, len(defaultMethods))}
	for name, fn := range defaultMethods {
		m.methods[name] = fn
	}
	return m
}

func (m *MethodMap) AddMethod(name string, fn MethodFunc) error {
	name = strings.ToLower(name)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.methods[name]; exists {
		return fmt.Errorf("method already exists: %s", name)
	}
	m.methods[name] = fn
	return nil
}

func (m *MethodMap) GetMethod(name string) (MethodFunc, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn, ok := m.methods[strings.ToLower(name)]
	return fn, ok
}
