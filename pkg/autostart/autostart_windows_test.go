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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows/registry"
)

func newTestRegistrar(t *testing.T) *windowsRegistrar {
	t.Helper()
	path := `Software\InitiumTest\` + t.Name()
	t.Cleanup(func() {
		_ = registry.DeleteKey(registry.CURRENT_USER, path)
	})
	return &windowsRegistrar{
		root: registry.CURRENT_USER,
		path: path,
		exe:  `C:\Program Files\Initium\initium.exe`,
	}
}

func TestWindowsRegistrar(t *testing.T) {
	t.Parallel()

	w := newTestRegistrar(t)

	state, err := w.GetState()
	require.NoError(t, err)
	assert.Equal(t, RegistrationState{Supported: true}, state)

	require.NoError(t, w.Register())
	state, err = w.GetState()
	require.NoError(t, err)
	assert.True(t, state.Registered)

	key, err := registry.OpenKey(w.root, w.path, registry.QUERY_VALUE)
	require.NoError(t, err)
	val, _, err := key.GetStringValue(ValueName)
	_ = key.Close()
	require.NoError(t, err)
	assert.Equal(t, `"C:\Program Files\Initium\initium.exe" -daemon`, val)

	require.NoError(t, w.Deregister())
	require.NoError(t, w.Deregister())
	state, err = w.GetState()
	require.NoError(t, err)
	assert.False(t, state.Registered)
}
