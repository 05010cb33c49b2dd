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

package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/initium-app/initium/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestConfig(t *testing.T) {
	t.Parallel()

	configDir := t.TempDir()
	cfg, err := NewTestConfig(configDir)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultAPIPort, cfg.APIPort())
	assert.Equal(t, config.StorageJSON, cfg.StorageBackend())

	_, err = os.Stat(filepath.Join(configDir, config.CfgFile))
	assert.NoError(t, err, "config file should exist")
}

func TestNewTestConfigWithPort(t *testing.T) {
	t.Parallel()

	cfg, err := NewTestConfigWithPort(t.TempDir(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.APIPort())
}
