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
	"fmt"

	"github.com/initium-app/initium/pkg/config"
)

// NewTestConfig creates a config.Instance backed by a file in configDir,
// using the base defaults.
func NewTestConfig(configDir string) (*config.Instance, error) {
	cfg, err := config.NewConfig(configDir, config.BaseDefaults)
	if err != nil {
		return nil, fmt.Errorf("failed to create test config: %w", err)
	}
	return cfg, nil
}

// NewTestConfigWithPort is NewTestConfig with the API port overridden.
func NewTestConfigWithPort(configDir string, port int) (*config.Instance, error) {
	cfg, err := NewTestConfig(configDir)
	if err != nil {
		return nil, err
	}
	cfg.SetAPIPort(port)
	return cfg, nil
}
