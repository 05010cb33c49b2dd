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

package fixtures

import "github.com/initium-app/initium/pkg/launchers"

// AppLauncher returns a valid app launcher for tests.
func AppLauncher(id string) launchers.Launcher {
	return launchers.Launcher{
		ID:     id,
		Name:   "App " + id,
		Type:   launchers.TypeApp,
		Target: "/usr/bin/" + id,
	}
}

// WebLauncher returns a valid web launcher for tests.
func WebLauncher(id string) launchers.Launcher {
	return launchers.Launcher{
		ID:     id,
		Name:   "Web " + id,
		Type:   launchers.TypeWeb,
		Target: "https://example.com/" + id,
	}
}
