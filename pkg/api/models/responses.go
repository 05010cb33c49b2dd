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

package models

import "github.com/initium-app/initium/pkg/launchers"

type LaunchersResponse struct {
	Launchers []launchers.Launcher `json:"launchers"`
}

type RunResponse struct {
	Message string `json:"message"`
}

type SettingsResponse struct {
	Theme        string `json:"theme"`
	Autostart    bool   `json:"autostart"`
	DebugLogging bool   `json:"debugLogging"`
}

type VersionResponse struct {
	Version  string `json:"version"`
	Platform string `json:"platform"`
}

// LauncherNotification is the payload of launcher change and launch
// notifications. Icons are left out to keep broadcasts small.
type LauncherNotification struct {
	ID   string               `json:"id"`
	Name string               `json:"name"`
	Type launchers.LaunchType `json:"launch_type"`
}
