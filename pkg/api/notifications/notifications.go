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

// Package notifications builds the server-to-client messages announcing
// launcher changes. Sends never block: if nobody is draining the channel
// the notification is dropped and logged.
package notifications

import (
	"encoding/json"

	"github.com/initium-app/initium/pkg/api/models"
	"github.com/initium-app/initium/pkg/launchers"
	"github.com/rs/zerolog/log"
)

func send(ns chan<- models.Notification, method string, payload any) {
	if ns == nil {
		return
	}

	var params json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Str("method", method).Msg("failed to marshal notification")
			return
		}
		params = data
	}

	select {
	case ns <- models.Notification{Method: method, Params: params}:
	default:
		log.Warn().Str("method", method).Msg("notification channel full, dropping notification")
	}
}

func launcherPayload(l *launchers.Launcher) models.LauncherNotification {
	return models.LauncherNotification{ID: l.ID, Name: l.Name, Type: l.Type}
}

func LauncherAdded(ns chan<- models.Notification, l *launchers.Launcher) {
	send(ns, models.NotificationAdded, launcherPayload(l))
}

func LauncherUpdated(ns chan<- models.Notification, l *launchers.Launcher) {
	send(ns, models.NotificationUpdated, launcherPayload(l))
}

func LauncherRemoved(ns chan<- models.Notification, id string) {
	send(ns, models.NotificationRemoved, models.LauncherIDParams{ID: id})
}

func LauncherLaunched(ns chan<- models.Notification, l *launchers.Launcher) {
	send(ns, models.NotificationLaunched, launcherPayload(l))
}

func LaunchersReloaded(ns chan<- models.Notification, count int) {
	send(ns, models.NotificationReloaded, map[string]int{"count": count})
}

func SettingsChanged(ns chan<- models.Notification, s models.SettingsResponse) {
	send(ns, models.NotificationSettings, s)
}
