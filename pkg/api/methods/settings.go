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

package methods

import (
	"fmt"

	"github.com/initium-app/initium/pkg/api/models"
	"github.com/initium-app/initium/pkg/api/models/requests"
	"github.com/initium-app/initium/pkg/api/notifications"
	"github.com/initium-app/initium/pkg/api/validation"
	"github.com/initium-app/initium/pkg/autostart"
	"github.com/initium-app/initium/pkg/config"
	"github.com/rs/zerolog/log"
)

func settingsResponse(cfg *config.Instance) models.SettingsResponse {
	return models.SettingsResponse{
		Theme:        cfg.Theme(),
		Autostart:    cfg.Autostart(),
		DebugLogging: cfg.DebugLogging(),
	}
}

func HandleSettings(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received settings request")
	return settingsResponse(env.Config), nil
}

// HandleSettingsUpdate applies any subset of settings. The autostart entry
// is changed first so a platform that can't support it leaves the config
// untouched.
//
//nolint:gocritic // single-use parameter in API handler
func HandleSettingsUpdate(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received settings update request")

	var params models.UpdateSettingsParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	if params.Autostart != nil && *params.Autostart != env.Config.Autostart() {
		log.Info().Bool("autostart", *params.Autostart).Msg("update")
		if env.Autostart == nil {
			return nil, autostart.ErrUnsupported
		}
		if err := autostart.Apply(env.Autostart, *params.Autostart); err != nil {
			return nil, err
		}
		env.Config.SetAutostart(*params.Autostart)
	}

	if params.Theme != nil {
		log.Info().Str("theme", *params.Theme).Msg("update")
		if err := env.Config.SetTheme(*params.Theme); err != nil {
			return nil, err
		}
	}

	if params.DebugLogging != nil {
		log.Info().Bool("debugLogging", *params.DebugLogging).Msg("update")
		env.Config.SetDebugLogging(*params.DebugLogging)
	}

	if err := env.Config.Save(); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	notifications.SettingsChanged(env.Notifications, settingsResponse(env.Config))
	return NoContent{}, nil
}
