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
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/initium-app/initium/pkg/api/models"
	"github.com/initium-app/initium/pkg/api/models/requests"
	"github.com/initium-app/initium/pkg/api/validation"
	"github.com/initium-app/initium/pkg/commands"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandleLaunchers(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received launchers request")
	return models.LaunchersResponse{
		Launchers: env.Commands.GetLaunchers(),
	}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleAddLauncher(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received add launcher request")

	var params commands.AddRequest
	if err := decodeParams(env.Params, &params); err != nil {
		return nil, err
	}

	if err := env.Commands.AddLauncher(params); err != nil {
		return nil, err
	}
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleUpdateLauncher(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received update launcher request")

	var params commands.UpdateRequest
	if err := decodeParams(env.Params, &params); err != nil {
		return nil, err
	}

	if err := env.Commands.UpdateLauncher(params); err != nil {
		return nil, err
	}
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleDeleteLauncher(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received delete launcher request")

	var params models.LauncherIDParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	if err := env.Commands.RemoveLauncher(params.ID); err != nil {
		return nil, err
	}
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleRunLauncher(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received run launcher request")

	var params models.LauncherIDParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	msg, err := env.Commands.ExecuteLauncher(env.Ctx, params.ID)
	if err != nil {
		return nil, err
	}
	return models.RunResponse{Message: msg}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleReloadLaunchers(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received reload launchers request")

	if err := env.Commands.ReloadLaunchers(); err != nil {
		return nil, err
	}
	return NoContent{}, nil
}

// HandleRunRest runs the launcher named in the URL and writes the result
// as plain text, for shortcuts that can only issue a GET.
func HandleRunRest(cmds *commands.Commands) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		log.Info().Str("id", id).Msg("received REST run request")

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		msg, err := cmds.ExecuteLauncher(r.Context(), id)
		if err != nil {
			f := commands.Describe(err)
			log.Error().Err(err).Str("id", id).Msg("REST run failed")
			http.Error(w, f.Message, restStatus(f.Kind))
			return
		}

		if _, err := w.Write([]byte(msg)); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
			log.Error().Err(err).Msg("failed to write REST run response")
		}
	}
}

func restStatus(kind commands.Kind) int {
	switch kind {
	case commands.KindNotFound:
		return http.StatusNotFound
	case commands.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
