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
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/initium-app/initium/pkg/api/models"
	"github.com/initium-app/initium/pkg/api/models/requests"
	"github.com/initium-app/initium/pkg/api/validation"
	"github.com/initium-app/initium/pkg/config"
	"github.com/rs/zerolog/log"
)

// NoContent marshals to an empty object.
type NoContent struct{}

// decodeParams unmarshals request params without validating them; the
// command layer validates after normalising input.
func decodeParams[T any](params json.RawMessage, dest *T) error {
	if len(params) == 0 {
		return validation.ErrMissingParams
	}
	if err := json.Unmarshal(params, dest); err != nil {
		return fmt.Errorf("%w: %v", validation.ErrInvalidParams, err)
	}
	return nil
}

func HandleVersion(_ requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received version request")
	return models.VersionResponse{
		Version:  config.AppVersion,
		Platform: runtime.GOOS,
	}, nil
}
