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

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/initium-app/initium/pkg/api/client"
	"github.com/initium-app/initium/pkg/api/models"
	"github.com/rs/zerolog/log"
)

const minSuggestSimilarity = 0.8

// closestID returns the known id most similar to id, or "" if nothing is
// close enough.
func closestID(id string, ids []string) string {
	best := ""
	var bestScore float32
	query := strings.ToLower(id)
	for _, candidate := range ids {
		score := edlib.JaroWinklerSimilarity(query, strings.ToLower(candidate))
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	if bestScore < minSuggestSimilarity {
		return ""
	}
	return best
}

// withSuggestion adds a "did you mean" hint to not found errors for id.
func withSuggestion(ctx context.Context, cl client.APIClient, id string, err error) error {
	var rpcErr *client.RPCError
	if !errors.As(err, &rpcErr) || rpcErr.Code != models.ErrCodeNotFound {
		return err
	}

	resp, listErr := cl.Call(ctx, models.MethodLaunchers, "")
	if listErr != nil {
		log.Debug().Err(listErr).Msg("error listing launchers for suggestion")
		return err
	}
	var res models.LaunchersResponse
	if jsonErr := json.Unmarshal([]byte(resp), &res); jsonErr != nil {
		return err
	}

	ids := make([]string, 0, len(res.Launchers))
	for _, l := range res.Launchers {
		ids = append(ids, l.ID)
	}
	if match := closestID(id, ids); match != "" && match != id {
		return fmt.Errorf("%w (did you mean '%s'?)", err, match)
	}
	return err
}
