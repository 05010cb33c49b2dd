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

import (
	"fmt"

	"github.com/initium-app/initium/pkg/launchers"
	"pgregory.net/rapid"
)

// LauncherGen generates launchers that pass launchers.Check. Optional fields
// are either absent or non-empty so they survive every storage backend
// unchanged.
func LauncherGen() *rapid.Generator[launchers.Launcher] {
	return rapid.Custom(func(t *rapid.T) launchers.Launcher {
		l := launchers.Launcher{
			ID:   rapid.StringMatching(`[a-z0-9][a-z0-9_-]{0,15}`).Draw(t, "id"),
			Name: rapid.String().Draw(t, "name"),
			Type: rapid.SampledFrom(launchers.AllowedLaunchTypes).Draw(t, "type"),
		}

		if l.Type == launchers.TypeWeb {
			l.Target = rapid.StringMatching(`https://[a-z]{1,12}\.(com|org|net)(/[a-z0-9]{0,8})?`).
				Draw(t, "url")
		} else {
			l.Target = rapid.StringMatching(`/[a-z]{1,8}(/[a-z0-9._-]{1,12}){0,3}`).Draw(t, "path")
			if rapid.Bool().Draw(t, "hasOptions") {
				l.Options = optionsGen().Draw(t, "options")
			}
		}

		if rapid.Bool().Draw(t, "hasIcon") {
			l.Icon = rapid.SliceOfN(rapid.Byte(), 1, 256).Draw(t, "icon")
		}

		return l
	})
}

func optionsGen() *rapid.Generator[*launchers.Options] {
	return rapid.Custom(func(t *rapid.T) *launchers.Options {
		opts := &launchers.Options{
			Args: rapid.SliceOfN(rapid.String(), 1, 4).Draw(t, "args"),
			Dir:  rapid.StringMatching(`(/[a-z]{1,8}){0,2}`).Draw(t, "dir"),
		}
		if rapid.Bool().Draw(t, "hasEnv") {
			opts.Env = rapid.MapOfN(
				rapid.StringMatching(`[A-Z][A-Z0-9_]{0,7}`),
				rapid.String(),
				1, 4,
			).Draw(t, "env")
		}
		return opts
	})
}

// LauncherListGen generates an ordered list of launchers with unique ids.
func LauncherListGen(maxLen int) *rapid.Generator[[]launchers.Launcher] {
	return rapid.Custom(func(t *rapid.T) []launchers.Launcher {
		n := rapid.IntRange(0, maxLen).Draw(t, "n")
		out := make([]launchers.Launcher, 0, n)
		for i := range n {
			l := LauncherGen().Draw(t, fmt.Sprintf("launcher%d", i))
			// suffix keeps ids unique without discarding draws
			l.ID = fmt.Sprintf("%s-%d", l.ID, i)
			out = append(out, l)
		}
		return out
	})
}
