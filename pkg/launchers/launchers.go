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

// Package launchers defines the launcher record shared by the registry, the
// persistence backends and the dispatcher, along with the error kinds every
// layer reports.
package launchers

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

type LaunchType string

const (
	TypeApp LaunchType = "app"
	TypeWeb LaunchType = "web"
)

var AllowedLaunchTypes = []LaunchType{
	TypeApp,
	TypeWeb,
}

// ParseLaunchType accepts any casing of a known launch type tag and returns
// its canonical form.
func ParseLaunchType(s string) (LaunchType, error) {
	switch LaunchType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeApp:
		return TypeApp, nil
	case TypeWeb:
		return TypeWeb, nil
	default:
		return "", fmt.Errorf("%w: unknown launch type %q", ErrValidation, s)
	}
}

func (t LaunchType) Valid() bool {
	return slices.Contains(AllowedLaunchTypes, t)
}

func (t *LaunchType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("launch type must be a string: %w", err)
	}
	parsed, err := ParseLaunchType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Options only apply to app launchers.
type Options struct {
	Env  map[string]string `json:"env,omitempty" validate:"omitempty,dive,keys,envkey,endkeys"`
	Dir  string            `json:"dir,omitempty"`
	Args []string          `json:"args,omitempty"`
}

func (o *Options) IsZero() bool {
	return o == nil || (len(o.Args) == 0 && len(o.Env) == 0 && o.Dir == "")
}

// EnvList returns the extra environment as KEY=VALUE pairs in key order.
func (o *Options) EnvList() []string {
	if o == nil || len(o.Env) == 0 {
		return nil
	}
	keys := slices.Sorted(maps.Keys(o.Env))
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+o.Env[k])
	}
	return env
}

type Launcher struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Type    LaunchType `json:"launch_type"`
	Target  string     `json:"target"`
	Icon    []byte     `json:"icon,omitempty"`
	Options *Options   `json:"options,omitempty"`
}

// Clone returns a deep copy so callers never share icon bytes, args or env
// with the registry.
func (l *Launcher) Clone() Launcher {
	c := *l
	if l.Icon != nil {
		c.Icon = slices.Clone(l.Icon)
	}
	if l.Options != nil {
		opts := Options{
			Dir:  l.Options.Dir,
			Args: slices.Clone(l.Options.Args),
			Env:  maps.Clone(l.Options.Env),
		}
		c.Options = &opts
	}
	return c
}

// Check reports whether the record satisfies the registry invariants.
func (l *Launcher) Check() error {
	if l.ID == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if l.Target == "" {
		return fmt.Errorf("%w: target is required", ErrValidation)
	}
	if !l.Type.Valid() {
		return fmt.Errorf("%w: unknown launch type %q", ErrValidation, l.Type)
	}
	return nil
}

// CloneAll deep copies a slice of launchers, preserving order.
func CloneAll(ls []Launcher) []Launcher {
	out := make([]Launcher, len(ls))
	for i := range ls {
		out[i] = ls[i].Clone()
	}
	return out
}
