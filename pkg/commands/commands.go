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

// Package commands is the entry point every caller goes through to read,
// change or run launchers. It validates input before anything reaches the
// registry, and publishes a notification after each successful change.
package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/initium-app/initium/pkg/api/models"
	"github.com/initium-app/initium/pkg/api/notifications"
	"github.com/initium-app/initium/pkg/api/validation"
	"github.com/initium-app/initium/pkg/dispatcher"
	"github.com/initium-app/initium/pkg/launchers"
	"github.com/initium-app/initium/pkg/registry"
	"github.com/rs/zerolog/log"
)

// MaxIconSize caps the opaque icon payload stored with a launcher.
const MaxIconSize = 4 << 20

type AddRequest struct {
	Options    *launchers.Options `json:"options,omitempty"`
	ID         string             `json:"id" validate:"required,launcherid"`
	Name       string             `json:"name"`
	LaunchType string             `json:"launch_type" validate:"required,launchtype"`
	Target     string             `json:"target" validate:"required"`
	Icon       []byte             `json:"icon,omitempty" validate:"max=4194304"`
}

// UpdateRequest replaces a launcher's name, target, icon and options. An
// empty LaunchType keeps the stored one; a different one is rejected.
type UpdateRequest struct {
	Options    *launchers.Options `json:"options,omitempty"`
	ID         string             `json:"id" validate:"required"`
	Name       string             `json:"name"`
	LaunchType string             `json:"launch_type,omitempty" validate:"omitempty,launchtype"`
	Target     string             `json:"target" validate:"required"`
	Icon       []byte             `json:"icon,omitempty" validate:"max=4194304"`
}

type Commands struct {
	reg       *registry.Registry
	disp      *dispatcher.Dispatcher
	validator *validation.Validator
	ns        chan<- models.Notification
}

// New wires the command layer. ns may be nil when nobody listens for
// notifications.
func New(
	reg *registry.Registry,
	disp *dispatcher.Dispatcher,
	ns chan<- models.Notification,
) *Commands {
	return &Commands{
		reg:       reg,
		disp:      disp,
		validator: validation.DefaultValidator,
		ns:        ns,
	}
}

func (c *Commands) validate(req any) error {
	if err := c.validator.Validate(req); err != nil {
		return fmt.Errorf("%w: %w", launchers.ErrValidation, err)
	}
	return nil
}

func requireID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", launchers.ErrValidation)
	}
	return nil
}

func (c *Commands) GetLaunchers() []launchers.Launcher {
	return c.reg.List()
}

func (c *Commands) GetLauncher(id string) (launchers.Launcher, error) {
	if err := requireID(id); err != nil {
		return launchers.Launcher{}, err
	}
	return c.reg.Get(id)
}

//nolint:gocritic // request is a value type by design of the API
func (c *Commands) AddLauncher(req AddRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Target = strings.TrimSpace(req.Target)
	if err := c.validate(&req); err != nil {
		return err
	}

	lt, err := launchers.ParseLaunchType(req.LaunchType)
	if err != nil {
		return err
	}

	l := launchers.Launcher{
		ID:      req.ID,
		Name:    req.Name,
		Type:    lt,
		Target:  req.Target,
		Icon:    req.Icon,
		Options: req.Options,
	}
	if l.Name == "" {
		l.Name = l.ID
	}

	if err := c.reg.Add(l); err != nil {
		return err
	}

	log.Info().Str("id", l.ID).Str("type", string(l.Type)).Msg("launcher added")
	notifications.LauncherAdded(c.ns, &l)
	return nil
}

//nolint:gocritic // request is a value type by design of the API
func (c *Commands) UpdateLauncher(req UpdateRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Target = strings.TrimSpace(req.Target)
	if err := c.validate(&req); err != nil {
		return err
	}

	cur, err := c.reg.Get(req.ID)
	if err != nil {
		return err
	}

	lt := cur.Type
	if req.LaunchType != "" {
		lt, err = launchers.ParseLaunchType(req.LaunchType)
		if err != nil {
			return err
		}
	}

	l := launchers.Launcher{
		ID:      req.ID,
		Name:    req.Name,
		Type:    lt,
		Target:  req.Target,
		Icon:    req.Icon,
		Options: req.Options,
	}
	if l.Name == "" {
		l.Name = l.ID
	}

	if err := c.reg.Update(req.ID, l); err != nil {
		return err
	}

	log.Info().Str("id", l.ID).Msg("launcher updated")
	notifications.LauncherUpdated(c.ns, &l)
	return nil
}

func (c *Commands) RemoveLauncher(id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := c.reg.Remove(id); err != nil {
		return err
	}

	log.Info().Str("id", id).Msg("launcher removed")
	notifications.LauncherRemoved(c.ns, id)
	return nil
}

// ExecuteLauncher looks up a launcher and dispatches it. The registry lock
// is released before the dispatch starts.
func (c *Commands) ExecuteLauncher(ctx context.Context, id string) (string, error) {
	if err := requireID(id); err != nil {
		return "", err
	}

	l, err := c.reg.Get(id)
	if err != nil {
		return "", err
	}

	if err := c.disp.Dispatch(ctx, &l); err != nil {
		log.Error().Err(err).Str("id", id).Msg("launcher failed to start")
		return "", err
	}

	notifications.LauncherLaunched(c.ns, &l)
	return fmt.Sprintf("Launcher '%s' executed", l.Name), nil
}

// ReloadLaunchers re-reads the store, picking up external edits.
func (c *Commands) ReloadLaunchers() error {
	if err := c.reg.Reload(); err != nil {
		return err
	}
	notifications.LaunchersReloaded(c.ns, c.reg.Len())
	return nil
}
