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

// Package dispatcher turns a launcher record into a single OS action:
// starting a detached process for app launchers or asking the desktop to
// open a URL for web launchers.
package dispatcher

import (
	"context"
	"fmt"

	"github.com/initium-app/initium/pkg/helpers"
	"github.com/initium-app/initium/pkg/helpers/command"
	"github.com/initium-app/initium/pkg/launchers"
	"github.com/rs/zerolog/log"
)

// Dispatcher holds no state of its own and is safe for concurrent use.
type Dispatcher struct {
	cmd    command.Executor
	opener func(target string) (string, []string)
}

func New(cmd command.Executor) *Dispatcher {
	return &Dispatcher{
		cmd:    cmd,
		opener: helpers.URLOpener,
	}
}

// Dispatch performs the launch. It returns once the process has been
// started, without waiting on it, and every failure wraps
// launchers.ErrSpawn.
func (d *Dispatcher) Dispatch(ctx context.Context, l *launchers.Launcher) error {
	switch l.Type {
	case launchers.TypeApp:
		return d.startApp(ctx, l)
	case launchers.TypeWeb:
		return d.openURL(ctx, l)
	default:
		return fmt.Errorf("%w: unsupported launch type %q", launchers.ErrSpawn, l.Type)
	}
}

func (d *Dispatcher) startApp(ctx context.Context, l *launchers.Launcher) error {
	if l.Target == "" {
		return fmt.Errorf("%w: launcher %q has no target", launchers.ErrSpawn, l.ID)
	}

	opts := command.StartOptions{Detach: true}
	var args []string
	if l.Options != nil {
		args = l.Options.Args
		opts.Env = l.Options.EnvList()
		opts.Dir = l.Options.Dir
	}

	log.Info().
		Str("id", l.ID).
		Str("target", l.Target).
		Strs("args", args).
		Msg("starting app launcher")

	if err := d.cmd.StartWithOptions(ctx, opts, l.Target, args...); err != nil {
		return fmt.Errorf("%w: %v", launchers.ErrSpawn, err)
	}
	return nil
}

func (d *Dispatcher) openURL(ctx context.Context, l *launchers.Launcher) error {
	if err := helpers.ValidateLaunchURL(l.Target); err != nil {
		return fmt.Errorf("%w: %v", launchers.ErrSpawn, err)
	}

	name, args := d.opener(l.Target)
	log.Info().Str("id", l.ID).Str("url", l.Target).Str("opener", name).Msg("opening web launcher")

	opts := command.StartOptions{Detach: true, HideWindow: true}
	if err := d.cmd.StartWithOptions(ctx, opts, name, args...); err != nil {
		return fmt.Errorf("%w: failed to open %s: %v", launchers.ErrSpawn, l.Target, err)
	}
	return nil
}
