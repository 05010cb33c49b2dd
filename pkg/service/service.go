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

// Package service wires the registry, dispatcher, command layer and API
// together into the long running Initium process.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/initium-app/initium/pkg/api"
	"github.com/initium-app/initium/pkg/api/models"
	"github.com/initium-app/initium/pkg/autostart"
	"github.com/initium-app/initium/pkg/commands"
	"github.com/initium-app/initium/pkg/config"
	"github.com/initium-app/initium/pkg/dispatcher"
	"github.com/initium-app/initium/pkg/helpers"
	"github.com/initium-app/initium/pkg/helpers/command"
	"github.com/initium-app/initium/pkg/launchers"
	"github.com/initium-app/initium/pkg/registry"
	"github.com/initium-app/initium/pkg/service/discovery"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const notificationBuffer = 100

// Options replace the OS facing parts of the service. Zero values use the
// real implementations.
type Options struct {
	Executor  command.Executor
	Autostart autostart.Registrar
}

// syncAutostart makes the autostart entry match the config, so an entry
// removed by hand comes back while the setting is on.
func syncAutostart(cfg *config.Instance, ar autostart.Registrar) {
	state, err := ar.GetState()
	if err != nil {
		log.Warn().Err(err).Msg("error reading autostart state")
		return
	}
	if !state.Supported || state.Registered == cfg.Autostart() {
		return
	}
	if err := autostart.Apply(ar, cfg.Autostart()); err != nil {
		log.Warn().Err(err).Msg("error syncing autostart entry")
	}
}

// Start opens the registry and serves the API until the returned stop
// function is called. A registry document that can't be read is not fatal:
// the service starts empty and the next change overwrites it.
func Start(cfg *config.Instance, dirs helpers.Dirs, opts Options) (stop func() error, err error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	if _, ok := helpers.HasUserDir(); ok {
		log.Info().Msg("using 'user' directory for storage")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		if err != nil {
			cancel()
		}
	}()

	store, path, err := openStore(ctx, cfg, dirs.Data)
	if err != nil {
		log.Error().Err(err).Msg("error opening launcher registry")
		return nil, err
	}
	log.Info().
		Str("backend", cfg.StorageBackend()).
		Str("path", path).
		Msg("opened launcher registry")

	reg, err := registry.Open(store)
	if err != nil {
		if !errors.Is(err, launchers.ErrPersistence) {
			_ = store.Close()
			return nil, fmt.Errorf("failed to load launcher registry: %w", err)
		}
		log.Error().Err(err).Msg("launcher registry is unreadable, starting empty")
		err = nil
	}
	log.Info().Int("count", reg.Len()).Msg("launcher registry loaded")

	exec := opts.Executor
	if exec == nil {
		exec = &command.RealExecutor{}
	}

	ar := opts.Autostart
	if ar == nil {
		exe, exeErr := os.Executable()
		if exeErr != nil {
			log.Warn().Err(exeErr).Msg("error finding executable path")
		}
		ar = autostart.NewRegistrar("", exe)
	}
	syncAutostart(cfg, ar)

	ns := make(chan models.Notification, notificationBuffer)
	cmds := commands.New(reg, dispatcher.New(exec), ns)

	ln, err := api.Listen(cfg)
	if err != nil {
		log.Error().Err(err).Msg("error starting API")
		if closeErr := reg.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("error closing launcher registry")
		}
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)

	log.Info().Msg("starting API service")
	g.Go(func() error {
		return api.Serve(gctx, &api.Deps{
			Config:        cfg,
			Commands:      cmds,
			Autostart:     ar,
			Notifications: ns,
		}, ln)
	})

	if cfg.StorageBackend() == config.StorageJSON && cfg.WatchRegistry() {
		g.Go(func() error {
			if watchErr := watchRegistry(gctx, path, store, cmds); watchErr != nil {
				log.Error().Err(watchErr).Msg("registry watcher stopped")
			}
			return nil
		})
	}

	disc := discovery.New(cfg)
	if discErr := disc.Start(); discErr != nil {
		log.Error().Err(discErr).Msg("error starting mDNS discovery")
	}

	log.Info().Msg("service fully initialized")

	stop = func() error {
		log.Info().Msg("stopping service")
		disc.Stop()
		cancel()
		waitErr := g.Wait()
		if closeErr := reg.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("error closing launcher registry")
			if waitErr == nil {
				waitErr = closeErr
			}
		}
		log.Info().Msg("service cleanup completed")
		return waitErr
	}
	return stop, nil
}
