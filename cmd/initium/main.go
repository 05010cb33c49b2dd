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

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/initium-app/initium/internal/telemetry"
	"github.com/initium-app/initium/pkg/api/client"
	"github.com/initium-app/initium/pkg/cli"
	"github.com/initium-app/initium/pkg/config"
	"github.com/initium-app/initium/pkg/helpers"
	"github.com/initium-app/initium/pkg/service"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		telemetry.Flush()
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags()
	flags.Pre()

	var logWriters []io.Writer
	if *flags.Daemon {
		logWriters = []io.Writer{helpers.ConsoleWriter()}
	}

	cfg, dirs := cli.Setup(config.BaseDefaults, logWriters)
	defer telemetry.Close()

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	flags.Post(cfg)

	if client.IsServiceRunning(cfg) {
		if *flags.Daemon {
			return fmt.Errorf("service already running on %s", cfg.APIAddress())
		}
		_, _ = fmt.Fprintf(os.Stderr, "Service already running on %s\n", cfg.APIAddress())
		return nil
	}

	stopSvc, err := service.Start(cfg, dirs, service.Options{})
	if err != nil {
		log.Error().Msgf("error starting service: %s", err)
		return fmt.Errorf("error starting service: %w", err)
	}

	defer func() {
		if err := stopSvc(); err != nil {
			log.Error().Msgf("error stopping service: %s", err)
		}
	}()

	if *flags.Daemon {
		log.Info().Msg("started in daemon mode")
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "Initium running on %s, press Ctrl-C to stop\n", cfg.APIAddress())
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	signal.Stop(sigs)

	return nil
}
