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

// Package cli holds the flags shared by the initium binary: service control
// and client commands that talk to an already running service.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/initium-app/initium/internal/telemetry"
	"github.com/initium-app/initium/pkg/api/client"
	"github.com/initium-app/initium/pkg/api/models"
	"github.com/initium-app/initium/pkg/config"
	"github.com/initium-app/initium/pkg/helpers"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var errMissingValue = errors.New("flag requires a value")

type Flags struct {
	fs      *flag.FlagSet
	Version *bool
	Daemon  *bool
	List    *bool
	Run     *string
	Remove  *string
	API     *string
	Reload  *bool
}

// SetupFlags defines the CLI flags on the global flag set.
func SetupFlags() *Flags {
	return NewFlags(flag.CommandLine)
}

func NewFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs: fs,
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		Daemon: fs.Bool(
			"daemon",
			false,
			"run service in foreground and log to stderr",
		),
		List: fs.Bool(
			"list",
			false,
			"print the configured launchers",
		),
		Run: fs.String(
			"run",
			"",
			"run the launcher with the given id",
		),
		Remove: fs.String(
			"remove",
			"",
			"remove the launcher with the given id",
		),
		API: fs.String(
			"api",
			"",
			"send method and params to API and print response",
		),
		Reload: fs.Bool(
			"reload",
			false,
			"reload launchers from storage",
		),
	}
}

func (f *Flags) isFlagPassed(name string) bool {
	found := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// Parse parses args into the flag set the flags were defined on.
func (f *Flags) Parse(args []string) error {
	if err := f.fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	return nil
}

// Pre parses the command line and handles the flags that need no
// environment setup.
func (f *Flags) Pre() {
	if err := f.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if *f.Version {
		_, _ = fmt.Printf("Initium v%s (%s)\n", config.AppVersion, runtime.GOOS)
		os.Exit(0)
	}
}

// Post runs any client flag against the local service and exits. It returns
// when no client flag was passed.
func (f *Flags) Post(cfg *config.Instance) {
	handled, err := f.Dispatch(context.Background(), client.NewLocalAPIClient(cfg), os.Stdout)
	if !handled {
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("error running command")
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

// Dispatch runs the first client flag that was passed. handled is false when
// there was nothing to do.
func (f *Flags) Dispatch(ctx context.Context, cl client.APIClient, out io.Writer) (handled bool, err error) {
	switch {
	case *f.List:
		return true, listLaunchers(ctx, cl, out)
	case f.isFlagPassed("run"):
		if *f.Run == "" {
			return true, fmt.Errorf("run: %w", errMissingValue)
		}
		return true, runLauncher(ctx, cl, out, *f.Run)
	case f.isFlagPassed("remove"):
		if *f.Remove == "" {
			return true, fmt.Errorf("remove: %w", errMissingValue)
		}
		return true, removeLauncher(ctx, cl, out, *f.Remove)
	case f.isFlagPassed("api"):
		if *f.API == "" {
			return true, fmt.Errorf("api: %w", errMissingValue)
		}
		return true, callAPI(ctx, cl, out, *f.API)
	case *f.Reload:
		if _, err := cl.Call(ctx, models.MethodLaunchersReload, ""); err != nil {
			return true, fmt.Errorf("error reloading launchers: %w", err)
		}
		_, _ = fmt.Fprintln(out, "Launchers reloaded")
		return true, nil
	default:
		return false, nil
	}
}

func idParams(id string) (string, error) {
	data, err := json.Marshal(models.LauncherIDParams{ID: id})
	if err != nil {
		return "", fmt.Errorf("error encoding params: %w", err)
	}
	return string(data), nil
}

func listLaunchers(ctx context.Context, cl client.APIClient, out io.Writer) error {
	resp, err := cl.Call(ctx, models.MethodLaunchers, "")
	if err != nil {
		return fmt.Errorf("error listing launchers: %w", err)
	}

	var res models.LaunchersResponse
	if err := json.Unmarshal([]byte(resp), &res); err != nil {
		return fmt.Errorf("error decoding launchers: %w", err)
	}

	if len(res.Launchers) == 0 {
		_, _ = fmt.Fprintln(out, "No launchers configured")
		return nil
	}

	data := make([][]string, 0, len(res.Launchers))
	for _, l := range res.Launchers {
		data = append(data, []string{l.ID, l.Name, string(l.Type), l.Target})
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "NAME", "TYPE", "TARGET"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}

func runLauncher(ctx context.Context, cl client.APIClient, out io.Writer, id string) error {
	params, err := idParams(id)
	if err != nil {
		return err
	}

	resp, err := cl.Call(ctx, models.MethodLaunchersRun, params)
	if err != nil {
		return fmt.Errorf("error running launcher: %w", withSuggestion(ctx, cl, id, err))
	}

	var res models.RunResponse
	if err := json.Unmarshal([]byte(resp), &res); err != nil {
		return fmt.Errorf("error decoding run response: %w", err)
	}
	_, _ = fmt.Fprintln(out, res.Message)
	return nil
}

func removeLauncher(ctx context.Context, cl client.APIClient, out io.Writer, id string) error {
	params, err := idParams(id)
	if err != nil {
		return err
	}

	if _, err := cl.Call(ctx, models.MethodLaunchersDelete, params); err != nil {
		return fmt.Errorf("error removing launcher: %w", withSuggestion(ctx, cl, id, err))
	}
	_, _ = fmt.Fprintf(out, "Launcher '%s' removed\n", id)
	return nil
}

func callAPI(ctx context.Context, cl client.APIClient, out io.Writer, value string) error {
	method, params, _ := strings.Cut(value, ":")

	resp, err := cl.Call(ctx, method, params)
	if err != nil {
		return fmt.Errorf("error calling API: %w", err)
	}
	_, _ = fmt.Fprintln(out, resp)
	return nil
}

// Setup creates the app directories, starts logging and loads the user
// config. Any failure here is fatal.
//
//nolint:gocritic // config struct copied for immutability
func Setup(defaultConfig config.Values, writers []io.Writer) (*config.Instance, helpers.Dirs) {
	dirs := helpers.DefaultDirs()

	err := helpers.EnsureDirectories(dirs)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error creating directories: %v\n", err)
		os.Exit(1)
	}

	err = helpers.InitLogging(dirs.Log, writers)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(dirs.Config, defaultConfig)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := telemetry.Init(
		cfg.ErrorReporting(),
		cfg.DeviceID(),
		config.AppVersion,
		runtime.GOOS,
	); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return cfg, dirs
}
