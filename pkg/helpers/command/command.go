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

// Package command wraps process creation behind an interface so callers can
// be tested without starting real processes.
package command

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

type StartOptions struct {
	// Env entries (KEY=VALUE) are appended to the inherited environment.
	Env []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// HideWindow prevents a console window from appearing (Windows-only).
	HideWindow bool
	// Detach starts the process in its own session/process group, not tied
	// to the context or to the lifetime of this process.
	Detach bool
}

type Executor interface {
	// Start starts a command without waiting for it to complete.
	// Returns an error if the command fails to start.
	Start(ctx context.Context, name string, args ...string) error

	// StartWithOptions starts a command with extra process options.
	// Returns an error if the command fails to start.
	StartWithOptions(ctx context.Context, opts StartOptions, name string, args ...string) error
}

type RealExecutor struct{}

func (*RealExecutor) Start(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Start()
}

func (*RealExecutor) StartWithOptions(
	ctx context.Context,
	opts StartOptions,
	name string,
	args ...string,
) error {
	var cmd *exec.Cmd
	if opts.Detach {
		// a detached child must outlive ctx
		cmd = exec.Command(name, args...) //nolint:noctx // fire-and-forget
	} else {
		cmd = exec.CommandContext(ctx, name, args...)
	}

	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	cmd.Dir = opts.Dir
	cmd.SysProcAttr = sysProcAttr(opts)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	if opts.Detach {
		// reap the child so it never lingers as a zombie
		go func() {
			_ = cmd.Wait()
		}()
	}

	return nil
}
