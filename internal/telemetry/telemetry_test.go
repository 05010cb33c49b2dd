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

package telemetry

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no username in path",
			input:    "/usr/local/bin/initium",
			expected: "/usr/local/bin/initium",
		},
		{
			name:     "linux home path",
			input:    "/home/sam/.local/share/initium/launchers.json",
			expected: "/home/<user>/.local/share/initium/launchers.json",
		},
		{
			name:     "linux home path uppercase",
			input:    "/Home/Sam/.config/initium/config.toml",
			expected: "/home/<user>/.config/initium/config.toml",
		},
		{
			name:     "macos users path",
			input:    "/Users/sam/Library/Application Support/initium/launchers.db",
			expected: "/Users/<user>/Library/Application Support/initium/launchers.db",
		},
		{
			name:     "windows path",
			input:    "C:\\Users\\sam\\AppData\\Local\\initium\\config.toml",
			expected: "C:\\Users\\<user>\\AppData\\Local\\initium\\config.toml",
		},
		{
			name:     "windows path keeps drive letter",
			input:    "d:\\Users\\admin\\initium\\logs",
			expected: "D:\\Users\\<user>\\initium\\logs",
		},
		{
			name:     "url query removed",
			input:    "error opening https://example.com/dash?token=abc123 with xdg-open",
			expected: "error opening https://example.com/dash?<redacted> with xdg-open",
		},
		{
			name:     "url fragment removed",
			input:    "launch failed: https://example.com/app#access_token=xyz",
			expected: "launch failed: https://example.com/app?<redacted>",
		},
		{
			name:     "url without query untouched",
			input:    "launch failed: https://example.com/app",
			expected: "launch failed: https://example.com/app",
		},
		{
			name:     "multiple paths in message",
			input:    "copying /home/alice/src to /home/bob/dst",
			expected: "copying /home/<user>/src to /home/<user>/dst",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitize(tt.input))
		})
	}
}

func TestSanitizeEvent(t *testing.T) {
	t.Parallel()

	event := &sentry.Event{
		ServerName: "sams-laptop",
		Message:    "failed to save /home/sam/.local/share/initium/launchers.json",
		Extra: map[string]any{
			"path":  "/Users/sam/initium",
			"count": 3,
		},
		Exception: []sentry.Exception{{
			Value: "open /home/sam/x: permission denied",
			Stacktrace: &sentry.Stacktrace{Frames: []sentry.Frame{{
				AbsPath:  "/home/sam/src/initium/pkg/registry/registry.go",
				Filename: "pkg/registry/registry.go",
			}}},
		}, {
			Value: "no stacktrace",
		}},
	}

	got := sanitizeEvent(event)
	require.NotNil(t, got)

	assert.Empty(t, got.ServerName)
	assert.Equal(t, "failed to save /home/<user>/.local/share/initium/launchers.json", got.Message)
	assert.Equal(t, "/Users/<user>/initium", got.Extra["path"])
	assert.Equal(t, 3, got.Extra["count"])
	assert.Equal(t, "open /home/<user>/x: permission denied", got.Exception[0].Value)
	assert.Equal(t,
		"/home/<user>/src/initium/pkg/registry/registry.go",
		got.Exception[0].Stacktrace.Frames[0].AbsPath,
	)
	assert.Equal(t, "pkg/registry/registry.go", got.Exception[0].Stacktrace.Frames[0].Filename)
}

func TestInitDisabled(t *testing.T) {
	t.Parallel()

	require.NoError(t, Init(false, "device", "test", "linux"))
	assert.False(t, Enabled())

	// safe while disabled
	Close()
	Flush()
}

func TestInitWithoutDSN(t *testing.T) {
	t.Setenv(DSNEnv, "")

	require.NoError(t, Init(true, "device", "test", "linux"))
	assert.False(t, Enabled())
}
