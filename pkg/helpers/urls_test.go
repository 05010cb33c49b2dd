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

package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLaunchURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantErr error
		errMsg  string
	}{
		{name: "https", url: "https://github.com"},
		{name: "http_with_port", url: "http://localhost:8080/app/"},
		{name: "uppercase_scheme", url: "HTTPS://example.com/"},
		{name: "mailto", url: "mailto:someone@example.com"},
		{name: "custom_scheme", url: "steam://rungameid/440"},
		{name: "relative", url: "github.com", wantErr: ErrURLNotAbs},
		{name: "empty", url: "", wantErr: ErrURLNotAbs},
		{name: "http_without_host", url: "http:///path", wantErr: ErrURLNoHost},
		{name: "file_scheme", url: "file:///etc/passwd", wantErr: ErrURLFileLocal},
		{name: "whitespace", url: "https://exa mple.com", errMsg: "whitespace"},
		{name: "bad_escape", url: "https://example.com/%zz", errMsg: "invalid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateLaunchURL(tt.url)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateLaunchURL_TooLong(t *testing.T) {
	t.Parallel()

	long := "https://example.com/" + strings.Repeat("a", MaxURLLength)
	require.ErrorIs(t, ValidateLaunchURL(long), ErrURLTooLong)
}

func TestURLOpenerFor(t *testing.T) {
	t.Parallel()

	name, args := urlOpenerFor("linux", "https://example.com")
	assert.Equal(t, "xdg-open", name)
	assert.Equal(t, []string{"https://example.com"}, args)

	name, args = urlOpenerFor("darwin", "https://example.com")
	assert.Equal(t, "open", name)
	assert.Equal(t, []string{"https://example.com"}, args)

	name, args = urlOpenerFor("windows", "https://example.com")
	assert.Equal(t, "rundll32", name)
	assert.Equal(t, []string{"url.dll,FileProtocolHandler", "https://example.com"}, args)
}
