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
	"errors"
	"fmt"
	"net/url"
	"runtime"
	"strings"
)

// MaxURLLength is the longest URL handed to the system opener.
const MaxURLLength = 8192

var (
	ErrURLTooLong   = errors.New("URL too long")
	ErrURLNotAbs    = errors.New("URL must be absolute with a scheme")
	ErrURLNoHost    = errors.New("URL is missing a host")
	ErrURLFileLocal = errors.New("file URLs must use an app launcher")
)

// ValidateLaunchURL checks that s is an absolute URL the system opener can
// be trusted with. Any scheme is allowed except file, and http/https must
// name a host.
func ValidateLaunchURL(s string) error {
	if len(s) > MaxURLLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrURLTooLong, len(s), MaxURLLength)
	}
	if strings.TrimSpace(s) != s || strings.ContainsAny(s, " \t\r\n") {
		return fmt.Errorf("invalid URL %q: contains whitespace", s)
	}

	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", s, err)
	}
	if !u.IsAbs() {
		return fmt.Errorf("%w: %q", ErrURLNotAbs, s)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return ErrURLFileLocal
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("%w: %q", ErrURLNoHost, s)
		}
	default:
		if u.Opaque == "" && u.Host == "" && u.Path == "" {
			return fmt.Errorf("%w: %q", ErrURLNoHost, s)
		}
	}

	return nil
}

// URLOpener returns the command which asks the desktop to open a URL with
// its default handler.
func URLOpener(target string) (name string, args []string) {
	return urlOpenerFor(runtime.GOOS, target)
}

func urlOpenerFor(goos, target string) (name string, args []string) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	case "darwin":
		return "open", []string{target}
	default:
		return "xdg-open", []string{target}
	}
}
