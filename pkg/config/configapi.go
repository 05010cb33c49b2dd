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

package config

import (
	"net"
	"slices"
	"strconv"
)

const (
	DefaultAPIPort   = 7485
	DefaultAPIListen = "127.0.0.1"
)

type API struct {
	Port       *int     `toml:"port,omitempty"`
	Listen     string   `toml:"listen,omitempty"`
	AllowedIPs []string `toml:"allowed_ips,omitempty"`
}

func (c *Instance) APIPort() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.API.Port == nil {
		return DefaultAPIPort
	}
	return *c.vals.API.Port
}

func (c *Instance) SetAPIPort(port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.API.Port = &port
}

// APIAddress is the host:port the API server binds to. It defaults to
// loopback because callers are not authenticated.
func (c *Instance) APIAddress() string {
	c.mu.RLock()
	host := c.vals.API.Listen
	c.mu.RUnlock()
	if host == "" {
		host = DefaultAPIListen
	}
	return net.JoinHostPort(host, strconv.Itoa(c.APIPort()))
}

// AllowedIPs lists the non-loopback addresses or CIDRs permitted to use the
// API. Loopback is always allowed.
func (c *Instance) AllowedIPs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.API.AllowedIPs)
}
