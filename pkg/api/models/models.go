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

// Package models defines the JSON-RPC 2.0 wire types of the Initium API.
package models

import (
	"encoding/json"
)

const (
	MethodLaunchers       = "launchers"
	MethodLaunchersNew    = "launchers.new"
	MethodLaunchersUpdate = "launchers.update"
	MethodLaunchersDelete = "launchers.delete"
	MethodLaunchersRun    = "launchers.run"
	MethodLaunchersReload = "launchers.reload"
	MethodSettings        = "settings"
	MethodSettingsUpdate  = "settings.update"
	MethodVersion         = "version"
	NotificationAdded     = "launchers.added"
	NotificationUpdated   = "launchers.updated"
	NotificationRemoved   = "launchers.removed"
	NotificationLaunched  = "launchers.launched"
	NotificationReloaded  = "launchers.reloaded"
	NotificationSettings  = "settings.changed"
	JSONRPCVersion        = "2.0"
)

// Error codes. The -320xx range is reserved by JSON-RPC for implementation
// defined server errors; each launcher error kind gets its own code.
const (
	ErrCodeParse          = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
	ErrCodeServer         = -32000
	ErrCodeNotFound       = -32001
	ErrCodeDuplicateID    = -32002
	ErrCodeSpawn          = -32003
	ErrCodePersistence    = -32004
)

type Notification struct {
	Method string
	Params json.RawMessage
}

type RequestObject struct {
	ID      *RPCID          `json:"id,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// NotificationObject is a request without an id, pushed to every
// websocket client.
type NotificationObject struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type ErrorObject struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type ResponseObject struct {
	Result  any          `json:"result"`
	Error   *ErrorObject `json:"error,omitempty"`
	JSONRPC string       `json:"jsonrpc"`
	ID      RPCID        `json:"id"`
}

// ResponseErrorObject omits result entirely, which JSON-RPC requires for
// error responses.
type ResponseErrorObject struct {
	Error   *ErrorObject `json:"error"`
	JSONRPC string       `json:"jsonrpc"`
	ID      RPCID        `json:"id"`
}
