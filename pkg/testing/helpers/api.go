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

// Package helpers provides constructors with sensible defaults and small
// servers for exercising the Initium API in tests.
package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/initium-app/initium/pkg/api/models"
	"github.com/olahol/melody"
	"github.com/stretchr/testify/require"
)

// WebSocketTestServer serves a melody handler at /api and records every
// message it receives.
type WebSocketTestServer struct {
	Server   *httptest.Server
	Melody   *melody.Melody
	messages [][]byte
	mu       sync.RWMutex
}

type JSONRPCRequest struct {
	Params  any    `json:"params,omitempty"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	ID      string `json:"id"`
}

type JSONRPCResponse struct {
	Result json.RawMessage     `json:"result,omitempty"`
	Error  *models.ErrorObject `json:"error,omitempty"`
	ID     json.RawMessage     `json:"id"`
}

func NewWebSocketTestServer(t *testing.T, handler func(*melody.Session, []byte)) *WebSocketTestServer {
	t.Helper()

	m := melody.New()
	wsts := &WebSocketTestServer{Melody: m}

	m.HandleMessage(func(session *melody.Session, msg []byte) {
		wsts.mu.Lock()
		wsts.messages = append(wsts.messages, bytes.Clone(msg))
		wsts.mu.Unlock()
		if handler != nil {
			handler(session, msg)
		}
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		_ = m.HandleRequest(w, r)
	})
	wsts.Server = httptest.NewServer(mux)
	t.Cleanup(wsts.Close)

	return wsts
}

func (wsts *WebSocketTestServer) Close() {
	_ = wsts.Melody.Close()
	wsts.Server.Close()
}

// Addr is the host:port the server listens on.
func (wsts *WebSocketTestServer) Addr() string {
	return strings.TrimPrefix(wsts.Server.URL, "http://")
}

func (wsts *WebSocketTestServer) URL() string {
	return "ws://" + wsts.Addr() + "/api"
}

func (wsts *WebSocketTestServer) Messages() [][]byte {
	wsts.mu.RLock()
	defer wsts.mu.RUnlock()
	out := make([][]byte, len(wsts.messages))
	copy(out, wsts.messages)
	return out
}

// DialWebSocket connects to a websocket URL, failing the test on error.
func DialWebSocket(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func NewJSONRPCRequest(method string, params any) JSONRPCRequest {
	return JSONRPCRequest{
		JSONRPC: models.JSONRPCVersion,
		ID:      uuid.New().String(),
		Method:  method,
		Params:  params,
	}
}

// SendJSONRPCRequest writes a request and reads messages until the matching
// response arrives, skipping any notifications in between.
func SendJSONRPCRequest(conn *websocket.Conn, method string, params any) (*JSONRPCResponse, error) {
	req := NewJSONRPCRequest(method, params)
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	wantID, _ := json.Marshal(req.ID)
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		var resp JSONRPCResponse
		if err := json.Unmarshal(msg, &resp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		if bytes.Equal(resp.ID, wantID) {
			return &resp, nil
		}
	}
}

func AssertJSONRPCSuccess(t *testing.T, resp *JSONRPCResponse) {
	t.Helper()
	require.NotNil(t, resp, "response should not be nil")
	require.Nil(t, resp.Error, "response should not contain an error")
	require.NotEmpty(t, resp.Result, "response should contain a result")
}

func AssertJSONRPCError(t *testing.T, resp *JSONRPCResponse, code int) {
	t.Helper()
	require.NotNil(t, resp, "response should not be nil")
	require.NotNil(t, resp.Error, "response should contain an error")
	require.Equal(t, code, resp.Error.Code, "error code should match")
}

// PostJSONRPC sends a single JSON-RPC request to baseURL/api over HTTP.
func PostJSONRPC(ctx context.Context, baseURL, method string, params any) (*JSONRPCResponse, int, error) {
	data, err := json.Marshal(NewJSONRPCRequest(method, params))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api", bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send POST request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var out JSONRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, resp.StatusCode, nil
}
