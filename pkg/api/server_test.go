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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/initium-app/initium/pkg/api/models"
	"github.com/initium-app/initium/pkg/api/models/requests"
	"github.com/initium-app/initium/pkg/commands"
	"github.com/initium-app/initium/pkg/database/jsondb"
	"github.com/initium-app/initium/pkg/dispatcher"
	"github.com/initium-app/initium/pkg/launchers"
	"github.com/initium-app/initium/pkg/registry"
	"github.com/initium-app/initium/pkg/testing/fixtures"
	"github.com/initium-app/initium/pkg/testing/helpers"
	"github.com/initium-app/initium/pkg/testing/mocks"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	deps   *Deps
	exec   *mocks.MockCommandExecutor
	auto   *mocks.MockRegistrar
	server *httptest.Server
	router http.Handler
}

func newTestDeps(t *testing.T, fs afero.Fs, seed ...launchers.Launcher) (*Deps, *mocks.MockCommandExecutor) {
	t.Helper()

	store := jsondb.New(fs, "/data/launchers.json")
	if len(seed) > 0 {
		require.NoError(t, store.Save(seed))
	}
	reg, err := registry.Open(store)
	require.NoError(t, err)

	cfg, err := helpers.NewTestConfig(t.TempDir())
	require.NoError(t, err)

	exec := helpers.NewMockCommandExecutor()
	ns := make(chan models.Notification, 100)

	return &Deps{
		Config:        cfg,
		Commands:      commands.New(reg, dispatcher.New(exec), ns),
		Notifications: ns,
	}, exec
}

func newTestServer(t *testing.T, seed ...launchers.Launcher) *testServer {
	t.Helper()

	deps, exec := newTestDeps(t, afero.NewMemMapFs(), seed...)
	auto := &mocks.MockRegistrar{}
	deps.Autostart = auto

	ctx, cancel := context.WithCancel(context.Background())
	router, session := newRouter(ctx, NewMethodMap(), deps)
	server := httptest.NewServer(router)
	t.Cleanup(func() {
		cancel()
		_ = session.Close()
		server.Close()
	})

	return &testServer{deps: deps, exec: exec, auto: auto, server: server, router: router}
}

func (ts *testServer) call(t *testing.T, method string, params any) *helpers.JSONRPCResponse {
	t.Helper()
	resp, status, err := helpers.PostJSONRPC(context.Background(), ts.server.URL, method, params)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	return resp
}

func (ts *testServer) post(t *testing.T, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(body))
	req.RemoteAddr = "127.0.0.1:40000"
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, body []byte) (models.ErrorObject, json.RawMessage) {
	t.Helper()
	var resp struct {
		Error *models.ErrorObject `json:"error"`
		ID    json.RawMessage     `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotNil(t, resp.Error)
	return *resp.Error, resp.ID
}

func TestAPI_AddAndListLaunchers(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	resp := ts.call(t, models.MethodLaunchersNew, map[string]any{
		"id":          "gh",
		"name":        "GitHub",
		"launch_type": "Web",
		"target":      "https://github.com",
		"icon":        "AQID",
	})
	helpers.AssertJSONRPCSuccess(t, resp)
	assert.JSONEq(t, `{}`, string(resp.Result))

	resp = ts.call(t, models.MethodLaunchers, nil)
	helpers.AssertJSONRPCSuccess(t, resp)

	var list models.LaunchersResponse
	require.NoError(t, json.Unmarshal(resp.Result, &list))
	require.Len(t, list.Launchers, 1)
	assert.Equal(t, "gh", list.Launchers[0].ID)
	assert.Equal(t, launchers.TypeWeb, list.Launchers[0].Type)
	assert.Equal(t, []byte{1, 2, 3}, list.Launchers[0].Icon)
}

func TestAPI_EmptyListIsArray(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	resp := ts.call(t, models.MethodLaunchers, nil)
	assert.JSONEq(t, `{"launchers":[]}`, string(resp.Result))
}

func TestAPI_ErrorCodes(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, fixtures.AppLauncher("term"))

	tests := []struct {
		params any
		name   string
		method string
		kind   commands.Kind
		code   int
	}{
		{
			name:   "duplicate_id",
			method: models.MethodLaunchersNew,
			params: map[string]any{"id": "term", "launch_type": "app", "target": "/bin/sh"},
			code:   models.ErrCodeDuplicateID,
			kind:   commands.KindDuplicateID,
		},
		{
			name:   "missing_target",
			method: models.MethodLaunchersNew,
			params: map[string]any{"id": "x", "launch_type": "app"},
			code:   models.ErrCodeInvalidParams,
			kind:   commands.KindValidation,
		},
		{
			name:   "unknown_type",
			method: models.MethodLaunchersNew,
			params: map[string]any{"id": "x", "launch_type": "ftp", "target": "x"},
			code:   models.ErrCodeInvalidParams,
			kind:   commands.KindValidation,
		},
		{
			name:   "missing_params",
			method: models.MethodLaunchersNew,
			code:   models.ErrCodeInvalidParams,
			kind:   commands.KindValidation,
		},
		{
			name:   "run_unknown",
			method: models.MethodLaunchersRun,
			params: map[string]any{"id": "nope"},
			code:   models.ErrCodeNotFound,
			kind:   commands.KindNotFound,
		},
		{
			name:   "delete_without_id",
			method: models.MethodLaunchersDelete,
			params: map[string]any{},
			code:   models.ErrCodeInvalidParams,
			kind:   commands.KindValidation,
		},
		{
			name:   "update_unknown",
			method: models.MethodLaunchersUpdate,
			params: map[string]any{"id": "nope", "target": "/bin/sh"},
			code:   models.ErrCodeNotFound,
			kind:   commands.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := ts.call(t, tt.method, tt.params)
			helpers.AssertJSONRPCError(t, resp, tt.code)
			assert.NotEmpty(t, resp.Error.Message)

			data, err := json.Marshal(resp.Error.Data)
			require.NoError(t, err)
			var f commands.Failure
			require.NoError(t, json.Unmarshal(data, &f))
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, resp.Error.Message, f.Message)
		})
	}
}

func TestAPI_RunLauncher(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, fixtures.AppLauncher("term"))

	resp := ts.call(t, models.MethodLaunchersRun, map[string]any{"id": "term"})
	helpers.AssertJSONRPCSuccess(t, resp)
	assert.JSONEq(t, `{"message":"Launcher 'App term' executed"}`, string(resp.Result))

	ts.exec.AssertCalled(t, "StartWithOptions", mock.Anything, mock.Anything, "/usr/bin/term", []string(nil))
}

func TestAPI_RunLauncher_SpawnError(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, fixtures.AppLauncher("term"))
	ts.exec.ExpectedCalls = nil
	ts.exec.On("StartWithOptions", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("exec format error"))

	resp := ts.call(t, models.MethodLaunchersRun, map[string]any{"id": "term"})
	helpers.AssertJSONRPCError(t, resp, models.ErrCodeSpawn)
	assert.Contains(t, resp.Error.Message, "exec format error")
}

func TestAPI_PersistenceError(t *testing.T) {
	t.Parallel()

	deps, _ := newTestDeps(t, afero.NewReadOnlyFs(afero.NewMemMapFs()))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	router, _ := newRouter(ctx, NewMethodMap(), deps)

	body := `{"jsonrpc":"2.0","id":1,"method":"launchers.new",` +
		`"params":{"id":"a","launch_type":"app","target":"/bin/true"}}`
	req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(body))
	req.RemoteAddr = "127.0.0.1:1"
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	e, id := decodeError(t, rr.Body.Bytes())
	assert.Equal(t, models.ErrCodePersistence, e.Code)
	assert.JSONEq(t, `1`, string(id))
	assert.Empty(t, deps.Commands.GetLaunchers())
}

func TestAPI_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, fixtures.AppLauncher("a"), fixtures.AppLauncher("b"))

	resp := ts.call(t, models.MethodLaunchersUpdate, map[string]any{
		"id":     "a",
		"name":   "Renamed",
		"target": "/usr/bin/other",
	})
	helpers.AssertJSONRPCSuccess(t, resp)

	resp = ts.call(t, models.MethodLaunchersDelete, map[string]any{"id": "b"})
	helpers.AssertJSONRPCSuccess(t, resp)

	list := ts.deps.Commands.GetLaunchers()
	require.Len(t, list, 1)
	assert.Equal(t, "Renamed", list[0].Name)
	assert.Equal(t, launchers.TypeApp, list[0].Type)
}

func TestAPI_Version(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	resp := ts.call(t, models.MethodVersion, nil)
	helpers.AssertJSONRPCSuccess(t, resp)

	var v models.VersionResponse
	require.NoError(t, json.Unmarshal(resp.Result, &v))
	assert.NotEmpty(t, v.Version)
	assert.NotEmpty(t, v.Platform)
}

func TestAPI_SettingsUpdate(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.auto.On("Register").Return(nil).Once()

	resp := ts.call(t, models.MethodSettingsUpdate, map[string]any{
		"theme":     "dark",
		"autostart": true,
	})
	helpers.AssertJSONRPCSuccess(t, resp)

	resp = ts.call(t, models.MethodSettings, nil)
	assert.JSONEq(t, `{"theme":"dark","autostart":true,"debugLogging":false}`, string(resp.Result))
	ts.auto.AssertExpectations(t)

	// persisted
	require.NoError(t, ts.deps.Config.Load())
	assert.Equal(t, "dark", ts.deps.Config.Theme())
}

func TestAPI_SettingsUpdate_Rejected(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	resp := ts.call(t, models.MethodSettingsUpdate, map[string]any{"theme": "neon"})
	helpers.AssertJSONRPCError(t, resp, models.ErrCodeInvalidParams)

	ts.auto.On("Register").Return(errors.New("read-only home")).Once()
	resp = ts.call(t, models.MethodSettingsUpdate, map[string]any{"autostart": true, "theme": "dark"})
	helpers.AssertJSONRPCError(t, resp, models.ErrCodeServer)

	// nothing changed
	assert.False(t, ts.deps.Config.Autostart())
	assert.Equal(t, "light", ts.deps.Config.Theme())
}

func TestHandlePostRequest(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	t.Run("invalid_json", func(t *testing.T) {
		t.Parallel()
		rr := ts.post(t, "application/json", `{invalid json`)
		require.Equal(t, http.StatusOK, rr.Code)
		e, id := decodeError(t, rr.Body.Bytes())
		assert.Equal(t, models.ErrCodeParse, e.Code)
		assert.Equal(t, "null", string(id))
	})

	t.Run("empty_body", func(t *testing.T) {
		t.Parallel()
		rr := ts.post(t, "application/json", ``)
		require.Equal(t, http.StatusOK, rr.Code)
		e, _ := decodeError(t, rr.Body.Bytes())
		assert.Equal(t, models.ErrCodeParse, e.Code)
	})

	t.Run("unknown_method", func(t *testing.T) {
		t.Parallel()
		rr := ts.post(t, "application/json", `{"jsonrpc":"2.0","id":"x","method":"nope"}`)
		require.Equal(t, http.StatusOK, rr.Code)
		e, id := decodeError(t, rr.Body.Bytes())
		assert.Equal(t, models.ErrCodeMethodNotFound, e.Code)
		assert.JSONEq(t, `"x"`, string(id))
	})

	t.Run("wrong_version", func(t *testing.T) {
		t.Parallel()
		rr := ts.post(t, "application/json", `{"jsonrpc":"1.0","id":7,"method":"launchers"}`)
		e, id := decodeError(t, rr.Body.Bytes())
		assert.Equal(t, models.ErrCodeInvalidRequest, e.Code)
		assert.JSONEq(t, `7`, string(id))
	})

	t.Run("object_id", func(t *testing.T) {
		t.Parallel()
		rr := ts.post(t, "application/json", `{"jsonrpc":"2.0","id":{"a":1},"method":"launchers"}`)
		e, id := decodeError(t, rr.Body.Bytes())
		assert.Equal(t, models.ErrCodeInvalidRequest, e.Code)
		assert.Equal(t, "null", string(id))
	})

	t.Run("notification", func(t *testing.T) {
		t.Parallel()
		rr := ts.post(t, "application/json", `{"jsonrpc":"2.0","method":"launchers"}`)
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("method_case_insensitive", func(t *testing.T) {
		t.Parallel()
		rr := ts.post(t, "application/json; charset=utf-8", `{"jsonrpc":"2.0","id":1,"method":"VERSION"}`)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.NotContains(t, rr.Body.String(), `"error"`)
	})

	t.Run("wrong_content_type", func(t *testing.T) {
		t.Parallel()
		rr := ts.post(t, "text/plain", `{"jsonrpc":"2.0","id":1,"method":"version"}`)
		assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
	})

	t.Run("oversized_body", func(t *testing.T) {
		t.Parallel()
		rr := ts.post(t, "application/json", strings.Repeat(" ", MaxRequestSize+1))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})
}

func TestAPI_RemoteClientBlocked(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(`{}`))
	req.RemoteAddr = "203.0.113.7:5555"
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAPI_ForeignOriginRejected(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	body := `{"jsonrpc":"2.0","id":1,"method":"launchers.new",` +
		`"params":{"id":"x","launch_type":"app","target":"/bin/sh","options":{"args":["-c","true"]}}}`

	post := func(origin string) int {
		req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(body))
		req.RemoteAddr = "127.0.0.1:40000"
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Origin", origin)
		rr := httptest.NewRecorder()
		ts.router.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusForbidden, post("https://evil.example"))
	assert.Empty(t, ts.deps.Commands.GetLaunchers())

	assert.Equal(t, http.StatusOK, post("http://localhost:3000"))
	assert.Len(t, ts.deps.Commands.GetLaunchers(), 1)
}

func TestWebSocket_ForeignOriginRejected(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.server.URL, "http") + "/api"

	header := http.Header{}
	header.Set("Origin", "https://evil.example")
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if conn != nil {
		_ = conn.Close()
	}
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "http://127.0.0.1:3000")
	conn, resp, err = websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	_ = resp.Body.Close()
	_ = conn.Close()
}

func TestRunRest_CrossSiteRejected(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, fixtures.WebLauncher("docs"))

	get := func(header, value string) int {
		req := httptest.NewRequest(http.MethodGet, "/run/docs", http.NoBody)
		req.RemoteAddr = "127.0.0.1:40000"
		req.Header.Set(header, value)
		rr := httptest.NewRecorder()
		ts.router.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusForbidden, get("Sec-Fetch-Site", "cross-site"))
	assert.Equal(t, http.StatusForbidden, get("Origin", "https://evil.example"))
	ts.exec.AssertNotCalled(t, "StartWithOptions", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	assert.Equal(t, http.StatusOK, get("Sec-Fetch-Site", "none"))
}

func TestRunRest(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, fixtures.WebLauncher("docs"))

	get := func(path string) (int, string) {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, ts.server.URL+path, http.NoBody)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, strings.TrimSpace(string(body))
	}

	code, body := get("/run/docs")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Launcher 'Web docs' executed", body)

	code, _ = get("/run/missing")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestWebSocket(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	conn := helpers.DialWebSocket(t, "ws"+strings.TrimPrefix(ts.server.URL, "http")+"/api")
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	// heartbeat, also guarantees the session is registered for broadcasts
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ping")))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(msg))

	resp, err := helpers.SendJSONRPCRequest(conn, models.MethodLaunchers, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"launchers":[]}`, string(resp.Result))

	// a change made over HTTP reaches websocket clients
	resp = ts.call(t, models.MethodLaunchersNew, map[string]any{
		"id": "vscode", "launch_type": "app", "target": "/usr/bin/code",
	})
	helpers.AssertJSONRPCSuccess(t, resp)

	var notif models.NotificationObject
	for {
		_, msg, err = conn.ReadMessage()
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(msg, &notif))
		if notif.Method != "" {
			break
		}
	}
	assert.Equal(t, models.NotificationAdded, notif.Method)
	assert.JSONEq(t, `{"id":"vscode","name":"vscode","launch_type":"app"}`, string(notif.Params))
}

func TestWebSocket_ErrorReplies(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	conn := helpers.DialWebSocket(t, "ws"+strings.TrimPrefix(ts.server.URL, "http")+"/api")
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	e, _ := decodeError(t, msg)
	assert.Equal(t, models.ErrCodeParse, e.Code)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"jsonrpc":"2.0","id":3}`)))
	_, msg, err = conn.ReadMessage()
	require.NoError(t, err)
	e, id := decodeError(t, msg)
	assert.Equal(t, models.ErrCodeInvalidRequest, e.Code)
	assert.JSONEq(t, `3`, string(id))
}

func TestMethodMap(t *testing.T) {
	t.Parallel()

	m := NewMethodMap()
	_, ok := m.GetMethod("Launchers.New")
	assert.True(t, ok)

	err := m.AddMethod("test.echo", func(_ requests.RequestEnv) (any, error) {
		return "echo", nil
	})
	require.NoError(t, err)

	require.Error(t, m.AddMethod("TEST.ECHO", func(_ requests.RequestEnv) (any, error) {
		return nil, nil
	}))

	fn, ok := m.GetMethod("test.echo")
	require.True(t, ok)
	got, err := fn(requests.RequestEnv{})
	require.NoError(t, err)
	assert.Equal(t, "echo", got)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	deps, _ := newTestDeps(t, afero.NewMemMapFs())
	deps.Config.SetAPIPort(0)
	ln, err := Listen(deps.Config)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, deps, ln) }()

	resp, status, err := helpers.PostJSONRPC(context.Background(), "http://"+ln.Addr().String(), models.MethodVersion, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	helpers.AssertJSONRPCSuccess(t, resp)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
