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

package methods

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/initium-app/initium/pkg/api/models"
	"github.com/initium-app/initium/pkg/api/models/requests"
	"github.com/initium-app/initium/pkg/api/validation"
	"github.com/initium-app/initium/pkg/autostart"
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
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T, params any, seed ...launchers.Launcher) requests.RequestEnv {
	t.Helper()

	store := jsondb.New(afero.NewMemMapFs(), "/data/launchers.json")
	if len(seed) > 0 {
		require.NoError(t, store.Save(seed))
	}
	reg, err := registry.Open(store)
	require.NoError(t, err)

	cfg, err := helpers.NewTestConfig(t.TempDir())
	require.NoError(t, err)

	ns := make(chan models.Notification, 16)
	env := requests.RequestEnv{
		Ctx:           context.Background(),
		Commands:      commands.New(reg, dispatcher.New(helpers.NewMockCommandExecutor()), ns),
		Config:        cfg,
		Notifications: ns,
	}
	if params != nil {
		data, err := json.Marshal(params)
		require.NoError(t, err)
		env.Params = data
	}
	return env
}

func TestHandleLaunchers(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil, fixtures.AppLauncher("a"), fixtures.WebLauncher("b"))
	result, err := HandleLaunchers(env)
	require.NoError(t, err)

	resp, ok := result.(models.LaunchersResponse)
	require.True(t, ok)
	require.Len(t, resp.Launchers, 2)
	assert.Equal(t, "a", resp.Launchers[0].ID)
	assert.Equal(t, "b", resp.Launchers[1].ID)
}

func TestHandleAddLauncher(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, map[string]any{
		"id":          "term",
		"launch_type": "app",
		"target":      "/usr/bin/xterm",
		"options":     map[string]any{"args": []string{"-e", "top"}},
	})
	result, err := HandleAddLauncher(env)
	require.NoError(t, err)
	assert.IsType(t, NoContent{}, result)

	l, err := env.Commands.GetLauncher("term")
	require.NoError(t, err)
	assert.Equal(t, []string{"-e", "top"}, l.Options.Args)
}

func TestHandleAddLauncher_BadParams(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	_, err := HandleAddLauncher(env)
	require.ErrorIs(t, err, validation.ErrMissingParams)

	env.Params = json.RawMessage(`{"id": 5}`)
	_, err = HandleAddLauncher(env)
	require.ErrorIs(t, err, validation.ErrInvalidParams)

	env.Params = json.RawMessage(`{"id":"x","launch_type":"app","target":"/bin/sh","icon":"!!"}`)
	_, err = HandleAddLauncher(env)
	require.ErrorIs(t, err, validation.ErrInvalidParams)
}

func TestHandleUpdateLauncher(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, map[string]any{"id": "a", "name": "New", "target": "/opt/a"}, fixtures.AppLauncher("a"))
	_, err := HandleUpdateLauncher(env)
	require.NoError(t, err)

	l, err := env.Commands.GetLauncher("a")
	require.NoError(t, err)
	assert.Equal(t, "New", l.Name)
	assert.Equal(t, "/opt/a", l.Target)
}

func TestHandleDeleteLauncher(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, map[string]any{"id": "a"}, fixtures.AppLauncher("a"))
	_, err := HandleDeleteLauncher(env)
	require.NoError(t, err)
	assert.Empty(t, env.Commands.GetLaunchers())

	_, err = HandleDeleteLauncher(env)
	require.ErrorIs(t, err, launchers.ErrNotFound)
}

func TestHandleRunLauncher(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, map[string]any{"id": "a"}, fixtures.AppLauncher("a"))
	result, err := HandleRunLauncher(env)
	require.NoError(t, err)
	assert.Equal(t, models.RunResponse{Message: "Launcher 'App a' executed"}, result)
}

func TestHandleReloadLaunchers(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil, fixtures.AppLauncher("a"))
	result, err := HandleReloadLaunchers(env)
	require.NoError(t, err)
	assert.IsType(t, NoContent{}, result)
	assert.Len(t, env.Commands.GetLaunchers(), 1)
}

func TestHandleSettingsUpdate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, map[string]any{"debugLogging": true, "autostart": true})
	auto := &mocks.MockRegistrar{}
	auto.On("Register").Return(nil).Once()
	env.Autostart = auto

	_, err := HandleSettingsUpdate(env)
	require.NoError(t, err)
	auto.AssertExpectations(t)

	result, err := HandleSettings(env)
	require.NoError(t, err)
	assert.Equal(t, models.SettingsResponse{Theme: "light", Autostart: true, DebugLogging: true}, result)

	select {
	case n := <-env.Notifications:
		assert.Equal(t, models.NotificationSettings, n.Method)
	default:
		t.Fatal("expected a settings notification")
	}

	// turning debug logging back off keeps the global level sane for other tests
	env.Params = json.RawMessage(`{"debugLogging": false}`)
	_, err = HandleSettingsUpdate(env)
	require.NoError(t, err)
}

func TestHandleSettingsUpdate_NoRegistrar(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, map[string]any{"autostart": true})
	_, err := HandleSettingsUpdate(env)
	require.ErrorIs(t, err, autostart.ErrUnsupported)
	assert.False(t, env.Config.Autostart())
}

func TestHandleSettingsUpdate_UnchangedAutostartSkipsRegistrar(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, map[string]any{"autostart": false})
	auto := &mocks.MockRegistrar{}
	env.Autostart = auto

	_, err := HandleSettingsUpdate(env)
	require.NoError(t, err)
	auto.AssertNotCalled(t, "Deregister")
}

func TestHandleRunRest(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil, fixtures.AppLauncher("a"))
	r := chi.NewRouter()
	r.Get("/run/{id}", HandleRunRest(env.Commands))

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "known", path: "/run/a", want: http.StatusOK},
		{name: "unknown", path: "/run/b", want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))
			assert.Equal(t, tt.want, rr.Code)
			assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
		})
	}
}

func TestRestStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusBadRequest, restStatus(commands.Describe(launchers.ErrValidation).Kind))
	assert.Equal(t, http.StatusInternalServerError, restStatus(commands.Describe(launchers.ErrSpawn).Kind))
	assert.Equal(t, http.StatusInternalServerError, restStatus(commands.Describe(errors.New("x")).Kind))
}
