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

package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/initium-app/initium/pkg/api/models"
	"github.com/initium-app/initium/pkg/launchers"
	"github.com/stretchr/testify/mock"
)

// MockAPIClient is a mock implementation of client.APIClient for testing.
type MockAPIClient struct {
	mock.Mock
}

func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

func (m *MockAPIClient) Call(ctx context.Context, method, params string) (string, error) {
	args := m.Called(ctx, method, params)
	//nolint:wrapcheck // mock returns are wrapped by the caller
	return args.String(0), args.Error(1)
}

func (m *MockAPIClient) WaitNotification(
	ctx context.Context,
	timeout time.Duration,
	notificationType string,
) (string, error) {
	args := m.Called(ctx, timeout, notificationType)
	//nolint:wrapcheck // mock returns are wrapped by the caller
	return args.String(0), args.Error(1)
}

// SetupLaunchersResponse configures the mock to return ls for the
// launchers method.
func (m *MockAPIClient) SetupLaunchersResponse(ls []launchers.Launcher) {
	if ls == nil {
		ls = []launchers.Launcher{}
	}
	data, _ := json.Marshal(models.LaunchersResponse{Launchers: ls})
	m.On("Call", mock.Anything, models.MethodLaunchers, "").Return(string(data), nil)
}

// SetupRunResponse configures the mock to report msg for runs of id.
func (m *MockAPIClient) SetupRunResponse(id, msg string) {
	params, _ := json.Marshal(models.LauncherIDParams{ID: id})
	data, _ := json.Marshal(models.RunResponse{Message: msg})
	m.On("Call", mock.Anything, models.MethodLaunchersRun, string(params)).Return(string(data), nil)
}

func (m *MockAPIClient) SetupVersionResponse(version string) {
	data, _ := json.Marshal(models.VersionResponse{Version: version, Platform: "linux"})
	m.On("Call", mock.Anything, models.MethodVersion, "").Return(string(data), nil)
}
