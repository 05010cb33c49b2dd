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
	"github.com/initium-app/initium/pkg/autostart"
	"github.com/stretchr/testify/mock"
)

type MockRegistrar struct {
	mock.Mock
}

var _ autostart.Registrar = (*MockRegistrar)(nil)

func (m *MockRegistrar) GetState() (autostart.RegistrationState, error) {
	args := m.Called()
	state, _ := args.Get(0).(autostart.RegistrationState)
	//nolint:wrapcheck // mock returns are wrapped by the caller
	return state, args.Error(1)
}

func (m *MockRegistrar) Register() error {
	args := m.Called()
	//nolint:wrapcheck // mock returns are wrapped by the caller
	return args.Error(0)
}

func (m *MockRegistrar) Deregister() error {
	args := m.Called()
	//nolint:wrapcheck // mock returns are wrapped by the caller
	return args.Error(0)
}
