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
	"github.com/initium-app/initium/pkg/database"
	"github.com/initium-app/initium/pkg/launchers"
	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock for database.Store. Saved lists are deep
// copied before being recorded so later registry changes can't alter them.
type MockStore struct {
	mock.Mock
}

var _ database.Store = (*MockStore)(nil)

func (m *MockStore) Load() ([]launchers.Launcher, error) {
	args := m.Called()
	if ls, ok := args.Get(0).([]launchers.Launcher); ok {
		//nolint:wrapcheck // mock returns are wrapped by the caller
		return launchers.CloneAll(ls), args.Error(1)
	}
	//nolint:wrapcheck // mock returns are wrapped by the caller
	return nil, args.Error(1)
}

func (m *MockStore) Save(ls []launchers.Launcher) error {
	args := m.Called(launchers.CloneAll(ls))
	//nolint:wrapcheck // mock returns are wrapped by the caller
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	//nolint:wrapcheck // mock returns are wrapped by the caller
	return args.Error(0)
}

// NewMockStore returns a store that loads an empty registry and accepts
// every save and close unless a test overrides it.
func NewMockStore() *MockStore {
	s := &MockStore{}
	s.On("Load").Return([]launchers.Launcher{}, nil).Maybe()
	s.On("Save", mock.Anything).Return(nil).Maybe()
	s.On("Close").Return(nil).Maybe()
	return s
}
