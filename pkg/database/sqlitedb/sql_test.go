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

package sqlitedb

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/initium-app/initium/pkg/launchers"
	"github.com/initium-app/initium/pkg/testing/fixtures"
	testsqlmock "github.com/initium-app/initium/pkg/testing/sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var launcherColumns = []string{"ID", "Name", "LaunchType", "Target", "Icon", "Options"}

func TestSqlLoad_Success(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`select ID, Name, LaunchType, Target, Icon, Options\s+from Launchers\s+order by Position`).
		WillReturnRows(sqlmock.NewRows(launcherColumns).
			AddRow("gh", "GitHub", "web", "https://github.com", []byte{1, 2}, nil).
			AddRow("term", "Terminal", "App", "/usr/bin/xterm", nil, `{"args":["-e","htop"]}`))

	got, err := sqlLoad(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, []launchers.Launcher{
		{ID: "gh", Name: "GitHub", Type: launchers.TypeWeb, Target: "https://github.com", Icon: []byte{1, 2}},
		{
			ID: "term", Name: "Terminal", Type: launchers.TypeApp, Target: "/usr/bin/xterm",
			Options: &launchers.Options{Args: []string{"-e", "htop"}},
		},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlLoad_Empty(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`select .* from Launchers`).WillReturnRows(sqlmock.NewRows(launcherColumns))

	got, err := sqlLoad(context.Background(), db)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		setup func(mock sqlmock.Sqlmock)
		name  string
	}{
		{
			name: "query_error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`select .* from Launchers`).WillReturnError(errors.New("disk I/O error"))
			},
		},
		{
			name: "unknown_launch_type",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`select .* from Launchers`).WillReturnRows(
					sqlmock.NewRows(launcherColumns).AddRow("x", "X", "script", "/bin/x", nil, nil))
			},
		},
		{
			name: "bad_options",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`select .* from Launchers`).WillReturnRows(
					sqlmock.NewRows(launcherColumns).AddRow("x", "X", "app", "/bin/x", nil, "{"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db, mock, err := testsqlmock.NewSQLMock()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			tt.setup(mock)
			_, err = sqlLoad(context.Background(), db)
			require.ErrorIs(t, err, launchers.ErrPersistence)
		})
	}
}

func TestSqlSave_Success(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	web := fixtures.WebLauncher("docs")
	web.Icon = []byte{0xde, 0xad}
	app := fixtures.AppLauncher("term")
	app.Options = &launchers.Options{Dir: "/tmp"}

	mock.ExpectBegin()
	mock.ExpectExec(`delete from Launchers`).WillReturnResult(sqlmock.NewResult(0, 3))
	prep := mock.ExpectPrepare(`insert into Launchers`)
	prep.ExpectExec().
		WithArgs("docs", 0, web.Name, "web", web.Target, []byte{0xde, 0xad}, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().
		WithArgs("term", 1, app.Name, "app", app.Target, sqlmock.AnyArg(), `{"dir":"/tmp"}`).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err = sqlSave(context.Background(), db, []launchers.Launcher{web, app})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlSave_InsertErrorRollsBack(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(`delete from Launchers`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectPrepare(`insert into Launchers`).
		ExpectExec().
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err = sqlSave(context.Background(), db, []launchers.Launcher{fixtures.AppLauncher("a")})
	require.ErrorIs(t, err, launchers.ErrPersistence)
	assert.Contains(t, err.Error(), "failed to insert launcher")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlSave_CommitError(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(`delete from Launchers`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare(`insert into Launchers`)
	mock.ExpectCommit().WillReturnError(errors.New("database is locked"))

	err = sqlSave(context.Background(), db, nil)
	require.ErrorIs(t, err, launchers.ErrPersistence)
	assert.Contains(t, err.Error(), "failed to commit")
}
