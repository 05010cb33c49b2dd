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
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/initium-app/initium/pkg/database"
	"github.com/initium-app/initium/pkg/launchers"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("%w: failed to run registry migrations: %v", launchers.ErrPersistence, err)
	}
	return nil
}

func encodeOptions(opts *launchers.Options) (sql.NullString, error) {
	if opts.IsZero() {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(opts)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode options: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func sqlLoad(ctx context.Context, db *sql.DB) ([]launchers.Launcher, error) {
	rows, err := db.QueryContext(ctx,
		`select ID, Name, LaunchType, Target, Icon, Options
		from Launchers
		order by Position asc`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query launchers: %v", launchers.ErrPersistence, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	out := make([]launchers.Launcher, 0)
	for rows.Next() {
		var (
			l        launchers.Launcher
			typeName string
			icon     []byte
			options  sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.Name, &typeName, &l.Target, &icon, &options); err != nil {
			return nil, fmt.Errorf("%w: failed to scan launcher row: %v", launchers.ErrPersistence, err)
		}

		l.Type, err = launchers.ParseLaunchType(typeName)
		if err != nil {
			return nil, fmt.Errorf("%w: launcher %q: %v", launchers.ErrPersistence, l.ID, err)
		}
		if len(icon) > 0 {
			l.Icon = icon
		}
		if options.Valid && options.String != "" {
			var opts launchers.Options
			if err := json.Unmarshal([]byte(options.String), &opts); err != nil {
				return nil, fmt.Errorf("%w: launcher %q options: %v", launchers.ErrPersistence, l.ID, err)
			}
			l.Options = &opts
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate launchers: %v", launchers.ErrPersistence, err)
	}

	return out, nil
}

// sqlSave replaces every row inside one transaction. Position records the
// list order.
func sqlSave(ctx context.Context, db *sql.DB, ls []launchers.Launcher) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", launchers.ErrPersistence, err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("failed to rollback launcher save")
		}
	}()

	if _, err = tx.ExecContext(ctx, "delete from Launchers"); err != nil {
		return fmt.Errorf("%w: failed to clear launchers: %v", launchers.ErrPersistence, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`insert into Launchers (ID, Position, Name, LaunchType, Target, Icon, Options)
		values (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to prepare launcher insert: %v", launchers.ErrPersistence, err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close statement")
		}
	}()

	for i := range ls {
		l := &ls[i]
		opts, encErr := encodeOptions(l.Options)
		if encErr != nil {
			err = fmt.Errorf("%w: launcher %q: %v", launchers.ErrPersistence, l.ID, encErr)
			return err
		}
		if _, err = stmt.ExecContext(ctx,
			l.ID, i, l.Name, string(l.Type), l.Target, l.Icon, opts,
		); err != nil {
			return fmt.Errorf("%w: failed to insert launcher %q: %v", launchers.ErrPersistence, l.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit launchers: %v", launchers.ErrPersistence, err)
	}
	return nil
}
