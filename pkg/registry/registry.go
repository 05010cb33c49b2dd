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

// Package registry holds the ordered set of launchers in memory and keeps it
// in step with a database.Store.
//
// Every mutation builds the next state as a copy, saves it, and only then
// swaps it in under the write lock. A failed save therefore leaves the
// registry exactly as it was, and readers never observe a half-applied
// change.
package registry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/initium-app/initium/pkg/database"
	"github.com/initium-app/initium/pkg/helpers/syncutil"
	"github.com/initium-app/initium/pkg/launchers"
	"github.com/rs/zerolog/log"
)

type Registry struct {
	store database.Store
	index map[string]int
	items []launchers.Launcher
	mu    syncutil.RWMutex
}

// New returns an empty registry backed by store without loading it.
func New(store database.Store) *Registry {
	return &Registry{
		store: store,
		items: []launchers.Launcher{},
		index: map[string]int{},
	}
}

// Open creates a registry and loads it from store. If the stored data can't
// be read the registry is still returned, empty and usable, along with the
// ErrPersistence error.
func Open(store database.Store) (*Registry, error) {
	r := New(store)
	if err := r.Reload(); err != nil {
		return r, err
	}
	return r, nil
}

// Reload replaces the in-memory state with the store's contents. On failure
// the current state is kept.
func (r *Registry) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ls, err := r.store.Load()
	if err != nil {
		return persistenceErr(err)
	}
	if err := database.CheckLaunchers(ls); err != nil {
		return err
	}

	r.swap(ls)
	log.Debug().Int("count", len(ls)).Msg("loaded launcher registry")
	return nil
}

func (r *Registry) List() []launchers.Launcher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return launchers.CloneAll(r.items)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *Registry) Get(id string) (launchers.Launcher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return launchers.Launcher{}, fmt.Errorf("%w: %q", launchers.ErrNotFound, id)
	}
	return r.items[i].Clone(), nil
}

// Add appends l to the end of the registry.
//
//nolint:gocritic // launcher is copied into the registry
func (r *Registry) Add(l launchers.Launcher) error {
	if err := l.Check(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[l.ID]; ok {
		return fmt.Errorf("%w: %q", launchers.ErrDuplicateID, l.ID)
	}

	next := make([]launchers.Launcher, 0, len(r.items)+1)
	next = append(next, r.items...)
	next = append(next, l.Clone())
	return r.commit(next)
}

func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", launchers.ErrNotFound, id)
	}

	next := slices.Delete(slices.Clone(r.items), i, i+1)
	return r.commit(next)
}

// Update replaces every field of the launcher with the given id except the
// id itself, keeping its position. The launch type can't change.
//
//nolint:gocritic // launcher is copied into the registry
func (r *Registry) Update(id string, l launchers.Launcher) error {
	l.ID = id
	if err := l.Check(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", launchers.ErrNotFound, id)
	}
	if r.items[i].Type != l.Type {
		return fmt.Errorf(
			"%w: launch type of %q can't change from %s to %s",
			launchers.ErrValidation, id, r.items[i].Type, l.Type,
		)
	}

	next := slices.Clone(r.items)
	next[i] = l.Clone()
	return r.commit(next)
}

// Close releases the backing store.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.Close(); err != nil {
		return persistenceErr(err)
	}
	return nil
}

// commit must be called with the write lock held.
func (r *Registry) commit(next []launchers.Launcher) error {
	if err := r.store.Save(next); err != nil {
		log.Error().Err(err).Msg("failed to save launcher registry, change discarded")
		return persistenceErr(err)
	}
	r.swap(next)
	return nil
}

func (r *Registry) swap(next []launchers.Launcher) {
	index := make(map[string]int, len(next))
	for i := range next {
		index[next[i].ID] = i
	}
	r.items = next
	r.index = index
}

func persistenceErr(err error) error {
	if errors.Is(err, launchers.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %v", launchers.ErrPersistence, err)
}
