// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package desktop keeps track of every client window (view), the order they
// are stacked in and the order they were last used in.
package desktop

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mstarongithub/theinterface/geom"
)

// ID is a weak handle to a view. It stops resolving once the view is removed,
// even if its slot gets reused.
type ID struct {
	index uint32
	gen   uint32
}

// Valid reports whether the handle was ever issued. It says nothing about
// whether the view is still alive, use Registry.Lookup for that.
func (id ID) Valid() bool {
	return id.gen != 0
}

func (id ID) String() string {
	if !id.Valid() {
		return "view(nil)"
	}
	return fmt.Sprintf("view(%d/%d)", id.index, id.gen)
}

// Credentials of the client that owns a view. Zero when unknown.
type Credentials struct {
	PID int `yaml:"pid"`
	UID int `yaml:"uid"`
	GID int `yaml:"gid"`
}

type View struct {
	id       ID
	UUID     uuid.UUID
	provider Provider

	// Box is in layout coordinates
	Box      geom.Box
	Rotation float64
	Alpha    float32

	Decorated      bool
	BorderWidth    int
	TitlebarHeight int

	Creds Credentials

	mapped     bool
	everMapped bool

	registry *Registry
}

func (v *View) ID() ID {
	return v.id
}

func (v *View) Provider() Provider {
	return v.provider
}

func (v *View) Kind() Kind {
	return v.provider.Kind()
}

func (v *View) Mapped() bool {
	return v.mapped
}

// EverMapped turns true on the first map and stays true
func (v *View) EverMapped() bool {
	return v.everMapped
}

func (v *View) Title() string {
	return v.provider.Title()
}

// Registry returns the registry the view lives in, or nil once removed
func (v *View) Registry() *Registry {
	return v.registry
}

// DecoBox is the view box grown by its border and titlebar, if decorated
func (v *View) DecoBox() geom.Box {
	if !v.Decorated {
		return v.Box
	}
	return geom.Box{
		X:      v.Box.X - v.BorderWidth,
		Y:      v.Box.Y - v.BorderWidth - v.TitlebarHeight,
		Width:  v.Box.Width + 2*v.BorderWidth,
		Height: v.Box.Height + 2*v.BorderWidth + v.TitlebarHeight,
	}
}

// Owns reports whether s is one of the surfaces of this view
func (v *View) Owns(s Surface) bool {
	if s == nil {
		return false
	}
	if v.provider.Surface() == s {
		return true
	}
	found := false
	v.provider.ForEachSurface(func(sub SubSurface) {
		if sub.Surface == s {
			found = true
		}
	})
	return found
}

func (v *View) String() string {
	return fmt.Sprintf("%s %s %q %v", v.id, v.provider.Kind(), v.provider.Title(), v.Box)
}
