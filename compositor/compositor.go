// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package compositor owns every part of a running compositor and connects
// them. Backends feed it client and device events, it keeps the view
// registry, the seat, the outputs and the layer surfaces consistent.
package compositor

import (
	"slices"

	"github.com/mstarongithub/theinterface/config"
	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/layer"
	"github.com/mstarongithub/theinterface/output"
	"github.com/mstarongithub/theinterface/seat"
	"github.com/sirupsen/logrus"
)

// Backend is the part of the display server the compositor steers directly
type Backend interface {
	// Terminate makes the display event loop return
	Terminate()
	// ChangeVT switches to virtual terminal vt
	ChangeVT(vt int) error
}

type Compositor struct {
	Config   *config.Config
	Registry *desktop.Registry
	Layout   *output.Layout
	Seat     *seat.Seat
	Layers   *layer.Shell
	Loop     *Loop
	Procs    *Processes

	renderer output.Renderer
	backend  Backend
	// stack is the mapped MRU order last pushed to the providers
	stack []desktop.ID
	log   *logrus.Entry
}

// New builds a compositor around the given backend pieces. A nil config
// means defaults.
func New(conf *config.Config, backend Backend, notifier seat.Notifier, renderer output.Renderer) *Compositor {
	if conf == nil {
		conf = config.Default()
	}
	c := &Compositor{
		Config:   conf,
		Registry: desktop.NewRegistry(),
		Layout:   output.NewLayout(),
		Loop:     NewLoop(64),
		Procs:    NewProcesses(),
		renderer: renderer,
		backend:  backend,
		log:      logrus.WithField("component", "compositor"),
	}
	c.Seat = seat.New("seat0", c.Registry, notifier, c.Layout)
	c.Layers = layer.NewShell(c.Layout, c.Layout, c.Seat)
	c.Seat.SetLayers(c.Layers)
	c.Seat.SetBindings(c.handleKeyBinding)
	return c
}

// Terminate asks the backend to stop the display
func (c *Compositor) Terminate() {
	c.log.Infoln("Terminating")
	c.backend.Terminate()
}

// Close releases everything the compositor holds. The views themselves are
// owned by their providers.
func (c *Compositor) Close() {
	c.Seat.Close()
	c.Loop.Close()
}

func (c *Compositor) decoColors() (output.Color, output.Color) {
	return output.Color(config.Color4(c.Config.Decorations.Color)),
		output.Color(config.Color4(c.Config.Decorations.FocusedColor))
}

// mappedMRU returns the mapped views, most recently used first
func (c *Compositor) mappedMRU() []*desktop.View {
	var views []*desktop.View
	for _, v := range c.Registry.MRU() {
		if v.Mapped() {
			views = append(views, v)
		}
	}
	return views
}

// restack pushes the MRU order to providers that keep their own stacking,
// back to front, whenever it changed since the last call
func (c *Compositor) restack() {
	views := c.mappedMRU()
	ids := make([]desktop.ID, len(views))
	for i, v := range views {
		ids[i] = v.ID()
	}
	if slices.Equal(ids, c.stack) {
		return
	}
	c.stack = ids
	for i := len(views) - 1; i >= 0; i-- {
		if r, ok := views[i].Provider().(desktop.Raiser); ok {
			r.Raise()
		}
	}
}
