// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"
)

type StartType int

const (
	// Tells theinterface to start a repl in parallel for interacting with it
	START_REPL = StartType(iota)
	// Tells theinterface to execute a specific command on startup
	START_SINGLE_COMMAND
	// Tells theinterface to start without any specific targets
	START_NONE
)

// Where the config is looked up under the xdg config dirs
const RelativePath = "theinterface/config.toml"

type Keyboard struct {
	// Key repeats per second
	RepeatRate int32 `toml:"repeat_rate"`
	// Delay before repeating starts, in milliseconds
	RepeatDelay int32 `toml:"repeat_delay"`
}

type Cursor struct {
	Theme string `toml:"theme"`
	Size  uint32 `toml:"size"`
}

// Output overrides the defaults for one output, matched by name
type Output struct {
	Name      string  `toml:"name"`
	Scale     float64 `toml:"scale"`
	Transform int     `toml:"transform"`
}

type Decorations struct {
	BorderWidth    int       `toml:"border_width"`
	TitlebarHeight int       `toml:"titlebar_height"`
	Color          []float64 `toml:"color"`
	FocusedColor   []float64 `toml:"focused_color"`
}

type XWayland struct {
	Disabled bool `toml:"disabled"`
	// X display to manage windows on, nothing is managed while empty
	Display string `toml:"display"`
}

type Config struct {
	StartType StartType `toml:"start_type,omitempty"`
	// What command to execute on start. Only matters if StartType is set to START_SINGLE_COMMAND
	StartCommand *string `toml:"start_command,omitempty"`
	LogLevel     string  `toml:"log_level"`

	Background  []float64   `toml:"background"`
	Keyboard    Keyboard    `toml:"keyboard"`
	Cursor      Cursor      `toml:"cursor"`
	Outputs     []Output    `toml:"outputs"`
	Decorations Decorations `toml:"decorations"`
	XWayland    XWayland    `toml:"xwayland"`
}

func Default() *Config {
	return &Config{
		StartType:  START_REPL,
		LogLevel:   "info",
		Background: []float64{0.25, 0.25, 0.25, 1},
		Keyboard: Keyboard{
			RepeatRate:  25,
			RepeatDelay: 600,
		},
		Cursor: Cursor{Size: 24},
		Decorations: Decorations{
			BorderWidth:    4,
			TitlebarHeight: 12,
			Color:          []float64{0.4, 0.4, 0.4, 1},
			FocusedColor:   []float64{0.9, 0.5, 0.7, 1},
		},
	}
}

// fillDefaults sets every field the config file left out
func (c *Config) fillDefaults() {
	def := Default()
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Background == nil {
		c.Background = def.Background
	}
	if c.Keyboard.RepeatRate == 0 {
		c.Keyboard.RepeatRate = def.Keyboard.RepeatRate
	}
	if c.Keyboard.RepeatDelay == 0 {
		c.Keyboard.RepeatDelay = def.Keyboard.RepeatDelay
	}
	if c.Cursor.Size == 0 {
		c.Cursor.Size = def.Cursor.Size
	}
	if c.Decorations.BorderWidth == 0 {
		c.Decorations.BorderWidth = def.Decorations.BorderWidth
	}
	if c.Decorations.TitlebarHeight == 0 {
		c.Decorations.TitlebarHeight = def.Decorations.TitlebarHeight
	}
	if c.Decorations.Color == nil {
		c.Decorations.Color = def.Decorations.Color
	}
	if c.Decorations.FocusedColor == nil {
		c.Decorations.FocusedColor = def.Decorations.FocusedColor
	}
	for i := range c.Outputs {
		if c.Outputs[i].Scale == 0 {
			c.Outputs[i].Scale = 1
		}
	}
}

// DefaultPath finds the config file in the xdg config dirs
func DefaultPath() (string, error) {
	return xdg.SearchConfigFile(RelativePath)
}

// Load reads the config at path. An empty path searches the xdg config dirs
// and falls back to the defaults when nothing is found there.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := DefaultPath()
		if err != nil {
			logrus.WithField("path", RelativePath).Debugln("No config file found, using defaults")
			return Default(), nil
		}
		path = found
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	conf := &Config{}
	if err = toml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	conf.fillDefaults()
	if err = conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	logrus.WithField("path", path).Debugln("Loaded config")
	return conf, nil
}

func validColor(c []float64) bool {
	if len(c) != 4 {
		return false
	}
	for _, v := range c {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

func (c *Config) Validate() error {
	var errs []error
	switch c.StartType {
	case START_REPL, START_NONE:
	case START_SINGLE_COMMAND:
		if c.StartCommand == nil || *c.StartCommand == "" {
			errs = append(errs, errors.New("start_type 1 needs a start_command"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown start_type %d", c.StartType))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if !validColor(c.Background) {
		errs = append(errs, errors.New("background must be 4 values between 0 and 1"))
	}
	if !validColor(c.Decorations.Color) || !validColor(c.Decorations.FocusedColor) {
		errs = append(errs, errors.New("decoration colors must be 4 values between 0 and 1"))
	}
	if c.Decorations.BorderWidth < 0 || c.Decorations.TitlebarHeight < 0 {
		errs = append(errs, errors.New("decoration sizes must not be negative"))
	}
	if c.Keyboard.RepeatRate < 0 || c.Keyboard.RepeatDelay < 0 {
		errs = append(errs, errors.New("keyboard repeat settings must not be negative"))
	}
	for _, o := range c.Outputs {
		if o.Name == "" {
			errs = append(errs, errors.New("output without name"))
		}
		if o.Scale < 0 {
			errs = append(errs, fmt.Errorf("output %s: negative scale", o.Name))
		}
		if o.Transform < 0 || o.Transform > 7 {
			errs = append(errs, fmt.Errorf("output %s: transform %d out of range", o.Name, o.Transform))
		}
	}
	return errors.Join(errs...)
}

// OutputFor returns the overrides for the named output
func (c *Config) OutputFor(name string) (Output, bool) {
	for _, o := range c.Outputs {
		if o.Name == name {
			return o, true
		}
	}
	return Output{Name: name, Scale: 1}, false
}

// Level is the configured log level, info if unparsable
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Color4 converts a validated color slice
func Color4(c []float64) [4]float32 {
	var out [4]float32
	for i := 0; i < 4 && i < len(c); i++ {
		out[i] = float32(c[i])
	}
	return out
}
