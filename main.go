// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package main

import (
	"os"

	"github.com/mstarongithub/theinterface/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	debug        bool
	startCommand string
	withRepl     bool
)

func loadConfig() *config.Config {
	conf, err := config.Load(configPath)
	if err != nil {
		logrus.WithError(err).Fatalln("Failed to load config")
	}
	logrus.SetLevel(conf.Level())
	if debug || os.Getenv("DEBUG") != "" {
		logrus.SetLevel(logrus.DebugLevel)
	}
	return conf
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "theinterface",
		Short: "A stacking Wayland compositor",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			conf := loadConfig()
			if cmd.Flags().Changed("startup") {
				conf.StartType = config.START_SINGLE_COMMAND
				conf.StartCommand = &startCommand
			}
			if withRepl {
				conf.StartType = config.START_REPL
			}
			wlMain(conf)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file, searched in the xdg config dirs if empty")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug messages, same as setting DEBUG")
	root.Flags().StringVarP(&startCommand, "startup", "s", "", "Command to run once the compositor is up")
	root.Flags().BoolVar(&withRepl, "repl", false, "Read commands from the terminal while running")

	root.AddCommand(toolCommand())
	return root
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
