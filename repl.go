package main

import (
	"os"
	"time"

	"github.com/mstarongithub/theinterface/compositor"
	"github.com/mstarongithub/theinterface/repl"
	"github.com/mstarongithub/theinterface/util/wrappers"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// How long a repl command waits for the compositor thread
const replTimeout = 2 * time.Second

func replRunner(comp *compositor.Compositor) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		logrus.Debugln("Stdin is not a terminal, not starting repl")
		return
	}
	// Give repl some wrappers around stdin and stdout so that it closes those instead of stdin & stdout themselves
	commandRepl := repl.NewRepl(
		wrappers.NewReaderWrapper(os.Stdin),
		wrappers.NewWriterWrapper(os.Stdout),
		comp.Commands(replTimeout)...,
	)
	logrus.Debugln("Starting repl")
	if err := commandRepl.Run(); err != nil {
		logrus.WithError(err).Warnln("Repl stopped")
	}
}
