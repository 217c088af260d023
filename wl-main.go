package main

import (
	"os"

	"github.com/mstarongithub/theinterface/compositor"
	"github.com/mstarongithub/theinterface/config"
	"github.com/mstarongithub/theinterface/xwm"
	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
)

var _ xwm.Host = (*compositor.Compositor)(nil)

func bridgeWlrootsLog() {
	log := logrus.WithField("component", "libwlroots")
	wlroots.OnLog(wlroots.LogImportanceDebug, func(importance wlroots.LogImportance, msg string) {
		switch importance {
		case wlroots.LogImportanceDebug:
			log.Debugln(msg)
		case wlroots.LogImportanceInfo:
			log.Infoln(msg)
		case wlroots.LogImportanceError:
			log.Errorln(msg)
		case wlroots.LogImportanceSilent:
			return
		}
	})
}

// startXWM manages the windows of an X server running next to the
// compositor. The X connection lives on its own goroutine and hands every
// event to the compositor loop.
func startXWM(conf *config.Config, comp *compositor.Compositor) {
	if conf.XWayland.Disabled || conf.XWayland.Display == "" {
		return
	}
	log := logrus.WithFields(logrus.Fields{
		"component": "xwm",
		"display":   conf.XWayland.Display,
	})
	conn, err := xwm.Dial(conf.XWayland.Display)
	if err != nil {
		log.WithError(err).Warnln("No X server to manage")
		return
	}
	if err = conn.BecomeManager("theinterface"); err != nil {
		log.WithError(err).Warnln("Another window manager is running")
		conn.Disconnect()
		return
	}
	m := xwm.NewManager(conn, comp)
	if err = conn.Events(m, comp.Loop.Post); err != nil {
		log.WithError(err).Warnln("Failed to listen for X events")
		conn.Disconnect()
		return
	}
	_ = comp.Loop.Post(func() {
		defer compositor.Guard(log, "adopt")
		if err := m.Adopt(); err != nil {
			log.WithError(err).Warnln("Failed to adopt existing windows")
		}
	})
	go conn.Main()
	log.Infoln("Managing X windows")
}

func wlMain(conf *config.Config) {
	bridgeWlrootsLog()

	// must happen before the backend picks cursor planes
	compositor.ProbeHardwareCursors("/sys")
	hwCursors := os.Getenv(compositor.NoHardwareCursorsEnv) != "1"

	server, err := NewServer(conf, hwCursors)
	if err != nil {
		logrus.WithError(err).Fatalln("Failed to initialize server")
	}
	if err = server.Start(); err != nil {
		logrus.WithError(err).Fatalln("Failed to start server")
	}

	switch conf.StartType {
	case config.START_SINGLE_COMMAND:
		if conf.StartCommand == nil {
			break
		}
		if _, err := server.comp.Procs.Spawn(*conf.StartCommand); err != nil {
			logrus.WithError(err).Errorln("Startup command failed")
		}
	case config.START_REPL:
		go replRunner(server.comp)
	}

	startXWM(conf, server.comp)

	if err = server.Run(); err != nil {
		logrus.WithError(err).Fatalln("Failed to run server")
	}
}
