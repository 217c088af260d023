package compositor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/repl"
	"github.com/mstarongithub/theinterface/util"
	"gopkg.in/yaml.v3"
)

// onLoop runs fn on the compositor thread. The thread only looks at its
// inbox between frames, so an idle compositor can time out here. A timed
// out fn is dropped and never runs.
func (c *Compositor) onLoop(timeout time.Duration, fn func()) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := c.Loop.Call(ctx, fn); err != nil {
		return fmt.Errorf("compositor did not respond: %w", err)
	}
	return nil
}

// withView looks up the view named by the first argument on the compositor
// thread and runs fn on it there
func (c *Compositor) withView(timeout time.Duration, args []string, fn func(v *desktop.View)) error {
	var id string
	if util.Unpack(args, &id) == 0 {
		return errors.New("missing view id")
	}
	var lookupErr error
	err := c.onLoop(timeout, func() {
		v, err := c.ViewByUUID(id)
		if err != nil {
			lookupErr = err
			return
		}
		fn(v)
	})
	return errors.Join(err, lookupErr)
}

// Commands is what the interactive console can do with this compositor.
// Every command waits at most timeout for the compositor thread.
func (c *Compositor) Commands(timeout time.Duration) []repl.Command {
	return []repl.Command{
		{
			Name:  "inspect",
			Usage: "inspect [views|outputs|seat]",
			Run: func(args []string) (string, error) {
				var target string
				util.Unpack(args, &target)
				var snapshot any
				err := c.onLoop(timeout, func() {
					state := c.Snapshot()
					switch target {
					case "views":
						snapshot = state.Views
					case "outputs":
						snapshot = state.Outputs
					case "seat":
						snapshot = state.Seat
					default:
						snapshot = state
					}
				})
				if err != nil {
					return "", err
				}
				out, err := yaml.Marshal(snapshot)
				if err != nil {
					return "", err
				}
				return strings.TrimRight(string(out), "\n"), nil
			},
		},
		{
			Name:  "focus",
			Usage: "focus <view id>",
			Run: func(args []string) (string, error) {
				err := c.withView(timeout, args, func(v *desktop.View) {
					c.Seat.Focus(v)
				})
				if err != nil {
					return "", err
				}
				return "Focused " + args[0], nil
			},
		},
		{
			Name:  "close",
			Usage: "close <view id>",
			Run: func(args []string) (string, error) {
				err := c.withView(timeout, args, func(v *desktop.View) {
					v.Provider().Close()
				})
				if err != nil {
					return "", err
				}
				return "Asked " + args[0] + " to close", nil
			},
		},
		{
			Name:  "kill",
			Usage: "kill <view id>",
			Run: func(args []string) (string, error) {
				var killErr error
				err := c.withView(timeout, args, func(v *desktop.View) {
					killErr = c.Procs.Kill(v.Creds.PID)
				})
				if err = errors.Join(err, killErr); err != nil {
					return "", err
				}
				return "Killed the client of " + args[0], nil
			},
		},
		{
			Name:  "run",
			Usage: "run <shell command>",
			Run: func(args []string) (string, error) {
				child, err := c.Procs.Spawn(strings.Join(args, " "))
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Running %s as %d", args[0], child.Cmd.Process.Pid), nil
			},
		},
		{
			Name:  "quit",
			Usage: "quit",
			Run: func([]string) (string, error) {
				c.Terminate()
				return "Quitting", repl.ErrQuit
			},
		},
	}
}
