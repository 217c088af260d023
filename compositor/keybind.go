package compositor

import (
	"github.com/mstarongithub/theinterface/seat"
	"github.com/sirupsen/logrus"
)

// Lock modifiers never change what a binding means
const ignoredMods = seat.ModCaps | seat.ModMod2

// handleKeyBinding runs compositor shortcuts. The held modifiers have to
// match exactly. It returns true when the key was used.
func (c *Compositor) handleKeyBinding(syms []seat.KeySym, mods seat.Modifier) bool {
	mods &^= ignoredMods
	for _, sym := range syms {
		switch mods {
		case seat.ModLogo:
			if sym == seat.KeyEscape {
				c.Terminate()
				return true
			}
		case seat.ModCtrl | seat.ModAlt:
			if vt, ok := vtFor(sym); ok {
				c.switchVT(vt)
				return true
			}
		case seat.ModAlt:
			switch sym {
			case seat.KeyTab, seat.KeyF1:
				c.CycleFocus()
				return true
			case seat.KeyF4:
				c.CloseFront()
				return true
			}
		}
	}
	return false
}

// vtFor maps Ctrl+Alt+Fn, which most keymaps turn into XF86Switch_VT_n, to
// the terminal number
func vtFor(sym seat.KeySym) (int, bool) {
	switch {
	case sym >= seat.KeySwitchVT1 && sym <= seat.KeySwitchVT12:
		return int(sym-seat.KeySwitchVT1) + 1, true
	case sym >= seat.KeyF1 && sym <= seat.KeyF12:
		return int(sym-seat.KeyF1) + 1, true
	}
	return 0, false
}

func (c *Compositor) switchVT(vt int) {
	if err := c.backend.ChangeVT(vt); err != nil {
		c.log.WithError(err).WithField("vt", vt).Warnln("Failed to switch virtual terminal")
	}
}

// CycleFocus focuses the second most recently used view and sends the
// previous front view to the back of the MRU order
func (c *Compositor) CycleFocus() {
	views := c.mappedMRU()
	if len(views) < 2 {
		return
	}
	front := views[0]
	c.Seat.Focus(views[1])
	c.Registry.SendToBack(front)
	c.Layout.DamageWholeView(front)
	c.log.WithFields(logrus.Fields{
		"from": front.ID(),
		"to":   views[1].ID(),
	}).Debugln("Cycled focus")
}

// CloseFront focuses the next view and kills the client of the front one.
// Views without a known client process are asked to close instead.
func (c *Compositor) CloseFront() {
	views := c.mappedMRU()
	if len(views) == 0 {
		return
	}
	front := views[0]
	if len(views) > 1 {
		c.Seat.Focus(views[1])
	}
	if err := c.Procs.Kill(front.Creds.PID); err != nil {
		c.log.WithError(err).WithField("view", front.ID()).Debugln("Not killing client, closing view")
		front.Provider().Close()
	}
}
