package seat

import "github.com/sirupsen/logrus"

// KeySym is an XKB keysym
type KeySym uint32

const (
	KeyTab        KeySym = 0xff09
	KeyEscape     KeySym = 0xff1b
	KeyF1         KeySym = 0xffbe
	KeyF4         KeySym = 0xffc1
	KeyF12        KeySym = 0xffc9
	KeySwitchVT1  KeySym = 0x1008fe01
	KeySwitchVT12 KeySym = 0x1008fe0c
)

// Modifier is a mask of the wlroots keyboard modifiers
type Modifier uint32

const (
	ModShift Modifier = 1 << iota
	ModCaps
	ModCtrl
	ModAlt
	ModMod2
	ModMod3
	ModLogo
	ModMod5
)

// Has reports whether every modifier of want is held
func (m Modifier) Has(want Modifier) bool {
	return m&want == want
}

// AddKeyboard registers a hot-plugged keyboard and advertises the keyboard
// capability
func (s *Seat) AddKeyboard(kb Keyboard) {
	s.keyboards = append(s.keyboards, kb)
	s.log.WithFields(logrus.Fields{
		"keyboard": kb.Name(),
		"count":    len(s.keyboards),
	}).Debugln("Keyboard added")
	s.notifier.SetCapabilities(true, true)
}

// RemoveKeyboard forgets an unplugged keyboard
func (s *Seat) RemoveKeyboard(kb Keyboard) {
	for i, existing := range s.keyboards {
		if existing == kb {
			s.keyboards = append(s.keyboards[:i], s.keyboards[i+1:]...)
			break
		}
	}
	s.notifier.SetCapabilities(true, len(s.keyboards) > 0)
}

// RouteKey offers a key press to the bindings first and forwards it to the
// focused client otherwise
func (s *Seat) RouteKey(kb Keyboard, time, keycode uint32, syms []KeySym, mods Modifier, state KeyState) {
	if state == KeyPressed && s.bindings != nil && s.bindings(syms, mods) {
		return
	}
	s.notifier.KeyboardKey(kb, time, keycode, state)
}

func (s *Seat) RouteModifiers(kb Keyboard) {
	s.notifier.KeyboardModifiers(kb)
}
