package compositor

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const NoHardwareCursorsEnv = "WLR_NO_HARDWARE_CURSORS"

// DRM drivers known to lack working cursor planes
var driversWithoutHardwareCursors = []string{
	// used by both virtualbox and vmware
	"vmwgfx",
}

// bootGPUDriver returns the kernel driver of the boot VGA card under sysfs
func bootGPUDriver(sysfs string) (string, bool) {
	cards, _ := filepath.Glob(filepath.Join(sysfs, "class", "drm", "card[0-9]*"))
	for _, card := range cards {
		bootVGA, err := os.ReadFile(filepath.Join(card, "device", "boot_vga"))
		if err != nil || !bytes.Equal(bytes.TrimSpace(bootVGA), []byte("1")) {
			continue
		}
		driver, err := filepath.EvalSymlinks(filepath.Join(card, "device", "driver"))
		if err != nil {
			continue
		}
		return filepath.Base(driver), true
	}
	return "", false
}

// ProbeHardwareCursors turns hardware cursors off when the boot GPU driver
// is known to not support them, unless the user already decided through
// WLR_NO_HARDWARE_CURSORS. It reports whether it set the variable.
func ProbeHardwareCursors(sysfs string) bool {
	if _, set := os.LookupEnv(NoHardwareCursorsEnv); set {
		return false
	}
	driver, ok := bootGPUDriver(sysfs)
	if !ok {
		return false
	}
	for _, bad := range driversWithoutHardwareCursors {
		if driver == bad {
			logrus.WithField("driver", driver).Infoln("Possible lack of hardware cursor support, falling back to software cursors")
			os.Setenv(NoHardwareCursorsEnv, "1")
			return true
		}
	}
	return false
}
