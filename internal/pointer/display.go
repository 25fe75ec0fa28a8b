package pointer

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/stigoleg/auraflow/internal/util"
)

// Display server types.
const (
	DisplayServerWayland = "wayland"
	DisplayServerX11     = "x11"
	DisplayServerUnknown = "unknown"
)

// DisplayServer reports whether the session runs on Wayland or X11. xdotool
// can neither read nor move the pointer over native Wayland windows.
func DisplayServer() string {
	return displayServerFrom(os.Getenv)
}

func displayServerFrom(getenv func(string) string) string {
	if getenv("WAYLAND_DISPLAY") != "" || getenv("XDG_SESSION_TYPE") == DisplayServerWayland {
		return DisplayServerWayland
	}
	if getenv("DISPLAY") != "" || getenv("XDG_SESSION_TYPE") == DisplayServerX11 {
		return DisplayServerX11
	}
	return DisplayServerUnknown
}

// InstallHint returns a shell command that installs xdotool on this Linux
// distribution, or "" when the package manager is unknown.
func InstallHint() string {
	f, err := os.Open("/etc/os-release")
	if err != nil {
		return installHintFor(packageManager("", ""))
	}
	defer f.Close()
	return installHintFor(packageManagerFromOSRelease(f))
}

func packageManagerFromOSRelease(r io.Reader) string {
	var id, idLike string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if v, ok := strings.CutPrefix(line, "ID="); ok {
			id = strings.ToLower(strings.Trim(v, "\""))
		}
		if v, ok := strings.CutPrefix(line, "ID_LIKE="); ok {
			idLike = strings.ToLower(strings.Trim(v, "\""))
		}
	}
	return packageManager(id, idLike)
}

func packageManager(distro, idLike string) string {
	switch {
	case distro == "debian" || distro == "ubuntu" || distro == "pop" ||
		strings.Contains(idLike, "debian") || strings.Contains(idLike, "ubuntu"):
		return "apt"
	case distro == "fedora" || distro == "rhel" || distro == "centos" ||
		strings.Contains(idLike, "fedora") || strings.Contains(idLike, "rhel"):
		if util.HasCommand("dnf") {
			return "dnf"
		}
		return "yum"
	case distro == "arch" || distro == "manjaro" || strings.Contains(idLike, "arch"):
		return "pacman"
	case strings.HasPrefix(distro, "opensuse") || strings.Contains(idLike, "suse"):
		return "zypper"
	case distro == "alpine":
		return "apk"
	}

	for _, m := range []string{"apt", "dnf", "yum", "pacman", "zypper", "apk"} {
		if util.HasCommand(m) {
			return m
		}
	}
	return ""
}

func installHintFor(manager string) string {
	switch manager {
	case "apt", "dnf", "yum":
		return "sudo " + manager + " install -y xdotool"
	case "pacman":
		return "sudo pacman -S xdotool"
	case "zypper":
		return "sudo zypper install xdotool"
	case "apk":
		return "sudo apk add xdotool"
	default:
		return ""
	}
}
