package platform

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// Well known platform identifiers used as manifest keys
const (
	Fedora = "fedora"
	Ubuntu = "ubuntu"
	Debian = "debian"
	Arch   = "arch"
	MacOS  = "macos"

	// Linux matches every Linux distribution
	Linux = "linux"
)

// Platform represents the detected system platform
type Platform struct {
	OS      string   // linux, darwin
	ID      string   // normalized distribution id: fedora, ubuntu, arch, macos...
	Like    []string // normalized ID_LIKE entries, closest first
	Version string   // VERSION_ID or the macOS product version when known
	Arch    string   // GOARCH: amd64, arm64
}

// aliases folds the many spellings of an id onto manifest keys
var aliases = map[string]string{
	"darwin":    MacOS,
	"mac":       MacOS,
	"osx":       MacOS,
	"macosx":    MacOS,
	"archlinux": Arch,
	"arch":      Arch,
}

// families lists the parents of distributions whose os-release omits ID_LIKE
// or spells it in a way manifests do not use
var families = map[string][]string{
	"rhel":        {Fedora},
	"centos":      {"rhel", Fedora},
	"rocky":       {"rhel", Fedora},
	"almalinux":   {"rhel", Fedora},
	"manjaro":     {Arch},
	"endeavouros": {Arch},
	"pop":         {Ubuntu, Debian},
	"linuxmint":   {Ubuntu, Debian},
	"ubuntu":      {Debian},
}

var defaultMethods = map[string]types.Method{
	Fedora: types.MethodDnf,
	"rhel": types.MethodDnf,
	Debian: types.MethodApt,
	Ubuntu: types.MethodApt,
	Arch:   types.MethodPacman,
	MacOS:  types.MethodBrew,
}

// Normalize maps an identifier to the spelling manifests use
func Normalize(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if alias, ok := aliases[id]; ok {
		return alias
	}
	return id
}

// Known reports whether id names a platform this tool can detect or a
// family one of them belongs to. Manifests may still use other ids.
func Known(id string) bool {
	id = Normalize(id)
	if id == Linux {
		return true
	}
	if _, ok := defaultMethods[id]; ok {
		return true
	}
	if _, ok := families[id]; ok {
		return true
	}
	for _, parents := range families {
		for _, parent := range parents {
			if parent == id {
				return true
			}
		}
	}
	return false
}

// Detect inspects the running machine
func Detect() (Platform, error) {
	logger := logging.GetLogger("platform")

	var osRelease io.Reader
	if runtime.GOOS == "linux" {
		f, err := os.Open(OSReleasePath)
		if err != nil {
			return Platform{}, errors.Wrapf(err, errors.ErrPlatformUnknown,
				"cannot read %s", OSReleasePath)
		}
		defer func() {
			_ = f.Close()
		}()
		osRelease = f
	}

	p, err := DetectFrom(runtime.GOOS, runtime.GOARCH, osRelease)
	if err != nil {
		return Platform{}, err
	}

	logger.Debug().
		Str("os", p.OS).
		Str("id", p.ID).
		Strs("like", p.Like).
		Str("version", p.Version).
		Str("arch", p.Arch).
		Msg("Detected platform")

	return p, nil
}

// DetectFrom builds a Platform from explicit inputs; osRelease is only read on linux
func DetectFrom(goos, goarch string, osRelease io.Reader) (Platform, error) {
	p := Platform{OS: goos, Arch: goarch}

	switch goos {
	case "darwin":
		p.ID = MacOS
	case "linux":
		if osRelease == nil {
			return Platform{}, errors.New(errors.ErrPlatformUnknown, "no os-release information available")
		}
		values, err := ParseOSRelease(osRelease)
		if err != nil {
			return Platform{}, errors.Wrap(err, errors.ErrPlatformUnknown, "failed to parse os-release")
		}
		p.ID = Normalize(values["ID"])
		if p.ID == "" {
			return Platform{}, errors.New(errors.ErrPlatformUnknown, "os-release has no ID")
		}
		p.Version = values["VERSION_ID"]
		for _, like := range strings.Fields(values["ID_LIKE"]) {
			p.Like = appendUnique(p.Like, Normalize(like))
		}
	default:
		return Platform{}, errors.Newf(errors.ErrPlatformUnknown, "unsupported operating system: %s", goos)
	}

	for _, parent := range families[p.ID] {
		p.Like = appendUnique(p.Like, parent)
	}

	return p, nil
}

// Parse builds a Platform from a name given on the command line, e.g. "ubuntu"
func Parse(name string) (Platform, error) {
	id := Normalize(name)
	if id == "" {
		return Platform{}, errors.New(errors.ErrPlatformUnknown, "empty platform name")
	}
	if id == Linux {
		return Platform{}, errors.New(errors.ErrPlatformUnknown,
			"'linux' is not a distribution; use fedora, ubuntu, debian, arch or macos")
	}

	p := Platform{ID: id, Arch: runtime.GOARCH, OS: "linux"}
	if id == MacOS {
		p.OS = "darwin"
	}
	for _, parent := range families[id] {
		p.Like = appendUnique(p.Like, parent)
	}
	return p, nil
}

// Candidates returns the manifest keys that apply to this platform, most specific first
func (p Platform) Candidates() []string {
	out := []string{p.ID}
	for _, like := range p.Like {
		out = appendUnique(out, like)
	}
	if p.OS == "linux" {
		out = appendUnique(out, Linux)
	}
	return out
}

// DefaultMethod returns the package manager used when a manifest names no method
func (p Platform) DefaultMethod() (types.Method, bool) {
	for _, c := range p.Candidates() {
		if m, ok := defaultMethods[c]; ok {
			return m, true
		}
	}
	return "", false
}

// IsLinux reports whether the platform is a Linux distribution
func (p Platform) IsLinux() bool {
	return p.OS == "linux"
}

// ArchAlias returns the uname-style architecture (x86_64, aarch64) used in release asset names
func (p Platform) ArchAlias() string {
	switch p.Arch {
	case "amd64":
		return "x86_64"
	case "arm64":
		if p.OS == "darwin" {
			return "arm64"
		}
		return "aarch64"
	case "386":
		return "i686"
	}
	return p.Arch
}

// String returns a string representation of the platform
func (p Platform) String() string {
	if p.Version != "" {
		return fmt.Sprintf("%s %s (%s)", p.ID, p.Version, p.Arch)
	}
	return fmt.Sprintf("%s (%s)", p.ID, p.Arch)
}

func appendUnique(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
