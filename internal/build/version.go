package build

import "fmt"

// Name is the program name used in banners and the default User-Agent.
const Name = "lobo"

// Set at link time with -ldflags "-X github.com/rohmanhakim/lobo/internal/build.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// FullVersion returns the version string with commit hash appended.
// Format: "Version+Commit" (e.g., "1.0.0+abc123")
func FullVersion() string {
	return Version + "+" + Commit
}

// UserAgent is sent with every sensor request unless overridden.
func UserAgent() string {
	return Name + "/" + FullVersion()
}

// Banner is the one-line output of the version command.
func Banner() string {
	return fmt.Sprintf("%s %s (built %s)", Name, FullVersion(), BuildTime)
}
