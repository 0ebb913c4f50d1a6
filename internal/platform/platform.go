// Package platform holds the path conventions of the platforms a generated
// configuration can target. Platform tags are the display names used by the
// schema's platform selector ("Linux", "Mac OS", "Windows").
package platform

import (
	"runtime"
	"strings"
)

// Known platform tags.
const (
	Linux   = "Linux"
	MacOS   = "Mac OS"
	Windows = "Windows"
)

// LocalToken is the placeholder LocalPath resolves to. Path fields substitute
// it with the base path afterwards.
const LocalToken = "$BASE"

// Detect returns the platform tag of the running host.
func Detect() string {
	switch runtime.GOOS {
	case "darwin":
		return MacOS
	case "windows":
		return Windows
	default:
		return Linux
	}
}

// Separator returns the path separator used by the platform.
func Separator(platform string) string {
	if platform == Windows {
		return `\`
	}
	return "/"
}

// JoinPath joins segments with the platform's separator. Segments are joined
// verbatim; empty segments are kept so "a//b" survives a split/join round trip.
func JoinPath(segments []string, platform string) string {
	return strings.Join(segments, Separator(platform))
}

// LocalPath returns the token representing the resolved local base directory.
func LocalPath(_ string) string {
	return LocalToken
}

// BasePath returns the default data directory of app on the platform: the
// Library path on Mac OS and ~/.<app> everywhere else.
func BasePath(platform, app string) string {
	if platform == MacOS {
		return JoinPath([]string{"$HOME", "Library", "Application Support", app}, platform)
	}
	return JoinPath([]string{"~", "." + app}, platform)
}
