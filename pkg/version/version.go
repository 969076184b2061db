// Package version holds the tg version string, overridable at build time
// via -ldflags "-X github.com/vanderheijden86/taskgrove/pkg/version.Version=...".
package version

// Version is the current tg version.
var Version = "0.3.0"
