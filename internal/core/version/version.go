// Package version reports the build identity of the bot binaries
package version

// BuildInfo holds version information about the build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information for the named binary.
// version, commit and date are set with -ldflags, e.g.
// -X 'toxicbot/internal/core/version.version=v0.3.0'
func Info(service string) BuildInfo {
	if service == "" {
		service = Service
	}
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// Service is the default service name
const Service = "toxicbot"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
