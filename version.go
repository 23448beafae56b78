package pagetl

// Version information for pagetl.
// Build info can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/pagetl.GitCommit=$(git rev-parse HEAD)"
const (
	// Name is the application name.
	Name = "pagetl"

	// Description is a short description of the application.
	Description = "Click-to-translate for live HTML pages"

	// Version is the semantic version of the application.
	Version = "0.2.0"

	// Repository is the source code repository URL.
	Repository = "https://github.com/ZaguanLabs/pagetl"
)

// Build-time information, set via ldflags.
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns the version string with the short commit appended.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns a user agent string for HTTP requests.
func UserAgent() string {
	return Name + "/" + Version
}
