// Package version holds build information for repox.
// Values are overridden at build time:
//
//	go build -ldflags "-X repox/internal/version.Version=1.0.0 -X repox/internal/version.Commit=abc123"
package version

// Name is the server name reported to MCP clients.
const Name = "repox"

var (
	Version   = "0.3.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns the version, with a short commit suffix when the commit is known.
func Info() string {
	if Commit == "unknown" || len(Commit) <= 7 {
		return Version
	}
	return Version + " (" + Commit[:7] + ")"
}

// Full returns the multi-line version banner printed by `repox version`.
func Full() string {
	return Name + " version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}
