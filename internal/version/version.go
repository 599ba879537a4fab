// internal/version/version.go
package version

// Version is set at build time:
// go build -ldflags "-X notionsite/internal/version.Version=v1.0.0".
var Version = "dev"

var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the build metadata for the version command.
func String() string {
	return "notionsite " + Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
