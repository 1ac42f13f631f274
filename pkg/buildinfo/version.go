// Package buildinfo carries version metadata stamped at link time:
//
//	go build -ldflags "-X github.com/matzehuels/visualizeme/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/visualizeme/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/visualizeme/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

// Overridden with -ldflags "-X".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build metadata reported by the server's health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current returns the stamped build metadata.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Template is the cobra version template, e.g.
// "visualizeme v0.3.0 (1a2b3c4, built 2025-01-02T03:04:05Z)".
func Template() string {
	return "{{.Name}} " + Version + " (" + shortCommit(Commit) + ", built " + Date + ")\n"
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
