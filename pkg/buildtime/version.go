package buildtime

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// revision is replaced with the git commit hash when the release is built.
//
//go:embed revision
var revision string

func init() {
	version = strings.TrimSpace(version)
	revision = strings.TrimSpace(revision)
}

// version of mycelium, reported by /health.
func VERSION() string {
	return version
}

func GIT_REVISION() string {
	return revision
}

func VersionString() string {
	return version + " (commit: " + revision + ")"
}
