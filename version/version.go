// Package version holds the build identifier injected at link time via
// `-ldflags -X`.
package version

// GitVersion is overwritten at build time via
// `-ldflags "-X github.com/tilecraft/rummisolve/version.GitVersion=..."`.
// It defaults to "dev" so unlinked builds (go test, go run) still work.
var GitVersion = "dev"

// ShortRevision returns the build identifier, falling back to "dev" if
// it was never set long enough to be a real revision (at least 7
// characters, the shortest git abbreviates to).
func ShortRevision() string {
	if len(GitVersion) < 7 {
		return "dev"
	}
	return GitVersion
}
