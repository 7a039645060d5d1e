package buildinfo

// Set at link time, for example:
//
//	-X 'github.com/m3rciful/quizbot/core/buildinfo.Version=v0.3.0'
//	-X 'github.com/m3rciful/quizbot/core/buildinfo.Commit=1f0c2ab'
//	-X 'github.com/m3rciful/quizbot/core/buildinfo.Date=2026-10-16T09:00:00Z'
var (
	// Version is the release tag of the binary.
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = "local"
	// Date is the RFC3339 build timestamp; empty for local builds.
	Date = ""
)

// String renders the build identity for version output.
func String() string {
	s := Version + " (" + Commit
	if Date != "" {
		s += ", " + Date
	}
	return s + ")"
}
