package version

import "fmt"

var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GoVersion = "unknown"
)

func SetInfo(v, bt, gc, gv string) {
	if v != "" {
		Version = v
	}
	if bt != "" {
		BuildTime = bt
	}
	if gc != "" {
		GitCommit = gc
	}
	if gv != "" {
		GoVersion = gv
	}
}

// String is the one-line form used by `nextrun version --short`.
func String() string {
	return fmt.Sprintf("nextrun %s (%s)", Version, GitCommit)
}

// FormatStartupMessage is logged once when the dashboard service starts.
func FormatStartupMessage() string {
	return fmt.Sprintf("nextrun dashboard started, version %s, build %s", Version, BuildTime)
}
