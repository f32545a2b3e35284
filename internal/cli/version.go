package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Overridden with -ldflags "-X github.com/lazypower/bangapda/internal/cli.Version=...".
// When left alone, Commit and BuildDate come from the VCS stamp go build embeds.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		b := currentBuild()
		if versionShort {
			fmt.Fprintln(cmd.OutOrStdout(), b.Version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "bangapda %s\n  commit: %s\n  built:  %s\n  go:     %s\n",
			b.Version, b.Commit, b.Date, b.Go)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version")
}

type build struct {
	Version string
	Commit  string
	Date    string
	Go      string
}

func currentBuild() build {
	b := build{Version: Version, Commit: Commit, Date: BuildDate, Go: runtime.Version()}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && b.Commit == "unknown":
			b.Commit = s.Value
			if len(b.Commit) > 12 {
				b.Commit = b.Commit[:12]
			}
		case s.Key == "vcs.time" && b.Date == "unknown":
			b.Date = s.Value
		}
	}
	return b
}

// VersionString is the compact form reported by /api/health and the serve log.
func VersionString() string {
	b := currentBuild()
	return fmt.Sprintf("%s (%s)", b.Version, b.Commit)
}
