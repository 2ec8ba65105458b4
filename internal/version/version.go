// Package version describes a croissant build: where the binary came from
// and what its calculator, Morse printer and weapon demo support.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"croissant/internal/chain"
	"croissant/internal/config"
	"croissant/internal/morse"
	"croissant/internal/weapon"
)

// Set at build time, e.g.
// go build -ldflags "-X croissant/internal/version.Version=1.0.0 -X croissant/internal/version.Commit=$(git rev-parse HEAD)"
var (
	Version   = "0.7.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Build is what `croissant version` reports.
type Build struct {
	Version      string   `json:"version"`
	Commit       string   `json:"commit,omitempty"`
	BuildDate    string   `json:"buildDate,omitempty"`
	GoVersion    string   `json:"goVersion"`
	Operators    []string `json:"operators"`
	Chain        []string `json:"chain"`
	Signals      []string `json:"signals"`
	Weapons      []string `json:"weapons"`
}

// Current describes the running binary. Chain is the default handler order;
// callers holding a loaded configuration replace it with the configured one.
func Current() Build {
	ops := make([]string, 0, 4)
	for _, op := range chain.Operators() {
		ops = append(ops, string(op))
	}

	return Build{
		Version:      Version,
		Commit:       known(Commit),
		BuildDate:    known(BuildDate),
		GoVersion:    runtime.Version(),
		Operators:    ops,
		Chain:        config.DefaultConfig().Chain,
		Signals:      morse.Signals(),
		Weapons:      weapon.Names(),
	}
}

// Short is the --version form: "0.7.0", or "0.7.0+abc1234" when the commit
// is known.
func Short() string {
	if c := known(Commit); c != "" {
		if len(c) > 7 {
			c = c[:7]
		}
		return Version + "+" + c
	}
	return Version
}

// String renders the build for the terminal.
func (b Build) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "croissant version %s", b.Version)
	var origin []string
	if b.Commit != "" {
		origin = append(origin, "commit "+b.Commit)
	}
	if b.BuildDate != "" {
		origin = append(origin, "built "+b.BuildDate)
	}
	origin = append(origin, b.GoVersion)
	fmt.Fprintf(&sb, " (%s)\n", strings.Join(origin, ", "))

	fmt.Fprintf(&sb, "  operators:      %s\n", strings.Join(b.Operators, " "))
	fmt.Fprintf(&sb, "  chain:          %s\n", strings.Join(b.Chain, " "))
	fmt.Fprintf(&sb, "  morse signals:  %s\n", strings.Join(b.Signals, ", "))
	fmt.Fprintf(&sb, "  weapons:        %s", strings.Join(b.Weapons, ", "))
	return sb.String()
}

func known(s string) string {
	if s == "unknown" {
		return ""
	}
	return s
}
