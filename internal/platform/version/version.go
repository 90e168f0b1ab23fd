package version

import (
	"log/slog"
	"runtime"
)

// Injected via -ldflags "-X github.com/pscheid92/fxpulse/internal/platform/version.Version=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info is the build identity served on /version and exported as fxpulse_build_info.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// Labels returns the identity as Prometheus constant labels.
func (i Info) Labels() map[string]string {
	return map[string]string{
		"version":    i.Version,
		"commit":     i.Commit,
		"go_version": i.GoVersion,
	}
}

// LogValue groups the identity under one slog attribute.
func (i Info) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("version", i.Version),
		slog.String("commit", i.Commit),
		slog.String("build_time", i.BuildTime),
	)
}
