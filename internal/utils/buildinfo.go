// Package utils provides shared helpers: logging, build metadata and constants.
package utils

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"github.com/temirov/shellprompt/internal/command"
)

const (
	unknownVersion      = "unknown"
	develVersionName    = "(devel)"
	revisionSettingKey  = "vcs.revision"
	modifiedSettingKey  = "vcs.modified"
	dirtySuffix         = "-dirty"
	shortRevisionLength = 12
	describeTimeout     = 2 * time.Second
)

var describeArguments = []string{"describe", "--tags", "--always", "--dirty"}

// ApplicationVersion reports the shellprompt version: the module version when installed with go install,
// the embedded VCS revision for local builds, and git describe of the working directory as a last resort.
func ApplicationVersion(ctx context.Context, runner command.Runner) string {
	if buildInfo, available := debug.ReadBuildInfo(); available {
		if version := versionFromBuildInfo(buildInfo); version != "" {
			return version
		}
	}
	if version := describeVersion(ctx, runner); version != "" {
		return version
	}
	return unknownVersion
}

func versionFromBuildInfo(buildInfo *debug.BuildInfo) string {
	if buildInfo == nil {
		return ""
	}
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != develVersionName {
		return buildInfo.Main.Version
	}
	var revision string
	var modified bool
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case revisionSettingKey:
			revision = setting.Value
		case modifiedSettingKey:
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return ""
	}
	if len(revision) > shortRevisionLength {
		revision = revision[:shortRevisionLength]
	}
	if modified {
		revision += dirtySuffix
	}
	return revision
}

// describeVersion asks git for the nearest tag. Failures yield an empty string.
func describeVersion(ctx context.Context, runner command.Runner) string {
	if runner == nil {
		return ""
	}
	if ctx == nil {
		ctx = context.Background()
	}
	output, err := runner.Output(ctx, command.Request{
		Name:      "git",
		Arguments: describeArguments,
		Timeout:   describeTimeout,
	})
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}
