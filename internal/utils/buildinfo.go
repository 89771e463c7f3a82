package utils

import (
	"runtime/debug"
)

const (
	developmentVersion  = "development"
	shortRevisionLength = 12
)

// GetApplicationVersion reports the module version recorded in the build
// info, falling back to the VCS revision for source builds.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if !buildInfoAvailable {
		return developmentVersion
	}
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}

	revision := ""
	treeModified := false
	for _, buildSetting := range buildInfo.Settings {
		switch buildSetting.Key {
		case "vcs.revision":
			revision = buildSetting.Value
		case "vcs.modified":
			treeModified = buildSetting.Value == "true"
		}
	}
	if revision == "" {
		return developmentVersion
	}
	if len(revision) > shortRevisionLength {
		revision = revision[:shortRevisionLength]
	}
	if treeModified {
		return revision + "-dirty"
	}
	return revision
}
