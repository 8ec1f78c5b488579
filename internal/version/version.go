// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Do not import any other opskit packages to avoid import cycles.

package version

import "runtime/debug"

// Version is the module version stamped by the Go toolchain, or "dev" for
// local builds.
var Version, Revision = fromBuildInfo(debug.ReadBuildInfo())

// String renders Version with the short VCS revision when one was recorded.
func String() string {
	return format(Version, Revision)
}

func fromBuildInfo(info *debug.BuildInfo, ok bool) (version, revision string) {
	version = "dev"
	if !ok || info == nil {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		version = v
	}

	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(revision) > 7 { //nolint:mnd
		revision = revision[:7]
	}
	if revision != "" && dirty {
		revision += "-dirty"
	}
	return
}

func format(version, revision string) string {
	if revision == "" {
		return version
	}
	return version + " (" + revision + ")"
}
