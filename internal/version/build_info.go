// Package version reports build information set through -ldflags at release time.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/Masterminds/semver/v3"
)

// ApplicationName is the binary name and the environment variable prefix.
const ApplicationName = "rotas"

const valueNotProvided = "[not provided]"

var version = valueNotProvided
var gitCommit = valueNotProvided
var buildDate = valueNotProvided
var platform = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)

type BuildInfo struct {
	Version    string `json:"version"`    // application semantic version
	APIVersion string `json:"apiVersion"` // major version of the GraphQL API, "v0" for ad-hoc builds
	GitCommit  string `json:"gitCommit"`  // git SHA at build-time
	BuildDate  string `json:"buildDate"`  // date of the build
	GoVersion  string `json:"goVersion"`  // go runtime version at build-time
	Compiler   string `json:"compiler"`   // compiler used at build-time
	Platform   string `json:"platform"`   // GOOS and GOARCH at build-time
}

func ReadBuildInfo() BuildInfo {
	var buildRevision string
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				buildRevision = s.Value
			}
		}
	}

	v := version
	if v == valueNotProvided && buildRevision != "" {
		v = fmt.Sprintf("%s-adhoc-build", buildRevision)
	}
	commit := gitCommit
	if commit == valueNotProvided && buildRevision != "" {
		commit = buildRevision
	}

	return BuildInfo{
		Version:    v,
		APIVersion: APIVersion(v),
		GitCommit:  commit,
		BuildDate:  buildDate,
		GoVersion:  runtime.Version(),
		Compiler:   runtime.Compiler,
		Platform:   platform,
	}
}

// APIVersion maps a release version onto the API path version ("v1.4.2" -> "v1").
// Versions that are not semantic yield "v0".
func APIVersion(v string) string {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return "v0"
	}
	return fmt.Sprintf("v%d", sv.Major())
}
