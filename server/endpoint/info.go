package endpoint

import (
	"net/http"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
)

// startTime records when the process started for uptime calculation.
var startTime = time.Now()

// BuildInfo is the version data reported by /info.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	IsDirty   bool   `json:"is_dirty"`
}

// ReadBuildInfo extracts module version and VCS stamps embedded by the Go
// toolchain.
func ReadBuildInfo() BuildInfo {
	info := BuildInfo{Version: "dev", GoVersion: runtime.Version()}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.GitCommit = s.Value
		case "vcs.time":
			info.BuildTime = s.Value
		case "vcs.modified":
			info.IsDirty = s.Value == "true"
		}
	}
	return info
}

// Info returns a handler that reports service version and build information.
func Info(serviceName string) gin.HandlerFunc {
	build := ReadBuildInfo()
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":    serviceName,
			"version":    build.Version,
			"git_commit": build.GitCommit,
			"build_time": build.BuildTime,
			"go_version": build.GoVersion,
			"is_dirty":   build.IsDirty,
			"uptime":     time.Since(startTime).String(),
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		})
	}
}
