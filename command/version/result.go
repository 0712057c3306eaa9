package version

import (
	"fmt"
	"strings"

	"github.com/dogechain-lab/elasticdb/command/helper"
)

// VersionResult describes the binary and the stream kinds it serves
type VersionResult struct {
	Version     string   `json:"version"`
	Commit      string   `json:"commit"`
	BuildTime   string   `json:"buildTime"`
	GoVersion   string   `json:"goVersion"`
	Platform    string   `json:"platform"`
	StreamKinds []string `json:"streamKinds"`
}

func (r *VersionResult) GetOutput() string {
	var s strings.Builder

	s.WriteString("\n[ELASTICDB VERSION]\n")
	s.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Version|%s", r.Version),
		fmt.Sprintf("Commit|%s", r.Commit),
		fmt.Sprintf("Build Time|%s", r.BuildTime),
		fmt.Sprintf("Go|%s", r.GoVersion),
		fmt.Sprintf("Platform|%s", r.Platform),
		fmt.Sprintf("Stream Kinds|%s", strings.Join(r.StreamKinds, ", ")),
	}))
	s.WriteString("\n")

	return s.String()
}
