package drain

import (
	"bytes"
	"fmt"

	"github.com/dogechain-lab/elasticdb/command/helper"
)

type DrainResult struct {
	Range    string `json:"range"`
	Out      string `json:"out"`
	Calls    int    `json:"calls"`
	Chunks   int    `json:"chunks"`
	Rows     int    `json:"rows"`
	Bytes    int    `json:"bytes"`
	Cleared  bool   `json:"cleared"`
	Duration string `json:"duration"`
}

func (r *DrainResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[RANGE DRAIN]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Range|%s", r.Range),
		fmt.Sprintf("Output|%s", r.Out),
		fmt.Sprintf("Stream calls|%d", r.Calls),
		fmt.Sprintf("Chunks|%d", r.Chunks),
		fmt.Sprintf("Rows|%d", r.Rows),
		fmt.Sprintf("Bytes|%d", r.Bytes),
		fmt.Sprintf("Cleared|%t", r.Cleared),
		fmt.Sprintf("Duration|%s", r.Duration),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
