package load

import (
	"bytes"
	"fmt"

	"github.com/dogechain-lab/elasticdb/command/helper"
)

type LoadResult struct {
	Table    string `json:"table"`
	Inserted int    `json:"inserted"`
	Rows     int    `json:"rows"`
}

func (r *LoadResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[LOAD]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Table|%s", r.Table),
		fmt.Sprintf("Inserted rows|%d", r.Inserted),
		fmt.Sprintf("Total rows|%d", r.Rows),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
