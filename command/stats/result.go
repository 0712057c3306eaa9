package stats

import (
	"bytes"
	"fmt"

	"github.com/dogechain-lab/elasticdb/command/helper"
)

type StatsResult struct {
	Table                   string `json:"table"`
	PartitionID             int32  `json:"partitionId"`
	Rows                    int    `json:"rows"`
	HasIndex                bool   `json:"hasIndex"`
	IndexComplete           bool   `json:"indexComplete"`
	IndexEntries            int    `json:"indexEntries"`
	EstimatedDistinctHashes uint64 `json:"estimatedDistinctHashes"`
}

func (r *StatsResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[TABLE]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Name|%s", r.Table),
		fmt.Sprintf("Partition|%d", r.PartitionID),
		fmt.Sprintf("Rows|%d", r.Rows),
	}))
	buffer.WriteString("\n")

	if r.HasIndex {
		buffer.WriteString("\n[ELASTIC INDEX]\n")
		buffer.WriteString(helper.FormatKV([]string{
			fmt.Sprintf("Complete|%t", r.IndexComplete),
			fmt.Sprintf("Entries|%d", r.IndexEntries),
			fmt.Sprintf("Distinct hashes (est.)|%d", r.EstimatedDistinctHashes),
		}))
		buffer.WriteString("\n")
	}

	return buffer.String()
}
