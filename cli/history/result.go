package clihistory

import (
	"bytes"
	"fmt"
	"time"

	"github.com/scroll-tech/scroll-sdk-cli-sub000/common"
	"github.com/scroll-tech/scroll-sdk-cli-sub000/pipeline"
)

type CmdResult struct {
	Records []pipeline.RunRecord
}

func (r CmdResult) GetOutput() string {
	if len(r.Records) == 0 {
		return "No archived runs"
	}

	var buffer bytes.Buffer

	kvPairs := make([]string, 0, len(r.Records))
	for _, record := range r.Records {
		completed := 0

		for _, stage := range pipeline.StageOrder {
			if record.State != nil && record.State.IsCompleted(stage) {
				completed++
			}
		}

		kvPairs = append(kvPairs, fmt.Sprintf("%s|%s (%d/%d stages)",
			record.FinishedAt.Format(time.RFC3339), record.Identity,
			completed, len(pipeline.StageOrder)))
	}

	buffer.WriteString("Archived verification runs\n")
	buffer.WriteString(common.FormatKV(kvPairs))

	return buffer.String()
}
