package cliversion

import (
	"bytes"
	"fmt"

	"github.com/scroll-tech/scroll-sdk-cli-sub000/common"
)

type versionCmdResult struct {
	Commit    string
	Branch    string
	BuildTime string
}

func (r versionCmdResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString(common.FormatKV([]string{
		fmt.Sprintf("Commit|%s", r.Commit),
		fmt.Sprintf("Branch|%s", r.Branch),
		fmt.Sprintf("Build Time|%s", r.BuildTime),
	}))

	return buffer.String()
}
