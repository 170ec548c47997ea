package common

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
)

type ICommandResult interface {
	GetOutput() string
}

type OutputFormatter interface {
	SetError(err error)
	SetCommandResult(result ICommandResult)
	WriteOutput()
	io.Writer
}

type CliCommandExecutor interface {
	ValidateFlags() error
	Execute(outputter OutputFormatter) (ICommandResult, error)
}

func InitializeOutputter(cmd *cobra.Command) OutputFormatter {
	return &commandOutputFormatter{
		stdOut: cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}
}

// GetCliRunCommand returns a cobra run function that executes the given
// command, writing either its result or its error through the outputter
func GetCliRunCommand(cmdExecutor CliCommandExecutor) func(cmd *cobra.Command, _ []string) {
	return func(cmd *cobra.Command, _ []string) {
		outputter := InitializeOutputter(cmd)
		defer outputter.WriteOutput()

		defer func() {
			if r := recover(); r != nil {
				outputter.SetError(fmt.Errorf("%v", r))
			}
		}()

		result, err := cmdExecutor.Execute(outputter)
		if err != nil {
			outputter.SetError(err)

			return
		}

		outputter.SetCommandResult(result)
	}
}

type commandOutputFormatter struct {
	stdOut io.Writer
	errOut io.Writer

	result ICommandResult
	err    error
	buffer bytes.Buffer
}

var _ OutputFormatter = (*commandOutputFormatter)(nil)

func (c *commandOutputFormatter) SetError(err error) {
	c.err = err
}

func (c *commandOutputFormatter) SetCommandResult(result ICommandResult) {
	c.result = result
}

// Write buffers intermediate progress messages until the next WriteOutput
func (c *commandOutputFormatter) Write(p []byte) (int, error) {
	return c.buffer.Write(p)
}

func (c *commandOutputFormatter) WriteOutput() {
	if c.buffer.Len() > 0 {
		_, _ = fmt.Fprintln(c.stdOut, c.buffer.String())
		c.buffer.Reset()
	}

	if c.err != nil {
		_, _ = fmt.Fprintln(c.errOut, c.err.Error())

		os.Exit(1)
	}

	if c.result != nil {
		_, _ = fmt.Fprintln(c.stdOut, c.result.GetOutput())
		c.result = nil
	}
}

// FormatKV formats key value pairs separated with | into a pretty printed column output
func FormatKV(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	columnConf.Glue = " = "

	return columnize.Format(in, columnConf)
}
