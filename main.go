package main

import (
	"github.com/scroll-tech/scroll-sdk-cli-sub000/cli"
)

func main() {
	cli.NewRootCommand().Execute()
}
