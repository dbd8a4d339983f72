package main

import (
	formatter "github.com/bluexlab/logrus-formatter"
	"github.com/certops/certops/pkg/lifecycle/cli"
)

func main() {
	formatter.InitLogger()
	cli := cli.App{}
	cli.Run()
}
