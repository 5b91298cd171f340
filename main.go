package main

import (
	"os"
	"runtime/debug"

	"github.com/mezonai/tokencore/cmd"
	"github.com/mezonai/tokencore/logx"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			_ = logx.Errorf("TOKENCORE CRASHED: %v\n%s", r, debug.Stack())
			os.Exit(1)
		}
	}()

	cmd.Execute()
}
