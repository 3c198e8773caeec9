// main is the entry point for the repovalue CLI.
package main

import (
	"github.com/huangsam/repovalue/cmd"
	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/internal/iocache"
)

func main() {
	err := cmd.Execute()
	iocache.CloseCaching()
	if err != nil {
		contract.LogFatal("repovalue", err)
	}
}
