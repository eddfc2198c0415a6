// main is the entry point for the hoursight CLI.
package main

import (
	"github.com/huangsam/hoursight/cmd"
	"github.com/huangsam/hoursight/internal/contract"
	"github.com/huangsam/hoursight/internal/iocache"
)

func main() {
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
