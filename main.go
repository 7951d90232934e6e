package main

import (
	"os"

	"github.com/shipengqi/reginv/cmd"
	"github.com/shipengqi/reginv/pkg/log"
)

func main() {
	if err := cmd.NewReginvCommand().Execute(); err != nil {
		log.Errorf("Error: %v", err)
		os.Exit(1)
	}
}
