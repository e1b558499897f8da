package main

import (
	"os"

	"github.com/pbinitiative/zenbpm-importer/internal/log"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Error("%s", err)
		log.Sync()
		os.Exit(1)
	}
	log.Sync()
}
