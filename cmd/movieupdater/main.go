package main

import (
	"os"

	"github.com/pokerjest/movieAutoTool/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Error().Err(err).Msg("movieupdater failed")
		os.Exit(1)
	}
}
