package main

import (
	"os"

	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/config"
)

func main() {
	config.InitLogger()
	config.Init()
	defer config.Logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
