package main

import (
	"github.com/haytac/social-post-bot/internal/cli"
	"github.com/haytac/social-post-bot/internal/logging"
)

func main() {
	// Basic logger until RootCmd's PersistentPreRunE applies the loaded config.
	logging.Setup(logging.Config{Level: "info", Console: true, TimeFormat: "15:04:05"})

	cli.Execute()
}
