// FilePath: cmd/main.go
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/beemind/hub/internal/config"
	"github.com/beemind/hub/internal/server"
	tm "github.com/buger/goterm"
	"github.com/joho/godotenv"
	nuts "github.com/vaudience/go-nuts"
)

func main() {
	// Clear console and draw logo
	ClearConsole()
	DrawLogo()
	// Initialize version info
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting BeeMind Hub v%s", nuts.GetVersion())

	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Failed to read .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	nuts.L.Infof("[Main] Hive API %s, storage %s", cfg.API.BaseURL, cfg.Storage.Backend)

	// Create and start server
	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		os.Exit(1)
	}
}

// ClearConsole clears the console screen.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"    ____            __  ____           __",
		"   / __ )___  ___  /  |/  (_)___  ____/ /",
		"  / __  / _ \\/ _ \\/ /|_/ / / __ \\/ __  / ",
		" / /_/ /  __/  __/ /  / / / / / / /_/ /  ",
		"/_____/\\___/\\___/_/  /_/_/_/ /_/\\__,_/   ",
		"..........................................  " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}
