package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"shadownet/internal/api"
	"shadownet/internal/archive"
	"shadownet/internal/config"
	"shadownet/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config file")
	apiBase := flag.String("api-base", "", "Game service base URL")
	timeoutSeconds := flag.Int("timeout", 0, "Request timeout seconds")
	alertTTLSeconds := flag.Int("alert-ttl", 0, "Non-critical alert lifetime seconds")
	archiveDB := flag.String("archive-db", "", "Path to local transmission archive (sqlite)")
	debugLog := flag.String("debug-log", "", "Write bubbletea debug output to this file")
	altScreen := flag.Bool("alt-screen", true, "Use alternate screen buffer")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shadownet: %v\n", err)
		os.Exit(1)
	}
	// Flags set on the command line win over env and file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "api-base":
			cfg.APIBase = *apiBase
		case "timeout":
			cfg.TimeoutSeconds = *timeoutSeconds
		case "alert-ttl":
			cfg.AlertTTLSeconds = *alertTTLSeconds
		case "archive-db":
			cfg.ArchiveDB = *archiveDB
		case "debug-log":
			cfg.DebugLog = *debugLog
		case "alt-screen":
			cfg.AltScreen = *altScreen
		}
	})

	if cfg.DebugLog != "" {
		logFile, err := tea.LogToFile(cfg.DebugLog, "shadownet")
		if err != nil {
			fmt.Fprintf(os.Stderr, "shadownet: open debug log: %v\n", err)
			os.Exit(1)
		}
		defer logFile.Close()
	}

	client := api.NewClient(cfg.APIBase, cfg.Timeout())

	var store *archive.Store
	if cfg.ArchiveDB != "" {
		store, err = archive.Open(cfg.ArchiveDB)
		if err != nil {
			// The console runs fine without an archive.
			fmt.Fprintf(os.Stderr, "shadownet: archive disabled: %v\n", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(ui.New(cfg, client, store), opts...)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "shadownet fatal error: %v\n", err)
		os.Exit(1)
	}
}
