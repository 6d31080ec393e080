package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"jenkdash/internal/history"
	"jenkdash/internal/jenkins"
	"jenkdash/pkg/config"
	"jenkdash/pkg/debug"
	"jenkdash/pkg/ui"
	"jenkdash/pkg/version"
	"jenkdash/pkg/watcher"
)

const connectTimeout = 15 * time.Second

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	configPath := flag.String("config", "", "Path to config file (default: XDG config dir)")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	setupFlag := flag.Bool("setup", false, "Re-run the interactive setup")
	flag.Parse()

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: jenkdash [options]")
		fmt.Println("\nA TUI dashboard for Jenkins.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("jenkdash %s\n", version.Version)
		os.Exit(0)
	}

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}
	if cfgPath == "" {
		fmt.Fprintln(os.Stderr, "Could not determine config directory")
		os.Exit(1)
	}

	cfg, err := config.LoadFrom(cfgPath)
	needSetup := *setupFlag || errors.Is(err, config.ErrNoConfig)
	if err != nil && !errors.Is(err, config.ErrNoConfig) {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if needSetup {
		cfg, err = runSetup(cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Setup failed: %v\n", err)
			os.Exit(1)
		}
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'jenkdash --setup' to reconfigure.")
		os.Exit(1)
	}

	client, err := jenkins.NewClient(cfg.URL, cfg.Username, cfg.Token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Verify connectivity before entering the alternate screen, so auth and
	// DNS problems surface as a plain error instead of a broken dashboard.
	if !needSetup {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		err = client.TestConnection(ctx)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not reach %s: %v\n", client.Base(), err)
			os.Exit(1)
		}
	}

	store, err := history.Open(config.HistoryPath())
	if err != nil {
		// History is a convenience; run without it.
		debug.Log("history unavailable: %v", err)
		store = nil
	}
	defer store.Close()

	watch, err := watcher.New(cfgPath)
	if err == nil {
		err = watch.Start()
	}
	if err != nil {
		debug.Log("config watcher unavailable: %v", err)
		watch = nil
	} else {
		defer watch.Stop()
	}

	p := tea.NewProgram(
		ui.New(cfg, client, store, watch),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runSetup walks the user through the connection form, verifies the
// credentials against the server and persists the result.
func runSetup(path string) (config.Config, error) {
	cfg, err := config.RunSetup()
	if err != nil {
		return cfg, err
	}

	client, err := jenkins.NewClient(cfg.URL, cfg.Username, cfg.Token)
	if err != nil {
		return cfg, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.TestConnection(ctx); err != nil {
		return cfg, fmt.Errorf("could not reach %s: %w", client.Base(), err)
	}

	if err := config.SaveTo(cfg, path); err != nil {
		return cfg, err
	}
	fmt.Printf("Configuration saved to %s\n", path)
	return cfg, nil
}
