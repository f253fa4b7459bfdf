package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/codefionn/sbxpanel/internal/config"
	"github.com/codefionn/sbxpanel/internal/diffview"
	"github.com/codefionn/sbxpanel/internal/logger"
	"github.com/codefionn/sbxpanel/internal/sbx"
	"github.com/codefionn/sbxpanel/internal/state"
	"github.com/codefionn/sbxpanel/internal/tui"
	"github.com/codefionn/sbxpanel/internal/watcher"
)

const version = "0.1.0"

type stringSlice []string

func (s *stringSlice) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(*s, ",")
}

func (s *stringSlice) Set(value string) error {
	if value == "" {
		return fmt.Errorf("value cannot be empty")
	}
	*s = append(*s, value)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath     = flag.String("config", config.GetConfigPath(), "path to the config file")
		binPath        = flag.String("bin", "", "path to the sandbox binary (overrides config)")
		sandboxName    = flag.String("name", "", "sandbox name (overrides config)")
		network        = flag.String("net", "", "network mode: host or none (overrides config)")
		noDefaultBinds = flag.Bool("no-default-binds", false, "disable the binary's default bind mounts")
		ignoredFiles   = flag.Bool("ignored-files", false, "include VCS-ignored files in the change set")
		logLevel       = flag.String("log-level", "", "log level: debug, info, warn, error, none")
		showVersion    = flag.Bool("version", false, "print version and exit")
	)
	var binds, masks, roots stringSlice
	flag.Var(&binds, "bind", "additional bind mount (repeatable)")
	flag.Var(&masks, "mask", "path masked from the sandbox (repeatable)")
	flag.Var(&roots, "root", "workspace folder to show (repeatable; default: cwd)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sbxpanel %s\n", version)
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flags win over the config file.
	if *binPath != "" {
		cfg.BinaryPath = *binPath
	}
	if *sandboxName != "" {
		cfg.SandboxName = *sandboxName
	}
	if *network != "" {
		cfg.Network = *network
	}
	if *noDefaultBinds {
		cfg.NoDefaultBinds = true
	}
	if *ignoredFiles {
		cfg.IncludeIgnored = true
	}
	if len(binds) > 0 {
		cfg.Binds = append(cfg.Binds, binds...)
	}
	if len(masks) > 0 {
		cfg.Masks = append(cfg.Masks, masks...)
	}
	if len(roots) > 0 {
		cfg.Roots = nil
		for _, root := range roots {
			abs, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("invalid root %q: %w", root, err)
			}
			cfg.Roots = append(cfg.Roots, abs)
		}
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if len(cfg.Roots) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
		cfg.Roots = []string{cwd}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogPath); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Global().Close()
	logger.Info("sbxpanel %s starting (binary=%s)", version, cfg.BinaryPath)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("sbxpanel needs an interactive terminal")
	}

	client := sbx.NewClient(cfg)

	resolver, err := diffview.NewResolver()
	if err != nil {
		return err
	}
	defer resolver.Cleanup()

	store, err := state.Open(cfg.StatePath)
	if err != nil {
		// The panel works without durable mappings; pivot/restore degrade.
		logger.Warn("failed to open state store: %v", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	watch, err := watcher.New(cfg.Roots...)
	if err != nil {
		logger.Warn("failed to create file watcher: %v", err)
		watch = nil
	}
	if watch != nil {
		defer watch.Close()
	}

	model := tui.New(context.Background(), cfg, client, resolver, store, watch)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
