package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/artpar/dockhand/internal/core/domain"
	"github.com/artpar/dockhand/internal/shell/prompt"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	repoURL := flag.String("repo", "", "Git repository URL of the application")
	branch := flag.String("branch", "", "Branch to deploy")
	user := flag.String("user", "", "SSH user on the target host")
	host := flag.String("host", "", "Target host address")
	keyPath := flag.String("key", "", "Path to the SSH private key")
	appPort := flag.Int("port", 0, "Port the application listens on")
	cleanup := flag.Bool("cleanup", false, "Remove everything a previous deploy installed")
	history := flag.Int("history", 0, "Print the N most recent runs and exit")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Printf("dockhand %s (built %s)\n", Version, BuildTime)
		return ExitSuccess
	}

	// Load configuration
	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return ExitConfigError
	}
	applyFlags(cfg, *repoURL, *branch, *user, *host, *keyPath, *appPort)

	mode := domain.ModeDeploy
	if *cleanup {
		mode = domain.ModeCleanup
	}

	// Ask for whatever is still missing, if a terminal is attached
	if err := fillMissing(cfg, mode, *history > 0); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return ExitConfigError
	}

	// Setup logger
	logger, closeLog, err := SetupLogger(cfg, mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return ExitConfigError
	}
	defer closeLog()
	logger.Info("starting dockhand",
		"version", Version,
		"mode", mode,
	)

	runner, err := NewRunner(cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		return ExitDatabaseError
	}
	defer runner.Close()

	ctx := context.Background()
	switch {
	case *history > 0:
		return runner.History(ctx, *history)
	case *cleanup:
		return runner.Cleanup(ctx)
	default:
		return runner.Deploy(ctx)
	}
}

// applyFlags lets explicit flags override file and environment values.
func applyFlags(cfg *Config, repoURL, branch, user, host, keyPath string, appPort int) {
	if repoURL != "" {
		cfg.Deploy.RepoURL = repoURL
	}
	if branch != "" {
		cfg.Deploy.Branch = branch
	}
	if user != "" {
		cfg.Deploy.User = user
	}
	if host != "" {
		cfg.Deploy.Host = host
	}
	if keyPath != "" {
		cfg.Deploy.KeyPath = keyPath
	}
	if appPort != 0 {
		cfg.Deploy.AppPort = appPort
	}
}

// fillMissing prompts for unset fields. Without a terminal, missing fields
// are left for validation to reject.
func fillMissing(cfg *Config, mode domain.RunMode, historyOnly bool) error {
	if historyOnly {
		return nil
	}

	missing := cfg.Deploy.User == "" || cfg.Deploy.Host == ""
	if mode == domain.ModeDeploy {
		missing = missing || cfg.Deploy.RepoURL == ""
	}
	if !missing {
		return nil
	}
	if !prompt.Stdin() {
		return prompt.ErrNotInteractive
	}

	p := prompt.New(os.Stdin, os.Stderr)
	if mode == domain.ModeCleanup {
		cc := cfg.CleanupConfig()
		if err := p.FillCleanup(cc); err != nil {
			return err
		}
		cfg.Deploy.User = cc.User
		cfg.Deploy.Host = cc.Host
		cfg.Deploy.KeyPath = cc.KeyPath
		return nil
	}
	return p.FillDeploy(&cfg.Deploy)
}
