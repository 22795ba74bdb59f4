// Copyright 2025 The Choices Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs a headless choices session as an IPC server or an
interactive CLI.

A session holds a list of choices (optionally grouped), filters them with a
fuzzy, prefix or substring (KMP) search as the user types, and keeps the
selected items. Choices are loaded from a TOML, JSON, YAML or MessagePack file
or sent over IPC.

# Usage

Serve a choices file over stdin/stdout:

	choices -choices fruit.toml

Try a session by hand, with debug logs:

	choices -c -d -choices fruit.json

Force a strategy regardless of config:

	choices -c -strategy prefix -choices fruit.toml

# Configuration

The config file lives at [UserConfigDir]/choices/config.toml and is created
with defaults when missing; -config points at another one.

	[search]
	strategy = "fuzzy"
	fields = ["label", "value"]
	threshold = 0.6
	search_floor = 1
	result_limit = 4

	[behaviour]
	max_item_count = -1
	duplicate_items_allowed = true
	single_mode = false

# IPC Protocol

MessagePack values over stdin/stdout, one request per value. See package
server for the ops.

	{"id": "1", "op": "search", "q": "app"}
	{"id": "2", "op": "select", "v": "apple"}

# Command Line Flags

	-config string
	    Path to a config file
	-choices string
	    Choices file to load (.toml, .json, .yaml, .msgpack)
	-strategy string
	    Override the search strategy (fuzzy, prefix, kmp)
	-limit int
	    Override the result limit (0 = unlimited)
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/choices/internal/cli"
	"github.com/bastiangx/choices/internal/logger"
	"github.com/bastiangx/choices/internal/utils"
	"github.com/bastiangx/choices/pkg/config"
	"github.com/bastiangx/choices/pkg/server"
	"github.com/bastiangx/choices/pkg/session"
	"github.com/bastiangx/choices/pkg/source"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "choices"
	gh      = "https://github.com/bastiangx/choices"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only wires config, choices and the chosen front end together.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a config file")
	choicesFile := flag.String("choices", "", "Choices file to load (.toml, .json, .yaml, .msgpack)")
	strategy := flag.String("strategy", "", "Override the search strategy (fuzzy, prefix, kmp)")
	limit := flag.Int("limit", -1, "Override the result limit (0 = unlimited)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, usedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(usedPath))

	if *strategy != "" {
		cfg.Search.Strategy = *strategy
	}
	if *limit >= 0 {
		cfg.Search.ResultLimit = *limit
	}

	sess, err := session.New(cfg, logger.New("session"))
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	defer sess.Close()

	if *choicesFile != "" {
		if err := loadChoices(sess, *choicesFile); err != nil {
			log.Fatalf("Failed to load choices: %v", err)
		}
	} else {
		log.Warn("No choices file given, starting with an empty session...")
	}

	if *cliMode {
		log.SetReportTimestamp(false)
		handler := cli.NewInputHandler(sess, logger.New(""), cfg.CLI.ShowScores)
		if err := handler.Start(os.Stdin); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(sess, os.Stdin, os.Stdout, logger.New("ipc"))
	showStartupInfo(cfg, len(sess.Store().Choices()))
	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func loadChoices(sess *session.Session, name string) error {
	path, err := utils.NewPathResolver().ResolveFile(name)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	inputs, err := source.LoadFile(path)
	if err != nil {
		return err
	}
	return sess.SetChoices(inputs, true)
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ choices ] headless select state and search")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(cfg *config.Config, choices int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("=========")
	println(" choices ")
	println("=========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("strategy: %s", cfg.Search.Strategy)
	log.Infof("choices loaded: %d", choices)
	log.Info("status: ready")
	println("=========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
