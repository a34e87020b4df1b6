package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/modstack/modprep/pkg/config"
	"github.com/modstack/modprep/pkg/observability"
)

func main() {
	// Parse command line flags
	target := flag.String("target", "", "Build target directory to watch")
	platform := flag.String("platform", "", "Platform tag to prepare against")
	setName := flag.String("name", "defaults", "Version set name")
	configFile := flag.String("config", "", "Site configuration file")
	delaySeconds := flag.Int("delay", 10, "Delay in seconds before re-preparing after a change")
	statusAddr := flag.String("status-addr", "", "Address for the status server (overrides configuration)")
	flag.Parse()

	if *target == "" || *platform == "" {
		log.Fatal("target and platform are required")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *statusAddr != "" {
		cfg.StatusAddr = *statusAddr
	}

	logger := observability.NewLogger(cfg.LogLevel, os.Stderr)
	metrics := observability.NewMetrics()

	// Start the status server if configured
	var status *observability.StatusServer
	if cfg.StatusAddr != "" {
		status = observability.NewStatusServer(cfg.StatusAddr, metrics, logrus.NewEntry(logger))
		status.Start()
	}

	// Create watcher
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("Failed to create watcher: %v", err)
	}
	defer watcher.Close()

	// Start watching the target directory
	if err := setupWatcher(watcher, *target); err != nil {
		log.Fatalf("Failed to setup watcher: %v", err)
	}

	// Create runner with the re-preparation delay
	runner := NewRunner(cfg, *target, *platform, *setName, metrics, status, logger,
		time.Duration(*delaySeconds)*time.Second)
	runner.Start()
	defer runner.Stop()

	// Prepare once at startup so the first report is available immediately
	runner.QueueRun()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	// Process events
	log.Printf("Started watching for configuration changes in %s", *target)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			// Only care about write and create events for configuration files
			if (event.Op&(fsnotify.Write|fsnotify.Create) != 0) && isConfigFile(event.Name) {
				log.Printf("Modified file: %s", event.Name)
				runner.QueueRun()
			}

			// Also watch new directories
			if event.Op&fsnotify.Create != 0 {
				fi, err := os.Stat(event.Name)
				if err == nil && fi.IsDir() {
					log.Printf("New directory: %s", event.Name)
					if err := watcher.Add(event.Name); err != nil {
						log.Printf("Error watching new directory: %v", err)
					}
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		case <-sig:
			log.Printf("Shutting down")
			if status != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := status.Shutdown(ctx); err != nil {
					log.Printf("Status server shutdown: %v", err)
				}
			}
			return
		}
	}
}

// setupWatcher recursively adds all directories to the watcher
func setupWatcher(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// isConfigFile reports whether a changed file can affect dependency
// resolution.
func isConfigFile(path string) bool {
	switch filepath.Base(path) {
	case "RELEASE", "Makefile", "RELEASE_SITE", "CONFIG_SITE":
		return true
	}
	return false
}
