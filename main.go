package main

import (
	"fmt"
	"os"

	"fraudview/cmd"
	"fraudview/internal/loader"
	"fraudview/internal/logging"
	"fraudview/internal/predict"
	"fraudview/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Parse CLI flags
	config, err := cmd.ParseFlags(version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if config.ShowVersion {
		fmt.Println("fraudview", version)
		return
	}

	// The TUI owns the terminal, so logs go to a file.
	logger := logging.Discard()
	if config.LogFile != "" {
		f, err := tea.LogToFile(config.LogFile, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = logging.New(f, config.LogLevel)
	}
	logger.Info("fraudview %s starting file=%q predict=%t", version, config.File, config.Predict)

	var loaderOpts []loader.Option
	if config.Predict {
		loaderOpts = append(loaderOpts, loader.LabelOptional())
	}
	sample := config.SampleOptions()

	app := ui.New(
		loader.New(logger, loaderOpts...),
		predict.NewSeeded(sample.FraudRate),
		logger,
		ui.Options{
			InitialFile: config.File,
			Predict:     config.Predict,
			Sample:      sample,
			LoadTimeout: config.LoadTimeout,
			PrefsPath:   config.PrefsPath,
			PageSize:    config.PageSize,
		},
	)

	// Create and run Bubble Tea app
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited: %v", err)
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
