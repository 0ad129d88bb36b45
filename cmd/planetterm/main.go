// Command planetterm runs a scenario in the terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/RimDiversion/planet-simulation/pkg/simulation"
)

func main() {
	envName := flag.String("env", "solar", "scenario in pkg/assets (solar, inner, outer)")
	configPath := flag.String("config", "", "scenario file; overrides -env")
	fps := flag.Int("fps", 30, "ticks per second")
	logPath := flag.String("log", "", "log file (the terminal is taken by the UI)")
	flag.Parse()

	logger := kitlog.NewNopLogger()
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot open log file: %s\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(f))
		logger = level.NewFilter(kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC), level.AllowInfo())
	}

	path := *configPath
	if path == "" {
		path = filepath.Join("pkg/assets", fmt.Sprintf("%s.json", *envName))
	}
	sim, err := simulation.LoadSimulator(path, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load scenario: %s\n", err)
		os.Exit(1)
	}

	final, err := tea.NewProgram(newModel(sim, *fps), tea.WithAltScreen()).Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
	if m, ok := final.(model); ok && m.err != nil {
		fmt.Fprintf(os.Stderr, "simulation halted: %s\n", m.err)
		os.Exit(1)
	}
}
