package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.3.0"

var (
	storeFlag string
	themeFlag string
)

var rootCmd = &cobra.Command{
	Use:   "mindboard",
	Short: "mindboard: mind maps in the terminal",
	Long: Brand.Sprint("mindboard") + " sketches ideas and links them on a canvas\n" +
		Subtle.Sprint("Run without a subcommand to open the editor"),
	Version:      version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEditor()
	},
}

func init() {
	rootCmd.SetVersionTemplate("mindboard {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Storage backend: file, redis or memory")
	rootCmd.PersistentFlags().StringVar(&themeFlag, "theme", "", "Color theme: light or dark")

	rootCmd.AddCommand(
		showCmd(),
		addCmd(),
		connectCmd(),
		removeCmd(),
		exportCmd(),
		clearCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles everything a command needs once config, logging and the
// store are up.
type app struct {
	cfg        *Config
	log        *zap.Logger
	session    *Session
	closeStore func() error
}

func openApp(width, height int) (*app, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if storeFlag != "" {
		cfg.Store.Backend = storeFlag
	}
	if themeFlag != "" {
		cfg.Theme = themeFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	session := NewSession(store, NewCanvas(width, height), logger)
	if err := session.Codec.Load(); err != nil {
		_ = closeStore()
		_ = logger.Sync()
		return nil, err
	}

	logger.Info("session opened",
		zap.String("store", cfg.Store.Backend),
		zap.Int("nodes", session.Registry.Len()),
		zap.Int("connectors", session.Connectors.Len()))

	return &app{cfg: cfg, log: logger, session: session, closeStore: closeStore}, nil
}

func (a *app) Close() {
	if err := a.closeStore(); err != nil {
		a.log.Warn("failed to close store", zap.Error(err))
	}
	_ = a.log.Sync()
}

func runEditor() error {
	a, err := openApp(80, 24-chromeRows)
	if err != nil {
		return err
	}
	defer a.Close()

	p := tea.NewProgram(
		newModel(a.session, a.cfg, a.log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		a.log.Error("editor exited with error", zap.Error(err))
		return err
	}
	return nil
}
