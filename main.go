package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	address    string
	file       string
	maxFPS     int
	pixelRatio float64
	debug      bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "txgraph",
		Short:         "Draw the counterparties that sent assets to an address",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.address, "address", "a", "", "tracked address shown in the root box")
	flags.StringVarP(&opts.file, "file", "f", "", "JSON dump of getAssetTransfers results")
	flags.Float64Var(&opts.pixelRatio, "pixel-ratio", 0, "backing store pixels per drawing unit")
	flags.BoolVar(&opts.debug, "debug", false, "write a debug log")
	cmd.Flags().IntVar(&opts.maxFPS, "fps", 0, "maximum frames per second")

	cmd.AddCommand(newExportCommand(opts))
	return cmd
}

func newExportCommand(opts *options) *cobra.Command {
	var (
		out           string
		width, height float64
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render one frame of the graph to a PNG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := resolveConfig(cmd, opts)
			view, _, err := buildView(opts, config)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			if config.Debug {
				logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
			}
			filename, err := config.GetSavePath(out)
			if err != nil {
				return err
			}
			if err := exportPNG(view, filename, width, height, config.PixelRatio, logger); err != nil {
				return err
			}
			color.Green("saved %s", filename)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "txgraph.png", "output file")
	cmd.Flags().Float64Var(&width, "width", 1000, "canvas width in drawing units")
	cmd.Flags().Float64Var(&height, "height", 600, "canvas height in drawing units")
	return cmd
}

// resolveConfig loads the rc file and lets explicit flags win.
func resolveConfig(cmd *cobra.Command, opts *options) *Config {
	config, err := loadConfig()
	if err != nil {
		color.New(color.FgYellow).Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
	}
	if cmd.Flags().Changed("fps") && opts.maxFPS > 0 {
		config.MaxFPS = opts.maxFPS
	}
	if cmd.Flags().Changed("pixel-ratio") && opts.pixelRatio > 0 {
		config.PixelRatio = opts.pixelRatio
	}
	if opts.debug {
		config.Debug = true
	}
	return config
}

func buildView(opts *options, config *Config) (*GraphView, TransferSource, error) {
	view := NewGraphView(opts.address, config.Theme)
	if opts.file == "" {
		view.SetTransfers(GroupByCounterparty(nil))
		return view, nil, nil
	}
	source := fileSource{path: opts.file}
	transfers, err := source.Transfers()
	if err != nil {
		return nil, nil, err
	}
	view.SetTransfers(GroupByCounterparty(transfers))
	return view, source, nil
}

func runTUI(cmd *cobra.Command, opts *options) error {
	config := resolveConfig(cmd, opts)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if config.Debug {
		f, err := tea.LogToFile("txgraph-debug.log", "txgraph")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
		logger = slog.Default()
	}

	view, source, err := buildView(opts, config)
	if err != nil {
		return err
	}

	host := newTerminalHost(config, view, source, logger)
	p := tea.NewProgram(host, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
