package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"midi-clock/clock"
	"midi-clock/config"
	"midi-clock/display"
	"midi-clock/input"
	"midi-clock/midi"
	"midi-clock/sensehat"
	"midi-clock/tui"
)

var (
	flagBPM      float64
	flagPorts    []int
	flagHardware bool
	flagLog      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the MIDI clock master",
	Long: `Start the clock scheduler, display feedback loop and input controller.

By default the LED matrix and joystick are emulated in the terminal.
With --hardware the Sense HAT framebuffer and joystick are used instead
and the process runs headless until interrupted.`,
	RunE: runClock,
}

func init() {
	runCmd.Flags().Float64Var(&flagBPM, "bpm", 0, "initial tempo (20-300, default from config)")
	runCmd.Flags().IntSliceVar(&flagPorts, "port", nil, "output port indices, bypassing auto-selection (see 'ports')")
	runCmd.Flags().BoolVar(&flagHardware, "hardware", false, "use the Sense HAT LED matrix and joystick")
	runCmd.Flags().StringVar(&flagLog, "log", "", "log file path (default stderr, or config dir when the TUI is active)")
	rootCmd.AddCommand(runCmd)
}

func runClock(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ports := flagPorts
	if len(ports) == 0 {
		ports = cfg.MIDI.PortIndices
	}

	logger, err := newLogger(cfg, flagHardware)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer logger.Sync()

	fanout, err := midi.SelectPorts(cfg.MIDI.DeviceMatch, ports, logger)
	if err != nil {
		return err
	}
	defer midi.Close()

	transport := clock.NewTransport()
	switch {
	case flagBPM != 0:
		transport.SetBPM(flagBPM)
	case cfg.DefaultBPM != 0:
		transport.SetBPM(cfg.DefaultBPM)
	}

	scheduler := clock.NewScheduler(transport, fanout, logger)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	var renderer display.Renderer
	var source input.Source
	var program *tea.Program

	if flagHardware {
		// Failing to acquire the hardware is fatal; everything else
		// degrades gracefully.
		fb, err := sensehat.OpenFramebuffer()
		if err != nil {
			return fmt.Errorf("acquiring LED matrix: %w", err)
		}
		defer fb.Close()

		js, err := sensehat.OpenJoystick(logger)
		if err != nil {
			return fmt.Errorf("acquiring joystick: %w", err)
		}
		defer js.Close()

		renderer, source = fb, js
	} else {
		screen := tui.NewScreen()
		keys := tui.NewKeys()
		renderer, source = screen, keys

		model := tui.NewModel(transport, screen, keys, fanout.Names())
		program = tea.NewProgram(model, tea.WithAltScreen())
	}

	controller := input.NewController(transport, source, cfg.Tuning(), logger)
	feedback := display.NewLoop(transport, scheduler, renderer, cfg.Refresh(), logger)

	logger.Info("midi-clock starting",
		zap.Float64("bpm", transport.BPM()),
		zap.Int("ports", fanout.Len()),
		zap.Bool("hardware", flagHardware))

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		scheduler.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		controller.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		feedback.Run(ctx)
	}()

	if program != nil {
		go func() {
			<-ctx.Done()
			program.Quit()
		}()
		if _, err := program.Run(); err != nil {
			cancel()
			wg.Wait()
			return fmt.Errorf("running UI: %w", err)
		}
		cancel()
	} else {
		<-ctx.Done()
	}

	// Wait for the scheduler so the final Stop goes out before the
	// ports close.
	wg.Wait()
	logger.Info("midi-clock stopped")
	return nil
}

// newLogger builds the zap logger. When the TUI owns the terminal, logs
// go to a file instead of stderr.
func newLogger(cfg *config.Config, headless bool) (*zap.Logger, error) {
	path := flagLog
	if path == "" {
		path = cfg.LogPath
	}

	if path == "" && !headless {
		dir, err := config.ConfigDir()
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "midiclock.log")
	}

	if path == "" {
		return zap.NewDevelopment()
	}

	zcfg := zap.NewDevelopmentConfig()
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	return zcfg.Build()
}
