// Package main provides the airwave command-line radio player entry point.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/mizikori/airwave/internal/app/playback"
	"github.com/mizikori/airwave/internal/app/radio"
	"github.com/mizikori/airwave/internal/app/supply"
	"github.com/mizikori/airwave/internal/domain/track"
	"github.com/mizikori/airwave/internal/infra/config"
	"github.com/mizikori/airwave/internal/infra/logger"
	"github.com/mizikori/airwave/internal/infra/state"
)

var (
	app        = kingpin.New("airwave", "Continuous-playback radio player")
	configPath = app.Flag("config", "Path to config file").Default("config/airwave.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// play command (default): start radio around a seed and enter the prompt
	playCmd   = app.Command("play", "Start radio around a seed track (default)").Default()
	playSeed  = playCmd.Arg("seed", "Seed track ID (video ID or file path)").String()
	playTitle = playCmd.Flag("title", "Display title for the seed track").String()

	// resume command: restore the persisted session and continue
	resumeCmd = app.Command("resume", "Restore the last session and resume playback")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg, command); err != nil {
		zlog.Error().Msgf("airwave error: %v", err)
		os.Exit(1)
	}
}

// run executes the main player logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config, command string) error {
	// Fail fast if the player binary is not installed
	if err := playback.CheckPlayer(cfg.Player.Command); err != nil {
		return err
	}

	chain, err := supply.NewChainFromConfig(cfg)
	if err != nil {
		return err
	}

	runner := playback.NewRunner(cfg.Player.Command, cfg.Player.ExtraArgs)
	controller := playback.NewController(runner, playback.Config{
		StopTimeout: time.Duration(cfg.Player.StopTimeoutMs) * time.Millisecond,
	})
	store := state.NewStore(expandPath(cfg.State.File))

	engine := radio.NewEngine(
		radio.ControllerPlayer{Controller: controller},
		chain,
		store,
		consoleSink{},
		radio.Config{
			InitialFetchCount: cfg.Radio.InitialFetchCount,
			RefillThreshold:   cfg.Radio.RefillThreshold,
			RefillFetchCount:  cfg.Radio.RefillFetchCount,
		},
	)
	defer engine.Close()

	ctx := context.Background()

	switch command {
	case playCmd.FullCommand():
		if *playSeed == "" {
			return fmt.Errorf("a seed track ID is required (airwave play <seed>)")
		}
		seed := track.Track{ID: *playSeed, Title: *playTitle}
		if err := engine.StartRadio(ctx, seed); err != nil {
			return err
		}

	case resumeCmd.FullCommand():
		if err := engine.Restore(ctx); err != nil {
			return err
		}
		if err := engine.Resume(ctx); err != nil {
			return err
		}
	}

	return commandLoop(ctx, engine)
}

// commandLoop reads commands from stdin until quit or a shutdown signal.
func commandLoop(ctx context.Context, engine *radio.Engine) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	lineCh := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lineCh <- scanner.Text()
		}
		close(lineCh)
	}()

	printHelp()
	fmt.Print("> ")

	for {
		select {
		case <-sigCh:
			fmt.Println()
			zlog.Info().Msg("Received shutdown signal...")
			return engine.StopRadio()

		case line, ok := <-lineCh:
			if !ok {
				// stdin closed
				return engine.StopRadio()
			}
			quit, err := dispatch(ctx, engine, line)
			if err != nil {
				fmt.Printf("error: %v\n", err)
			}
			if quit {
				return nil
			}
			fmt.Print("> ")
		}
	}
}

// dispatch executes one prompt command. It returns true when the loop should
// exit.
func dispatch(ctx context.Context, engine *radio.Engine, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "play":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: play <seed-id> [title...]")
		}
		seed := track.Track{ID: fields[1], Title: strings.Join(fields[2:], " ")}
		return false, engine.StartRadio(ctx, seed)

	case "pause":
		return false, engine.PauseAll()

	case "resume":
		return false, engine.Resume(ctx)

	case "skip", "next":
		return false, engine.Skip(ctx)

	case "stop":
		return false, engine.StopRadio()

	case "status":
		printStatus(engine)
		return false, nil

	case "help":
		printHelp()
		return false, nil

	case "quit", "exit":
		return true, engine.StopRadio()

	default:
		return false, fmt.Errorf("unknown command: %s (try 'help')", fields[0])
	}
}

// printStatus renders the current session snapshot.
func printStatus(engine *radio.Engine) {
	snap := engine.Status()

	fmt.Printf("status: %s\n", snap.Status)
	if snap.Current != nil {
		fmt.Printf("now playing: %s [%s]\n", snap.Current.Label(), track.FormatDuration(snap.Current.Duration))
	}
	if err := engine.LastError(); err != nil {
		fmt.Printf("last error: %v\n", err)
	}

	fmt.Printf("up next (%d):\n", len(snap.Queue))
	for i, t := range snap.Queue {
		if i >= 10 {
			fmt.Printf("  ... and %d more\n", len(snap.Queue)-i)
			break
		}
		fmt.Printf("  %2d. %s [%s]\n", i+1, t.Label(), track.FormatDuration(t.Duration))
	}
}

func printHelp() {
	fmt.Println("commands: play <seed-id> [title] | pause | resume | skip | stop | status | help | quit")
}

// expandPath expands a leading ~/ to the user's home directory.
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + path[1:]
}

// consoleSink renders engine events on the terminal.
type consoleSink struct{}

func (consoleSink) OnTrackChanged(t *track.Track) {
	if t == nil {
		fmt.Println("\nplayback stopped")
		return
	}
	fmt.Printf("\nnow playing: %s [%s]\n", t.Label(), track.FormatDuration(t.Duration))
}

func (consoleSink) OnQueueChanged(queue []track.Track) {
	zlog.Debug().Msgf("queue updated: %d tracks", len(queue))
}

func (consoleSink) OnError(kind radio.ErrorKind, message string) {
	fmt.Printf("\n[%s] %s\n", kind, message)
}
