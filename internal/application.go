package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"

	"github.com/rocketscienceinc/tictactoe-solo/internal/config"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/service"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-solo/transport/terminal"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	shell, err := terminal.New(logger, conf.Shell)
	if err != nil {
		return fmt.Errorf("could not start shell: %w", err)
	}

	defer func() {
		if err = shell.Close(); err != nil {
			log.Error("could not close shell", "error", err)
		}
	}()

	rng := service.NewRandom()
	botService := service.NewBotService(logger, rng)
	renderer := terminal.NewRenderer(shell.Stdout())
	gameController := tictactoe.NewGameController(logger, botService, rng, renderer)
	gameManager := usecase.NewGameManager(logger, clock.New(), gameController, renderer, conf.Pacing)

	if err = gameManager.Handle(usecase.Command{
		Kind:   usecase.CommandNew,
		Symbol: entity.ParseSymbol(conf.PlayerSymbol),
	}); err != nil {
		return fmt.Errorf("could not start game: %w", err)
	}

	// run terminal shell
	shellErrCh := make(chan error, 1)
	go func() {
		defer cancel()
		if shellErr := shell.Loop(ctx, gameManager.Commands()); shellErr != nil {
			log.Error("Shell error", "error", shellErr)
			shellErrCh <- shellErr
		}
	}()

	if err = gameManager.Run(ctx); err != nil {
		return fmt.Errorf("game loop error: %w", err)
	}

	select {
	case err = <-shellErrCh:
		return fmt.Errorf("shell error: %w", err)
	default:
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
