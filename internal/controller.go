package internal

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Wickedviruz/Wicked-MMO-server/internal/core"
	"github.com/Wickedviruz/Wicked-MMO-server/internal/core/data"
	"github.com/Wickedviruz/Wicked-MMO-server/internal/core/debug"
	"github.com/Wickedviruz/Wicked-MMO-server/internal/scripting"
	"github.com/Wickedviruz/Wicked-MMO-server/internal/server"
	"github.com/Wickedviruz/Wicked-MMO-server/internal/server/game"
)

// Controller is the main entrypoint for the server. It's responsible for
// initializing the shared resources (database, logging, scripting), wiring
// up the game backend, and launching everything.
type Controller struct {
	Config *core.Config

	logger *zap.SugaredLogger
	wg     sync.WaitGroup
}

func (c *Controller) Start(ctx context.Context) error {
	var err error
	// Set up the logger, which is shared by everything downstream.
	c.logger, err = core.NewLogger(c.Config)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	if c.Config.Debugging.PprofEnabled {
		debug.StartPprofServer(c.logger, c.Config.Debugging.PprofPort)
	}

	db, err := data.Open(c.Config)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := data.Shutdown(db); err != nil {
			c.logger.Warnf("closing database: %s", err)
		}
	}()

	var hooks game.Hooks
	if c.Config.Scripting.Enabled {
		engine, err := scripting.NewEngine(c.Config.Scripting.ScriptsDir, c.logger)
		if err != nil {
			return fmt.Errorf("initializing scripting: %w", err)
		}
		defer engine.Close()
		hooks = engine
	}

	registry := server.NewRegistry(c.Config.MaxConnections, c.logger)
	backend := game.NewServer(
		c.Config,
		c.logger,
		registry,
		game.NewAccountService(db),
		game.NewCharacterService(db),
		hooks,
	)
	frontend := &server.Frontend{
		Config:   c.Config,
		Backend:  backend,
		Registry: registry,
		Logger:   c.logger,
	}

	c.wg.Add(1)
	if err := frontend.Start(ctx, &c.wg); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	c.wg.Wait()
	return nil
}
