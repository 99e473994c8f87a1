package main

import (
	"context"
	"marketmcp/marketmcp/agents/actions"
	"marketmcp/marketmcp/config"
	"marketmcp/marketmcp/controllers"
	"marketmcp/marketmcp/routes"
	"marketmcp/marketmcp/utils/logging"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// HTTP-only entrypoint; cmd/ carries the stdio and MCP modes as well.
func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("")
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	if err := logging.InitLogger(cfg.Logging.Dir, cfg.Logging.Level); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	toolActions, closeFn := actions.FromConfig(ctx, "", cfg)
	defer closeFn()

	ctrl := controllers.NewToolsController(toolActions)
	health := controllers.NewHealthController(routes.ServiceName, len(toolActions.Tools()), toolActions.Index())

	if err := routes.ListenAndServe(ctx, cfg.Server.Addr, routes.NewRouter(ctrl, health)); err != nil {
		logging.ErrorLogger.Error("server error", zap.Error(err))
	}
}
