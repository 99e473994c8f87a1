// Command-line entrypoint for the market analysis tool server
package main

import (
	"context"
	"fmt"
	"marketmcp/marketmcp/agents/actions"
	"marketmcp/marketmcp/config"
	"marketmcp/marketmcp/controllers"
	"marketmcp/marketmcp/routes"
	"marketmcp/marketmcp/utils/color"
	"marketmcp/marketmcp/utils/logging"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	configPath string
	cfg        config.Config
	ctrl       *controllers.ToolsController
	closeFn    func()
}

func main() {
	a := &app{}
	err := newRootCmd(a).ExecuteContext(context.Background())
	a.teardown()
	if err != nil {
		fmt.Fprintln(os.Stderr, color.ColorError(err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "marketmcp",
		Short: "Market analysis tool server",
		Long: "Serves fetch_url, extract_main_text, extract_evidence_quotes, save_sources and save_report.\n" +
			"With no subcommand, reads one JSON request per line on stdin and writes one JSON response per line on stdout.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.AppLogger.Info("serving line protocol on stdio")
			return routes.ServeStdio(cmd.Context(), a.ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $APP_CONFIG or env/config.yaml)")

	root.AddCommand(&cobra.Command{
		Use:   "mcp",
		Short: "Serve the tools over the Model Context Protocol on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.AppLogger.Info("serving MCP on stdio")
			return routes.ServeMCP(cmd.Context(), routes.NewMCPServer(a.ctrl))
		},
	})

	var addr string
	httpCmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the tools over HTTP and websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintln(cmd.ErrOrStderr(), color.ColorInfo("marketmcp listening on "+addr))
			health := controllers.NewHealthController(routes.ServiceName, len(a.ctrl.Actions().Tools()), a.ctrl.Actions().Index())
			return routes.ListenAndServe(ctx, addr, routes.NewRouter(a.ctrl, health))
		},
	}
	httpCmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr from config)")
	root.AddCommand(httpCmd)

	return root
}

// setup loads .env, then config, then starts file logging. Tools reload the
// config on every call; this copy only sizes logging and backends.
func (a *app) setup(ctx context.Context) error {
	_ = godotenv.Load()

	if a.configPath != "" {
		os.Setenv(config.EnvConfigPath, a.configPath)
	}
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if len(cfg.HTTP.AllowDomains) == 0 {
		fmt.Fprintln(os.Stderr, color.ColorWarning("http.allow_domains is empty; fetch_url accepts any host"))
	}

	if err := logging.InitLogger(cfg.Logging.Dir, cfg.Logging.Level); err != nil {
		return err
	}

	var toolActions *actions.ToolActions
	toolActions, a.closeFn = actions.FromConfig(ctx, a.configPath, cfg)
	a.ctrl = controllers.NewToolsController(toolActions)

	logging.AppLogger.Info("marketmcp started",
		zap.String("config", a.configPath),
		zap.Strings("allow_domains", cfg.HTTP.AllowDomains))
	return nil
}

func (a *app) teardown() {
	if a.closeFn != nil {
		a.closeFn()
	}
	logging.Sync()
}
