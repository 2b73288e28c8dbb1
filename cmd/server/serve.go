package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sayso-interpreter/config"
	"sayso-interpreter/internal/handler"
	"sayso-interpreter/internal/model"
	"sayso-interpreter/internal/rules"
	"sayso-interpreter/internal/service"
	"sayso-interpreter/internal/service/datetime"
	"sayso-interpreter/internal/service/executor"
	"sayso-interpreter/internal/service/formatter"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newMessageService(a.cfg, a.logger)
	if err != nil {
		return err
	}

	if path := a.cfg.Interpreter.RulesFile; path != "" {
		go func() {
			err := rules.Watch(ctx, path, a.logger, func(intents []model.Intent) error {
				interp, err := newInterpreter(a.cfg.Interpreter, intents)
				if err != nil {
					return err
				}
				svc.Swap(interp)
				return nil
			})
			if err != nil {
				a.logger.Error("rules watcher stopped", zap.Error(err))
			}
		}()
	}

	ginMode := a.cfg.Server.Mode
	if ginMode == "" {
		ginMode = gin.DebugMode
	}
	gin.SetMode(ginMode)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           handler.Router(svc, a.logger, a.cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", config.Env()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newMessageService 按配置加载意图表并组装服务
func newMessageService(cfg *config.Config, logger *zap.Logger) (*service.MessageService, error) {
	intents, err := rules.Load(cfg.Interpreter.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	interp, err := newInterpreter(cfg.Interpreter, intents)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Interpreter.Location()
	if err != nil {
		return nil, err
	}
	// 执行器由宿主注册；这里只有内置的 help
	return service.NewMessageService(interp, executor.NewExecutor(), formatter.New(nil), logger, service.WithLocation(loc)), nil
}

func newInterpreter(cfg config.InterpreterConfig, intents []model.Intent) (*service.Interpreter, error) {
	clock := datetime.DefaultTime
	if cfg.DefaultTime != "" {
		c, err := datetime.ParseClock(cfg.DefaultTime)
		if err != nil {
			return nil, fmt.Errorf("interpreter.default_time: %w", err)
		}
		clock = c
	}
	interp, err := service.NewInterpreter(intents,
		service.WithDefaultTime(clock),
		service.WithSuggestions(cfg.Suggestions),
	)
	if err != nil {
		return nil, fmt.Errorf("build interpreter: %w", err)
	}
	return interp, nil
}
