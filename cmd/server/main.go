package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sayso-interpreter/config"
	"sayso-interpreter/internal/logger"
)

// app 命令共享的配置与日志，在 PersistentPreRunE 中初始化
type app struct {
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "sayso",
		Short: "Bilingual (English/Japanese) chat command interpreter",
		Long: `sayso turns short chat messages such as "todo: buy milk, due: tomorrow"
or "支出: ランチ、金額: 1200" into structured actions.

Run without arguments to start the HTTP server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// 按环境加载配置（APP_ENV=local|dev|prod），或使用 --config 指定的文件
			var err error
			if a.configPath != "" {
				a.cfg, err = config.LoadFile(a.configPath)
			} else {
				a.cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.logger, err = logger.New(logger.Config{Level: a.cfg.Log.Level, Format: a.cfg.Log.Format})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default: config/<APP_ENV>.yaml)")

	root.AddCommand(a.serveCmd(), a.parseCmd(), a.intentsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
