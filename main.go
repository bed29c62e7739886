package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Futarimiti/riichi-hairi/app"
	"github.com/Futarimiti/riichi-hairi/common/config"
	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/Futarimiti/riichi-hairi/common/metrics"
	"github.com/Futarimiti/riichi-hairi/core/container"
	"github.com/Futarimiti/riichi-hairi/framework/game"
	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
	gate "github.com/Futarimiti/riichi-hairi/gate/app"
	"github.com/spf13/cobra"
)

var (
	configFile  string
	logLevel    string
	asJSON      bool
	players     int
	interactive bool
	noPrompt    bool
)

var rootCmd = &cobra.Command{
	Use:   "hairi [hand...]",
	Short: "立直麻将向听数与进张计算",
	Long: `hairi 计算向听数和每种打法的进张。
带手牌参数时逐个分析后退出，否则进入交互式命令行。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(configFile); err != nil {
			return fmt.Errorf("文件配置发生错误：%w", err)
		}
		if cmd.Flags().Changed("logLevel") {
			config.Conf.Log.Level = logLevel
		}
		if cmd.Flags().Changed("players") {
			config.Conf.Game.PlayerCount = players
		}
		if cmd.Flags().Changed("interactive") {
			config.Conf.Game.Interactive = interactive
		}
		if err := config.Conf.Validate(); err != nil {
			return err
		}
		log.InitLogTo(cmd.ErrOrStderr(), config.Conf.AppName, config.Conf.Log.Level)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := config.Conf
		memo, err := container.NewMemo(conf.Cache)
		if err != nil {
			return err
		}
		var m mahjong.Memo
		if memo != nil {
			defer memo.Close()
			m = memo
		}

		session := game.NewSession(container.Rules(conf), m)
		renderer := app.NewRenderer(asJSON)
		out := cmd.OutOrStdout()

		if len(args) > 0 {
			return app.AnalyzeAll(session, renderer, out, args)
		}

		if conf.Game.Interactive {
			session.SwitchMode(true)
		}
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return app.NewREPL(session, renderer, cmd.InOrStdin(), out, !noPrompt).Run(ctx)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := config.Conf
		log.Info("配置文件: %+v", *conf)

		if conf.MetricPort > 0 {
			go func() {
				log.Info("启动监控..., URL: http://localhost:%d/debug/statsviz/", conf.MetricPort)
				if err := metrics.Serve(fmt.Sprintf("0.0.0.0:%d", conf.MetricPort)); err != nil {
					log.Error("监控服务启动失败: %v", err)
				}
			}()
		}
		return gate.Run(cmd.Context(), conf)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "resource file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "logLevel", "info", "debug | info | warn | error")
	rootCmd.PersistentFlags().IntVar(&players, "players", 4, "3 or 4")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "output JSON lines")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "start in interactive mode")
	rootCmd.Flags().BoolVar(&noPrompt, "noPrompt", false, "do not print the prompt")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error("error happen: %v", err)
		os.Exit(1)
	}
}
