package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"NewsBulletin/internal/app"
	"NewsBulletin/internal/config"
	"NewsBulletin/internal/logging"
	"NewsBulletin/internal/presenter"
)

type rootFlags struct {
	configPath string
	logLevel   string
}

type runFlags struct {
	endDate string
	days    int
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "newsbulletin",
		Short:         "Weekly AI news bulletin generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A missing .env is normal; real environment variables still apply.
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML config file (default $NEWS_BULLETIN_CONFIG)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override logging.level")

	cmd.AddCommand(newGenerateCommand(flags), newSearchCommand(flags), newScheduleCommand(flags))
	return cmd
}

func (f *rootFlags) load() (config.Config, *slog.Logger) {
	var cfg config.Config
	if f.configPath != "" {
		cfg = config.LoadFrom(f.configPath)
	} else {
		cfg = config.Load()
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	return cfg, logging.New(cfg.Logging.Level, cfg.Logging.Format)
}

func (r *runFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.endDate, "end-date", "", `window end day, e.g. "31 Ağustos 2025" (default today)`)
	cmd.Flags().IntVar(&r.days, "days", 0, "lookback days, 1-30 (default bulletin.lookbackDays)")
}

func (r *runFlags) options() app.RunOptions {
	return app.RunOptions{EndDate: r.endDate, Days: r.days}
}

func newGenerateCommand(root *rootFlags) *cobra.Command {
	run := &runFlags{}
	var (
		output string
		noSave bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Collect the week's AI news and write the bulletin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := root.load()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			logger.Info("configuration loaded", "config", cfg.String())

			return withApplication(cmd.Context(), cfg, logger, func(ctx context.Context, application *app.Application) error {
				bulletin, err := application.Generate(ctx, run.options())
				if err != nil {
					return err
				}

				if err := presenter.PrintBulletin(cmd.OutOrStdout(), bulletin); err != nil {
					return err
				}
				if noSave || bulletin.WriterFailed {
					return nil
				}

				path, err := presenter.SaveBulletin(cfg.Bulletin.OutputDir, output, bulletin)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nBülten kaydedildi: %s\n", path)
				return nil
			})
		},
	}

	run.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file name (default haber_bulteni_YYYYMMDD_HHMMSS.txt)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "print the bulletin without saving it")
	return cmd
}

func newSearchCommand(root *rootFlags) *cobra.Command {
	run := &runFlags{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "List the categorized articles for the window without writing a bulletin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := root.load()
			if err := cfg.ValidateSearch(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			return withApplication(cmd.Context(), cfg, logger, func(ctx context.Context, application *app.Application) error {
				window, articles, err := application.Search(ctx, run.options())
				if err != nil {
					return err
				}
				presenter.PrintArticles(cmd.OutOrStdout(), window, articles)
				return nil
			})
		},
	}

	run.bind(cmd)
	return cmd
}

func newScheduleCommand(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Generate bulletins on the configured cron until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := root.load()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			return withApplication(cmd.Context(), cfg, logger, func(ctx context.Context, application *app.Application) error {
				return application.Schedule(ctx)
			})
		},
	}
}

func withApplication(ctx context.Context, cfg config.Config, logger *slog.Logger, fn func(context.Context, *app.Application) error) error {
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("shutdown", "error", err)
		}
	}()

	return fn(ctx, application)
}
