package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/transitoria/internal/allocation"
	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/config"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "transitoria",
		Short: "Period-allocation review for prepaid and accrued ledger lines",
		Long: `transitoria imports general-ledger lines, lets an AI model suggest the
period each amount belongs to, and keeps a reviewer's approvals and
corrections in an append-only audit log.

The time-shift view compares what was booked per month with what
economically belongs to that month.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/transitoria/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("database", "", "database path (default: $HOME/.local/share/transitoria/transitoria.db)")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("database"))

	setDefaults(viper.GetViper())

	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(pasteCmd())
	rootCmd.AddCommand(demoCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(approveCmd())
	rootCmd.AddCommand(correctCmd())
	rootCmd.AddCommand(commentCmd())
	rootCmd.AddCommand(timeshiftCmd())
	rootCmd.AddCommand(auditCmd())
	rootCmd.AddCommand(completenessCmd())
	rootCmd.AddCommand(reviewCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(versionCmd())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("allocation.precision", allocation.DefaultPrecision)
	v.SetDefault("allocation.policy", "fallback")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay", "2s")
	v.SetDefault("llm.cache_ttl", "15m")
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.rate_limit", 60)
	v.SetDefault("server.addr", "localhost:8080")
	v.SetDefault("server.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.watch_settle", "500ms")
	v.SetDefault("server.cert_dir", "$HOME/.config/transitoria/certs")
	config.SetDefaults(v)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(fmt.Sprintf("%s/.config/transitoria", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TRANSITORIA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := common.SetupLogger(viper.GetString("logging.level"), viper.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "transitoria %s\n", version)
		},
	}
}
