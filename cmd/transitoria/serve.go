package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/transitoria/internal/api"
	"github.com/Veraticus/transitoria/internal/certs"
	"github.com/Veraticus/transitoria/internal/config"
	"github.com/Veraticus/transitoria/internal/importer"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard JSON API",
		Long: `Serve the review dashboard API on server.addr.

With server.jwt_secret set every /api request needs a bearer token whose
subject is recorded as the reviewer; use --issue-token to mint one. With
--watch, files dropped in a directory are imported automatically.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("addr", "", "listen address (default: server.addr)")
	cmd.Flags().String("watch", "", "directory to watch for new import files")
	cmd.Flags().String("issue-token", "", "print a bearer token for this reviewer and exit")
	cmd.Flags().Duration("token-ttl", 30*24*time.Hour, "lifetime of tokens minted with --issue-token")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed localhost certificate")

	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.watch_dir", cmd.Flags().Lookup("watch"))
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	secret := []byte(viper.GetString("server.jwt_secret"))

	if user, _ := cmd.Flags().GetString("issue-token"); user != "" {
		if len(secret) == 0 {
			return fmt.Errorf("server.jwt_secret must be set to issue tokens")
		}
		ttl, _ := cmd.Flags().GetDuration("token-ttl")
		token, err := api.IssueToken(secret, user, ttl, time.Now())
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		printOut(cmd, token)
		return nil
	}

	s, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	eng, cleanup, err := newEngine(ctx, s.store)
	if err != nil {
		return err
	}
	defer cleanup()

	var cert *tls.Certificate
	if viper.GetBool("server.tls") {
		c, err := certs.NewFileManager(config.ExpandPath(viper.GetString("server.cert_dir"))).GetOrCreateCertificate()
		if err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
		cert = &c
	}

	srv, err := api.New(ctx, api.Config{
		Store:        s.store,
		Engine:       eng,
		Logger:       slog.Default(),
		AllowOrigins: viper.GetStringSlice("server.allow_origins"),
		JWTSecret:    secret,
		TLS:          cert,
		Settings:     s.settings,
	})
	if err != nil {
		return err
	}

	if dir := viper.GetString("server.watch_dir"); dir != "" {
		dir = config.ExpandPath(dir)
		w := importer.NewWatcher(dir, viper.GetDuration("server.watch_settle"), importDropped(s), slog.Default())
		go func() {
			if err := w.Run(ctx); err != nil {
				slog.Error("Import watcher stopped", "dir", dir, "error", err)
			}
		}()
	}

	return srv.ListenAndServe(ctx, viper.GetString("server.addr"))
}

// importDropped appends the lines of a dropped file. The watcher logs
// failures and keeps running.
func importDropped(s *session) importer.FileHandler {
	loader := importer.NewLoader(nil)
	return func(ctx context.Context, path string) error {
		txns, err := loader.Load(ctx, path)
		if err != nil {
			return err
		}
		if err := s.store.Import(ctx, txns); err != nil {
			return err
		}
		slog.Info("Imported dropped file", "file", filepath.Base(path), "count", len(txns))
		return nil
	}
}
