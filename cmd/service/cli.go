package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"campus-events/internal/config"
	"campus-events/internal/database"
	"campus-events/internal/store"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	loadDotEnv      = func() error { return godotenv.Load() }
	loadConfig      = config.Load
	loadDatabase    = config.LoadDatabase
	runMigrationsFn = database.RunMigrations
	rollbackFn      = database.RollbackAll
	setPermissions  = store.SetUserPermissions
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "campus-events",
		Short:         "Campus event posting API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env 不存在時直接使用環境變數
			if err := loadDotEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("讀取 .env 失敗: %w", err)
			}
			config.NewLogger(config.LoggingFromEnv())
			return nil
		},
		RunE: runServe,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newGrantCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg)
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the embedded schema migrations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, err := loadDatabase()
				if err != nil {
					return err
				}
				if err := runMigrationsFn(db.URL); err != nil {
					return fmt.Errorf("Migration 執行失敗: %w", err)
				}
				log.Info().Msg("migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration (drops all data)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, err := loadDatabase()
				if err != nil {
					return err
				}
				if err := rollbackFn(db.URL); err != nil {
					return fmt.Errorf("RollbackAll 失敗: %w", err)
				}
				log.Info().Msg("migrations rolled back")
				return nil
			},
		},
	)
	return cmd
}

// newGrantCmd 是調整發文權限的唯一途徑，API 不提供這個功能
func newGrantCmd() *cobra.Command {
	var admin, revoke bool
	cmd := &cobra.Command{
		Use:   "grant <email>",
		Short: "Allow (or with --revoke, forbid) a user to post events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbCfg, err := loadDatabase()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := newPgxPool(ctx, dbCfg.URL)
			if err != nil {
				return fmt.Errorf("DB 連線失敗: %w", err)
			}
			defer db.Close()

			var isAdmin *bool
			if cmd.Flags().Changed("admin") {
				isAdmin = &admin
			}
			email := strings.ToLower(strings.TrimSpace(args[0]))
			if err := setPermissions(ctx, db, email, !revoke, isAdmin); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("找不到使用者 %s", email)
				}
				return err
			}
			log.Info().Str("email", email).Bool("can_post_events", !revoke).Msg("permissions updated")
			return nil
		},
	}
	cmd.Flags().BoolVar(&admin, "admin", false, "also set (or with --admin=false clear) the admin flag")
	cmd.Flags().BoolVar(&revoke, "revoke", false, "revoke event posting instead of granting it")
	return cmd
}
