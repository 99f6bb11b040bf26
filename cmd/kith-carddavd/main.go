// Command kith-carddavd serves the ledger over CardDAV.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/kithhq/kith/internal/carddav"
	"github.com/kithhq/kith/pkg/kithconfig"
	"github.com/kithhq/kith/pkg/kithlog"
	"github.com/kithhq/kith/pkg/ledger"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "kith-carddavd",
	Short: "Serve a kith ledger over CardDAV",
	Long:  `kith-carddavd exposes a fact ledger as a single-addressbook CardDAV server.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the CardDAV server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := kithconfig.Load(ctx, configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := charmlog.InfoLevel
		if verbose {
			level = charmlog.DebugLevel
		}
		logger := kithlog.NewStd("kith-carddavd", level)

		store, err := ledger.Open(ctx, cfg.Server.DBPath)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer store.Close()

		handler := carddav.New(store, cfg, logger)
		logger.Info("listening", "addr", cfg.Server.ListenAddr, "db", cfg.Server.DBPath)
		return http.ListenAndServe(cfg.Server.ListenAddr, handler)
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash suitable for KITH_AUTH_BCRYPT_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		fmt.Println(string(hash))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")
	rootCmd.AddCommand(serveCmd, hashPasswordCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
