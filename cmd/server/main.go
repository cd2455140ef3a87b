// Package main provides the test-auth plugin entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/id-contact/test-auth/internal/config"
	"github.com/id-contact/test-auth/internal/logging"
	"github.com/id-contact/test-auth/internal/server"
	"github.com/id-contact/test-auth/internal/version"
)

var (
	configFile string
	rootCmd    = &cobra.Command{
		Use:   "test-auth",
		Short: "ID Contact test authentication plugin",
		Long: `test-auth is a mock authentication plugin for the ID Contact ecosystem.
It returns preconfigured attributes as a successful authentication result
without performing real authentication, for use in test environments only.`,
		RunE: run,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", defaultConfigPath(), "config file path")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Full())
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if err := config.LoadAndValidate(configFile, &cfg); err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}
			fmt.Println("Configuration is valid")
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a commented example configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(configFile); err == nil {
				return fmt.Errorf("refusing to overwrite existing config: %s", configFile)
			}
			if err := os.WriteFile(configFile, []byte(config.DefaultConfigTemplate), 0600); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Printf("Wrote example configuration to %s\n", configFile)
			return nil
		},
	})
}

// defaultConfigPath honors the TEST_AUTH_CONFIG environment variable used by
// the deployment scripts, falling back to config.yaml.
func defaultConfigPath() string {
	if path := os.Getenv("TEST_AUTH_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if err := config.LoadAndValidate(configFile, &cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	srv, err := server.New(&cfg)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	sig := <-sigChan
	logging.Info("received shutdown signal", "signal", sig.String())
	cancel()
	return srv.Stop(context.Background())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
