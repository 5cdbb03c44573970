package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/originals/collab-client/client"
	"github.com/originals/collab-client/internal/logger"
)

var (
	apiURL    string
	debug     bool
	logFormat string
	timeout   time.Duration
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "originals",
		Short:         "Browse collaborations, ping creators and manage matches",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			if logFormat == "json" {
				log.Logger = logger.New("originals-cli", os.Stderr)
			} else {
				log.Logger = logger.Console(os.Stderr)
			}
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				_ = os.Setenv("ORIGINALS_DEBUG", "true")
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL (overrides ORIGINALS_API_BASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format: console or json")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Second, "Overall command timeout")

	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newOnboardingCmd())
	rootCmd.AddCommand(newFeedCmd())
	rootCmd.AddCommand(newCreatePostingCmd())
	rootCmd.AddCommand(newUpdatePostingCmd())
	rootCmd.AddCommand(newPingCmd())
	rootCmd.AddCommand(newPingsCmd())
	rootCmd.AddCommand(newRespondCmd())
	rootCmd.AddCommand(newMatchesCmd())
	rootCmd.AddCommand(newMessagesCmd())
	rootCmd.AddCommand(newSendCmd())
	rootCmd.AddCommand(newMarkReadCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newCoinCmd())

	return rootCmd
}

// session builds a client from the environment and resolves the wallet.
// The returned cleanup closes the client and cancels the context.
func session(cmd *cobra.Command) (*client.Client, context.Context, func(), error) {
	cfg, err := client.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	c, err := client.New(*cfg, providerFromEnv(time.Now()))
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	cleanup := func() {
		cancel()
		_ = c.Close()
	}

	start := time.Now()
	wallet, err := c.Start(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("session start incomplete")
	}
	log.Debug().Str("wallet", wallet).Str("api_url", cfg.APIBaseURL).Dur("elapsed", time.Since(start)).Msg("session started")
	return c, ctx, cleanup, nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
