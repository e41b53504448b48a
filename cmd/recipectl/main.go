// Command recipectl is a terminal client for a Recipebox server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/recipebox/pkg/recipesdk"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"
	"github.com/spf13/cobra"
)

const version = "v0.1.0"

// options holds the global flags shared by every subcommand.
type options struct {
	server  string
	token   string
	timeout time.Duration
	verbose bool
	asJSON  bool

	logger *slog.Logger
	client *recipesdk.Client
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "recipectl",
		Short: "Recipebox command line client",
		Long: `recipectl talks to a Recipebox server.

The server URL comes from --server or RECIPES_SERVER, the bearer token from
--token or RECIPES_TOKEN. Run "recipectl login" and export the printed token
to use the authenticated commands.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			opts.logger = slogx.New(slogx.Config{
				Service: "recipectl",
				Version: version,
				Level:   level,
				Format:  "text",
				Output:  cmd.ErrOrStderr(),
			})

			if opts.server == "" {
				opts.server = envOrDefault("RECIPES_SERVER", "http://localhost:8000")
			}
			if opts.token == "" {
				opts.token = os.Getenv("RECIPES_TOKEN")
			}

			opts.client = recipesdk.NewClient(opts.server)
			opts.client.SetToken(opts.token)
			opts.logger.Debug("client ready", "server", opts.client.BaseURL, "authenticated", opts.token != "")
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.server, "server", "s", "", "Server base URL (or set RECIPES_SERVER)")
	root.PersistentFlags().StringVar(&opts.token, "token", "", "Bearer token (or set RECIPES_TOKEN)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 90*time.Second, "Request timeout")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print raw JSON responses")

	root.AddCommand(newSignupCmd(opts))
	root.AddCommand(newLoginCmd(opts))
	root.AddCommand(newMeCmd(opts))
	root.AddCommand(newRecipesCmd(opts))
	root.AddCommand(newFavoritesCmd(opts))
	root.AddCommand(newCommentsCmd(opts))
	root.AddCommand(newAICmd(opts))

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withTimeout bounds a command by the --timeout flag.
func (o *options) withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

// printJSON writes v as indented JSON. Used for --json and for values that
// have no table form.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
