package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/PratikDhanave/event-relay-service/internal/composer"
	"github.com/PratikDhanave/event-relay-service/internal/models"
)

var rootCmd = &cobra.Command{
	Use:   "eventctl",
	Short: "Fire tracked events at an event relay",
}

type sendFlags struct {
	relayURL  string
	value     string
	currency  string
	data      []string
	pageURL   string
	userAgent string
	fbc       string
	fbp       string
	verbose   bool
	timeout   time.Duration
}

func init() {
	rootCmd.AddCommand(newSendCmd())
}

func newSendCmd() *cobra.Command {
	var f sendFlags

	cmd := &cobra.Command{
		Use:     "send EVENT_NAME",
		Short:   "Compose one event and post it to the relay",
		Example: "  eventctl send Purchase --value 1000.00 --currency UYU",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			custom, err := customData(f)
			if err != nil {
				return err
			}
			return runSend(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], custom, f)
		},
	}

	cmd.Flags().StringVar(&f.relayURL, "relay", getEnv("RELAY_URL", "http://localhost:8080"), "relay origin")
	cmd.Flags().StringVar(&f.value, "value", "", "custom_data.value, e.g. 1000.00")
	cmd.Flags().StringVar(&f.currency, "currency", "", "custom_data.currency, e.g. UYU")
	cmd.Flags().StringArrayVar(&f.data, "data", nil, "extra custom_data entry as key=value (repeatable)")
	cmd.Flags().StringVar(&f.pageURL, "url", "", "event_source_url to report")
	cmd.Flags().StringVar(&f.userAgent, "user-agent", "eventctl", "client_user_agent to report")
	cmd.Flags().StringVar(&f.fbc, "fbc", "", "value of the _fbc cookie")
	cmd.Flags().StringVar(&f.fbp, "fbp", "", "value of the _fbp cookie")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log composer activity to stderr")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 15*time.Second, "give up on the relay after this long")

	return cmd
}

// customData merges --data pairs with --value/--currency, the latter taking precedence.
func customData(f sendFlags) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	for _, kv := range f.data {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("--data %q: want key=value", kv)
		}
		out[k] = v
	}
	if f.value != "" {
		out["value"] = f.value
	}
	if f.currency != "" {
		out["currency"] = f.currency
	}
	return out, nil
}

// runSend never fails on relay errors: like the page, it only reports what came back.
func runSend(ctx context.Context, stdout, stderr io.Writer, eventName string, custom map[string]interface{}, f sendFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	level := slog.LevelError
	if f.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	env := composer.StaticEnvironment{
		URL:   f.pageURL,
		Agent: f.userAgent,
		Cookies: map[string]string{
			models.CookieFBC: f.fbc,
			models.CookieFBP: f.fbp,
		},
	}

	c := composer.New(log, composer.Config{RelayURL: f.relayURL}, env)

	reply := c.Send(ctx, eventName, custom)
	if reply == nil {
		fmt.Fprintln(stdout, "no reply from relay")
		return nil
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(reply)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
