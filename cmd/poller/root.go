package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/poller"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errJobFailed makes the process exit non-zero when the transcription failed.
var errJobFailed = errors.New("transcription job failed")

// newRootCommand builds the poller CLI. Every flag can also be set through a
// POLLER_ prefixed environment variable, e.g. POLLER_BASE_URL.
func newRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("poller")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "poller <job-name>",
		Short:         "Wait for a transcription job to complete or fail",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := poller.Config{
				BaseURL:         v.GetString("base-url"),
				InitialInterval: v.GetDuration("initial-interval"),
				MaxInterval:     v.GetDuration("max-interval"),
				MaxElapsed:      v.GetDuration("max-elapsed"),
				MaxPolls:        v.GetInt("max-polls"),
				Jitter:          v.GetFloat64("jitter"),
			}
			if cfg.BaseURL == "" {
				return errors.New("base URL is required")
			}
			client := &http.Client{Timeout: v.GetDuration("request-timeout")}

			ctx := cmd.Context()
			logger.Infof(ctx, "🚀  Polling transcription job %q on %s", args[0], cfg.BaseURL)
			res, err := poller.New(cfg, client).Poll(ctx, args[0])
			if err != nil {
				if errors.Is(err, poller.ErrPollingAbandoned) {
					logger.Warnf(ctx, "⚠️  Gave up on transcription job %q after %d poll(s)", args[0], res.Polls)
				}
				return err
			}

			if err := printResult(cmd, res, v.GetBool("json")); err != nil {
				return err
			}
			if res.Status == model.TranscriptionStatusFailed {
				return fmt.Errorf("%w: %s", errJobFailed, res.Error)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("base-url", "http://localhost:8080", "Base URL of the videos service")
	flags.Duration("initial-interval", poller.DefaultInitialInterval, "Delay before the second poll")
	flags.Duration("max-interval", poller.DefaultMaxInterval, "Upper bound for the delay between polls")
	flags.Duration("max-elapsed", poller.DefaultMaxElapsed, "Give up once this much time has passed")
	flags.Int("max-polls", poller.DefaultMaxPolls, "Give up after this many polls")
	flags.Float64("jitter", 0.2, "Randomization factor applied to each delay")
	flags.Duration("request-timeout", 30*time.Second, "Timeout of a single status request")
	flags.Bool("json", false, "Print the result as JSON")
	_ = v.BindPFlags(flags)

	return cmd
}

func printResult(cmd *cobra.Command, res poller.Result, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	switch res.Status {
	case model.TranscriptionStatusCompleted:
		_, err := fmt.Fprintf(out, "%s completed after %d poll(s)\ntranscript: %s\n", res.JobName, res.Polls, res.TranscriptURL)
		return err
	default:
		_, err := fmt.Fprintf(out, "%s failed after %d poll(s)\nreason: %s\n", res.JobName, res.Polls, res.Error)
		return err
	}
}
