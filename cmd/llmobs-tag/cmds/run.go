package cmds

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/llmobs/pkg/config"
	"github.com/go-go-golems/llmobs/pkg/events"
	"github.com/go-go-golems/llmobs/pkg/helpers"
	"github.com/go-go-golems/llmobs/pkg/integrations/anthropic"
	"github.com/go-go-golems/llmobs/pkg/llmobs"
	"github.com/go-go-golems/llmobs/pkg/spans"
)

const SpanName = "anthropic.request"

type RunSettings struct {
	Typed bool
}

func NewRunCommand(v *viper.Viper) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "run FILE...",
		Short: "Replay recorded Messages API calls and print the tagged span records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(v)
			if err != nil {
				return err
			}
			typed, err := cmd.Flags().GetBool("typed")
			if err != nil {
				return err
			}

			fixtures, err := LoadFixtures(args...)
			if err != nil {
				return err
			}

			return Run(cmd.Context(), cmd.OutOrStdout(), settings, &RunSettings{Typed: typed}, fixtures)
		},
	}

	cmd.Flags().Bool("typed", false, "Decode responses into typed Messages API structs before tagging")
	cmd.Flags().Bool("enabled", false, "Enable LLM observability tags (LLMOBS_ENABLED)")
	cmd.Flags().Bool("validate", false, "Validate message tags against the messages schema before export (LLMOBS_VALIDATE_MESSAGES)")
	cmd.Flags().String("ml-app", "", "Application name tagged on every span (LLMOBS_ML_APP)")
	cmd.Flags().String("topic", config.DefaultTopic, "Topic span records are exported to")

	for key, flag := range map[string]string{
		"enabled":           "enabled",
		"validate_messages": "validate",
		"ml_app":            "ml-app",
		"topic":             "topic",
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, err
		}
	}

	return cmd, nil
}

// Run traces every fixture on its own span, exports the finished records
// through an in-process span router and writes them to w as YAML documents in
// fixture order.
func Run(ctx context.Context, w io.Writer, settings *config.Settings, rs *RunSettings, fixtures []Fixture) error {
	if ctx == nil {
		ctx = context.Background()
	}

	router, err := events.NewSpanRouter(events.WithLogger(helpers.NewWatermill(log.Logger)))
	if err != nil {
		return err
	}
	defer func() {
		_ = router.Close()
	}()

	var mu sync.Mutex
	received := map[string]spans.Record{}
	router.AddRecordHandler("collect", settings.Topic, func(r spans.Record) error {
		mu.Lock()
		defer mu.Unlock()
		received[r.SpanID] = r
		return nil
	})

	integration := anthropic.NewIntegration(anthropic.WithSettings(settings))
	exporter := events.NewExporter(router.Publisher, settings.Topic,
		events.WithMessageValidation(settings.ValidateMessages))
	spanIDs := make([]string, len(fixtures))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return router.Run(ctx)
	})
	eg.Go(func() error {
		defer cancel()
		select {
		case <-router.Running():
		case <-ctx.Done():
			return nil
		}

		traces := errgroup.Group{}
		for i := range fixtures {
			i := i
			traces.Go(func() error {
				span := spans.NewRecordingSpan(SpanName)
				spanIDs[i] = span.Snapshot().SpanID
				span.SetSource(fixtures[i].Name)
				if settings.MLApp != "" {
					span.SetTag(llmobs.MLApp, settings.MLApp)
				}

				traceFixture(integration, span, fixtures[i], rs)
				span.Finish()

				return exporter.Export(ctx, span.Snapshot())
			})
		}
		return traces.Wait()
	})

	if err := eg.Wait(); err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	encoder := yaml.NewEncoder(w)
	defer func() {
		_ = encoder.Close()
	}()
	for i, id := range spanIDs {
		record, ok := received[id]
		if !ok {
			return errors.Errorf("span record for %s was not delivered", fixtures[i].Name)
		}
		if err := encoder.Encode(record); err != nil {
			return err
		}
	}
	return nil
}

// traceFixture replays the recorded call. The replayed call's own error is
// part of the record, not a failure of the run.
func traceFixture(integration *anthropic.Integration, span *spans.RecordingSpan, f Fixture, rs *RunSettings) {
	_, err := integration.Trace(span, f.Kwargs, f.APIKey, func() (any, error) {
		if f.Error != "" {
			return nil, errors.New(f.Error)
		}
		if rs.Typed && f.Response != nil {
			return f.TypedResponse()
		}
		return f.Response, nil
	})
	if err != nil {
		log.Debug().Err(err).Str("fixture", f.Name).Msg("replayed call failed")
	}
}
