package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/curaious/companion/internal/config"
	"github.com/curaious/companion/internal/telemetry"
	"github.com/curaious/companion/internal/upsert"
	"github.com/curaious/companion/pkg/companionform"
	"github.com/curaious/companion/pkg/sdk"
	"github.com/spf13/cobra"
)

// consoleNavigator reports where a browser would go next.
type consoleNavigator struct{}

func (consoleNavigator) Refresh(ctx context.Context) {
	slog.DebugContext(ctx, "Refreshing companion listings")
}

func (consoleNavigator) NavigateTo(ctx context.Context, route string) {
	slog.InfoContext(ctx, "Navigating", slog.String("route", route))
}

func consoleFeedback(ctx context.Context, n companionform.Notice) {
	if n.Variant == companionform.VariantDestructive {
		slog.ErrorContext(ctx, n.Message)
		return
	}
	slog.InfoContext(ctx, n.Message)
}

func newClient(conf *config.Config) (*sdk.SDK, error) {
	return sdk.New(&sdk.ClientOptions{
		Endpoint: conf.COMPANION_ENDPOINT,
		Timeout:  conf.HTTPTimeout(),
	})
}

var upsertCmd = &cobra.Command{
	Use:   "upsert",
	Short: "Create or update a companion from a YAML draft",
	Long:  "Submit the draft in --file to the companion server.\nWith --id the existing companion is updated, otherwise a new one is created.\ncategoryId may hold either the category ID or its name.",
	Run: func(cmd *cobra.Command, args []string) {
		conf := config.ReadConfig()

		shutdownTelemetry := telemetry.NewProvider("companion-cli", conf.OTEL_EXPORTER_OTLP_ENDPOINT)
		defer shutdownTelemetry()

		file, err := cmd.Flags().GetString("file")
		if err != nil || file == "" {
			fmt.Println("Flag `file` is required")
			os.Exit(1)
		}

		id, err := cmd.Flags().GetString("id")
		if err != nil {
			fmt.Println("Unable to read flag `id`", err)
			os.Exit(1)
		}

		draft, err := upsert.LoadDraft(file)
		if err != nil {
			fmt.Println("Unable to load draft", err)
			os.Exit(1)
		}

		client, err := newClient(conf)
		if err != nil {
			fmt.Println("Unable to create client", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), conf.HTTPTimeout())
		defer cancel()

		result, err := upsert.Run(ctx, client, draft, upsert.Options{
			ID:        id,
			Feedback:  companionform.FeedbackFunc(consoleFeedback),
			Navigator: consoleNavigator{},
		})
		if err != nil {
			fmt.Println("Unable to submit companion", err)
			os.Exit(1)
		}

		switch result.Outcome {
		case companionform.OutcomeSucceeded:
			return
		case companionform.OutcomeInvalid:
			for _, f := range companionform.Fields {
				if msg, ok := result.Errors[f]; ok {
					fmt.Printf("%s: %s\n", f, msg)
				}
			}
		default:
			slog.Error("Submission failed", slog.Any("error", result.Cause))
		}
		os.Exit(1)
	},
}

// Register the "upsert" command
func init() {
	upsertCmd.Flags().StringP("file", "f", "", "YAML file holding the companion draft")
	upsertCmd.Flags().String("id", "", "ID of the companion to update")
	rootCmd.AddCommand(upsertCmd)
}
