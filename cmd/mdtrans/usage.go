package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nao1215/mdtrans/internal/translator"
	"github.com/spf13/cobra"
)

// NewUsageCmd creates the usage command.
func NewUsageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show DeepL character quota usage",
		Long: `Usage queries the DeepL usage endpoint and prints the character quota
consumed in the current billing period.

Requires the DEEPL_API_KEY environment variable.

Examples:
  # Show quota state
  mdtrans usage`,
		RunE: runUsageCmd,
	}
}

// runUsageCmd executes the usage command.
func runUsageCmd(cmd *cobra.Command, _ []string) error {
	apiKey := os.Getenv("DEEPL_API_KEY")

	// Languages are irrelevant for quota queries.
	deepl, err := translator.NewDeepL(apiKey, "", "")
	if err != nil {
		return err
	}

	usage, err := deepl.Usage(context.Background())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "DeepL character quota")
	fmt.Fprintf(out, "  used:  %d\n", usage.CharacterCount)
	fmt.Fprintf(out, "  limit: %d\n", usage.CharacterLimit)
	if usage.CharacterLimit > 0 {
		percent := float64(usage.CharacterCount) / float64(usage.CharacterLimit) * 100
		fmt.Fprintf(out, "  usage: %.1f%%\n", percent)
	}
	if usage.Exhausted() {
		fmt.Fprintln(out, "\nQuota exhausted. Translation requests will fail until the period resets.")
	}

	return nil
}
