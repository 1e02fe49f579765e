// Package main provides the entry point for the mdtrans CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for mdtrans.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mdtrans",
		Short: "Markdown-aware documentation translator",
		Long: `mdtrans translates a project's markdown documentation between natural
languages while preserving structure. Code blocks, inline code, links,
bold spans, tables, and heading anchors survive the round trip.

Documents and their translated names are configured in .mdtrans.yaml.
Unchanged documents are skipped via a content-fingerprint cache.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewTranslateCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewUsageCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
