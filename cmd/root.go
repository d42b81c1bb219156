package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the mailrag application
var rootCmd = &cobra.Command{
	Use:   "mailrag",
	Short: "Ingests mailbox messages into a vector store and answers questions about them",
	Long: `mailrag syncs messages from a mailbox provider (Gmail or IMAP) into a
Chroma vector collection and answers natural-language questions against them
using a retrieval-augmented generation chain.

Typical flow:
  mailrag ingest --query "newer_than:30d"
  mailrag chat "what emails mention quarterly reports?"`,
	SilenceUsage: true,
}

// Execute is the main entry point for the CLI application
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newVectorizeCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newWatchCmd())
}
