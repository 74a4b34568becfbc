package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "warelay",
	Short: "warelay - WhatsApp webhook to LLM relay",
	Long:  `warelay receives WhatsApp messages via a bridge webhook, forwards them to an LLM completion API, and replies to the same chat as text or a synthesized voice note.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
