package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "helpassist",
	Short: "In-app conversational help engine and knowledge base admin",
	Long: `Helpassist runs the in-app help assistant: a keyword-based topic
resolver over a curated knowledge base, the conversation widget
endpoint, and the admin API for editing the knowledge base entries
the resolver answers from.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".helpassist.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
