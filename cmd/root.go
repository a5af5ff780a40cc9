package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/amgomez49/SF-desuscripcion/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "desuscripcion",
	Short: "Unsubscribe form in the terminal",
	Long:  `desuscripcion runs the unsubscribe page in the terminal and submits it to the active profile's endpoint.`,
	Run: func(cmd *cobra.Command, args []string) {
		runApplication()
	},
}

func runApplication() {
	application, err := app.NewApplication()
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer application.Stop()

	if err := application.Start(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(profileCmd)
}
