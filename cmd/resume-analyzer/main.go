// Package main provides a command line front end to the resume analysis pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume-analyzer",
	Short: "Resume ATS analyzer",
	Long:  "Extracts text from a resume, asks the model for an ATS assessment and prints the normalized result as JSON.",
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
