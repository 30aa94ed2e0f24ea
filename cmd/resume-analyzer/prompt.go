package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-analyzer/internal/services"
)

var promptCmd = &cobra.Command{
	Use:   "prompt <file>",
	Short: "Print the model prompt built for a resume file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrompt,
}

var promptMime string

func init() {
	promptCmd.Flags().StringVar(&promptMime, "mime", "", "MIME type of the file (default: guessed from extension)")

	rootCmd.AddCommand(promptCmd)
}

func runPrompt(cmd *cobra.Command, args []string) error {
	file, err := loadFile(args[0], promptMime)
	if err != nil {
		return err
	}

	text, err := services.NewTextExtractor().ExtractText(file)
	if err != nil {
		return userFacing(err)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), services.NewPromptBuilder().BuildResumeAnalysisPrompt(text))
	return err
}
