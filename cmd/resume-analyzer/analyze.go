package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"alfredoptarigan/resume-analyzer/internal/services"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a resume file and print the result",
	Long:  "Runs extraction, prompt building, the model call and normalization on a local file. Nothing is uploaded or stored.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeMime        string
	analyzeAPIKey      string
	analyzeModel       string
	analyzeTimeout     time.Duration
	analyzeMaxAttempts int
	analyzeVerbose     bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeMime, "mime", "", "MIME type of the file (default: guessed from extension)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	analyzeCmd.Flags().StringVarP(&analyzeModel, "model", "m", services.DefaultGeminiModel, "Gemini model name")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 60*time.Second, "Model call timeout")
	analyzeCmd.Flags().IntVar(&analyzeMaxAttempts, "max-attempts", 1, "Attempts for transient model failures")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Log pipeline progress to stderr")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := zerolog.Nop()
	if analyzeVerbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	}

	apiKey := analyzeAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set and --api-key was not given")
	}

	file, err := loadFile(args[0], analyzeMime)
	if err != nil {
		return err
	}

	text, err := services.NewTextExtractor().ExtractText(file)
	if err != nil {
		return userFacing(err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:      apiKey,
		Model:       analyzeModel,
		Temperature: 0.3,
		Timeout:     analyzeTimeout,
		MaxAttempts: analyzeMaxAttempts,
	}, logger)
	if err != nil {
		return err
	}

	result, err := services.NewEvaluatorService(gemini, logger).EvaluateText(ctx, text)
	if err != nil {
		return userFacing(err)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// userFacing keeps the end-user message and the cause for the terminal.
func userFacing(err error) error {
	_, message := services.UserMessage(err)
	return fmt.Errorf("%s (%w)", message, err)
}
