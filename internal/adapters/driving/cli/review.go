package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

var (
	reviewUseLLM bool
	reviewTopK   int
	reviewOut    string
	reviewJSON   bool
)

var reviewCmd = &cobra.Command{
	Use:   "review <file>...",
	Short: "Analyze .docx documents for compliance issues",
	Long: `Review runs the full pipeline over one or more .docx documents:
classification, red-flag checks, process inference against the
incorporation checklist, and (with --llm) grounded LLM review.

Each document gets a reviewed copy with inline annotations, and the
batch gets a JSON artifact summarising every finding. Documents that
cannot be read are reported at the end; the rest of the batch still
processes, and the command exits non-zero.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().BoolVar(&reviewUseLLM, "llm", false, "enable grounded LLM review")
	reviewCmd.Flags().StringVar(&corpusDirOverride, "corpus", "", "override the reference corpus folder")
	reviewCmd.Flags().StringVarP(&reviewOut, "out", "o", "", "output directory for reviewed copies and the JSON artifact")
	reviewCmd.Flags().IntVar(&reviewTopK, "top-k", 0, "reference chunks retrieved per reviewed paragraph")
	reviewCmd.Flags().BoolVar(&reviewJSON, "json", false, "output the analysis result as JSON")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	if err := ensureSettingsService(); err != nil {
		return err
	}
	if err := ensureAnalysisStack(cmd.Context()); err != nil {
		return err
	}
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	opts := domain.AnalyzeOptions{
		UseLLM:    reviewUseLLM,
		TopK:      reviewTopK,
		OutputDir: reviewOut,
	}

	result, analyzeErr := analysisService.AnalyzeBatch(cmd.Context(), args, opts)
	if result != nil {
		if reviewJSON {
			if err := outputResultJSON(cmd, result); err != nil {
				return err
			}
		} else {
			outputResultTable(cmd, result)
		}
	}
	if analyzeErr != nil {
		return fmt.Errorf("analyze: %w", analyzeErr)
	}
	return nil
}

func outputResultJSON(cmd *cobra.Command, result *domain.AnalysisResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResultTable(cmd *cobra.Command, result *domain.AnalysisResult) {
	cmd.Printf("Process: %s\n", result.Process)
	cmd.Printf("Documents uploaded: %d\n", result.DocumentsUploaded)
	if result.RequiredDocuments != nil {
		cmd.Printf("Required documents: %d\n", *result.RequiredDocuments)
	}
	if len(result.MissingDocuments) > 0 {
		cmd.Println("Missing documents:")
		for _, name := range result.MissingDocuments {
			cmd.Printf("  - %s\n", name)
		}
	}

	cmd.Println()
	for _, doc := range result.Summary {
		issues := "no issues"
		if doc.IssuesFound == 1 {
			issues = "1 issue"
		} else if doc.IssuesFound > 1 {
			issues = fmt.Sprintf("%d issues", doc.IssuesFound)
		}
		cmd.Printf("  %s (%s): %s\n", doc.File, doc.Type, issues)
	}

	if len(result.Issues) > 0 {
		cmd.Printf("\nFound %d issues:\n\n", len(result.Issues))
		for i, issue := range result.Issues {
			cmd.Printf("%d. [%s] %s: %s\n", i+1, issue.Severity, issue.Document, issue.Issue)
			if issue.Section != "" {
				cmd.Printf("   Section: %s\n", issue.Section)
			}
			if issue.Suggestion != "" {
				cmd.Printf("   Suggestion: %s\n", issue.Suggestion)
			}
		}
	}

	if len(result.ReviewedFiles) > 0 {
		cmd.Println("\nReviewed copies:")
		for _, path := range result.ReviewedFiles {
			cmd.Printf("  %s\n", path)
		}
	}
}
