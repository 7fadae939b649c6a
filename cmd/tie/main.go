package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/chriscorrea/tie/internal/config"
	"github.com/chriscorrea/tie/internal/dataset"
	"github.com/chriscorrea/tie/internal/evaluate"
	"github.com/chriscorrea/tie/internal/spinner"
	"github.com/chriscorrea/tie/internal/tie"

	"github.com/spf13/cobra"
)

// settingFlags maps command-line flags onto config keys. Only flags the user set
// override the config file and environment.
var settingFlags = map[string]string{
	"alpha":       "alpha",
	"window-days": "window_days",
	"max-reviews": "max_reviews",
	"tokenizer":   "tokenizer",
	"cache-size":  "cache_size",
	"timezone":    "timezone",
	"top":         "top_k",
}

// loadConfig layers explicitly set flags over the config file and environment
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	overrides := make(map[string]any)
	for flagName, key := range settingFlags {
		f := cmd.Flags().Lookup(flagName)
		if f == nil || !f.Changed {
			continue
		}
		overrides[key] = f.Value.String()
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, overrides)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// setupLogger configures the default slog logger: errors only unless verbose or debug
func setupLogger(verbose, debug bool) {
	level := slog.LevelError
	switch {
	case debug:
		level = slog.LevelDebug
	case verbose:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// sourceArg returns the single positional source, defaulting to stdin
func sourceArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

var rootCmd = &cobra.Command{
	Use:   "tie",
	Short: "Recommend code reviewers from review text and changed file paths",
	Long: `Tie recommends reviewers for code changes. It learns incrementally from past
reviews, combining what reviewers have written about with which parts of the tree
they have reviewed recently.

Examples:
  tie evaluate reviews.json --output results.json --model model.json
  tie recommend --model model.json change.json
  tie inspect --model model.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		debug, _ := cmd.Flags().GetBool("debug")
		setupLogger(verbose, debug)
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [reviews.json|URL|-]",
	Short: "Replay a review dataset and measure recommendation accuracy",
	Long: `Evaluate builds a model over the vocabulary and reviewers of a dataset, then
replays it in pairs: ingest one review, recommend reviewers for the next, ingest that
one too. Top-k accuracy and MRR are written as a JSON results document.

The dataset must be a JSON array of reviews sorted by upload time.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		modelPath, _ := cmd.Flags().GetString("model")
		quiet, _ := cmd.Flags().GetBool("quiet")

		// create context with signal handling for graceful shutdown
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		source := sourceArg(args)
		reviews, err := dataset.Load(ctx, source)
		if err != nil {
			return fmt.Errorf("failed to load dataset: %w", err)
		}

		tok, err := cfg.NewTokenizer()
		if err != nil {
			return fmt.Errorf("failed to create tokenizer: %w", err)
		}
		modelCfg, err := cfg.Model(tok)
		if err != nil {
			return err
		}
		model, err := tie.New(dataset.Vocabulary(reviews, tok), dataset.Roster(reviews), modelCfg)
		if err != nil {
			return err
		}

		opts := evaluate.Options{
			MaxReviews:     cfg.MaxReviews,
			RecommendCount: cfg.RecommendCount,
			TopK:           cfg.TopK,
		}
		var sp *spinner.Spinner
		if !quiet && spinner.IsTerminal(os.Stderr) {
			sp = spinner.New(ctx, os.Stderr, "Evaluating reviews")
			opts.Progress = sp.Progress
			sp.Start()
			// Stop is idempotent; the success path stops before printing the summary
			defer sp.Stop()
		}

		report, err := evaluate.Run(ctx, model, reviews, opts)
		if err != nil {
			return fmt.Errorf("evaluation failed: %w", err)
		}

		if output == "" || output == "-" {
			err = report.Write(cmd.OutOrStdout())
		} else {
			err = report.WriteFile(output)
			slog.Info("Recommendation results have been written", "path", output)
		}
		if err != nil {
			return err
		}

		if modelPath != "" {
			if sp != nil {
				sp.UpdateMessage("Saving model")
			}
			if err := model.SaveFile(modelPath); err != nil {
				return err
			}
			slog.Info("Model file has been written", "path", modelPath)
		}

		if sp != nil {
			sp.Stop()
		}
		if !quiet {
			m := report.Metrics
			fmt.Fprintf(cmd.ErrOrStderr(), "Evaluated %d reviews (%d skipped): top-1 %.2f, top-3 %.2f, top-5 %.2f, top-10 %.2f, MRR %.2f\n",
				m.Evaluated, report.Skipped, m.Top1, m.Top3, m.Top5, m.Top10, m.MRR)
		}
		return nil
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend [review.json|URL|-]",
	Short: "Recommend reviewers for a single review using a saved model",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		modelPath, _ := cmd.Flags().GetString("model")
		explain, _ := cmd.Flags().GetBool("explain")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		tok, err := cfg.NewTokenizer()
		if err != nil {
			return fmt.Errorf("failed to create tokenizer: %w", err)
		}
		model, err := tie.LoadFile(modelPath, tok)
		if err != nil {
			return err
		}

		review, err := dataset.LoadReview(ctx, sourceArg(args))
		if err != nil {
			return err
		}

		if explain {
			scores, err := model.Scores(review)
			if err != nil {
				return err
			}
			return writeScores(cmd.OutOrStdout(), scores, cfg.TopK)
		}

		ranked, err := model.Recommend(review, cfg.TopK)
		if err != nil {
			return err
		}
		for _, id := range ranked {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

// writeScores prints the top n score breakdowns as an aligned table
func writeScores(w io.Writer, scores []tie.Score, n int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tREVIEWER\tFUSED\tTEXT\tPATH")
	for i, s := range scores {
		if i >= n {
			break
		}
		fmt.Fprintf(tw, "%d\t%s\t%.4f\t%.4f\t%.4f\n", i+1, s.Reviewer, s.Fused, s.NormText, s.NormPath)
	}
	return tw.Flush()
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize a saved model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		modelPath, _ := cmd.Flags().GetString("model")

		model, err := tie.LoadFile(modelPath, nil)
		if err != nil {
			return err
		}

		stats := model.Stats()
		mc := model.Config()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "reviewers:     %d\n", stats.Reviewers)
		fmt.Fprintf(out, "vocabulary:    %d\n", stats.Words)
		fmt.Fprintf(out, "history:       %d\n", stats.History)
		fmt.Fprintf(out, "cached pairs:  %d\n", stats.CachedPairs)
		fmt.Fprintf(out, "alpha:         %v\n", mc.Alpha)
		fmt.Fprintf(out, "window (days): %d\n", mc.WindowDays)
		if stats.History > 0 {
			fmt.Fprintf(out, "first upload:  %s\n", stats.FirstUpload.Format(tie.TimeLayout))
			fmt.Fprintf(out, "last upload:   %s\n", stats.LastUpload.Format(tie.TimeLayout))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default: $TIE_CONFIG)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress and summary output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every evaluation step")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "Enable debug logging")
	_ = rootCmd.PersistentFlags().MarkHidden("debug")
	rootCmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	// model parameters
	evaluateCmd.Flags().StringP("output", "o", "", "Write the results document to a file instead of stdout")
	evaluateCmd.Flags().StringP("model", "m", "", "Save the trained model to a file")
	evaluateCmd.Flags().Int("max-reviews", 0, "Stop after this many reviews (default: all)")
	evaluateCmd.Flags().Float64("alpha", tie.DefaultAlpha, "Weight of the text score against the path score")
	evaluateCmd.Flags().Int("window-days", 50, "Days of history used for path scores")
	evaluateCmd.Flags().Int("cache-size", 0, "Bound the similarity cache to this many pairs (default: unbounded)")
	evaluateCmd.Flags().String("timezone", "UTC", "Time zone of uploaded times")
	evaluateCmd.Flags().String("tokenizer", "whitespace", "Tokenizer: whitespace, prose or bpe")

	recommendCmd.Flags().StringP("model", "m", "", "Model file written by evaluate")
	recommendCmd.Flags().IntP("top", "n", 10, "Number of reviewers to recommend")
	recommendCmd.Flags().Bool("explain", false, "Show the score breakdown of each reviewer")
	recommendCmd.Flags().String("tokenizer", "whitespace", "Tokenizer the model was trained with")
	_ = recommendCmd.MarkFlagRequired("model")

	inspectCmd.Flags().StringP("model", "m", "", "Model file written by evaluate")
	_ = inspectCmd.MarkFlagRequired("model")

	rootCmd.AddCommand(evaluateCmd, recommendCmd, inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
