// cmd/assessctl/commands.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"sbdc-assessment/internal/common/logger"
	"sbdc-assessment/internal/models"
	"sbdc-assessment/pkg/questionnaire"

	br "sbdc-assessment/internal/services/reporting/build-report"
	rp "sbdc-assessment/internal/services/reporting/render-pdf"
	cs "sbdc-assessment/internal/services/scoring/calculate-scores"
	gr "sbdc-assessment/internal/services/scoring/generate-recommendations"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	questionsPath string
	tonePath      string
	verbose       bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "assessctl",
		Short:         "Score SBDC self-assessments and render reports offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.questionsPath, "questions", "", "questionnaire file (json or yaml); empty uses the built-in questionnaire")
	root.PersistentFlags().StringVar(&opts.tonePath, "tone", "", "tone matrix file (json or yaml); empty uses the built-in matrix")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(newScoreCmd(opts), newRenderCmd(opts), newQuestionsCmd(opts))
	return root
}

func (o *rootOptions) logger() logger.Logger {
	if !o.verbose {
		return logger.NewNoOpLogger()
	}
	return logger.NewZapAdapter(logger.NewWithOutput("debug", "console", "stderr"))
}

func (o *rootOptions) store() (*questionnaire.Store, error) {
	return questionnaire.Load(o.questionsPath, o.tonePath)
}

// =============================================================================
// SCORE
// =============================================================================

func newScoreCmd(opts *rootOptions) *cobra.Command {
	var catalyst string
	cmd := &cobra.Command{
		Use:   "score <answers.json|->",
		Short: "Score an assessment and print the report JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			var req models.AssessmentResponse
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("parse answers: %w", err)
			}
			if cmd.Flags().Changed("catalyst") {
				req.Catalyst = catalyst
			}

			report, err := opts.score(cmd, req)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVar(&catalyst, "catalyst", "", "override the catalyst in the answers file")
	return cmd
}

func (o *rootOptions) score(cmd *cobra.Command, req models.AssessmentResponse) (*models.TransportReport, error) {
	store, err := o.store()
	if err != nil {
		return nil, err
	}
	log := o.logger()

	scorer, err := cs.NewHandler(&cs.Config{Store: store}, log)
	if err != nil {
		return nil, err
	}
	recommender, err := gr.NewHandler(&gr.Config{Store: store}, log)
	if err != nil {
		return nil, err
	}
	formatter, err := br.NewHandler(br.LoadConfig(store), log)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	report, err := scorer.CalculateScores(ctx, req)
	if err != nil {
		return nil, err
	}
	recs, err := recommender.GenerateRecommendations(ctx, *report, req.Catalyst)
	if err != nil {
		return nil, err
	}
	return formatter.ToTransportShape(*report, *recs)
}

// =============================================================================
// RENDER
// =============================================================================

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render <report.json|->",
		Short: "Render a report JSON (as returned by score) to PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			renderer, err := rp.NewHandler(rp.LoadConfig(), opts.logger())
			if err != nil {
				return err
			}
			out, err := renderer.Execute(cmd.Context(), &rp.Input{Payload: data})
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = out.Filename
			}
			if err := os.WriteFile(path, out.PDF, 0o644); err != nil {
				return fmt.Errorf("write pdf: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d pages, %d bytes)\n", path, out.Pages, len(out.PDF))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default SBDC_Assessment_Results.pdf)")
	return cmd
}

// =============================================================================
// QUESTIONS
// =============================================================================

func newQuestionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Print the questionnaire as served by GET /questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := opts.store()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(store.QuestionsDocument())
		},
	}
}

func readInput(stdin io.Reader, arg string) ([]byte, error) {
	if arg == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", arg, err)
	}
	return data, nil
}
