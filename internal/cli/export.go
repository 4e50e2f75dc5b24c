package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"classroom-quiz-service/internal/config"
	"classroom-quiz-service/internal/domain"
	"classroom-quiz-service/internal/infra/kv"
	"classroom-quiz-service/internal/infra/records"
	"github.com/spf13/cobra"
)

// Export is the document written by the export command.
type Export struct {
	QuizID      string              `json:"quizId"`
	ExportedAt  time.Time           `json:"exportedAt"`
	Sessions    []domain.Session    `json:"sessions"`
	Submissions []domain.Submission `json:"submissions"`
}

// NewExportCmd dumps session history and submissions as JSON.
func NewExportCmd(configPath *string) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export sessions and submissions as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			setupLogging(cfg.Log.Level, cfg.Log.Format)

			b, err := openBackends(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			w := io.Writer(os.Stdout)
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				w = f
			}
			return runExport(cmd.Context(), b.store, cfg.Quiz.ID, time.Now().UTC(), w)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file path (- for stdout)")
	return cmd
}

func runExport(ctx context.Context, store kv.Store, quizID string, now time.Time, w io.Writer) error {
	sessions, err := records.NewSessions(store).History(ctx)
	if err != nil {
		return fmt.Errorf("export sessions: %w", err)
	}
	submissions, err := records.NewSubmissions(store).List(ctx)
	if err != nil {
		return fmt.Errorf("export submissions: %w", err)
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	if submissions == nil {
		submissions = []domain.Submission{}
	}

	data, err := json.MarshalIndent(Export{
		QuizID:      quizID,
		ExportedAt:  now,
		Sessions:    sessions,
		Submissions: submissions,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, _ = fmt.Fprintln(w)
	return nil
}
