package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
)

// TextAnalyzer analyzes raw deal text against the configured template.
type TextAnalyzer interface {
	AnalyzeText(ctx context.Context, text string) (*deal.AnalysisResult, error)
}

// Submission is the outcome of analyzing one watched file.
type Submission struct {
	Path   string
	Result *deal.AnalysisResult
	Err    error
}

// Summary renders a one-line description of the submission.
func (s Submission) Summary() string {
	if s.Err != nil {
		return fmt.Sprintf("%s: failed: %v", s.Path, s.Err)
	}
	r := s.Result
	return fmt.Sprintf("%s: %s score %.1f/10 risk %s (%d high, %d medium, %d low)",
		s.Path, r.DealName, r.OverallScore, r.RiskLabel, r.Counts.High, r.Counts.Medium, r.Counts.Low)
}

// Submitter reads changed deal files and submits them as raw text.
type Submitter struct {
	analyzer TextAnalyzer
	logger   *slog.Logger
}

// NewSubmitter creates a submitter.
func NewSubmitter(analyzer TextAnalyzer, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{analyzer: analyzer, logger: logger}
}

// Submit analyzes the file at path. Empty files are skipped with an error.
func (s *Submitter) Submit(ctx context.Context, path string) Submission {
	sub := Submission{Path: path}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the watched folder
	if err != nil {
		sub.Err = fmt.Errorf("read deal file: %w", err)
		s.logger.Warn("skipping deal file", "path", path, "error", err)
		return sub
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		sub.Err = fmt.Errorf("deal file is empty")
		s.logger.Warn("skipping empty deal file", "path", path)
		return sub
	}

	result, err := s.analyzer.AnalyzeText(ctx, text)
	if err == nil && result == nil {
		err = fmt.Errorf("backend returned no analysis")
	}
	if err != nil {
		sub.Err = err
		s.logger.Error("analysis failed", "path", path, "error", err)
		return sub
	}

	sub.Result = result
	s.logger.Info("deal analyzed",
		"path", path,
		"deal", result.DealName,
		"score", result.OverallScore,
		"risk", result.RiskLabel.String(),
		"deviations", len(result.Deviations))
	return sub
}
