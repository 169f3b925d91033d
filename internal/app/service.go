// Package app contains the application layer with business orchestration logic.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/evertjr/llm-commit/internal/pkg/ai"
	"github.com/evertjr/llm-commit/internal/pkg/config"
	apperrors "github.com/evertjr/llm-commit/internal/pkg/errors"
	"github.com/evertjr/llm-commit/internal/pkg/git"
	"github.com/evertjr/llm-commit/internal/pkg/message"
	"github.com/evertjr/llm-commit/internal/pkg/provider"
	"github.com/evertjr/llm-commit/internal/pkg/security"
)

// SuccessNotice is shown after a message has been delivered.
const SuccessNotice = "LLM commit message generated."

// ProgressTitle labels the progress bar.
const ProgressTitle = "Generating commit message"

// Progress increments reported after each step; they add up to 100.
const (
	progressStart    = 10
	progressDiff     = 30
	progressGenerate = 50
	progressDeliver  = 10
)

// Notifier shows user-visible notices.
type Notifier interface {
	Info(message string)
	Warn(message string)
	Error(message string)
}

// Progress shows coarse run progress. Stop may be called more than once.
type Progress interface {
	Start(title string)
	Report(increment int)
	Stop()
}

// State is a step of a generation run.
type State int

const (
	StateStart State = iota
	StateGitCheck
	StateDiffFetch
	StateGenerate
	StateDeliver
	StateDone
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateGitCheck:
		return "git-check"
	case StateDiffFetch:
		return "diff-fetch"
	case StateGenerate:
		return "generate"
	case StateDeliver:
		return "deliver"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Outcome describes how a run ended. Err is nil only when the message was
// delivered.
type Outcome struct {
	RunID     string
	Message   string
	Delivered bool
	StoppedAt State
	Err       *apperrors.AppError
}

// Option configures a GenerateService.
type Option func(*GenerateService)

// WithCompleter sets the completion backend. Without it each run builds an
// ai.Client using the configured timeout.
func WithCompleter(c ai.Completer) Option {
	return func(s *GenerateService) {
		s.completer = c
	}
}

// WithProgress sets the progress display.
func WithProgress(p Progress) Option {
	return func(s *GenerateService) {
		s.progress = p
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *apperrors.Logger) Option {
	return func(s *GenerateService) {
		s.logger = l
	}
}

// WithRunIDs sets the run ID generator.
func WithRunIDs(next func() string) Option {
	return func(s *GenerateService) {
		s.newRunID = next
	}
}

// GenerateService runs the generation pipeline: staged diff, prompt,
// completion, cleanup and delivery into the repository's input box.
type GenerateService struct {
	config      config.Reader
	integration git.Integration
	notifier    Notifier
	completer   ai.Completer
	progress    Progress
	logger      *apperrors.Logger
	newRunID    func() string
}

// NewGenerateService creates a GenerateService with the given dependencies.
func NewGenerateService(cfg config.Reader, integration git.Integration, notifier Notifier, opts ...Option) *GenerateService {
	s := &GenerateService{
		config:      cfg,
		integration: integration,
		notifier:    notifier,
		progress:    noopProgress{},
		logger:      apperrors.Default(),
		newRunID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// run carries the state of one invocation.
type run struct {
	log     *apperrors.Logger
	state   State
	outcome Outcome
}

func (r *run) enter(next State) {
	r.log.LogTransition(r.state.String(), next.String())
	r.state = next
}

// Generate performs one run. Failures are reported through the Notifier,
// one notice each, and recorded in the returned Outcome.
func (s *GenerateService) Generate(ctx context.Context) (outcome Outcome) {
	runID := s.newRunID()
	r := &run{
		log:     s.logger.WithRun(runID),
		state:   StateStart,
		outcome: Outcome{RunID: runID},
	}

	s.progress.Start(ProgressTitle)
	defer s.progress.Stop()

	defer func() {
		if p := recover(); p != nil {
			outcome = s.fail(r, apperrors.NewUnexpectedError(fmt.Errorf("%v", p)))
		}
	}()

	// Start
	cfg, err := s.config.Load()
	if err != nil {
		if !apperrors.IsAppError(err) {
			err = apperrors.NewConfigLoadError(err)
		}
		return s.fail(r, err)
	}
	s.progress.Report(progressStart)

	// GitCheck
	r.enter(StateGitCheck)
	repos, err := s.integration.Resolve(ctx)
	if err != nil {
		return s.fail(r, err)
	}

	// DiffFetch
	r.enter(StateDiffFetch)
	staged, err := git.GetStagedDiff(ctx, repos)
	if err != nil {
		return s.fail(r, err)
	}
	stats := git.Summarize(staged.Text)
	r.log.Debug("staged diff in %s: %d files, +%d -%d, %d binary, %d bytes",
		staged.Repository.Root(), stats.TotalFiles, stats.TotalAdditions, stats.TotalDeletions,
		stats.BinaryFiles, len(staged.Text))
	s.progress.Report(progressDiff)

	// Generate
	r.enter(StateGenerate)
	msg, err := s.generateMessage(ctx, r, cfg, staged.Text)
	if err != nil {
		return s.fail(r, err)
	}
	r.outcome.Message = msg
	s.progress.Report(progressGenerate)

	// Deliver
	r.enter(StateDeliver)
	box := staged.Repository.InputBox()
	if box == nil {
		return s.fail(r, apperrors.NewNoInputBoxError())
	}
	if err := box.SetValue(msg); err != nil {
		return s.fail(r, err)
	}
	r.log.Debug("message delivered to %s", box)
	s.progress.Report(progressDeliver)

	r.enter(StateDone)
	s.progress.Stop()
	s.notifier.Info(SuccessNotice)

	r.outcome.Delivered = true
	r.outcome.StoppedAt = StateDone
	return r.outcome
}

func (s *GenerateService) generateMessage(ctx context.Context, r *run, cfg *config.Config, diff string) (string, error) {
	profile := provider.ResolveConfig(cfg)
	if err := profile.Validate(); err != nil {
		return "", err
	}
	if !security.IsLocalEndpoint(profile.EndpointURL) {
		r.log.Info("%s", security.RemoteEndpointNotice(profile.EndpointURL))
	}

	prompt, err := ai.BuildPrompt(diff, cfg.Prompt, cfg.MaxDiffLength)
	if err != nil {
		return "", err
	}

	raw, err := s.completerFor(cfg, r.log).Complete(ctx, &ai.GenerateRequest{
		Prompt:      prompt,
		Model:       profile.Model,
		EndpointURL: profile.EndpointURL,
		Credential:  profile.Credential,
	})
	if err != nil {
		return "", err
	}

	msg, err := message.Sanitize(raw)
	if err != nil {
		return "", err
	}

	for _, finding := range message.Lint(msg) {
		r.log.Debug("lint: %s", finding)
	}
	return msg, nil
}

func (s *GenerateService) completerFor(cfg *config.Config, log *apperrors.Logger) ai.Completer {
	if s.completer != nil {
		return s.completer
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	return ai.NewClient(timeout).WithLogger(log)
}

// fail stops the run at the current state and shows exactly one notice.
func (s *GenerateService) fail(r *run, err error) Outcome {
	appErr := apperrors.AsAppError(err)
	r.log.Debug("run stopped at %s: %v", r.state, appErr)

	s.progress.Stop()
	switch appErr.Severity() {
	case apperrors.SeverityInfo:
		s.notifier.Info(appErr.Notice())
	case apperrors.SeverityWarning:
		s.notifier.Warn(appErr.Notice())
	default:
		s.notifier.Error(appErr.Notice())
	}

	r.outcome.StoppedAt = r.state
	r.outcome.Err = appErr
	return r.outcome
}

type noopProgress struct{}

func (noopProgress) Start(string) {}
func (noopProgress) Report(int)   {}
func (noopProgress) Stop()        {}
