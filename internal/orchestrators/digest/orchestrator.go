// Package digest implements the orchestrator behind the periodic
// campaign digest job.
package digest

//go:generate mockgen -destination=mock/mock_service.go -package=digestmock github.com/tavernkeep/campaign-api/internal/orchestrators/digest Service

import (
	"context"
	"log/slog"
	"time"

	"github.com/tavernkeep/campaign-api/internal/entities"
	"github.com/tavernkeep/campaign-api/internal/errors"
	"github.com/tavernkeep/campaign-api/internal/pkg/clock"
	"github.com/tavernkeep/campaign-api/internal/repositories/settings"
)

// Digest frequencies.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Service defines the interface for digest operations
type Service interface {
	// RunDigest collects the opted-in recipients for one frequency and
	// dispatches their digests over the given period
	RunDigest(ctx context.Context, input *RunDigestInput) (*RunDigestOutput, error)
}

// Sender delivers one digest email. The zero implementation logs only.
type Sender interface {
	Send(ctx context.Context, recipient *entities.UserSettings, periodStart, periodEnd time.Time) error
}

// Config holds the dependencies for the digest orchestrator
type Config struct {
	SettingsRepo settings.Repository
	// Sender is optional; without one the run is a dry run that only
	// reports recipients.
	Sender Sender
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.SettingsRepo == nil {
		vb.RequiredField("SettingsRepo")
	}

	return vb.Build()
}

type orchestrator struct {
	settingsRepo settings.Repository
	sender       Sender
	clock        clock.Clock
}

// New creates a new digest orchestrator with the provided dependencies
func New(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &orchestrator{
		settingsRepo: cfg.SettingsRepo,
		sender:       cfg.Sender,
		clock:        c,
	}, nil
}

// RunDigestInput defines the input for running a digest
type RunDigestInput struct {
	Frequency string
	SendEmail bool
	// PeriodStart and PeriodEnd bound the digest window. Nil values
	// default to one frequency interval ending now.
	PeriodStart *time.Time
	PeriodEnd   *time.Time
}

// RunDigestOutput defines the output for running a digest
type RunDigestOutput struct {
	Frequency      string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	RecipientCount int
	SentCount      int
}

func (o *orchestrator) RunDigest(ctx context.Context, input *RunDigestInput) (*RunDigestOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if !validFrequency(input.Frequency) {
		return nil, errors.InvalidArgumentf("unknown digest frequency %q", input.Frequency)
	}

	periodStart, periodEnd := o.period(input)
	if !periodEnd.After(periodStart) {
		return nil, errors.InvalidArgument("period end must be after period start")
	}

	out, err := o.settingsRepo.ListDigestRecipients(ctx, settings.ListDigestRecipientsInput{
		Frequency: input.Frequency,
	})
	if err != nil {
		return nil, err
	}

	result := &RunDigestOutput{
		Frequency:      input.Frequency,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		RecipientCount: len(out.Recipients),
	}

	if !input.SendEmail || o.sender == nil {
		slog.InfoContext(ctx, "digest dry run",
			"frequency", input.Frequency,
			"recipients", result.RecipientCount)
		return result, nil
	}

	for _, recipient := range out.Recipients {
		if err := o.sender.Send(ctx, recipient, periodStart, periodEnd); err != nil {
			// One bad address doesn't stop the run.
			slog.ErrorContext(ctx, "failed to send digest",
				"user_id", recipient.UserID,
				"error", err)
			continue
		}
		result.SentCount++
	}

	slog.InfoContext(ctx, "digest run complete",
		"frequency", input.Frequency,
		"recipients", result.RecipientCount,
		"sent", result.SentCount)

	return result, nil
}

func (o *orchestrator) period(input *RunDigestInput) (time.Time, time.Time) {
	end := o.clock.Now()
	if input.PeriodEnd != nil {
		end = *input.PeriodEnd
	}

	start := end.Add(-frequencyInterval(input.Frequency))
	if input.PeriodStart != nil {
		start = *input.PeriodStart
	}

	return start, end
}

func validFrequency(frequency string) bool {
	switch frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

func frequencyInterval(frequency string) time.Duration {
	switch frequency {
	case FrequencyDaily:
		return 24 * time.Hour
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}
