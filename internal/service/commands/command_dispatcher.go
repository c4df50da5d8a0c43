package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/poultry-api/internal/domain/apperrors"
	"github.com/mamadbah2/poultry-api/internal/domain/models"
	"github.com/mamadbah2/poultry-api/internal/domain/validation"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

const helpText = "Commands:\n" +
	"/mortalidad <lote_id> <cantidad> [causa]\n" +
	"/medicion <lote_id> <temperatura> <humedad>\n" +
	"/resumen"

// RecordCreator is the subset of the records service reachable from chat.
type RecordCreator interface {
	CreateMortalityEvent(ctx context.Context, in models.MortalityEventCreate) (models.MortalityEvent, error)
	CreateEnvironmentalReading(ctx context.Context, in models.EnvironmentalReadingCreate) (models.EnvironmentalReading, error)
}

// Summarizer builds the daily ingestion summary.
type Summarizer interface {
	DailyIngestionSummary(ctx context.Context, day time.Time) (models.IngestionSummary, error)
}

// Service turns parsed chat commands into records.
type Service struct {
	creator RecordCreator
	summary Summarizer
	format  func(models.IngestionSummary) models.OutboundMessage
	logger  *zap.Logger
	now     func() time.Time
}

// NewService constructs a command dispatcher. summary may be nil, which disables /resumen.
func NewService(creator RecordCreator, summary Summarizer, format func(models.IngestionSummary) models.OutboundMessage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		creator: creator,
		summary: summary,
		format:  format,
		logger:  logger,
		now:     time.Now,
	}
}

// HandleCommand executes cmd and returns the reply for the sender. Problems the sender
// can fix are reported in the reply; only storage and unexpected failures are errors.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	var (
		reply string
		err   error
	)
	switch cmd.Type {
	case models.CommandMortality:
		reply, err = s.recordMortality(ctx, cmd.Args)
	case models.CommandReading:
		reply, err = s.recordReading(ctx, cmd.Args)
	case models.CommandSummary:
		reply, err = s.dailySummary(ctx)
	case models.CommandHelp:
		return helpText, nil
	default:
		return "Unknown command.\n" + helpText, nil
	}

	if err == nil {
		return reply, nil
	}

	var verr *validation.ValidationError
	switch {
	case errors.Is(err, ErrInvalidArguments):
		return err.Error(), nil
	case errors.As(err, &verr):
		return "Rejected: " + strings.Join(describeFields(verr), ", "), nil
	default:
		return "", err
	}
}

func (s *Service) recordMortality(ctx context.Context, args []string) (string, error) {
	if len(args) < 2 {
		return "", usage("/mortalidad <lote_id> <cantidad> [causa]")
	}
	batchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return "", usage("lote_id must be an integer")
	}
	count, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return "", usage("cantidad must be an integer")
	}

	today := s.now().UTC()
	in := models.MortalityEventCreate{
		BatchID: batchID,
		Date:    models.NewDate(today.Year(), today.Month(), today.Day()),
		Count:   count,
	}
	if len(args) > 2 {
		cause := strings.Join(args[2:], " ")
		in.Cause = &cause
	}

	event, err := s.creator.CreateMortalityEvent(ctx, in)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Mortalidad #%d saved: %d birds in lote %d.", event.MortalityID, event.Count, event.BatchID), nil
}

func (s *Service) recordReading(ctx context.Context, args []string) (string, error) {
	if len(args) < 3 {
		return "", usage("/medicion <lote_id> <temperatura> <humedad>")
	}
	batchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return "", usage("lote_id must be an integer")
	}
	temperature, err := parseNumber(args[1])
	if err != nil {
		return "", usage("temperatura must be a number")
	}
	humidity, err := parseNumber(args[2])
	if err != nil {
		return "", usage("humedad must be a number")
	}

	reading, err := s.creator.CreateEnvironmentalReading(ctx, models.EnvironmentalReadingCreate{
		BatchID:      batchID,
		Timestamp:    models.DateTime(s.now().UTC()),
		TemperatureC: &temperature,
		HumidityPct:  &humidity,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Medicion #%d saved for lote %d: %.1f C, %.0f%%.", reading.ReadingID, reading.BatchID, temperature, humidity), nil
}

func (s *Service) dailySummary(ctx context.Context) (string, error) {
	if s.summary == nil || s.format == nil {
		return "Summaries are not available.", nil
	}
	summary, err := s.summary.DailyIngestionSummary(ctx, s.now())
	if err != nil {
		return "", fmt.Errorf("build summary: %w", err)
	}
	return s.format(summary).Text(), nil
}

func usage(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArguments, msg)
}

// parseNumber accepts both decimal separators used on the farm.
func parseNumber(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
}

func describeFields(verr *validation.ValidationError) []string {
	out := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		out = append(out, f.Field+" "+f.Message)
	}
	return out
}

// IsRetryable reports whether a dispatch error came from the storage backend.
func IsRetryable(err error) bool {
	return apperrors.Classify(err) == apperrors.KindStorage
}
