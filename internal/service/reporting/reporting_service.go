package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/poultry-api/internal/domain/models"
	repo "github.com/mamadbah2/poultry-api/internal/repository/sheets"
)

const (
	dateLayout          = "2006-01-02"
	ingestionDataRange  = "Ingestion!A:L"
	ingestionDatesRange = "Ingestion!A:A"
)

// Counter reports how many records of an entity were stored since a point in time.
type Counter interface {
	CountSince(ctx context.Context, entity models.Entity, since time.Time) (int64, error)
}

// Service builds the daily ingestion summary.
type Service struct {
	counter Counter
	sheets  repo.Repository
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

// NewService wires a new reporting service instance. sheets may be nil when the
// spreadsheet export is not configured.
func NewService(counter Counter, sheets repo.Repository, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		counter: counter,
		sheets:  sheets,
		loc:     loc,
		now:     time.Now,
		logger:  logger,
	}
}

// DailyIngestionSummary counts the records stored since local midnight of day.
func (s *Service) DailyIngestionSummary(ctx context.Context, day time.Time) (models.IngestionSummary, error) {
	local := day.In(s.loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)

	to := s.now().In(s.loc)
	if end := from.AddDate(0, 0, 1); to.After(end) {
		to = end
	}

	summary := models.IngestionSummary{
		From:   from,
		To:     to,
		Counts: make(map[models.Entity]int64, len(models.Entities())),
	}

	for _, entity := range models.Entities() {
		n, err := s.counter.CountSince(ctx, entity, from)
		if err != nil {
			return models.IngestionSummary{}, fmt.Errorf("count %s records: %w", entity, err)
		}
		summary.Counts[entity] = n
	}

	return summary, nil
}

// FormatSummary renders the summary as a WhatsApp message.
func FormatSummary(summary models.IngestionSummary) models.OutboundMessage {
	title := fmt.Sprintf("Ingestion summary %s", summary.From.Format(dateLayout))

	if summary.Total() == 0 {
		return models.OutboundMessage{Title: title, Body: "No records received today."}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d records received.", summary.Total())
	for _, entity := range models.Entities() {
		n := summary.Counts[entity]
		if n == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n- %s: %d", entity.Info().Subject, n)
	}

	return models.OutboundMessage{Title: title, Body: b.String()}
}

// ExportSummary appends the summary to the Ingestion sheet unless that day is already
// there. An empty sheet gets a header row first. It is a no-op without a sheets
// repository.
func (s *Service) ExportSummary(ctx context.Context, summary models.IngestionSummary) error {
	if s.sheets == nil {
		return nil
	}

	day := summary.From.Format(dateLayout)

	rows, err := s.sheets.ReadRange(ctx, ingestionDatesRange)
	if err != nil {
		return fmt.Errorf("load ingestion dates: %w", err)
	}
	for _, row := range rows {
		if len(row) > 0 && fmt.Sprint(row[0]) == day {
			s.logger.Debug("ingestion summary already exported", zap.String("day", day))
			return nil
		}
	}

	if len(rows) == 0 {
		if err := s.sheets.WriteRow(ctx, ingestionDataRange, headerRow()); err != nil {
			return fmt.Errorf("write ingestion header: %w", err)
		}
	}

	if err := s.sheets.WriteRow(ctx, ingestionDataRange, summaryRow(summary)); err != nil {
		return fmt.Errorf("export ingestion summary: %w", err)
	}

	s.logger.Info("ingestion summary exported", zap.String("day", day), zap.Int64("total", summary.Total()))
	return nil
}

func headerRow() []any {
	entities := models.Entities()
	row := make([]any, 0, len(entities)+2)
	row = append(row, "fecha")
	for _, entity := range entities {
		row = append(row, entity.String())
	}
	return append(row, "total")
}

// summaryRow lays out date, one count per entity and the total.
func summaryRow(summary models.IngestionSummary) []any {
	entities := models.Entities()
	row := make([]any, 0, len(entities)+2)
	row = append(row, summary.From.Format(dateLayout))
	for _, entity := range entities {
		row = append(row, summary.Counts[entity])
	}
	return append(row, summary.Total())
}
