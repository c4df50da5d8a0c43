// Package alerts pushes WhatsApp notifications when a stored reading is outside the
// comfort range of the house.
package alerts

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultry-api/internal/domain/models"
	client "github.com/mamadbah2/poultry-api/pkg/clients/whatsapp"
)

const deliveryTimeout = 10 * time.Second

// Recorder counts delivered alerts.
type Recorder interface {
	AlertSent(metric string)
}

// Config controls where alerts go and how often they repeat.
type Config struct {
	Recipient  string
	Cooldown   time.Duration
	Thresholds Thresholds
}

// Notifier evaluates created records and delivers alerts in the background.
type Notifier struct {
	cfg      Config
	client   client.Client
	recent   *cache.Cache
	recorder Recorder
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewNotifier wires a notifier. A zero Cooldown disables suppression of repeated alerts.
func NewNotifier(cfg Config, sender client.Client, recorder Recorder, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = DefaultThresholds()
	}

	n := &Notifier{
		cfg:      cfg,
		client:   sender,
		recorder: recorder,
		logger:   logger,
	}
	if cfg.Cooldown > 0 {
		n.recent = cache.New(cfg.Cooldown, 2*cfg.Cooldown)
	}
	return n
}

// RecordCreated checks environmental readings and thermal maps. Other records are ignored.
func (n *Notifier) RecordCreated(_ context.Context, _ models.Entity, record any) {
	var found []Alert
	switch rec := record.(type) {
	case models.EnvironmentalReading:
		found = n.cfg.Thresholds.Environmental(rec.EnvironmentalReadingCreate)
	case models.ThermalMap:
		found = n.cfg.Thresholds.Thermal(rec.ThermalMapCreate)
	default:
		return
	}

	for _, a := range found {
		if !n.claim(a) {
			n.logger.Debug("alert suppressed by cooldown", zap.String("key", a.Key()))
			continue
		}
		n.deliver(a)
	}
}

// claim reports whether the alert may be sent now and starts its cooldown.
func (n *Notifier) claim(a Alert) bool {
	if n.recent == nil {
		return true
	}
	return n.recent.Add(a.Key(), struct{}{}, cache.DefaultExpiration) == nil
}

func (n *Notifier) deliver(a Alert) {
	msg := a.Message()
	msg.To = n.cfg.Recipient

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		// The request that produced the record may already be finished.
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()

		resp, err := n.client.SendTextMessage(ctx, client.SendTextMessageRequest{
			To:         msg.To,
			Body:       msg.Text(),
			PreviewURL: msg.PreviewURL,
		})
		if err != nil {
			n.logger.Error("failed to send alert",
				zap.String("metric", a.Metric),
				zap.Int64("lote_id", a.BatchID),
				zap.Error(err))
			if n.recent != nil {
				n.recent.Delete(a.Key())
			}
			return
		}

		if n.recorder != nil {
			n.recorder.AlertSent(a.Metric)
		}
		n.logger.Info("alert sent",
			zap.String("metric", a.Metric),
			zap.String("direction", string(a.Direction)),
			zap.Int64("lote_id", a.BatchID),
			zap.String("message_id", resp.MessageID()))
	}()
}

// Wait blocks until every in-flight delivery has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
