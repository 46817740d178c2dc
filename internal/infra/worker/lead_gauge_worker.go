package worker

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/usecase"
)

// LeadGaugeWorker periodically recounts the stored leads and publishes the
// totals as gauges.
type LeadGaugeWorker struct {
	repo         usecase.LeadReader
	total        prometheus.Gauge
	byStatus     *prometheus.GaugeVec
	logger       *zap.Logger
	tickInterval time.Duration
	now          usecase.Clock
}

func NewLeadGaugeWorker(
	repo usecase.LeadReader,
	total prometheus.Gauge,
	byStatus *prometheus.GaugeVec,
	logger *zap.Logger,
	interval time.Duration,
) *LeadGaugeWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &LeadGaugeWorker{
		repo:         repo,
		total:        total,
		byStatus:     byStatus,
		logger:       logger,
		tickInterval: interval,
		now:          time.Now,
	}
}

func (w *LeadGaugeWorker) Start(ctx context.Context) {
	w.logger.Info("lead gauge worker started", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("lead gauge worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *LeadGaugeWorker) refresh(ctx context.Context) {
	agg := usecase.NewAggregator(usecase.WindowAll, w.now())

	err := w.repo.Each(ctx, entity.LeadFilter{}, entity.DefaultLeadSort(), func(l *entity.Lead) error {
		agg.Add(l)
		return nil
	})
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("lead gauge refresh failed", zap.Error(err))
		}
		return
	}

	report := agg.Report()
	w.total.Set(float64(report.Summary.TotalLeads))
	for _, s := range entity.Statuses() {
		w.byStatus.WithLabelValues(s.String()).Set(0)
	}
	for _, sc := range report.StatusDistribution {
		w.byStatus.WithLabelValues(sc.Status.String()).Set(float64(sc.Count))
	}

	w.logger.Debug("lead gauges refreshed", zap.Int("leads", report.Summary.TotalLeads))
}
