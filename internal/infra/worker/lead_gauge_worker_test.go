package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/database"
)

func newGauges() (prometheus.Gauge, *prometheus.GaugeVec) {
	return prometheus.NewGauge(prometheus.GaugeOpts{Name: "leads_total_test"}),
		prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "leads_by_status_test"}, []string{"status"})
}

func TestLeadGaugeWorker_Refresh(t *testing.T) {
	repo := database.NewMemoryLeadRepository()
	now := time.Now().UTC()
	for i, s := range []entity.Status{entity.StatusNew, entity.StatusNew, entity.StatusWon} {
		l := entity.NewLead("Gauge", "Lead", string(rune('a'+i))+"@example.com", entity.SourceOther, now)
		l.Status = s
		require.NoError(t, repo.Create(context.Background(), l))
	}

	total, byStatus := newGauges()
	w := NewLeadGaugeWorker(repo, total, byStatus, zap.NewNop(), time.Minute)
	w.refresh(context.Background())

	assert.Equal(t, 3.0, testutil.ToFloat64(total))
	assert.Equal(t, 2.0, testutil.ToFloat64(byStatus.WithLabelValues("new")))
	assert.Equal(t, 1.0, testutil.ToFloat64(byStatus.WithLabelValues("won")))
	assert.Equal(t, 0.0, testutil.ToFloat64(byStatus.WithLabelValues("lost")))
}

type failingReader struct{ database.MemoryLeadRepository }

func (*failingReader) Each(context.Context, entity.LeadFilter, entity.LeadSort, func(*entity.Lead) error) error {
	return errors.New("db down")
}

func TestLeadGaugeWorker_KeepsLastValueOnError(t *testing.T) {
	total, byStatus := newGauges()
	total.Set(7)

	w := NewLeadGaugeWorker(&failingReader{}, total, byStatus, zap.NewNop(), 0)
	w.refresh(context.Background())

	assert.Equal(t, 7.0, testutil.ToFloat64(total))
	assert.Equal(t, time.Minute, w.tickInterval)
}

func TestLeadGaugeWorker_StopsOnCancel(t *testing.T) {
	total, byStatus := newGauges()
	w := NewLeadGaugeWorker(database.NewMemoryLeadRepository(), total, byStatus, zap.NewNop(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
