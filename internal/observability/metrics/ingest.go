package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type IngestMetrics struct {
	registry *prometheus.Registry

	runsTotal           *prometheus.CounterVec
	runDuration         *prometheus.HistogramVec
	sectionsTotal       *prometheus.CounterVec
	sectionChunks       *prometheus.HistogramVec
	batchFlushTotal     *prometheus.CounterVec
	chunksUpsertedTotal *prometheus.CounterVec
}

func NewIngestMetrics(service string) *IngestMetrics {
	registry := prometheus.NewRegistry()

	runsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssa",
			Subsystem: "ingest",
			Name:      "runs_total",
			Help:      "Total completed rebuild runs by status.",
		},
		[]string{"service", "status"},
	)
	runDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssa",
			Subsystem: "ingest",
			Name:      "run_duration_seconds",
			Help:      "Rebuild run duration in seconds by status.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"service", "status"},
	)
	sectionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssa",
			Subsystem: "ingest",
			Name:      "sections_processed_total",
			Help:      "Total sections scraped, chunked and embedded.",
		},
		[]string{"service"},
	)
	sectionChunks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssa",
			Subsystem: "ingest",
			Name:      "section_chunks",
			Help:      "Distribution of chunks produced per section.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34, 55},
		},
		[]string{"service"},
	)
	batchFlushTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssa",
			Subsystem: "ingest",
			Name:      "batch_flush_total",
			Help:      "Total upsert batches written to the index.",
		},
		[]string{"service"},
	)
	chunksUpsertedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssa",
			Subsystem: "ingest",
			Name:      "chunks_upserted_total",
			Help:      "Total chunk records written to the index.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		runsTotal,
		runDuration,
		sectionsTotal,
		sectionChunks,
		batchFlushTotal,
		chunksUpsertedTotal,
	)

	return &IngestMetrics{
		registry:            registry,
		runsTotal:           runsTotal,
		runDuration:         runDuration,
		sectionsTotal:       sectionsTotal,
		sectionChunks:       sectionChunks,
		batchFlushTotal:     batchFlushTotal,
		chunksUpsertedTotal: chunksUpsertedTotal,
	}
}

func (m *IngestMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observer binds the metrics to one service label so the use case does not
// carry labelling concerns.
func (m *IngestMetrics) Observer(service string) *IngestObserver {
	return &IngestObserver{metrics: m, service: service}
}

func (m *IngestMetrics) FinishRun(service string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.runsTotal.WithLabelValues(service, status).Inc()
	m.runDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

type IngestObserver struct {
	metrics *IngestMetrics
	service string
}

func (o *IngestObserver) SectionProcessed(_ string, chunks int) {
	o.metrics.sectionsTotal.WithLabelValues(o.service).Inc()
	o.metrics.sectionChunks.WithLabelValues(o.service).Observe(float64(chunks))
}

func (o *IngestObserver) BatchFlushed(size int) {
	o.metrics.batchFlushTotal.WithLabelValues(o.service).Inc()
	o.metrics.chunksUpsertedTotal.WithLabelValues(o.service).Add(float64(size))
}
