package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VideosProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shotcoach_videos_processed_total",
		Help: "Total number of videos processed, by pipeline and status",
	}, []string{"pipeline", "status"})

	PipelineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shotcoach_pipeline_duration_seconds",
		Help:    "Duration of a whole per-video pipeline",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"pipeline"})

	FramesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shotcoach_frames_processed_total",
		Help: "Total number of decoded frames passed through a pipeline",
	}, []string{"pipeline"})

	RuleTriggersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shotcoach_rule_triggers_total",
		Help: "Frames on which a technique rule produced feedback",
	}, []string{"shot", "rule"})

	RuleSkipsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shotcoach_rule_skips_total",
		Help: "Rule evaluations skipped because the rule could not be computed",
	}, []string{"shot", "rule"})

	ClassificationVotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shotcoach_classification_votes_total",
		Help: "Per-frame classification votes, by label",
	}, []string{"label"})

	ModelLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shotcoach_model_loads_total",
		Help: "Model loads by model name and status",
	}, []string{"model", "status"})
)
