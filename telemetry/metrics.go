package telemetry

import (
	"time"

	"github.com/armon/go-metrics"
)

const (
	pipelineMetricsPrefix = "pipeline"
	bridgeMetricsPrefix   = "bridge"
)

func UpdateStageExecuted(stage string, duration time.Duration) {
	metrics.IncrCounter([]string{pipelineMetricsPrefix, "stage_executed_counter", stage}, 1)
	metrics.SetGauge([]string{pipelineMetricsPrefix, "stage_duration_seconds", stage},
		float32(duration.Seconds()))
}

func UpdateStageFailed(stage string) {
	metrics.IncrCounter([]string{pipelineMetricsPrefix, "stage_failed_counter", stage}, 1)
}

func UpdateClaimPollCounter(cnt int) {
	metrics.IncrCounter([]string{bridgeMetricsPrefix, "claim_poll_counter"}, float32(cnt))
}

func UpdateClaimSubmitted() {
	metrics.IncrCounter([]string{bridgeMetricsPrefix, "claim_submitted_counter"}, 1)
}
