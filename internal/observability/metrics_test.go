package observability

import (
	"testing"
	"time"

	"github.com/rs/zerolog/log"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordPingSent("pulse-a")
	RecordPongSent("pulse-a")
	RecordPongSuppressed("pulse-a")
	RecordPacketReceived("pulse-a", "data")
	RecordHeartbeatSent("pulse-a")
	SetConnectedPeers("pulse-a", 2)
	RecordHTTPRequest("pulse-a", "GET", "/status", 200, 12*time.Millisecond)

	log.Info().Msg("observability/metrics: registration idempotent and recording paths executed")
}
