package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/pulsectl/internal/testutil/testlog"
)

func TestInitLoggerTagsApp(t *testing.T) {
	testlog.Start(t)
	prev := log.Logger
	defer func() { log.Logger = prev }()

	logger := InitLogger("node-a")

	var buf bytes.Buffer
	returned := logger.Output(&buf)
	returned.Info().Msg("hello")
	if !strings.Contains(buf.String(), `"app":"node-a"`) {
		t.Fatalf("returned logger missing app field: %s", buf.String())
	}

	buf.Reset()
	global := log.Logger.Output(&buf)
	global.Info().Msg("hello")
	if !strings.Contains(buf.String(), `"app":"node-a"`) {
		t.Fatalf("default logger missing app field: %s", buf.String())
	}
}
