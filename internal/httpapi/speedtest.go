package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/speedtest"
)

const (
	speedTestEventProgress = "progress"
	speedTestEventResult   = "result"

	logEventSpeedTestStopped = "speed_test_stopped"
)

// SpeedTestHandlers streams cosmetic speed test runs as server-sent events.
type SpeedTestHandlers struct {
	newSimulator func() *speedtest.Simulator
	logger       *zap.Logger
}

// NewSpeedTestHandlers constructs SpeedTestHandlers. A nil factory uses a randomly seeded simulator.
func NewSpeedTestHandlers(newSimulator func() *speedtest.Simulator, logger *zap.Logger) *SpeedTestHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	if newSimulator == nil {
		newSimulator = func() *speedtest.Simulator {
			return speedtest.NewSimulator(nil, nil)
		}
	}
	return &SpeedTestHandlers{newSimulator: newSimulator, logger: logger}
}

// StreamSpeedTest runs one test and streams its progress until done or the client leaves.
func (handlers *SpeedTestHandlers) StreamSpeedTest(ginContext *gin.Context) {
	flusher, flushable := ginContext.Writer.(http.Flusher)
	if !flushable {
		ginContext.JSON(http.StatusServiceUnavailable, gin.H{jsonKeyError: errorValueStreamUnavailable})
		return
	}

	ginContext.Header("Content-Type", "text/event-stream")
	ginContext.Header("Cache-Control", "no-cache")
	ginContext.Header("Connection", "keep-alive")
	ginContext.Writer.WriteHeaderNow()
	flusher.Flush()

	write := func(name string, payload any) error {
		serializedPayload, marshalErr := json.Marshal(payload)
		if marshalErr != nil {
			return marshalErr
		}
		var buffer bytes.Buffer
		buffer.WriteString("event: ")
		buffer.WriteString(name)
		buffer.WriteString("\ndata: ")
		buffer.Write(serializedPayload)
		buffer.WriteString("\n\n")
		if _, writeErr := ginContext.Writer.Write(buffer.Bytes()); writeErr != nil {
			return writeErr
		}
		flusher.Flush()
		return nil
	}

	result, runErr := handlers.newSimulator().Run(ginContext.Request.Context(), func(event speedtest.Event) error {
		return write(speedTestEventProgress, event)
	})
	if runErr != nil {
		handlers.logger.Debug(logEventSpeedTestStopped, zap.Error(runErr))
		return
	}
	_ = write(speedTestEventResult, result)
}
