// Package speedtest produces a cosmetic connection test. Nothing is measured.
package speedtest

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// Phases of a run.
const (
	PhaseStart    = "start"
	PhasePing     = "ping"
	PhaseDownload = "download"
	PhaseUpload   = "upload"
	PhaseDone     = "done"
)

const (
	GaugeRadius      = 90
	MaximumSpeedMbps = 100.0

	pingMinimumMs     = 5
	pingSpanMs        = 20
	downloadMinimum   = 20.0
	downloadSpan      = 80.0
	uploadMinimum     = 15.0
	uploadSpan        = 70.0
	phasePause        = 500 * time.Millisecond
	gaugeDuration     = 4 * time.Second
	gaugeStepInterval = 50 * time.Millisecond
)

// GaugeCircumference is the stroke length of the gauge circle.
var GaugeCircumference = 2 * math.Pi * GaugeRadius

// Event is one progress update of a run.
type Event struct {
	Phase       string  `json:"phase"`
	Value       float64 `json:"value"`
	GaugeOffset float64 `json:"gauge_offset"`
	Final       bool    `json:"final"`
}

// Result holds the figures a run settles on.
type Result struct {
	PingMs       int     `json:"ping_ms"`
	DownloadMbps float64 `json:"download_mbps"`
	UploadMbps   float64 `json:"upload_mbps"`
}

// Sleeper pauses between events. It returns early with the context's error.
type Sleeper func(ctx context.Context, duration time.Duration) error

// ContextSleeper waits on a timer or the context.
func ContextSleeper(ctx context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Simulator runs cosmetic speed tests.
type Simulator struct {
	random *rand.Rand
	sleep  Sleeper
}

// NewSimulator constructs a Simulator. A nil random source draws from the runtime generator.
func NewSimulator(random *rand.Rand, sleep Sleeper) *Simulator {
	if random == nil {
		random = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if sleep == nil {
		sleep = ContextSleeper
	}
	return &Simulator{random: random, sleep: sleep}
}

// Draw picks the figures of one run.
func (simulator *Simulator) Draw() Result {
	return Result{
		PingMs:       simulator.random.IntN(pingSpanMs) + pingMinimumMs,
		DownloadMbps: simulator.random.Float64()*downloadSpan + downloadMinimum,
		UploadMbps:   simulator.random.Float64()*uploadSpan + uploadMinimum,
	}
}

// GaugeOffset is the stroke offset showing the speed on the gauge.
func GaugeOffset(speedMbps float64) float64 {
	progress := math.Min(speedMbps/MaximumSpeedMbps, 1)
	return GaugeCircumference * (1 - progress)
}

// Run draws a result and emits its animation to the sink.
func (simulator *Simulator) Run(ctx context.Context, emit func(Event) error) (Result, error) {
	result := simulator.Draw()
	if emitErr := emit(Event{Phase: PhaseStart, GaugeOffset: GaugeCircumference}); emitErr != nil {
		return result, emitErr
	}
	if sleepErr := simulator.sleep(ctx, phasePause); sleepErr != nil {
		return result, sleepErr
	}
	if emitErr := emit(Event{Phase: PhasePing, Value: float64(result.PingMs), GaugeOffset: GaugeCircumference, Final: true}); emitErr != nil {
		return result, emitErr
	}
	if sleepErr := simulator.sleep(ctx, phasePause); sleepErr != nil {
		return result, sleepErr
	}
	if animateErr := simulator.animate(ctx, PhaseDownload, result.DownloadMbps, emit); animateErr != nil {
		return result, animateErr
	}
	if sleepErr := simulator.sleep(ctx, phasePause); sleepErr != nil {
		return result, sleepErr
	}
	if animateErr := simulator.animate(ctx, PhaseUpload, result.UploadMbps, emit); animateErr != nil {
		return result, animateErr
	}
	return result, emit(Event{Phase: PhaseDone, GaugeOffset: GaugeCircumference, Final: true})
}

func (simulator *Simulator) animate(ctx context.Context, phase string, speed float64, emit func(Event) error) error {
	offset := GaugeOffset(speed)
	steps := int(gaugeDuration / gaugeStepInterval)
	increment := speed / float64(steps)
	current := 0.0
	for step := 1; step <= steps; step++ {
		if sleepErr := simulator.sleep(ctx, gaugeStepInterval); sleepErr != nil {
			return sleepErr
		}
		current += increment
		if step == steps || current >= speed {
			return emit(Event{Phase: phase, Value: roundHundredths(speed), GaugeOffset: offset, Final: true})
		}
		if emitErr := emit(Event{Phase: phase, Value: roundHundredths(current), GaugeOffset: offset}); emitErr != nil {
			return emitErr
		}
	}
	return nil
}

func roundHundredths(value float64) float64 {
	return math.Round(value*100) / 100
}
