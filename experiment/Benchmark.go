package experiment

import (
	"fmt"
	"time"

	env "github.com/samuelfneumann/corridorgrid/environment"
)

// BenchmarkResult holds the timings measured by Benchmark
type BenchmarkResult struct {
	Resets         int
	Frames         int
	ResetTime      time.Duration // mean time per reset
	RenderFPS      float64
	StepsPerSecond float64
}

func (b BenchmarkResult) String() string {
	str := "Env reset time: %.1f ms\nRendering FPS : %.0f\nAgent view " +
		"FPS: %.0f"

	return fmt.Sprintf(str, float64(b.ResetTime)/float64(time.Millisecond),
		b.RenderFPS, b.StepsPerSecond)
}

// Benchmark times resets, renders and steps of environment e. The
// environment is reset resets times, then rendered and stepped with
// action 0 frames times each, resetting whenever an episode ends.
func Benchmark(e env.Environment, resets, frames int) (BenchmarkResult,
	error) {
	if resets <= 0 || frames <= 0 {
		return BenchmarkResult{}, fmt.Errorf("benchmark: resets and frames "+
			"must be positive, got %d and %d", resets, frames)
	}
	result := BenchmarkResult{Resets: resets, Frames: frames}

	start := time.Now()
	for i := 0; i < resets; i++ {
		if _, err := e.Reset(); err != nil {
			return BenchmarkResult{}, fmt.Errorf("benchmark: %w", err)
		}
	}
	result.ResetTime = time.Since(start) / time.Duration(resets)

	start = time.Now()
	for i := 0; i < frames; i++ {
		_ = e.Render()
	}
	result.RenderFPS = perSecond(frames, time.Since(start))

	if _, err := e.Reset(); err != nil {
		return BenchmarkResult{}, fmt.Errorf("benchmark: %w", err)
	}
	action := NewFixedSelector(0)

	start = time.Now()
	for i := 0; i < frames; i++ {
		_, last, err := e.Step(action.SelectAction(e.CurrentTimeStep()))
		if err != nil {
			return BenchmarkResult{}, fmt.Errorf("benchmark: %w", err)
		}
		if last {
			if _, err := e.Reset(); err != nil {
				return BenchmarkResult{}, fmt.Errorf("benchmark: %w", err)
			}
		}
	}
	result.StepsPerSecond = perSecond(frames, time.Since(start))

	return result, nil
}

func perSecond(n int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		elapsed = time.Nanosecond
	}
	return float64(n) / elapsed.Seconds()
}
