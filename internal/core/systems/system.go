package systems

import (
	"context"
	"time"
)

// System is a processor driven at a fixed timestep by a Runner.
type System interface {
	Name() string
	Priority() Priority

	Initialize(ctx context.Context) error
	FixedUpdate(fixedDeltaTime float64) error
	Shutdown(ctx context.Context) error
}

// Priority orders systems within a tick; higher runs first.
type Priority uint16

const (
	PriorityLowest  Priority = 200
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	ErrorCount           uint64
	LastError            error
	LastExecutionTime    time.Time
}

func (m *Metrics) record(start time.Time, d time.Duration, err error) {
	m.ExecutionCount++
	m.TotalExecutionTime += d
	m.AverageExecutionTime = m.TotalExecutionTime / time.Duration(m.ExecutionCount)
	if d > m.MaxExecutionTime {
		m.MaxExecutionTime = d
	}
	m.LastExecutionTime = start
	if err != nil {
		m.ErrorCount++
		m.LastError = err
	}
}
