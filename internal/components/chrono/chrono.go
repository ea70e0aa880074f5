package chrono

import (
	"context"
	"time"
)

// API is the interface that anything depending on the system clock should use.
type API interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, whichever comes first.
	Sleep(ctx context.Context, d time.Duration) error
}

// StandardImpl is the standard implementation of API using the standard library.
type StandardImpl struct{}

func NewStandardImpl() StandardImpl {
	return StandardImpl{}
}

func (StandardImpl) Now() time.Time {
	return time.Now()
}

func (StandardImpl) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FakeImpl is a manually advanced clock, sleeping advances it instantly.
type FakeImpl struct {
	Current time.Time
	// Slept records every duration passed to Sleep.
	Slept []time.Duration
}

func NewFakeImpl(start time.Time) *FakeImpl {
	return &FakeImpl{Current: start}
}

func (f *FakeImpl) Now() time.Time {
	return f.Current
}

func (f *FakeImpl) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.Slept = append(f.Slept, d)
	f.Current = f.Current.Add(d)
	return nil
}
