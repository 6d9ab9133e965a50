// Package capture describes the external photo capture device and ships
// the devices the CLI can drive.
//
// A device is handed an output path and reports completion exactly once on
// the returned channel. The report may arrive long after Capture returned,
// possibly to a different controller instance than the one that asked.
package capture

import (
	"context"
	"errors"
)

var (
	ErrNoArtifact = errors.New("device produced no artifact")
	ErrTimeout    = errors.New("capture timed out")
)

// Request asks a device to write one artifact to Output.
type Request struct {
	ID     string
	Output string
}

// Result is the single completion notification for a Request.
type Result struct {
	RequestID string
	Err       error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Device produces a photo at the requested location.
type Device interface {
	Capture(ctx context.Context, req Request) <-chan Result
}

// DeviceFunc adapts a blocking function into an asynchronous Device.
type DeviceFunc func(ctx context.Context, output string) error

func (f DeviceFunc) Capture(ctx context.Context, req Request) <-chan Result {
	return deliver(ctx, req, f)
}

// deliver runs fn in the background and publishes its outcome once.
func deliver(ctx context.Context, req Request, fn func(ctx context.Context, output string) error) <-chan Result {
	ch := make(chan Result, 1)

	go func() {
		defer close(ch)
		ch <- Result{RequestID: req.ID, Err: fn(ctx, req.Output)}
	}()

	return ch
}
