package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/profilekeeper/internal/artifact"
	"github.com/dmitrijs2005/profilekeeper/internal/capture"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/profile"
	"github.com/google/uuid"
)

// MarkerStore persists the pending-capture marker outside process memory.
type MarkerStore interface {
	// Load returns the marker and whether one is set.
	Load(ctx context.Context) (string, bool, error)
	Save(ctx context.Context, marker string) error
	Clear(ctx context.Context) error
}

// Controller drives one profile editing session.
// All methods are safe for concurrent use and are serialized.
type Controller struct {
	mu sync.Mutex

	staging *artifact.Staging
	durable artifact.Durable
	markers MarkerStore
	records profile.RecordStore
	device  capture.Device
	log     logging.Logger
	feed    *Feed

	sessionID string
	state     State
	requestID string
	marker    string
	hasMarker bool
}

func NewController(
	staging *artifact.Staging,
	durable artifact.Durable,
	markers MarkerStore,
	records profile.RecordStore,
	device capture.Device,
	l logging.Logger,
) *Controller {
	id := uuid.NewString()
	return &Controller{
		staging:   staging,
		durable:   durable,
		markers:   markers,
		records:   records,
		device:    device,
		log:       l.With("session_id", id),
		feed:      NewFeed(),
		sessionID: id,
		state:     StateIdle,
	}
}

func (c *Controller) SessionID() string {
	return c.sessionID
}

// Feed is where previews are published.
func (c *Controller) Feed() *Feed {
	return c.feed
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Marker returns the pending-capture marker as last seen by this controller.
func (c *Controller) Marker() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.marker, c.hasMarker
}

// RequestID is the ID of the capture this controller is waiting for, or ""
// when it accepts any result.
func (c *Controller) RequestID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requestID
}

// StagingPath is the fixed location the device writes into.
func (c *Controller) StagingPath() string {
	return c.staging.Path()
}

// BeginCapture persists the marker and hands the staging slot to the device.
// The returned channel delivers the single completion report; pass it to
// OnCaptureCompleted. It may be called again to retake the photo.
func (c *Controller) BeginCapture(ctx context.Context) (<-chan capture.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Terminal() {
		return nil, common.ErrSessionClosed
	}

	if err := c.staging.Prepare(); err != nil {
		return nil, err
	}

	marker := profile.MarkerFor(c.staging.Path())
	if err := c.markers.Save(ctx, marker); err != nil {
		return nil, err
	}
	c.marker, c.hasMarker = marker, true

	c.requestID = uuid.NewString()
	c.state = StateAwaitingCapture

	c.log.Info(ctx, "capture requested", "request_id", c.requestID, "output", c.staging.Path())

	return c.device.Capture(ctx, capture.Request{ID: c.requestID, Output: c.staging.Path()}), nil
}

// OnCaptureCompleted applies the device's report. Reports for another
// request, or arriving outside AwaitingCapture, are ignored.
//
// A failed capture returns common.ErrCaptureFailed. With keepForRetry the
// marker stays set and the controller keeps waiting; otherwise the marker
// and any partial artifact are removed and the session returns to Idle.
func (c *Controller) OnCaptureCompleted(ctx context.Context, res capture.Result, keepForRetry bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAwaitingCapture {
		c.log.Debug(ctx, "capture result ignored", "request_id", res.RequestID, "state", c.state.String())
		return nil
	}
	if c.requestID != "" && res.RequestID != c.requestID {
		c.log.Debug(ctx, "stale capture result ignored", "request_id", res.RequestID, "expected", c.requestID)
		return nil
	}

	if res.Err != nil {
		return c.failCapture(ctx, res.Err, keepForRetry)
	}

	b, err := c.staging.Read()
	if errors.Is(err, common.ErrorNotFound) {
		return c.failCapture(ctx, capture.ErrNoArtifact, keepForRetry)
	}
	if err != nil {
		return c.failCapture(ctx, err, keepForRetry)
	}

	p, err := decodePreview(b, SourceStaged)
	if err != nil {
		return c.failCapture(ctx, err, keepForRetry)
	}

	c.feed.publish(p)
	c.state = StateCaptureReady

	c.log.Info(ctx, "capture ready", "request_id", res.RequestID, "format", p.Format, "width", p.Width, "height", p.Height)

	return nil
}

func (c *Controller) failCapture(ctx context.Context, cause error, keepForRetry bool) error {
	c.log.Warn(ctx, "capture failed", "request_id", c.requestID, "error", cause, "keep_for_retry", keepForRetry)

	failure := fmt.Errorf("%w: %w", common.ErrCaptureFailed, cause)
	if keepForRetry {
		return failure
	}

	if err := c.markers.Clear(ctx); err != nil {
		return errors.Join(failure, err)
	}
	c.marker, c.hasMarker = "", false

	if _, err := c.staging.Remove(); err != nil {
		return errors.Join(failure, err)
	}

	c.requestID = ""
	c.state = StateIdle

	return failure
}

// ResumeIfPending reconstructs the session from the persisted marker and the
// physical state of the staging slot. It is called once on session start.
func (c *Controller) ResumeIfPending(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Terminal() {
		return c.state, common.ErrSessionClosed
	}

	marker, ok, err := c.markers.Load(ctx)
	if err != nil {
		return c.state, err
	}

	staged, err := c.staging.Exists()
	if err != nil {
		return c.state, err
	}

	if !ok {
		if staged {
			c.log.Warn(ctx, "removing orphaned staged photo", "path", c.staging.Path())
			if _, err := c.staging.Remove(); err != nil {
				return c.state, err
			}
		}
		c.marker, c.hasMarker = "", false
		c.state = StateIdle
		c.publishDurable(ctx)
		return c.state, nil
	}

	c.marker, c.hasMarker = marker, true
	// a rebuilt controller accepts whatever the device reports next
	c.requestID = ""

	if staged {
		p, err := c.loadStaged()
		if err == nil {
			c.feed.publish(p)
			c.state = StateCaptureReady
			c.log.Info(ctx, "resumed with staged photo", "marker", marker)
			return c.state, nil
		}
		// the device may still be writing it
		c.log.Warn(ctx, "staged photo not readable yet", "error", err)
	}

	c.state = StateAwaitingCapture
	c.publishDurable(ctx)
	c.log.Info(ctx, "resumed awaiting capture", "marker", marker)

	return c.state, nil
}

func (c *Controller) loadStaged() (Preview, error) {
	b, err := c.staging.Read()
	if err != nil {
		return Preview{}, err
	}
	return decodePreview(b, SourceStaged)
}

// publishDurable shows the durable photo, or nothing when there is none.
func (c *Controller) publishDurable(ctx context.Context) {
	b, err := c.durable.Read(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		c.feed.publish(Preview{Source: SourceNone})
		return
	}
	if err != nil {
		c.log.Error(ctx, "failed to read durable photo", "location", c.durable.Location(), "error", err)
		return
	}

	p, err := decodePreview(b, SourceDurable)
	if err != nil {
		c.log.Warn(ctx, "durable photo is not a readable image", "location", c.durable.Location(), "error", err)
		p = Preview{Data: b, Source: SourceDurable}
	}
	c.feed.publish(p)
}

// Commit saves r and then promotes the staged photo to durable storage. Only
// a photo this session accepted in CaptureReady is promoted, and it is decoded
// once more first; any other staged file is dropped and the durable photo is
// kept. The record is written first; if that fails nothing else happens.
// A failed promotion leaves the durable photo and the marker as they were,
// so Commit can be retried. After Discard it is a no-op.
func (c *Controller) Commit(ctx context.Context, r profile.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Terminal() {
		c.log.Debug(ctx, "commit ignored", "state", c.state.String())
		return nil
	}

	if err := c.records.Save(ctx, r); err != nil {
		c.log.Error(ctx, "failed to save profile", "error", err)
		return fmt.Errorf("%w: %w", common.ErrCommitFailed, err)
	}

	staged, err := c.staging.Exists()
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrCommitFailed, err)
	}

	replaced := false
	switch {
	case staged && c.state == StateCaptureReady:
		if err := c.promote(ctx); err != nil {
			c.log.Error(ctx, "failed to promote staged photo", "location", c.durable.Location(), "error", err)
			return fmt.Errorf("%w: %w", common.ErrCommitFailed, err)
		}
		replaced = true
		if _, err := c.staging.Remove(); err != nil {
			return fmt.Errorf("%w: %w", common.ErrCommitFailed, err)
		}
	case staged:
		c.log.Warn(ctx, "dropping staged photo that was never accepted", "state", c.state.String(), "path", c.staging.Path())
		if _, err := c.staging.Remove(); err != nil {
			return fmt.Errorf("%w: %w", common.ErrCommitFailed, err)
		}
	}

	if err := c.markers.Clear(ctx); err != nil {
		return fmt.Errorf("%w: %w", common.ErrCommitFailed, err)
	}
	c.marker, c.hasMarker = "", false

	c.requestID = ""
	c.state = StateCommitted
	c.publishDurable(ctx)

	c.log.Info(ctx, "profile committed", "photo_replaced", replaced)

	return nil
}

// promote copies the staged photo over the durable one if it still decodes.
// The bytes checked are the bytes written.
func (c *Controller) promote(ctx context.Context) error {
	b, err := c.staging.Read()
	if err != nil {
		return err
	}
	if _, err := decodePreview(b, SourceStaged); err != nil {
		return err
	}

	return c.durable.Replace(ctx, bytes.NewReader(b))
}

// Discard drops the staged photo and the marker. The durable photo and the
// stored record are left alone. Calling it again is harmless; after Commit
// it does nothing.
func (c *Controller) Discard(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateCommitted {
		c.log.Debug(ctx, "discard ignored", "state", c.state.String())
		return nil
	}

	if err := c.markers.Clear(ctx); err != nil {
		return err
	}
	c.marker, c.hasMarker = "", false

	removed, err := c.staging.Remove()
	if err != nil {
		return err
	}

	if c.state != StateDiscarded {
		c.state = StateDiscarded
		c.publishDurable(ctx)
	}
	c.requestID = ""

	c.log.Info(ctx, "session discarded", "staged_removed", removed)

	return nil
}
