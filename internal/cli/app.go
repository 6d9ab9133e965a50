package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/profilekeeper/internal/artifact"
	"github.com/dmitrijs2005/profilekeeper/internal/capture"
	"github.com/dmitrijs2005/profilekeeper/internal/config"
	"github.com/dmitrijs2005/profilekeeper/internal/dbx"
	"github.com/dmitrijs2005/profilekeeper/internal/filex"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/photo"
	"github.com/dmitrijs2005/profilekeeper/internal/profile"
	"github.com/dmitrijs2005/profilekeeper/internal/repositories/metadata"
)

type App struct {
	config     *config.Config
	db         *sql.DB
	log        logging.Logger
	records    profile.RecordStore
	controller *photo.Controller
	imports    *importSource

	record profile.Record
	reader *bufio.Reader

	outMu sync.Mutex
	out   io.Writer

	wg          sync.WaitGroup
	watchMu     sync.Mutex
	cancelWatch context.CancelFunc
}

// NewApp opens storage, runs migrations and assembles the controller.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, bufio.NewReader(os.Stdin), os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, r *bufio.Reader, w io.Writer) (*App, error) {
	l := logging.New(c.LogLevel, os.Stderr)

	if err := filex.EnsureDir(c.DataDir); err != nil {
		return nil, err
	}

	dialect, err := dbx.ParseDialect(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := dbx.Open(ctx, dialect, c.DSN())
	if err != nil {
		l.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	durable, err := newDurable(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var imports *importSource
	if c.CaptureCommand == "" {
		imports = &importSource{}
	}

	device, err := newDevice(c, imports)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	repo := metadata.ForDialect(dialect)
	records := profile.NewSQLRecordStore(db, repo)
	ctrl := photo.NewController(
		artifact.NewStaging(c.DataDir),
		durable,
		profile.NewSQLMarkerStore(repo(db)),
		records,
		device,
		l,
	)

	return &App{
		config:     c,
		db:         db,
		log:        l,
		records:    records,
		controller: ctrl,
		imports:    imports,
		reader:     r,
		out:        w,
	}, nil
}

func newDurable(ctx context.Context, c *config.Config) (artifact.Durable, error) {
	switch c.PhotoBackend {
	case config.BackendFS, "":
		return artifact.NewFSStore(c.DataDir), nil
	case config.BackendS3:
		if c.S3Bucket == "" {
			return nil, errors.New("s3 backend needs a bucket")
		}
		return artifact.NewS3Store(ctx, artifact.S3Config{
			User:     c.S3User,
			Password: c.S3Password,
			Bucket:   c.S3Bucket,
			Region:   c.S3Region,
			Endpoint: c.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown photo backend %q", c.PhotoBackend)
	}
}

func newDevice(c *config.Config, imports *importSource) (capture.Device, error) {
	if c.CaptureCommand == "" {
		return &capture.ImportDevice{Source: imports.get}, nil
	}
	return capture.ParseCommand(c.CaptureCommand)
}

// importSource hands the path typed at the prompt to the import device,
// which reads it from its own goroutine.
type importSource struct {
	mu   sync.Mutex
	path string
}

func (s *importSource) set(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
}

func (s *importSource) get(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path, nil
}

// Run resumes the session and blocks in the REPL until the user leaves.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.Start(ctx); err != nil {
		return err
	}

	a.printf("Profile editor (type 'help' for commands)\n")
	runREPL(ctx, a, a.prompt, a.reader)

	cancel()
	a.wg.Wait()
	return nil
}

// Start loads the stored record and picks up any pending capture.
func (a *App) Start(ctx context.Context) error {
	r, err := a.records.Load(ctx)
	if err != nil {
		return err
	}
	a.record = r

	st, err := a.controller.ResumeIfPending(ctx)
	if err != nil {
		return err
	}
	a.log.Info(ctx, "session started", "session_id", a.controller.SessionID(), "state", st.String(), "data_dir", a.config.DataDir)

	switch st {
	case photo.StateCaptureReady:
		a.printf("Restored an unsaved photo: %s\n", a.controller.Feed().Current())
	case photo.StateAwaitingCapture:
		a.printf("A capture was still in progress, waiting for it to finish\n")
		return a.watchStaging(ctx)
	}
	return nil
}

// watchStaging waits for a device this process never talked to.
func (a *App) watchStaging(ctx context.Context) error {
	wctx, cancel := context.WithCancel(ctx)

	ch, err := capture.Watch(wctx, capture.Request{Output: a.controller.StagingPath()}, a.config.CaptureTimeout, capture.DefaultSettle)
	if err != nil {
		cancel()
		return err
	}

	a.watchMu.Lock()
	a.cancelWatch = cancel
	a.watchMu.Unlock()

	a.wg.Add(1)
	go func() {
		defer cancel()
		a.awaitCapture(ctx, ch)
	}()
	return nil
}

func (a *App) stopWatch() {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	if a.cancelWatch != nil {
		a.cancelWatch()
		a.cancelWatch = nil
	}
}

// awaitCapture relays the single device report to the controller and
// announces the preview it publishes. A timeout keeps the marker so the next
// run can still pick the photo up.
func (a *App) awaitCapture(ctx context.Context, ch <-chan capture.Result) {
	defer a.wg.Done()

	var res capture.Result
	select {
	case r, ok := <-ch:
		if !ok {
			r = capture.Result{Err: capture.ErrNoArtifact}
		}
		res = r
	case <-ctx.Done():
		return
	}
	// stopped by us: superseded, saved or cancelled
	if ctx.Err() != nil || errors.Is(res.Err, context.Canceled) {
		return
	}

	previews, unsubscribe := a.controller.Feed().Subscribe()
	defer unsubscribe()
	<-previews

	keep := errors.Is(res.Err, capture.ErrTimeout)
	if err := a.controller.OnCaptureCompleted(ctx, res, keep); err != nil {
		a.printf("Photo not taken: %v\n", err)
		return
	}

	// the controller publishes before OnCaptureCompleted returns
	select {
	case p, ok := <-previews:
		if ok && p.Source == photo.SourceStaged {
			a.printf("Photo ready: %s\n", p)
		}
	default:
	}
}

func (a *App) prompt() string {
	return fmt.Sprintf("profile (%s)> ", a.controller.State())
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) Close() {
	a.stopWatch()
	if a.db != nil {
		_ = a.db.Close()
	}
}
