// Package preview serves the rendered help tree locally and rebuilds it
// whenever the source tree changes.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/thiblahute/pitivi-old/internal/docset"
	"github.com/thiblahute/pitivi-old/internal/errors"
	"github.com/thiblahute/pitivi-old/internal/logfields"
	"github.com/thiblahute/pitivi-old/internal/manifest"
	"github.com/thiblahute/pitivi-old/internal/metrics"
	"github.com/thiblahute/pitivi-old/internal/render"
)

const debounceDelay = 300 * time.Millisecond

// buildStatus tracks the current build state for error display.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.hasGoodBuild = true
}

func (bs *buildStatus) get() (lastError error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError, bs.hasGoodBuild
}

// Server watches a help tree, rebuilds on change and serves the output.
type Server struct {
	m        *manifest.Manifest
	outDir   string
	recorder *metrics.Recorder
	status   buildStatus
}

// NewServer creates a preview server for the manifest's help tree.
func NewServer(m *manifest.Manifest, recorder *metrics.Recorder) *Server {
	return &Server{m: m, outDir: m.Output.Directory, recorder: recorder}
}

// Run builds once, then serves and watches until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.rebuild(ctx); err != nil {
		slog.Error("initial build failed", logfields.Error(err))
		s.status.setError(err)
	}

	httpServer, err := s.startHTTP(ctx)
	if err != nil {
		return err
	}

	watcher, err := setupWatcher(s.m.HelpDir)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	done := make(chan struct{})
	rebuildReq, trigger := setupDebouncer(done)
	s.startRebuildWorker(ctx, rebuildReq)

	scheduler, err := s.startScheduler(trigger)
	if err != nil {
		return err
	}

	return s.runLoop(ctx, watcher, trigger, done, httpServer, scheduler)
}

func (s *Server) rebuild(ctx context.Context) error {
	started := time.Now()

	ds, err := docset.Load(s.m)
	if err != nil {
		s.recorder.ObserveRebuild(time.Since(started), metrics.ResultFailed)
		return err
	}
	renderer, err := render.NewRenderer(ds, s.outDir)
	if err != nil {
		s.recorder.ObserveRebuild(time.Since(started), metrics.ResultFailed)
		return err
	}
	stats, err := renderer.RenderAll(ctx)
	if err != nil {
		s.recorder.ObserveRebuild(time.Since(started), metrics.ResultFailed)
		return err
	}

	s.recorder.ObserveRebuild(time.Since(started), metrics.ResultSuccess)
	s.recorder.SetPagesRendered(stats.PagesRendered, stats.Fallbacks)
	slog.Info("help tree rebuilt",
		logfields.Pages(stats.PagesRendered),
		logfields.DurationMS(float64(time.Since(started).Milliseconds())))
	return nil
}

func (s *Server) startHTTP(ctx context.Context) (*http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle("/", s.instrument(http.FileServer(http.Dir(s.outDir))))
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.m.Serve.Metrics {
		mux.Handle("/metrics", s.recorder.Handler())
	}

	addr := fmt.Sprintf(":%d", s.m.Serve.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryServe, errors.SeverityFatal, "listen on preview port")
	}

	go func() {
		if serveErr := httpServer.Serve(ln); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("preview server stopped", logfields.Error(serveErr))
		}
	}()
	slog.Info("preview server listening",
		slog.Int("port", s.m.Serve.Port),
		slog.String("url", fmt.Sprintf("http://localhost:%d/C/index.html", s.m.Serve.Port)))
	return httpServer, nil
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.recorder.IncRequest(fmt.Sprintf("%dxx", sw.status/100))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	lastErr, good := s.status.get()
	switch {
	case lastErr != nil:
		http.Error(w, "last rebuild failed: "+lastErr.Error(), http.StatusInternalServerError)
	case !good:
		http.Error(w, "no successful build yet", http.StatusServiceUnavailable)
	default:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}
}

func setupWatcher(helpDir string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryServe, errors.SeverityFatal, "create file watcher")
	}
	if err := addDirsRecursive(watcher, helpDir); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// setupDebouncer creates the rebuild channel and a trigger that coalesces
// bursts of change events into a single request. A timer still armed when
// done closes fires into nothing instead of requesting a rebuild.
func setupDebouncer(done <-chan struct{}) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceDelay, func() {
			select {
			case <-done:
				return
			default:
			}
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

func (s *Server) startRebuildWorker(ctx context.Context, rebuildReq chan struct{}) {
	var mu sync.Mutex
	running := false
	pending := false

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				mu.Lock()
				if running {
					pending = true
					mu.Unlock()
					continue
				}
				running = true
				mu.Unlock()

				slog.Info("change detected, rebuilding help tree")
				if err := s.rebuild(ctx); err != nil {
					// A rebuild can catch a file mid-save; the next change
					// event retries it.
					werr := errors.WrapRetryable(err, errors.CategoryServe, errors.SeverityError, "rebuild help tree")
					slog.Warn("rebuild failed", logfields.Error(werr))
					s.status.setError(werr)
				} else {
					s.status.setSuccess()
				}

				mu.Lock()
				running = false
				if pending {
					pending = false
					mu.Unlock()
					select {
					case rebuildReq <- struct{}{}:
					default:
					}
				} else {
					mu.Unlock()
				}
			}
		}
	}()
}

// startScheduler sets up the optional periodic rebuild. It covers changes
// the watcher cannot see, such as figures replaced by external tooling.
func (s *Server) startScheduler(trigger func()) (gocron.Scheduler, error) {
	interval := s.m.Serve.RebuildEvery()
	if interval <= 0 {
		return nil, nil
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryServe, errors.SeverityError, "create rebuild scheduler")
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(trigger),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryServe, errors.SeverityError, "schedule periodic rebuild")
	}
	scheduler.Start()
	slog.Info("periodic rebuild enabled", slog.Duration("interval", interval))
	return scheduler, nil
}

func (s *Server) runLoop(ctx context.Context, watcher *fsnotify.Watcher, trigger func(), done chan struct{}, httpServer *http.Server, scheduler gocron.Scheduler) error {
	for {
		select {
		case <-ctx.Done():
			return s.shutdown(httpServer, done, scheduler)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleFileEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (s *Server) shutdown(httpServer *http.Server, done chan struct{}, scheduler gocron.Scheduler) error {
	slog.Info("shutting down preview server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if scheduler != nil {
		if err := scheduler.Shutdown(); err != nil {
			slog.Warn("scheduler shutdown error", logfields.Error(err))
		}
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown error", logfields.Error(err))
	}
	close(done)
	return nil
}

func handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("file change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if addErr := w.Add(path); addErr != nil {
				slog.Warn("watch add failed", logfields.Path(path), logfields.Error(addErr))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent reports whether a filesystem event is editor noise.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
