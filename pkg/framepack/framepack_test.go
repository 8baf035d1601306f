package framepack_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/framepack/pkg/aggregate"
	"github.com/bft-labs/framepack/pkg/framepack"
	"github.com/bft-labs/framepack/pkg/index"
)

// =============================================================================
// Test Utilities
// =============================================================================

// genTable produces a deterministic TSV table of n records.
func genTable(n int) []byte {
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		fmt.Fprintf(&buf, "key%05d\t%d\n", i, i*13)
	}
	return buf.Bytes()
}

// writeInput writes a generated table into a temp dir and returns its path.
func writeInput(t *testing.T, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.tsv")
	if err := os.WriteFile(path, genTable(n), 0o600); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	return path
}

// compressFixture compresses a generated table with a small block size
// so the archive spans several frames.
func compressFixture(t *testing.T, n int) framepack.CompressSummary {
	t.Helper()
	summary, err := framepack.Compress(context.Background(), framepack.CompressConfig{
		InputPath: writeInput(t, n),
		BlockSize: 2048,
	})
	if err != nil {
		t.Fatalf("Compress() failed: %v", err)
	}
	return summary
}

// loadIndex reads the saved frame index back from disk.
func loadIndex(t *testing.T, path string) index.Index {
	t.Helper()
	idx, err := index.NewFileRepository(path).Load(context.Background())
	if err != nil {
		t.Fatalf("failed to load index: %v", err)
	}
	return idx
}

// corruptFrame flips one byte inside the given frame of the archive.
func corruptFrame(t *testing.T, archivePath string, meta index.FrameMeta) {
	t.Helper()
	data, err := os.ReadFile(archivePath)
	if err != nil {
		t.Fatalf("failed to read archive: %v", err)
	}
	data[meta.Position+meta.Length/2] ^= 0xff
	if err := os.WriteFile(archivePath, data, 0o600); err != nil {
		t.Fatalf("failed to rewrite archive: %v", err)
	}
}

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

// eventTracker records watcher events.
type eventTracker struct {
	framepack.BaseEventHandler
	mu           sync.Mutex
	stateChanges []framepack.StateChangeEvent
	passes       []framepack.PassCompleteEvent
	passErrors   []framepack.PassErrorEvent
}

func (e *eventTracker) OnStateChange(event framepack.StateChangeEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stateChanges = append(e.stateChanges, event)
}

func (e *eventTracker) OnPassComplete(event framepack.PassCompleteEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.passes = append(e.passes, event)
}

func (e *eventTracker) OnPassError(event framepack.PassErrorEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.passErrors = append(e.passErrors, event)
}

func (e *eventTracker) StateChanges() []framepack.StateChangeEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make([]framepack.StateChangeEvent, len(e.stateChanges))
	copy(cp, e.stateChanges)
	return cp
}

func (e *eventTracker) PassCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.passes)
}

func (e *eventTracker) PassErrorCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.passErrors)
}

// trackingPlugin records initialization and shutdown calls in order.
type trackingPlugin struct {
	name          string
	initOrder     *[]string
	shutdownOrder *[]string
	initError     error

	mu         sync.Mutex
	recompress func(ctx context.Context) error
}

func (p *trackingPlugin) Name() string { return p.name }

func (p *trackingPlugin) Initialize(ctx context.Context, cfg framepack.PluginConfig) error {
	if p.initError != nil {
		return p.initError
	}
	p.mu.Lock()
	p.recompress = cfg.Recompress
	p.mu.Unlock()
	*p.initOrder = append(*p.initOrder, p.name)
	return nil
}

func (p *trackingPlugin) Shutdown(ctx context.Context) error {
	*p.shutdownOrder = append(*p.shutdownOrder, p.name)
	return nil
}

func (p *trackingPlugin) Recompress(ctx context.Context) error {
	p.mu.Lock()
	fn := p.recompress
	p.mu.Unlock()
	if fn == nil {
		return errors.New("recompress hook not set")
	}
	return fn(ctx)
}

// =============================================================================
// One-Shot Operation Tests
// =============================================================================

func TestCompressDecompressRoundTrip(t *testing.T) {
	const records = 1200
	summary := compressFixture(t, records)

	if summary.Frames < 2 {
		t.Fatalf("expected a multi-frame archive, got %d frames", summary.Frames)
	}
	if summary.BytesRead != int64(len(genTable(records))) {
		t.Errorf("BytesRead = %d, want %d", summary.BytesRead, len(genTable(records)))
	}

	strategies := []aggregate.Strategy{
		aggregate.ConcurrentMap,
		aggregate.LocalThenCombine,
		aggregate.ParallelReduce,
	}

	for _, strategy := range strategies {
		t.Run(strategy.String(), func(t *testing.T) {
			mapping, result, err := framepack.Decompress(context.Background(), framepack.DecompressConfig{
				InputPath: summary.OutputPath,
				IndexPath: summary.IndexPath,
				Strategy:  strategy,
				Workers:   4,
			})
			if err != nil {
				t.Fatalf("Decompress() failed: %v", err)
			}

			if result.Records != records {
				t.Errorf("Records = %d, want %d", result.Records, records)
			}
			if result.FramesFailed != 0 {
				t.Errorf("FramesFailed = %d, want 0", result.FramesFailed)
			}
			if result.FramesDecoded != uint64(summary.Frames) {
				t.Errorf("FramesDecoded = %d, want %d", result.FramesDecoded, summary.Frames)
			}

			for i := 0; i < records; i++ {
				key := fmt.Sprintf("key%05d", i)
				got, ok := mapping.Load(key)
				if !ok {
					t.Fatalf("key %q missing from result", key)
				}
				if got != uint64(i*13) {
					t.Fatalf("mapping[%q] = %d, want %d", key, got, i*13)
				}
			}
		})
	}
}

func TestDecompressSingleWorkerMatchesParallel(t *testing.T) {
	summary := compressFixture(t, 600)
	ctx := context.Background()

	serial, _, err := framepack.Decompress(ctx, framepack.DecompressConfig{
		InputPath: summary.OutputPath,
		Workers:   1,
		Strategy:  aggregate.ParallelReduce,
	})
	if err != nil {
		t.Fatalf("serial Decompress() failed: %v", err)
	}

	parallel, _, err := framepack.Decompress(ctx, framepack.DecompressConfig{
		InputPath: summary.OutputPath,
		Workers:   4,
		Strategy:  aggregate.ParallelReduce,
	})
	if err != nil {
		t.Fatalf("parallel Decompress() failed: %v", err)
	}

	if serial.Len() != parallel.Len() {
		t.Fatalf("result sizes differ: serial %d, parallel %d", serial.Len(), parallel.Len())
	}
	serial.Range(func(key string, value uint64) bool {
		got, ok := parallel.Load(key)
		if !ok || got != value {
			t.Errorf("parallel result disagrees on %q: got %d (present %v), want %d", key, got, ok, value)
		}
		return true
	})
}

func TestDecompressSkipsCorruptedFrame(t *testing.T) {
	const records = 1200
	summary := compressFixture(t, records)
	idx := loadIndex(t, summary.IndexPath)
	if len(idx) < 3 {
		t.Fatalf("fixture too small: %d frames", len(idx))
	}
	corruptFrame(t, summary.OutputPath, idx[1])

	mapping, result, err := framepack.Decompress(context.Background(), framepack.DecompressConfig{
		InputPath: summary.OutputPath,
		Workers:   4,
	})
	if err != nil {
		t.Fatalf("Decompress() should skip the bad frame, got error: %v", err)
	}

	if result.FramesFailed != 1 {
		t.Errorf("FramesFailed = %d, want 1", result.FramesFailed)
	}
	if result.FramesDecoded != uint64(len(idx)-1) {
		t.Errorf("FramesDecoded = %d, want %d", result.FramesDecoded, len(idx)-1)
	}
	if result.Records == 0 || result.Records >= records {
		t.Errorf("Records = %d, want between 1 and %d", result.Records, records-1)
	}

	// Frames 0 and the last one are intact, so their records survive.
	if _, ok := mapping.Load("key00000"); !ok {
		t.Error("first record missing even though its frame is intact")
	}
	if _, ok := mapping.Load(fmt.Sprintf("key%05d", records-1)); !ok {
		t.Error("last record missing even though its frame is intact")
	}
}

func TestCompressMissingInput(t *testing.T) {
	_, err := framepack.Compress(context.Background(), framepack.CompressConfig{
		InputPath: filepath.Join(t.TempDir(), "absent.tsv"),
	})
	if err == nil {
		t.Fatal("Compress() should fail when the input file does not exist")
	}
}

func TestDecompressMissingIndex(t *testing.T) {
	summary := compressFixture(t, 50)
	if err := os.Remove(summary.IndexPath); err != nil {
		t.Fatalf("failed to remove index: %v", err)
	}

	_, _, err := framepack.Decompress(context.Background(), framepack.DecompressConfig{
		InputPath: summary.OutputPath,
	})
	if err == nil {
		t.Fatal("Decompress() should fail without an index file")
	}
}

// =============================================================================
// Verify Tests
// =============================================================================

func TestVerifyCleanArchive(t *testing.T) {
	const records = 800
	summary := compressFixture(t, records)

	report, err := framepack.Verify(context.Background(), framepack.VerifyConfig{
		InputPath: summary.OutputPath,
	})
	if err != nil {
		t.Fatalf("Verify() failed on a clean archive: %v", err)
	}

	if report.Frames != summary.Frames {
		t.Errorf("Frames = %d, want %d", report.Frames, summary.Frames)
	}
	if report.Lines != records {
		t.Errorf("Lines = %d, want %d", report.Lines, records)
	}
	if report.Records != records {
		t.Errorf("Records = %d, want %d", report.Records, records)
	}
	if report.Uncompressed != uint64(len(genTable(records))) {
		t.Errorf("Uncompressed = %d, want %d", report.Uncompressed, len(genTable(records)))
	}
	if report.Compressed != summary.BytesWritten {
		t.Errorf("Compressed = %d, want %d", report.Compressed, summary.BytesWritten)
	}
}

func TestVerifyDetectsCorruption(t *testing.T) {
	summary := compressFixture(t, 800)
	idx := loadIndex(t, summary.IndexPath)
	corruptFrame(t, summary.OutputPath, idx[0])

	_, err := framepack.Verify(context.Background(), framepack.VerifyConfig{
		InputPath: summary.OutputPath,
	})
	if err == nil {
		t.Fatal("Verify() should report the corrupted frame")
	}
}

func TestVerifyDetectsTruncation(t *testing.T) {
	summary := compressFixture(t, 800)

	info, err := os.Stat(summary.OutputPath)
	if err != nil {
		t.Fatalf("failed to stat archive: %v", err)
	}
	if err := os.Truncate(summary.OutputPath, info.Size()-1); err != nil {
		t.Fatalf("failed to truncate archive: %v", err)
	}

	_, err = framepack.Verify(context.Background(), framepack.VerifyConfig{
		InputPath: summary.OutputPath,
	})
	if err == nil {
		t.Fatal("Verify() should report the size mismatch")
	}
}

// =============================================================================
// Watcher Lifecycle Tests
// =============================================================================

func TestWatcherLifecycle(t *testing.T) {
	input := writeInput(t, 200)
	tracker := &eventTracker{}

	w, err := framepack.NewWatcher(
		framepack.CompressConfig{InputPath: input},
		framepack.WithEventHandler(tracker),
	)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	if w.Status() != framepack.StateStopped {
		t.Fatalf("initial state = %v, want Stopped", w.Status())
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !waitFor(t, 5*time.Second, func() bool { return w.Status() == framepack.StateRunning }) {
		t.Fatalf("watcher never reached Running, state = %v", w.Status())
	}

	if _, err := os.Stat(input + ".zst"); err != nil {
		t.Errorf("archive missing after initial pass: %v", err)
	}
	if _, err := os.Stat(input + ".zst.idx"); err != nil {
		t.Errorf("index missing after initial pass: %v", err)
	}
	if tracker.PassCount() != 1 {
		t.Errorf("pass count = %d, want 1", tracker.PassCount())
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if w.Status() != framepack.StateStopped {
		t.Errorf("state after Stop = %v, want Stopped", w.Status())
	}

	changes := tracker.StateChanges()
	if len(changes) < 4 {
		t.Fatalf("expected at least 4 state changes, got %d: %v", len(changes), changes)
	}
	if changes[0].Current != framepack.StateStarting || changes[1].Current != framepack.StateRunning {
		t.Errorf("unexpected startup transitions: %v", changes[:2])
	}
	last := changes[len(changes)-1]
	if last.Current != framepack.StateStopped {
		t.Errorf("final transition = %v, want Stopped", last)
	}
}

func TestWatcherStopWithoutStart(t *testing.T) {
	w, err := framepack.NewWatcher(framepack.CompressConfig{InputPath: "table.tsv"})
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	if err := w.Stop(); err == nil {
		t.Fatal("Stop() before Start() should fail")
	}
}

func TestWatcherDoubleStart(t *testing.T) {
	input := writeInput(t, 50)
	w, err := framepack.NewWatcher(framepack.CompressConfig{InputPath: input})
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("first Start() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(ctx); err == nil {
		t.Fatal("second Start() should fail while running")
	}
}

func TestWatcherRestart(t *testing.T) {
	input := writeInput(t, 50)
	w, err := framepack.NewWatcher(framepack.CompressConfig{InputPath: input})
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}

	for round := 0; round < 2; round++ {
		if err := w.Start(context.Background()); err != nil {
			t.Fatalf("round %d: Start() failed: %v", round, err)
		}
		if !waitFor(t, 5*time.Second, func() bool { return w.Status() == framepack.StateRunning }) {
			t.Fatalf("round %d: watcher never reached Running", round)
		}
		if err := w.Stop(); err != nil {
			t.Fatalf("round %d: Stop() failed: %v", round, err)
		}
	}
}

func TestWatcherRetriesMissingInput(t *testing.T) {
	tracker := &eventTracker{}
	w, err := framepack.NewWatcher(
		framepack.CompressConfig{InputPath: filepath.Join(t.TempDir(), "absent.tsv")},
		framepack.WithEventHandler(tracker),
	)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// The initial pass cannot succeed, so the watcher stays in Starting
	// and reports pass errors while it retries.
	if !waitFor(t, 2*time.Second, func() bool { return tracker.PassErrorCount() >= 1 }) {
		t.Fatal("no pass errors reported for a missing input")
	}
	if w.Status() != framepack.StateStarting {
		t.Errorf("state = %v, want Starting while retrying", w.Status())
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if w.Status() != framepack.StateStopped {
		t.Errorf("state after Stop = %v, want Stopped", w.Status())
	}
}

// =============================================================================
// Plugin Tests
// =============================================================================

func TestWatcherPluginOrder(t *testing.T) {
	input := writeInput(t, 50)
	var initOrder, shutdownOrder []string

	p1 := &trackingPlugin{name: "plugin1", initOrder: &initOrder, shutdownOrder: &shutdownOrder}
	p2 := &trackingPlugin{name: "plugin2", initOrder: &initOrder, shutdownOrder: &shutdownOrder}
	p3 := &trackingPlugin{name: "plugin3", initOrder: &initOrder, shutdownOrder: &shutdownOrder}

	w, err := framepack.NewWatcher(
		framepack.CompressConfig{InputPath: input},
		framepack.WithPlugin(p1),
		framepack.WithPlugin(p2),
		framepack.WithPlugin(p3),
	)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if len(initOrder) != 3 || initOrder[0] != "plugin1" || initOrder[2] != "plugin3" {
		t.Errorf("unexpected init order: %v", initOrder)
	}

	waitFor(t, 5*time.Second, func() bool { return w.Status() == framepack.StateRunning })
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	// Shutdown runs in reverse order.
	if len(shutdownOrder) != 3 || shutdownOrder[0] != "plugin3" || shutdownOrder[2] != "plugin1" {
		t.Errorf("unexpected shutdown order: %v", shutdownOrder)
	}
}

func TestWatcherPluginInitFailure(t *testing.T) {
	input := writeInput(t, 50)
	var initOrder, shutdownOrder []string

	bad := &trackingPlugin{
		name:          "broken",
		initOrder:     &initOrder,
		shutdownOrder: &shutdownOrder,
		initError:     errors.New("intentional init failure"),
	}

	w, err := framepack.NewWatcher(
		framepack.CompressConfig{InputPath: input},
		framepack.WithPlugin(bad),
	)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}

	if err := w.Start(context.Background()); err == nil {
		t.Fatal("Start() should fail when a plugin fails to initialize")
	}
	if w.Status() != framepack.StateCrashed {
		t.Errorf("state = %v, want Crashed after plugin init failure", w.Status())
	}
}

func TestWatcherRecompressHook(t *testing.T) {
	input := writeInput(t, 50)
	var initOrder, shutdownOrder []string
	tracker := &eventTracker{}
	plugin := &trackingPlugin{name: "trigger", initOrder: &initOrder, shutdownOrder: &shutdownOrder}

	w, err := framepack.NewWatcher(
		framepack.CompressConfig{InputPath: input},
		framepack.WithEventHandler(tracker),
		framepack.WithPlugin(plugin),
	)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer w.Stop()

	if !waitFor(t, 5*time.Second, func() bool { return w.Status() == framepack.StateRunning }) {
		t.Fatal("watcher never reached Running")
	}
	if tracker.PassCount() != 1 {
		t.Fatalf("pass count after start = %d, want 1", tracker.PassCount())
	}

	// A plugin trigger runs one more pass.
	if err := plugin.Recompress(context.Background()); err != nil {
		t.Fatalf("Recompress() failed: %v", err)
	}
	if tracker.PassCount() != 2 {
		t.Errorf("pass count after trigger = %d, want 2", tracker.PassCount())
	}
}
