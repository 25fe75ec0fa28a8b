package integration

import (
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/auraflow/internal/event"
	"github.com/stigoleg/auraflow/internal/jiggler"
)

// runSignalHelper starts this test binary as a child running the headless
// helper, sends it a signal and expects a clean exit.
func runSignalHelper(t *testing.T, send func(*os.Process) error) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping cleanup test in short mode")
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestShutdownHelper$")
	cmd.Env = append(os.Environ(), "AURAFLOW_SHUTDOWN_HELPER=1")
	require.NoError(t, cmd.Start(), "helper process should start")

	time.Sleep(time.Second)
	require.NoError(t, send(cmd.Process), "should send signal")

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		assert.NoError(t, err, "process should exit cleanly after the signal")
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatal("process did not exit within timeout")
	}
}

// TestShutdownHelper is the child side of the signal tests. It wires the
// same shutdown path as the binary and exits non-zero if cleanup fails.
func TestShutdownHelper(t *testing.T) {
	if os.Getenv("AURAFLOW_SHUTDOWN_HELPER") != "1" {
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, shutdownSignals()...)

	ctrl, bus, _ := newPipeline(0, 1)
	sub := bus.Subscribe(event.DefaultBuffer)

	cleanup := jiggler.NewCleanupManager(2 * time.Second)
	cleanup.RegisterFunc("event bus", func() error {
		bus.Close()
		return nil
	})
	cleanup.RegisterController(ctrl)

	if _, err := ctrl.Start(); err != nil {
		os.Exit(1)
	}

	<-sigChan

	if err := cleanup.Shutdown(); err != nil || ctrl.IsRunning() {
		os.Exit(1)
	}
	// The subscription must be closed once the bus is.
	for range sub.C() {
	}
	os.Exit(0)
}

// TestCleanupOnSIGINT verifies cleanup on SIGINT (Ctrl+C)
func TestCleanupOnSIGINT(t *testing.T) {
	runSignalHelper(t, func(p *os.Process) error { return p.Signal(syscall.SIGINT) })
}

// TestCleanupOnSIGTERM verifies cleanup on SIGTERM
func TestCleanupOnSIGTERM(t *testing.T) {
	runSignalHelper(t, func(p *os.Process) error { return p.Signal(syscall.SIGTERM) })
}

// TestCleanupOnSIGQUIT verifies cleanup on SIGQUIT
func TestCleanupOnSIGQUIT(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("SIGQUIT not supported on Windows")
	}
	runSignalHelper(t, func(p *os.Process) error { return p.Signal(syscall.SIGQUIT) })
}

// TestCleanupOnSIGTSTP verifies cleanup on SIGTSTP (Ctrl+Z)
func TestCleanupOnSIGTSTP(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("SIGTSTP not supported on Windows")
	}
	runSignalHelper(t, sendSuspend)
}

// TestCleanupTimeout verifies that a stuck resource cannot hold up shutdown
// and that the controller is still stopped.
func TestCleanupTimeout(t *testing.T) {
	ctrl, bus, _ := newPipeline(0, 1)
	defer bus.Close()

	release := make(chan struct{})
	defer close(release)

	cleanup := jiggler.NewCleanupManager(100 * time.Millisecond)
	cleanup.RegisterFunc("stuck", func() error {
		<-release
		return nil
	})
	cleanup.RegisterController(ctrl)

	_, err := ctrl.Start()
	require.NoError(t, err)

	start := time.Now()
	err = cleanup.Shutdown()
	assert.Less(t, time.Since(start), 500*time.Millisecond, "cleanup should complete within timeout")
	assert.ErrorIs(t, err, jiggler.ErrCleanupTimeout)
	assert.False(t, ctrl.IsRunning(), "controller should be stopped")
}

// TestConcurrentStops verifies that concurrent stops are idempotent and
// produce exactly one Stopped event.
func TestConcurrentStops(t *testing.T) {
	ctrl, bus, _ := newPipeline(120, 60)
	defer bus.Close()
	seen := collectFrom(bus.Subscribe(0))

	_, err := ctrl.Start()
	require.NoError(t, err)

	done := make(chan error, 5)
	for i := 0; i < 5; i++ {
		go func() {
			_, err := ctrl.Stop()
			done <- err
		}()
	}

	for i := 0; i < 5; i++ {
		select {
		case err := <-done:
			assert.NoError(t, err, "concurrent stop %d should succeed", i)
		case <-time.After(2 * time.Second):
			t.Fatal("stop did not complete within timeout")
		}
	}

	ctrl.Wait()
	assert.False(t, ctrl.IsRunning(), "controller should be stopped after multiple stops")
	require.Eventually(t, func() bool { return seen.Count(event.KindStopped) == 1 },
		time.Second, 10*time.Millisecond)
}
