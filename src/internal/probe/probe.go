// Package probe heuristically determines whether an installed artifact can
// serve real requests. A version can be structurally present (directory plus
// binary) yet functionally unable to talk to the backing service, and a
// successful --version run proves nothing: deprecated builds still print a
// version string. The probe instead drives a minimal real interaction and
// classifies the output.
package probe

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Outcome classifies an artifact's viability
type Outcome int

const (
	// Viable means the artifact is believed capable of serving requests
	Viable Outcome = iota
	// NeedsUpgrade means the artifact reported it must be upgraded to run
	NeedsUpgrade
	// NotViable means the artifact failed for another reason
	NotViable
)

// String returns a human-readable outcome name
func (o Outcome) String() string {
	switch o {
	case Viable:
		return "viable"
	case NeedsUpgrade:
		return "needs-upgrade"
	default:
		return "not-viable"
	}
}

// Result carries the probe classification and diagnostics. Process-level
// failures are reported through the Outcome, never as a Go error: viability
// is advisory.
type Result struct {
	Outcome  Outcome
	ExitCode int
	Output   string // combined stdout+stderr, truncated
	Err      error  // spawn error, when Outcome is NotViable because of one
}

// maxDiagnosticBytes caps the output carried in a Result
const maxDiagnosticBytes = 2048

// Probe runs an artifact under a timeout and classifies the outcome.
//
// OnSilence decides the outcome when the process neither exits nor prints
// the upgrade marker before the timeout. The default, Viable, encodes the
// assumption that a silent process is alive waiting on a real backend call;
// that is a guess about backend behavior, which is why it is a policy knob
// rather than hard-coded.
type Probe struct {
	Timeout       time.Duration
	StartupDelay  time.Duration // wait before writing the probe input
	UpgradeMarker string        // output substring meaning "upgrade required"
	OnSilence     Outcome
}

// New creates a probe with the given timeout and marker, defaulting silence
// to viable.
func New(timeout time.Duration, marker string) *Probe {
	return &Probe{
		Timeout:       timeout,
		StartupDelay:  300 * time.Millisecond,
		UpgradeMarker: marker,
		OnSilence:     Viable,
	}
}

// Run spawns the artifact and classifies it. The subprocess gets no
// arguments; after StartupDelay one trivial input line is written to stdin
// and stdin is closed, simulating a minimal request without depending on any
// flag contract that varies across versions.
func (p *Probe) Run(ctx context.Context, binPath string) Result {
	cmd := exec.Command(binPath)

	sink := newMarkerSink(p.UpgradeMarker)
	cmd.Stdout = sink
	cmd.Stderr = sink

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return Result{Outcome: NotViable, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return Result{Outcome: NotViable, Err: err}
	}

	go func() {
		time.Sleep(p.StartupDelay)
		_, _ = io.WriteString(stdin, "hello\n")
		_ = stdin.Close()
	}()

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	timer := time.NewTimer(p.Timeout)
	defer timer.Stop()

	select {
	case <-sink.marked:
		// Marker seen mid-run: no need to wait for exit
		_ = cmd.Process.Kill()
		<-waitCh
		return Result{Outcome: NeedsUpgrade, Output: sink.diagnostic()}

	case <-timer.C:
		_ = cmd.Process.Kill()
		<-waitCh
		if sink.sawMarker() {
			return Result{Outcome: NeedsUpgrade, Output: sink.diagnostic()}
		}
		// Timed out without recognizable output. Empty output means the
		// process is silently waiting on a backend; unrecognized output is
		// not treated as proof of failure either.
		return Result{Outcome: p.OnSilence, Output: sink.diagnostic()}

	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-waitCh
		return Result{Outcome: NotViable, Err: ctx.Err(), Output: sink.diagnostic()}

	case err := <-waitCh:
		if sink.sawMarker() {
			return Result{Outcome: NeedsUpgrade, Output: sink.diagnostic()}
		}
		if err == nil {
			return Result{Outcome: Viable, Output: sink.diagnostic()}
		}
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return Result{
			Outcome:  NotViable,
			ExitCode: exitCode,
			Output:   sink.diagnostic(),
			Err:      err,
		}
	}
}

// markerSink accumulates combined process output and signals once the
// upgrade marker shows up. The diagnostic buffer is capped at write time;
// marker scanning runs over a sliding tail window so a chatty process
// neither grows memory without bound nor hides a late marker.
type markerSink struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	window []byte
	marker string
	marked chan struct{}
	once   sync.Once
}

func newMarkerSink(marker string) *markerSink {
	return &markerSink{
		marker: marker,
		marked: make(chan struct{}),
	}
}

func (s *markerSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if room := maxDiagnosticBytes - s.buf.Len(); room > 0 {
		if len(p) < room {
			room = len(p)
		}
		s.buf.Write(p[:room])
	}

	if s.marker != "" {
		s.window = append(s.window, p...)
		if strings.Contains(string(s.window), s.marker) {
			s.once.Do(func() { close(s.marked) })
		}
		// Keep just enough bytes to catch a marker split across writes
		if keep := len(s.marker) - 1; len(s.window) > keep {
			s.window = s.window[len(s.window)-keep:]
		}
	}

	return len(p), nil
}

func (s *markerSink) sawMarker() bool {
	select {
	case <-s.marked:
		return true
	default:
		return false
	}
}

func (s *markerSink) diagnostic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}
