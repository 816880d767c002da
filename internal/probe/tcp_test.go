package probe

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"
)

// fakeDialer fails a configured number of times before succeeding, and
// records every attempt.
type fakeDialer struct {
	attempts int
	failures int
	errs     []error
	lastAddr string
}

func (f *fakeDialer) dial(ctx context.Context, network, addr string, timeout time.Duration) (net.Conn, error) {
	f.attempts++
	f.lastAddr = addr
	if f.attempts <= f.failures {
		err := errors.New("connection refused")
		if len(f.errs) >= f.attempts {
			err = f.errs[f.attempts-1]
		}
		return nil, err
	}
	client, server := net.Pipe()
	go server.Close()
	return client, nil
}

func TestTCPSuccess(t *testing.T) {
	d := &fakeDialer{}
	e := newTestEngine(t, Dependencies{Dial: d.dial})

	res := e.TCP(context.Background(), TCPOptions{Host: "example.com", Port: 443})
	if !res.Success || res.Error != "" {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Host != "example.com" || res.Port != 443 {
		t.Fatalf("unexpected identifying fields %+v", res)
	}
	if res.LatencyMs < 0 {
		t.Fatalf("latency must be non-negative, got %f", res.LatencyMs)
	}
	if d.lastAddr != "example.com:443" {
		t.Fatalf("unexpected dial address %q", d.lastAddr)
	}
	if d.attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", d.attempts)
	}
}

func TestTCPRetryCountAndLastError(t *testing.T) {
	d := &fakeDialer{
		failures: 10, // never succeeds
		errs: []error{
			errors.New("first failure"),
			errors.New("second failure"),
			errors.New("third failure"),
		},
	}
	e := newTestEngine(t, Dependencies{Dial: d.dial})

	res := e.TCP(context.Background(), TCPOptions{Host: "192.0.2.1", Port: 9, Retry: 2})
	if res.Success {
		t.Fatalf("expected failure")
	}
	if d.attempts != 3 {
		t.Fatalf("retry=2 means 3 attempts, got %d", d.attempts)
	}
	if !strings.Contains(res.Error, "tcp dial failed") || !strings.Contains(res.Error, "third failure") {
		t.Fatalf("error must embed the last attempt's failure, got %q", res.Error)
	}
	if res.LatencyMs != 0 {
		t.Fatalf("failed probe must not report latency, got %f", res.LatencyMs)
	}
}

func TestTCPRetrySucceedsAfterFailure(t *testing.T) {
	d := &fakeDialer{failures: 1}
	e := newTestEngine(t, Dependencies{Dial: d.dial})

	res := e.TCP(context.Background(), TCPOptions{Host: "example.com", Port: 80, Retry: 1})
	if !res.Success {
		t.Fatalf("expected eventual success, got %+v", res)
	}
	if d.attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", d.attempts)
	}
}

func TestTCPRealListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	e := newTestEngine(t, Dependencies{})

	res := e.TCP(context.Background(), TCPOptions{Host: "127.0.0.1", Port: port, TimeoutSec: 2})
	if !res.Success {
		t.Fatalf("expected success against live listener, got %+v", res)
	}

	// Idempotence: success and non-timing fields repeat; timing may differ.
	again := e.TCP(context.Background(), TCPOptions{Host: "127.0.0.1", Port: port, TimeoutSec: 2})
	if again.Success != res.Success || again.Host != res.Host || again.Port != res.Port || again.Error != res.Error {
		t.Fatalf("repeat probe diverged: %+v vs %+v", res, again)
	}
}

func TestTCPRefusedPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close() // free the port so connections are refused

	e := newTestEngine(t, Dependencies{})
	res := e.TCP(context.Background(), TCPOptions{Host: "127.0.0.1", Port: port, TimeoutSec: 2})
	if res.Success {
		t.Fatalf("expected refusal, got %+v", res)
	}
	if !strings.Contains(res.Error, "tcp dial failed") {
		t.Fatalf("unexpected error %q", res.Error)
	}
}
