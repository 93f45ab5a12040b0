package logging

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// Defaults for MirrorConfig. A failed dial or write puts the mirror into a
// cool-down so request handling never stalls on a slow log sink.
const (
	defaultDialTimeout  = 2 * time.Second
	defaultWriteTimeout = time.Second
	defaultCooldown     = 5 * time.Second
)

// MirrorConfig tunes a Mirror. The zero value picks sensible defaults for
// everything except Addr, which is required.
type MirrorConfig struct {
	Addr         string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	Cooldown     time.Duration
}

// Mirror forwards log lines to a Logstash TCP input. Writes never block on
// the network: while the sink is unreachable lines are dropped and the dial
// is retried after the cool-down. Safe for concurrent use.
type Mirror struct {
	cfg MirrorConfig

	mu       sync.Mutex
	conn     net.Conn
	retryNot time.Time
	closed   bool
}

func NewMirror(cfg MirrorConfig) (*Mirror, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("logging: mirror address is empty")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaultCooldown
	}
	return &Mirror{cfg: cfg}, nil
}

// Write implements io.Writer. The reported length is always len(p) so that a
// log.Logger writing through a MultiWriter keeps its primary output even when
// the mirror drops the line.
func (m *Mirror) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	line := make([]byte, len(p), len(p)+1)
	copy(line, p)
	if line[len(line)-1] != '\n' {
		line = append(line, '\n')
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, io.ErrClosedPipe
	}
	if !m.dialLocked() {
		return len(p), nil
	}

	_ = m.conn.SetWriteDeadline(time.Now().Add(m.cfg.WriteTimeout))
	if _, err := m.conn.Write(line); err != nil {
		m.conn.Close()
		m.conn = nil
		m.retryNot = time.Now().Add(m.cfg.Cooldown)
	}
	return len(p), nil
}

func (m *Mirror) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}

// dialLocked reports whether a usable connection is available, dialing if the
// cool-down has elapsed.
func (m *Mirror) dialLocked() bool {
	if m.conn != nil {
		return true
	}
	if time.Now().Before(m.retryNot) {
		return false
	}
	conn, err := net.DialTimeout("tcp", m.cfg.Addr, m.cfg.DialTimeout)
	if err != nil {
		m.retryNot = time.Now().Add(m.cfg.Cooldown)
		return false
	}
	m.conn = conn
	m.retryNot = time.Time{}
	return true
}
