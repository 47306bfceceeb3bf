package server

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// sendQueueSize bounds the frames waiting on a session's writer. A
	// client that falls this far behind has stopped draining its socket.
	sendQueueSize = 64
	// writeTimeout bounds a single write to the transport.
	writeTimeout = 10 * time.Second
)

// ErrSessionClosed is returned by Send once the transport is gone.
var ErrSessionClosed = errors.New("session closed")

// ErrSendQueueFull is returned by Send when the recipient has stopped
// draining its socket. The session is closed before it is returned.
var ErrSendQueueFull = errors.New("session send queue full")

// SessionState tracks a connection's progression through the login flow.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateAuthenticated
	StateInWorld
	StateClosed
)

// PlayerInfo is the in-world identity bound to a session after character
// selection.
type PlayerInfo struct {
	CharacterID uint64
	Name        string
	X           int32
	Y           int32
}

// Session represents one connected game client. It owns the transport and
// the authentication/character state derived from the client's progress.
//
// The identity fields are mutated only by the session's own handler
// goroutine but are read by other sessions' handlers (spawn catch-up, chat
// name resolution) and by the watchdog, so all access goes through the
// session's mutex.
type Session struct {
	id          uint32
	connection  net.Conn
	ipAddr      string
	connectedAt time.Time

	mu        sync.Mutex
	lastAlive time.Time
	closed    bool
	accountID uint64
	player    *PlayerInfo

	sendQueue chan []byte
	done      chan struct{}

	bytesReceived atomic.Uint64
	bytesSent     atomic.Uint64
}

func NewSession(id uint32, connection net.Conn) *Session {
	addr := connection.RemoteAddr().String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	} else if i := strings.LastIndex(addr, ":"); i >= 0 {
		addr = addr[:i]
	}

	now := time.Now()
	s := &Session{
		id:          id,
		connection:  connection,
		ipAddr:      addr,
		connectedAt: now,
		lastAlive:   now,
		sendQueue:   make(chan []byte, sendQueueSize),
		done:        make(chan struct{}),
	}
	go s.writeLoop()
	return s
}

func (s *Session) ID() uint32             { return s.id }
func (s *Session) IPAddr() string         { return s.ipAddr }
func (s *Session) ConnectedAt() time.Time { return s.connectedAt }

// BytesReceived and BytesSent are cumulative counters kept for diagnostics.
func (s *Session) BytesReceived() uint64 { return s.bytesReceived.Load() }
func (s *Session) BytesSent() uint64     { return s.bytesSent.Load() }

// Receive blocks until the client sends data, returning the received slice
// of buffer. Peer closes and transport errors are both reported as io.EOF;
// the caller's only recourse for either is to tear the session down.
func (s *Session) Receive(buffer []byte) ([]byte, error) {
	n, err := s.connection.Read(buffer)
	if err != nil || n == 0 {
		return nil, io.EOF
	}

	s.bytesReceived.Add(uint64(n))
	return buffer[:n], nil
}

// Send queues data for delivery by the session's writer goroutine and
// returns without waiting for the write. Frames queued on the same session
// go out in order. A recipient whose queue is full has stopped draining
// its socket; it is closed so that it never delays delivery to anyone
// else, and its own read loop then runs the teardown path.
func (s *Session) Send(data []byte) error {
	// The caller may reuse its buffer after Send returns.
	queued := make([]byte, len(data))
	copy(queued, data)

	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}

	select {
	case s.sendQueue <- queued:
		return nil
	case <-s.done:
		return ErrSessionClosed
	default:
		_ = s.Close()
		return ErrSendQueueFull
	}
}

// writeLoop owns every write to the transport. It exits when the session
// closes or a write fails; a failed write closes the transport so the
// read loop observes it and tears the session down.
func (s *Session) writeLoop() {
	for {
		select {
		case <-s.done:
			return
		case data := <-s.sendQueue:
			if err := s.write(data); err != nil {
				_ = s.Close()
				return
			}
		}
	}
}

func (s *Session) write(data []byte) error {
	_ = s.connection.SetWriteDeadline(time.Now().Add(writeTimeout))

	sent := 0
	for sent < len(data) {
		n, err := s.connection.Write(data[sent:])
		if err != nil {
			return err
		}
		sent += n
	}

	s.bytesSent.Add(uint64(len(data)))
	return nil
}

// MarkAlive records activity on the session, deferring the idle watchdog.
func (s *Session) MarkAlive() {
	s.mu.Lock()
	s.lastAlive = time.Now()
	s.mu.Unlock()
}

// LastAlive returns the time of the last successful protocol exchange.
func (s *Session) LastAlive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAlive
}

// Close releases the transport. It is idempotent and safe to call from any
// goroutine.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	return s.connection.Close()
}

// State derives the session's protocol state from its identity fields.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.closed:
		return StateClosed
	case s.player != nil:
		return StateInWorld
	case s.accountID != 0:
		return StateAuthenticated
	default:
		return StateUnauthenticated
	}
}

// Authenticate binds the session to an account after a successful login.
func (s *Session) Authenticate(accountID uint64) {
	s.mu.Lock()
	s.accountID = accountID
	s.mu.Unlock()
}

// AccountID returns the authenticated account id, if any.
func (s *Session) AccountID() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accountID, s.accountID != 0
}

// EnterWorld binds the session to a character, replacing any previous one.
func (s *Session) EnterWorld(player PlayerInfo) {
	s.mu.Lock()
	s.player = &player
	s.mu.Unlock()
}

// Player returns a copy of the in-world identity, if the session has one.
func (s *Session) Player() (PlayerInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		return PlayerInfo{}, false
	}
	return *s.player, true
}

// LeaveWorld clears the in-world identity and returns what it was. The
// first caller wins, which keeps despawn broadcasts from firing twice when
// the watchdog and the read loop race on teardown.
func (s *Session) LeaveWorld() (PlayerInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		return PlayerInfo{}, false
	}
	player := *s.player
	s.player = nil
	return player, true
}

// UpdatePosition records the character's latest world coordinates.
func (s *Session) UpdatePosition(x, y int32) {
	s.mu.Lock()
	if s.player != nil {
		s.player.X = x
		s.player.Y = y
	}
	s.mu.Unlock()
}
