package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Wickedviruz/Wicked-MMO-server/internal/core"
	"github.com/Wickedviruz/Wicked-MMO-server/internal/core/wire"
)

// ErrClientDisconnect is returned by a Backend to signal that the client
// requested a clean disconnect and the read loop should stop.
var ErrClientDisconnect = errors.New("client disconnected")

// Backend implements the game semantics behind a Frontend. The Frontend owns
// the transport lifecycle; the Backend owns what the frames mean.
type Backend interface {
	// Identifier returns the name of the backend for logging.
	Identifier() string
	// Init performs any long-running startup the backend needs before the
	// listener opens.
	Init(ctx context.Context) error
	// Handle processes one decoded frame from a session. Returning
	// ErrClientDisconnect ends the session cleanly; any other error tears
	// it down as a protocol failure.
	Handle(ctx context.Context, session *Session, msg *wire.Message) error
	// OnDisconnect runs exactly once when a session leaves, regardless of
	// why, before the session is evicted from the registry.
	OnDisconnect(session *Session)
}

// Frontend orchestrates the TCP listener for a Backend: accepting
// connections, admission control, per-session read loops, the idle
// watchdog, and graceful teardown.
type Frontend struct {
	Config   *core.Config
	Backend  Backend
	Registry *Registry
	Logger   *zap.SugaredLogger

	nextSessionID atomic.Uint32
}

// Start opens the server socket and blocks accepting connections until ctx
// is canceled. The WaitGroup is released once every session has drained.
func (f *Frontend) Start(ctx context.Context, wg *sync.WaitGroup) error {
	if err := f.Backend.Init(ctx); err != nil {
		return fmt.Errorf("initializing %s backend: %w", f.Backend.Identifier(), err)
	}

	socket, err := f.createSocket()
	if err != nil {
		return err
	}

	go func() {
		f.startWatchdog(ctx)
		f.startBlockingLoop(ctx, socket)
		wg.Done()
	}()

	return nil
}

func (f *Frontend) createSocket() (*net.TCPListener, error) {
	addr, err := net.ResolveTCPAddr("tcp", f.Config.ListenAddress())
	if err != nil {
		return nil, fmt.Errorf("resolving address %s: %w", f.Config.ListenAddress(), err)
	}

	socket, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("opening socket on %s: %w", f.Config.ListenAddress(), err)
	}

	f.Logger.Infof("%s server waiting for connections on %s", f.Backend.Identifier(), f.Config.ListenAddress())
	return socket, nil
}

// startBlockingLoop implements the connection handling loop. Accepted
// connections are sent over a channel so that the select can also observe
// context cancellation and stop accepting.
func (f *Frontend) startBlockingLoop(ctx context.Context, socket *net.TCPListener) {
	connections := make(chan *net.TCPConn)
	go func() {
		for {
			connection, err := socket.AcceptTCP()
			if err != nil {
				// The listener was closed out from under us during
				// shutdown; stop feeding the loop.
				return
			}
			select {
			case connections <- connection:
			case <-ctx.Done():
				// Nobody is receiving anymore; release the connection
				// instead of parking this goroutine on the channel.
				_ = connection.Close()
				return
			}
		}
	}()

	var clientWg sync.WaitGroup

handleLoop:
	for {
		select {
		case <-ctx.Done():
			break handleLoop
		case connection := <-connections:
			f.acceptClient(ctx, connection, &clientWg)
		}
	}

	f.Logger.Infof("shutting down %s server", f.Backend.Identifier())

	_ = socket.Close()
	f.Registry.DisconnectAll()
	clientWg.Wait()
}

func (f *Frontend) acceptClient(ctx context.Context, connection *net.TCPConn, clientWg *sync.WaitGroup) {
	session := NewSession(f.nextSessionID.Add(1), connection)

	if !f.Registry.Add(session) {
		// Tell the client why before hanging up. The write goes straight
		// to the transport so the notice lands before Close releases it.
		if msg, err := wire.WriteSystemMessage("The server is full. Please try again later."); err == nil {
			_ = connection.SetWriteDeadline(time.Now().Add(time.Second))
			_, _ = connection.Write(msg.Bytes())
		}
		_ = session.Close()
		return
	}

	f.Logger.Infof("accepted %s connection from %s as session #%d",
		f.Backend.Identifier(), session.IPAddr(), session.ID())

	clientWg.Add(1)
	go func() {
		f.processPackets(ctx, session)
		clientWg.Done()
	}()
}

// processPackets runs the read loop for a single session. Each Read yields
// exactly one frame, which goes straight to the backend.
func (f *Frontend) processPackets(ctx context.Context, session *Session) {
	defer f.closeConnectionAndRecover(session)

	bufferSize := f.Config.MaxPacketSize
	if bufferSize <= 0 || bufferSize > wire.MaxMessageSize {
		bufferSize = wire.MaxMessageSize
	}
	buffer := make([]byte, bufferSize)

	for {
		frame, err := session.Receive(buffer)
		if err == io.EOF {
			break
		} else if err != nil {
			f.Logger.Warnf("error reading from session #%d: %s", session.ID(), err)
			break
		}

		session.MarkAlive()

		msg := wire.NewMessageFrom(frame)
		if err := f.Backend.Handle(ctx, session, msg); err != nil {
			if errors.Is(err, ErrClientDisconnect) {
				break
			}
			f.Logger.Warnf("dropping session #%d: %s", session.ID(), err)
			break
		}
	}
}

// closeConnectionAndRecover is the teardown path for every session. It runs
// the backend's disconnect hook exactly once and evicts the session, and it
// keeps a panicking handler from taking the whole server down.
func (f *Frontend) closeConnectionAndRecover(session *Session) {
	if err := recover(); err != nil {
		f.Logger.Errorf("recovered from panic in session #%d handler: %s", session.ID(), err)
	}

	f.Backend.OnDisconnect(session)
	f.Registry.Remove(session.ID())

	f.Logger.Infof("closed %s connection from %s (session #%d)",
		f.Backend.Identifier(), session.IPAddr(), session.ID())
}

// startWatchdog launches the idle sweeper. Sessions that have not produced
// a frame within the configured idle timeout are torn down the same way a
// disconnect would be.
func (f *Frontend) startWatchdog(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				f.sweepIdleSessions()
			}
		}
	}()
}

func (f *Frontend) sweepIdleSessions() {
	for _, session := range f.Registry.Snapshot() {
		idle := time.Since(session.LastAlive())
		if idle < f.Config.IdleTimeout {
			continue
		}

		f.Logger.Infof("evicting idle session #%d from %s (idle %s)", session.ID(), session.IPAddr(), idle.Round(time.Second))

		// Closing the transport forces the session's read loop to fail,
		// which runs the one true teardown path.
		f.Registry.Remove(session.ID())
	}
}
