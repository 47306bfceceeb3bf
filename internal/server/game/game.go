package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Wickedviruz/Wicked-MMO-server/internal/core"
	"github.com/Wickedviruz/Wicked-MMO-server/internal/core/wire"
	"github.com/Wickedviruz/Wicked-MMO-server/internal/server"
)

// Hooks receives world event notifications, typically to dispatch them to
// user scripts. Hooks run synchronously on the handler goroutine of the
// session that produced the event, so implementations should return
// quickly.
type Hooks interface {
	FirePlayerLogin(username string)
	FirePlayerSpawn(playerID int32, name string)
	FirePlayerChat(playerID int32, name, message string)
	FirePlayerMove(playerID int32, x, y int32)
	FirePlayerLogout(playerID int32, name string)
}

// NopHooks discards every event.
type NopHooks struct{}

func (NopHooks) FirePlayerLogin(string)               {}
func (NopHooks) FirePlayerSpawn(int32, string)        {}
func (NopHooks) FirePlayerChat(int32, string, string) {}
func (NopHooks) FirePlayerMove(int32, int32, int32)   {}
func (NopHooks) FirePlayerLogout(int32, string)       {}

// Server implements the world semantics behind the frontend: login,
// character management, and the in-world chat and movement fan-out.
type Server struct {
	config     *core.Config
	logger     *zap.SugaredLogger
	registry   *server.Registry
	accounts   AccountService
	characters CharacterService
	hooks      Hooks
}

func NewServer(
	config *core.Config,
	logger *zap.SugaredLogger,
	registry *server.Registry,
	accounts AccountService,
	characters CharacterService,
	hooks Hooks,
) *Server {
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &Server{
		config:     config,
		logger:     logger,
		registry:   registry,
		accounts:   accounts,
		characters: characters,
		hooks:      hooks,
	}
}

func (s *Server) Identifier() string {
	return "GAME"
}

func (s *Server) Init(ctx context.Context) error {
	return nil
}

// Handle dispatches one frame to its handler, gating every tag on the
// session's state. A frame that is legal but arrives in the wrong state is
// logged and dropped without ending the session; a frame the codec cannot
// decode ends it.
func (s *Server) Handle(ctx context.Context, session *server.Session, msg *wire.Message) error {
	tag, err := wire.PeekTag(msg)
	if err != nil {
		return err
	}

	state := session.State()

	switch tag {
	case wire.PingType:
		return s.handlePing(session, msg)
	case wire.LogoutType:
		return server.ErrClientDisconnect
	case wire.LoginType:
		if state != server.StateUnauthenticated {
			return s.dropForState(session, tag, state)
		}
		return s.handleLogin(session, msg)
	case wire.RequestCharListType:
		if state != server.StateAuthenticated {
			return s.dropForState(session, tag, state)
		}
		return s.handleRequestCharList(session, msg)
	case wire.CreateCharacterType:
		if state != server.StateAuthenticated {
			return s.dropForState(session, tag, state)
		}
		return s.handleCreateCharacter(session, msg)
	case wire.SelectCharacterType:
		// Legal in the world too; that is a character switch.
		if state != server.StateAuthenticated && state != server.StateInWorld {
			return s.dropForState(session, tag, state)
		}
		return s.handleSelectCharacter(session, msg)
	case wire.DeleteCharacterType:
		if state != server.StateAuthenticated && state != server.StateInWorld {
			return s.dropForState(session, tag, state)
		}
		return s.handleDeleteCharacter(session, msg)
	case wire.ChatType:
		if state != server.StateInWorld {
			return s.dropForState(session, tag, state)
		}
		return s.handleChat(session, msg)
	case wire.MoveType:
		if state != server.StateInWorld {
			return s.dropForState(session, tag, state)
		}
		return s.handleMove(session, msg)
	default:
		return fmt.Errorf("%w: unknown tag %#x", wire.ErrMalformedFrame, tag)
	}
}

// dropForState discards a frame that is out of place for the session's
// current state. The session itself stays up.
func (s *Server) dropForState(session *server.Session, tag byte, state server.SessionState) error {
	s.logger.Warnf("session #%d sent tag %#x in state %d; frame dropped", session.ID(), tag, state)
	return nil
}

// OnDisconnect announces the player's departure if the session was in the
// world. LeaveWorld hands the identity to the first caller only, so the
// despawn goes out exactly once even when teardown paths race.
func (s *Server) OnDisconnect(session *server.Session) {
	player, wasInWorld := session.LeaveWorld()
	if !wasInWorld {
		return
	}

	despawn, err := wire.WritePlayerDespawn(int32(player.CharacterID))
	if err != nil {
		s.logger.Errorf("encoding despawn for %q: %s", player.Name, err)
		return
	}
	s.registry.BroadcastExcept(session.ID(), despawn.Bytes())

	s.hooks.FirePlayerLogout(int32(player.CharacterID), player.Name)
	s.logger.Infof("%q left the world (session #%d)", player.Name, session.ID())
}
