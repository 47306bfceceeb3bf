package game

import (
	"errors"
	"fmt"

	"github.com/Wickedviruz/Wicked-MMO-server/internal/core/auth"
	"github.com/Wickedviruz/Wicked-MMO-server/internal/core/wire"
	"github.com/Wickedviruz/Wicked-MMO-server/internal/server"
)

func (s *Server) handlePing(session *server.Session, msg *wire.Message) error {
	timestamp, err := wire.ReadPing(msg)
	if err != nil {
		return err
	}

	pong, err := wire.WritePong(timestamp)
	if err != nil {
		return err
	}
	return session.Send(pong.Bytes())
}

func (s *Server) handleLogin(session *server.Session, msg *wire.Message) error {
	login, err := wire.ReadLogin(msg)
	if err != nil {
		return err
	}

	if login.ClientVersion != s.config.ClientVersion {
		reason := fmt.Sprintf("This server requires client version %s.", s.config.ClientVersion)
		return s.failLogin(session, reason)
	}

	account, err := s.accounts.Verify(login.Username, login.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrAccountBanned):
			return s.failLogin(session, err.Error())
		default:
			s.logger.Errorf("login for %q failed: %s", login.Username, err)
			return s.failLogin(session, auth.ErrUnknown.Error())
		}
	}

	session.Authenticate(account.ID)
	if err := s.accounts.RecordLogin(account.ID); err != nil {
		s.logger.Warnf("recording login for account %d: %s", account.ID, err)
	}

	s.hooks.FirePlayerLogin(account.Username)
	s.logger.Infof("%q logged in from %s (session #%d)", account.Username, session.IPAddr(), session.ID())

	response, err := wire.WriteLoginResponse(s.config.Motd)
	if err != nil {
		return err
	}
	return session.Send(response.Bytes())
}

// failLogin reports a failed attempt to the client. The session stays in
// the unauthenticated state and may try again.
func (s *Server) failLogin(session *server.Session, reason string) error {
	failed, err := wire.WriteLoginFailed(reason)
	if err != nil {
		return err
	}
	return session.Send(failed.Bytes())
}
