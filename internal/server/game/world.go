package game

import (
	"strings"

	"github.com/Wickedviruz/Wicked-MMO-server/internal/core/wire"
	"github.com/Wickedviruz/Wicked-MMO-server/internal/server"
)

func (s *Server) handleChat(session *server.Session, msg *wire.Message) error {
	chat, err := wire.ReadChat(msg)
	if err != nil {
		return err
	}

	line := strings.TrimSpace(chat.Message)
	if line == "" {
		return nil
	}

	player, inWorld := session.Player()
	if !inWorld {
		return nil
	}

	broadcast, err := wire.WriteChatBroadcast(player.Name, line)
	if err != nil {
		return err
	}
	// The speaker hears themselves too.
	s.registry.Broadcast(broadcast.Bytes())

	s.hooks.FirePlayerChat(int32(player.CharacterID), player.Name, line)
	return nil
}

func (s *Server) handleMove(session *server.Session, msg *wire.Message) error {
	move, err := wire.ReadMove(msg)
	if err != nil {
		return err
	}

	player, inWorld := session.Player()
	if !inWorld {
		return nil
	}

	session.UpdatePosition(move.TargetX, move.TargetY)
	if err := s.characters.SavePosition(player.CharacterID, move.TargetX, move.TargetY); err != nil {
		s.logger.Warnf("saving position for character %d: %s", player.CharacterID, err)
	}

	update, err := wire.WritePlayerMove(int32(player.CharacterID), move.TargetX, move.TargetY)
	if err != nil {
		return err
	}
	s.registry.Broadcast(update.Bytes())

	s.hooks.FirePlayerMove(int32(player.CharacterID), move.TargetX, move.TargetY)
	return nil
}
