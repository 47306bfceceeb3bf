package game

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Wickedviruz/Wicked-MMO-server/internal/core/auth"
	"github.com/Wickedviruz/Wicked-MMO-server/internal/core/data"
	"github.com/Wickedviruz/Wicked-MMO-server/internal/core/wire"
	"github.com/Wickedviruz/Wicked-MMO-server/internal/server"
)

const (
	maxCharactersPerAccount = 10
	minCharacterNameLength  = 3
	maxCharacterNameLength  = 20
)

var classCaser = cases.Title(language.English)

func (s *Server) handleRequestCharList(session *server.Session, msg *wire.Message) error {
	if err := wire.ReadRequestCharList(msg); err != nil {
		return err
	}

	accountID, _ := session.AccountID()
	characters, err := s.characters.List(accountID)
	if err != nil {
		s.logger.Errorf("listing characters for account %d: %s", accountID, err)
		return s.sendSystemMessage(session, "Your character list could not be loaded.")
	}

	summaries := make([]wire.CharacterSummary, 0, len(characters))
	for _, character := range characters {
		summaries = append(summaries, characterSummary(&character))
	}

	list, err := wire.WriteCharacterList(summaries)
	if err != nil {
		return err
	}
	return session.Send(list.Bytes())
}

func (s *Server) handleCreateCharacter(session *server.Session, msg *wire.Message) error {
	request, err := wire.ReadCreateCharacter(msg)
	if err != nil {
		return err
	}

	accountID, _ := session.AccountID()

	name := strings.TrimSpace(request.Name)
	if !validCharacterName(name) {
		return s.sendSystemMessage(session, "Character names must be 3 to 20 letters.")
	}

	count, err := s.characters.Count(accountID)
	if err != nil {
		s.logger.Errorf("counting characters for account %d: %s", accountID, err)
		return s.sendSystemMessage(session, "Your character could not be created.")
	}
	if count >= maxCharactersPerAccount {
		return s.sendSystemMessage(session, "You have reached the character limit for this account.")
	}

	class := classCaser.String(strings.ToLower(strings.TrimSpace(request.Class)))
	if class == "" {
		class = data.DefaultCharacterClass
	}

	character := &data.Character{
		AccountID: accountID,
		Name:      name,
		Class:     class,
		Level:     data.DefaultCharacterLevel,
		Health:    data.DefaultMaxHealth,
		MaxHealth: data.DefaultMaxHealth,
		Mana:      data.DefaultMaxMana,
		MaxMana:   data.DefaultMaxMana,
	}
	if err := s.characters.Create(character); err != nil {
		// The unique constraint on the name is the usual culprit.
		s.logger.Warnf("creating character %q for account %d: %s", name, accountID, err)
		return s.sendSystemMessage(session, "That name is not available.")
	}

	s.logger.Infof("account %d created character %q (%s)", accountID, name, class)

	created, err := wire.WriteCharacterCreated(characterSummary(character))
	if err != nil {
		return err
	}
	return session.Send(created.Bytes())
}

func (s *Server) handleSelectCharacter(session *server.Session, msg *wire.Message) error {
	request, err := wire.ReadSelectCharacter(msg)
	if err != nil {
		return err
	}

	accountID, _ := session.AccountID()
	character, err := s.characters.Find(uint64(request.CharacterID), accountID)
	if err != nil {
		s.logger.Errorf("finding character %d for account %d: %s", request.CharacterID, accountID, err)
		return s.sendSystemMessage(session, "Your character could not be loaded.")
	}
	if character == nil {
		return s.sendSystemMessage(session, "No such character on this account.")
	}

	if err := s.characters.RecordLogin(character.ID); err != nil {
		s.logger.Warnf("recording login for character %d: %s", character.ID, err)
	}

	// Switching characters despawns the old one first.
	if previous, wasInWorld := session.LeaveWorld(); wasInWorld {
		despawn, err := wire.WritePlayerDespawn(int32(previous.CharacterID))
		if err != nil {
			return err
		}
		s.registry.BroadcastExcept(session.ID(), despawn.Bytes())
	}

	session.EnterWorld(server.PlayerInfo{
		CharacterID: character.ID,
		Name:        character.Name,
		X:           character.PositionX,
		Y:           character.PositionY,
	})

	selected, err := wire.WriteCharacterSelected(characterSummary(character))
	if err != nil {
		return err
	}
	if err := session.Send(selected.Bytes()); err != nil {
		return err
	}

	if err := s.spawnPlayer(session, character); err != nil {
		return err
	}

	s.hooks.FirePlayerSpawn(int32(character.ID), character.Name)
	s.logger.Infof("%q entered the world (session #%d)", character.Name, session.ID())
	return nil
}

// spawnPlayer announces the new arrival to everyone, including the player
// themselves, and catches the player up on who is already in the world.
func (s *Server) spawnPlayer(session *server.Session, character *data.Character) error {
	spawn, err := wire.WritePlayerSpawn(int32(character.ID), character.Name, character.PositionX, character.PositionY)
	if err != nil {
		return err
	}

	if err := session.Send(spawn.Bytes()); err != nil {
		return err
	}
	s.registry.BroadcastExcept(session.ID(), spawn.Bytes())

	for _, other := range s.registry.Snapshot() {
		if other.ID() == session.ID() {
			continue
		}
		player, inWorld := other.Player()
		if !inWorld {
			continue
		}

		existing, err := wire.WritePlayerSpawn(int32(player.CharacterID), player.Name, player.X, player.Y)
		if err != nil {
			return err
		}
		if err := session.Send(existing.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handleDeleteCharacter(session *server.Session, msg *wire.Message) error {
	request, err := wire.ReadDeleteCharacter(msg)
	if err != nil {
		return err
	}

	accountID, _ := session.AccountID()

	if player, inWorld := session.Player(); inWorld && player.CharacterID == uint64(request.CharacterID) {
		return s.sendCharacterDeleted(session, request.CharacterID, false,
			"You cannot delete the character you are playing.")
	}

	account, err := s.accounts.Find(accountID)
	if err != nil || account == nil {
		s.logger.Errorf("finding account %d for character delete: %s", accountID, err)
		return s.sendCharacterDeleted(session, request.CharacterID, false,
			"Your character could not be deleted.")
	}
	if !auth.CheckPassword(request.Password, account.Password) {
		return s.sendCharacterDeleted(session, request.CharacterID, false, "Incorrect password.")
	}

	deleted, err := s.characters.Delete(uint64(request.CharacterID), accountID)
	if err != nil {
		s.logger.Errorf("deleting character %d for account %d: %s", request.CharacterID, accountID, err)
		return s.sendCharacterDeleted(session, request.CharacterID, false,
			"Your character could not be deleted.")
	}
	if !deleted {
		return s.sendCharacterDeleted(session, request.CharacterID, false,
			"No such character on this account.")
	}

	s.logger.Infof("account %d deleted character %d", accountID, request.CharacterID)
	return s.sendCharacterDeleted(session, request.CharacterID, true, "Character deleted.")
}

func (s *Server) sendCharacterDeleted(session *server.Session, characterID int32, success bool, message string) error {
	response, err := wire.WriteCharacterDeleted(characterID, success, message)
	if err != nil {
		return err
	}
	return session.Send(response.Bytes())
}

func (s *Server) sendSystemMessage(session *server.Session, message string) error {
	notice, err := wire.WriteSystemMessage(message)
	if err != nil {
		return err
	}
	return session.Send(notice.Bytes())
}

func characterSummary(character *data.Character) wire.CharacterSummary {
	return wire.CharacterSummary{
		ID:    int32(character.ID),
		Name:  character.Name,
		Level: character.Level,
		Class: character.Class,
	}
}

func validCharacterName(name string) bool {
	runes := []rune(name)
	if len(runes) < minCharacterNameLength || len(runes) > maxCharacterNameLength {
		return false
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
