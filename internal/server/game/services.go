package game

import (
	"gorm.io/gorm"

	"github.com/Wickedviruz/Wicked-MMO-server/internal/core/auth"
	"github.com/Wickedviruz/Wicked-MMO-server/internal/core/data"
)

// AccountService exposes the account operations the backend needs. The
// interface boundary keeps handler tests free of a real database.
type AccountService interface {
	// Verify checks credentials and returns the account on success. The
	// error is one of the auth sentinels.
	Verify(username, password string) (*data.Account, error)
	// Find returns the account with the given id, or nil if none exists.
	Find(accountID uint64) (*data.Account, error)
	// RecordLogin stamps the account's last login time.
	RecordLogin(accountID uint64) error
}

// CharacterService exposes the character operations the backend needs.
type CharacterService interface {
	// List returns the account's live characters in creation order.
	List(accountID uint64) ([]data.Character, error)
	// Find returns the character only if it belongs to the account.
	Find(characterID, accountID uint64) (*data.Character, error)
	// Count returns the number of live characters on the account.
	Count(accountID uint64) (int64, error)
	// Create persists a new character.
	Create(character *data.Character) error
	// Delete soft-deletes the character, reporting whether a row matched.
	Delete(characterID, accountID uint64) (bool, error)
	// SavePosition persists the character's latest world coordinates.
	SavePosition(characterID uint64, x, y int32) error
	// RecordLogin stamps the character's last login time.
	RecordLogin(characterID uint64) error
}

type accountService struct {
	db *gorm.DB
}

// NewAccountService returns an AccountService backed by the database.
func NewAccountService(db *gorm.DB) AccountService {
	return &accountService{db: db}
}

func (s *accountService) Verify(username, password string) (*data.Account, error) {
	return auth.VerifyAccount(s.db, username, password)
}

func (s *accountService) Find(accountID uint64) (*data.Account, error) {
	return data.FindAccountByID(s.db, accountID)
}

func (s *accountService) RecordLogin(accountID uint64) error {
	return data.UpdateAccountLastLogin(s.db, accountID)
}

type characterService struct {
	db    *gorm.DB
	cache *characterCache
}

// NewCharacterService returns a CharacterService backed by the database,
// with a short-lived cache in front of the list query.
func NewCharacterService(db *gorm.DB) CharacterService {
	return &characterService{db: db, cache: newCharacterCache()}
}

func (s *characterService) List(accountID uint64) ([]data.Character, error) {
	if characters, ok := s.cache.get(accountID); ok {
		return characters, nil
	}

	characters, err := data.CharactersByAccount(s.db, accountID)
	if err != nil {
		return nil, err
	}

	s.cache.put(accountID, characters)
	return characters, nil
}

func (s *characterService) Find(characterID, accountID uint64) (*data.Character, error) {
	return data.FindCharacter(s.db, characterID, accountID)
}

func (s *characterService) Count(accountID uint64) (int64, error) {
	return data.CountCharacters(s.db, accountID)
}

func (s *characterService) Create(character *data.Character) error {
	if err := data.CreateCharacter(s.db, character); err != nil {
		return err
	}
	s.cache.invalidate(character.AccountID)
	return nil
}

func (s *characterService) Delete(characterID, accountID uint64) (bool, error) {
	deleted, err := data.SoftDeleteCharacter(s.db, characterID, accountID)
	if deleted {
		s.cache.invalidate(accountID)
	}
	return deleted, err
}

func (s *characterService) SavePosition(characterID uint64, x, y int32) error {
	return data.UpdateCharacterPosition(s.db, characterID, x, y)
}

func (s *characterService) RecordLogin(characterID uint64) error {
	return data.UpdateCharacterLastLogin(s.db, characterID)
}
