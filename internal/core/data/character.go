package data

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Default stats assigned to a freshly created character.
const (
	DefaultCharacterClass = "Warrior"
	DefaultCharacterLevel = 1
	DefaultMaxHealth      = 100
	DefaultMaxMana        = 50
)

// Character is an instance of a playable character tied to an account.
type Character struct {
	ID uint64 `gorm:"primaryKey"`

	Account   *Account
	AccountID uint64

	Name       string `gorm:"unique; not null"`
	Class      string `gorm:"default:Warrior"`
	Level      int32  `gorm:"default:1"`
	Experience int64

	Health    int32
	MaxHealth int32
	Mana      int32
	MaxMana   int32

	PositionX int32
	PositionY int32

	CreatedAt time.Time
	LastLogin *time.Time
	DeletedAt gorm.DeletedAt
}

// CharactersByAccount returns the account's live characters in creation order.
// Soft-deleted rows are excluded by gorm's DeletedAt scoping.
func CharactersByAccount(db *gorm.DB, accountID uint64) ([]Character, error) {
	var characters []Character
	err := db.
		Where("account_id = ?", accountID).
		Order("created_at asc").
		Find(&characters).Error
	if err != nil {
		return nil, err
	}
	return characters, nil
}

// FindCharacter returns the character with the given id if it belongs to the
// account, or nil if there is no match.
func FindCharacter(db *gorm.DB, characterID, accountID uint64) (*Character, error) {
	var character Character
	err := db.
		Where("id = ? AND account_id = ?", characterID, accountID).
		First(&character).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &character, nil
}

// CountCharacters returns the number of live characters on the account.
func CountCharacters(db *gorm.DB, accountID uint64) (int64, error) {
	var count int64
	err := db.Model(&Character{}).Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}

// CreateCharacter persists a Character to the database.
func CreateCharacter(db *gorm.DB, character *Character) error {
	return db.Create(character).Error
}

// SoftDeleteCharacter marks the character deleted if it belongs to the account,
// reporting whether a row was affected.
func SoftDeleteCharacter(db *gorm.DB, characterID, accountID uint64) (bool, error) {
	result := db.
		Where("id = ? AND account_id = ?", characterID, accountID).
		Delete(&Character{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateCharacterPosition persists a character's world coordinates.
func UpdateCharacterPosition(db *gorm.DB, characterID uint64, x, y int32) error {
	return db.Model(&Character{}).
		Where("id = ?", characterID).
		Updates(map[string]interface{}{"position_x": x, "position_y": y}).Error
}

// UpdateCharacterLastLogin stamps the character with the current time.
func UpdateCharacterLastLogin(db *gorm.DB, characterID uint64) error {
	now := time.Now()
	return db.Model(&Character{}).Where("id = ?", characterID).Update("last_login", &now).Error
}
