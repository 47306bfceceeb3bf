package data

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Account contains the login information specific to each registered user.
type Account struct {
	ID       uint64 `gorm:"primaryKey"`
	Username string `gorm:"unique; not null"`
	// Password holds the bcrypt hash of the account password, never the
	// plaintext.
	Password  string `gorm:"not null"`
	Email     string
	Banned    bool `gorm:"default:false"`
	CreatedAt time.Time
	LastLogin *time.Time
}

// FindAccountByID searches for an account with the specified id, returning the
// *Account instance if found or nil if there is no match.
func FindAccountByID(db *gorm.DB, id uint64) (*Account, error) {
	var account Account
	err := db.First(&account, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

// FindAccountByUsername searches for an account with the specified username,
// returning the *Account instance if found or nil if there is no match.
func FindAccountByUsername(db *gorm.DB, username string) (*Account, error) {
	var account Account
	err := db.Where("username = ?", username).First(&account).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

// CreateAccount persists the Account record to the database.
func CreateAccount(db *gorm.DB, account *Account) error {
	return db.Create(account).Error
}

// UpdateAccountLastLogin stamps the account with the current time.
func UpdateAccountLastLogin(db *gorm.DB, accountID uint64) error {
	now := time.Now()
	return db.Model(&Account{}).Where("id = ?", accountID).Update("last_login", &now).Error
}

// DeleteAccount permanently removes the account with the given username,
// reporting whether a row matched.
func DeleteAccount(db *gorm.DB, username string) (bool, error) {
	result := db.Where("username = ?", username).Delete(&Account{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
