package data

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gorm.io/gorm"
)

func seedAccountWithCharacters(t *testing.T, db *gorm.DB, numCharacters int) (*Account, []Character) {
	t.Helper()

	account := generateAccount(t)
	if err := CreateAccount(db, account); err != nil {
		t.Fatalf("error creating test account: %s", err)
	}

	var characters []Character
	for i := 0; i < numCharacters; i++ {
		character := &Character{
			AccountID: account.ID,
			Name:      fmt.Sprintf("%s-char-%d", account.Username, i),
			Class:     DefaultCharacterClass,
			Level:     DefaultCharacterLevel,
			Health:    DefaultMaxHealth,
			MaxHealth: DefaultMaxHealth,
			Mana:      DefaultMaxMana,
			MaxMana:   DefaultMaxMana,
		}
		if err := CreateCharacter(db, character); err != nil {
			t.Fatalf("error creating test character: %s", err)
		}
		characters = append(characters, *character)
	}
	return account, characters
}

var ignoreCharacterVolatileFields = cmpopts.IgnoreFields(Character{}, "Account", "CreatedAt", "DeletedAt")

func TestCharactersByAccount(t *testing.T) {
	db := setUpDatabase(t)

	account, characters := seedAccountWithCharacters(t, db, 3)
	// A second account's characters must never leak into the list.
	seedAccountWithCharacters(t, db, 2)

	got, err := CharactersByAccount(db, account.ID)
	if err != nil {
		t.Fatalf("CharactersByAccount() error = %v", err)
	}

	if diff := cmp.Diff(characters, got, ignoreCharacterVolatileFields); diff != "" {
		t.Errorf("characters did not match expected; diff:\n%s", diff)
	}
}

func TestCharactersByAccount_ExcludesSoftDeleted(t *testing.T) {
	db := setUpDatabase(t)
	account, characters := seedAccountWithCharacters(t, db, 2)

	deleted, err := SoftDeleteCharacter(db, characters[0].ID, account.ID)
	if err != nil {
		t.Fatalf("SoftDeleteCharacter() error = %v", err)
	}
	if !deleted {
		t.Fatal("expected character to be soft deleted")
	}

	got, err := CharactersByAccount(db, account.ID)
	if err != nil {
		t.Fatalf("CharactersByAccount() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != characters[1].ID {
		t.Errorf("expected only the surviving character, got %+v", got)
	}
}

func TestFindCharacter(t *testing.T) {
	db := setUpDatabase(t)
	account, characters := seedAccountWithCharacters(t, db, 1)
	otherAccount, _ := seedAccountWithCharacters(t, db, 1)

	tests := []struct {
		name        string
		characterID uint64
		accountID   uint64
		wantFound   bool
	}{
		{
			name:        "character exists and is owned",
			characterID: characters[0].ID,
			accountID:   account.ID,
			wantFound:   true,
		},
		{
			name:        "character owned by another account",
			characterID: characters[0].ID,
			accountID:   otherAccount.ID,
			wantFound:   false,
		},
		{
			name:        "character does not exist",
			characterID: 99999,
			accountID:   account.ID,
			wantFound:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			character, err := FindCharacter(db, tt.characterID, tt.accountID)
			if err != nil {
				t.Fatalf("FindCharacter() error = %v", err)
			}
			if (character != nil) != tt.wantFound {
				t.Errorf("FindCharacter() found = %v, want %v", character != nil, tt.wantFound)
			}
		})
	}
}

func TestSoftDeleteCharacter(t *testing.T) {
	db := setUpDatabase(t)
	account, characters := seedAccountWithCharacters(t, db, 1)

	tests := []struct {
		name        string
		characterID uint64
		accountID   uint64
		want        bool
	}{
		{
			name:        "deletes an owned character",
			characterID: characters[0].ID,
			accountID:   account.ID,
			want:        true,
		},
		{
			name:        "second delete is a no-op",
			characterID: characters[0].ID,
			accountID:   account.ID,
			want:        false,
		},
		{
			name:        "unknown character",
			characterID: 99999,
			accountID:   account.ID,
			want:        false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SoftDeleteCharacter(db, tt.characterID, tt.accountID)
			if err != nil {
				t.Fatalf("SoftDeleteCharacter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SoftDeleteCharacter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountCharacters(t *testing.T) {
	db := setUpDatabase(t)
	account, characters := seedAccountWithCharacters(t, db, 3)

	count, err := CountCharacters(db, account.ID)
	if err != nil {
		t.Fatalf("CountCharacters() error = %v", err)
	}
	if count != 3 {
		t.Errorf("CountCharacters() = %d, want 3", count)
	}

	if _, err := SoftDeleteCharacter(db, characters[0].ID, account.ID); err != nil {
		t.Fatalf("SoftDeleteCharacter() error = %v", err)
	}

	count, err = CountCharacters(db, account.ID)
	if err != nil {
		t.Fatalf("CountCharacters() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountCharacters() after delete = %d, want 2", count)
	}
}

func TestUpdateCharacterPosition(t *testing.T) {
	db := setUpDatabase(t)
	account, characters := seedAccountWithCharacters(t, db, 1)

	if err := UpdateCharacterPosition(db, characters[0].ID, 42, -7); err != nil {
		t.Fatalf("UpdateCharacterPosition() error = %v", err)
	}

	character, err := FindCharacter(db, characters[0].ID, account.ID)
	if err != nil {
		t.Fatalf("FindCharacter() error = %v", err)
	}
	if character.PositionX != 42 || character.PositionY != -7 {
		t.Errorf("position = (%d, %d), want (42, -7)", character.PositionX, character.PositionY)
	}
}

func TestUpdateCharacterLastLogin(t *testing.T) {
	db := setUpDatabase(t)
	account, characters := seedAccountWithCharacters(t, db, 1)

	if err := UpdateCharacterLastLogin(db, characters[0].ID); err != nil {
		t.Fatalf("UpdateCharacterLastLogin() error = %v", err)
	}

	character, err := FindCharacter(db, characters[0].ID, account.ID)
	if err != nil {
		t.Fatalf("FindCharacter() error = %v", err)
	}
	if character.LastLogin == nil {
		t.Error("expected last login to be set")
	}
}
