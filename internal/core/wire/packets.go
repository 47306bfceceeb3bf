package wire

// Tags for every frame in the protocol. The tag is always the first byte
// of a frame.
const (
	// Client -> Server
	LoginType           = 0x01
	LogoutType          = 0x02
	ChatType            = 0x03
	MoveType            = 0x04
	CreateCharacterType = 0x05
	SelectCharacterType = 0x06
	DeleteCharacterType = 0x07
	RequestCharListType = 0x08

	// Server -> Client
	LoginResponseType     = 0x10
	LoginFailedType       = 0x11
	ChatBroadcastType     = 0x12
	SystemMessageType     = 0x13
	PlayerMoveType        = 0x14
	PlayerSpawnType       = 0x15
	PlayerDespawnType     = 0x16
	CharacterListType     = 0x17
	CharacterCreatedType  = 0x18
	CharacterSelectedType = 0x19
	CharacterDeletedType  = 0x20

	// Utility, legal in either direction.
	PingType = 0xFE
	PongType = 0xFF
)

// Login (0x01) carries the credentials and client version for a login attempt.
type Login struct {
	Username      string
	Password      string
	ClientVersion string
}

// Chat (0x03) carries one chat line from an in-world player.
type Chat struct {
	Message string
}

// Move (0x04) carries the coordinates a player wants to move to.
type Move struct {
	TargetX int32
	TargetY int32
}

// CreateCharacter (0x05) requests a new character on the account.
type CreateCharacter struct {
	Name  string
	Class string
}

// SelectCharacter (0x06) picks the character the player will enter the
// world with.
type SelectCharacter struct {
	CharacterID int32
}

// DeleteCharacter (0x07) requests a soft delete of one of the account's
// characters.
type DeleteCharacter struct {
	CharacterID int32
	Password    string
}

// CharacterSummary is one entry of a CharacterList and the payload of the
// CharacterCreated/CharacterSelected acks.
type CharacterSummary struct {
	ID    int32
	Name  string
	Level int32
	Class string
}

// CharacterList (0x17) lists every character on the account.
type CharacterList struct {
	Characters []CharacterSummary
}

// CharacterDeleted (0x20) reports the outcome of a delete request.
type CharacterDeleted struct {
	CharacterID int32
	Success     bool
	Message     string
}

// ChatBroadcast (0x12) relays a chat line to every connected client.
type ChatBroadcast struct {
	FromPlayer string
	Message    string
}

// PlayerMove (0x14) announces a player's new position.
type PlayerMove struct {
	PlayerID int32
	X        int32
	Y        int32
}

// PlayerSpawn (0x15) announces a player entering the world.
type PlayerSpawn struct {
	PlayerID int32
	Name     string
	X        int32
	Y        int32
}

// PlayerDespawn (0x16) announces a player leaving the world.
type PlayerDespawn struct {
	PlayerID int32
}
