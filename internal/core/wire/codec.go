package wire

import (
	"fmt"
	"unicode/utf16"
)

// PeekTag returns the tag byte of a frame without disturbing the cursor,
// so the dispatcher can route before it knows which shape to decode.
func PeekTag(msg *Message) (byte, error) {
	if len(msg.buf) == 0 {
		return 0, fmt.Errorf("%w: empty frame", ErrMalformedFrame)
	}
	return msg.buf[0], nil
}

// skipTag consumes the tag byte at the front of a frame. Every Read
// function below starts from a message whose cursor is at the beginning.
func skipTag(msg *Message) error {
	_, err := msg.GetByte()
	return err
}

// ---------------------------------------------------------------------
// Client -> Server
// ---------------------------------------------------------------------

func WriteLogin(username, password, clientVersion string) (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(LoginType); err != nil {
		return nil, err
	}
	if err := msg.AddString(username); err != nil {
		return nil, err
	}
	if err := msg.AddString(password); err != nil {
		return nil, err
	}
	if err := msg.AddString(clientVersion); err != nil {
		return nil, err
	}
	return msg, nil
}

func ReadLogin(msg *Message) (Login, error) {
	var pkt Login
	if err := skipTag(msg); err != nil {
		return pkt, err
	}
	var err error
	if pkt.Username, err = msg.GetString(); err != nil {
		return pkt, err
	}
	if pkt.Password, err = msg.GetString(); err != nil {
		return pkt, err
	}
	if pkt.ClientVersion, err = msg.GetString(); err != nil {
		return pkt, err
	}
	return pkt, nil
}

func WriteLogout() (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(LogoutType); err != nil {
		return nil, err
	}
	return msg, nil
}

func WriteChat(message string) (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(ChatType); err != nil {
		return nil, err
	}
	if err := msg.AddString(message); err != nil {
		return nil, err
	}
	return msg, nil
}

func ReadChat(msg *Message) (Chat, error) {
	var pkt Chat
	if err := skipTag(msg); err != nil {
		return pkt, err
	}
	var err error
	if pkt.Message, err = msg.GetString(); err != nil {
		return pkt, err
	}
	if units := len(utf16.Encode([]rune(pkt.Message))); units > MaxChatMessageLength {
		return pkt, fmt.Errorf("%w: chat message too long (%d code units)", ErrMalformedFrame, units)
	}
	return pkt, nil
}

func WriteMove(targetX, targetY int32) (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(MoveType); err != nil {
		return nil, err
	}
	if err := msg.AddInt32(targetX); err != nil {
		return nil, err
	}
	if err := msg.AddInt32(targetY); err != nil {
		return nil, err
	}
	return msg, nil
}

func ReadMove(msg *Message) (Move, error) {
	var pkt Move
	if err := skipTag(msg); err != nil {
		return pkt, err
	}
	var err error
	if pkt.TargetX, err = msg.GetInt32(); err != nil {
		return pkt, err
	}
	if pkt.TargetY, err = msg.GetInt32(); err != nil {
		return pkt, err
	}
	return pkt, nil
}

func WriteCreateCharacter(name, class string) (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(CreateCharacterType); err != nil {
		return nil, err
	}
	if err := msg.AddString(name); err != nil {
		return nil, err
	}
	if err := msg.AddString(class); err != nil {
		return nil, err
	}
	return msg, nil
}

func ReadCreateCharacter(msg *Message) (CreateCharacter, error) {
	var pkt CreateCharacter
	if err := skipTag(msg); err != nil {
		return pkt, err
	}
	var err error
	if pkt.Name, err = msg.GetString(); err != nil {
		return pkt, err
	}
	if pkt.Class, err = msg.GetString(); err != nil {
		return pkt, err
	}
	return pkt, nil
}

func WriteSelectCharacter(characterID int32) (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(SelectCharacterType); err != nil {
		return nil, err
	}
	if err := msg.AddInt32(characterID); err != nil {
		return nil, err
	}
	return msg, nil
}

func ReadSelectCharacter(msg *Message) (SelectCharacter, error) {
	var pkt SelectCharacter
	if err := skipTag(msg); err != nil {
		return pkt, err
	}
	var err error
	if pkt.CharacterID, err = msg.GetInt32(); err != nil {
		return pkt, err
	}
	return pkt, nil
}

func WriteDeleteCharacter(characterID int32, password string) (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(DeleteCharacterType); err != nil {
		return nil, err
	}
	if err := msg.AddInt32(characterID); err != nil {
		return nil, err
	}
	if err := msg.AddString(password); err != nil {
		return nil, err
	}
	return msg, nil
}

func ReadDeleteCharacter(msg *Message) (DeleteCharacter, error) {
	var pkt DeleteCharacter
	if err := skipTag(msg); err != nil {
		return pkt, err
	}
	var err error
	if pkt.CharacterID, err = msg.GetInt32(); err != nil {
		return pkt, err
	}
	if pkt.Password, err = msg.GetString(); err != nil {
		return pkt, err
	}
	return pkt, nil
}

func WriteRequestCharList() (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(RequestCharListType); err != nil {
		return nil, err
	}
	return msg, nil
}

func ReadRequestCharList(msg *Message) error {
	return skipTag(msg)
}

// ---------------------------------------------------------------------
// Server -> Client
// ---------------------------------------------------------------------

func WriteLoginResponse(welcomeMessage string) (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(LoginResponseType); err != nil {
		return nil, err
	}
	if err := msg.AddString(welcomeMessage); err != nil {
		return nil, err
	}
	return msg, nil
}

func ReadLoginResponse(msg *Message) (string, error) {
	if err := skipTag(msg); err != nil {
		return "", err
	}
	return msg.GetString()
}

func WriteLoginFailed(reason string) (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(LoginFailedType); err != nil {
		return nil, err
	}
	if err := msg.AddString(reason); err != nil {
		return nil, err
	}
	return msg, nil
}

func ReadLoginFailed(msg *Message) (string, error) {
	if err := skipTag(msg); err != nil {
		return "", err
	}
	return msg.GetString()
}

func WriteChatBroadcast(fromPlayer, message string) (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(ChatBroadcastType); err != nil {
		return nil, err
	}
	if err := msg.AddString(fromPlayer); err != nil {
		return nil, err
	}
	if err := msg.AddString(message); err != nil {
		return nil, err
	}
	return msg, nil
}

func ReadChatBroadcast(msg *Message) (ChatBroadcast, error) {
	var pkt ChatBroadcast
	if err := skipTag(msg); err != nil {
		return pkt, err
	}
	var err error
	if pkt.FromPlayer, err = msg.GetString(); err != nil {
		return pkt, err
	}
	if pkt.Message, err = msg.GetString(); err != nil {
		return pkt, err
	}
	return pkt, nil
}

func WriteSystemMessage(message string) (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(SystemMessageType); err != nil {
		return nil, err
	}
	if err := msg.AddString(message); err != nil {
		return nil, err
	}
	return msg, nil
}

func ReadSystemMessage(msg *Message) (string, error) {
	if err := skipTag(msg); err != nil {
		return "", err
	}
	return msg.GetString()
}

func WritePlayerMove(playerID, x, y int32) (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(PlayerMoveType); err != nil {
		return nil, err
	}
	if err := msg.AddInt32(playerID); err != nil {
		return nil, err
	}
	if err := msg.AddInt32(x); err != nil {
		return nil, err
	}
	if err := msg.AddInt32(y); err != nil {
		return nil, err
	}
	return msg, nil
}

func ReadPlayerMove(msg *Message) (PlayerMove, error) {
	var pkt PlayerMove
	if err := skipTag(msg); err != nil {
		return pkt, err
	}
	var err error
	if pkt.PlayerID, err = msg.GetInt32(); err != nil {
		return pkt, err
	}
	if pkt.X, err = msg.GetInt32(); err != nil {
		return pkt, err
	}
	if pkt.Y, err = msg.GetInt32(); err != nil {
		return pkt, err
	}
	return pkt, nil
}

func WritePlayerSpawn(playerID int32, name string, x, y int32) (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(PlayerSpawnType); err != nil {
		return nil, err
	}
	if err := msg.AddInt32(playerID); err != nil {
		return nil, err
	}
	if err := msg.AddString(name); err != nil {
		return nil, err
	}
	if err := msg.AddInt32(x); err != nil {
		return nil, err
	}
	if err := msg.AddInt32(y); err != nil {
		return nil, err
	}
	return msg, nil
}

func ReadPlayerSpawn(msg *Message) (PlayerSpawn, error) {
	var pkt PlayerSpawn
	if err := skipTag(msg); err != nil {
		return pkt, err
	}
	var err error
	if pkt.PlayerID, err = msg.GetInt32(); err != nil {
		return pkt, err
	}
	if pkt.Name, err = msg.GetString(); err != nil {
		return pkt, err
	}
	if pkt.X, err = msg.GetInt32(); err != nil {
		return pkt, err
	}
	if pkt.Y, err = msg.GetInt32(); err != nil {
		return pkt, err
	}
	return pkt, nil
}

func WritePlayerDespawn(playerID int32) (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(PlayerDespawnType); err != nil {
		return nil, err
	}
	if err := msg.AddInt32(playerID); err != nil {
		return nil, err
	}
	return msg, nil
}

func ReadPlayerDespawn(msg *Message) (PlayerDespawn, error) {
	var pkt PlayerDespawn
	if err := skipTag(msg); err != nil {
		return pkt, err
	}
	var err error
	if pkt.PlayerID, err = msg.GetInt32(); err != nil {
		return pkt, err
	}
	return pkt, nil
}

func WriteCharacterList(characters []CharacterSummary) (*Message, error) {
	// The count is a single byte on the wire.
	if len(characters) > 255 {
		return nil, fmt.Errorf("%w: %d characters in list", ErrFrameTooLarge, len(characters))
	}

	msg := NewMessage()
	if err := msg.AddByte(CharacterListType); err != nil {
		return nil, err
	}
	if err := msg.AddByte(byte(len(characters))); err != nil {
		return nil, err
	}
	for _, character := range characters {
		if err := addCharacterSummary(msg, character); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

func ReadCharacterList(msg *Message) (CharacterList, error) {
	var pkt CharacterList
	if err := skipTag(msg); err != nil {
		return pkt, err
	}
	count, err := msg.GetByte()
	if err != nil {
		return pkt, err
	}
	for i := 0; i < int(count); i++ {
		character, err := getCharacterSummary(msg)
		if err != nil {
			return pkt, err
		}
		pkt.Characters = append(pkt.Characters, character)
	}
	return pkt, nil
}

func WriteCharacterCreated(character CharacterSummary) (*Message, error) {
	return writeCharacterAck(CharacterCreatedType, character)
}

func ReadCharacterCreated(msg *Message) (CharacterSummary, error) {
	return readCharacterAck(msg)
}

func WriteCharacterSelected(character CharacterSummary) (*Message, error) {
	return writeCharacterAck(CharacterSelectedType, character)
}

func ReadCharacterSelected(msg *Message) (CharacterSummary, error) {
	return readCharacterAck(msg)
}

func writeCharacterAck(tag byte, character CharacterSummary) (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(tag); err != nil {
		return nil, err
	}
	if err := addCharacterSummary(msg, character); err != nil {
		return nil, err
	}
	return msg, nil
}

func readCharacterAck(msg *Message) (CharacterSummary, error) {
	if err := skipTag(msg); err != nil {
		return CharacterSummary{}, err
	}
	return getCharacterSummary(msg)
}

func addCharacterSummary(msg *Message, character CharacterSummary) error {
	if err := msg.AddInt32(character.ID); err != nil {
		return err
	}
	if err := msg.AddString(character.Name); err != nil {
		return err
	}
	if err := msg.AddInt32(character.Level); err != nil {
		return err
	}
	return msg.AddString(character.Class)
}

func getCharacterSummary(msg *Message) (CharacterSummary, error) {
	var character CharacterSummary
	var err error
	if character.ID, err = msg.GetInt32(); err != nil {
		return character, err
	}
	if character.Name, err = msg.GetString(); err != nil {
		return character, err
	}
	if character.Level, err = msg.GetInt32(); err != nil {
		return character, err
	}
	if character.Class, err = msg.GetString(); err != nil {
		return character, err
	}
	return character, nil
}

func WriteCharacterDeleted(characterID int32, success bool, message string) (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(CharacterDeletedType); err != nil {
		return nil, err
	}
	if err := msg.AddInt32(characterID); err != nil {
		return nil, err
	}
	if err := msg.AddBool(success); err != nil {
		return nil, err
	}
	if err := msg.AddString(message); err != nil {
		return nil, err
	}
	return msg, nil
}

func ReadCharacterDeleted(msg *Message) (CharacterDeleted, error) {
	var pkt CharacterDeleted
	if err := skipTag(msg); err != nil {
		return pkt, err
	}
	var err error
	if pkt.CharacterID, err = msg.GetInt32(); err != nil {
		return pkt, err
	}
	if pkt.Success, err = msg.GetBool(); err != nil {
		return pkt, err
	}
	if pkt.Message, err = msg.GetString(); err != nil {
		return pkt, err
	}
	return pkt, nil
}

// ---------------------------------------------------------------------
// Utility
// ---------------------------------------------------------------------

func WritePing(timestamp int64) (*Message, error) {
	return writeTimestamp(PingType, timestamp)
}

func ReadPing(msg *Message) (int64, error) {
	return readTimestamp(msg)
}

func WritePong(timestamp int64) (*Message, error) {
	return writeTimestamp(PongType, timestamp)
}

func ReadPong(msg *Message) (int64, error) {
	return readTimestamp(msg)
}

func writeTimestamp(tag byte, timestamp int64) (*Message, error) {
	msg := NewMessage()
	if err := msg.AddByte(tag); err != nil {
		return nil, err
	}
	if err := msg.AddInt64(timestamp); err != nil {
		return nil, err
	}
	return msg, nil
}

func readTimestamp(msg *Message) (int64, error) {
	if err := skipTag(msg); err != nil {
		return 0, err
	}
	return msg.GetInt64()
}
