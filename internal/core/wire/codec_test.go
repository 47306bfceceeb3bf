package wire

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPeekTag(t *testing.T) {
	msg, err := WriteLogin("alice", "secret", "0.1.0")
	if err != nil {
		t.Fatalf("WriteLogin() error = %v", err)
	}

	frame := NewMessageFrom(msg.Bytes())
	tag, err := PeekTag(frame)
	if err != nil {
		t.Fatalf("PeekTag() error = %v", err)
	}
	if tag != LoginType {
		t.Errorf("PeekTag() = %#x, want %#x", tag, LoginType)
	}

	// The peek must not consume anything; a full decode still works.
	pkt, err := ReadLogin(frame)
	if err != nil {
		t.Fatalf("ReadLogin() after peek error = %v", err)
	}
	if pkt.Username != "alice" {
		t.Errorf("ReadLogin().Username = %q, want %q", pkt.Username, "alice")
	}
}

func TestPeekTag_EmptyFrame(t *testing.T) {
	if _, err := PeekTag(NewMessageFrom(nil)); !errors.Is(err, ErrMalformedFrame) {
		t.Errorf("PeekTag() error = %v, want ErrMalformedFrame", err)
	}
}

func TestCodec_RoundTrips(t *testing.T) {
	tests := map[string]struct {
		encode func() (*Message, error)
		decode func(*Message) (interface{}, error)
		want   interface{}
	}{
		"login": {
			encode: func() (*Message, error) { return WriteLogin("alice", "secret", "0.1.0") },
			decode: func(m *Message) (interface{}, error) { return ReadLogin(m) },
			want:   Login{Username: "alice", Password: "secret", ClientVersion: "0.1.0"},
		},
		"login with empty fields": {
			encode: func() (*Message, error) { return WriteLogin("", "", "") },
			decode: func(m *Message) (interface{}, error) { return ReadLogin(m) },
			want:   Login{},
		},
		"chat": {
			encode: func() (*Message, error) { return WriteChat("hello there") },
			decode: func(m *Message) (interface{}, error) { return ReadChat(m) },
			want:   Chat{Message: "hello there"},
		},
		"chat at boundary length": {
			encode: func() (*Message, error) { return WriteChat(strings.Repeat("x", MaxChatMessageLength)) },
			decode: func(m *Message) (interface{}, error) { return ReadChat(m) },
			want:   Chat{Message: strings.Repeat("x", MaxChatMessageLength)},
		},
		"move": {
			encode: func() (*Message, error) { return WriteMove(-5, 132) },
			decode: func(m *Message) (interface{}, error) { return ReadMove(m) },
			want:   Move{TargetX: -5, TargetY: 132},
		},
		"create character": {
			encode: func() (*Message, error) { return WriteCreateCharacter("Brimstone", "Mage") },
			decode: func(m *Message) (interface{}, error) { return ReadCreateCharacter(m) },
			want:   CreateCharacter{Name: "Brimstone", Class: "Mage"},
		},
		"select character": {
			encode: func() (*Message, error) { return WriteSelectCharacter(77) },
			decode: func(m *Message) (interface{}, error) { return ReadSelectCharacter(m) },
			want:   SelectCharacter{CharacterID: 77},
		},
		"delete character": {
			encode: func() (*Message, error) { return WriteDeleteCharacter(13, "hunter2") },
			decode: func(m *Message) (interface{}, error) { return ReadDeleteCharacter(m) },
			want:   DeleteCharacter{CharacterID: 13, Password: "hunter2"},
		},
		"login response": {
			encode: func() (*Message, error) { return WriteLoginResponse("welcome!") },
			decode: func(m *Message) (interface{}, error) { return ReadLoginResponse(m) },
			want:   "welcome!",
		},
		"login failed": {
			encode: func() (*Message, error) { return WriteLoginFailed("bad credentials") },
			decode: func(m *Message) (interface{}, error) { return ReadLoginFailed(m) },
			want:   "bad credentials",
		},
		"chat broadcast": {
			encode: func() (*Message, error) { return WriteChatBroadcast("Brimstone", "hi all") },
			decode: func(m *Message) (interface{}, error) { return ReadChatBroadcast(m) },
			want:   ChatBroadcast{FromPlayer: "Brimstone", Message: "hi all"},
		},
		"system message": {
			encode: func() (*Message, error) { return WriteSystemMessage("server restarting") },
			decode: func(m *Message) (interface{}, error) { return ReadSystemMessage(m) },
			want:   "server restarting",
		},
		"player move": {
			encode: func() (*Message, error) { return WritePlayerMove(3, 10, -20) },
			decode: func(m *Message) (interface{}, error) { return ReadPlayerMove(m) },
			want:   PlayerMove{PlayerID: 3, X: 10, Y: -20},
		},
		"player spawn": {
			encode: func() (*Message, error) { return WritePlayerSpawn(3, "Brimstone", 0, 0) },
			decode: func(m *Message) (interface{}, error) { return ReadPlayerSpawn(m) },
			want:   PlayerSpawn{PlayerID: 3, Name: "Brimstone", X: 0, Y: 0},
		},
		"player despawn": {
			encode: func() (*Message, error) { return WritePlayerDespawn(9) },
			decode: func(m *Message) (interface{}, error) { return ReadPlayerDespawn(m) },
			want:   PlayerDespawn{PlayerID: 9},
		},
		"character list": {
			encode: func() (*Message, error) {
				return WriteCharacterList([]CharacterSummary{
					{ID: 1, Name: "Brimstone", Level: 12, Class: "Mage"},
					{ID: 2, Name: "Ash", Level: 1, Class: "Warrior"},
				})
			},
			decode: func(m *Message) (interface{}, error) { return ReadCharacterList(m) },
			want: CharacterList{Characters: []CharacterSummary{
				{ID: 1, Name: "Brimstone", Level: 12, Class: "Mage"},
				{ID: 2, Name: "Ash", Level: 1, Class: "Warrior"},
			}},
		},
		"empty character list": {
			encode: func() (*Message, error) { return WriteCharacterList(nil) },
			decode: func(m *Message) (interface{}, error) { return ReadCharacterList(m) },
			want:   CharacterList{},
		},
		"character created": {
			encode: func() (*Message, error) {
				return WriteCharacterCreated(CharacterSummary{ID: 4, Name: "Ash", Level: 1, Class: "Warrior"})
			},
			decode: func(m *Message) (interface{}, error) { return ReadCharacterCreated(m) },
			want:   CharacterSummary{ID: 4, Name: "Ash", Level: 1, Class: "Warrior"},
		},
		"character selected": {
			encode: func() (*Message, error) {
				return WriteCharacterSelected(CharacterSummary{ID: 4, Name: "Ash", Level: 3, Class: "Warrior"})
			},
			decode: func(m *Message) (interface{}, error) { return ReadCharacterSelected(m) },
			want:   CharacterSummary{ID: 4, Name: "Ash", Level: 3, Class: "Warrior"},
		},
		"character deleted": {
			encode: func() (*Message, error) { return WriteCharacterDeleted(13, true, "gone") },
			decode: func(m *Message) (interface{}, error) { return ReadCharacterDeleted(m) },
			want:   CharacterDeleted{CharacterID: 13, Success: true, Message: "gone"},
		},
		"ping": {
			encode: func() (*Message, error) { return WritePing(1735689600123) },
			decode: func(m *Message) (interface{}, error) { return ReadPing(m) },
			want:   int64(1735689600123),
		},
		"pong": {
			encode: func() (*Message, error) { return WritePong(-1) },
			decode: func(m *Message) (interface{}, error) { return ReadPong(m) },
			want:   int64(-1),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			msg, err := tt.encode()
			if err != nil {
				t.Fatalf("encode error = %v", err)
			}

			got, err := tt.decode(NewMessageFrom(msg.Bytes()))
			if err != nil {
				t.Fatalf("decode error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("round trip mismatch; diff:\n%s", diff)
			}
		})
	}
}

func TestReadChat_TooLong(t *testing.T) {
	msg, err := WriteChat(strings.Repeat("x", MaxChatMessageLength+1))
	if err != nil {
		t.Fatalf("WriteChat() error = %v", err)
	}

	if _, err := ReadChat(NewMessageFrom(msg.Bytes())); !errors.Is(err, ErrMalformedFrame) {
		t.Errorf("ReadChat() error = %v, want ErrMalformedFrame", err)
	}
}

func TestWriteCharacterList_TooManyEntries(t *testing.T) {
	characters := make([]CharacterSummary, 256)
	for i := range characters {
		characters[i] = CharacterSummary{ID: int32(i), Name: "a", Level: 1, Class: "Warrior"}
	}

	if _, err := WriteCharacterList(characters); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("WriteCharacterList() error = %v, want ErrFrameTooLarge", err)
	}
}

func TestReadLogin_Truncated(t *testing.T) {
	msg, err := WriteLogin("alice", "secret", "0.1.0")
	if err != nil {
		t.Fatalf("WriteLogin() error = %v", err)
	}

	// Chop the frame in the middle of the password field.
	data := msg.Bytes()[:8]
	if _, err := ReadLogin(NewMessageFrom(data)); !errors.Is(err, ErrMalformedFrame) {
		t.Errorf("ReadLogin() error = %v, want ErrMalformedFrame", err)
	}
}
