package domain

import (
	"encoding/json"
	"fmt"
)

// FrameType discriminates the JSON frames exchanged over the websocket.
type FrameType string

const (
	// Client to relay.
	FrameMessageSend FrameType = "message:send"
	FrameFileSend    FrameType = "file:send"

	// Relay to client.
	FrameMessageReceive FrameType = "message:receive"
	FrameFileReceive    FrameType = "file:receive"
	FrameOnlineList     FrameType = "friends:online_list"
	FrameFriendOnline   FrameType = "friend:online"
	FrameFriendOffline  FrameType = "friend:offline"
)

// Known reports whether t is part of the wire protocol.
func (t FrameType) Known() bool {
	switch t {
	case FrameMessageSend, FrameFileSend,
		FrameMessageReceive, FrameFileReceive,
		FrameOnlineList, FrameFriendOnline, FrameFriendOffline:
		return true
	}
	return false
}

// ClientOriginated reports whether a client may legally send t to the relay.
func (t FrameType) ClientOriginated() bool {
	return t == FrameMessageSend || t == FrameFileSend
}

// Frame is the unit framed over the websocket: a type discriminator plus an
// uninterpreted payload. The relay never decodes payloads beyond the routing
// fields of the client-originated variants.
type Frame struct {
	Type    FrameType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewFrame builds a Frame with the marshalled payload.
func NewFrame(t FrameType, payload any) (Frame, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, fmt.Errorf("encode %s payload: %w", t, err)
	}
	return Frame{Type: t, Payload: raw}, nil
}

// Decode unmarshals the frame payload into out.
func (f Frame) Decode(out any) error {
	if err := json.Unmarshal(f.Payload, out); err != nil {
		return fmt.Errorf("%w: %s payload: %v", ErrBadFrame, f.Type, err)
	}
	return nil
}

// MessageSend carries an asymmetrically encrypted text message to a recipient.
type MessageSend struct {
	To               Identity `json:"to"`
	EncryptedContent string   `json:"encryptedContent"`
}

// FileSend carries a hybrid-encrypted file: the AES-GCM sealed content and the
// RSA-sealed one-time key.
type FileSend struct {
	To            Identity `json:"to"`
	FileName      string   `json:"fileName"`
	FileType      string   `json:"fileType"`
	EncryptedFile string   `json:"encryptedFile"`
	EncryptedKey  string   `json:"encryptedKey"`
}

// MessageReceive is the relay-to-recipient mirror of MessageSend.
type MessageReceive struct {
	From             Identity `json:"from"`
	EncryptedContent string   `json:"encryptedContent"`
}

// FileReceive is the relay-to-recipient mirror of FileSend.
type FileReceive struct {
	From          Identity `json:"from"`
	FileName      string   `json:"fileName"`
	FileType      string   `json:"fileType"`
	EncryptedFile string   `json:"encryptedFile"`
	EncryptedKey  string   `json:"encryptedKey"`
}

// PresencePeer names an identity in presence frames. friends:online_list
// carries []PresencePeer; friend:online and friend:offline carry one.
type PresencePeer struct {
	Identity Identity `json:"identity"`
}
