package message_test

import (
	"context"
	"crypto/rsa"
	"errors"
	"testing"

	"veilchat/internal/crypto"
	"veilchat/internal/domain"
	"veilchat/internal/services/message"
)

type staticResolver struct {
	keys map[domain.Identity]*rsa.PublicKey
}

func (r staticResolver) Resolve(_ context.Context, id domain.Identity) (*rsa.PublicKey, error) {
	pub, ok := r.keys[id]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return pub, nil
}

type captureSender struct {
	frames []domain.Frame
}

func (c *captureSender) Send(f domain.Frame) error {
	c.frames = append(c.frames, f)
	return nil
}

func TestSendText_OpenText_RoundTrip(t *testing.T) {
	bobPub, bobPriv, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	svc := message.New(staticResolver{keys: map[domain.Identity]*rsa.PublicKey{"bob": bobPub}}, crypto.NewProvider())
	sender := &captureSender{}

	if err := svc.SendText(context.Background(), sender, "bob", "hi"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if len(sender.frames) != 1 || sender.frames[0].Type != domain.FrameMessageSend {
		t.Fatalf("unexpected frames: %+v", sender.frames)
	}

	// The relay would re-tag the frame with the sender before forwarding.
	var sent domain.MessageSend
	if err := sender.frames[0].Decode(&sent); err != nil {
		t.Fatalf("decode sent payload: %v", err)
	}
	forwarded, err := domain.NewFrame(domain.FrameMessageReceive, domain.MessageReceive{
		From:             "alice",
		EncryptedContent: sent.EncryptedContent,
	})
	if err != nil {
		t.Fatalf("build forwarded frame: %v", err)
	}

	got, err := svc.OpenText(forwarded, bobPriv)
	if err != nil {
		t.Fatalf("OpenText: %v", err)
	}
	if got.From != "alice" || got.Text != "hi" {
		t.Fatalf("got %+v", got)
	}
}

func TestSendText_UnknownRecipient(t *testing.T) {
	svc := message.New(staticResolver{}, crypto.NewProvider())
	sender := &captureSender{}

	err := svc.SendText(context.Background(), sender, "ghost", "hello?")
	if !errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("want ErrKeyNotFound, got %v", err)
	}
	if len(sender.frames) != 0 {
		t.Fatal("send must abort before any network write")
	}
}

func TestSendFile_OpenFile_RoundTrip(t *testing.T) {
	bobPub, bobPriv, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	svc := message.New(staticResolver{keys: map[domain.Identity]*rsa.PublicKey{"bob": bobPub}}, crypto.NewProvider())
	sender := &captureSender{}

	data := []byte("file content, longer than the OAEP bound would ever allow if repeated enough times to matter")
	if err := svc.SendFile(context.Background(), sender, "bob", "notes.txt", "text/plain", data); err != nil {
		t.Fatalf("SendFile: %v", err)
	}

	var sent domain.FileSend
	if err := sender.frames[0].Decode(&sent); err != nil {
		t.Fatalf("decode sent payload: %v", err)
	}
	forwarded, err := domain.NewFrame(domain.FrameFileReceive, domain.FileReceive{
		From:          "alice",
		FileName:      sent.FileName,
		FileType:      sent.FileType,
		EncryptedFile: sent.EncryptedFile,
		EncryptedKey:  sent.EncryptedKey,
	})
	if err != nil {
		t.Fatalf("build forwarded frame: %v", err)
	}

	got, err := svc.OpenFile(forwarded, bobPriv)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if got.FileName != "notes.txt" || got.FileType != "text/plain" || string(got.Data) != string(data) {
		t.Fatalf("got %+v", got)
	}
}

func TestOpenText_WrongKey_ReportsSender(t *testing.T) {
	bobPub, _, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	_, strangerPriv, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	svc := message.New(staticResolver{keys: map[domain.Identity]*rsa.PublicKey{"bob": bobPub}}, crypto.NewProvider())
	sender := &captureSender{}
	if err := svc.SendText(context.Background(), sender, "bob", "hi"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	var sent domain.MessageSend
	if err := sender.frames[0].Decode(&sent); err != nil {
		t.Fatalf("decode: %v", err)
	}
	forwarded, _ := domain.NewFrame(domain.FrameMessageReceive, domain.MessageReceive{
		From:             "alice",
		EncryptedContent: sent.EncryptedContent,
	})

	got, err := svc.OpenText(forwarded, strangerPriv)
	if !errors.Is(err, domain.ErrDecryption) {
		t.Fatalf("want ErrDecryption, got %v", err)
	}
	// The sender is still reported so the UI can place the placeholder.
	if got.From != "alice" {
		t.Fatalf("want sender with error, got %+v", got)
	}
}
