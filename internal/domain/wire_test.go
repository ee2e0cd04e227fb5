package domain_test

import (
	"errors"
	"testing"

	"veilchat/internal/domain"
)

func TestFrameType_Known(t *testing.T) {
	known := []domain.FrameType{
		domain.FrameMessageSend, domain.FrameFileSend,
		domain.FrameMessageReceive, domain.FrameFileReceive,
		domain.FrameOnlineList, domain.FrameFriendOnline, domain.FrameFriendOffline,
	}
	for _, ft := range known {
		if !ft.Known() {
			t.Fatalf("%s should be known", ft)
		}
	}
	if domain.FrameType("message:unknown").Known() {
		t.Fatal("unknown tag reported as known")
	}
	if domain.FrameMessageReceive.ClientOriginated() {
		t.Fatal("relay-originated tag reported as client-originated")
	}
	if !domain.FrameFileSend.ClientOriginated() {
		t.Fatal("file:send should be client-originated")
	}
}

func TestFrame_EncodeDecode(t *testing.T) {
	f, err := domain.NewFrame(domain.FrameMessageSend, domain.MessageSend{
		To:               "bob",
		EncryptedContent: "ct",
	})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	var p domain.MessageSend
	if err := f.Decode(&p); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.To != "bob" || p.EncryptedContent != "ct" {
		t.Fatalf("got %+v", p)
	}

	var wrong []int
	if err := f.Decode(&wrong); !errors.Is(err, domain.ErrBadFrame) {
		t.Fatalf("want ErrBadFrame, got %v", err)
	}
}
