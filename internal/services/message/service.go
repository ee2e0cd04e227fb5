package message

import (
	"context"
	"crypto/rsa"

	"veilchat/internal/domain"
)

// KeyResolver resolves a recipient's public key.
type KeyResolver interface {
	Resolve(ctx context.Context, identity domain.Identity) (*rsa.PublicKey, error)
}

// FrameSender hands a finished frame to the transport.
type FrameSender interface {
	Send(domain.Frame) error
}

// Service encrypts outgoing messages and decrypts incoming ones.
type Service struct {
	resolver KeyResolver
	provider domain.CryptoProvider
}

// New constructs a message service.
func New(resolver KeyResolver, provider domain.CryptoProvider) *Service {
	return &Service{resolver: resolver, provider: provider}
}

// SendText encrypts text for the recipient and sends a message:send frame.
// Text is sealed directly with RSA-OAEP, so it is subject to the OAEP bound;
// oversized plaintexts fail here with domain.ErrPlaintextTooLarge, before any
// network write.
func (s *Service) SendText(ctx context.Context, conn FrameSender, to domain.Identity, text string) error {
	pub, err := s.resolver.Resolve(ctx, to)
	if err != nil {
		return err
	}
	ct, err := s.provider.Encrypt([]byte(text), pub)
	if err != nil {
		return err
	}
	frame, err := domain.NewFrame(domain.FrameMessageSend, domain.MessageSend{
		To:               to,
		EncryptedContent: ct,
	})
	if err != nil {
		return err
	}
	return conn.Send(frame)
}

// SendFile hybrid-encrypts data for the recipient and sends a file:send frame.
func (s *Service) SendFile(ctx context.Context, conn FrameSender, to domain.Identity, name, fileType string, data []byte) error {
	pub, err := s.resolver.Resolve(ctx, to)
	if err != nil {
		return err
	}
	sealedFile, sealedKey, err := s.provider.EncryptFile(data, pub)
	if err != nil {
		return err
	}
	frame, err := domain.NewFrame(domain.FrameFileSend, domain.FileSend{
		To:            to,
		FileName:      name,
		FileType:      fileType,
		EncryptedFile: sealedFile,
		EncryptedKey:  sealedKey,
	})
	if err != nil {
		return err
	}
	return conn.Send(frame)
}

// OpenText decodes a message:receive frame and decrypts its content. A
// decrypt failure returns domain.ErrDecryption together with the sender, so
// the caller can render a placeholder and keep the conversation going.
func (s *Service) OpenText(frame domain.Frame, priv *rsa.PrivateKey) (domain.IncomingText, error) {
	var p domain.MessageReceive
	if err := frame.Decode(&p); err != nil {
		return domain.IncomingText{}, err
	}
	pt, err := s.provider.Decrypt(p.EncryptedContent, priv)
	if err != nil {
		return domain.IncomingText{From: p.From}, err
	}
	return domain.IncomingText{From: p.From, Text: string(pt)}, nil
}

// OpenFile decodes a file:receive frame and decrypts its payload.
func (s *Service) OpenFile(frame domain.Frame, priv *rsa.PrivateKey) (domain.IncomingFile, error) {
	var p domain.FileReceive
	if err := frame.Decode(&p); err != nil {
		return domain.IncomingFile{}, err
	}
	data, err := s.provider.DecryptFile(p.EncryptedFile, p.EncryptedKey, priv)
	if err != nil {
		return domain.IncomingFile{From: p.From, FileName: p.FileName}, err
	}
	return domain.IncomingFile{
		From:     p.From,
		FileName: p.FileName,
		FileType: p.FileType,
		Data:     data,
	}, nil
}
