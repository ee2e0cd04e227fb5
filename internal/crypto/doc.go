// Package crypto exposes the primitives used by veilchat.
//
// Contents
//
//   - RSA-2048 OAEP/SHA-256 key generation, SPKI PEM export/import, and
//     short-payload encryption (GenerateKeyPair, ExportPublicKey,
//     ImportPublicKey, Encrypt, Decrypt)
//   - Hybrid sealing for arbitrary-length payloads: a fresh AES-256-GCM key
//     per message, itself wrapped with RSA-OAEP (EncryptFile, DecryptFile)
//   - Passphrase sealing for key material at rest, Argon2id into
//     ChaCha20-Poly1305 (SealWithPassphrase, OpenWithPassphrase)
//   - Short public-key fingerprints for display (Fingerprint)
//
// # Notes
//
// RSA-OAEP with a 2048-bit modulus and SHA-256 can seal at most 190 bytes;
// Encrypt enforces the bound and callers route anything larger through
// EncryptFile. Decrypt failures collapse into domain.ErrDecryption so callers
// cannot distinguish wrong key from tampering.
package crypto
