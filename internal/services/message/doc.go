// Package message turns plaintext into wire frames and back.
//
// Send paths resolve the recipient's public key, encrypt locally (RSA-OAEP for
// text, hybrid AES-GCM for files), and hand the resulting frame to the
// connection. Receive paths decode relay frames and decrypt with the local
// private key. The relay only ever sees the sealed payloads built here.
package message
