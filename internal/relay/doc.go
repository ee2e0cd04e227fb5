// Package relay implements the client side of the relay protocol: the HTTP
// directory client for public key lookup/upload and the websocket connection
// that frames envelopes to and from the relay. Everything sent through here is
// ciphertext; plaintext never reaches this package.
package relay
