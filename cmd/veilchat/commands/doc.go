// Package commands defines the veilchat CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - init           Generate the local key pair (if absent) and publish it
//   - fingerprint    Print the local key fingerprint
//   - send           Encrypt and send a text message to a peer
//   - send-file      Encrypt and send a file to a peer
//   - listen         Connect to the relay and print incoming traffic
//   - token          Mint a development bearer token
//
// # Implementation
//
// The root command builds a dependency graph (vault, crypto provider,
// directory client, services) before any subcommand runs, so handlers share
// one app context.
package commands
