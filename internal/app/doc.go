// Package app wires the client dependency graph: vault, crypto provider,
// directory client, key cache, and the services on top of them.
package app
