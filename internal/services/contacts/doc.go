// Package contacts resolves recipient public keys: session cache first, then
// the directory, importing and caching on a hit.
package contacts
