package app

import "net/http"

// Config holds runtime wiring options for building the client app.
type Config struct {
	Home     string       // config directory, e.g. $HOME/.veilchat
	RelayURL string       // relay base URL, e.g. http://127.0.0.1:8080
	Token    string       // bearer token presented to the relay and directory
	HTTP     *http.Client // optional; defaults to http.DefaultClient
}
