package app

import (
	"net/http"

	"veilchat/internal/crypto"
	"veilchat/internal/domain"
	"veilchat/internal/relay"
	contactsvc "veilchat/internal/services/contacts"
	identitysvc "veilchat/internal/services/identity"
	messagesvc "veilchat/internal/services/message"
	"veilchat/internal/store"
)

// Wire bundles the stores, services, and clients for the CLI.
type Wire struct {
	Vault     domain.KeyVault
	Provider  domain.CryptoProvider
	Directory domain.Directory
	Identity  *identitysvc.Service
	Contacts  *contactsvc.Service
	Messages  *messagesvc.Service
	Token     string
	RelayURL  string
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	vault := store.NewFileVault(cfg.Home)
	provider := crypto.NewProvider()
	directory := relay.NewDirectoryClient(cfg.RelayURL, cfg.Token, httpClient)

	contactSvc := contactsvc.New(store.NewKeyCache(), directory, provider)

	return &Wire{
		Vault:     vault,
		Provider:  provider,
		Directory: directory,
		Identity:  identitysvc.New(vault, provider, directory),
		Contacts:  contactSvc,
		Messages:  messagesvc.New(contactSvc, provider),
		Token:     cfg.Token,
		RelayURL:  cfg.RelayURL,
	}, nil
}
