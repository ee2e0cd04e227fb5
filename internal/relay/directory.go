package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"veilchat/internal/domain"
)

// DirectoryClient talks to the public-key directory over HTTP.
type DirectoryClient struct {
	base  string
	token string
	http  *http.Client
}

// NewDirectoryClient returns a client for the directory at base. token is the
// bearer token used for authenticated uploads; httpClient may be nil.
func NewDirectoryClient(base, token string, httpClient *http.Client) *DirectoryClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &DirectoryClient{base: base, token: token, http: httpClient}
}

// Lookup fetches the published PEM public key for identity. A 404 maps to
// domain.ErrKeyNotFound.
func (c *DirectoryClient) Lookup(ctx context.Context, identity domain.Identity) (string, error) {
	u := c.base + "/keys/" + url.PathEscape(identity.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", domain.ErrKeyNotFound, identity)
	case resp.StatusCode/100 != 2:
		return "", fmt.Errorf("directory get %s: %s", u, resp.Status)
	}

	var out struct {
		PublicKey string `json:"publicKey"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.PublicKey == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrKeyNotFound, identity)
	}
	return out.PublicKey, nil
}

// Upload publishes the caller's public key under its bearer token. A 401 maps
// to domain.ErrUnauthorized.
func (c *DirectoryClient) Upload(ctx context.Context, publicKeyPEM string) error {
	body := new(bytes.Buffer)
	if err := json.NewEncoder(body).Encode(struct {
		PublicKey string `json:"publicKey"`
	}{PublicKey: publicKeyPEM}); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/keys/me", body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case resp.StatusCode/100 != 2:
		return fmt.Errorf("directory post /keys/me: %s", resp.Status)
	}
	return nil
}

// Compile-time assertion that DirectoryClient implements domain.Directory.
var _ domain.Directory = (*DirectoryClient)(nil)
