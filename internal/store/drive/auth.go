package drive

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-faster/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
)

// Scopes requested for the gallery folder.
var Scopes = []string{drive.DriveFileScope}

// OAuthConfig reads OAuth client credentials downloaded from the Google
// Cloud console.
func OAuthConfig(credentialsPath string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, errors.Wrap(err, "read oauth credentials")
	}

	cfg, err := google.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return nil, errors.Wrap(err, "parse oauth credentials")
	}
	return cfg, nil
}

// ReadToken loads a token written by SaveToken.
func ReadToken(path string) (*oauth2.Token, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read token")
	}

	tok := new(oauth2.Token)
	if err := json.Unmarshal(b, tok); err != nil {
		return nil, errors.Wrap(err, "parse token")
	}
	return tok, nil
}

func SaveToken(path string, tok *oauth2.Token) error {
	b, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(path, b, 0o600), "write token")
}

// OAuthClient returns an HTTP client authorised with the stored token.
// Expired access tokens are refreshed by the oauth2 token source.
func OAuthClient(ctx context.Context, credentialsPath, tokenPath string) (*http.Client, error) {
	cfg, err := OAuthConfig(credentialsPath)
	if err != nil {
		return nil, err
	}

	tok, err := ReadToken(tokenPath)
	if err != nil {
		return nil, err
	}

	return cfg.Client(ctx, tok), nil
}
