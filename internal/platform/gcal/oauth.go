package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
)

// ErrNoToken means no cached OAuth token exists yet; the interactive
// bootstrap (cmd/tokengen) must be run once to produce one.
type ErrNoToken struct {
	TokenFile string
}

func (e *ErrNoToken) Error() string {
	return fmt.Sprintf("no OAuth token at %s; run the tokengen command once to authorize", e.TokenFile)
}

// LoadOAuthConfig reads the Google OAuth client secrets file.
func LoadOAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", credentialsFile, err)
	}
	config, err := google.ConfigFromJSON(b, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file: %w", err)
	}
	return config, nil
}

func TokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("unable to decode token file %s: %w", file, err)
	}
	return tok, nil
}

func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// persistingTokenSource writes refreshed tokens back to the token
// file so a restart does not re-trigger the authorization flow.
type persistingTokenSource struct {
	mu     sync.Mutex
	base   oauth2.TokenSource
	file   string
	cached *oauth2.Token
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if s.cached == nil || tok.AccessToken != s.cached.AccessToken {
		if err := SaveToken(s.file, tok); err != nil {
			return nil, err
		}
		s.cached = tok
	}
	return tok, nil
}

// TokenSource returns a refreshing token source backed by the cached
// token file. A missing token file surfaces as *ErrNoToken.
func TokenSource(ctx context.Context, config *oauth2.Config, tokenFile string) (oauth2.TokenSource, error) {
	tok, err := TokenFromFile(tokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ErrNoToken{TokenFile: tokenFile}
		}
		return nil, err
	}
	return &persistingTokenSource{
		base:   config.TokenSource(ctx, tok),
		file:   tokenFile,
		cached: tok,
	}, nil
}

// AuthorizeInteractive runs the one-shot authorization-code exchange:
// print the consent URL, read the code, trade it for a token.
func AuthorizeInteractive(ctx context.Context, config *oauth2.Config, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Go to the following link in your browser then type the authorization code:\n%v\n", authURL)

	var authCode string
	if _, err := fmt.Fscan(in, &authCode); err != nil {
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}
	tok, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}
