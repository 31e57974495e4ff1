package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/twitch"
)

// tokenSource returns the chat password source: irc.token as a fixed token,
// or a token kept in irc.token_file and refreshed through the Twitch
// endpoint with the twitch.* client credentials.
func tokenSource(v *viper.Viper) (oauth2.TokenSource, error) {
	if tok := v.GetString("irc.token"); tok != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: strings.TrimPrefix(tok, "oauth:")}), nil
	}
	fn := v.GetString("irc.token_file")
	if fn == "" {
		return nil, errors.New("one of irc.token or irc.token_file must be set")
	}
	blob, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	t := new(oauth2.Token)
	if err := json.Unmarshal(blob, t); err != nil {
		return nil, err
	}
	conf := &oauth2.Config{
		ClientID:     v.GetString("twitch.client_id"),
		ClientSecret: v.GetString("twitch.client_secret"),
		Endpoint:     twitch.Endpoint,
		Scopes:       []string{"chat:read", "chat:edit"},
	}
	return &fileTokenSource{
		source:    oauth2.ReuseTokenSource(t, conf.TokenSource(context.Background(), t)),
		tokenFile: fn,
		last:      t.AccessToken,
	}, nil
}

// fileTokenSource writes refreshed tokens back to disk.
type fileTokenSource struct {
	source    oauth2.TokenSource
	tokenFile string

	mu   sync.Mutex
	last string
}

func (s *fileTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.source.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.AccessToken == s.last {
		return t, nil
	}
	blob, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(s.tokenFile, blob, 0600); err != nil {
		return nil, err
	}
	s.last = t.AccessToken
	return t, nil
}
