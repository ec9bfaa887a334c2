package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/aethermind-ai-hash/asb/internal/domain"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleConfig contains configuration for the Google identity provider
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Google implements Provider using Google's OAuth2 endpoints.
type Google struct {
	oauth  *oauth2.Config
	logger *slog.Logger
}

// NewGoogle creates a Google identity provider
func NewGoogle(config GoogleConfig, logger *slog.Logger) (*Google, error) {
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, fmt.Errorf("google client id and secret are required")
	}
	if config.RedirectURL == "" {
		return nil, fmt.Errorf("google redirect url is required")
	}

	return &Google{
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		logger: logger,
	}, nil
}

// AuthURL returns the Google consent page URL
func (g *Google) AuthURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for the signed-in user's identity
func (g *Google) Exchange(ctx context.Context, code string) (*domain.Identity, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		g.logger.Warn("google code exchange failed", "error", err)
		return nil, fmt.Errorf("%w: %v", EExchangeFailed, err)
	}

	client := g.oauth.Client(ctx, token)
	resp, err := client.Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read userinfo: %w", err)
	}

	var info struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("parse userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, ENoEmail
	}

	return &domain.Identity{
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
