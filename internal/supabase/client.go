package supabase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
	"love-surprise-backend/internal/config"
	"love-surprise-backend/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
	logger   *zap.Logger
}

func NewClient(cfg *config.Config, logger *zap.Logger) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
		logger:   logger.Named("SupabaseAuth"),
	}, nil
}

// SignIn exchanges email and password for a session. The shared client's
// own session is never touched.
func (c *Client) SignIn(ctx context.Context, email, password string) (*models.AuthSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := c.Supabase.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		c.logger.Info("Sign-in rejected", zap.String("email", email), zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	return sessionFrom(resp.Session), nil
}

// SignUp registers a user. When e-mail confirmation is enabled there is no
// session yet and the returned session has an empty access token.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*models.AuthSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := types.SignupRequest{
		Email:    email,
		Password: password,
	}
	if name != "" {
		req.Data = map[string]interface{}{"name": name}
	}

	resp, err := c.Supabase.Auth.Signup(req)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already registered") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}

	if resp.Session.AccessToken != "" {
		return sessionFrom(resp.Session), nil
	}
	return &models.AuthSession{
		UserID: resp.User.ID,
		Email:  resp.User.Email,
	}, nil
}

// ConfirmSession asks the auth server whether accessToken is a live
// session. A nil principal with a nil error never happens here; an error
// means "not confirmed yet".
func (c *Client) ConfirmSession(ctx context.Context, accessToken string) (*models.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if accessToken == "" {
		return nil, errors.New("empty access token")
	}

	user, err := c.Supabase.Auth.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, fmt.Errorf("failed to confirm session: %w", err)
	}
	return &models.Principal{
		UserID:      user.ID,
		Email:       user.Email,
		AccessToken: accessToken,
	}, nil
}

func sessionFrom(s types.Session) *models.AuthSession {
	return &models.AuthSession{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
		UserID:       s.User.ID,
		Email:        s.User.Email,
	}
}
