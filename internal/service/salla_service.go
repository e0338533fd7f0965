package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/darkhorse3pl/auth-service/internal/apperrors"
	"github.com/darkhorse3pl/auth-service/internal/config"
	"github.com/darkhorse3pl/auth-service/internal/domain"
	"github.com/darkhorse3pl/auth-service/internal/dto"
	"github.com/darkhorse3pl/auth-service/internal/mail"
	"github.com/darkhorse3pl/auth-service/internal/repository"
)

// sallaService implements SallaService interface
type sallaService struct {
	storeRepo  repository.StoreRepository
	mailer     mail.Sender
	httpClient *http.Client
	cfg        config.SallaConfig
	logger     *zap.Logger
}

// NewSallaService creates a new Salla OAuth service
func NewSallaService(
	storeRepo repository.StoreRepository,
	mailer mail.Sender,
	httpClient *http.Client,
	cfg config.SallaConfig,
	logger *zap.Logger,
) SallaService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &sallaService{
		storeRepo:  storeRepo,
		mailer:     mailer,
		httpClient: httpClient,
		cfg:        cfg,
		logger:     logger,
	}
}

// Connect stores the merchant's Salla app credentials together with a
// fresh single-use state and returns the authorize URL to redirect to.
// Calling connect again before the callback simply replaces the state.
func (s *sallaService) Connect(ctx context.Context, actor *domain.User, req *dto.SallaConnectRequest) (*SallaConnection, error) {
	storeID := req.StoreID
	if actor.Role.StoreScoped() {
		if actor.StoreID == nil {
			return nil, apperrors.Forbidden("Your account is not associated with a store")
		}
		if storeID == "" {
			storeID = *actor.StoreID
		} else if storeID != *actor.StoreID {
			return nil, apperrors.Forbidden("You can only connect your own store")
		}
	}
	if storeID == "" {
		return nil, apperrors.Validation("storeId is required")
	}

	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Store not found")
		}
		return nil, apperrors.Database("get store", err)
	}
	if !store.IsActive {
		return nil, apperrors.Validation("Store is not active")
	}

	state, err := generateOAuthState()
	if err != nil {
		return nil, apperrors.Database("generate oauth state", err)
	}

	if err := s.storeRepo.SetOAuthState(ctx, store.ID, req.ClientID, req.ClientSecret, state); err != nil {
		return nil, apperrors.Database("set oauth state", err)
	}

	s.logger.Info("salla connection started",
		zap.String("store_id", store.ID),
		zap.String("user_id", actor.ID),
	)

	return &SallaConnection{
		AuthorizationURL: s.authorizeURL(req.ClientID, state),
		State:            state,
	}, nil
}

func (s *sallaService) authorizeURL(clientID, state string) string {
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("redirect_uri", s.cfg.RedirectURI)
	q.Set("response_type", "code")
	q.Set("scope", s.cfg.Scope)
	q.Set("state", state)
	return s.cfg.AuthorizeURL + "?" + q.Encode()
}

// Callback finishes the OAuth flow: the state resolves to exactly one
// store, the code is exchanged for tokens, and the tokens land on the
// store row. The state is cleared whether or not the exchange succeeds,
// so a failed callback cannot be replayed either.
func (s *sallaService) Callback(ctx context.Context, code, state string) (*domain.Store, error) {
	if code == "" || state == "" {
		return nil, apperrors.Validation("Missing code or state parameter")
	}

	store, err := s.storeRepo.GetByOAuthState(ctx, state)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Validation("Invalid or expired OAuth state")
		}
		return nil, apperrors.Database("get store by oauth state", err)
	}

	defer func() {
		if err := s.storeRepo.ClearOAuthState(ctx, store.ID); err != nil {
			s.logger.Warn("failed to clear oauth state",
				zap.String("store_id", store.ID), zap.Error(err))
		}
	}()

	if store.SallaClientID == nil || store.SallaClientSecret == nil {
		return nil, apperrors.Validation("Store has no Salla credentials")
	}

	tokens, err := s.exchangeCode(ctx, *store.SallaClientID, *store.SallaClientSecret, code)
	if err != nil {
		s.logger.Error("salla token exchange failed",
			zap.String("store_id", store.ID), zap.Error(err))
		return nil, apperrors.Validation("Failed to exchange authorization code")
	}

	expiry := time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second)
	if err := s.storeRepo.SaveOAuthTokens(ctx, store.ID, tokens.AccessToken, tokens.RefreshToken, expiry); err != nil {
		return nil, apperrors.Database("save oauth tokens", err)
	}

	s.logger.Info("salla store connected", zap.String("store_id", store.ID))
	s.notifyConnected(ctx, store)

	store.SallaAccessToken = &tokens.AccessToken
	store.SallaRefreshToken = &tokens.RefreshToken
	store.SallaTokenExpiry = &expiry
	store.SallaOAuthState = nil

	return store, nil
}

type sallaTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

func (s *sallaService) exchangeCode(ctx context.Context, clientID, clientSecret, code string) (*sallaTokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", s.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, body)
	}

	var tokens sallaTokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokens.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}

	return &tokens, nil
}

// notifyConnected emails the store's admins. Best-effort only.
func (s *sallaService) notifyConnected(ctx context.Context, store *domain.Store) {
	users, err := s.storeRepo.ListUsers(ctx, store.ID)
	if err != nil {
		s.logger.Warn("failed to list store users for notification",
			zap.String("store_id", store.ID), zap.Error(err))
		return
	}

	for _, u := range users {
		if u.Role != domain.RoleStoreAdmin || u.Status != domain.UserStatusActive {
			continue
		}
		err := s.mailer.SendSallaConnected(ctx, mail.SallaConnectedEmail{
			To:        u.Email,
			FullName:  u.FullName(),
			StoreName: store.Name,
		})
		if err != nil {
			s.logger.Error("failed to send connection email",
				zap.String("store_id", store.ID),
				zap.String("to", u.Email),
				zap.Error(err))
		}
	}
}

// generateOAuthState returns 16 random bytes hex encoded.
func generateOAuthState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
