// Package auth implements credential verification and token-based
// identity resolution on top of the password and jwt subpackages.
package auth

import (
	"context"

	"github.com/skillsenselab/identity/auth/jwt"
	"github.com/skillsenselab/identity/auth/password"
	"github.com/skillsenselab/identity/errors"
	"github.com/skillsenselab/identity/logger"
	"github.com/skillsenselab/identity/model"
)

// UserSource is the slice of the user store the service needs.
type UserSource interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// Notifier is told about account events. Implemented by mail.Mailer.
type Notifier interface {
	SendWelcome(ctx context.Context, user *model.User) error
}

// TokenPair carries the access and refresh tokens issued on login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Service verifies credentials, issues tokens and resolves them back
// to identities. Token subjects are user email addresses.
type Service struct {
	users    UserSource
	hasher   password.Hasher
	tokens   *jwt.Service
	notifier Notifier
	log      *logger.Logger
}

// NewService wires the auth service.
func NewService(users UserSource, hasher password.Hasher, tokens *jwt.Service, log *logger.Logger) *Service {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		log:    log.WithComponent("auth"),
	}
}

// SetNotifier installs the account event notifier. Optional.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Login verifies the username/password pair and issues a token pair.
// A missing user and a wrong password both come back as invalid
// credentials so callers cannot probe for accounts.
func (s *Service) Login(ctx context.Context, username, plaintext string) (*TokenPair, *model.Identity, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok && appErr.Code == errors.ErrCodeNotFound {
			return nil, nil, errors.InvalidCredentials()
		}
		return nil, nil, err
	}

	ok, err := s.hasher.Verify(user.Password, plaintext)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		s.log.Warn("login rejected", map[string]interface{}{"username": username})
		return nil, nil, errors.InvalidCredentials()
	}

	pair, err := s.issuePair(user.Email)
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("login succeeded", map[string]interface{}{logger.FieldUserID: user.ID})
	return pair, model.IdentityOf(user), nil
}

// RegisterInput is the new-account payload, already validated.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// Register hashes the password and creates the account. New accounts
// start with no roles, no permissions and no superadmin flag.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Name:     in.Name,
		Username: in.Username,
		Email:    in.Email,
		Password: digest,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.SendWelcome(ctx, user); err != nil {
			// mail failure must not roll back the account
			s.log.WithError(err).Warn("welcome mail failed", map[string]interface{}{logger.FieldUserID: user.ID})
		}
	}
	s.log.Info("user registered", map[string]interface{}{logger.FieldUserID: user.ID})
	return user, nil
}

// Resolve parses a token and loads the identity it names. An unknown
// subject is reported as an invalid token, not a missing user.
func (s *Service) Resolve(ctx context.Context, token string) (*model.Identity, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok && appErr.Code == errors.ErrCodeNotFound {
			return nil, errors.InvalidToken()
		}
		return nil, err
	}
	return model.IdentityOf(user), nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	identity, err := s.Resolve(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return s.issuePair(identity.Email)
}

// Logout is a no-op: tokens are stateless and expire on their own.
// It exists so the handler layer has a single place to hook revocation
// if a denylist is ever added.
func (s *Service) Logout(_ context.Context, identity *model.Identity) error {
	if identity != nil {
		s.log.Info("logout", map[string]interface{}{logger.FieldUserID: identity.ID})
	}
	return nil
}

func (s *Service) issuePair(subject string) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(subject)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(subject)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
