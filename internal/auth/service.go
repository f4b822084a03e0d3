// internal/auth/service.go
//
// Account lifecycle for players.
// Responsibilities:
//   - Email/password signup and login (bcrypt hashes).
//   - Federated sign-in through broker-issued ID tokens.
//   - Password reset: hashed single-use tokens with a one hour expiry.
//   - Profile edits through the typed validators.
//
// Session tokens are issued by the caller with Service.Tokens().

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/thywordle/internal/store"
)

// ResetTTL is how long a password reset token stays valid.
const ResetTTL = time.Hour

var (
	ErrBadCredentials = errors.New("invalid email or password")
	ErrResetInvalid   = errors.New("reset token is invalid or expired")
)

type Service struct {
	users     store.Users
	tokens    *Issuer
	federated *FederatedVerifier
	mailer    Mailer

	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	now        func() time.Time
}

func NewService(users store.Users, tokens *Issuer, federated *FederatedVerifier, mailer Mailer) *Service {
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		federated:  federated,
		mailer:     mailer,
		BcryptCost: bcrypt.DefaultCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Tokens() *Issuer { return s.tokens }

// SignUp creates a password account.
func (s *Service) SignUp(ctx context.Context, username, email, password string) (*store.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	u := &store.User{
		UID:          uuid.NewString(),
		Name:         username,
		Email:        email,
		AuthProvider: store.ProviderPassword,
		PasswordHash: hash,
	}
	if _, err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	log.Info().Str("uid", u.UID).Msg("user signed up")
	return s.users.GetUser(ctx, u.UID)
}

// Login checks an email/password pair.
func (s *Service) Login(ctx context.Context, email, password string) (*store.User, error) {
	u, err := s.users.FindUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// SignInFederated verifies idToken and returns the matching user, creating it on first sign-in.
func (s *Service) SignInFederated(ctx context.Context, idToken string) (*store.User, error) {
	id, err := s.federated.Verify(idToken)
	if err != nil {
		return nil, err
	}
	created, err := s.users.CreateUser(ctx, &store.User{
		UID:          id.Subject,
		Name:         id.Name,
		Email:        normalizeEmail(id.Email),
		AuthProvider: id.Provider,
		PhotoURL:     id.Picture,
	})
	if err != nil {
		return nil, err
	}
	if created {
		log.Info().Str("uid", id.Subject).Str("provider", id.Provider).Msg("federated user created")
	}
	return s.users.GetUser(ctx, id.Subject)
}

// RequestReset mails a reset token when email belongs to an account.
// Unknown addresses succeed silently.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	u, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		log.Debug().Msg("password reset for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	var raw [32]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return err
	}
	token := hex.EncodeToString(raw[:])
	if err := s.users.SavePasswordReset(ctx, store.PasswordReset{
		TokenHash: hashToken(token),
		UID:       u.UID,
		ExpiresAt: s.now().Add(ResetTTL),
	}); err != nil {
		return fmt.Errorf("save reset: %w", err)
	}
	return s.mailer.SendPasswordReset(ctx, email, token)
}

// ConfirmReset consumes token and sets a new password.
func (s *Service) ConfirmReset(ctx context.Context, token, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	uid, err := s.users.ConsumePasswordReset(ctx, hashToken(token), s.now())
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrResetExpired) {
		return ErrResetInvalid
	}
	if err != nil {
		return err
	}
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	return s.users.SetPasswordHash(ctx, uid, hash)
}

// ProfileInput is a profile edit; nil or blank fields are left unchanged.
type ProfileInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	PhotoURL *string `json:"photoURL"`
}

func (s *Service) UpdateProfile(ctx context.Context, uid string, in ProfileInput) (*store.User, error) {
	var p store.ProfileUpdate
	if v, ok := present(in.Name); ok {
		if err := ValidateUsername(v); err != nil {
			return nil, err
		}
		p.Name = &v
	}
	if v, ok := present(in.Email); ok {
		v = normalizeEmail(v)
		if err := ValidateEmail(v); err != nil {
			return nil, err
		}
		p.Email = &v
	}
	if v, ok := present(in.PhotoURL); ok {
		if err := ValidatePhotoURL(v); err != nil {
			return nil, err
		}
		p.PhotoURL = &v
	}
	if err := s.users.UpdateProfile(ctx, uid, p); err != nil {
		return nil, err
	}
	return s.users.GetUser(ctx, uid)
}

func (s *Service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.BcryptCost)
	return string(b), err
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// present returns the trimmed value of p unless it is nil or blank.
func present(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	v := strings.TrimSpace(*p)
	return v, v != ""
}
