package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/thywordle/internal/store"
)

type captureMailer struct{ email, token string }

func (m *captureMailer) SendPasswordReset(_ context.Context, email, token string) error {
	m.email, m.token = email, token
	return nil
}

const fedSecret = "broker-secret"

func newTestService(t *testing.T) (*Service, *captureMailer, store.Users) {
	t.Helper()
	users := store.NewMemoryUsers()
	mail := &captureMailer{}
	svc := NewService(users, NewIssuer("test-secret", time.Hour), NewFederatedVerifier(fedSecret), mail)
	svc.BcryptCost = bcrypt.MinCost
	return svc, mail, users
}

func TestIssuerRoundTrip(t *testing.T) {
	iss := NewIssuer("k", time.Hour)
	tok, exp, err := iss.Sign("uid-1", "Ruth")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	c, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", c.UID)
	assert.Equal(t, "Ruth", c.Name)

	_, err = NewIssuer("other", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	iss.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = iss.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")
}

func TestSignUpAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	u, err := svc.SignUp(ctx, " Ruth ", "Ruth@Example.com", "moabite-1")
	require.NoError(t, err)
	assert.Equal(t, "Ruth", u.Name)
	assert.Equal(t, "ruth@example.com", u.Email)
	assert.Equal(t, store.ProviderPassword, u.AuthProvider)
	assert.NotEmpty(t, u.UID)

	_, err = svc.SignUp(ctx, "Naomi", "ruth@example.com", "moabite-1")
	assert.ErrorIs(t, err, store.ErrEmailTaken)

	got, err := svc.Login(ctx, "RUTH@example.com", "moabite-1")
	require.NoError(t, err)
	assert.Equal(t, u.UID, got.UID)

	_, err = svc.Login(ctx, "ruth@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "moabite-1")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestSignUpValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	var fe *FieldError
	_, err := svc.SignUp(ctx, "ab", "a@example.com", "longenough")
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "username", fe.Field)

	_, err = svc.SignUp(ctx, "abc", "not-an-email", "longenough")
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "email", fe.Field)

	_, err = svc.SignUp(ctx, "abc", "a@example.com", "short")
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "password", fe.Field)

	// bcrypt refuses anything past 72 bytes.
	_, err = svc.SignUp(ctx, "abc", "a@example.com", strings.Repeat("a", 73))
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "password", fe.Field)
	_, err = svc.SignUp(ctx, "abc", "a@example.com", strings.Repeat("a", 72))
	assert.NoError(t, err)
}

func TestSignInFederated(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestService(t)

	sign := func(secret string, claims jwt.MapClaims) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return tok
	}
	claims := jwt.MapClaims{
		"sub":     "google-123",
		"email":   "Lydia@Example.com",
		"name":    "Lydia",
		"picture": "https://example.com/l.png",
		"exp":     time.Now().Add(time.Minute).Unix(),
	}

	u, err := svc.SignInFederated(ctx, sign(fedSecret, claims))
	require.NoError(t, err)
	assert.Equal(t, "google-123", u.UID)
	assert.Equal(t, store.ProviderGoogle, u.AuthProvider)
	assert.Equal(t, "lydia@example.com", u.Email)

	// A second sign-in keeps the stored record.
	name := "Lydia of Thyatira"
	_, err = svc.UpdateProfile(ctx, u.UID, ProfileInput{Name: &name})
	require.NoError(t, err)
	u, err = svc.SignInFederated(ctx, sign(fedSecret, claims))
	require.NoError(t, err)
	assert.Equal(t, name, u.Name)

	_, err = svc.SignInFederated(ctx, sign("wrong", claims))
	assert.ErrorIs(t, err, ErrInvalidToken)

	delete(claims, "exp")
	_, err = svc.SignInFederated(ctx, sign(fedSecret, claims))
	assert.ErrorIs(t, err, ErrInvalidToken, "exp is required")

	disabled := NewService(users, NewIssuer("k", time.Hour), NewFederatedVerifier(""), nil)
	_, err = disabled.SignInFederated(ctx, "anything")
	assert.ErrorIs(t, err, ErrFederatedDisabled)
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	svc, mail, _ := newTestService(t)
	_, err := svc.SignUp(ctx, "Martha", "martha@example.com", "first-pass")
	require.NoError(t, err)

	require.NoError(t, svc.RequestReset(ctx, "nobody@example.com"))
	assert.Empty(t, mail.token, "unknown emails are accepted silently")

	require.NoError(t, svc.RequestReset(ctx, "MARTHA@example.com"))
	require.NotEmpty(t, mail.token)
	assert.Equal(t, "martha@example.com", mail.email)

	require.NoError(t, svc.ConfirmReset(ctx, mail.token, "second-pass"))
	assert.ErrorIs(t, svc.ConfirmReset(ctx, mail.token, "third-pass"), ErrResetInvalid)

	_, err = svc.Login(ctx, "martha@example.com", "second-pass")
	require.NoError(t, err)

	require.NoError(t, svc.RequestReset(ctx, "martha@example.com"))
	svc.now = func() time.Time { return time.Now().UTC().Add(2 * ResetTTL) }
	assert.ErrorIs(t, svc.ConfirmReset(ctx, mail.token, "third-pass"), ErrResetInvalid)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	u, err := svc.SignUp(ctx, "Mary", "mary@example.com", "magdala-1")
	require.NoError(t, err)

	blank, photo := "  ", "https://example.com/m.png"
	got, err := svc.UpdateProfile(ctx, u.UID, ProfileInput{Name: &blank, PhotoURL: &photo})
	require.NoError(t, err)
	assert.Equal(t, "Mary", got.Name, "blank fields are left unchanged")
	assert.Equal(t, photo, got.PhotoURL)

	bad := "ftp://example.com/x"
	_, err = svc.UpdateProfile(ctx, u.UID, ProfileInput{PhotoURL: &bad})
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "photoURL", fe.Field)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidateUsername("John_the Baptist"))
	assert.Error(t, ValidateUsername("this-name-has-dashes"))
	assert.Error(t, ValidateUsername("averylongusernameindeedyes"))
	assert.NoError(t, ValidatePhotoURL(""))
	assert.NoError(t, ValidatePhotoURL("http://example.com/p.jpg"))
	assert.Error(t, ValidatePhotoURL("example.com/p.jpg"))
	assert.NoError(t, ValidatePassword(strings.Repeat("é", 36)))
	assert.Error(t, ValidatePassword(strings.Repeat("é", 37)), "limit counts bytes")
	assert.NoError(t, ValidateEmail("a.b+c@example.org"))
	assert.Error(t, ValidateEmail("a@b"))
}
