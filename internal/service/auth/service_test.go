package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	pkgauth "github.com/jwalitptl/salon-api/pkg/auth"
	"github.com/jwalitptl/salon-api/pkg/clock"
	"github.com/jwalitptl/salon-api/pkg/errors"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/security"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type storedToken struct {
	userID    uuid.UUID
	expiresAt time.Time
}

type fakeTokenRepo struct {
	now    func() time.Time
	tokens map[string]storedToken
}

func (r *fakeTokenRepo) StoreResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	r.tokens[tokenHash] = storedToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *fakeTokenRepo) ConsumeResetToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	tok, ok := r.tokens[tokenHash]
	if !ok || tok.expiresAt.Before(r.now()) {
		return uuid.Nil, repository.ErrNotFound
	}
	delete(r.tokens, tokenHash)
	return tok.userID, nil
}

type fakeEmail struct {
	resetURLs []string
	sent      []string
}

func (f *fakeEmail) Send(ctx context.Context, to, subject, htmlBody string) error {
	f.sent = append(f.sent, subject)
	return nil
}

func (f *fakeEmail) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	f.resetURLs = append(f.resetURLs, resetURL)
	return nil
}

func (f *fakeEmail) SendPasswordResetConfirmation(ctx context.Context, to string) error {
	f.sent = append(f.sent, "Password Reset Successful")
	return nil
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*Service, *fakeUserRepo, *fakeTokenRepo, *fakeEmail) {
	t.Helper()
	users := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	tokens := &fakeTokenRepo{now: func() time.Time { return testNow }, tokens: make(map[string]storedToken)}
	emails := &fakeEmail{}

	svc := NewService(
		users, tokens,
		pkgauth.NewJWTService("test-secret", time.Hour),
		security.NewBcryptHasher(4),
		emails,
		clock.Fixed(testNow),
		logger.NewLogger(nil),
		"http://localhost:3000/reset-password",
	)
	return svc, users, tokens, emails
}

func TestRegister(t *testing.T) {
	svc, _, _, _ := newService(t)

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		FirstName: "Casey",
		Email:     "casey@example.com",
		Password:  "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, resp.User.Role)
	assert.NotEmpty(t, resp.Token)
	assert.NotEqual(t, "secret1", resp.User.PasswordHash)

	// Duplicate email is a validation failure, not an internal error.
	_, err = svc.Register(context.Background(), &model.RegisterRequest{
		FirstName: "Other",
		Email:     "casey@example.com",
		Password:  "secret2",
	})
	assert.True(t, errors.IsKind(err, errors.KindValidation))

	// Admin accounts cannot be self-registered.
	_, err = svc.Register(context.Background(), &model.RegisterRequest{
		FirstName: "Mallory",
		Email:     "mallory@example.com",
		Password:  "secret1",
		Role:      "admin",
	})
	assert.True(t, errors.IsKind(err, errors.KindValidation))

	owner, err := svc.Register(context.Background(), &model.RegisterRequest{
		FirstName: "Olive",
		Email:     "olive@example.com",
		Password:  "secret1",
		Role:      "salon_owner",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleSalonOwner, owner.User.Role)
}

func TestLogin(t *testing.T) {
	svc, _, _, _ := newService(t)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		FirstName: "Casey",
		Email:     "casey@example.com",
		Password:  "secret1",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "casey@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "casey@example.com",
		Password: "wrong",
	})
	assert.True(t, errors.IsKind(err, errors.KindUnauthorized))

	// Unknown emails get the same error as bad passwords.
	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret1",
	})
	assert.True(t, errors.IsKind(err, errors.KindUnauthorized))
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, _, emails := newService(t)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		FirstName: "Casey",
		Email:     "casey@example.com",
		Password:  "secret1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(context.Background(), &model.ForgotPasswordRequest{
		Email: "casey@example.com",
	}))
	require.Len(t, emails.resetURLs, 1)

	// The plain token only ever appears in the emailed URL.
	parts := strings.SplitN(emails.resetURLs[0], "token=", 2)
	require.Len(t, parts, 2)
	plain := parts[1]

	require.NoError(t, svc.ResetPassword(context.Background(), &model.ResetPasswordRequest{
		Email:       "casey@example.com",
		Token:       plain,
		NewPassword: "newsecret",
	}))

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "casey@example.com",
		Password: "newsecret",
	})
	assert.NoError(t, err)

	// Tokens are single use.
	err = svc.ResetPassword(context.Background(), &model.ResetPasswordRequest{
		Email:       "casey@example.com",
		Token:       plain,
		NewPassword: "another",
	})
	assert.True(t, errors.IsKind(err, errors.KindValidation))
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	svc, _, _, emails := newService(t)

	assert.NoError(t, svc.ForgotPassword(context.Background(), &model.ForgotPasswordRequest{
		Email: "nobody@example.com",
	}))
	assert.Empty(t, emails.resetURLs)
}

func TestResetPasswordRejectsBadToken(t *testing.T) {
	svc, _, _, _ := newService(t)

	err := svc.ResetPassword(context.Background(), &model.ResetPasswordRequest{
		Email:       "casey@example.com",
		Token:       "bogus",
		NewPassword: "newsecret",
	})
	assert.True(t, errors.IsKind(err, errors.KindValidation))
}
