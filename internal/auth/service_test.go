package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/adverra/backoffice/internal/auth"
)

// --- Mock Repository ---

type mockUserRepo struct {
	createFn       func(ctx context.Context, user *auth.User) error
	getByIDFn      func(ctx context.Context, id uuid.UUID) (*auth.User, error)
	findByPrefixFn func(ctx context.Context, prefix string) ([]auth.User, error)
	listFn         func(ctx context.Context) ([]auth.User, error)
	revokeFn       func(ctx context.Context, id uuid.UUID) error
	countAllFn     func(ctx context.Context) (int, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *auth.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = uuid.New()
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, auth.ErrUserNotFound
}

func (m *mockUserRepo) FindByPrefix(ctx context.Context, prefix string) ([]auth.User, error) {
	if m.findByPrefixFn != nil {
		return m.findByPrefixFn(ctx, prefix)
	}
	return nil, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]auth.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []auth.User{}, nil
}

func (m *mockUserRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	if m.revokeFn != nil {
		return m.revokeFn(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) CountAll(ctx context.Context) (int, error) {
	if m.countAllFn != nil {
		return m.countAllFn(ctx)
	}
	return 0, nil
}

// Low cost keeps bcrypt fast in tests.
const testBcryptCost = bcrypt.MinCost

func TestGenerateKey_Format(t *testing.T) {
	t.Parallel()

	svc := auth.NewService(&mockUserRepo{}, testBcryptCost)

	rawKey, prefix, hash, err := svc.GenerateKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rawKey, "bo_"))
	assert.Equal(t, rawKey[:8], prefix)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(rawKey)))
}

func TestGenerateKey_Unique(t *testing.T) {
	t.Parallel()

	svc := auth.NewService(&mockUserRepo{}, testBcryptCost)

	k1, _, _, err := svc.GenerateKey()
	require.NoError(t, err)
	k2, _, _, err := svc.GenerateKey()
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2)
}

func TestAuthenticate_Success(t *testing.T) {
	t.Parallel()

	svc := auth.NewService(nil, testBcryptCost)
	rawKey, prefix, hash, err := svc.GenerateKey()
	require.NoError(t, err)

	userID := uuid.New()
	repo := &mockUserRepo{
		findByPrefixFn: func(_ context.Context, p string) ([]auth.User, error) {
			assert.Equal(t, prefix, p)
			return []auth.User{{
				ID:           userID,
				Name:         "alice",
				Role:         auth.RoleSales,
				ApiKeyPrefix: prefix,
				ApiKeyHash:   hash,
			}}, nil
		},
	}
	svc = auth.NewService(repo, testBcryptCost)

	identity, err := svc.Authenticate(context.Background(), rawKey)
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, "alice", identity.UserName)
	assert.Equal(t, auth.RoleSales, identity.Role)
	assert.False(t, identity.IsAdmin())
}

func TestAuthenticate_WrongKey(t *testing.T) {
	t.Parallel()

	svc := auth.NewService(nil, testBcryptCost)
	rawKey, prefix, hash, err := svc.GenerateKey()
	require.NoError(t, err)

	repo := &mockUserRepo{
		findByPrefixFn: func(_ context.Context, _ string) ([]auth.User, error) {
			return []auth.User{{ID: uuid.New(), ApiKeyPrefix: prefix, ApiKeyHash: hash}}, nil
		},
	}
	svc = auth.NewService(repo, testBcryptCost)

	_, err = svc.Authenticate(context.Background(), rawKey[:len(rawKey)-1]+"X")
	assert.ErrorIs(t, err, auth.ErrInvalidKey)
}

func TestAuthenticate_TooShort(t *testing.T) {
	t.Parallel()

	svc := auth.NewService(&mockUserRepo{}, testBcryptCost)

	_, err := svc.Authenticate(context.Background(), "bo_x")
	assert.ErrorIs(t, err, auth.ErrInvalidKey)
}

func TestAuthenticate_NoCandidates(t *testing.T) {
	t.Parallel()

	svc := auth.NewService(&mockUserRepo{}, testBcryptCost)

	_, err := svc.Authenticate(context.Background(), "bo_doesnotexist")
	assert.ErrorIs(t, err, auth.ErrInvalidKey)
}

func TestBootstrapAdmin_CreatesWhenEmpty(t *testing.T) {
	t.Parallel()

	var created *auth.User
	repo := &mockUserRepo{
		countAllFn: func(_ context.Context) (int, error) { return 0, nil },
		createFn: func(_ context.Context, u *auth.User) error {
			u.ID = uuid.New()
			created = u
			return nil
		},
	}
	svc := auth.NewService(repo, testBcryptCost)

	rawKey, err := svc.BootstrapAdmin(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, rawKey)

	require.NotNil(t, created)
	assert.Equal(t, "admin", created.Name)
	assert.Equal(t, auth.RoleAdmin, created.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.ApiKeyHash), []byte(rawKey)))
}

func TestBootstrapAdmin_SkipsWhenUsersExist(t *testing.T) {
	t.Parallel()

	createCalled := false
	repo := &mockUserRepo{
		countAllFn: func(_ context.Context) (int, error) { return 3, nil },
		createFn: func(_ context.Context, _ *auth.User) error {
			createCalled = true
			return nil
		},
	}
	svc := auth.NewService(repo, testBcryptCost)

	rawKey, err := svc.BootstrapAdmin(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rawKey)
	assert.False(t, createCalled)
}
