package users

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// mockUserStore implements Store for testing
type mockUserStore struct {
	byID    map[string]*User
	byEmail map[string]*User
	seq     int
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{byID: map[string]*User{}, byEmail: map[string]*User{}}
}

func (m *mockUserStore) Create(_ context.Context, u *User) (*User, error) {
	cp := *u
	m.seq++
	cp.ID = "u" + strconv.Itoa(m.seq)
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	m.byID[cp.ID] = &cp
	m.byEmail[cp.Email] = &cp
	return &cp, nil
}

func (m *mockUserStore) FindByID(_ context.Context, id string) (*User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func newAuthService(store Store) *AuthService {
	return &AuthService{
		Users:    store,
		Secret:   []byte("test-secret"),
		TokenTTL: time.Hour,
		Log:      zap.NewNop(),
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	store := newMockUserStore()
	svc := newAuthService(store)

	u, err := svc.Register(context.Background(), RegisterInput{
		Email:     "Client@Example.com",
		Password:  "secret123",
		FirstName: "Ana",
		LastName:  "Lima",
	})

	require.NoError(t, err)
	assert.Equal(t, "client@example.com", u.Email)
	assert.Equal(t, RoleClient, u.Role)
	assert.NotEqual(t, "secret123", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")))
}

func TestRegister_Validation(t *testing.T) {
	svc := newAuthService(newMockUserStore())

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"bad email", RegisterInput{Email: "nope", Password: "secret123", FirstName: "Ana", LastName: "Lima"}},
		{"short password", RegisterInput{Email: "a@b.com", Password: "123", FirstName: "Ana", LastName: "Lima"}},
		{"short first name", RegisterInput{Email: "a@b.com", Password: "secret123", FirstName: "A", LastName: "Lima"}},
		{"bad role", RegisterInput{Email: "a@b.com", Password: "secret123", FirstName: "Ana", LastName: "Lima", Role: "ROOT"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.in)
			assert.ErrorIs(t, err, ErrInvalidUser)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newMockUserStore()
	svc := newAuthService(store)

	in := RegisterInput{Email: "a@b.com", Password: "secret123", FirstName: "Ana", LastName: "Lima"}
	_, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_TokenRoundTrip(t *testing.T) {
	store := newMockUserStore()
	svc := newAuthService(store)

	u, err := svc.Register(context.Background(), RegisterInput{
		Email: "a@b.com", Password: "secret123", FirstName: "Ana", LastName: "Lima",
	})
	require.NoError(t, err)

	token, got, err := svc.Login(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, string(RoleClient), claims.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	store := newMockUserStore()
	svc := newAuthService(store)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "a@b.com", Password: "secret123", FirstName: "Ana", LastName: "Lima",
	})
	require.NoError(t, err)

	// password salah dan user tidak ada menghasilkan error yang sama
	_, _, errWrongPass := svc.Login(context.Background(), "a@b.com", "wrong")
	_, _, errNoUser := svc.Login(context.Background(), "ghost@b.com", "secret123")

	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, ErrInvalidCredentials)
}

func TestParseToken_Garbage(t *testing.T) {
	svc := newAuthService(newMockUserStore())

	_, err := svc.ParseToken("not-a-token")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	store := newMockUserStore()
	svc := newAuthService(store)

	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin@b.com", "secret123"))
	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin@b.com", "secret123"))

	u, err := store.FindByEmail(context.Background(), "admin@b.com")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.Len(t, store.byID, 1)
}
