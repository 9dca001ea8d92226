package repo

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/crucial707/itemvault/internal/metrics"
	"github.com/crucial707/itemvault/internal/models"
	"github.com/crucial707/itemvault/internal/storage"
)

// ==========================
// UserRepo
// ==========================

// UserRepo is the credential store: an append-only set of (username, bcrypt
// hash) records persisted as one snapshot. Usernames are unique and
// case-sensitive; records are never mutated or deleted.
type UserRepo struct {
	Store storage.Snapshot
	Cost  int
}

// NewUserRepo creates a UserRepo. cost is the bcrypt work factor.
func NewUserRepo(store storage.Snapshot, cost int) *UserRepo {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserRepo{Store: store, Cost: cost}
}

// ==========================
// Register
// ==========================

// Register adds a user if the username is free and persists the whole
// collection. Returns ErrUserExists on a duplicate username.
func (r *UserRepo) Register(username, password string) (*models.User, error) {
	var users []models.User
	if err := r.Store.Load(&users); err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.Username == username {
			return nil, ErrUserExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.Cost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	users = append(users, user)

	if err := r.Store.Save(users); err != nil {
		return nil, err
	}
	metrics.IncSnapshotSave("users")

	return &user, nil
}

// ==========================
// Verify
// ==========================

// Verify checks username and password against the stored hash. Unknown
// username and wrong password both return ErrInvalidCredentials; bcrypt's
// comparison is constant-time, and the error never says which check failed.
func (r *UserRepo) Verify(username, password string) (*models.User, error) {
	var users []models.User
	if err := r.Store.Load(&users); err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Username != username {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(users[i].PasswordHash), []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
		return &users[i], nil
	}

	return nil, ErrInvalidCredentials
}
