package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"messenger-backend/internal/models"
)

var (
	ErrDuplicateEmail = errors.New("email already in use")
	ErrUserNotFound   = errors.New("user not found")
)

const uniqueViolation = "23505"

// UserRepository abstracts the user directory.
type UserRepository interface {
	CreateUser(ctx context.Context, email, passwordHash, name string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetUser(ctx context.Context, userID int) (models.User, error)
	MarkOnline(ctx context.Context, userID int) error
	GetLastSeen(ctx context.Context, userID int) (time.Time, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// NormalizeEmail lower-cases and trims an email before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser inserts a new account. The unique index on email makes the
// duplicate check atomic under concurrent registrations.
func (r *UserRepo) CreateUser(ctx context.Context, email, passwordHash, name string) (models.User, error) {
	var user models.User
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (email, password_hash, name) VALUES ($1, $2, $3)
         RETURNING id, email, password_hash, name, avatar_url, is_online, last_seen`,
		NormalizeEmail(email), passwordHash, name).StructScan(&user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return user, nil
}

// FindByEmail looks up a user by normalized email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, email, password_hash, name, avatar_url, is_online, last_seen FROM users WHERE email=$1`,
		NormalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetUser fetches a user by id.
func (r *UserRepo) GetUser(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, email, password_hash, name, avatar_url, is_online, last_seen FROM users WHERE id=$1`,
		userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// MarkOnline flags the user online and stamps last_seen. Called after a
// successful login.
func (r *UserRepo) MarkOnline(ctx context.Context, userID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_online = TRUE, last_seen = NOW() WHERE id=$1`, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetLastSeen returns the user's last-seen time, or the Unix epoch if the
// user has never been seen.
func (r *UserRepo) GetLastSeen(ctx context.Context, userID int) (time.Time, error) {
	user, err := r.GetUser(ctx, userID)
	if err != nil {
		return time.Time{}, err
	}
	return user.LastSeenOrEpoch(), nil
}
