package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"bouncer/internal/models"
)

// ErrDuplicateEmail reports the store's uniqueness constraint firing.
// Callers fold it into a success response; it never reaches the wire.
var ErrDuplicateEmail = errors.New("email already on waitlist")

type WaitlistRepository interface {
	Insert(ctx context.Context, entry *models.WaitlistEntry) error
	Count(ctx context.Context) (int64, error)
}

type waitlistRepository struct {
	DB *sql.DB
}

func NewWaitlistRepository(db *sql.DB) WaitlistRepository {
	return &waitlistRepository{DB: db}
}

func (r *waitlistRepository) Insert(ctx context.Context, entry *models.WaitlistEntry) error {
	const q = `
		INSERT INTO waitlist (email, email_hash, signup_ip_hash, user_agent)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.DB.QueryRowContext(ctx, q,
		entry.Email,
		entry.EmailHash,
		entry.SignupIPHash,
		entry.UserAgent,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *waitlistRepository) Count(ctx context.Context) (int64, error) {
	var c int64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM waitlist`).Scan(&c)
	return c, err
}

// 23505 = unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
