package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/connectorhq/authkit/pkg/pg"
)

const userColumns = `id, email, username, name, gender, status, profile_picture, bio, created_at, updated_at`

// PgUserDirectory is the PostgreSQL-backed user directory.
type PgUserDirectory struct {
	db *pgxpool.Pool
}

// NewPgUserDirectory creates a directory over the given pool.
func NewPgUserDirectory(db *pgxpool.Pool) *PgUserDirectory {
	return &PgUserDirectory{db: db}
}

func (d *PgUserDirectory) FindByEmail(ctx context.Context, email string) (*User, error) {
	return d.findBy(ctx, "email", email)
}

func (d *PgUserDirectory) FindByUsername(ctx context.Context, username string) (*User, error) {
	return d.findBy(ctx, "username", username)
}

func (d *PgUserDirectory) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return d.findBy(ctx, "id", id)
}

func (d *PgUserDirectory) findBy(ctx context.Context, column string, value any) (*User, error) {
	// column is one of the fixed callers above, never user input.
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, column)

	u := &User{}
	err := d.db.QueryRow(ctx, query, value).Scan(
		&u.ID, &u.Email, &u.Username, &u.Name, &u.Gender, &u.Status,
		&u.ProfilePicture, &u.Bio, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return u, nil
}

func (d *PgUserDirectory) Create(ctx context.Context, user *User) error {
	now := time.Now()
	_, err := d.db.Exec(ctx,
		`INSERT INTO users (id, email, username, name, gender, status, profile_picture, bio, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		user.ID, user.Email, user.Username, user.Name, user.Gender, user.Status,
		user.ProfilePicture, user.Bio, now, now,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}
