// Package reviewers stores the accounts allowed to change the club
// vocabulary and decide review tickets.
package reviewers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"archery-results/models"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 14

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("reviewer email already exists")
)

type Repository interface {
	Create(ctx context.Context, email, password string) (models.Reviewer, error)
	Authenticate(ctx context.Context, email, password string) (models.Reviewer, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ Repository = (*PostgresRepository)(nil)

func (r *PostgresRepository) Create(ctx context.Context, email, password string) (models.Reviewer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.Reviewer{}, fmt.Errorf("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.Reviewer{}, fmt.Errorf("hash password: %w", err)
	}

	reviewer := models.Reviewer{Email: email, PasswordHash: string(hash)}
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO reviewers (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, email, reviewer.PasswordHash).Scan(&reviewer.ID, &reviewer.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.Reviewer{}, ErrEmailTaken
		}
		return models.Reviewer{}, fmt.Errorf("insert reviewer: %w", err)
	}
	return reviewer, nil
}

// Authenticate returns the reviewer when password matches. Unknown e-mail
// and wrong password both yield ErrInvalidCredentials.
func (r *PostgresRepository) Authenticate(ctx context.Context, email, password string) (models.Reviewer, error) {
	var reviewer models.Reviewer
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM reviewers
		WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email))).Scan(&reviewer.ID, &reviewer.Email, &reviewer.PasswordHash, &reviewer.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Reviewer{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Reviewer{}, fmt.Errorf("load reviewer: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(reviewer.PasswordHash), []byte(password)) != nil {
		return models.Reviewer{}, ErrInvalidCredentials
	}
	return reviewer, nil
}
