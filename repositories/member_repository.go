package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/commander-league/models"
)

var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberEmailConflict = errors.New("member email conflict")
)

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id int) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	List(ctx context.Context) ([]models.Member, error)
}

type postgresMemberRepository struct {
	db *sql.DB
}

func NewPostgresMemberRepository(db *sql.DB) MemberRepository {
	return &postgresMemberRepository{db: db}
}

func (r *postgresMemberRepository) Create(ctx context.Context, member *models.Member) error {
	query := `
		INSERT INTO members (display_name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		member.DisplayName,
		member.Email,
		member.PasswordHash,
		member.Role,
	).Scan(&member.ID, &member.CreatedAt)

	if err != nil {
		if pqConstraint(err, pqUniqueViolation) == "members_email_key" {
			return ErrMemberEmailConflict
		}
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

func (r *postgresMemberRepository) GetByID(ctx context.Context, id int) (*models.Member, error) {
	query := `
		SELECT id, display_name, email, password_hash, role, created_at
		FROM members
		WHERE id = $1`
	return r.scanMember(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMemberRepository) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	query := `
		SELECT id, display_name, email, password_hash, role, created_at
		FROM members
		WHERE email = $1`
	return r.scanMember(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresMemberRepository) List(ctx context.Context) ([]models.Member, error) {
	query := `
		SELECT id, display_name, email, password_hash, role, created_at
		FROM members
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := make([]models.Member, 0)
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.Email, &m.PasswordHash, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}
	return members, nil
}

func (r *postgresMemberRepository) scanMember(row *sql.Row) (*models.Member, error) {
	var m models.Member
	err := row.Scan(&m.ID, &m.DisplayName, &m.Email, &m.PasswordHash, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}
	return &m, nil
}
