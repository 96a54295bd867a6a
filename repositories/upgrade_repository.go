package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/commander-league/models"
)

var (
	ErrUpgradeNotFound    = errors.New("upgrade not found")
	ErrUpgradeDeckInvalid = errors.New("upgrade deck does not exist")
	ErrUpgradeInvalid     = errors.New("upgrade violates a table constraint")
)

type UpgradeRepository interface {
	Create(ctx context.Context, exec SQLExecutor, upgrade *models.DeckUpgrade) error
	GetByID(ctx context.Context, id int) (*models.DeckUpgrade, error)
	ListByDeck(ctx context.Context, deckID int) ([]models.DeckUpgrade, error)
	ListAll(ctx context.Context) ([]models.DeckUpgrade, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresUpgradeRepository struct {
	db *sql.DB
}

func NewPostgresUpgradeRepository(db *sql.DB) UpgradeRepository {
	return &postgresUpgradeRepository{db: db}
}

const upgradeColumns = `id, deck_id, card_in, card_out, cost, month, note, created_at`

func (r *postgresUpgradeRepository) Create(ctx context.Context, exec SQLExecutor, upgrade *models.DeckUpgrade) error {
	query := `
		INSERT INTO deck_upgrades (deck_id, card_in, card_out, cost, month, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		upgrade.DeckID,
		upgrade.CardIn,
		upgrade.CardOut,
		upgrade.Cost,
		upgrade.Month,
		upgrade.Note,
	).Scan(&upgrade.ID, &upgrade.CreatedAt)

	if err != nil {
		if pqConstraint(err, pqForeignKeyViolation) == "deck_upgrades_deck_id_fkey" {
			return ErrUpgradeDeckInvalid
		}
		if pqConstraint(err, pqCheckViolation) != "" {
			return fmt.Errorf("%w: %v", ErrUpgradeInvalid, err)
		}
		return fmt.Errorf("failed to create upgrade: %w", err)
	}
	return nil
}

func (r *postgresUpgradeRepository) GetByID(ctx context.Context, id int) (*models.DeckUpgrade, error) {
	query := `SELECT ` + upgradeColumns + ` FROM deck_upgrades WHERE id = $1`

	var u models.DeckUpgrade
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.DeckID, &u.CardIn, &u.CardOut, &u.Cost, &u.Month, &u.Note, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUpgradeNotFound
		}
		return nil, fmt.Errorf("failed to scan upgrade by id %d: %w", id, err)
	}
	return &u, nil
}

func (r *postgresUpgradeRepository) ListByDeck(ctx context.Context, deckID int) ([]models.DeckUpgrade, error) {
	query := `SELECT ` + upgradeColumns + ` FROM deck_upgrades WHERE deck_id = $1 ORDER BY month, created_at, id`
	return r.list(ctx, query, deckID)
}

func (r *postgresUpgradeRepository) ListAll(ctx context.Context) ([]models.DeckUpgrade, error) {
	query := `SELECT ` + upgradeColumns + ` FROM deck_upgrades ORDER BY month, created_at, id`
	return r.list(ctx, query)
}

func (r *postgresUpgradeRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM deck_upgrades WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete upgrade %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrUpgradeNotFound)
}

func (r *postgresUpgradeRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.DeckUpgrade, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list upgrades: %w", err)
	}
	defer rows.Close()

	upgrades := make([]models.DeckUpgrade, 0)
	for rows.Next() {
		var u models.DeckUpgrade
		if err := rows.Scan(&u.ID, &u.DeckID, &u.CardIn, &u.CardOut, &u.Cost, &u.Month, &u.Note, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upgrade row: %w", err)
		}
		upgrades = append(upgrades, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating upgrade rows: %w", err)
	}
	return upgrades, nil
}
