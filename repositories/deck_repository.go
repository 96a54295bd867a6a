package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/commander-league/models"
)

var (
	ErrDeckNotFound       = errors.New("deck not found")
	ErrDeckMemberInvalid  = errors.New("deck owner does not exist")
	ErrDeckBudgetNegative = errors.New("deck budget would become negative")
	ErrDeckInvalid        = errors.New("deck violates a table constraint")
)

type DeckRepository interface {
	Create(ctx context.Context, exec SQLExecutor, deck *models.Deck) error
	AddCards(ctx context.Context, exec SQLExecutor, deckID int, cards []models.DeckCard) error
	GetByID(ctx context.Context, id int) (*models.Deck, error)
	ListCards(ctx context.Context, deckID int) ([]models.DeckCard, error)
	List(ctx context.Context, memberID *int) ([]models.Deck, error)
	Delete(ctx context.Context, id int) error
	AdjustBudget(ctx context.Context, exec SQLExecutor, deckID int, delta models.Money) error
}

type postgresDeckRepository struct {
	db *sql.DB
}

func NewPostgresDeckRepository(db *sql.DB) DeckRepository {
	return &postgresDeckRepository{db: db}
}

const deckColumns = `d.id, d.member_id, d.name, d.commander, d.budget_spent, d.source_site, d.source_id, d.precon_id, d.created_at,
	m.id, m.display_name, m.role, m.created_at`

func (r *postgresDeckRepository) Create(ctx context.Context, exec SQLExecutor, deck *models.Deck) error {
	query := `
		INSERT INTO decks (member_id, name, commander, budget_spent, source_site, source_id, precon_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		deck.MemberID,
		deck.Name,
		deck.Commander,
		deck.BudgetSpent,
		deck.SourceSite,
		deck.SourceID,
		deck.PreconID,
	).Scan(&deck.ID, &deck.CreatedAt)

	return r.handleDeckError(err)
}

// AddCards appends cards keeping their slice order as the deck order.
func (r *postgresDeckRepository) AddCards(ctx context.Context, exec SQLExecutor, deckID int, cards []models.DeckCard) error {
	if len(cards) == 0 {
		return nil
	}
	query := `
		INSERT INTO deck_cards (deck_id, position, name, quantity, is_commander, mana_cost, type_line, image_url, oracle_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	ex := executor(r.db, exec)
	for i := range cards {
		c := &cards[i]
		c.DeckID = deckID
		err := ex.QueryRowContext(ctx, query,
			deckID, i, c.Name, c.Quantity, c.IsCommander, c.ManaCost, c.TypeLine, c.ImageURL, c.OracleText,
		).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("failed to add card %q to deck %d: %w", c.Name, deckID, r.handleDeckError(err))
		}
	}
	return nil
}

func (r *postgresDeckRepository) GetByID(ctx context.Context, id int) (*models.Deck, error) {
	query := `SELECT ` + deckColumns + `
		FROM decks d
		JOIN members m ON m.id = d.member_id
		WHERE d.id = $1`

	deck, err := scanDeck(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to scan deck by id %d: %w", id, err)
	}
	return deck, nil
}

func (r *postgresDeckRepository) ListCards(ctx context.Context, deckID int) ([]models.DeckCard, error) {
	query := `
		SELECT id, deck_id, name, quantity, is_commander, mana_cost, type_line, image_url, oracle_text
		FROM deck_cards
		WHERE deck_id = $1
		ORDER BY position, id`

	rows, err := r.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards for deck %d: %w", deckID, err)
	}
	defer rows.Close()

	cards := make([]models.DeckCard, 0)
	for rows.Next() {
		var c models.DeckCard
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Name, &c.Quantity, &c.IsCommander,
			&c.ManaCost, &c.TypeLine, &c.ImageURL, &c.OracleText); err != nil {
			return nil, fmt.Errorf("failed to scan deck card row: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deck card rows: %w", err)
	}
	return cards, nil
}

// List returns all decks, or only memberID's when it is non-nil.
func (r *postgresDeckRepository) List(ctx context.Context, memberID *int) ([]models.Deck, error) {
	query := `SELECT ` + deckColumns + `
		FROM decks d
		JOIN members m ON m.id = d.member_id
		WHERE ($1::int IS NULL OR d.member_id = $1)
		ORDER BY d.created_at DESC, d.id DESC`

	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	decks := make([]models.Deck, 0)
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deck row: %w", err)
		}
		decks = append(decks, *deck)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deck rows: %w", err)
	}
	return decks, nil
}

func (r *postgresDeckRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deck %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrDeckNotFound)
}

// AdjustBudget adds delta (which may be negative) to budget_spent.
func (r *postgresDeckRepository) AdjustBudget(ctx context.Context, exec SQLExecutor, deckID int, delta models.Money) error {
	query := `UPDATE decks SET budget_spent = budget_spent + $1 WHERE id = $2`
	result, err := executor(r.db, exec).ExecContext(ctx, query, delta, deckID)
	if err != nil {
		if pqConstraint(err, pqCheckViolation) == "decks_budget_spent_check" {
			return ErrDeckBudgetNegative
		}
		return fmt.Errorf("failed to adjust budget of deck %d: %w", deckID, err)
	}
	return checkAffectedRows(result, ErrDeckNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDeck(row rowScanner) (*models.Deck, error) {
	var (
		deck  models.Deck
		owner models.Member
	)
	err := row.Scan(
		&deck.ID,
		&deck.MemberID,
		&deck.Name,
		&deck.Commander,
		&deck.BudgetSpent,
		&deck.SourceSite,
		&deck.SourceID,
		&deck.PreconID,
		&deck.CreatedAt,
		&owner.ID,
		&owner.DisplayName,
		&owner.Role,
		&owner.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	deck.Owner = &owner
	return &deck, nil
}

func (r *postgresDeckRepository) handleDeckError(err error) error {
	if err == nil {
		return nil
	}
	if c := pqConstraint(err, pqForeignKeyViolation); c != "" {
		switch c {
		case "decks_member_id_fkey":
			return ErrDeckMemberInvalid
		case "deck_cards_deck_id_fkey":
			return ErrDeckNotFound
		}
	}
	if pqConstraint(err, pqCheckViolation) != "" {
		return fmt.Errorf("%w: %v", ErrDeckInvalid, err)
	}
	return fmt.Errorf("deck query failed: %w", err)
}
