package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/david/grant-matcher/internal/models"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const grantCols = `id, name, funder, description, category, apply_url, contact,
	deadline_type, deadline_date, amount_min, amount_max, eligibility, funds_for, created_at`

func scanGrant(scan func(dest ...interface{}) error) (models.GrantRecord, error) {
	var g models.GrantRecord
	var funder, description, category, applyURL, contact *string
	var deadlineType string
	var deadlineDate *time.Time
	var eligibilityRaw []byte

	err := scan(
		&g.ID, &g.Name, &funder, &description, &category, &applyURL, &contact,
		&deadlineType, &deadlineDate, &g.Amount.Min, &g.Amount.Max,
		&eligibilityRaw, &g.FundsFor, &g.CreatedAt,
	)
	if err != nil {
		return g, err
	}

	if funder != nil {
		g.Funder = *funder
	}
	if description != nil {
		g.Description = *description
	}
	if category != nil {
		g.Category = *category
	}
	if applyURL != nil {
		g.ApplyURL = *applyURL
	}
	if contact != nil {
		g.Contact = *contact
	}
	g.Deadline = models.Deadline{Type: models.DeadlineType(deadlineType), Date: deadlineDate}
	if len(eligibilityRaw) > 0 {
		if err := json.Unmarshal(eligibilityRaw, &g.Eligibility); err != nil {
			return g, fmt.Errorf("decode eligibility for %s: %w", g.ID, err)
		}
	}
	return g, nil
}

// ReplaceGrants swaps a user's grant catalog for a freshly ingested one.
// Uploads are whole-catalog replacements, so this runs in one transaction.
func (s *Store) ReplaceGrants(ctx context.Context, userID uuid.UUID, grants []models.GrantRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM grants WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("clear grants failed: %w", err)
	}

	for _, g := range grants {
		eligibility, err := json.Marshal(g.Eligibility)
		if err != nil {
			return fmt.Errorf("encode eligibility for %s: %w", g.Name, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO grants (id, user_id, name, funder, description, category, apply_url, contact,
				deadline_type, deadline_date, amount_min, amount_max, eligibility, funds_for, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`, g.ID, userID, g.Name, g.Funder, g.Description, g.Category, g.ApplyURL, g.Contact,
			string(g.Deadline.Type), g.Deadline.Date, g.Amount.Min, g.Amount.Max,
			eligibility, g.FundsFor, g.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert grant %s failed: %w", g.Name, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) ListGrants(ctx context.Context, userID uuid.UUID) ([]models.GrantRecord, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf("SELECT %s FROM grants WHERE user_id = $1 ORDER BY name", grantCols), userID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	grants := []models.GrantRecord{}
	for rows.Next() {
		g, err := scanGrant(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

func (s *Store) GetGrant(ctx context.Context, userID, grantID uuid.UUID) (*models.GrantRecord, error) {
	row := s.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM grants WHERE user_id = $1 AND id = $2", grantCols), userID, grantID)

	g, err := scanGrant(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("not found: %w", err)
	}
	return &g, nil
}

// UpdateGrantEmbedding stores the description embedding for semantic search.
func (s *Store) UpdateGrantEmbedding(ctx context.Context, grantID uuid.UUID, embedding []float32) error {
	_, err := s.pool.Exec(ctx, "UPDATE grants SET embedding = $1 WHERE id = $2",
		pgvector.NewVector(embedding), grantID)
	return err
}

// SearchGrantsByEmbedding returns the user's grants nearest to the query
// vector, best first. Grants without an embedding are excluded.
func (s *Store) SearchGrantsByEmbedding(ctx context.Context, userID uuid.UUID, query []float32, limit int) ([]models.GrantRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM grants
		WHERE user_id = $1 AND embedding IS NOT NULL
		ORDER BY embedding <=> $2
		LIMIT $3
	`, grantCols), userID, pgvector.NewVector(query), limit)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer rows.Close()

	grants := []models.GrantRecord{}
	for rows.Next() {
		g, err := scanGrant(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// SaveProfile upserts the user's organization profile as one document.
func (s *Store) SaveProfile(ctx context.Context, userID uuid.UUID, profile *models.OrganizationProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO profiles (user_id, profile, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET profile = EXCLUDED.profile, updated_at = NOW()
	`, userID, payload)
	return err
}

// GetProfile loads the user's profile. A missing row returns an empty
// profile, not an error: a new user simply has not answered anything yet.
func (s *Store) GetProfile(ctx context.Context, userID uuid.UUID) (*models.OrganizationProfile, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, "SELECT profile FROM profiles WHERE user_id = $1", userID).Scan(&payload)
	if err == pgx.ErrNoRows {
		return &models.OrganizationProfile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	var profile models.OrganizationProfile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

// SaveMatchRun persists a completed run as one document keyed by its RunID.
func (s *Store) SaveMatchRun(ctx context.Context, userID uuid.UUID, run *models.MatchRunResult) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO match_runs (id, user_id, result)
		VALUES ($1, $2, $3)
	`, run.RunID, userID, payload)
	return err
}

func (s *Store) GetMatchRun(ctx context.Context, userID, runID uuid.UUID) (*models.MatchRunResult, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		"SELECT result FROM match_runs WHERE user_id = $1 AND id = $2", userID, runID).Scan(&payload)
	if err != nil {
		return nil, fmt.Errorf("not found: %w", err)
	}

	var run models.MatchRunResult
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, fmt.Errorf("decode run: %w", err)
	}
	return &run, nil
}

// MatchRunSummary is one line of run history.
type MatchRunSummary struct {
	RunID          uuid.UUID `json:"run_id"`
	TotalEvaluated int       `json:"total_evaluated"`
	CreatedAt      time.Time `json:"created_at"`
}

func (s *Store) ListMatchRuns(ctx context.Context, userID uuid.UUID, limit int) ([]MatchRunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, (result->>'total_evaluated')::int, created_at
		FROM match_runs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var summaries []MatchRunSummary
	for rows.Next() {
		var s MatchRunSummary
		if err := rows.Scan(&s.RunID, &s.TotalEvaluated, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
