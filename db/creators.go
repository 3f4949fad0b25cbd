// ABOUTME: Creator database operations
// ABOUTME: Handles CRUD, name lookups, and filtered listing of creators
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/stacked/models"
)

const creatorColumns = `id, name, email, phone, category, phase, phase_number, cards_sold, total_cards,
	card_price, days_in_phase, next_task, sales_velocity, avatar, bio, instagram, twitter, youtube,
	tiktok, launch_date, target_audience, content_plan, assets, created_at, last_updated`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCreator(row rowScanner) (*models.Creator, error) {
	var c models.Creator
	var assets string

	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Category, &c.Phase, &c.PhaseNumber, &c.CardsSold, &c.TotalCards,
		&c.CardPrice, &c.DaysInPhase, &c.NextTask, &c.SalesVelocity, &c.Avatar, &c.Bio,
		&c.SocialMedia.Instagram, &c.SocialMedia.Twitter, &c.SocialMedia.YouTube, &c.SocialMedia.TikTok,
		&c.Strategy.LaunchDate, &c.Strategy.TargetAudience, &c.Strategy.ContentPlan,
		&assets, &c.CreatedAt, &c.LastUpdated,
	)
	if err != nil {
		return nil, err
	}

	c.Assets = models.EmptyAssets()
	if assets != "" {
		if err := json.Unmarshal([]byte(assets), &c.Assets); err != nil {
			return nil, fmt.Errorf("failed to decode assets for creator %d: %w", c.ID, err)
		}
	}
	normalizeAssets(&c.Assets)

	return &c, nil
}

func normalizeAssets(a *models.Assets) {
	if a.ProfileImages == nil {
		a.ProfileImages = []string{}
	}
	if a.Videos == nil {
		a.Videos = []string{}
	}
	if a.PressKit == nil {
		a.PressKit = []string{}
	}
}

func creatorArgs(c *models.Creator) ([]any, error) {
	normalizeAssets(&c.Assets)
	assets, err := json.Marshal(c.Assets)
	if err != nil {
		return nil, fmt.Errorf("failed to encode assets: %w", err)
	}

	return []any{
		c.Name, c.Email, c.Phone, c.Category, c.Phase, c.PhaseNumber, c.CardsSold, c.TotalCards,
		c.CardPrice, c.DaysInPhase, c.NextTask, c.SalesVelocity, c.Avatar, c.Bio,
		c.SocialMedia.Instagram, c.SocialMedia.Twitter, c.SocialMedia.YouTube, c.SocialMedia.TikTok,
		c.Strategy.LaunchDate, c.Strategy.TargetAudience, c.Strategy.ContentPlan,
		string(assets), c.CreatedAt, c.LastUpdated,
	}, nil
}

// CreateCreator inserts a creator. A zero ID is assigned by the database;
// a non-zero ID is kept, which is how imported creators keep their derived id.
func CreateCreator(db *sql.DB, c *models.Creator) error {
	today := time.Now().Format(models.DateLayout)
	if c.CreatedAt == "" {
		c.CreatedAt = today
	}
	if c.LastUpdated == "" {
		c.LastUpdated = c.CreatedAt
	}
	if c.Phase == "" {
		c.Phase = models.PhaseLabel(c.PhaseNumber)
	}
	if c.SalesVelocity == "" {
		c.SalesVelocity = models.VelocityPending
	}

	if err := c.Validate(); err != nil {
		return err
	}

	args, err := creatorArgs(c)
	if err != nil {
		return err
	}

	var id any
	if c.ID != 0 {
		id = c.ID
	}

	res, err := db.Exec(`
		INSERT INTO creators (`+creatorColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to insert creator: %w", err)
	}

	if c.ID == 0 {
		newID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read creator id: %w", err)
		}
		c.ID = newID
	}

	return nil
}

func GetCreator(db *sql.DB, id int64) (*models.Creator, error) {
	c, err := scanCreator(db.QueryRow(`SELECT `+creatorColumns+` FROM creators WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// FindCreatorByName looks up a creator by exact name.
func FindCreatorByName(db *sql.DB, name string) (*models.Creator, error) {
	c, err := scanCreator(db.QueryRow(`SELECT `+creatorColumns+` FROM creators WHERE name = ?`, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCreators returns every creator ordered by id.
func ListCreators(db *sql.DB) ([]models.Creator, error) {
	rows, err := db.Query(`SELECT ` + creatorColumns + ` FROM creators ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list creators: %w", err)
	}
	return collectCreators(rows)
}

// FindCreators lists creators ordered by id, optionally filtered by a
// name/category search and a phase number.
func FindCreators(db *sql.DB, query string, phaseNumber *int, limit int) ([]models.Creator, error) {
	if limit <= 0 {
		limit = 50
	}

	var where []string
	var args []any

	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(category) LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if phaseNumber != nil {
		where = append(where, "phase_number = ?")
		args = append(args, *phaseNumber)
	}

	sqlQuery := `SELECT ` + creatorColumns + ` FROM creators`
	if len(where) > 0 {
		sqlQuery += " WHERE " + strings.Join(where, " AND ")
	}
	sqlQuery += " ORDER BY id LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	return collectCreators(rows)
}

func collectCreators(rows *sql.Rows) ([]models.Creator, error) {
	defer func() { _ = rows.Close() }()

	var creators []models.Creator
	for rows.Next() {
		c, err := scanCreator(rows)
		if err != nil {
			return nil, err
		}
		creators = append(creators, *c)
	}

	return creators, rows.Err()
}

// UpdateCreator stores every field of c under c.ID. LastUpdated is stored as given.
func UpdateCreator(db *sql.DB, c *models.Creator) error {
	if err := c.Validate(); err != nil {
		return err
	}

	args, err := creatorArgs(c)
	if err != nil {
		return err
	}

	res, err := db.Exec(`
		UPDATE creators SET
			name = ?, email = ?, phone = ?, category = ?, phase = ?, phase_number = ?, cards_sold = ?,
			total_cards = ?, card_price = ?, days_in_phase = ?, next_task = ?, sales_velocity = ?,
			avatar = ?, bio = ?, instagram = ?, twitter = ?, youtube = ?, tiktok = ?, launch_date = ?,
			target_audience = ?, content_plan = ?, assets = ?, created_at = ?, last_updated = ?
		WHERE id = ?
	`, append(args, c.ID)...)
	if err != nil {
		return fmt.Errorf("failed to update creator: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update creator: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("creator %d not found", c.ID)
	}

	return nil
}

func DeleteCreator(db *sql.DB, id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	// Drop import history pointing at this creator
	_, err = tx.Exec(`DELETE FROM sync_log WHERE entity_type = ? AND entity_id = ?`, EntityCreator, fmt.Sprint(id))
	if err != nil {
		return fmt.Errorf("failed to delete sync log: %w", err)
	}

	_, err = tx.Exec(`DELETE FROM creators WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete creator: %w", err)
	}

	return tx.Commit()
}
