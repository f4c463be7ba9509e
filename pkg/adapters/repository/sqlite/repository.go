package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

const dayLayout = "2006-01-02 15:04:05"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		display_name TEXT,
		bio TEXT,
		profile_image TEXT,
		password_hash TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		theme TEXT NOT NULL,
		button_style TEXT NOT NULL,
		font_style TEXT NOT NULL,
		background_color TEXT,
		background_image TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS social_links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		platform TEXT NOT NULL,
		url TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_social_links_user_id ON social_links(user_id);

	CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		position INTEGER NOT NULL,
		clicks INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_links_user_id ON links(user_id);

	CREATE TABLE IF NOT EXISTS link_clicks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		link_id TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(link_id) REFERENCES links(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_link_clicks_link_id ON link_clicks(link_id);

	CREATE TABLE IF NOT EXISTS page_visits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_page_visits_user_id ON page_visits(user_id);
	`
	_, err := db.Exec(query)
	return err
}

// --- Links ---

const linkColumns = `id, user_id, title, url, position, clicks, created_at, updated_at`

func scanLink(row interface{ Scan(...interface{}) error }) (*domain.Link, error) {
	var l domain.Link
	err := row.Scan(&l.ID, &l.UserID, &l.Title, &l.URL, &l.Position, &l.Clicks, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE user_id = ? ORDER BY position ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []domain.Link{}
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *l)
	}
	return links, rows.Err()
}

func (r *SQLiteRepository) GetByID(ctx context.Context, userID, linkID string) (*domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = ? AND user_id = ?`
	l, err := scanLink(r.db.QueryRowContext(ctx, query, linkID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("link %s not found", linkID)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, link *domain.Link) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Derive the position inside the transaction rather than trusting a
	// cached count, so a concurrent add cannot produce a duplicate rank.
	var position int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM links WHERE user_id = ?`,
		link.UserID).Scan(&position)
	if err != nil {
		return err
	}

	link.ID = uuid.NewString()
	link.Position = position
	_, err = tx.ExecContext(ctx,
		`INSERT INTO links (id, user_id, title, url, position, clicks, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		link.ID, link.UserID, link.Title, link.URL, link.Position, link.CreatedAt, link.UpdatedAt)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) Update(ctx context.Context, userID, linkID string, patch domain.LinkPatch, now time.Time) error {
	sets := []string{"updated_at = ?"}
	args := []interface{}{now}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.URL != nil {
		sets = append(sets, "url = ?")
		args = append(args, *patch.URL)
	}
	args = append(args, linkID, userID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE links SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`, args...)
	if err != nil {
		return err
	}
	return noRowsAsNotFound(res, "link %s not found", linkID)
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID, linkID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRowContext(ctx,
		`SELECT position FROM links WHERE id = ? AND user_id = ?`, linkID, userID).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundf("link %s not found", linkID)
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM links WHERE id = ? AND user_id = ?`, linkID, userID); err != nil {
		return err
	}

	// Close the rank gap so positions stay dense 0..n-1.
	if _, err := tx.ExecContext(ctx,
		`UPDATE links SET position = position - 1 WHERE user_id = ? AND position > ?`,
		userID, position); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) UpdatePosition(ctx context.Context, userID, linkID string, position int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE links SET position = ? WHERE id = ? AND user_id = ?`, position, linkID, userID)
	if err != nil {
		return err
	}
	return noRowsAsNotFound(res, "link %s not found", linkID)
}

// RecordClick inserts the click event and bumps the link's counter in one
// transaction; the links.clicks column is the authoritative count.
func (r *SQLiteRepository) RecordClick(ctx context.Context, linkID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE links SET clicks = clicks + 1 WHERE id = ?`, linkID)
	if err != nil {
		return err
	}
	if err := noRowsAsNotFound(res, "link %s not found", linkID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO link_clicks (link_id, created_at) VALUES (?, ?)`,
		linkID, time.Now().UTC().Format(dayLayout))
	if err != nil {
		return err
	}
	return tx.Commit()
}

// --- Visits & aggregation ---

func (r *SQLiteRepository) InsertVisit(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO page_visits (user_id, created_at) VALUES (?, ?)`,
		userID, at.UTC().Format(dayLayout))
	return err
}

func (r *SQLiteRepository) TotalVisits(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM page_visits WHERE user_id = ?`, userID).Scan(&total)
	return total, err
}

func (r *SQLiteRepository) VisitsByDay(ctx context.Context, userID string) ([]domain.DayCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m-%d', created_at) AS day, COUNT(*)
		FROM page_visits
		WHERE user_id = ?
		GROUP BY day
		ORDER BY day ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.DayCount{}
	for rows.Next() {
		var dc domain.DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ClicksByLink(ctx context.Context, userID string) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, clicks FROM links WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var id string
		var clicks int64
		if err := rows.Scan(&id, &clicks); err != nil {
			return nil, err
		}
		out[id] = clicks
	}
	return out, rows.Err()
}

// --- Profiles ---

func (r *SQLiteRepository) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, theme, button_style, font_style, background_color, background_image, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.UserID, profile.Theme, profile.ButtonStyle, profile.FontStyle,
		nullable(profile.BackgroundColor), nullable(profile.BackgroundImage),
		profile.CreatedAt, profile.UpdatedAt)
	return err
}

func (r *SQLiteRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	var bgColor, bgImage sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, theme, button_style, font_style, background_color, background_image, created_at, updated_at
		 FROM profiles WHERE user_id = ?`, userID).Scan(
		&p.UserID, &p.Theme, &p.ButtonStyle, &p.FontStyle, &bgColor, &bgImage, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("profile for user %s not found", userID)
	}
	if err != nil {
		return nil, err
	}
	p.BackgroundColor = bgColor.String
	p.BackgroundImage = bgImage.String

	rows, err := r.db.QueryContext(ctx,
		`SELECT platform, url FROM social_links WHERE user_id = ? ORDER BY position ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	p.SocialLinks = []domain.SocialLink{}
	for rows.Next() {
		var sl domain.SocialLink
		if err := rows.Scan(&sl.Platform, &sl.URL); err != nil {
			return nil, err
		}
		p.SocialLinks = append(p.SocialLinks, sl)
	}
	return &p, rows.Err()
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch, now time.Time) error {
	sets := []string{"updated_at = ?"}
	args := []interface{}{now}
	if patch.Theme != nil {
		sets = append(sets, "theme = ?")
		args = append(args, *patch.Theme)
	}
	if patch.ButtonStyle != nil {
		sets = append(sets, "button_style = ?")
		args = append(args, *patch.ButtonStyle)
	}
	if patch.FontStyle != nil {
		sets = append(sets, "font_style = ?")
		args = append(args, *patch.FontStyle)
	}
	if patch.BackgroundColor != nil {
		sets = append(sets, "background_color = ?")
		args = append(args, nullable(*patch.BackgroundColor))
	}
	if patch.BackgroundImage != nil {
		sets = append(sets, "background_image = ?")
		args = append(args, nullable(*patch.BackgroundImage))
	}
	args = append(args, userID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET `+strings.Join(sets, ", ")+` WHERE user_id = ?`, args...)
	if err != nil {
		return err
	}
	return noRowsAsNotFound(res, "profile for user %s not found", userID)
}

func (r *SQLiteRepository) ReplaceSocialLinks(ctx context.Context, userID string, links []domain.SocialLink) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM social_links WHERE user_id = ?`, userID); err != nil {
		return err
	}
	for i, sl := range links {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO social_links (user_id, platform, url, position) VALUES (?, ?, ?, ?)`,
			userID, sl.Platform, sl.URL, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// --- Users ---

const userColumns = `id, username, email, display_name, bio, profile_image, password_hash, created_at, updated_at`

func (r *SQLiteRepository) CreateUser(ctx context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, display_name, bio, profile_image, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email,
		nullable(user.DisplayName), nullable(user.Bio), nullable(user.ProfileImage),
		nullable(user.PasswordHash), user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *SQLiteRepository) getUser(ctx context.Context, where, arg string) (*domain.User, error) {
	var u domain.User
	var displayName, bio, image, hash sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where+` = ?`, arg).Scan(
		&u.ID, &u.Username, &u.Email, &displayName, &bio, &image, &hash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("user not found")
	}
	if err != nil {
		return nil, err
	}
	u.DisplayName = displayName.String
	u.Bio = bio.String
	u.ProfileImage = image.String
	u.PasswordHash = hash.String
	return &u, nil
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getUser(ctx, "id", id)
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, "email", email)
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUser(ctx, "username", username)
}

// --- helpers ---

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func noRowsAsNotFound(res sql.Result, format, arg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf(format, arg)
	}
	return nil
}

// Ensure interface compliance
var (
	_ ports.LinkRepository    = (*SQLiteRepository)(nil)
	_ ports.ClickRecorder     = (*SQLiteRepository)(nil)
	_ ports.VisitRepository   = (*SQLiteRepository)(nil)
	_ ports.ProfileRepository = (*SQLiteRepository)(nil)
	_ ports.UserRepository    = (*SQLiteRepository)(nil)
)
