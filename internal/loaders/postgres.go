package loaders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresClient struct {
	dsn  string
	pool *pgxpool.Pool
}

// ErrDuplicatePhone is returned when a contact insert hits the unique phone key.
var ErrDuplicatePhone = errors.New("phone already registered")

// ConversationRecord represents a row in the conversations table.
type ConversationRecord struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ConversationSummary is a conversation plus its most recent message, used by
// the dashboard list endpoint.
type ConversationSummary struct {
	ConversationRecord
	Messages []MessageRecord `json:"messages"`
}

// MessageRecord represents a row in the messages table.
type MessageRecord struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Content        string    `json:"content"`
	FromMe         bool      `json:"fromMe"`
	Type           string    `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
}

// ContactRecord represents a row in the contacts table.
type ContactRecord struct {
	Phone         string   `json:"phone"`
	Name          string   `json:"name"`
	ProfilePicURL *string  `json:"profilePicUrl"`
	Email         *string  `json:"email"`
	Tags          []string `json:"tags"`
}

// AppointmentRecord represents a row in the appointments table.
type AppointmentRecord struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Client    string    `json:"client"`
	Service   string    `json:"service"`
	Date      string    `json:"date"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewPostgresClient(dsn string) (*PostgresClient, error) {
	client := &PostgresClient{
		dsn: dsn,
	}

	pool, err := client.createConnectionPool()
	if err != nil {
		return nil, err
	}

	client.pool = pool

	if err := client.initSchema(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}

	log.Println("Successfully connected to PostgreSQL database with connection pool")
	return client, nil
}

func (c *PostgresClient) createConnectionPool() (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(c.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Postgres DSN: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.MaxConnLifetime = 60 * time.Minute
	cfg.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	return pool, nil
}

func (c *PostgresClient) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id UUID PRIMARY KEY,
			phone TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY,
			conversation_id UUID NOT NULL REFERENCES conversations(id),
			content TEXT NOT NULL,
			from_me BOOLEAN NOT NULL DEFAULT false,
			type TEXT NOT NULL DEFAULT 'text',
			"timestamp" TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation_ts
			ON messages (conversation_id, "timestamp" DESC)`,
		`CREATE TABLE IF NOT EXISTS contacts (
			phone TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			profile_pic_url TEXT,
			email TEXT,
			tags JSONB NOT NULL DEFAULT '[]'
		)`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id UUID PRIMARY KEY,
			phone TEXT NOT NULL,
			client TEXT NOT NULL,
			service TEXT NOT NULL,
			date TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS system_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := c.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.pool != nil {
		c.pool.Close()
	}
	return nil
}

func (c *PostgresClient) GetPool() *pgxpool.Pool {
	return c.pool
}

// UpsertConversation finds the conversation for a canonical phone, creating it
// with status=active when absent and bumping updated_at otherwise. The single
// ON CONFLICT statement keeps concurrent webhooks for the same phone from
// racing into duplicate rows.
func (c *PostgresClient) UpsertConversation(ctx context.Context, phone, name string) (*ConversationRecord, error) {
	row := c.pool.QueryRow(ctx, `
		INSERT INTO conversations (id, phone, name, status)
		VALUES ($1, $2, $3, 'active')
		ON CONFLICT (phone) DO UPDATE SET updated_at = now()
		RETURNING id, phone, name, status, created_at, updated_at`,
		uuid.New().String(), phone, name)

	var conv ConversationRecord
	if err := row.Scan(&conv.ID, &conv.Phone, &conv.Name, &conv.Status, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to upsert conversation: %w", err)
	}
	return &conv, nil
}

func (c *PostgresClient) GetConversationByPhone(ctx context.Context, phone string) (*ConversationRecord, error) {
	row := c.pool.QueryRow(ctx, `
		SELECT id, phone, name, status, created_at, updated_at
		FROM conversations WHERE phone = $1`, phone)

	var conv ConversationRecord
	if err := row.Scan(&conv.ID, &conv.Phone, &conv.Name, &conv.Status, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &conv, nil
}

func (c *PostgresClient) ListConversations(ctx context.Context) ([]ConversationSummary, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT c.id, c.phone, c.name, c.status, c.created_at, c.updated_at,
		       m.id, m.conversation_id, m.content, m.from_me, m.type, m."timestamp"
		FROM conversations c
		LEFT JOIN LATERAL (
			SELECT id, conversation_id, content, from_me, type, "timestamp"
			FROM messages WHERE conversation_id = c.id
			ORDER BY "timestamp" DESC LIMIT 1
		) m ON true
		ORDER BY c.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	summaries := []ConversationSummary{}
	for rows.Next() {
		var s ConversationSummary
		var msgID, msgConvID, msgContent, msgType *string
		var msgFromMe *bool
		var msgTS *time.Time
		if err := rows.Scan(&s.ID, &s.Phone, &s.Name, &s.Status, &s.CreatedAt, &s.UpdatedAt,
			&msgID, &msgConvID, &msgContent, &msgFromMe, &msgType, &msgTS); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		s.Messages = []MessageRecord{}
		if msgID != nil {
			s.Messages = append(s.Messages, MessageRecord{
				ID:             *msgID,
				ConversationID: *msgConvID,
				Content:        *msgContent,
				FromMe:         *msgFromMe,
				Type:           *msgType,
				Timestamp:      *msgTS,
			})
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (c *PostgresClient) UpdateConversationStatus(ctx context.Context, phone, status string) (*ConversationRecord, error) {
	row := c.pool.QueryRow(ctx, `
		UPDATE conversations SET status = $2, updated_at = now()
		WHERE phone = $1
		RETURNING id, phone, name, status, created_at, updated_at`, phone, status)

	var conv ConversationRecord
	if err := row.Scan(&conv.ID, &conv.Phone, &conv.Name, &conv.Status, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update conversation status: %w", err)
	}
	return &conv, nil
}

func (c *PostgresClient) InsertMessage(ctx context.Context, conversationID, content string, fromMe bool) (*MessageRecord, error) {
	row := c.pool.QueryRow(ctx, `
		INSERT INTO messages (id, conversation_id, content, from_me, type)
		VALUES ($1, $2, $3, $4, 'text')
		RETURNING id, conversation_id, content, from_me, type, "timestamp"`,
		uuid.New().String(), conversationID, content, fromMe)

	var msg MessageRecord
	if err := row.Scan(&msg.ID, &msg.ConversationID, &msg.Content, &msg.FromMe, &msg.Type, &msg.Timestamp); err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	return &msg, nil
}

// RecentMessages returns the latest messages newest-first. Callers reverse the
// slice when chronological order is needed.
func (c *PostgresClient) RecentMessages(ctx context.Context, conversationID string, limit int) ([]MessageRecord, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT id, conversation_id, content, from_me, type, "timestamp"
		FROM messages WHERE conversation_id = $1
		ORDER BY "timestamp" DESC LIMIT $2`, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (c *PostgresClient) MessagesByConversation(ctx context.Context, conversationID string) ([]MessageRecord, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT id, conversation_id, content, from_me, type, "timestamp"
		FROM messages WHERE conversation_id = $1
		ORDER BY "timestamp" ASC`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

// MessageTimestampsSince returns message timestamps newer than the cutoff,
// used by the activity stats endpoint.
func (c *PostgresClient) MessageTimestampsSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT "timestamp" FROM messages WHERE "timestamp" >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message timestamps: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("failed to scan timestamp: %w", err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

func scanMessages(rows pgx.Rows) ([]MessageRecord, error) {
	msgs := []MessageRecord{}
	for rows.Next() {
		var msg MessageRecord
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Content, &msg.FromMe, &msg.Type, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (c *PostgresClient) UpsertContact(ctx context.Context, phone, name string, profilePicURL *string) error {
	_, err := c.pool.Exec(ctx, `
		INSERT INTO contacts (phone, name, profile_pic_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (phone) DO UPDATE SET name = EXCLUDED.name, profile_pic_url = EXCLUDED.profile_pic_url`,
		phone, name, profilePicURL)
	if err != nil {
		return fmt.Errorf("failed to upsert contact: %w", err)
	}
	return nil
}

func (c *PostgresClient) CreateContact(ctx context.Context, contact *ContactRecord) error {
	tags := contact.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to encode contact tags: %w", err)
	}
	_, err = c.pool.Exec(ctx, `
		INSERT INTO contacts (phone, name, profile_pic_url, email, tags)
		VALUES ($1, $2, $3, $4, $5::jsonb)`,
		contact.Phone, contact.Name, contact.ProfilePicURL, contact.Email, string(tagsJSON))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicatePhone
		}
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (c *PostgresClient) ListContacts(ctx context.Context) ([]ContactRecord, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT phone, name, profile_pic_url, email, tags
		FROM contacts ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []ContactRecord{}
	for rows.Next() {
		var contact ContactRecord
		var tagsJSON []byte
		if err := rows.Scan(&contact.Phone, &contact.Name, &contact.ProfilePicURL, &contact.Email, &tagsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		if err := json.Unmarshal(tagsJSON, &contact.Tags); err != nil {
			contact.Tags = []string{}
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}

func (c *PostgresClient) DeleteContact(ctx context.Context, phone string) error {
	_, err := c.pool.Exec(ctx, `DELETE FROM contacts WHERE phone = $1`, phone)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}

func (c *PostgresClient) CreateAppointment(ctx context.Context, phone, client, service, date string) (*AppointmentRecord, error) {
	row := c.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, phone, client, service, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, phone, client, service, date, completed, created_at`,
		uuid.New().String(), phone, client, service, date)

	var appt AppointmentRecord
	if err := row.Scan(&appt.ID, &appt.Phone, &appt.Client, &appt.Service, &appt.Date, &appt.Completed, &appt.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return &appt, nil
}

func (c *PostgresClient) ListAppointments(ctx context.Context, limit int) ([]AppointmentRecord, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT id, phone, client, service, date, completed, created_at
		FROM appointments ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	appts := []AppointmentRecord{}
	for rows.Next() {
		var appt AppointmentRecord
		if err := rows.Scan(&appt.ID, &appt.Phone, &appt.Client, &appt.Service, &appt.Date, &appt.Completed, &appt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appts = append(appts, appt)
	}
	return appts, rows.Err()
}

func (c *PostgresClient) SetAppointmentCompleted(ctx context.Context, id string, completed bool) (*AppointmentRecord, error) {
	row := c.pool.QueryRow(ctx, `
		UPDATE appointments SET completed = $2 WHERE id = $1
		RETURNING id, phone, client, service, date, completed, created_at`, id, completed)

	var appt AppointmentRecord
	if err := row.Scan(&appt.ID, &appt.Phone, &appt.Client, &appt.Service, &appt.Date, &appt.Completed, &appt.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return &appt, nil
}

func (c *PostgresClient) DeleteAppointment(ctx context.Context, id string) error {
	_, err := c.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

// GetSetting returns the raw JSON document stored under key. The second return
// is false when no document exists.
func (c *PostgresClient) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := c.pool.QueryRow(ctx, `SELECT value FROM system_settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get setting %q: %w", key, err)
	}
	return value, true, nil
}

func (c *PostgresClient) UpsertSetting(ctx context.Context, key, value string) error {
	_, err := c.pool.Exec(ctx, `
		INSERT INTO system_settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to upsert setting %q: %w", key, err)
	}
	return nil
}
