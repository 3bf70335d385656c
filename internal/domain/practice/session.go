// Package practice tracks timed system-design practice sessions against built-in templates.
// Sessions live in the practice_session table; every update runs in its own transaction.
package practice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mukundajmera/AwaazTwin/internal/infra/sqlite"
	"github.com/mukundajmera/AwaazTwin/pkg/uuid"
)

var (
	ErrTemplateNotFound = errors.New("Practice template not found") //nolint:staticcheck
	ErrSessionNotFound  = errors.New("Practice session not found")  //nolint:staticcheck
	ErrInvalidInput     = errors.New("invalid practice input")
)

// Status of a session.
const (
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

type Session struct {
	ID                string             `json:"id"`
	TemplateID        string             `json:"templateId"`
	StartedAt         time.Time          `json:"startedAt"`
	CompletedAt       *time.Time         `json:"completedAt"`
	CurrentPhaseIndex int                `json:"currentPhaseIndex"`
	Scores            map[string]float64 `json:"scores"`
	Notes             string             `json:"notes"`
	Status            string             `json:"status"`
}

// FinishInput replaces scores and notes only when the pointer is non-nil.
type FinishInput struct {
	Scores map[string]float64
	Notes  *string
}

type Service struct {
	db  *sql.DB
	now func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Start opens an in-progress session at phase 0.
func (s *Service) Start(ctx context.Context, templateID string) (*Session, error) {
	if _, ok := TemplateByID(templateID); !ok {
		return nil, ErrTemplateNotFound
	}
	sess := &Session{
		ID:         uuid.NewV7(),
		TemplateID: templateID,
		StartedAt:  s.now().UTC(),
		Scores:     map[string]float64{},
		Status:     StatusInProgress,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO practice_session (id, template_id, started_at, current_phase_index, scores, notes, status)
		VALUES (?, ?, ?, 0, '{}', '', ?)`,
		sess.ID, sess.TemplateID, formatTime(sess.StartedAt), sess.Status)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return sess, nil
}

// Advance records the phase the client moved to. The index is not checked against the
// template's phase count; progression is driven by the client.
func (s *Service) Advance(ctx context.Context, id string, phaseIndex int) (*Session, error) {
	if phaseIndex < 0 {
		return nil, fmt.Errorf("%w: phaseIndex must be >= 0", ErrInvalidInput)
	}
	var out *Session
	err := sqlite.InTx(ctx, s.db, func(tx *sql.Tx) error {
		sess, err := getSession(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE practice_session SET current_phase_index = ? WHERE id = ?`, phaseIndex, id,
		); err != nil {
			return fmt.Errorf("advance session: %w", err)
		}
		sess.CurrentPhaseIndex = phaseIndex
		out = sess
		return nil
	})
	return out, err
}

// Finish completes a session. Finishing twice refreshes completedAt.
func (s *Service) Finish(ctx context.Context, id string, in FinishInput) (*Session, error) {
	var out *Session
	err := sqlite.InTx(ctx, s.db, func(tx *sql.Tx) error {
		sess, err := getSession(ctx, tx, id)
		if err != nil {
			return err
		}
		completed := s.now().UTC()
		sess.CompletedAt = &completed
		sess.Status = StatusCompleted
		if in.Scores != nil {
			sess.Scores = in.Scores
		}
		if in.Notes != nil {
			sess.Notes = *in.Notes
		}
		scores, err := json.Marshal(sess.Scores)
		if err != nil {
			return fmt.Errorf("encode scores: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE practice_session
			SET completed_at = ?, status = ?, scores = ?, notes = ?
			WHERE id = ?`,
			formatTime(completed), sess.Status, string(scores), sess.Notes, id,
		); err != nil {
			return fmt.Errorf("finish session: %w", err)
		}
		out = sess
		return nil
	})
	return out, err
}

func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return getSession(ctx, s.db, id)
}

// List returns every session, newest first.
func (s *Service) List(ctx context.Context) ([]*Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM practice_session ORDER BY started_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	out := []*Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// ─── row mapping ─────────────────────────────────────────────────────────────

const sessionColumns = `id, template_id, started_at, completed_at, current_phase_index, scores, notes, status`

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func getSession(ctx context.Context, q queryer, id string) (*Session, error) {
	row := q.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM practice_session WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	return sess, err
}

func scanSession(r scanner) (*Session, error) {
	var (
		sess      Session
		started   string
		completed sql.NullString
		scores    string
	)
	if err := r.Scan(&sess.ID, &sess.TemplateID, &started, &completed,
		&sess.CurrentPhaseIndex, &scores, &sess.Notes, &sess.Status); err != nil {
		return nil, err
	}
	var err error
	if sess.StartedAt, err = parseTime(started); err != nil {
		return nil, fmt.Errorf("decode started_at for %s: %w", sess.ID, err)
	}
	if completed.Valid {
		t, err := parseTime(completed.String)
		if err != nil {
			return nil, fmt.Errorf("decode completed_at for %s: %w", sess.ID, err)
		}
		sess.CompletedAt = &t
	}
	sess.Scores = map[string]float64{}
	if err := json.Unmarshal([]byte(scores), &sess.Scores); err != nil {
		return nil, fmt.Errorf("decode scores for %s: %w", sess.ID, err)
	}
	return &sess, nil
}

// Timestamps are stored as fixed-width RFC3339 so lexical order equals time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(v string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, v)
}
