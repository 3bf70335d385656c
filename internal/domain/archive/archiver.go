// Package archive copies generated speech and voice-clone samples to object storage.
// It runs as a background consumer of the event bus; failures are logged and never
// reach the request that produced the audio.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mukundajmera/AwaazTwin/internal/infra/eventbus"
	"github.com/mukundajmera/AwaazTwin/internal/infra/storage"
)

// ErrObjectNotFound is returned by Fetch for keys that were never archived or are gone from the bucket.
var ErrObjectNotFound = errors.New("Archived object not found") //nolint:staticcheck

// ObjectStore is the subset of *storage.Bucket the archiver works through.
type ObjectStore interface {
	SpeechKey(t time.Time, id, contentType string) string
	VoiceKey(speakerID string) string
	UploadBytes(ctx context.Context, key string, data []byte, contentType string) error
	DownloadBytes(ctx context.Context, key string) ([]byte, error)
}

// Object kinds recorded in archived_audio.
const (
	KindSpeech = "speech"
	KindVoice  = "voice"
)

const (
	uploadTimeout    = 60 * time.Second
	voiceContentType = "audio/wav"
)

// Object is one archived upload.
type Object struct {
	Key         string    `json:"key"`
	Kind        string    `json:"kind"`
	RefID       string    `json:"refId"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Archiver struct {
	store  ObjectStore
	db     *sql.DB
	logger *slog.Logger

	speech <-chan eventbus.Event
	voices <-chan eventbus.Event
}

func NewArchiver(store ObjectStore, db *sql.DB, logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{store: store, db: db, logger: logger}
}

// Subscribe registers on the bus. Call it before any audio can be published; Run consumes.
func (a *Archiver) Subscribe(bus eventbus.EventBus) {
	a.speech = bus.Subscribe(eventbus.TopicAudioGenerated)
	a.voices = bus.Subscribe(eventbus.TopicVoiceCloned)
}

// Run archives events until ctx is cancelled or the bus is closed.
func (a *Archiver) Run(ctx context.Context) {
	speech, voices := a.speech, a.voices
	for speech != nil || voices != nil {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-speech:
			if !ok {
				speech = nil
				continue
			}
			if p, ok := evt.Payload.(eventbus.AudioGenerated); ok {
				a.logFailure(ctx, a.ArchiveSpeech(ctx, p), evt.Topic)
			}
		case evt, ok := <-voices:
			if !ok {
				voices = nil
				continue
			}
			if p, ok := evt.Payload.(eventbus.VoiceCloned); ok {
				a.logFailure(ctx, a.ArchiveVoice(ctx, p), evt.Topic)
			}
		}
	}
}

// ArchiveSpeech uploads one synthesized clip. Empty audio is skipped.
func (a *Archiver) ArchiveSpeech(ctx context.Context, p eventbus.AudioGenerated) error {
	if len(p.Audio) == 0 {
		return nil
	}
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	key := a.store.SpeechKey(created, p.ID, p.ContentType)
	return a.upload(ctx, Object{
		Key:         key,
		Kind:        KindSpeech,
		RefID:       p.ID,
		ContentType: p.ContentType,
		SizeBytes:   int64(len(p.Audio)),
		CreatedAt:   created,
	}, p.Audio)
}

// ArchiveVoice uploads the reference sample of a cloned voice. Empty audio is skipped.
func (a *Archiver) ArchiveVoice(ctx context.Context, p eventbus.VoiceCloned) error {
	if len(p.Audio) == 0 {
		return nil
	}
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return a.upload(ctx, Object{
		Key:         a.store.VoiceKey(p.SpeakerID),
		Kind:        KindVoice,
		RefID:       p.SpeakerID,
		ContentType: voiceContentType,
		SizeBytes:   int64(len(p.Audio)),
		CreatedAt:   created,
	}, p.Audio)
}

// Recent lists the newest archived objects, at most limit.
func (a *Archiver) Recent(ctx context.Context, limit int) ([]Object, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.db.QueryContext(ctx, `
		SELECT key, kind, ref_id, content_type, size_bytes, created_at
		FROM archived_audio ORDER BY created_at DESC, key DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list archived audio: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	out := []Object{}
	for rows.Next() {
		var (
			o       Object
			created string
		)
		if err := rows.Scan(&o.Key, &o.Kind, &o.RefID, &o.ContentType, &o.SizeBytes, &created); err != nil {
			return nil, err
		}
		if o.CreatedAt, err = parseCreated(o.Key, created); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Fetch returns an archived object and its bytes. Only keys recorded in archived_audio are served.
func (a *Archiver) Fetch(ctx context.Context, key string) (Object, []byte, error) {
	o := Object{Key: key}
	var created string
	err := a.db.QueryRowContext(ctx, `
		SELECT kind, ref_id, content_type, size_bytes, created_at
		FROM archived_audio WHERE key = ?`, key,
	).Scan(&o.Kind, &o.RefID, &o.ContentType, &o.SizeBytes, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Object{}, nil, ErrObjectNotFound
	}
	if err != nil {
		return Object{}, nil, fmt.Errorf("lookup %s: %w", key, err)
	}
	if o.CreatedAt, err = parseCreated(key, created); err != nil {
		return Object{}, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()
	data, err := a.store.DownloadBytes(ctx, key)
	if storage.IsNotFound(err) {
		return Object{}, nil, ErrObjectNotFound
	}
	if err != nil {
		return Object{}, nil, fmt.Errorf("download %s: %w", key, err)
	}
	return o, data, nil
}

func parseCreated(key, v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode created_at for %s: %w", key, err)
	}
	return t, nil
}

func (a *Archiver) upload(ctx context.Context, o Object, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	if err := a.store.UploadBytes(ctx, o.Key, data, o.ContentType); err != nil {
		return fmt.Errorf("upload %s: %w", o.Key, err)
	}
	// re-cloning a speaker overwrites the same key
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO archived_audio (key, kind, ref_id, content_type, size_bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			size_bytes = excluded.size_bytes,
			content_type = excluded.content_type,
			created_at = excluded.created_at`,
		o.Key, o.Kind, o.RefID, o.ContentType, o.SizeBytes, o.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record %s: %w", o.Key, err)
	}
	a.logger.InfoContext(ctx, "audio archived", "key", o.Key, "kind", o.Kind, "bytes", o.SizeBytes)
	return nil
}

func (a *Archiver) logFailure(ctx context.Context, err error, topic string) {
	if err != nil {
		a.logger.WarnContext(ctx, "archive failed", "topic", topic, "error", err)
	}
}
