package collapsed

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fss-lab/collapse-core/pkg/config"
)

// Status of a stored search.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ErrNotFound is returned when a search ID does not exist.
var ErrNotFound = errors.New("search not found")

// Record is one stored search: the submitted job, its lifecycle
// timestamps and, once finished, the outcome or failure message.
type Record struct {
	ID        string      `json:"id"`
	Status    Status      `json:"status"`
	Job       *config.Job `json:"job"`
	Outcome   *Outcome    `json:"outcome,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt int64       `json:"created_at_unix_ms"`
	StartedAt int64       `json:"started_at_unix_ms,omitempty"`
	EndedAt   int64       `json:"ended_at_unix_ms,omitempty"`
}

// Store persists search records in SQL. The job spec and outcome are
// kept as JSON columns; the daemon never queries inside them.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func nowUnixMs() int64 {
	return time.Now().UTC().UnixMilli()
}

// Create inserts a new pending record for the given job.
func (s *Store) Create(id string, job *config.Job) (*Record, error) {
	jj, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal job: %w", err)
	}
	now := nowUnixMs()
	_, err = s.db.Exec(`INSERT INTO searches (id,status,job_json,created_at) VALUES ($1,$2,$3,$4)`,
		id, string(StatusPending), string(jj), now)
	if err != nil {
		return nil, err
	}
	return &Record{ID: id, Status: StatusPending, Job: job, CreatedAt: now}, nil
}

// Get fetches one record by ID.
func (s *Store) Get(id string) (*Record, error) {
	row := s.db.QueryRow(`SELECT id,status,job_json,outcome_json,error,created_at,started_at,ended_at
		FROM searches WHERE id=$1`, id)
	return scanRecord(row)
}

// List returns the most recently created records, newest first.
func (s *Store) List(limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT id,status,job_json,outcome_json,error,created_at,started_at,ended_at
		FROM searches ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SetRunning marks a record as started.
func (s *Store) SetRunning(id string) error {
	return s.exec(`UPDATE searches SET status=$1, started_at=$2 WHERE id=$3`,
		string(StatusRunning), nowUnixMs(), id)
}

// SetOutcome marks a record completed and stores its outcome.
func (s *Store) SetOutcome(id string, outcome *Outcome) error {
	oj, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}
	return s.exec(`UPDATE searches SET status=$1, outcome_json=$2, ended_at=$3 WHERE id=$4`,
		string(StatusCompleted), string(oj), nowUnixMs(), id)
}

// SetFailed marks a record failed with the given message.
func (s *Store) SetFailed(id string, msg string) error {
	return s.exec(`UPDATE searches SET status=$1, error=$2, ended_at=$3 WHERE id=$4`,
		string(StatusFailed), msg, nowUnixMs(), id)
}

func (s *Store) exec(query string, args ...any) error {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var jobJSON string
	var outcomeJSON sql.NullString
	if err := row.Scan(&rec.ID, &rec.Status, &jobJSON, &outcomeJSON, &rec.Error,
		&rec.CreatedAt, &rec.StartedAt, &rec.EndedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec.Job = &config.Job{}
	if err := json.Unmarshal([]byte(jobJSON), rec.Job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	if outcomeJSON.Valid && outcomeJSON.String != "" {
		rec.Outcome = &Outcome{}
		if err := json.Unmarshal([]byte(outcomeJSON.String), rec.Outcome); err != nil {
			return nil, fmt.Errorf("unmarshal outcome: %w", err)
		}
	}
	return &rec, nil
}
