package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"paperapi/internal/model"
	"paperapi/internal/repository"
)

const uniqueViolation = "23505"

const paperColumns = `id, partition_key, exam_type, year, paper_type, paper_url, solution_url,
		has_download, has_solution, upload_date, views, downloads, last_viewed, subjects`

// PaperPostgres is a PostgreSQL implementation of repository.PaperStore.
// Records are keyed by (partition_key, id); it uses database/sql with parameterized queries.
type PaperPostgres struct {
	db *sql.DB
}

// NewPaperPostgres creates a new PaperPostgres repository.
func NewPaperPostgres(db *sql.DB) *PaperPostgres {
	return &PaperPostgres{db: db}
}

var _ repository.PaperStore = (*PaperPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaper(s rowScanner) (*model.Paper, error) {
	var (
		p          model.Paper
		lastViewed sql.NullTime
		subjects   []byte
	)
	if err := s.Scan(
		&p.ID,
		&p.PartitionKey,
		&p.ExamType,
		&p.Year,
		&p.PaperType,
		&p.PaperURL,
		&p.SolutionURL,
		&p.HasDownload,
		&p.HasSolution,
		&p.UploadDate,
		&p.Views,
		&p.Downloads,
		&lastViewed,
		&subjects,
	); err != nil {
		return nil, err
	}
	if lastViewed.Valid {
		t := lastViewed.Time
		p.LastViewed = &t
	}
	if len(subjects) > 0 {
		if err := json.Unmarshal(subjects, &p.Subjects); err != nil {
			return nil, fmt.Errorf("decode subjects: %w", err)
		}
	}
	return &p, nil
}

func encodeSubjects(subjects []string) (string, error) {
	if len(subjects) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(subjects)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func nullTime(p *model.Paper) sql.NullTime {
	if p.LastViewed == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *p.LastViewed, Valid: true}
}

// Read fetches the paper stored under exactly (id, partitionKey).
func (r *PaperPostgres) Read(ctx context.Context, id, partitionKey string) (*model.Paper, error) {
	q := `SELECT ` + paperColumns + ` FROM papers WHERE id = $1 AND partition_key = $2`
	p, err := scanPaper(r.db.QueryRowContext(ctx, q, id, partitionKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Query returns papers matching every set filter field, newest upload first.
func (r *PaperPostgres) Query(ctx context.Context, f repository.Filter) ([]model.Paper, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v string) {
		args = append(args, v)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if f.ID != "" {
		add("id = ?", f.ID)
	}
	if f.IDContains != "" {
		add("strpos(id, ?) > 0", f.IDContains)
	}
	if f.ExamType != "" {
		add("exam_type = ?", f.ExamType)
	}
	if f.Year != "" {
		add("year = ?", f.Year)
	}

	q := `SELECT ` + paperColumns + ` FROM papers`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY upload_date DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Paper, 0)
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes the paper under (id, partitionKey), or under any partition for AnyPartition.
func (r *PaperPostgres) Delete(ctx context.Context, id, partitionKey string) error {
	var (
		res sql.Result
		err error
	)
	if partitionKey == repository.AnyPartition {
		res, err = r.db.ExecContext(ctx, `DELETE FROM papers WHERE id = $1`, id)
	} else {
		res, err = r.db.ExecContext(ctx, `DELETE FROM papers WHERE id = $1 AND partition_key = $2`, id, partitionKey)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Create inserts a new paper row and returns the stored record.
func (r *PaperPostgres) Create(ctx context.Context, p *model.Paper) (*model.Paper, error) {
	in := *p
	in.Normalize()
	subjects, err := encodeSubjects(in.Subjects)
	if err != nil {
		return nil, fmt.Errorf("encode subjects: %w", err)
	}

	q := `INSERT INTO papers (` + paperColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + paperColumns
	out, err := scanPaper(r.db.QueryRowContext(ctx, q,
		in.ID,
		in.PartitionKey,
		in.ExamType,
		in.Year,
		in.PaperType,
		in.PaperURL,
		in.SolutionURL,
		in.HasDownload,
		in.HasSolution,
		in.UploadDate,
		in.Views,
		in.Downloads,
		nullTime(&in),
		subjects,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, repository.ErrConflict
		}
		return nil, err
	}
	return out, nil
}

// Replace overwrites the mutable columns of an existing paper.
func (r *PaperPostgres) Replace(ctx context.Context, p *model.Paper) (*model.Paper, error) {
	in := *p
	in.Normalize()
	subjects, err := encodeSubjects(in.Subjects)
	if err != nil {
		return nil, fmt.Errorf("encode subjects: %w", err)
	}

	q := `UPDATE papers SET exam_type = $3, year = $4, paper_type = $5, paper_url = $6, solution_url = $7,
		has_download = $8, has_solution = $9, upload_date = $10, views = $11, downloads = $12,
		last_viewed = $13, subjects = $14
		WHERE id = $1 AND partition_key = $2
		RETURNING ` + paperColumns
	out, err := scanPaper(r.db.QueryRowContext(ctx, q,
		in.ID,
		in.PartitionKey,
		in.ExamType,
		in.Year,
		in.PaperType,
		in.PaperURL,
		in.SolutionURL,
		in.HasDownload,
		in.HasSolution,
		in.UploadDate,
		in.Views,
		in.Downloads,
		nullTime(&in),
		subjects,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

// Ping checks database connectivity.
func (r *PaperPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
