package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"paperapi/internal/model"
	"paperapi/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{
	"id", "partition_key", "exam_type", "year", "paper_type", "paper_url", "solution_url",
	"has_download", "has_solution", "upload_date", "views", "downloads", "last_viewed", "subjects",
}

func paperRow(rows *sqlmock.Rows, p model.Paper) *sqlmock.Rows {
	return rows.AddRow(p.ID, p.PartitionKey, p.ExamType, p.Year, p.PaperType, p.PaperURL, p.SolutionURL,
		p.HasDownload, p.HasSolution, p.UploadDate, p.Views, p.Downloads, nil, []byte(`["Physics"]`))
}

func newRepo(t *testing.T) (*PaperPostgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPaperPostgres(db), mock
}

func samplePaper() model.Paper {
	return model.Paper{
		ID:           "p-1",
		PartitionKey: "p-1",
		ExamType:     "neet",
		Year:         "2023",
		PaperType:    "Phase 1",
		PaperURL:     "https://blob.example.com/exam-papers/papers/1-neet.pdf",
		HasDownload:  true,
		UploadDate:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestPaperPostgres_Read(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepo(t)
		p := samplePaper()
		mock.ExpectQuery(`SELECT (.+) FROM papers WHERE id = \$1 AND partition_key = \$2`).
			WithArgs("p-1", "p-1").
			WillReturnRows(paperRow(sqlmock.NewRows(columns), p))

		got, err := repo.Read(ctx, "p-1", "p-1")
		require.NoError(t, err)
		assert.Equal(t, "p-1", got.ID)
		assert.Equal(t, "neet", got.ExamType)
		assert.Equal(t, []string{"Physics"}, got.Subjects)
		assert.Nil(t, got.LastViewed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`SELECT (.+) FROM papers WHERE id = \$1 AND partition_key = \$2`).
			WithArgs("missing", "missing").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.Read(ctx, "missing", "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`SELECT (.+) FROM papers`).WillReturnError(errors.New("connection reset"))

		_, err := repo.Read(ctx, "p-1", "p-1")
		assert.EqualError(t, err, "connection reset")
	})
}

func TestPaperPostgres_Query(t *testing.T) {
	ctx := context.Background()

	t.Run("no filter reads all", func(t *testing.T) {
		repo, mock := newRepo(t)
		a, b := samplePaper(), samplePaper()
		b.ID, b.PartitionKey = "p-2", "legacy"
		rows := paperRow(paperRow(sqlmock.NewRows(columns), a), b)
		mock.ExpectQuery(`SELECT (.+) FROM papers ORDER BY upload_date DESC, id ASC`).
			WithArgs().
			WillReturnRows(rows)

		got, err := repo.Query(ctx, repository.Filter{})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "legacy", got[1].PartitionKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("id filter", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`SELECT (.+) FROM papers WHERE id = \$1 ORDER BY`).
			WithArgs("p-1").
			WillReturnRows(paperRow(sqlmock.NewRows(columns), samplePaper()))

		got, err := repo.Query(ctx, repository.Filter{ID: "p-1"})
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("combined filters number placeholders in order", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`WHERE strpos\(id, \$1\) > 0 AND exam_type = \$2 AND year = \$3`).
			WithArgs("p-", "neet", "2023").
			WillReturnRows(sqlmock.NewRows(columns))

		got, err := repo.Query(ctx, repository.Filter{IDContains: "p-", ExamType: "neet", Year: "2023"})
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`SELECT (.+) FROM papers`).WillReturnError(errors.New("timeout"))

		_, err := repo.Query(ctx, repository.Filter{ExamType: "iit"})
		assert.Error(t, err)
	})
}

func TestPaperPostgres_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		partition string
		expectSQL string
		args      []driver.Value
		result    sql.Result
		execErr   error
		wantErr   error
	}{
		{
			name:      "with partition key",
			partition: "p-1",
			expectSQL: `DELETE FROM papers WHERE id = \$1 AND partition_key = \$2`,
			args:      []driver.Value{"p-1", "p-1"},
			result:    sqlmock.NewResult(0, 1),
		},
		{
			name:      "any partition",
			partition: repository.AnyPartition,
			expectSQL: `DELETE FROM papers WHERE id = \$1$`,
			args:      []driver.Value{"p-1"},
			result:    sqlmock.NewResult(0, 1),
		},
		{
			name:      "no rows affected",
			partition: "p-1",
			expectSQL: `DELETE FROM papers`,
			args:      []driver.Value{"p-1", "p-1"},
			result:    sqlmock.NewResult(0, 0),
			wantErr:   repository.ErrNotFound,
		},
		{
			name:      "exec error",
			partition: "p-1",
			expectSQL: `DELETE FROM papers`,
			args:      []driver.Value{"p-1", "p-1"},
			execErr:   errors.New("db fail"),
			wantErr:   errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			exp := mock.ExpectExec(tt.expectSQL).WithArgs(tt.args...)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(tt.result)
			}

			err := repo.Delete(ctx, "p-1", tt.partition)
			switch {
			case tt.wantErr == nil:
				assert.NoError(t, err)
			case errors.Is(tt.wantErr, repository.ErrNotFound):
				assert.ErrorIs(t, err, repository.ErrNotFound)
			default:
				assert.EqualError(t, err, tt.wantErr.Error())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPaperPostgres_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success normalizes before insert", func(t *testing.T) {
		repo, mock := newRepo(t)
		p := samplePaper()
		p.PartitionKey = ""
		p.SolutionURL = "https://blob.example.com/exam-papers/papers/2-sol.pdf"

		stored := p
		stored.PartitionKey = p.ID
		stored.HasSolution = true

		mock.ExpectQuery(`INSERT INTO papers`).
			WithArgs(p.ID, p.ID, p.ExamType, p.Year, p.PaperType, p.PaperURL, p.SolutionURL,
				true, true, p.UploadDate, int64(0), int64(0), nil, "[]").
			WillReturnRows(paperRow(sqlmock.NewRows(columns), stored))

		got, err := repo.Create(ctx, &p)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.PartitionKey)
		assert.True(t, got.HasSolution)
		assert.Empty(t, p.PartitionKey, "input must not be mutated")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to conflict", func(t *testing.T) {
		repo, mock := newRepo(t)
		p := samplePaper()
		mock.ExpectQuery(`INSERT INTO papers`).WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Create(ctx, &p)
		assert.ErrorIs(t, err, repository.ErrConflict)
	})
}

func TestPaperPostgres_Replace(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, mock := newRepo(t)
		p := samplePaper()
		p.Views = 3
		mock.ExpectQuery(`UPDATE papers SET (.+) WHERE id = \$1 AND partition_key = \$2 RETURNING`).
			WillReturnRows(paperRow(sqlmock.NewRows(columns), p))

		got, err := repo.Replace(ctx, &p)
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.Views)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := newRepo(t)
		p := samplePaper()
		mock.ExpectQuery(`UPDATE papers`).WillReturnError(sql.ErrNoRows)

		_, err := repo.Replace(ctx, &p)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestPaperPostgres_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.Error(t, NewPaperPostgres(db).Ping(context.Background()))
}
