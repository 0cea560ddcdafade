package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"paperapi/internal/cache"
	"paperapi/internal/model"
	"paperapi/internal/repository"
	"paperapi/internal/storage"
)

var (
	ErrIDRequired       = errors.New("paper id is required")
	ErrNotFound         = errors.New("paper not found")
	ErrMissingFields    = errors.New("missing required fields")
	ErrInvalidTrackType = errors.New("invalid tracking type")
	ErrInvalidFileKind  = errors.New("invalid file kind")
	ErrFileNotFound     = errors.New("file not found")
)

const (
	TrackView     = "view"
	TrackDownload = "download"

	FilePaper    = "paper"
	FileSolution = "solution"

	defaultLatestLimit = 10
	defaultURLExpiry   = time.Hour
)

// FileInput is one uploaded file.
type FileInput struct {
	Reader      io.Reader
	Name        string
	ContentType string
	Size        int64
}

// UploadInput carries the fields of the upload form. Solution is optional.
type UploadInput struct {
	ExamType  string
	Year      string
	PaperType string
	Paper     *FileInput
	Solution  *FileInput
}

// FileLink is a viewable link to a paper or solution file.
type FileLink struct {
	URL      string `json:"pdfUrl"`
	Kind     string `json:"type"`
	Title    string `json:"title"`
	External bool   `json:"external,omitempty"`
}

// PaperService defines the use cases for exam papers.
type PaperService interface {
	// Upload stores the files, then the record. Files are rolled back if the record cannot be saved.
	Upload(ctx context.Context, in UploadInput) (*model.Paper, error)

	// List returns all papers, optionally restricted to an exam type and year.
	List(ctx context.Context, examType, year string) ([]model.Paper, error)

	// Get resolves a paper by id.
	Get(ctx context.Context, id string) (*model.Paper, error)

	// Delete removes a paper's files (best-effort) and then its record.
	Delete(ctx context.Context, id string) error

	// Latest returns one paper per exam type from the most recent year.
	Latest(ctx context.Context, limit int) ([]model.Paper, error)

	// Metadata summarises the available exam types.
	Metadata(ctx context.Context) ([]model.ExamMetadata, error)

	// FileURL returns a viewable URL for the paper or solution file.
	FileURL(ctx context.Context, id, kind string) (*FileLink, error)

	// Track records a view or download. Store failures are logged, not returned.
	Track(ctx context.Context, id, kind string) error

	// Ready reports whether the document store is reachable.
	Ready(ctx context.Context) error
}

type paperService struct {
	store     repository.PaperStore
	resolver  *repository.Resolver
	blobs     storage.BlobStore
	cache     cache.PaperCache
	log       *zap.Logger
	urlExpiry time.Duration
	now       func() time.Time
	newID     func() string
}

// NewPaperService constructs a PaperService. A nil cache disables caching and a
// nil logger disables logging; a non-positive urlExpiry means one hour.
func NewPaperService(store repository.PaperStore, blobs storage.BlobStore, c cache.PaperCache, log *zap.Logger, urlExpiry time.Duration) PaperService {
	if c == nil {
		c = cache.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if urlExpiry <= 0 {
		urlExpiry = defaultURLExpiry
	}
	return &paperService{
		store:     store,
		resolver:  repository.NewResolver(store, log),
		blobs:     blobs,
		cache:     c,
		log:       log.Named("papers"),
		urlExpiry: urlExpiry,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

func (s *paperService) Upload(ctx context.Context, in UploadInput) (*model.Paper, error) {
	if in.ExamType == "" || in.Year == "" || in.PaperType == "" || in.Paper == nil || in.Paper.Reader == nil {
		return nil, ErrMissingFields
	}

	var uploaded []string
	paperURL, err := s.blobs.Upload(ctx, in.Paper.Reader, in.Paper.Name, in.Paper.ContentType, in.Paper.Size)
	if err != nil {
		return nil, fmt.Errorf("upload paper file: %w", err)
	}
	uploaded = append(uploaded, paperURL)

	var solutionURL string
	if in.Solution != nil && in.Solution.Reader != nil {
		solutionURL, err = s.blobs.Upload(ctx, in.Solution.Reader, in.Solution.Name, in.Solution.ContentType, in.Solution.Size)
		if err != nil {
			return nil, s.rollback(ctx, uploaded, fmt.Errorf("upload solution file: %w", err))
		}
		uploaded = append(uploaded, solutionURL)
	}

	id := s.newID()
	stored, err := s.store.Create(ctx, &model.Paper{
		ID:           id,
		PartitionKey: id,
		ExamType:     in.ExamType,
		Year:         in.Year,
		PaperType:    in.PaperType,
		PaperURL:     paperURL,
		SolutionURL:  solutionURL,
		HasDownload:  true,
		HasSolution:  solutionURL != "",
		UploadDate:   s.now().UTC(),
	})
	if err != nil {
		return nil, s.rollback(ctx, uploaded, fmt.Errorf("save paper: %w", err))
	}
	s.log.Info("paper uploaded", zap.String("paper_id", stored.ID), zap.String("exam_type", stored.ExamType), zap.String("year", stored.Year))
	return stored, nil
}

// rollback removes already uploaded files and joins any failure into cause.
func (s *paperService) rollback(ctx context.Context, urls []string, cause error) error {
	errs := []error{cause}
	for _, u := range urls {
		if err := s.blobs.DeleteByURL(ctx, u); err != nil {
			errs = append(errs, fmt.Errorf("rollback %s: %w", u, err))
		}
	}
	return errors.Join(errs...)
}

func (s *paperService) List(ctx context.Context, examType, year string) ([]model.Paper, error) {
	papers, err := s.store.Query(ctx, repository.Filter{ExamType: examType, Year: year})
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	return papers, nil
}

func (s *paperService) Get(ctx context.Context, id string) (*model.Paper, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if p, err := s.cache.Get(ctx, id); err == nil {
		return p, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("cache read failed", zap.String("paper_id", id), zap.Error(err))
	}

	p, err := s.resolver.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get paper: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if p.ID == id {
		if err := s.cache.Set(ctx, p); err != nil {
			s.log.Warn("cache write failed", zap.String("paper_id", id), zap.Error(err))
		}
	}
	return p, nil
}

func (s *paperService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	log := s.log.With(zap.String("paper_id", id))

	p, err := s.resolver.Find(ctx, id)
	if err != nil {
		return fmt.Errorf("resolve paper: %w", err)
	}
	if p == nil {
		return ErrNotFound
	}
	// Files belong to the record; a partial id match must not lose them.
	if p.ID != id {
		log.Info("only a partial id match exists, nothing deleted", zap.String("match_id", p.ID))
		return ErrNotFound
	}

	for _, u := range []string{p.PaperURL, p.SolutionURL} {
		if u == "" {
			continue
		}
		if err := s.blobs.DeleteByURL(ctx, u); err != nil {
			log.Warn("file delete failed", zap.String("url", u), zap.Error(err))
		}
	}

	err = s.resolver.Delete(ctx, id)
	s.invalidate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete paper: %w", err)
	}
	log.Info("paper deleted")
	return nil
}

func (s *paperService) Latest(ctx context.Context, limit int) ([]model.Paper, error) {
	if limit <= 0 {
		limit = defaultLatestLimit
	}
	papers, err := s.store.Query(ctx, repository.Filter{})
	if err != nil {
		return nil, fmt.Errorf("latest papers: %w", err)
	}
	return latestPapers(papers, limit), nil
}

func (s *paperService) Metadata(ctx context.Context) ([]model.ExamMetadata, error) {
	papers, err := s.store.Query(ctx, repository.Filter{})
	if err != nil {
		return nil, fmt.Errorf("exam metadata: %w", err)
	}
	return buildMetadata(papers), nil
}

func (s *paperService) FileURL(ctx context.Context, id, kind string) (*FileLink, error) {
	if kind == "" {
		kind = FilePaper
	}
	if kind != FilePaper && kind != FileSolution {
		return nil, ErrInvalidFileKind
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	raw := p.PaperURL
	if kind == FileSolution {
		raw = p.SolutionURL
	}
	if raw == "" {
		return nil, ErrFileNotFound
	}

	link := &FileLink{Kind: kind, Title: p.Title()}
	if !s.blobs.Owns(raw) {
		link.URL = raw
		link.External = true
		return link, nil
	}
	signed, err := s.blobs.SignedURL(ctx, raw, s.urlExpiry)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			s.log.Warn("paper file missing from store", zap.String("paper_id", p.ID), zap.String("url", raw))
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("sign %s url: %w", kind, err)
	}
	link.URL = signed
	return link, nil
}

func (s *paperService) Track(ctx context.Context, id, kind string) error {
	if id == "" {
		return ErrIDRequired
	}
	if kind != TrackView && kind != TrackDownload {
		return ErrInvalidTrackType
	}
	log := s.log.With(zap.String("paper_id", id), zap.String("type", kind))

	p, err := s.store.Read(ctx, id, id)
	if err != nil {
		log.Info("could not track paper activity", zap.Error(err))
		return nil
	}
	switch kind {
	case TrackView:
		p.Views++
		now := s.now().UTC()
		p.LastViewed = &now
	case TrackDownload:
		p.Downloads++
	}
	if _, err := s.store.Replace(ctx, p); err != nil {
		log.Warn("could not update paper counters", zap.Error(err))
		return nil
	}
	s.invalidate(ctx, id)
	log.Debug("paper activity tracked")
	return nil
}

func (s *paperService) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *paperService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.Warn("cache invalidation failed", zap.String("paper_id", id), zap.Error(err))
	}
}
