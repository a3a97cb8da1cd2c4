package exports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/muscle-plan/internal/blob"
	"github.com/fdg312/muscle-plan/internal/plan"
	"github.com/fdg312/muscle-plan/internal/selection"
	"github.com/google/uuid"
)

var (
	ErrInvalidKind    = errors.New("invalid kind")
	ErrInvalidFormat  = errors.New("invalid format")
	ErrExportNotFound = errors.New("export not found")
)

// SessionReader resolves the selection state an export should reflect.
type SessionReader interface {
	Get(id uuid.UUID) (selection.State, error)
}

// publicURLer is implemented by stores that can serve objects without signing.
type publicURLer interface {
	PublicURL(key string) (string, bool)
}

// Options tunes storage and download behaviour.
type Options struct {
	DefaultRegion     plan.Region
	MaxStored         int
	PresignTTLSeconds int
	PreferPublicURL   bool
}

// Service generates exports and keeps their metadata in memory. Only the
// newest MaxStored exports are retained.
type Service struct {
	generator *Generator
	sessions  SessionReader
	blobStore blob.Store
	localMode bool // true if no S3 configured
	opts      Options

	mu      sync.RWMutex
	exports map[uuid.UUID]*Export
	order   []uuid.UUID
	now     func() time.Time
}

// NewService creates a new exports service. A nil blobStore keeps export bytes
// in process memory.
func NewService(p *plan.Plan, sessions SessionReader, blobStore blob.Store, opts Options) *Service {
	if opts.DefaultRegion == "" {
		opts.DefaultRegion = plan.RegionFR
	}
	if opts.MaxStored <= 0 {
		opts.MaxStored = 100
	}
	if opts.PresignTTLSeconds <= 0 {
		opts.PresignTTLSeconds = 900
	}
	return &Service{
		generator: NewGenerator(p),
		sessions:  sessions,
		blobStore: blobStore,
		localMode: blobStore == nil,
		opts:      opts,
		exports:   make(map[uuid.UUID]*Export),
		now:       time.Now,
	}
}

// LocalMode reports whether export bytes are served from memory.
func (s *Service) LocalMode() bool {
	return s.localMode
}

// CreateExport generates and stores a new export.
func (s *Service) CreateExport(ctx context.Context, req CreateExportRequest) (*Export, error) {
	if req.Kind != KindShopping && req.Kind != KindWeek {
		return nil, ErrInvalidKind
	}
	if req.Format != FormatPDF && req.Format != FormatCSV {
		return nil, ErrInvalidFormat
	}

	region := s.opts.DefaultRegion
	if strings.TrimSpace(req.Region) != "" {
		r, err := plan.ParseRegion(req.Region)
		if err != nil {
			return nil, err
		}
		region = r
	}

	var st selection.State
	if req.SessionID != nil {
		if s.sessions == nil {
			return nil, selection.ErrSessionNotFound
		}
		var err error
		if st, err = s.sessions.Get(*req.SessionID); err != nil {
			return nil, err
		}
	}

	data, err := s.generator.Generate(req.Kind, req.Format, region, st)
	if err != nil {
		return nil, fmt.Errorf("failed to generate export: %w", err)
	}

	export := &Export{
		ID:        uuid.New(),
		Kind:      req.Kind,
		Format:    req.Format,
		Region:    region,
		SessionID: req.SessionID,
		SizeBytes: int64(len(data)),
		CreatedAt: s.now().UTC(),
	}

	if s.localMode {
		export.Data = data
	} else {
		objectKey := fmt.Sprintf("exports/%s/%s_%s.%s", req.Kind, region, export.ID, req.Format)
		if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentType(req.Format)); err != nil {
			return nil, fmt.Errorf("failed to upload export: %w", err)
		}
		export.ObjectKey = &objectKey
	}

	evicted := s.insert(export)
	for _, old := range evicted {
		s.deleteObject(ctx, old)
	}

	return export, nil
}

// GetExport returns export metadata by ID.
func (s *Service) GetExport(id uuid.UUID) (*Export, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	export, ok := s.exports[id]
	if !ok {
		return nil, ErrExportNotFound
	}
	return export, nil
}

// DeleteExport forgets an export and removes its object.
func (s *Service) DeleteExport(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	export, ok := s.exports[id]
	if ok {
		delete(s.exports, id)
		s.order = removeID(s.order, id)
	}
	s.mu.Unlock()

	if !ok {
		return ErrExportNotFound
	}
	s.deleteObject(ctx, export)
	return nil
}

// DownloadURL returns where the export can be fetched from.
func (s *Service) DownloadURL(ctx context.Context, id uuid.UUID, baseURL string) (string, error) {
	export, err := s.GetExport(id)
	if err != nil {
		return "", err
	}
	return s.urlFor(ctx, export, baseURL)
}

func (s *Service) urlFor(ctx context.Context, export *Export, baseURL string) (string, error) {
	if s.localMode {
		return fmt.Sprintf("%s/v1/exports/%s/download", strings.TrimSuffix(baseURL, "/"), export.ID), nil
	}

	if export.ObjectKey == nil {
		return "", fmt.Errorf("object key is missing")
	}

	if s.opts.PreferPublicURL {
		if pub, ok := s.blobStore.(publicURLer); ok {
			if url, ok := pub.PublicURL(*export.ObjectKey); ok {
				return url, nil
			}
		}
	}

	url, err := s.blobStore.PresignGet(ctx, *export.ObjectKey, s.opts.PresignTTLSeconds)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url, nil
}

// ExportData returns the bytes of a local-mode export. Exports are immutable,
// so the returned slice stays valid after the export is evicted.
func (s *Service) ExportData(export *Export) ([]byte, string, error) {
	if !s.localMode {
		return nil, "", fmt.Errorf("S3 mode should use download URL redirect")
	}
	return export.Data, contentType(export.Format), nil
}

// insert stores export and returns whatever fell out of the retention window.
func (s *Service) insert(export *Export) []*Export {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exports[export.ID] = export
	s.order = append(s.order, export.ID)

	var evicted []*Export
	for len(s.order) > s.opts.MaxStored {
		oldest := s.order[0]
		s.order = s.order[1:]
		if old, ok := s.exports[oldest]; ok {
			evicted = append(evicted, old)
			delete(s.exports, oldest)
		}
	}
	return evicted
}

func (s *Service) deleteObject(ctx context.Context, export *Export) {
	if s.localMode || export.ObjectKey == nil {
		return
	}
	if err := s.blobStore.DeleteObject(ctx, *export.ObjectKey); err != nil {
		log.Printf("WARN exports: failed to delete object key=%s: %v", *export.ObjectKey, err)
	}
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
