package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/rs/zerolog/log"

	"github.com/Harsh636/TravelUttarakhandBackend/internal/domain"
)

// ImportService copies treks from a legacy deployment through the normal create path.
type ImportService struct {
	src   domain.LegacySource
	treks *TrekService
}

func NewImportService(src domain.LegacySource, treks *TrekService) *ImportService {
	return &ImportService{src: src, treks: treks}
}

func (s *ImportService) ListLegacy(ctx context.Context) ([]map[string]any, error) {
	return s.src.ListTreks(ctx)
}

// LegacyID extracts the upstream id of a listing entry.
func LegacyID(summary map[string]any) (int64, bool) {
	if id := firstInt64Flexible("id", summary); id != nil {
		return *id, true
	}
	return 0, false
}

func (s *ImportService) ImportTrek(ctx context.Context, summary map[string]any) (domain.TrekRecordView, error) {
	id, ok := LegacyID(summary)
	if !ok {
		return domain.TrekRecordView{}, fmt.Errorf("%w: legacy entry without id", domain.ErrInvalidInput)
	}

	// 1) Detail carries the composites and the two large images.
	detail, err := s.src.GetTrekDetail(ctx, id)
	if err != nil {
		return domain.TrekRecordView{}, fmt.Errorf("legacy detail %d: %w", id, err)
	}

	sub, urls := mapLegacy(summary, detail)

	// 2) Images: a missing upstream file is logged and skipped.
	for _, field := range []string{FieldImage, FieldBanner, FieldMainImage} {
		u, ok := urls[field]
		if !ok {
			continue
		}
		b, err := s.src.Download(ctx, u)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				log.Warn().Int64("legacy_id", id).Str("field", field).Str("url", u).Msg("legacy image missing")
				continue
			}
			return domain.TrekRecordView{}, fmt.Errorf("download %s for %d: %w", field, id, err)
		}
		sub.Files = append(sub.Files, Upload{
			Field:    field,
			Filename: fileNameOf(u),
			Open:     func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(b)), nil },
		})
	}

	// 3) Same validation and storage as an HTTP submission.
	return s.treks.CreateTrek(ctx, sub)
}

func fileNameOf(raw string) string {
	if p, err := url.Parse(raw); err == nil && p.Path != "" {
		return path.Base(p.Path)
	}
	return path.Base(raw)
}
