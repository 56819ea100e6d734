package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/Harsh636/TravelUttarakhandBackend/internal/domain"
)

// The listing is cached under a generation number. A create bumps the
// generation after its insert, so a reader that loaded rows before the insert
// can only store them under a key nobody reads any more.
const listGenKey = "treks:gen"

func listCacheKey(gen int64) string { return "treks:list:" + strconv.FormatInt(gen, 10) }

func trekCacheKey(id int64) string { return "trek:" + strconv.FormatInt(id, 10) }

type TrekService struct {
	repo  domain.TrekRepository
	files domain.FileStore
	cache domain.Cache
	links LinkResolver
}

func NewTrekService(r domain.TrekRepository, f domain.FileStore, cache domain.Cache, l LinkResolver) *TrekService {
	return &TrekService{repo: r, files: f, cache: cache, links: l}
}

// CreateTrek validates, stores the files, then inserts one row.
// Files already written are removed again if anything after them fails.
func (s *TrekService) CreateTrek(ctx context.Context, sub Submission) (domain.TrekRecordView, error) {
	// 1) Reject bad input before touching the disk.
	if err := sub.Validate(); err != nil {
		return domain.TrekRecordView{}, err
	}

	// 2) Files first; the row references them.
	refs := make(map[string]string, len(sub.Files))
	for _, u := range sub.Files {
		ref, err := s.store(ctx, u)
		if err != nil {
			s.discard(ctx, refs)
			return domain.TrekRecordView{}, fmt.Errorf("store %s: %w", u.Field, err)
		}
		refs[u.Field] = ref
	}

	nt, err := toNewTrek(sub, refs)
	if err != nil {
		s.discard(ctx, refs)
		return domain.TrekRecordView{}, err
	}

	// 3) Single insert.
	t, err := s.repo.CreateTrek(ctx, nt)
	if err != nil {
		s.discard(ctx, refs)
		return domain.TrekRecordView{}, fmt.Errorf("create trek: %w", err)
	}

	// New row changes the listing only; no detail entry can exist for a fresh id.
	if s.cache != nil {
		if _, err := s.cache.Incr(ctx, listGenKey); err != nil {
			log.Warn().Err(err).Msg("list generation not bumped")
		}
	}

	log.Info().Int64("id", t.ID).Str("name", t.Name).Int("files", len(refs)).Msg("trek created")
	return recordView(t, s.links), nil
}

func (s *TrekService) store(ctx context.Context, u Upload) (string, error) {
	rc, err := u.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	ref, err := s.files.Save(ctx, u.Filename, rc)
	if err != nil {
		return "", err
	}
	log.Debug().Str("field", u.Field).Str("original", u.Filename).Str("ref", ref).Msg("upload stored")
	return ref, nil
}

// discard removes files of a failed submission. Best effort.
func (s *TrekService) discard(ctx context.Context, refs map[string]string) {
	ctx = context.WithoutCancel(ctx)
	for field, ref := range refs {
		if err := s.files.Remove(ctx, ref); err != nil {
			log.Warn().Err(err).Str("field", field).Str("ref", ref).Msg("orphaned upload not removed")
		}
	}
}
