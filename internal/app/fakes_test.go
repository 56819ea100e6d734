package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/Harsh636/TravelUttarakhandBackend/internal/domain"
)

type fakeRepo struct {
	mu        sync.Mutex
	rows      []domain.Trek
	createErr error
	getErr    error
	listCalls int
	getCalls  int
}

func (r *fakeRepo) CreateTrek(_ context.Context, t domain.NewTrek) (domain.Trek, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return domain.Trek{}, r.createErr
	}
	row := domain.Trek{
		ID: int64(len(r.rows) + 1), Name: t.Name, Duration: t.Duration, Difficulty: t.Difficulty,
		RealPrice: t.RealPrice, DiscountedPrice: t.DiscountedPrice,
		Image: t.Image, Banner: t.Banner, MainImage: t.MainImage,
		Heading: t.Heading, Overview: t.Overview, Highlight: t.Highlight,
		Details: t.Details, Itinerary: t.Itinerary,
	}
	r.rows = append(r.rows, row)
	return row, nil
}

func (r *fakeRepo) ListTreks(context.Context) ([]domain.TrekSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	out := []domain.TrekSummary{}
	for _, t := range r.rows {
		out = append(out, domain.TrekSummary{ID: t.ID, Name: t.Name, RealPrice: t.RealPrice, DiscountedPrice: t.DiscountedPrice, Image: t.Image})
	}
	return out, nil
}

func (r *fakeRepo) GetTrek(_ context.Context, id int64) (domain.Trek, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if r.getErr != nil {
		return domain.Trek{}, r.getErr
	}
	for _, t := range r.rows {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Trek{}, domain.ErrNotFound
}

type fakeFiles struct {
	mu      sync.Mutex
	n       int
	saved   map[string]string
	saveErr error // returned from the second Save on
}

func newFakeFiles() *fakeFiles { return &fakeFiles{saved: map[string]string{}} }

func (f *fakeFiles) Save(_ context.Context, name string, src io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil && f.n > 0 {
		return "", f.saveErr
	}
	b, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	f.n++
	ref := fmt.Sprintf("uploads/%d-%s", f.n, name)
	f.saved[ref] = string(b)
	return ref, nil
}

func (f *fakeFiles) Remove(_ context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, ref)
	return nil
}

// fakeCache stores JSON like the Redis adapter does.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	var n int64
	if b, ok := c.data[key]; ok {
		if err := json.Unmarshal(b, &n); err != nil {
			return 0, err
		}
	}
	n++
	c.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

var errBoom = errors.New("boom")

func pstr(s string) *string { return &s }

func upload(field, name, body string) Upload {
	return Upload{Field: field, Filename: name, Open: func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(body)), nil
	}}
}
