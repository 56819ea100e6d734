package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	driver "github.com/go-sql-driver/mysql"

	"github.com/Harsh636/TravelUttarakhandBackend/internal/domain"
)

// MySQL server error numbers that mean the client sent something unstorable.
const (
	erDataTooLong       = 1406
	erTruncatedWrongVal = 1366
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Ping(ctx context.Context) error {
	var one int
	return r.db.QueryRowContext(ctx, pingSQL).Scan(&one)
}

func (r *Repo) CreateTrek(ctx context.Context, t domain.NewTrek) (domain.Trek, error) {
	details, err := encodeComposite(t.Details)
	if err != nil {
		return domain.Trek{}, fmt.Errorf("encode details: %w", err)
	}
	itinerary, err := encodeComposite(t.Itinerary)
	if err != nil {
		return domain.Trek{}, fmt.Errorf("encode itinerary: %w", err)
	}

	res, err := r.db.ExecContext(ctx, insertTrekSQL,
		t.Name,
		valStr(t.Duration),
		valStr(t.Difficulty),
		t.RealPrice,
		t.DiscountedPrice,
		valStr(t.Image),
		valStr(t.Banner),
		valStr(t.MainImage),
		valStr(t.Heading),
		details,
		valStr(t.Overview),
		valStr(t.Highlight),
		itinerary,
	)
	if err != nil {
		return domain.Trek{}, classifyWrite(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Trek{}, fmt.Errorf("last insert id: %w", err)
	}

	return domain.Trek{
		ID:              id,
		Name:            t.Name,
		Duration:        t.Duration,
		Difficulty:      t.Difficulty,
		RealPrice:       t.RealPrice,
		DiscountedPrice: t.DiscountedPrice,
		Image:           t.Image,
		Banner:          t.Banner,
		MainImage:       t.MainImage,
		Heading:         t.Heading,
		Overview:        t.Overview,
		Highlight:       t.Highlight,
		Details:         t.Details,
		Itinerary:       t.Itinerary,
	}, nil
}

// classifyWrite maps column-limit rejections to invalid input; everything
// else stays a storage error.
func classifyWrite(err error) error {
	var me *driver.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case erDataTooLong, erTruncatedWrongVal:
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, me.Message)
		}
	}
	return fmt.Errorf("insert trek: %w", err)
}

func (r *Repo) ListTreks(ctx context.Context) ([]domain.TrekSummary, error) {
	rows, err := r.db.QueryContext(ctx, listTreksSQL)
	if err != nil {
		return nil, fmt.Errorf("list treks: %w", err)
	}
	defer rows.Close()

	out := []domain.TrekSummary{}
	for rows.Next() {
		var t domain.TrekSummary
		var duration, difficulty, image sql.NullString
		if err := rows.Scan(
			&t.ID,
			&t.Name,
			&duration,
			&difficulty,
			&t.RealPrice,
			&t.DiscountedPrice,
			&image,
		); err != nil {
			return nil, fmt.Errorf("scan trek: %w", err)
		}
		t.Duration = strPtr(duration)
		t.Difficulty = strPtr(difficulty)
		t.Image = strPtr(image)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list treks: %w", err)
	}
	return out, nil
}

func (r *Repo) GetTrek(ctx context.Context, id int64) (domain.Trek, error) {
	row := r.db.QueryRowContext(ctx, getTrekSQL, id)

	var t domain.Trek
	var (
		duration, difficulty         sql.NullString
		image, banner, mainImage     sql.NullString
		heading, overview, highlight sql.NullString
		detailsRaw, itineraryRaw     sql.NullString
	)
	if err := row.Scan(
		&t.ID,
		&t.Name,
		&duration,
		&difficulty,
		&t.RealPrice,
		&t.DiscountedPrice,
		&image,
		&banner,
		&mainImage,
		&heading,
		&overview,
		&highlight,
		&detailsRaw,
		&itineraryRaw,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Trek{}, domain.ErrNotFound
		}
		return domain.Trek{}, fmt.Errorf("get trek %d: %w", id, err)
	}

	t.Duration = strPtr(duration)
	t.Difficulty = strPtr(difficulty)
	t.Image = strPtr(image)
	t.Banner = strPtr(banner)
	t.MainImage = strPtr(mainImage)
	t.Heading = strPtr(heading)
	t.Overview = strPtr(overview)
	t.Highlight = strPtr(highlight)

	var err error
	if t.Details, err = decodeDetails(detailsRaw); err != nil {
		return domain.Trek{}, fmt.Errorf("trek %d: %w", id, err)
	}
	if t.Itinerary, err = decodeItinerary(itineraryRaw); err != nil {
		return domain.Trek{}, fmt.Errorf("trek %d: %w", id, err)
	}
	return t, nil
}
