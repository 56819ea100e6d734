package mysql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	driver "github.com/go-sql-driver/mysql"

	"github.com/Harsh636/TravelUttarakhandBackend/internal/domain"
	mysqlrepo "github.com/Harsh636/TravelUttarakhandBackend/internal/storage/mysql"
)

func pstr(s string) *string { return &s }

var detailColumns = []string{
	"id", "name", "duration", "difficulty", "realprice", "discountedprice",
	"image", "banner", "mainimage", "heading", "overview", "highlight", "details", "itinerary",
}

func newMock(t *testing.T) (*mysqlrepo.Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return mysqlrepo.New(db), mock
}

func TestCreateTrek_PacksComposites(t *testing.T) {
	repo, mock := newMock(t)

	in := domain.NewTrek{
		Name:            "Valley of Flowers",
		Duration:        pstr("4 Days"),
		RealPrice:       5000,
		DiscountedPrice: 4200,
		Image:           pstr("uploads/a.jpg"),
		Details:         domain.TrekDetails{Altitude: pstr("3800m"), BestSeason: pstr("Jul-Sep")},
		Itinerary:       domain.Itinerary{DayHighlight: pstr("Day1;Day2")},
	}

	mock.ExpectExec("INSERT INTO treks").
		WithArgs(
			"Valley of Flowers", "4 Days", nil, 5000.0, 4200.0,
			"uploads/a.jpg", nil, nil, nil,
			`{"altitude":"3800m","distance":null,"transportation":null,"meals":null,"bestSeason":"Jul-Sep","trekType":null}`,
			nil, nil,
			`{"dayHighlight":"Day1;Day2","dayExplain":null}`,
		).
		WillReturnResult(sqlmock.NewResult(42, 1))

	got, err := repo.CreateTrek(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateTrek: %v", err)
	}
	if got.ID != 42 || got.Name != in.Name || got.Image == nil || *got.Image != "uploads/a.jpg" {
		t.Fatalf("unexpected trek: %+v", got)
	}
	if got.Details.Altitude == nil || *got.Details.Altitude != "3800m" {
		t.Fatalf("details not carried over: %+v", got.Details)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateTrek_DataTooLongIsInvalidInput(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("INSERT INTO treks").
		WillReturnError(&driver.MySQLError{Number: 1406, Message: "Data too long for column 'name' at row 1"})

	_, err := repo.CreateTrek(context.Background(), domain.NewTrek{Name: "x"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateTrek_OtherErrorsStayStorageErrors(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("INSERT INTO treks").WillReturnError(errors.New("connection refused"))

	_, err := repo.CreateTrek(context.Background(), domain.NewTrek{Name: "x"})
	if err == nil || errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected plain storage error, got %v", err)
	}
}

func TestListTreks_OrderedByID(t *testing.T) {
	repo, mock := newMock(t)

	rows := sqlmock.NewRows([]string{"id", "name", "duration", "difficulty", "realprice", "discountedprice", "image"}).
		AddRow(1, "Kedarkantha", "6 Days", "Easy", 8000.0, 6500.0, "uploads/k.jpg").
		AddRow(2, "Har Ki Dun", nil, nil, 9000.0, 7000.0, nil)
	mock.ExpectQuery("SELECT id, name, duration, difficulty, realprice, discountedprice, image\\s+FROM treks\\s+ORDER BY id ASC").
		WillReturnRows(rows)

	got, err := repo.ListTreks(context.Background())
	if err != nil {
		t.Fatalf("ListTreks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 treks, got %d", len(got))
	}
	if got[0].ID != 1 || got[0].Image == nil || *got[0].Image != "uploads/k.jpg" {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
	if got[1].Image != nil || got[1].Duration != nil {
		t.Fatalf("NULL columns must stay nil: %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListTreks_EmptyIsNotNil(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("FROM treks").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "duration", "difficulty", "realprice", "discountedprice", "image"}))

	got, err := repo.ListTreks(context.Background())
	if err != nil {
		t.Fatalf("ListTreks: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestGetTrek_UnpacksComposites(t *testing.T) {
	repo, mock := newMock(t)

	rows := sqlmock.NewRows(detailColumns).AddRow(
		7, "Valley of Flowers", "4 Days", "Moderate", 5000.0, 4200.0,
		"uploads/i.jpg", "uploads/b.jpg", nil, "Heading", "Overview", "Highlight",
		`{"altitude":"3800m","distance":"38km","transportation":"Bus","meals":"Included","bestSeason":"Jul-Sep","trekType":"Trek"}`,
		`{"dayHighlight":"Day1;Day2","dayExplain":"..."}`,
	)
	mock.ExpectQuery("FROM treks\\s+WHERE id = \\?").WithArgs(int64(7)).WillReturnRows(rows)

	got, err := repo.GetTrek(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetTrek: %v", err)
	}
	if got.Details.TrekType == nil || *got.Details.TrekType != "Trek" {
		t.Fatalf("details not decoded: %+v", got.Details)
	}
	if got.Itinerary.DayExplain == nil || *got.Itinerary.DayExplain != "..." {
		t.Fatalf("itinerary not decoded: %+v", got.Itinerary)
	}
	if got.MainImage != nil {
		t.Fatalf("expected nil mainImage, got %q", *got.MainImage)
	}
}

func TestGetTrek_MissingKeysStayNil(t *testing.T) {
	repo, mock := newMock(t)

	rows := sqlmock.NewRows(detailColumns).AddRow(
		8, "Nag Tibba", nil, nil, 3000.0, 2500.0,
		nil, nil, nil, nil, nil, nil,
		`{"altitude":"3022m"}`, nil,
	)
	mock.ExpectQuery("FROM treks").WithArgs(int64(8)).WillReturnRows(rows)

	got, err := repo.GetTrek(context.Background(), 8)
	if err != nil {
		t.Fatalf("GetTrek: %v", err)
	}
	if got.Details.Altitude == nil || got.Details.Meals != nil || got.Itinerary.DayHighlight != nil {
		t.Fatalf("unexpected composites: %+v %+v", got.Details, got.Itinerary)
	}
}

func TestGetTrek_NotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("FROM treks").WithArgs(int64(99)).WillReturnRows(sqlmock.NewRows(detailColumns))

	_, err := repo.GetTrek(context.Background(), 99)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetTrek_CorruptComposite(t *testing.T) {
	repo, mock := newMock(t)

	rows := sqlmock.NewRows(detailColumns).AddRow(
		9, "Broken", nil, nil, 1.0, 1.0,
		nil, nil, nil, nil, nil, nil,
		`{"altitude":`, `{"dayHighlight":"x"}`,
	)
	mock.ExpectQuery("FROM treks").WithArgs(int64(9)).WillReturnRows(rows)

	_, err := repo.GetTrek(context.Background(), 9)
	if !errors.Is(err, domain.ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("corrupt record must not look like not-found")
	}
}

func TestGetTrek_QueryErrorIsNeitherNotFoundNorCorrupt(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("FROM treks").WithArgs(int64(1)).WillReturnError(errors.New("connection reset"))

	_, err := repo.GetTrek(context.Background(), 1)
	if err == nil || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrCorruptRecord) {
		t.Fatalf("unexpected classification: %v", err)
	}
}
