package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"travelplanner/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func expectTripLock(mock sqlmock.Sqlmock, tripID string, found bool) {
	rows := sqlmock.NewRows([]string{"id"})
	if found {
		rows.AddRow(tripID)
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM trips WHERE id = ? FOR UPDATE")).
		WithArgs(tripID).
		WillReturnRows(rows)
}

func TestLocationAppendUsesCountAsOrder(t *testing.T) {
	db, mock := newMockDB(t)
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	expectTripLock(mock, "trip-1", true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM locations WHERE trip_id = ?")).
		WithArgs("trip-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec("INSERT INTO locations").
		WithArgs("loc-4", "trip-1", 35.6595, 139.7005, "Shibuya, Tokyo", 3, created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := LocationRepository{DB: db}
	got, err := repo.Append(context.Background(), models.Location{
		ID:        "loc-4",
		TripID:    "trip-1",
		Lat:       35.6595,
		Lng:       139.7005,
		Title:     "Shibuya, Tokyo",
		Order:     99,
		CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("append error: %v", err)
	}
	if got.Order != 3 {
		t.Fatalf("expected order 3, got %d", got.Order)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLocationAppendUnknownTripRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	expectTripLock(mock, "missing", false)
	mock.ExpectRollback()

	_, err := LocationRepository{DB: db}.Append(context.Background(), models.Location{ID: "l", TripID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func expectCurrentOrder(mock sqlmock.Sqlmock, tripID string, ids ...string) {
	rows := sqlmock.NewRows([]string{"id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM locations WHERE trip_id = ? ORDER BY sort_order ASC FOR UPDATE")).
		WithArgs(tripID).
		WillReturnRows(rows)
}

func TestLocationReorderUpdatesEveryRowInOneTx(t *testing.T) {
	db, mock := newMockDB(t)
	update := regexp.QuoteMeta("UPDATE locations SET sort_order = ? WHERE id = ? AND trip_id = ?")

	mock.ExpectBegin()
	expectTripLock(mock, "trip-1", true)
	expectCurrentOrder(mock, "trip-1", "a", "b", "c")
	mock.ExpectExec(update).WithArgs(0, "c", "trip-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(update).WithArgs(1, "a", "trip-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(update).WithArgs(2, "b", "trip-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var seen []string
	err := LocationRepository{DB: db}.Reorder(context.Background(), "trip-1", []string{"c", "a", "b"}, func(current []string) error {
		seen = current
		return nil
	})
	if err != nil {
		t.Fatalf("reorder error: %v", err)
	}
	if len(seen) != 3 || seen[0] != "a" || seen[2] != "c" {
		t.Fatalf("validate received %v", seen)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLocationReorderVetoWritesNothing(t *testing.T) {
	db, mock := newMockDB(t)
	veto := errors.New("not a permutation")

	mock.ExpectBegin()
	expectTripLock(mock, "trip-1", true)
	expectCurrentOrder(mock, "trip-1", "a", "b")
	mock.ExpectRollback()

	err := LocationRepository{DB: db}.Reorder(context.Background(), "trip-1", []string{"a", "x"}, func([]string) error {
		return veto
	})
	if !errors.Is(err, veto) {
		t.Fatalf("expected veto error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLocationReorderFailedUpdateRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	update := regexp.QuoteMeta("UPDATE locations SET sort_order = ? WHERE id = ? AND trip_id = ?")

	mock.ExpectBegin()
	expectTripLock(mock, "trip-1", true)
	expectCurrentOrder(mock, "trip-1", "a", "b")
	mock.ExpectExec(update).WithArgs(0, "b", "trip-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(update).WithArgs(1, "a", "trip-1").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := LocationRepository{DB: db}.Reorder(context.Background(), "trip-1", []string{"b", "a"}, nil)
	if err == nil {
		t.Fatalf("expected error from failed update")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountCreateDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO accounts").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.c' for key 'uq_accounts_email'"})

	hash := "x"
	err := AccountRepository{DB: db}.Create(context.Background(), models.Account{
		ID:           "acc-1",
		Email:        "a@b.c",
		Name:         "A",
		PasswordHash: &hash,
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestAccountFindIdentityNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM oauth_identities").
		WithArgs("github", "42").
		WillReturnRows(sqlmock.NewRows([]string{"provider", "provider_account_id", "account_id", "created_at"}))

	_, err := AccountRepository{DB: db}.FindIdentity(context.Background(), "github", "42")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTripGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM trips WHERE id = ").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := TripRepository{DB: db}.GetTrip(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTripsByOwnerSortsByStartDate(t *testing.T) {
	db, mock := newMockDB(t)
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "owner_id", "name", "destination", "country", "state", "category", "start_date", "end_date", "image_url", "created_at", "updated_at"}
	mock.ExpectQuery(`WHERE owner_id = \?\s+ORDER BY start_date ASC`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("t1", "owner-1", "Japan", "Tokyo", "Japan", nil, nil, start, start.AddDate(0, 0, 7), nil, start, start))

	trips, err := TripRepository{DB: db}.ListTripsByOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(trips) != 1 || trips[0].Name != "Japan" || trips[0].State != nil {
		t.Fatalf("unexpected trips: %+v", trips)
	}
	if trips[0].Country == nil || *trips[0].Country != "Japan" {
		t.Fatalf("expected country Japan, got %v", trips[0].Country)
	}
}
