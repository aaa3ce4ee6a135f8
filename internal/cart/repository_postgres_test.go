package cart

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresRepository_Items(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows([]string{"product_id", "store_id", "name", "price", "stock", "is_active", "quantity"}).
		AddRow(1, 2, "Khon Mask", "100.00", 5, true, 2).
		AddRow(4, 0, "Tea Cup", "890.50", 1, false, 1)
	mock.ExpectQuery("FROM cart_lines c").WithArgs(int64(42)).WillReturnRows(rows)

	items, err := repo.Items(context.Background(), 42)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Khon Mask" || items[1].IsActive {
		t.Fatalf("unexpected items %+v", items)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_GetLineAndSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("FROM cart_lines").WithArgs(int64(42), int64(1)).WillReturnError(sql.ErrNoRows)
	if _, err := repo.GetLine(ctx, 42, 1); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}

	now := time.Now()
	mock.ExpectExec("ON CONFLICT \\(user_id, product_id\\)").
		WithArgs(int64(42), int64(1), 3, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Save(ctx, Line{UserID: 42, ProductID: 1, Quantity: 3, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_DeleteAndClear(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM cart_lines WHERE user_id = \\$1 AND product_id = \\$2").
		WithArgs(int64(42), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(ctx, 42, 5); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}

	mock.ExpectExec("DELETE FROM cart_lines WHERE user_id = \\$1 AND product_id = \\$2").
		WithArgs(int64(42), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(ctx, 42, 5); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	mock.ExpectExec("DELETE FROM cart_lines WHERE user_id = \\$1").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	if err := repo.Clear(ctx, 42); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
