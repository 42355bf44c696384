package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestWithinTransactionCommitsOnSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE widgets").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = WithinTransaction(context.Background(), db, func(tx *sql.Tx) error {
		_, err := tx.Exec("UPDATE widgets SET n = n + 1")
		return err
	})
	if err != nil {
		t.Fatalf("expected commit, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWithinTransactionRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()

	err = WithinTransaction(context.Background(), db, func(tx *sql.Tx) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected original error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConstraintClassification(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "orders_order_number_key"}
	fk := &pgconn.PgError{Code: "23503"}

	if !IsUniqueViolation(unique) {
		t.Fatal("expected unique violation")
	}
	if IsUniqueViolation(fk) {
		t.Fatal("23503 is not a unique violation")
	}
	if !IsForeignKeyViolation(fk) {
		t.Fatal("expected foreign key violation")
	}
	if got := ConstraintName(unique); got != "orders_order_number_key" {
		t.Fatalf("unexpected constraint name %q", got)
	}

	wrapped := fmt.Errorf("insert order: %w", unique)
	if !IsUniqueViolation(wrapped) {
		t.Fatal("wrapped errors should still classify")
	}
	if ConstraintName(errors.New("plain")) != "" {
		t.Fatal("non-pg errors have no constraint name")
	}
}
