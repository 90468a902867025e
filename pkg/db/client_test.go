package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testModel struct {
	ID   int
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestWithTxRetry_RetriesSerializationFailures(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}

	attempts := 0
	err := client.WithTxRetry(context.Background(), func(tx *gorm.DB) error {
		attempts++
		if attempts < 3 {
			return &pgconn.PgError{Code: pgCodeSerializationFailure, Message: "could not serialize access"}
		}
		return tx.Create(&testModel{Name: "settled"}).Error
	})
	if err != nil {
		t.Fatalf("WithTxRetry failed: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}

	var count int64
	if err := db.Model(&testModel{}).Where("name = ?", "settled").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected retried tx to commit once, got %d rows", count)
	}
}

func TestWithTxRetry_DoesNotRetryOtherErrors(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}

	attempts := 0
	err := client.WithTxRetry(context.Background(), func(tx *gorm.DB) error {
		attempts++
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTxRetry to return the error")
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestIsRetryableTxError(t *testing.T) {
	if IsRetryableTxError(nil) {
		t.Fatal("nil should not be retryable")
	}
	if IsRetryableTxError(errors.New("boom")) {
		t.Fatal("plain errors should not be retryable")
	}
	deadlock := &pgconn.PgError{Code: pgCodeDeadlockDetected}
	if !IsRetryableTxError(deadlock) {
		t.Fatal("deadlock should be retryable")
	}
	wrapped := &pgconn.PgError{Code: pgCodeSerializationFailure}
	if !IsRetryableTxError(errors.Join(errors.New("tx"), wrapped)) {
		t.Fatal("wrapped serialization failure should be retryable")
	}
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}
