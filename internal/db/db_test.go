package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"backoffice-service/internal/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := Open(DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := runMigrations(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = Close(database) })
	return database
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "dsn", nil); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestMigrateAndHealthCheck(t *testing.T) {
	database := openTestDB(t)
	if err := HealthCheck(context.Background(), database); err != nil {
		t.Fatalf("health check: %v", err)
	}
	for _, m := range model.AllModels() {
		if !database.Migrator().HasTable(m) {
			t.Fatalf("table for %T missing", m)
		}
	}
}

func TestDuplicateKeyIsTranslated(t *testing.T) {
	database := openTestDB(t)
	if err := database.Create(&model.Driver{ID: 1, Name: "A"}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	err := database.Create(&model.Driver{ID: 1, Name: "B"}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
}
