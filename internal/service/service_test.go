package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"

	"backoffice-service/internal/db"
	"backoffice-service/internal/model"
	"backoffice-service/internal/upstream"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := db.Open(db.DriverSQLite, fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(database) })
	return database
}

func fieldPaths(err error) []string {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	paths := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		paths = append(paths, f.Path)
	}
	return paths
}

func hasPath(err error, path string) bool {
	for _, p := range fieldPaths(err) {
		if p == path {
			return true
		}
	}
	return false
}

// missUpstream answers every lookup with a miss and counts calls.
type missUpstream struct {
	calls int
}

func (u *missUpstream) Plan(context.Context, string) (*model.Plan, error) {
	u.calls++
	return nil, upstream.ErrNotFound
}

func (u *missUpstream) PlansByDateAndUser(context.Context, string, string) ([]model.Plan, error) {
	u.calls++
	return nil, upstream.ErrNotFound
}

func (u *missUpstream) RouteGroup(context.Context, string) (*model.RouteGroup, error) {
	u.calls++
	return nil, upstream.ErrNotFound
}

func (u *missUpstream) Route(context.Context, string, string) (*model.Route, error) {
	u.calls++
	return nil, upstream.ErrNotFound
}

func (u *missUpstream) DispatchRoute(context.Context, int64) (*model.DispatchRoute, error) {
	u.calls++
	return nil, upstream.ErrNotFound
}
