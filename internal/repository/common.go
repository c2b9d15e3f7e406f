package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backoffice-service/internal/model"
	"backoffice-service/internal/validation"
)

// ErrAlreadyExists is returned when an insert-if-absent finds the primary key taken.
var ErrAlreadyExists = errors.New("record already exists")

// RefGroup splits the references of one kind. Inline rows are created when
// absent; bare ids must already exist.
type RefGroup[T any] struct {
	Inline   []T
	Existing []RefID
}

// RefID is a bare reference and the request field it came from.
type RefID struct {
	ID   interface{}
	Path string
}

// References holds the reference entities a nested write connects to.
type References struct {
	Customers            RefGroup[model.Customer]
	Addresses            RefGroup[model.Address]
	Products             RefGroup[model.Product]
	SalesRepresentatives RefGroup[model.SalesRepresentative]
	OrderGroups          RefGroup[model.OrderGroup]
	TruckTypes           RefGroup[model.TruckType]
	Trucks               RefGroup[model.Truck]
	BusinessSegments     RefGroup[model.BusinessSegment]
	PointsOfInterest     RefGroup[model.PointOfInterest]
	Drivers              RefGroup[model.Driver]
}

// MissingReferencesError lists the bare ids that matched no stored row.
type MissingReferencesError struct {
	Fields []validation.FieldError
}

func (e *MissingReferencesError) Error() string {
	paths := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		paths = append(paths, f.Path)
	}
	return "unknown references: " + strings.Join(paths, ", ")
}

func insertIfAbsent(tx *gorm.DB, value interface{}) error {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// updateRow writes every column of value except associations, created_at and
// the extra columns named in omit.
func updateRow(tx *gorm.DB, value interface{}, omit ...string) error {
	res := tx.Model(value).
		Select("*").
		Omit(append([]string{clause.Associations, "created_at"}, omit...)...).
		Updates(value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func deleteRow(tx *gorm.DB, value interface{}, query string, args ...interface{}) error {
	res := tx.Where(query, args...).Delete(value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func createAll[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

func connectOrCreate[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// connect creates the inline rows of group, then reports every bare id that
// still has no row.
func connect[T any](tx *gorm.DB, group RefGroup[T], missing *[]validation.FieldError) error {
	if err := connectOrCreate(tx, group.Inline); err != nil {
		return err
	}
	for _, ref := range group.Existing {
		var count int64
		if err := tx.Model(new(T)).Where("id = ?", ref.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			*missing = append(*missing, validation.FieldError{
				Path:    ref.Path,
				Message: fmt.Sprintf("references unknown id %v", ref.ID),
			})
		}
	}
	return nil
}

// saveReferences runs inside the caller's transaction, so a
// MissingReferencesError rolls back the inline rows created before it.
func saveReferences(tx *gorm.DB, refs References) error {
	var missing []validation.FieldError
	steps := []func() error{
		func() error { return connect(tx, refs.Customers, &missing) },
		func() error { return connect(tx, refs.Addresses, &missing) },
		func() error { return connect(tx, refs.Products, &missing) },
		func() error { return connect(tx, refs.SalesRepresentatives, &missing) },
		func() error { return connect(tx, refs.OrderGroups, &missing) },
		func() error { return connect(tx, refs.TruckTypes, &missing) },
		func() error { return connect(tx, refs.Trucks, &missing) },
		func() error { return connect(tx, refs.BusinessSegments, &missing) },
		func() error { return connect(tx, refs.PointsOfInterest, &missing) },
		func() error { return connect(tx, refs.Drivers, &missing) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	if len(missing) > 0 {
		return &MissingReferencesError{Fields: missing}
	}
	return nil
}
