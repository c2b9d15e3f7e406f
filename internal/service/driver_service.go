package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"backoffice-service/internal/model"
	"backoffice-service/internal/repository"
)

type DriverStore interface {
	ListDrivers(ctx context.Context) ([]model.Driver, error)
	CountDrivers(ctx context.Context) (int64, error)
	CreateDriver(ctx context.Context, driver *model.Driver) error
}

type DriverService struct {
	drivers DriverStore
	log     zerolog.Logger
}

func NewDriverService(drivers DriverStore, log zerolog.Logger) *DriverService {
	return &DriverService{drivers: drivers, log: log}
}

func (s *DriverService) List(ctx context.Context) ([]model.Driver, error) {
	drivers, err := s.drivers.ListDrivers(ctx)
	if err != nil {
		return nil, translateStoreError(err, "list drivers")
	}
	return drivers, nil
}

// Seed loads drivers from an ID,NAME sheet when the table is empty. Both .csv
// and .xlsx files are accepted. Malformed and duplicate rows are logged and
// skipped. It returns the number of drivers inserted.
func (s *DriverService) Seed(ctx context.Context, path string) (int, error) {
	count, err := s.drivers.CountDrivers(ctx)
	if err != nil {
		return 0, fmt.Errorf("count drivers: %w", err)
	}
	if count > 0 {
		s.log.Debug().Int64("existing", count).Msg("driver table not empty, skipping seed")
		return 0, nil
	}

	rows, err := readSheet(path)
	if err != nil {
		return 0, err
	}
	return s.insertRows(ctx, path, rows)
}

func (s *DriverService) insertRows(ctx context.Context, source string, rows [][]string) (int, error) {
	inserted := 0
	for i, row := range rows {
		line := i + 1
		if i == 0 && isDriverHeader(row) {
			continue
		}
		driver, err := parseDriverRow(row)
		if err != nil {
			s.log.Warn().Str("file", source).Int("row", line).Err(err).Msg("skipping driver row")
			continue
		}
		err = s.drivers.CreateDriver(ctx, driver)
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			s.log.Warn().Str("file", source).Int("row", line).Int64("id", driver.ID).Msg("skipping duplicate driver")
		case err != nil:
			return inserted, fmt.Errorf("insert driver %d: %w", driver.ID, err)
		default:
			inserted++
		}
	}
	s.log.Info().Str("file", source).Int("inserted", inserted).Msg("drivers seeded")
	return inserted, nil
}

func readSheet(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		rows = append(rows, rec)
	}
}

func readXLSX(path string) ([][]string, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", path)
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

func isDriverHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "id")
}

func parseDriverRow(row []string) (*model.Driver, error) {
	if len(row) < 2 {
		return nil, fmt.Errorf("expected 2 columns, got %d", len(row))
	}
	id, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid id %q", row[0])
	}
	name := strings.TrimSpace(row[1])
	if name == "" {
		return nil, errors.New("empty name")
	}
	return &model.Driver{ID: id, Name: name}, nil
}
