package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"vcard-backend/internal/domains/employee/model"
)

// ========================================
// BULK IMPORT
// ========================================

// BulkImport parse file CSV/XLSX rồi tạo từng record tuần tự
// Row thiếu email bị skip, create lỗi đầu tiên dừng import (không rollback)
func (s *EmployeeService) BulkImport(
	ctx context.Context,
	filename string,
	r io.Reader,
	opts model.ImportOptions,
) (*model.ImportResult, error) {
	records, err := readRecords(filename, r)
	if err != nil {
		return nil, model.NewInvalidImportFile(err)
	}

	rows, err := mapRows(records)
	if err != nil {
		return nil, model.NewInvalidImportFile(err)
	}
	if s.opts.MaxImportRows > 0 && len(rows) > s.opts.MaxImportRows {
		return nil, model.NewInvalidImportFile(
			fmt.Errorf("file has %d rows, maximum is %d", len(rows), s.opts.MaxImportRows),
		)
	}

	result := &model.ImportResult{TotalRows: len(rows)}
	defer func() {
		s.metrics.CountImport(result.Created, result.Skipped)
	}()

	for _, row := range rows {
		if row.Email == "" {
			result.Skipped++
			continue
		}

		if opts.SkipExisting {
			existing, err := s.repo.FindByField(ctx, "email", row.Email)
			if err != nil {
				return result, model.NewImportFailed(row.Row, result.Created, err)
			}
			if len(existing) > 0 {
				result.Skipped++
				continue
			}
		}

		if _, err := s.repo.Create(ctx, s.rowToEmployee(row)); err != nil {
			log.Error().Err(err).
				Int("row", row.Row).
				Int("created", result.Created).
				Msg("bulk import stopped")
			return result, model.NewImportFailed(row.Row, result.Created, err)
		}
		result.Created++
	}

	log.Info().
		Str("file", filename).
		Int("total", result.TotalRows).
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Msg("bulk import completed")

	return result, nil
}

func (s *EmployeeService) rowToEmployee(row model.ImportRow) *model.Employee {
	company := row.Company
	if company == "" {
		company = s.opts.DefaultCompany
	}
	website := row.Website
	if website == "" {
		website = s.opts.DefaultWebsite
	}

	return &model.Employee{
		FullName:    row.FullName,
		Designation: row.Designation,
		Company:     company,
		Phone:       row.Phone,
		Email:       row.Email,
		Address:     row.Address,
		Website:     website,
		PhotoURL:    row.PhotoLink,
	}
}

// readRecords chọn parser theo extension
func readRecords(filename string, r io.Reader) ([][]string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return readCSV(r)
	case ".xlsx":
		return readXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q (only .csv and .xlsx)", ext)
	}
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return records, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// mapRows dùng record non-blank đầu tiên làm header
// Row number tính theo vị trí trong file, header là row 1 nếu file không có dòng trống phía trên
func mapRows(records [][]string) ([]model.ImportRow, error) {
	headerAt := -1
	for i, rec := range records {
		if !isBlank(rec) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, nil
	}

	index := make(map[string]int)
	for i, h := range records[headerAt] {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if name == "" {
			continue
		}
		if _, dup := index[name]; dup {
			return nil, errors.New("duplicate column " + h)
		}
		index[name] = i
	}
	for _, col := range model.RequiredImportColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	rows := make([]model.ImportRow, 0, len(records)-headerAt-1)
	for i := headerAt + 1; i < len(records); i++ {
		rec := records[i]
		if isBlank(rec) {
			continue
		}

		get := func(col string) string {
			idx, ok := index[col]
			if !ok || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}

		rows = append(rows, model.ImportRow{
			Row:         i + 1,
			FullName:    get(model.ColFullName),
			Designation: get(model.ColDesignation),
			Company:     get(model.ColCompany),
			Phone:       get(model.ColPhone),
			Email:       get(model.ColEmail),
			Address:     get(model.ColAddress),
			Website:     get(model.ColWebsite),
			PhotoLink:   get(model.ColPhotoLink),
		})
	}
	return rows, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
