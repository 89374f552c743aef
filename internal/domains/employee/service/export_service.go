package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"vcard-backend/internal/domains/employee/model"
)

const exportSheetName = "Employees"

// ExportToExcel xuất toàn bộ employees theo thứ tự dashboard
// Header giống file import nên file export import lại được
func (s *EmployeeService) ExportToExcel(ctx context.Context) (*excelize.File, error) {
	employees, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}

	f, err := buildEmployeesExcelFile(employees)
	if err != nil {
		s.metrics.CountExport("xlsx", "error")
		return nil, err
	}
	s.metrics.CountExport("xlsx", "ok")
	return f, nil
}

func buildEmployeesExcelFile(employees []*model.Employee) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for colIdx, header := range model.ExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(exportSheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(model.ExportHeaders), 1)
		f.SetCellStyle(exportSheetName, "A1", lastCol, headerStyle)
	}

	for i, e := range employees {
		rowNum := i + 2
		values := []string{
			e.FullName,
			e.Designation,
			e.Company,
			e.Phone,
			e.Email,
			e.Address,
			e.Website,
			e.PhotoURL,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			f.SetCellValue(exportSheetName, cell, v)
		}
	}

	return f, nil
}
