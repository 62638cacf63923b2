package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type ExcelRenderer struct{}

func NewExcelRenderer() *ExcelRenderer {
	return &ExcelRenderer{}
}

func (r *ExcelRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *ExcelRenderer) Extension() string { return "xlsx" }

// Render: sheet = title, cột Ingredient / Unit / Amount
func (r *ExcelRenderer) Render(title string, rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := title
	// Rename default sheet
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	// Row 1: Header
	headers := []string{"Ingredient", "Unit", "Amount"}
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "C1", headerStyle)
	}
	f.SetColWidth(sheetName, "A", "A", 32)
	f.SetColWidth(sheetName, "B", "C", 14)

	// Data rows, bắt đầu từ row 2
	for i, row := range rows {
		rowNum := i + 2
		cell := func(col int) string {
			name, _ := excelize.CoordinatesToCellName(col, rowNum)
			return name
		}

		f.SetCellValue(sheetName, cell(1), row.Name)
		f.SetCellValue(sheetName, cell(2), row.Unit)
		f.SetCellValue(sheetName, cell(3), row.Quantity)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
