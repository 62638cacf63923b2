// Package export render danh sách mua sắm thành file tải về (PDF, XLSX).
package export

import "fmt"

// Row là một dòng đã tổng hợp, hiển thị dạng "Salt, g – 12"
type Row struct {
	Name     string
	Unit     string
	Amount   string  // đã format để hiển thị
	Quantity float64 // giá trị số cho spreadsheet
}

func (r Row) String() string {
	return fmt.Sprintf("%s, %s – %s", r.Name, r.Unit, r.Amount)
}

// Renderer được implement bởi PDFRenderer và ExcelRenderer
type Renderer interface {
	Render(title string, rows []Row) ([]byte, error)
	ContentType() string
	Extension() string
}
