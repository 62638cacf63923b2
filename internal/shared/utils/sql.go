package utils

import (
	"fmt"
	"strings"
)

// Where gom các điều kiện WHERE động và đánh số placeholder $1, $2...
type Where struct {
	clauses []string
	args    []any
}

// Add thêm một điều kiện. Dùng "?" trong clause, sẽ được thay bằng $n
func (w *Where) Add(clause string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.clauses = append(w.clauses, clause)
}

// SQL trả về "WHERE a AND b" hoặc chuỗi rỗng
func (w *Where) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return "WHERE " + JoinWithAnd(w.clauses)
}

func (w *Where) Args() []any { return w.args }

// Next trả về placeholder kế tiếp (dùng cho LIMIT/OFFSET sau WHERE)
func (w *Where) Next(arg any) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}
