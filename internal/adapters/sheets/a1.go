package sheets

import (
	"strconv"
	"strings"
)

// ColumnLetter converts a 0-based column index to its A1 letters:
// 0 -> "A", 8 -> "I", 25 -> "Z", 26 -> "AA".
func ColumnLetter(index int) string {
	if index < 0 {
		return ""
	}
	var b []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

// CellAddress builds "<sheet>!<col><row>", quoting sheet names that are
// not plain identifiers.
func CellAddress(sheetName string, col, row int) string {
	return quoteSheetName(sheetName) + "!" + ColumnLetter(col) + strconv.Itoa(row)
}

func quoteSheetName(name string) string {
	plain := name != ""
	for _, r := range name {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			plain = false
			break
		}
	}
	if plain {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
