// utils/csv.go - CSV encoding for admin exports
package utils

import "strings"

// ConvertToCSV renders records as comma-separated text with a header row.
// Column order follows headers; missing values become empty cells. Fields
// containing commas, quotes or newlines are double-quote escaped.
func ConvertToCSV(records []map[string]string, headers []string) string {
	if len(records) == 0 || len(headers) == 0 {
		return ""
	}

	var b strings.Builder
	for i, header := range headers {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeCSVField(header))
	}

	for _, record := range records {
		b.WriteByte('\n')
		for i, header := range headers {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCSVField(record[header]))
		}
	}
	return b.String()
}

func escapeCSVField(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}
