package loader

import (
	"strconv"
	"strings"

	"fraudview/internal/model"

	"golang.org/x/text/unicode/norm"
)

// Alternate spellings accepted for the canonical columns, compared after
// normalizeKey.
var columnAliases = map[string]string{
	"transactionid":  model.ColumnID,
	"transaction_id": model.ColumnID,
	"id":             model.ColumnID,
	"isfraud":        model.ColumnLabel,
	"is_fraud":       model.ColumnLabel,
	"label":          model.ColumnLabel,
	"fraud":          model.ColumnLabel,
}

// NormalizeHeader cleans a header cell and maps known aliases onto the
// canonical id and label names. Unknown headers are returned cleaned but
// otherwise as written.
func NormalizeHeader(h string) string {
	h = cleanCell(h)
	if canonical, ok := columnAliases[normalizeKey(h)]; ok {
		return canonical
	}
	return h
}

func normalizeKey(h string) string {
	return strings.ToLower(strings.ReplaceAll(h, " ", "_"))
}

// cleanCell applies NFKC normalization, strips a UTF-8 BOM and trims space.
func cleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.TrimSpace(norm.NFKC.String(s))
}

// ParseLabel accepts the binary encodings seen in exported result files.
func ParseLabel(s string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return model.LabelFraud, true
	case "0", "false", "no":
		return model.LabelLegit, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	switch f {
	case 1:
		return model.LabelFraud, true
	case 0:
		return model.LabelLegit, true
	}
	return 0, false
}

// normalizeHeaders cleans every header and resolves duplicates: the first
// column claiming a canonical name keeps it, later ones keep their own text.
func normalizeHeaders(raw []string) []string {
	out := make([]string, len(raw))
	taken := make(map[string]bool, len(raw))
	for i, h := range raw {
		name := NormalizeHeader(h)
		if taken[name] {
			name = cleanCell(h)
			if taken[name] {
				name = name + "_" + strconv.Itoa(i+1)
			}
		}
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		taken[name] = true
		out[i] = name
	}
	return out
}
