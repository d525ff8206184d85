// Package heuristic recovers measurement records from raw document text
// with regular expressions only, no external calls. It is deliberately
// permissive: output is best-effort and may contain false positives, and
// the worst case is an empty list. The classification ladder leans on
// that permissiveness, both as its offline fallback and as the signal
// that overrides an unsure model verdict.
package heuristic

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ozanyurtsever/labsense/constants"
	"github.com/ozanyurtsever/labsense/internal/entity"
	"github.com/ozanyurtsever/labsense/internal/textproc"
)

var (
	reLineBreak = regexp.MustCompile(`\r?\n`)
	reNumber    = regexp.MustCompile(`[-+]?\d+(?:[.,]\d+)?`)
	reUnit      = regexp.MustCompile(`(?i)(` + constants.UnitPattern + `)`)
	reRange     = regexp.MustCompile(`\(?\s*([<>]?\s*\d+(?:[.,]\d+)?)\s*[-–~]\s*([<>]?\s*\d+(?:[.,]\d+)?)\s*\)?`)

	// reLabelish decides whether a numberless line can serve as the test
	// name for the following line (tabular reports put the name and the
	// value on separate rows).
	reLabelish = regexp.MustCompile(`[A-Za-zÇÖŞÜĞİıçöşüğ()/%-]{2,}`)

	// reHeaderNoise strips recurring report column headers out of
	// candidate names.
	reHeaderNoise = regexp.MustCompile(`(?i)\b(Tarih|Tahlil|Sonuç(?: Birimi)?|Referans(?: Değeri)?)\b`)

	// reGlobal is the single-shot fallback pattern run across the whole
	// text when the line-oriented pass finds nothing: name, value,
	// optional unit, optional reference range.
	reGlobal = regexp.MustCompile(`(?i)([A-Za-zÇÖŞÜĞİıçöşüğ()/.%\-\s]{2,}?)\s+([-+]?\d+(?:[.,]\d+)?)\s*(` + constants.UnitPattern + `)?(?:\s*[,;]?\s*(?:ref\.?|referans)?\s*:?\s*\(?\s*([<>]?\s*\d+(?:[.,]\d+)?)\s*[-–~]\s*([<>]?\s*\d+(?:[.,]\d+)?)\s*\)?)?`)
)

// Extract runs the line-oriented pass over at most MaxHeuristicLines
// lines, then the global fallback pass if that found nothing. At most
// MaxHeuristicItems records are returned. Pure function: identical input
// yields identical output, and it never fails.
func Extract(text string) []entity.MeasurementRecord {
	if text == "" {
		return nil
	}

	lines := reLineBreak.Split(text, -1)
	if len(lines) > constants.MaxHeuristicLines {
		lines = lines[:constants.MaxHeuristicLines]
	}

	var items []entity.MeasurementRecord
	prevLabel := ""

	for _, raw := range lines {
		raw = textproc.Normalize(raw)
		if raw == "" {
			continue
		}

		loc := reNumber.FindStringIndex(raw)
		if loc == nil {
			// No value on this line; maybe it names the test for the next one.
			if reLabelish.MatchString(raw) {
				prevLabel = raw
			}
			continue
		}

		left := strings.TrimSpace(raw[:loc[0]])
		if utf8.RuneCountInString(left) < 2 && prevLabel != "" {
			left = prevLabel
		}
		if utf8.RuneCountInString(left) < 2 {
			prevLabel = ""
			continue
		}

		var unit *string
		if m := reUnit.FindString(raw[loc[0]:]); m != "" {
			unit = &m
		}

		var refLow, refHigh *float64
		if m := reRange.FindStringSubmatch(raw); m != nil {
			refLow, refHigh = parseRange(m[1], m[2])
		}

		if rec, ok := buildRecord(left, raw[loc[0]:loc[1]], unit, refLow, refHigh); ok {
			items = append(items, rec)
		}
		prevLabel = ""
		if len(items) >= constants.MaxHeuristicItems {
			break
		}
	}

	if len(items) == 0 {
		items = extractGlobal(textproc.Normalize(text))
	}
	return items
}

// extractGlobal is the whole-text fallback pass.
func extractGlobal(all string) []entity.MeasurementRecord {
	var items []entity.MeasurementRecord
	for _, m := range reGlobal.FindAllStringSubmatch(all, -1) {
		var unit *string
		if m[3] != "" {
			u := m[3]
			unit = &u
		}
		var refLow, refHigh *float64
		if m[4] != "" && m[5] != "" {
			refLow, refHigh = parseRange(m[4], m[5])
		}
		if rec, ok := buildRecord(m[1], m[2], unit, refLow, refHigh); ok {
			items = append(items, rec)
		}
		if len(items) >= constants.MaxHeuristicItems {
			break
		}
	}
	return items
}

func buildRecord(name, rawValue string, unit *string, refLow, refHigh *float64) (entity.MeasurementRecord, bool) {
	test := strings.TrimSpace(reHeaderNoise.ReplaceAllString(textproc.Normalize(name), ""))
	value, err := parseNumber(rawValue)
	if test == "" || err != nil {
		return entity.MeasurementRecord{}, false
	}
	return entity.MeasurementRecord{
		Test:    test,
		Label:   nil,
		Value:   value,
		Unit:    unit,
		RefLow:  refLow,
		RefHigh: refHigh,
	}, true
}

// parseRange accepts a reference range only when both bounds parse and
// low <= high; otherwise the range is dropped and the record keeps nil
// bounds.
func parseRange(rawLow, rawHigh string) (*float64, *float64) {
	low, errLow := parseNumber(stripComparator(rawLow))
	high, errHigh := parseNumber(stripComparator(rawHigh))
	if errLow != nil || errHigh != nil || low > high {
		return nil, nil
	}
	return &low, &high
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}

func stripComparator(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "<>")
	return s
}
