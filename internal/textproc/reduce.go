package textproc

import (
	"regexp"
	"strings"

	"github.com/ozanyurtsever/labsense/constants"
)

// reLabLine keeps lines shaped like "identifier text ... number", with
// optional comparison operators before the number. Tuned for Turkish and
// Latin test names.
var reLabLine = regexp.MustCompile(`[A-Za-zÇÖŞÜĞİıçöşüğ\-/() ]{2,}\s+[<>≈~]?\s*\d`)

var reLineBreak = regexp.MustCompile(`\r?\n`)

// ReduceToLikelyLabLines bounds the size and noise of text sent to the
// classification client. It keeps only measurement-shaped lines, caps
// them at MaxReducedLines, and truncates the joined result to
// MaxInputChars. When filtering keeps nothing it falls back to a raw
// truncated prefix of the original text, so the classifier always gets
// something to look at. The heuristic extractor never sees reduced text;
// this exists purely to bound the external call.
func ReduceToLikelyLabLines(text string) string {
	if text == "" {
		return ""
	}

	var kept []string
	for _, line := range reLineBreak.Split(text, -1) {
		if !reLabLine.MatchString(line) {
			continue
		}
		line = Normalize(line)
		if line == "" {
			continue
		}
		kept = append(kept, line)
		if len(kept) >= constants.MaxReducedLines {
			break
		}
	}

	joined := strings.Join(kept, "\n")
	if joined == "" {
		return Clip(text, constants.MaxInputChars)
	}
	return Clip(joined, constants.MaxInputChars)
}
