package subtitles

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Cue is one numbered subtitle entry. Index and timing are carried through
// translation untouched; only Text changes.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// Blank reports whether the cue carries no visible text.
func (c Cue) Blank() bool {
	return strings.TrimSpace(c.Text) == ""
}

// ParseSRT parses decoded SRT content. Blocks are separated by blank lines;
// the numeric index line may be omitted, in which case cues are numbered in
// order. A block without a valid timing line is a syntax error.
func ParseSRT(content string) ([]Cue, error) {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	lines := strings.Split(content, "\n")

	var cues []Cue
	i := 0
	for i < len(lines) {
		header := strings.TrimSpace(lines[i])
		if header == "" {
			i++
			continue
		}

		index := len(cues) + 1
		timing := header
		if !strings.Contains(header, "-->") {
			n, err := strconv.Atoi(header)
			if err != nil {
				return nil, fmt.Errorf("line %d: expected cue index, got %q", i+1, header)
			}
			index = n
			i++
			if i >= len(lines) {
				return nil, fmt.Errorf("line %d: cue %d has no timing line", i, n)
			}
			timing = strings.TrimSpace(lines[i])
		}

		start, end, err := parseTiming(timing)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		i++

		var text []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			text = append(text, strings.TrimRight(lines[i], " \t"))
			i++
		}
		cues = append(cues, Cue{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.Join(text, "\n"),
		})
	}
	return cues, nil
}

// FormatSRT serializes cues in canonical SRT form with LF line endings.
func FormatSRT(cues []Cue) string {
	var b strings.Builder
	for i, cue := range cues {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strconv.Itoa(cue.Index))
		b.WriteString("\n")
		b.WriteString(formatTimestamp(cue.Start))
		b.WriteString(" --> ")
		b.WriteString(formatTimestamp(cue.End))
		b.WriteString("\n")
		if text := NormalizeCueText(cue.Text); text != "" {
			b.WriteString(text)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// NormalizeCueText makes text safe to place inside one cue: line endings
// become LF and blank lines are dropped, since a blank line ends a cue.
func NormalizeCueText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func parseTiming(line string) (time.Duration, time.Duration, error) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	start, err := parseSRTTimestamp(parts[0])
	if err != nil {
		return 0, 0, err
	}
	// Position settings may follow the end timestamp.
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	end, err := parseSRTTimestamp(endFields[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func parseSRTTimestamp(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	// Normalize period to comma (SRT standard uses comma for milliseconds)
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 || millis < 0 || millis > 999 {
		return 0, fmt.Errorf("timestamp out of range %q", value)
	}
	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
	return total, nil
}

func formatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	hours := ms / 3_600_000
	ms -= hours * 3_600_000
	minutes := ms / 60_000
	ms -= minutes * 60_000
	seconds := ms / 1000
	ms -= seconds * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, ms)
}
