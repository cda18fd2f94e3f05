package domain

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

var (
	openMarkerRe  = regexp.MustCompile(`^\[(\d{2}\.\d{2}\.\d{4})\]$`)
	closeMarkerRe = regexp.MustCompile(`^\[/(\d{2}\.\d{2}\.\d{4})\]$`)
)

// ParseVocabulary reads the text store format:
//
//	[dd.mm.yyyy]
//	Term [prop1, prop2] – target_def1;target_def2<TAB>native_def1;native_def2
//	[/dd.mm.yyyy]
//
// Blank lines are ignored. Any other text outside a dated block, an unclosed
// block or a closing marker that does not match its opening one is an
// ErrValidation naming the line number.
func ParseVocabulary(r io.Reader) (*Vocabulary, []Lint, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		days    []Day
		lints   []Lint
		open    bool
		date    time.Time
		lines   []string
		lineNum int
	)
	for sc.Scan() {
		lineNum++
		raw := strings.TrimRight(sc.Text(), "\r")
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := openMarkerRe.FindStringSubmatch(line); m != nil {
			if open {
				return nil, nil, fmt.Errorf("%w: line %d: block %s opened before %s was closed", ErrValidation, lineNum, m[1], FormatDate(date))
			}
			d, err := ParseDate(m[1], false)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			open, date, lines = true, d, nil
			continue
		}

		if m := closeMarkerRe.FindStringSubmatch(line); m != nil {
			if !open || m[1] != FormatDate(date) {
				return nil, nil, fmt.Errorf("%w: line %d: unexpected closing marker %s", ErrValidation, lineNum, line)
			}
			day, l, err := ParseDay(date, lines)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			days = append(days, day)
			lints = append(lints, l...)
			open = false
			continue
		}

		if !open {
			return nil, nil, fmt.Errorf("%w: line %d: text outside a dated block", ErrValidation, lineNum)
		}
		lines = append(lines, raw)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("domain.ParseVocabulary: %w", err)
	}
	if open {
		return nil, nil, fmt.Errorf("%w: block %s is never closed", ErrValidation, FormatDate(date))
	}

	v, err := NewVocabulary(days)
	if err != nil {
		return nil, nil, err
	}
	return v, lints, nil
}

// WriteVocabulary renders v in the text store format.
func WriteVocabulary(w io.Writer, v *Vocabulary) error {
	bw := bufio.NewWriter(w)
	for i, d := range v.days {
		if i > 0 {
			bw.WriteString("\n")
		}
		date := FormatDate(d.Date)
		bw.WriteString("[" + date + "]\n")
		for _, word := range d.Words {
			bw.WriteString(word.Render() + "\n")
		}
		bw.WriteString("[/" + date + "]\n")
	}
	return bw.Flush()
}
