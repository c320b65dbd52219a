package gitgw

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/panbanda/omen/internal/model"
)

// ParseLinePorcelain parses the output of `git blame --line-porcelain` for
// path into a Blame. The format interleaves header lines (a 40-char hex SHA
// followed by orig-line, final-line, and an optional group-size field),
// `author `/`author-time ` continuation lines, and a tab-prefixed source
// content line that terminates each entry.
func ParseLinePorcelain(output []byte, path string) model.Blame {
	var lines []model.BlameLine
	authorTimestamps := make(map[string][]int64)

	var currentSHA, currentAuthor string
	var currentTimestamp int64
	var currentLineNo int

	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "\t"):
			lines = append(lines, model.BlameLine{
				LineNo:    currentLineNo,
				Author:    currentAuthor,
				CommitSHA: currentSHA,
				Timestamp: currentTimestamp,
			})
			authorTimestamps[currentAuthor] = append(authorTimestamps[currentAuthor], currentTimestamp)

		case strings.HasPrefix(line, "author "):
			currentAuthor = strings.TrimPrefix(line, "author ")

		case strings.HasPrefix(line, "author-time "):
			ts, err := strconv.ParseInt(strings.TrimPrefix(line, "author-time "), 10, 64)
			if err == nil {
				currentTimestamp = ts
			}

		case isHeaderLine(line):
			parts := strings.SplitN(line, " ", 4)
			if len(parts) >= 3 {
				currentSHA = parts[0]
				finalLine, err := strconv.Atoi(parts[2])
				if err == nil {
					currentLineNo = finalLine
				}
			}
		}
	}

	total := len(lines)
	authors := make(map[string]model.AuthorBlameStat, len(authorTimestamps))

	for name, timestamps := range authorTimestamps {
		count := len(timestamps)

		pct := 0.0
		if total > 0 {
			pct = float64(count) / float64(total) * 100
		}

		first, last := timestamps[0], timestamps[0]
		for _, ts := range timestamps[1:] {
			if ts < first {
				first = ts
			}
			if ts > last {
				last = ts
			}
		}

		authors[name] = model.AuthorBlameStat{
			LineCount:  count,
			Percentage: pct,
			FirstTS:    first,
			LastTS:     last,
		}
	}

	return model.Blame{Path: path, Lines: lines, Authors: authors}
}

func isHeaderLine(line string) bool {
	if len(line) < 40 {
		return false
	}

	c := line[0]

	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}
