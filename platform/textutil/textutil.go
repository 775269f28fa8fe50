// Package textutil holds line helpers shared by the platform parsers.
package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	rangeRegex      = regexp.MustCompile(`^(.*?)(\d+)-(.*?)(\d+)$`)
	commandErrHints = []string{
		"invalid input",
		"unknown command",
		"incomplete command",
		"ambiguous command",
		"unrecognized command",
		"invalid command",
		"syntax error",
		"cannot find command",
	}
)

// maxRangeSize caps range expansion so a malformed token cannot blow up memory.
const maxRangeSize = 4096

// Lines splits raw device output into lines without carriage returns.
func Lines(output string) []string {
	output = strings.ReplaceAll(output, "\r", "")
	return strings.Split(output, "\n")
}

// IsSeparatorLine reports dashed/ruled lines used under table headers.
func IsSeparatorLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	if len(trimmed) < 3 {
		return false
	}
	for _, ch := range trimmed {
		if ch != '-' && ch != '=' && ch != '+' && ch != '*' && ch != ' ' && ch != '|' {
			return false
		}
	}
	return true
}

// IsCommandError reports whether the first lines of output carry a CLI error.
func IsCommandError(output string) bool {
	checked := 0
	for _, line := range Lines(output) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, keyword := range commandErrHints {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
		checked++
		if checked == 3 {
			break
		}
	}
	return false
}

// ColumnStarts returns the offset of each name in a table header line, or nil
// when one of the names is missing.
func ColumnStarts(header string, names ...string) []int {
	starts := make([]int, len(names))
	from := 0
	for i, name := range names {
		idx := strings.Index(header[from:], name)
		if idx < 0 {
			return nil
		}
		starts[i] = from + idx
		from = starts[i] + len(name)
	}
	return starts
}

// Column cuts the i-th fixed-width column out of line.
func Column(line string, starts []int, i int) string {
	if i >= len(starts) || starts[i] >= len(line) {
		return ""
	}
	end := len(line)
	if i+1 < len(starts) && starts[i+1] < end {
		end = starts[i+1]
	}
	return strings.TrimSpace(line[starts[i]:end])
}

// ExpandRange expands "1-4", "A1-A3" or "1/1/1-1/1/3" into single items.
// Anything that is not a range is returned unchanged.
func ExpandRange(token string) []string {
	token = strings.TrimSpace(token)
	match := rangeRegex.FindStringSubmatch(token)
	if match == nil {
		return []string{token}
	}
	prefix, endPrefix := match[1], match[3]
	if endPrefix != "" && endPrefix != prefix {
		return []string{token}
	}
	start, err1 := strconv.Atoi(match[2])
	end, err2 := strconv.Atoi(match[4])
	if err1 != nil || err2 != nil || end < start || end-start >= maxRangeSize {
		return []string{token}
	}
	out := make([]string, 0, end-start+1)
	for n := start; n <= end; n++ {
		out = append(out, prefix+strconv.Itoa(n))
	}
	return out
}

// ExpandList expands a comma separated list of items and ranges.
func ExpandList(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, ExpandRange(part)...)
	}
	return out
}

// JoinPorts renders a port list the way the VLAN sheet stores it.
func JoinPorts(ports []string) string {
	return strings.Join(ports, ", ")
}

// IsNumber reports whether s is a non-empty string of digits.
func IsNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
