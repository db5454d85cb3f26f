package ftp

import (
	"strconv"
	"strings"
)

// EntryType discriminates parsed listing entries.
type EntryType string

const (
	EntryFile    EntryType = "file"
	EntryDir     EntryType = "dir"
	EntryLink    EntryType = "link"
	EntryUnknown EntryType = "unknown"
)

// Entry is one parsed line of a LIST reply.
type Entry struct {
	// Name of the file or directory
	Name string

	// Type of the entry
	Type EntryType

	// Size in bytes; zero for directories and unparsed formats
	Size int64

	// Target of a symlink, empty otherwise
	Target string

	// Raw is the original listing line
	Raw string
}

// parseListLine parses a single listing line, trying Unix then DOS formats.
// Unrecognized lines become EntryUnknown with the raw text preserved, so no
// server output is silently dropped.
func parseListLine(line string) *Entry {
	if entry, ok := parseUnixLine(line); ok {
		return entry
	}
	if entry, ok := parseDOSLine(line); ok {
		return entry
	}
	return &Entry{Name: line, Type: EntryUnknown, Raw: line}
}

// parseUnixLine handles ls-style lines:
//
//	drwxr-xr-x 2 owner group 4096 Jan 10 12:00 name
//	lrwxrwxrwx 1 owner group   11 Jan 10 12:00 name -> target
//
// Both the 9-field layout and the 8-field layout without a group column are
// accepted.
func parseUnixLine(line string) (*Entry, bool) {
	fields := strings.Fields(line)
	if len(fields) < 8 {
		return nil, false
	}

	perms := fields[0]
	if len(perms) < 10 || !strings.ContainsRune("-dlbcps", rune(perms[0])) {
		return nil, false
	}

	entry := &Entry{Raw: line}
	switch perms[0] {
	case 'd':
		entry.Type = EntryDir
	case 'l':
		entry.Type = EntryLink
	default:
		entry.Type = EntryFile
	}

	// Locate the size column: field 4 in the 9-field layout, field 3 when
	// the group column is missing.
	var nameStart int
	if len(fields) >= 9 && isDecimal(fields[4]) {
		entry.Size, _ = strconv.ParseInt(fields[4], 10, 64)
		nameStart = 8
	} else if isDecimal(fields[3]) {
		entry.Size, _ = strconv.ParseInt(fields[3], 10, 64)
		nameStart = 7
	} else {
		return nil, false
	}

	name := strings.Join(fields[nameStart:], " ")
	if entry.Type == EntryLink {
		if target, after, ok := cutLinkTarget(name); ok {
			entry.Name = target
			entry.Target = after
			return entry, true
		}
	}
	entry.Name = name
	return entry, true
}

func cutLinkTarget(name string) (string, string, bool) {
	before, after, ok := strings.Cut(name, " -> ")
	return before, after, ok
}

// parseDOSLine handles IIS-style lines:
//
//	12-14-23  12:22PM           1037794 report.pdf
//	09-24-24  10:30AM       <DIR>       logs
func parseDOSLine(line string) (*Entry, bool) {
	fields := strings.Fields(line)
	if len(fields) < 4 || !isDOSDate(fields[0]) {
		return nil, false
	}

	entry := &Entry{Raw: line, Name: strings.Join(fields[3:], " ")}
	if fields[2] == "<DIR>" {
		entry.Type = EntryDir
		return entry, true
	}

	size, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return nil, false
	}
	entry.Type = EntryFile
	entry.Size = size
	return entry, true
}

// isDOSDate reports whether s looks like MM-DD-YY or MM/DD/YYYY.
func isDOSDate(s string) bool {
	var parts []string
	switch {
	case strings.Contains(s, "-"):
		parts = strings.Split(s, "-")
	case strings.Contains(s, "/"):
		parts = strings.Split(s, "/")
	default:
		return false
	}
	if len(parts) != 3 {
		return false
	}
	for i, part := range parts {
		if !isDecimal(part) {
			return false
		}
		if i < 2 && len(part) > 2 {
			return false
		}
		if i == 2 && len(part) != 2 && len(part) != 4 {
			return false
		}
	}
	return true
}

func isDecimal(s string) bool {
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
