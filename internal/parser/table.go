// Package parser extracts table definitions from AL source files.
package parser

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// Table is a table object declared in an AL source file.
type Table struct {
	Number  string   // object number, empty when not numeric
	Name    string   // table name without quotes
	Caption string   // table level Caption property, if any
	Fields  []string // field names in declaration order
	Line    int      // line of the table declaration
}

var (
	tableRegex   = regexp.MustCompile(`(?i)^table\s+(?:([^\s"{]+)\s+)?([^\s{].*?)\s*(\{.*)?$`)
	captionRegex = regexp.MustCompile(`(?i)^caption\s*=\s*'((?:[^']|'')*)'`)
	numberRegex  = regexp.MustCompile(`^[0-9]+$`)

	// Other AL object declarations end the current table.
	objectRegex = regexp.MustCompile(`(?i)^(tableextension|page|pageextension|codeunit|report|reportextension|query|xmlport|enum|enumextension|interface|permissionset|permissionsetextension|profile|controladdin)\s`)
)

// maxLineSize bounds a single source line.
const maxLineSize = 1024 * 1024

// ParseTables reads AL source and returns every table it declares.
//
// Parsing is line based: a line whose first keyword is "table" opens a new
// table, and a line starting with "field(" adds the second ';' separated
// element as a field name. Other object types (tableextension, page, ...)
// are ignored.
func ParseTables(r io.Reader) ([]Table, error) {
	var tables []Table
	var current *Table
	inFields := false

	flush := func() {
		if current != nil {
			tables = append(tables, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if match := tableRegex.FindStringSubmatch(line); match != nil {
			flush()
			current = &Table{Name: unquote(match[2]), Line: lineNum}
			if numberRegex.MatchString(match[1]) {
				current.Number = match[1]
			}
			inFields = false
			continue
		}

		if objectRegex.MatchString(line) {
			flush()
			continue
		}

		if current == nil {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "field("):
			inFields = true
			if name, ok := fieldName(line); ok {
				current.Fields = append(current.Fields, name)
			}
		case lower == "fields":
			inFields = true
		case !inFields && current.Caption == "":
			if match := captionRegex.FindStringSubmatch(line); match != nil {
				current.Caption = strings.ReplaceAll(match[1], "''", "'")
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	flush()
	return tables, nil
}

// fieldName extracts the name from a `field(No; Name; Type)` declaration.
func fieldName(line string) (string, bool) {
	parts := strings.Split(line, ";")
	if len(parts) < 2 {
		return "", false
	}
	name := unquote(parts[1])
	return name, name != ""
}

// unquote trims whitespace and surrounding double quotes.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' {
		if end := strings.IndexByte(s[1:], '"'); end >= 0 {
			return s[1 : end+1]
		}
	}
	return strings.Trim(s, `"`)
}
