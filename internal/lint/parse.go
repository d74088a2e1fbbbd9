package lint

import (
	"bufio"
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// unusedImportLinters and deadCodeLinters hold the linter/analyzer names the two wire
// formats use to report the diagnostics our deletion passes care about.
// Grounded on golangci-lint's own linter identifiers.
var (
	unusedImportLinters = map[string]bool{
		"unused-import": true,
		"goimports":     true,
		"imports":       true,
	}
	deadCodeLinters = map[string]bool{
		"unused":      true,
		"deadcode":    true,
		"unparam":     true,
		"ineffassign": true,
	}
)

func classify(linter, text string) Kind {
	low := strings.ToLower(linter)
	if unusedImportLinters[low] || strings.Contains(strings.ToLower(text), "imported and not used") {
		return KindUnusedImport
	}
	if deadCodeLinters[low] || strings.Contains(strings.ToLower(text), "declared and not used") || strings.Contains(strings.ToLower(text), "is unused") {
		return KindDeadCode
	}
	return KindOther
}

// ParseVetLines parses the "minimize-fmt-vet" wire format: one diagnostic
// per line, "file:line:col: message", the format `go vet` emits on stderr.
// A malformed line is skipped rather than failing the whole parse; a
// completely unparseable payload simply yields an empty slice.
func ParseVetLines(r io.Reader) []Record {
	var records []Record
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "minimize-fmt-") {
			continue
		}
		rec, ok := parseVetLine(line)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func parseVetLine(line string) (Record, bool) {
	// file:line:col: message
	parts := strings.SplitN(line, ":", 4)
	if len(parts) != 4 {
		return Record{}, false
	}
	lineNo, err := strconv.Atoi(parts[1])
	if err != nil {
		return Record{}, false
	}
	col, err := strconv.Atoi(parts[2])
	if err != nil {
		return Record{}, false
	}
	text := strings.TrimSpace(parts[3])
	return Record{
		File:   parts[0],
		Line:   lineNo,
		Column: col,
		Name:   "vet",
		Kind:   classify("vet", text),
		Text:   text,
	}, true
}

// golangciPayload mirrors the subset of `golangci-lint run --out-format=json`
// output the core needs, grounded on golangciOutput struct.
type golangciPayload struct {
	Issues []struct {
		FromLinter string `json:"FromLinter"`
		Text       string `json:"Text"`
		Pos        struct {
			Filename string `json:"Filename"`
			Line     int    `json:"Line"`
			Column   int    `json:"Column"`
		} `json:"Pos"`
	} `json:"Issues"`
}

// ParseGolangciJSON parses the "minimize-fmt-golangci" wire format.
func ParseGolangciJSON(r io.Reader) []Record {
	var payload golangciPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil
	}
	records := make([]Record, 0, len(payload.Issues))
	for _, issue := range payload.Issues {
		records = append(records, Record{
			File:   issue.Pos.Filename,
			Line:   issue.Pos.Line,
			Column: issue.Pos.Column,
			Name:   issue.FromLinter,
			Kind:   classify(issue.FromLinter, issue.Text),
			Text:   issue.Text,
		})
	}
	return records
}

// Format names the two wire formats the oracle adapter advertises via its
// first-line header.
type Format string

const (
	FormatVet      Format = "minimize-fmt-vet"
	FormatGolangci Format = "minimize-fmt-golangci"
)

// SniffFormat inspects the first line of output for one of the two
// recognized headers. It returns ok=false if neither is present.
func SniffFormat(firstLine string) (Format, bool) {
	firstLine = strings.TrimSpace(firstLine)
	switch Format(firstLine) {
	case FormatVet:
		return FormatVet, true
	case FormatGolangci:
		return FormatGolangci, true
	default:
		return "", false
	}
}

// Parse dispatches to the parser for the given format.
func Parse(format Format, r io.Reader) []Record {
	switch format {
	case FormatGolangci:
		return ParseGolangciJSON(r)
	default:
		return ParseVetLines(r)
	}
}
