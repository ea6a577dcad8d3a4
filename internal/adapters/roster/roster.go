// Package roster reads candidate lists from CSV and writes draft results back
// out as CSV.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/sheexliies/ViperDraft/internal/domain/model"
)

var (
	// ErrEmptyInput is returned when the input has no header row.
	ErrEmptyInput = errors.New("roster: empty input")
	// ErrInvalidScore is returned when a score cell is not a finite number.
	ErrInvalidScore = errors.New("roster: invalid score")
	// ErrRead wraps CSV syntax and I/O failures.
	ErrRead = errors.New("roster: read failed")
	// ErrWrite wraps CSV write failures.
	ErrWrite = errors.New("roster: write failed")
)

// Accepted header spellings, first match wins.
var (
	nameColumns    = []string{"name", "Name", "姓名"}
	scoreColumns   = []string{"score", "Score", "sorce", "分數"}
	captainColumns = []string{"captain_name", "Captain_Name"}
)

// Export column headers.
const (
	HeaderTeam   = "隊伍"
	HeaderTotal  = "總分"
	headerMember = "隊員 %d"
)

// TemplateHeader is the first row of the import template.
var TemplateHeader = []string{"captain_name", "name", "score"}

type columns struct {
	name, score, captain int
}

func findColumn(header []string, names []string) int {
	for _, want := range names {
		for i, h := range header {
			if strings.TrimSpace(h) == want {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Read parses candidates from CSV. The first row is the header. IDs follow
// data row order starting at 0. A missing name becomes "Player <id>" and a
// missing score becomes 0. Blank rows are skipped.
func Read(r io.Reader) ([]model.Candidate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrRead, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	cols := columns{
		name:    findColumn(header, nameColumns),
		score:   findColumn(header, scoreColumns),
		captain: findColumn(header, captainColumns),
	}

	var out []model.Candidate
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrRead, line, err)
		}
		if blank(row) {
			continue
		}

		id := len(out)
		c := model.Candidate{
			ID:       id,
			Name:     cell(row, cols.name),
			TeamHint: cell(row, cols.captain),
		}
		if c.Name == "" {
			c.Name = fmt.Sprintf("Player %d", id)
		}
		if raw := cell(row, cols.score); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: line %d: %q", ErrInvalidScore, line, raw)
			}
			c.Score = v
		}
		out = append(out, c)
	}
	return out, nil
}

// FormatScore renders a score without trailing zeros.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Write exports one row per team: name, total, then one "name (score)" cell
// per roster slot. Short rosters leave trailing cells empty.
func Write(w io.Writer, teams []model.Team) error {
	width := 0
	for _, t := range teams {
		width = max(width, len(t.Roster))
	}

	writer := csv.NewWriter(w)
	header := make([]string, 0, width+2)
	header = append(header, HeaderTeam, HeaderTotal)
	for i := range width {
		header = append(header, fmt.Sprintf(headerMember, i+1))
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("%w: header: %w", ErrWrite, err)
	}

	for _, t := range teams {
		row := make([]string, width+2)
		row[0] = t.Name
		row[1] = FormatScore(t.Score)
		for i, e := range t.Roster {
			row[i+2] = fmt.Sprintf("%s (%s)", e.Candidate.Name, FormatScore(e.Candidate.Score))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("%w: team %d: %w", ErrWrite, t.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// WriteTemplate writes an import template with a few sample rows.
func WriteTemplate(w io.Writer) error {
	writer := csv.NewWriter(w)
	rows := [][]string{
		TemplateHeader,
		{"Team 1", "Player A", "10"},
		{"", "Player B", "8"},
		{"Team 2", "Player C", "12"},
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
