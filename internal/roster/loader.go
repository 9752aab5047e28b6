// Package roster loads tabular player data into the optimizer's player
// records. Column names are configurable; the loader validates required
// columns up front so constraint logic never sees malformed data.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/lineup-optimizer/internal/optimizer"
	"github.com/stitts-dev/lineup-optimizer/pkg/logger"
)

// Columns enumerates every recognized column-name override and its default.
// Name, Position, Salary, Points and Team are required; the rest are
// optional and skipped when absent.
type Columns struct {
	ID       string
	Name     string
	Position string
	Salary   string
	Points   string
	Team     string
	Opponent string
	DateTime string
	Week     string
	Home     string
}

// DefaultColumns returns the conventional column names.
func DefaultColumns() Columns {
	return Columns{
		ID:       "id",
		Name:     "name",
		Position: "position",
		Salary:   "salary",
		Points:   "points",
		Team:     "team",
		Opponent: "opponent",
		DateTime: "datetime",
		Week:     "week",
		Home:     "home",
	}
}

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Loader reads delimited player tables.
type Loader struct {
	cols Columns
	log  *logrus.Entry
}

// NewLoader builds a loader with the given column configuration.
func NewLoader(cols Columns) *Loader {
	return &Loader{cols: cols, log: logger.WithService("roster-loader")}
}

// LoadCSV reads player records from a CSV file.
func (l *Loader) LoadCSV(path string) ([]optimizer.Player, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".csv" {
		return nil, fmt.Errorf("%w: only CSV input is supported, found %q", optimizer.ErrInvalidRoster, ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening roster file: %w", err)
	}
	defer f.Close()
	return l.Load(f)
}

// Load reads player records from CSV data. Missing required columns fail
// before any row is parsed; rows with unparseable salary or points are kept
// with sentinel values and dropped later by the model builder.
func (l *Loader) Load(r io.Reader) ([]optimizer.Player, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", optimizer.ErrInvalidRoster, err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{l.cols.Name, l.cols.Position, l.cols.Salary, l.cols.Points, l.cols.Team} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%w: missing required column %q", optimizer.ErrInvalidRoster, required)
		}
	}

	var players []optimizer.Player
	seenIDs := make(map[string]bool)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading row %d: %v", optimizer.ErrInvalidRoster, len(players)+2, err)
		}
		p := l.parseRow(record, idx)
		if p.ExternalID != "" {
			if seenIDs[p.ExternalID] {
				return nil, fmt.Errorf("%w: duplicate player id %q", optimizer.ErrInvalidRoster, p.ExternalID)
			}
			seenIDs[p.ExternalID] = true
		}
		players = append(players, p)
	}

	l.log.WithField("players", len(players)).Debug("Loaded roster")
	return players, nil
}

func (l *Loader) parseRow(record []string, idx map[string]int) optimizer.Player {
	field := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	p := optimizer.Player{
		ExternalID: field(l.cols.ID),
		Name:       field(l.cols.Name),
		Position:   optimizer.NormalizePosition(field(l.cols.Position)),
		Team:       field(l.cols.Team),
		Opponent:   field(l.cols.Opponent),
	}

	if salary, err := strconv.Atoi(field(l.cols.Salary)); err == nil {
		p.Salary = salary
	}
	if points, err := strconv.ParseFloat(field(l.cols.Points), 64); err == nil {
		p.Points = points
	} else {
		p.Points = math.NaN()
	}
	if week, err := strconv.Atoi(field(l.cols.Week)); err == nil {
		p.Week = week
	}
	if raw := field(l.cols.DateTime); raw != "" {
		for _, layout := range datetimeLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				p.GameTime = t
				break
			}
		}
	}
	if home := strings.ToLower(field(l.cols.Home)); home != "" {
		p.Home = home == "true" || home == "1" || home == "yes"
	}
	return p
}
