package optimizer

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// LineupPlayer is a roster record placed in an optimized lineup, labeled
// with the lineup slot it fills (its position, or FLEX).
type LineupPlayer struct {
	Player
	Slot string `json:"slot"`
}

// OptimizedLineup is the reconstructed result of one successful solve. It is
// immutable after construction and discarded between solves; a new solve is
// required to observe a different constraint set.
type OptimizedLineup struct {
	Site      string         `json:"site"`
	Points    float64        `json:"points"`
	Salary    int            `json:"salary"`
	SalaryCap int            `json:"salary_cap"`
	Players   []LineupPlayer `json:"players"`
}

// reconstructLineup maps a solver assignment back to player records, totals
// points and salary, resolves the flex slot and fixes presentation order.
func reconstructLineup(site Site, modeled []Player, values []float64) *OptimizedLineup {
	lineup := &OptimizedLineup{Site: site.Name, SalaryCap: site.SalaryCap}
	points := 0.0
	for i, p := range modeled {
		if values[i] < 0.5 {
			continue
		}
		points += p.Points
		lineup.Salary += p.Salary
		lineup.Players = append(lineup.Players, LineupPlayer{Player: p, Slot: string(p.Position)})
	}
	// The objective uses unrounded points; rounding is presentation only.
	lineup.Points = math.Round(points*100) / 100

	resolveFlexSlot(site, lineup.Players)

	sort.SliceStable(lineup.Players, func(i, j int) bool {
		oi, oj := slotOrder[lineup.Players[i].Slot], slotOrder[lineup.Players[j].Slot]
		if oi != oj {
			return oi < oj
		}
		return lineup.Players[i].Index < lineup.Players[j].Index
	})
	return lineup
}

// resolveFlexSlot relabels exactly one player into the FLEX slot. Positions
// are tried in fixed priority order; the first whose selected count equals
// its configured maximum donates its latest-starting player, and resolution
// stops. Ties on identical game times go to the higher roster index, keeping
// the rule a total order.
func resolveFlexSlot(site Site, players []LineupPlayer) {
	for _, pos := range []Position{RB, WR, TE} {
		bounds, ok := site.Positions[pos]
		if !ok {
			continue
		}
		var candidates []int
		for i, p := range players {
			if p.Position == pos {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) != bounds.Max {
			continue
		}
		flex := candidates[0]
		for _, i := range candidates[1:] {
			if later(players[i], players[flex]) {
				flex = i
			}
		}
		players[flex].Slot = FlexSlot
		return
	}
}

func later(a, b LineupPlayer) bool {
	if !a.GameTime.Equal(b.GameTime) {
		return a.GameTime.After(b.GameTime)
	}
	return a.Index > b.Index
}

// WriteCSV serializes the lineup as one delimited row per player, writing a
// header when the file is created and appending when it already exists. Only
// the CSV format is supported.
func (l *OptimizedLineup) WriteCSV(path string) error {
	if path == "" {
		return fmt.Errorf("file path cannot be empty")
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".csv" {
		return fmt.Errorf("only CSV output is supported, found %q", ext)
	}

	_, statErr := os.Stat(path)
	exists := statErr == nil

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening lineup file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if !exists {
		if err := w.Write([]string{"id", "name", "position", "slot", "team", "opponent", "points", "salary"}); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for _, p := range l.Players {
		record := []string{
			p.ExternalID,
			p.Name,
			string(p.Position),
			p.Slot,
			p.Team,
			p.Opponent,
			strconv.FormatFloat(p.Points, 'f', -1, 64),
			strconv.Itoa(p.Salary),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing player row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func (l *OptimizedLineup) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Optimized %s Lineup\n%.2f points @ %d salary\n", l.Site, l.Points, l.Salary)
	for _, p := range l.Players {
		fmt.Fprintf(&b, "%s - %s %.2f @ %d salary\n", p.Slot, p.Name, p.Points, p.Salary)
	}
	return b.String()
}
