package optimizer

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/lineup-optimizer/internal/solver"
)

var (
	sundayEarly = time.Date(2025, 11, 2, 13, 0, 0, 0, time.UTC)
	sundayLate  = time.Date(2025, 11, 2, 16, 25, 0, 0, time.UTC)
	mondayNight = time.Date(2025, 11, 3, 20, 15, 0, 0, time.UTC)
)

// testRoster is a single-week roster with Sunday early, Sunday late and
// Monday games, wide enough to fill every DraftKings slot several ways.
func testRoster() []Player {
	return []Player{
		{ExternalID: "phi-qb-1", Name: "Jalen Hurts", Position: QB, Team: "PHI", Opponent: "DAL", Salary: 7800, Points: 22.1, GameTime: sundayEarly, Week: 9},
		{ExternalID: "dal-qb-1", Name: "Dak Prescott", Position: QB, Team: "DAL", Opponent: "PHI", Salary: 6900, Points: 19.4, GameTime: sundayEarly, Week: 9},
		{ExternalID: "buf-qb-1", Name: "Josh Allen", Position: QB, Team: "BUF", Opponent: "MIA", Salary: 8200, Points: 24.3, GameTime: mondayNight, Week: 9},

		{ExternalID: "phi-rb-1", Name: "Saquon Barkley", Position: RB, Team: "PHI", Opponent: "DAL", Salary: 8000, Points: 21.5, GameTime: sundayEarly, Week: 9},
		{ExternalID: "phi-rb-2", Name: "Kenneth Gainwell", Position: RB, Team: "PHI", Opponent: "DAL", Salary: 4200, Points: 8.1, GameTime: sundayEarly, Week: 9},
		{ExternalID: "dal-rb-1", Name: "Javonte Williams", Position: RB, Team: "DAL", Opponent: "PHI", Salary: 5600, Points: 14.2, GameTime: sundayEarly, Week: 9},
		{ExternalID: "sf-rb-1", Name: "Christian McCaffrey", Position: RB, Team: "SF", Opponent: "SEA", Salary: 7900, Points: 20.8, GameTime: sundayLate, Week: 9},
		{ExternalID: "buf-rb-1", Name: "James Cook", Position: RB, Team: "BUF", Opponent: "MIA", Salary: 6700, Points: 16.9, GameTime: mondayNight, Week: 9},

		{ExternalID: "phi-wr-1", Name: "A.J. Brown", Position: WR, Team: "PHI", Opponent: "DAL", Salary: 7200, Points: 17.8, GameTime: sundayEarly, Week: 9},
		{ExternalID: "phi-wr-2", Name: "DeVonta Smith", Position: WR, Team: "PHI", Opponent: "DAL", Salary: 6100, Points: 14.6, GameTime: sundayEarly, Week: 9},
		{ExternalID: "dal-wr-1", Name: "CeeDee Lamb", Position: WR, Team: "DAL", Opponent: "PHI", Salary: 7600, Points: 18.9, GameTime: sundayEarly, Week: 9},
		{ExternalID: "dal-wr-2", Name: "George Pickens", Position: WR, Team: "DAL", Opponent: "PHI", Salary: 5900, Points: 13.4, GameTime: sundayEarly, Week: 9},
		{ExternalID: "sf-wr-1", Name: "Ricky Pearsall", Position: WR, Team: "SF", Opponent: "SEA", Salary: 5200, Points: 11.7, GameTime: sundayLate, Week: 9},
		{ExternalID: "buf-wr-1", Name: "Khalil Shakir", Position: WR, Team: "BUF", Opponent: "MIA", Salary: 5400, Points: 12.3, GameTime: mondayNight, Week: 9},

		{ExternalID: "phi-te-1", Name: "Dallas Goedert", Position: TE, Team: "PHI", Opponent: "DAL", Salary: 4900, Points: 10.2, GameTime: sundayEarly, Week: 9},
		{ExternalID: "dal-te-1", Name: "Jake Ferguson", Position: TE, Team: "DAL", Opponent: "PHI", Salary: 4300, Points: 8.7, GameTime: sundayEarly, Week: 9},
		{ExternalID: "sf-te-1", Name: "George Kittle", Position: TE, Team: "SF", Opponent: "SEA", Salary: 6200, Points: 13.8, GameTime: sundayLate, Week: 9},

		{ExternalID: "phi-dst", Name: "Eagles", Position: DST, Team: "PHI", Opponent: "DAL", Salary: 3400, Points: 7.5, GameTime: sundayEarly, Week: 9},
		{ExternalID: "dal-dst", Name: "Cowboys", Position: DST, Team: "DAL", Opponent: "PHI", Salary: 3000, Points: 6.2, GameTime: sundayEarly, Week: 9},
		{ExternalID: "sf-dst", Name: "49ers", Position: DST, Team: "SF", Opponent: "SEA", Salary: 3600, Points: 8.4, GameTime: sundayLate, Week: 9},
		{ExternalID: "buf-dst", Name: "Bills", Position: DST, Team: "BUF", Opponent: "MIA", Salary: 3300, Points: 7.9, GameTime: mondayNight, Week: 9},
	}
}

func assertValidLineup(t *testing.T, site Site, lineup *OptimizedLineup) {
	t.Helper()
	require.NotNil(t, lineup)
	assert.Len(t, lineup.Players, site.RosterSize)
	assert.LessOrEqual(t, lineup.Salary, site.SalaryCap)

	byPosition := make(map[Position]int)
	flexCount := 0
	for _, p := range lineup.Players {
		byPosition[p.Position]++
		if p.Slot == FlexSlot {
			flexCount++
		}
	}
	assert.Equal(t, 1, flexCount, "exactly one player fills the flex slot")
	for pos, bounds := range site.Positions {
		assert.GreaterOrEqual(t, byPosition[pos], bounds.Min, "position %s below minimum", pos)
		assert.LessOrEqual(t, byPosition[pos], bounds.Max, "position %s above maximum", pos)
	}
}

func TestNew_RosterValidation(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrInvalidRoster)

	dup := testRoster()
	dup[1].ExternalID = dup[0].ExternalID
	_, err = New(dup)
	assert.ErrorIs(t, err, ErrInvalidRoster)

	// Empty external ids never collide.
	blank := testRoster()
	blank[0].ExternalID = ""
	blank[1].ExternalID = ""
	_, err = New(blank)
	assert.NoError(t, err)
}

func TestNew_CopiesRoster(t *testing.T) {
	players := testRoster()
	opt, err := New(players)
	require.NoError(t, err)

	players[0].Salary = 1
	assert.NotEqual(t, 1, opt.Roster()[0].Salary)
}

func TestOptimize_Unconstrained(t *testing.T) {
	opt, err := New(testRoster())
	require.NoError(t, err)

	site := SiteDraftKings()
	lineup, err := opt.Optimize(context.Background(), site)
	require.NoError(t, err)
	assertValidLineup(t, site, lineup)
	assert.Equal(t, "DraftKings", lineup.Site)
	assert.Equal(t, 50_000, lineup.SalaryCap)
}

func TestOptimize_IsDeterministic(t *testing.T) {
	site := SiteDraftKings()
	var lineups []*OptimizedLineup
	for i := 0; i < 3; i++ {
		opt, err := New(testRoster())
		require.NoError(t, err)
		lineup, err := opt.Optimize(context.Background(), site)
		require.NoError(t, err)
		lineups = append(lineups, lineup)
	}
	assert.Equal(t, lineups[0], lineups[1])
	assert.Equal(t, lineups[0], lineups[2])
}

func TestOptimize_DropsUnmodelableRecords(t *testing.T) {
	roster := append(testRoster(),
		Player{ExternalID: "bad-1", Name: "No Salary", Position: WR, Team: "PHI", Salary: 0, Points: 50},
		Player{ExternalID: "bad-2", Name: "No Points", Position: WR, Team: "PHI", Salary: 100, Points: math.NaN()},
	)
	opt, err := New(roster)
	require.NoError(t, err)

	lineup, err := opt.Optimize(context.Background(), SiteDraftKings())
	require.NoError(t, err)
	for _, p := range lineup.Players {
		assert.NotEqual(t, "bad-1", p.ExternalID)
		assert.NotEqual(t, "bad-2", p.ExternalID)
	}
}

func TestOptimize_MissingPosition(t *testing.T) {
	var roster []Player
	for _, p := range testRoster() {
		if p.Position != DST {
			roster = append(roster, p)
		}
	}
	opt, err := New(roster)
	require.NoError(t, err)

	_, err = opt.Optimize(context.Background(), SiteDraftKings())
	assert.ErrorIs(t, err, ErrInvalidRoster)
}

func TestOptimize_ExcludePlayer(t *testing.T) {
	opt, err := New(testRoster())
	require.NoError(t, err)

	site := SiteDraftKings()
	base, err := opt.Optimize(context.Background(), site)
	require.NoError(t, err)

	require.NoError(t, opt.SetExcludePlayerID("phi-rb-1"))
	lineup, err := opt.Optimize(context.Background(), site)
	require.NoError(t, err)
	assertValidLineup(t, site, lineup)
	assert.False(t, lineupContains(lineup, "phi-rb-1"))
	assert.LessOrEqual(t, lineup.Points, base.Points)
}

func TestOptimize_IncludePlayer(t *testing.T) {
	opt, err := New(testRoster())
	require.NoError(t, err)

	require.NoError(t, opt.SetMustIncludePlayer("Kenneth Gainwell"))
	site := SiteDraftKings()
	lineup, err := opt.Optimize(context.Background(), site)
	require.NoError(t, err)
	assertValidLineup(t, site, lineup)

	found := false
	for _, p := range lineup.Players {
		if p.Name == "Kenneth Gainwell" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestOptimize_OnlyIncludeTeams(t *testing.T) {
	opt, err := New(testRoster())
	require.NoError(t, err)

	require.NoError(t, opt.SetOnlyIncludeTeams([]string{"PHI", "DAL", "SF"}))
	site := SiteDraftKings()
	lineup, err := opt.Optimize(context.Background(), site)
	require.NoError(t, err)
	assertValidLineup(t, site, lineup)
	for _, p := range lineup.Players {
		assert.Contains(t, []string{"PHI", "DAL", "SF"}, p.Team)
	}
}

func TestOptimize_TeamCounts(t *testing.T) {
	opt, err := New(testRoster())
	require.NoError(t, err)

	require.NoError(t, opt.SetMaxPlayersFromTeam("PHI", 2))
	require.NoError(t, opt.SetMinPlayersFromTeam("BUF", 2))
	site := SiteDraftKings()
	lineup, err := opt.Optimize(context.Background(), site)
	require.NoError(t, err)
	assertValidLineup(t, site, lineup)

	byTeam := make(map[string]int)
	for _, p := range lineup.Players {
		byTeam[p.Team]++
	}
	assert.LessOrEqual(t, byTeam["PHI"], 2)
	assert.GreaterOrEqual(t, byTeam["BUF"], 2)
}

func TestOptimize_SalaryFloor(t *testing.T) {
	opt, err := New(testRoster())
	require.NoError(t, err)

	require.NoError(t, opt.SetMinSalary(49_000))
	site := SiteDraftKings()
	lineup, err := opt.Optimize(context.Background(), site)
	require.NoError(t, err)
	assertValidLineup(t, site, lineup)
	assert.GreaterOrEqual(t, lineup.Salary, 49_000)
}

func TestOptimize_QBReceiverStack(t *testing.T) {
	opt, err := New(testRoster())
	require.NoError(t, err)

	require.NoError(t, opt.SetQBReceiverStack("DAL", StackReceiverCount(2)))
	site := SiteDraftKings()
	lineup, err := opt.Optimize(context.Background(), site)
	require.NoError(t, err)
	assertValidLineup(t, site, lineup)

	qbs, receivers := 0, 0
	for _, p := range lineup.Players {
		if p.Team != "DAL" {
			continue
		}
		switch p.Position {
		case QB:
			qbs++
		case WR, TE:
			receivers++
		}
	}
	assert.GreaterOrEqual(t, qbs, 1)
	assert.GreaterOrEqual(t, receivers, 2)
}

func TestOptimize_RBDSTStack(t *testing.T) {
	opt, err := New(testRoster())
	require.NoError(t, err)

	require.NoError(t, opt.SetRBDSTStack("SF"))
	site := SiteDraftKings()
	lineup, err := opt.Optimize(context.Background(), site)
	require.NoError(t, err)
	assertValidLineup(t, site, lineup)

	rbs, dsts := 0, 0
	for _, p := range lineup.Players {
		if p.Team != "SF" {
			continue
		}
		switch p.Position {
		case RB:
			rbs++
		case DST:
			dsts++
		}
	}
	assert.GreaterOrEqual(t, rbs, 1)
	assert.Equal(t, 1, dsts)
}

func TestOptimize_SundaySlate(t *testing.T) {
	opt, err := New(testRoster())
	require.NoError(t, err)

	require.NoError(t, opt.SetGameSlate(SlateSunday))
	site := SiteDraftKings()
	lineup, err := opt.Optimize(context.Background(), site)
	require.NoError(t, err)
	assertValidLineup(t, site, lineup)
	for _, p := range lineup.Players {
		assert.Equal(t, time.Sunday, p.GameTime.Weekday())
	}
}

func TestOptimize_SundayEarlySlate(t *testing.T) {
	opt, err := New(testRoster())
	require.NoError(t, err)

	require.NoError(t, opt.SetGameSlate(SlateSundayEarly))
	site := SiteDraftKings()
	lineup, err := opt.Optimize(context.Background(), site)
	require.NoError(t, err)
	assertValidLineup(t, site, lineup)
	for _, p := range lineup.Players {
		assert.Equal(t, time.Sunday, p.GameTime.Weekday())
		assert.Equal(t, 13, p.GameTime.Hour())
	}
}

func TestSetGameSlate_MondayThursdayNeedsTwoWeeks(t *testing.T) {
	opt, err := New(testRoster())
	require.NoError(t, err)

	err = opt.SetGameSlate(SlateMondayAndThursday)
	assert.ErrorIs(t, err, ErrInvalidRoster)
}

func TestOptimize_MondayThursdaySlate(t *testing.T) {
	thursdayNight := time.Date(2025, 11, 6, 20, 15, 0, 0, time.UTC)
	var roster []Player
	for _, p := range testRoster() {
		// Keep the Monday game in week 9; move every Sunday game to a
		// Thursday in week 10. The optimizer must pair Monday of the first
		// week with Thursday of the second.
		if p.GameTime.Weekday() != time.Monday {
			p.GameTime = thursdayNight
			p.Week = 10
		}
		roster = append(roster, p)
	}

	opt, err := New(roster)
	require.NoError(t, err)
	require.NoError(t, opt.SetGameSlate(SlateMondayAndThursday))

	site := SiteDraftKings()
	lineup, err := opt.Optimize(context.Background(), site)
	require.NoError(t, err)
	assertValidLineup(t, site, lineup)
	for _, p := range lineup.Players {
		validPair := (p.Week == 9 && p.GameTime.Weekday() == time.Monday) ||
			(p.Week == 10 && p.GameTime.Weekday() == time.Thursday)
		assert.True(t, validPair, "player %s outside the Monday/Thursday window", p.Name)
	}
}

func TestOptimize_Unsolvable(t *testing.T) {
	opt, err := New(testRoster())
	require.NoError(t, err)

	// Four teams capped at one player each allow at most four picks, far
	// short of a nine-slot lineup.
	require.NoError(t, opt.SetMaxPlayersFromTeam("PHI", 1))
	require.NoError(t, opt.SetMaxPlayersFromTeam("DAL", 1))
	require.NoError(t, opt.SetMaxPlayersFromTeam("SF", 1))
	require.NoError(t, opt.SetMaxPlayersFromTeam("BUF", 1))

	_, err = opt.Optimize(context.Background(), SiteDraftKings())
	assert.ErrorIs(t, err, ErrUnsolvable)
}

func TestOptimize_ExpiredDeadline(t *testing.T) {
	opt, err := New(testRoster(), WithSolveTimeout(time.Nanosecond))
	require.NoError(t, err)

	_, err = opt.Optimize(context.Background(), SiteDraftKings())
	assert.ErrorIs(t, err, ErrUnsolvable)
	assert.Contains(t, err.Error(), "not-solved")
}

func TestOptimize_CustomSolverStatus(t *testing.T) {
	opt, err := New(testRoster(), WithSolver(stubSolver{status: solver.StatusInfeasible}))
	require.NoError(t, err)

	_, err = opt.Optimize(context.Background(), SiteDraftKings())
	assert.ErrorIs(t, err, ErrUnsolvable)
	assert.Contains(t, err.Error(), "infeasible")
}

type stubSolver struct {
	status solver.Status
}

func (s stubSolver) Solve(ctx context.Context, m *solver.Model) (*solver.Solution, error) {
	return &solver.Solution{Status: s.status}, nil
}

func lineupContains(lineup *OptimizedLineup, externalID string) bool {
	for _, p := range lineup.Players {
		if p.ExternalID == externalID {
			return true
		}
	}
	return false
}
