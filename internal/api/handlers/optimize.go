package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/lineup-optimizer/internal/config"
	"github.com/stitts-dev/lineup-optimizer/internal/optimizer"
	"github.com/stitts-dev/lineup-optimizer/internal/storage"
	"github.com/stitts-dev/lineup-optimizer/pkg/cache"
	"github.com/stitts-dev/lineup-optimizer/pkg/logger"
)

// TeamLimit bounds how many players a lineup may draw from one team.
// Exact wins over Max/Min when set.
type TeamLimit struct {
	Team  string `json:"team" binding:"required"`
	Max   *int   `json:"max,omitempty"`
	Min   *int   `json:"min,omitempty"`
	Exact *int   `json:"exact,omitempty"`
}

// StackRequest configures a positional stack on one team.
type StackRequest struct {
	Team             string `json:"team" binding:"required"`
	ReceiverPosition string `json:"receiver_position,omitempty"`
	ReceiverCount    int    `json:"receiver_count,omitempty"`
}

// ConstraintRequest is the wire form of the constraint set. Constraints are
// applied in the order the fields are declared here; the first one that
// conflicts with an earlier one fails the whole request.
type ConstraintRequest struct {
	OnlyIncludeTeams []string      `json:"only_include_teams,omitempty"`
	ExcludeTeams     []string      `json:"exclude_teams,omitempty"`
	MustIncludeTeams []string      `json:"must_include_teams,omitempty"`
	IncludePlayers   []string      `json:"include_players,omitempty"`
	IncludePlayerIDs []string      `json:"include_player_ids,omitempty"`
	ExcludePlayers   []string      `json:"exclude_players,omitempty"`
	ExcludePlayerIDs []string      `json:"exclude_player_ids,omitempty"`
	TeamLimits       []TeamLimit   `json:"team_limits,omitempty"`
	MaxSalary        int           `json:"max_salary,omitempty"`
	MinSalary        int           `json:"min_salary,omitempty"`
	QBReceiverStack  *StackRequest `json:"qb_receiver_stack,omitempty"`
	RBDSTStack       *StackRequest `json:"rb_dst_stack,omitempty"`
	Slate            string        `json:"slate,omitempty"`
}

// OptimizeRequest is the body of POST /api/v1/optimize.
type OptimizeRequest struct {
	Site        string             `json:"site" binding:"required"`
	Players     []optimizer.Player `json:"players" binding:"required"`
	Constraints ConstraintRequest  `json:"constraints"`
}

type OptimizeHandler struct {
	cache  *cache.LineupCacheService
	store  *storage.Store
	config *config.Config
	log    *logrus.Entry
}

// NewOptimizeHandler creates the optimization handler. Cache and store may be
// nil; the handler solves every request directly and skips persistence.
func NewOptimizeHandler(cacheService *cache.LineupCacheService, store *storage.Store, cfg *config.Config) *OptimizeHandler {
	return &OptimizeHandler{
		cache:  cacheService,
		store:  store,
		config: cfg,
		log:    logger.WithService("optimize-handler"),
	}
}

// OptimizeLineup solves one lineup for the posted roster and constraints.
func (h *OptimizeHandler) OptimizeLineup(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "detail": err.Error()})
		return
	}

	site, err := optimizer.ParseSite(req.Site)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requestID := uuid.New().String()
	log := logger.WithOptimizationContext(requestID, site.Name)

	ctx := c.Request.Context()
	cacheKey := requestDigest(req)
	if h.cache != nil {
		if lineup, err := h.cache.GetLineup(ctx, cacheKey); err == nil {
			log.Debug("Returning cached lineup")
			c.JSON(http.StatusOK, gin.H{"request_id": requestID, "lineup": lineup, "cached": true})
			return
		}
	}

	opt, err := optimizer.New(req.Players,
		optimizer.WithSolveTimeout(h.config.SolveTimeout),
		optimizer.WithLogger(log),
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := applyConstraints(opt, req.Constraints); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lineup, err := opt.Optimize(ctx, site)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, optimizer.ErrUnsolvable):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, optimizer.ErrInvalidConstraint), errors.Is(err, optimizer.ErrInvalidRoster):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if h.cache != nil {
		if err := h.cache.SetLineup(ctx, cacheKey, lineup, h.config.CacheTTL); err != nil {
			log.WithError(err).Warn("Failed to cache lineup")
		}
	}
	if h.store != nil {
		if _, err := h.store.SaveLineup(lineup); err != nil {
			log.WithError(err).Warn("Failed to save lineup")
		}
	}

	c.JSON(http.StatusOK, gin.H{"request_id": requestID, "lineup": lineup, "cached": false})
}

// GetRecentLineups lists the most recently solved lineups.
func (h *OptimizeHandler) GetRecentLineups(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "lineup history is not configured"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	records, err := h.store.RecentLineups(limit)
	if err != nil {
		h.log.WithError(err).Error("Failed to load recent lineups")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recent lineups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lineups": records, "count": len(records)})
}

// applyConstraints walks the request in declaration order so conflict
// reporting is deterministic for a given payload.
func applyConstraints(opt *optimizer.LineupOptimizer, req ConstraintRequest) error {
	if len(req.OnlyIncludeTeams) > 0 {
		if err := opt.SetOnlyIncludeTeams(req.OnlyIncludeTeams); err != nil {
			return err
		}
	}
	if len(req.ExcludeTeams) > 0 {
		if err := opt.SetExcludeTeams(req.ExcludeTeams); err != nil {
			return err
		}
	}
	for _, team := range req.MustIncludeTeams {
		if err := opt.SetMustIncludeTeam(team); err != nil {
			return err
		}
	}
	for _, name := range req.IncludePlayers {
		if err := opt.SetMustIncludePlayer(name); err != nil {
			return err
		}
	}
	for _, id := range req.IncludePlayerIDs {
		if err := opt.SetMustIncludePlayerID(id); err != nil {
			return err
		}
	}
	for _, name := range req.ExcludePlayers {
		if err := opt.SetExcludePlayer(name); err != nil {
			return err
		}
	}
	for _, id := range req.ExcludePlayerIDs {
		if err := opt.SetExcludePlayerID(id); err != nil {
			return err
		}
	}
	for _, limit := range req.TeamLimits {
		if err := applyTeamLimit(opt, limit); err != nil {
			return err
		}
	}
	if req.MaxSalary > 0 {
		if err := opt.SetMaxSalary(req.MaxSalary); err != nil {
			return err
		}
	}
	if req.MinSalary > 0 {
		if err := opt.SetMinSalary(req.MinSalary); err != nil {
			return err
		}
	}
	if req.QBReceiverStack != nil {
		var opts []optimizer.StackOption
		if req.QBReceiverStack.ReceiverPosition != "" {
			opts = append(opts, optimizer.StackReceiverPosition(optimizer.NormalizePosition(req.QBReceiverStack.ReceiverPosition)))
		}
		if req.QBReceiverStack.ReceiverCount > 0 {
			opts = append(opts, optimizer.StackReceiverCount(req.QBReceiverStack.ReceiverCount))
		}
		if err := opt.SetQBReceiverStack(req.QBReceiverStack.Team, opts...); err != nil {
			return err
		}
	}
	if req.RBDSTStack != nil {
		if err := opt.SetRBDSTStack(req.RBDSTStack.Team); err != nil {
			return err
		}
	}
	if req.Slate != "" {
		kind, err := optimizer.ParseSlateKind(req.Slate)
		if err != nil {
			return err
		}
		if err := opt.SetGameSlate(kind); err != nil {
			return err
		}
	}
	return nil
}

func applyTeamLimit(opt *optimizer.LineupOptimizer, limit TeamLimit) error {
	if limit.Exact != nil {
		return opt.SetNumPlayersFromTeam(limit.Team, *limit.Exact)
	}
	if limit.Max != nil {
		if err := opt.SetMaxPlayersFromTeam(limit.Team, *limit.Max); err != nil {
			return err
		}
	}
	if limit.Min != nil {
		if err := opt.SetMinPlayersFromTeam(limit.Team, *limit.Min); err != nil {
			return err
		}
	}
	return nil
}

// requestDigest keys the response cache on the exact request payload, so any
// change in roster, site, or constraints is a cache miss.
func requestDigest(req OptimizeRequest) string {
	data, _ := json.Marshal(req)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
