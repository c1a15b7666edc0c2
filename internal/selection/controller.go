package selection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/marquee/internal/catalog"
	"github.com/mmcdole/marquee/internal/domain"
)

// Outcome is the settled result of one recommendation fetch
type Outcome struct {
	Ticket Ticket
	Result domain.RecommendationResult
	Err    error
}

// Controller turns selection requests into generation-stamped fetches and
// decides which outcomes may reach the view.
type Controller struct {
	state   *State
	catalog *catalog.Catalog
	repo    domain.RecommendationRepository
	logger  *slog.Logger
}

// NewController creates a controller over an empty catalog
func NewController(state *State, repo domain.RecommendationRepository, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if state == nil {
		state = &State{}
	}
	return &Controller{
		state:   state,
		catalog: catalog.Empty(),
		repo:    repo,
		logger:  logger,
	}
}

// SetCatalog installs the loaded catalog used for id lookups
func (c *Controller) SetCatalog(cat *catalog.Catalog) {
	if cat == nil {
		cat = catalog.Empty()
	}
	c.catalog = cat
}

// State returns the selection state the controller mutates
func (c *Controller) State() *State {
	return c.state
}

// Select starts a new selection. An id absent from the catalog returns
// domain.ErrMovieNotFound and leaves the state untouched.
func (c *Controller) Select(movieID string) (Ticket, error) {
	if _, ok := c.catalog.Lookup(movieID); !ok {
		c.logger.Debug("ignoring selection of unknown movie", "movieID", movieID)
		return Ticket{}, fmt.Errorf("select %q: %w", movieID, domain.ErrMovieNotFound)
	}

	t := c.state.Begin(movieID)
	c.logger.Debug("selection issued", "movieID", movieID, "generation", t.Generation)
	return t, nil
}

// Fetch performs the network request for t. It is safe to call off the
// event loop because it never reads or writes the selection state.
func (c *Controller) Fetch(ctx context.Context, t Ticket) Outcome {
	result, err := c.repo.GetRecommendations(ctx, t.MovieID)
	if err != nil {
		if !errors.Is(err, domain.ErrRecommendationFetch) {
			err = fmt.Errorf("%w: %w", domain.ErrRecommendationFetch, err)
		}
		return Outcome{Ticket: t, Err: err}
	}
	return Outcome{Ticket: t, Result: result}
}

// Commit applies the generation gate. It returns false for a stale outcome,
// which must then be dropped without any visible effect.
func (c *Controller) Commit(o Outcome) bool {
	if !c.state.Settle(o.Ticket) {
		c.logger.Debug("discarding stale recommendations",
			"movieID", o.Ticket.MovieID,
			"generation", o.Ticket.Generation,
			"current", c.state.Generation(),
		)
		return false
	}
	if o.Err != nil {
		c.logger.Warn("recommendation fetch failed", "movieID", o.Ticket.MovieID, "error", o.Err)
	}
	return true
}
