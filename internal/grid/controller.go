package grid

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/mmcdole/mosaic/internal/domain"
)

// Defaults for a fresh board
const (
	DefaultInitialTotal   = 9
	DefaultPlacementDelay = 900 * time.Millisecond
)

// State is the controller's position in its placement cycle
type State int

const (
	StateIdle State = iota
	StatePlacing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlacing:
		return "placing"
	default:
		return "unknown"
	}
}

// AddResult tells the caller what AddImage did with a URL
type AddResult int

const (
	AddIgnored AddResult = iota // blank input or closed controller
	AddPlaced                   // board was full: grown and written immediately
	AddFlying                   // target chosen, commit scheduled
	AddQueued                   // another placement is in flight
)

func (r AddResult) String() string {
	switch r {
	case AddIgnored:
		return "ignored"
	case AddPlaced:
		return "placed"
	case AddFlying:
		return "flying"
	case AddQueued:
		return "queued"
	default:
		return "unknown"
	}
}

// EventKind identifies a controller state change
type EventKind int

const (
	EventPlaced EventKind = iota
	EventFlying
	EventQueued
	EventGrown
	EventIdle
)

// Event is passed to Options.OnChange after every state change
type Event struct {
	Kind  EventKind
	Index int // cell index for Placed and Flying, -1 otherwise
	Image domain.Image
	Total int
}

// Flight is the placement currently travelling to its cell
type Flight struct {
	ID        uint64
	Image     domain.Image
	Index     int
	Row       int
	Col       int
	XPct      float64
	YPct      float64
	StartedAt time.Time
	Delay     time.Duration
}

// Progress returns how far along the flight is at now, in [0, 1]
func (f Flight) Progress(now time.Time) float64 {
	if f.Delay <= 0 {
		return 1
	}
	p := float64(now.Sub(f.StartedAt)) / float64(f.Delay)
	return min(max(p, 0), 1)
}

// Options configures a Controller. Zero values pick the defaults.
type Options struct {
	InitialTotal int
	Seed         []domain.Image
	Delay        time.Duration
	Rand         *rand.Rand
	Now          func() time.Time // Injectable for testing
	Logger       *slog.Logger
	OnChange     func(Event)
}

// Controller owns the board and reacts to add-image requests. It is not
// safe for concurrent use: every call, including the completions its
// Scheduler delivers, must happen on one goroutine.
type Controller struct {
	cells []*domain.Image
	items []domain.Image
	geom  Geometry

	state  State
	flight *Flight
	timer  Timer
	queue  []domain.Image
	nextID uint64
	closed bool

	sched    Scheduler
	delay    time.Duration
	rng      *rand.Rand
	now      func() time.Time
	logger   *slog.Logger
	onChange func(Event)
}

// NewController creates a board. Seed records fill the first cells in
// order, and the total is the larger of InitialTotal and what the seed
// needs, rounded up to a perfect square. sched must not be nil.
func NewController(sched Scheduler, opts Options) *Controller {
	if opts.InitialTotal <= 0 {
		opts.InitialTotal = DefaultInitialTotal
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultPlacementDelay
	}
	if opts.Rand == nil {
		opts.Rand = NewRand(0)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	geom := Size(max(opts.InitialTotal, len(opts.Seed)))
	c := &Controller{
		cells:    make([]*domain.Image, geom.Total),
		geom:     geom,
		sched:    sched,
		delay:    opts.Delay,
		rng:      opts.Rand,
		now:      opts.Now,
		logger:   opts.Logger,
		onChange: opts.OnChange,
	}
	for i, img := range opts.Seed {
		c.cells[i] = &img
		c.items = append(c.items, img)
	}
	return c
}

// AddImage submits a URL. Blank input is ignored without any change.
func (c *Controller) AddImage(raw string) AddResult {
	if c.closed || strings.TrimSpace(raw) == "" {
		return AddIgnored
	}
	img := domain.NewImage(raw)

	if c.state == StatePlacing {
		c.queue = append(c.queue, img)
		c.logger.Debug("placement queued", "url", img.URL, "queued", len(c.queue))
		c.emit(Event{Kind: EventQueued, Index: -1, Image: img, Total: c.geom.Total})
		return AddQueued
	}

	res := c.place(img)
	if c.state == StateIdle {
		c.emit(Event{Kind: EventIdle, Index: -1, Total: c.geom.Total})
	}
	return res
}

// place runs one record through the placement policy. The caller must
// have checked that the controller is idle.
func (c *Controller) place(img domain.Image) AddResult {
	idx, err := PickEmpty(c.cells, c.rng)
	if errors.Is(err, domain.ErrGridFull) {
		// Full board: grow first, no flight.
		c.grow(len(c.items) + 1)
		idx = FirstEmpty(c.cells)
		c.commit(idx, img)
		return AddPlaced
	}

	c.nextID++
	row, col := c.geom.Cell(idx)
	x, y := c.geom.Offset(idx)
	f := &Flight{
		ID:        c.nextID,
		Image:     img,
		Index:     idx,
		Row:       row,
		Col:       col,
		XPct:      x,
		YPct:      y,
		StartedAt: c.now(),
		Delay:     c.delay,
	}
	c.flight = f
	c.state = StatePlacing

	id := f.ID
	c.timer = c.sched.AfterFunc(c.delay, func() { c.complete(id) })

	c.logger.Debug("placement started", "id", id, "index", idx, "row", row, "col", col)
	c.emit(Event{Kind: EventFlying, Index: idx, Image: img, Total: c.geom.Total})
	return AddFlying
}

// complete lands the flight with the given id. Stale ids and completions
// after Close are dropped.
func (c *Controller) complete(id uint64) {
	if c.closed || c.flight == nil || c.flight.ID != id {
		c.logger.Debug("stale placement completion dropped", "id", id)
		return
	}
	f := c.flight
	c.flight = nil
	c.timer = nil
	c.state = StateIdle
	c.commit(f.Index, f.Image)

	for len(c.queue) > 0 && c.state == StateIdle {
		next := c.queue[0]
		c.queue = c.queue[1:]
		c.place(next)
	}
	if c.state == StateIdle {
		c.emit(Event{Kind: EventIdle, Index: -1, Total: c.geom.Total})
	}
}

func (c *Controller) commit(idx int, img domain.Image) {
	c.cells[idx] = &img
	c.items = append(c.items, img)
	c.logger.Debug("image placed", "index", idx, "url", img.URL, "items", len(c.items))
	c.emit(Event{Kind: EventPlaced, Index: idx, Image: img, Total: c.geom.Total})
}

// grow extends the board to fit n items. Existing cells keep their index.
func (c *Controller) grow(n int) {
	g := Size(n)
	if g.Total <= c.geom.Total {
		return
	}
	cells := make([]*domain.Image, g.Total)
	copy(cells, c.cells)
	c.cells = cells
	old := c.geom.Total
	c.geom = g
	c.logger.Info("grid grown", "from", old, "to", g.Total)
	c.emit(Event{Kind: EventGrown, Index: -1, Total: g.Total})
}

func (c *Controller) emit(e Event) {
	if c.onChange != nil {
		c.onChange(e)
	}
}

// Close cancels any pending placement and makes further calls no-ops.
// Calling it more than once is safe.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.flight = nil
	c.queue = nil
	c.state = StateIdle
}

// State returns the current placement state
func (c *Controller) State() State {
	return c.state
}

// Flight returns the in-flight placement, if any
func (c *Controller) Flight() (Flight, bool) {
	if c.flight == nil {
		return Flight{}, false
	}
	return *c.flight, true
}

// Cells returns a copy of the board; nil entries are empty cells
func (c *Controller) Cells() []*domain.Image {
	out := make([]*domain.Image, len(c.cells))
	copy(out, c.cells)
	return out
}

// Items returns the committed records in the order they landed
func (c *Controller) Items() []domain.Image {
	out := make([]domain.Image, len(c.items))
	copy(out, c.items)
	return out
}

// Total returns the number of cells
func (c *Controller) Total() int {
	return c.geom.Total
}

// Geometry returns the current layout
func (c *Controller) Geometry() Geometry {
	return c.geom
}

// Filled returns the number of occupied cells
func (c *Controller) Filled() int {
	return len(c.cells) - len(EmptyCells(c.cells))
}

// Queued returns how many adds are waiting behind the current flight
func (c *Controller) Queued() int {
	return len(c.queue)
}

// Idle reports whether nothing is in flight or queued
func (c *Controller) Idle() bool {
	return c.state == StateIdle && len(c.queue) == 0
}

// Closed reports whether Close has been called
func (c *Controller) Closed() bool {
	return c.closed
}
