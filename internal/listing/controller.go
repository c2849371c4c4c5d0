package listing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/internal/log"
	"github.com/Alturino/bagstore/internal/otel"
)

const DefaultDebounce = 500 * time.Millisecond

type FetchFunc[T any] func(c context.Context, q Query) (Page[T], error)

// Column renders one field of T as a table cell.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

type Listener[T any] func(p Page[T], err error)

type Option func(*options)

type options struct {
	clock    clock.Clock
	debounce time.Duration
	limit    int
}

func WithClock(clk clock.Clock) Option {
	return func(o *options) { o.clock = clk }
}

func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

func WithLimit(limit int) Option {
	return func(o *options) { o.limit = limit }
}

// Controller drives one paginated listing: search input settles for the
// debounce delay before a fetch, page and limit changes fetch immediately, and
// only the most recently started fetch may replace the current page.
type Controller[T any] struct {
	fetch    FetchFunc[T]
	columns  []Column[T]
	clock    clock.Clock
	debounce time.Duration

	mu        sync.Mutex
	query     Query
	page      Page[T]
	err       error
	timer     clock.Timer
	seq       uint64
	listeners []Listener[T]
}

func NewController[T any](fetch FetchFunc[T], columns []Column[T], opts ...Option) *Controller[T] {
	o := options{clock: clock.WallClock, debounce: DefaultDebounce, limit: DefaultLimit}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{
		fetch:    fetch,
		columns:  columns,
		clock:    o.clock,
		debounce: o.debounce,
		query:    Query{Page: 1}.Normalize(o.limit),
	}
}

func (ctl *Controller[T]) OnChange(listener Listener[T]) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	ctl.listeners = append(ctl.listeners, listener)
}

// Search records new search text and schedules a fetch of the first page once
// no further input arrives for the debounce delay.
func (ctl *Controller[T]) Search(c context.Context, text string) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()

	ctl.query.Search = text
	ctl.query.Page = 1
	if ctl.timer != nil {
		ctl.timer.Stop()
	}
	ctl.timer = ctl.clock.AfterFunc(ctl.debounce, func() {
		_ = ctl.Refetch(c)
	})
}

// SetQuery replaces the whole query and fetches it without waiting.
func (ctl *Controller[T]) SetQuery(c context.Context, q Query) error {
	ctl.mu.Lock()
	ctl.query = q.Normalize(ctl.query.Limit)
	ctl.mu.Unlock()
	return ctl.Refetch(c)
}

func (ctl *Controller[T]) SetStatus(c context.Context, status string) error {
	ctl.mu.Lock()
	ctl.query.Status = status
	ctl.query.Page = 1
	ctl.mu.Unlock()
	return ctl.Refetch(c)
}

func (ctl *Controller[T]) SetPage(c context.Context, page int) error {
	ctl.mu.Lock()
	ctl.query.Page = page
	ctl.query = ctl.query.Normalize(ctl.query.Limit)
	ctl.mu.Unlock()
	return ctl.Refetch(c)
}

func (ctl *Controller[T]) SetLimit(c context.Context, limit int) error {
	ctl.mu.Lock()
	ctl.query.Limit = limit
	ctl.query.Page = 1
	ctl.query = ctl.query.Normalize(DefaultLimit)
	ctl.mu.Unlock()
	return ctl.Refetch(c)
}

func (ctl *Controller[T]) NextPage(c context.Context) error {
	ctl.mu.Lock()
	if ctl.page.TotalPages > 0 && ctl.query.Page >= ctl.page.TotalPages {
		ctl.mu.Unlock()
		return nil
	}
	ctl.query.Page++
	ctl.mu.Unlock()
	return ctl.Refetch(c)
}

func (ctl *Controller[T]) PrevPage(c context.Context) error {
	ctl.mu.Lock()
	if ctl.query.Page <= 1 {
		ctl.mu.Unlock()
		return nil
	}
	ctl.query.Page--
	ctl.mu.Unlock()
	return ctl.Refetch(c)
}

// Refetch loads the page for the current query. A failed fetch keeps the
// previously loaded page.
func (ctl *Controller[T]) Refetch(c context.Context) error {
	c, span := otel.Tracer.Start(c, "listing Controller Refetch")
	defer span.End()

	ctl.mu.Lock()
	ctl.seq++
	seq := ctl.seq
	query := ctl.query
	ctl.mu.Unlock()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "listing Controller Refetch").
		Any(log.KeyQuery, query).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "fetching page").Logger()
	logger.Trace().Msg("fetching page")
	page, err := ctl.fetch(c, query)
	if err != nil {
		err = fmt.Errorf("failed fetching page with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	} else {
		logger.Trace().Int64("total", page.Total).Msg("fetched page")
	}

	ctl.mu.Lock()
	if seq != ctl.seq {
		ctl.mu.Unlock()
		logger.Trace().Msg("discarded stale page")
		return err
	}
	ctl.err = err
	if err == nil {
		ctl.page = page
	}
	current, listeners := ctl.page, append([]Listener[T]{}, ctl.listeners...)
	ctl.mu.Unlock()

	for _, listener := range listeners {
		listener(current, err)
	}
	return err
}

func (ctl *Controller[T]) Query() Query {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.query
}

func (ctl *Controller[T]) Page() Page[T] {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.page
}

func (ctl *Controller[T]) Err() error {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.err
}

func (ctl *Controller[T]) Headers() []string {
	headers := make([]string, 0, len(ctl.columns))
	for _, column := range ctl.columns {
		headers = append(headers, column.Header)
	}
	return headers
}

func (ctl *Controller[T]) Rows() [][]string {
	page := ctl.Page()
	rows := make([][]string, 0, len(page.Items))
	for _, item := range page.Items {
		row := make([]string, 0, len(ctl.columns))
		for _, column := range ctl.columns {
			row = append(row, column.Value(item))
		}
		rows = append(rows, row)
	}
	return rows
}

// Stop cancels a pending debounced fetch.
func (ctl *Controller[T]) Stop() {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	if ctl.timer != nil {
		ctl.timer.Stop()
		ctl.timer = nil
	}
}
