package search

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// Controller turns a query into a ResultSet by reading the finder's ranked
// output and annotating each line.
type Controller struct {
	finder Finder
	logger zerolog.Logger
	cache  *lru.Cache[string, ResultSet]
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the logger used for absorbed finder errors.
func WithLogger(logger zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithCache keeps the last size result sets keyed by query. size <= 0
// disables caching.
func WithCache(size int) ControllerOption {
	return func(c *Controller) {
		if size <= 0 {
			c.cache = nil
			return
		}
		cache, err := lru.New[string, ResultSet](size)
		if err != nil {
			return
		}
		c.cache = cache
	}
}

// NewController creates a controller backed by finder.
func NewController(finder Finder, opts ...ControllerOption) *Controller {
	c := &Controller{
		finder: finder,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns at most MaxResults rows for query in the finder's rank
// order. An empty query yields an empty set without starting the finder.
// Finder failures are logged and degrade to whatever was read so far.
func (c *Controller) Search(ctx context.Context, query string) ResultSet {
	if query == "" {
		return nil
	}
	if c.cache != nil {
		if rows, ok := c.cache.Get(query); ok {
			return rows.clone()
		}
	}
	if c.finder == nil {
		return nil
	}

	stream, err := c.finder.Find(ctx, query)
	if err != nil {
		level := zerolog.WarnLevel
		if errors.Is(err, context.Canceled) {
			level = zerolog.DebugLevel
		}
		c.logger.WithLevel(level).Err(err).Str("query", query).Msg("search failed to start")
		return nil
	}

	rows, readErr := c.readRows(stream, query)
	_ = stream.Close()

	if readErr != nil {
		c.logger.Debug().Err(readErr).Str("query", query).Int("rows", len(rows)).Msg("search output ended early")
		return rows
	}
	c.logger.Debug().Str("query", query).Strs("paths", rows.Paths()).Msg("search finished")
	if c.cache != nil && ctx.Err() == nil {
		c.cache.Add(query, rows.clone())
	}
	return rows
}

func (c *Controller) readRows(r io.Reader, query string) (ResultSet, error) {
	reader := bufio.NewReader(r)
	rows := make(ResultSet, 0, MaxResults)

	for read := 0; read < MaxResults; read++ {
		line, err := reader.ReadString('\n')
		if line == "" && err != nil {
			if errors.Is(err, io.EOF) {
				return rows, nil
			}
			return rows, err
		}

		line = strings.TrimSuffix(line, "\n")
		if utf8.ValidString(line) {
			rows = append(rows, RenderRow{Path: line, Spans: Annotate(line, query)})
		} else {
			c.logger.Debug().Int("line", read).Msg("skipping candidate that is not valid UTF-8")
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return rows, nil
			}
			return rows, err
		}
	}
	return rows, nil
}
