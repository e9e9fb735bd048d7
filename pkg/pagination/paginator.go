package pagination

import (
	"context"
	"fmt"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Window describes the slice of the ordered result set one page fetch
// covers. Value is nil on a first-page fetch. Op is the comparison applied
// to the ordering column ("<" or ">"), Desc the fetch order, and Limit the
// row budget including the look-ahead row.
type Window struct {
	Value     any
	Secondary any
	Op        string
	Desc      bool
	Limit     int
}

// SQL renders the window as Postgres WHERE and ORDER BY fragments with
// numbered placeholders starting at argBase. The WHERE fragment is empty on
// a first-page fetch. tieCol may be empty when no tie-break is configured.
func (w Window) SQL(orderCol, tieCol string, argBase int) (where, orderBy string, args []any) {
	dir := "ASC"
	if w.Desc {
		dir = "DESC"
	}

	orderBy = fmt.Sprintf("%s %s", orderCol, dir)
	if tieCol != "" {
		orderBy = fmt.Sprintf("%s %s, %s %s", orderCol, dir, tieCol, dir)
	}

	if w.Value == nil {
		return "", orderBy, nil
	}

	if tieCol != "" && w.Secondary != nil {
		where = fmt.Sprintf("(%s %s $%d OR (%s = $%d AND %s %s $%d))",
			orderCol, w.Op, argBase, orderCol, argBase, tieCol, w.Op, argBase+1)
		args = []any{w.Value, w.Secondary}
		return where, orderBy, args
	}

	where = fmt.Sprintf("%s %s $%d", orderCol, w.Op, argBase)
	args = []any{w.Value}
	return where, orderBy, args
}

// Source is the storage contract a paginator reads from. Fetch must return
// rows in the order the window requests, honoring its comparison and limit.
// Count is only called when a total is requested.
type Source[T any] interface {
	Fetch(ctx context.Context, w Window) ([]T, error)
	Count(ctx context.Context) (int64, error)
}

// KeyFunc extracts an ordering value from a row.
type KeyFunc[T any] func(item T) any

// Config fixes the ordering a Paginator traverses.
//
// Secondary should always be a unique column such as the row ID. Without
// one, rows sharing a primary value across a page boundary are skipped.
type Config[T any] struct {
	Direction      Direction
	Key            KeyFunc[T]
	Secondary      KeyFunc[T]
	ParseKey       ParseFunc
	ParseSecondary ParseFunc
}

// Page is one slice of a cursor traversal. NextCursor and PrevCursor are
// only set when the corresponding flag is true. TotalCount is present only
// when a total was requested.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	PrevCursor string `json:"prev_cursor,omitempty"`
	HasNext    bool   `json:"has_next"`
	HasPrev    bool   `json:"has_prev"`
	TotalCount *int64 `json:"total_count,omitempty"`
}

// Paginator walks an ordered result set in O(1) per page using opaque
// keyset cursors, forward and backward, without the offset-scan cost or the
// duplicate/skip anomalies of offset pagination.
type Paginator[T any] struct {
	src Source[T]
	cfg Config[T]
}

func New[T any](src Source[T], cfg Config[T]) *Paginator[T] {
	if cfg.Direction == "" {
		cfg.Direction = Desc
	}

	return &Paginator[T]{src: src, cfg: cfg}
}

// Paginate fetches one page. An empty or malformed cursor yields the first
// page. limit defaults to 50 when zero and is clamped to [1, 100].
// includeTotal triggers a separate full count query.
func (p *Paginator[T]) Paginate(ctx context.Context, cursor string, limit int, includeTotal bool) (*Page[T], error) {
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	cur, ok := DecodeCursor(cursor)

	var value, secondary any
	if ok {
		value, secondary, ok = p.parseCursorValues(cur)
	}

	reverse := ok && cur.Reverse

	w := Window{Limit: limit + 1, Desc: p.cfg.Direction == Desc}
	if ok {
		w.Value = value
		w.Secondary = secondary
		w.Op, w.Desc = p.comparison(reverse)
	}

	rows, err := p.src.Fetch(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	// Backward fetches run in flipped order; restore presentation order.
	if reverse {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}

	page := &Page[T]{Items: rows}
	if reverse {
		page.HasNext = true
		page.HasPrev = hasMore
	} else {
		page.HasNext = hasMore
		page.HasPrev = ok
	}

	if len(rows) > 0 {
		if page.HasNext {
			page.NextCursor = EncodeCursor(p.boundaryCursor(rows[len(rows)-1], false))
		}
		if page.HasPrev {
			page.PrevCursor = EncodeCursor(p.boundaryCursor(rows[0], true))
		}
	}

	if includeTotal {
		total, err := p.src.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count rows: %w", err)
		}
		page.TotalCount = &total
	}

	return page, nil
}

// parseCursorValues converts decoded cursor primitives through the
// configured parsers. Any parse failure marks the whole cursor malformed.
func (p *Paginator[T]) parseCursorValues(cur Cursor) (value, secondary any, ok bool) {
	value = cur.Value
	if p.cfg.ParseKey != nil {
		v, err := p.cfg.ParseKey(cur.Value)
		if err != nil {
			return nil, nil, false
		}
		value = v
	}

	if p.cfg.Secondary == nil || cur.SecondaryValue == nil {
		return value, nil, true
	}

	secondary = cur.SecondaryValue
	if p.cfg.ParseSecondary != nil {
		v, err := p.cfg.ParseSecondary(cur.SecondaryValue)
		if err != nil {
			return nil, nil, false
		}
		secondary = v
	}

	return value, secondary, true
}

// comparison picks the filter operator and fetch order from the base
// direction and the cursor's travel direction: desc+forward filters with <,
// desc+backward with > (fetched ascending, then re-reversed); asc is
// symmetric.
func (p *Paginator[T]) comparison(reverse bool) (op string, desc bool) {
	if p.cfg.Direction == Desc {
		if reverse {
			return ">", false
		}
		return "<", true
	}

	if reverse {
		return "<", true
	}
	return ">", false
}

func (p *Paginator[T]) boundaryCursor(item T, reverse bool) Cursor {
	c := Cursor{Value: p.cfg.Key(item), Reverse: reverse}
	if p.cfg.Secondary != nil {
		c.SecondaryValue = p.cfg.Secondary(item)
	}
	return c
}
