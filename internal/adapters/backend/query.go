package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// databasePath prefixes every table-scoped request.
const databasePath = "/database/v1/"

// singleAccept asks for exactly one JSON object instead of an array.
// The service answers 406 when no row matches.
const singleAccept = "application/vnd.pgrst.object+json"

// Query builds one table-scoped request: select/insert/update/delete
// with eq filters, ordering, a row cap, and single-object mode. Each
// terminal call is an independent network round trip.
type Query struct {
	c      *Client
	table  string
	params url.Values
	single bool
}

// From starts a query against one table.
func (c *Client) From(table string) *Query {
	return &Query{c: c, table: table, params: url.Values{}}
}

// Select names the returned columns, including embedded joins such as
// "*, users!inner(id, nickname, avatar_url)".
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

// Eq adds an equality filter on one column.
func (q *Query) Eq(column, value string) *Query {
	q.params.Set(column, "eq."+value)
	return q
}

// Order sorts by one column. descending=false gives ascending order.
func (q *Query) Order(column string, descending bool) *Query {
	dir := "asc"
	if descending {
		dir = "desc"
	}
	q.params.Set("order", column+"."+dir)
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Single switches to single-object mode: the result decodes into one
// object and an empty result becomes ErrNoRows.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

func (q *Query) header() http.Header {
	h := http.Header{}
	if q.single {
		h.Set("Accept", singleAccept)
	}
	return h
}

// mapErr converts the single-mode "no row" answer into ErrNoRows so
// callers can tell a definitive empty result from a request failure.
func (q *Query) mapErr(err error) error {
	if err == nil {
		return nil
	}
	if apiErr, ok := err.(*APIError); ok && q.single && apiErr.Status == http.StatusNotAcceptable {
		return ErrNoRows
	}
	return err
}

// Get fetches rows into out.
func (q *Query) Get(ctx context.Context, out any) error {
	return q.mapErr(q.c.authed(ctx, http.MethodGet, databasePath+q.table, q.params, nil, out, q.header()))
}

// Insert writes row and, when out is non-nil, decodes the stored
// representation back into it.
func (q *Query) Insert(ctx context.Context, row, out any) error {
	h := q.header()
	if out != nil {
		h.Set("Prefer", "return=representation")
	}
	return q.mapErr(q.c.authed(ctx, http.MethodPost, databasePath+q.table, q.params, row, out, h))
}

// Update patches the filtered rows with changes.
func (q *Query) Update(ctx context.Context, changes, out any) error {
	h := q.header()
	if out != nil {
		h.Set("Prefer", "return=representation")
	}
	return q.mapErr(q.c.authed(ctx, http.MethodPatch, databasePath+q.table, q.params, changes, out, h))
}

// Delete removes the filtered rows.
func (q *Query) Delete(ctx context.Context) error {
	return q.mapErr(q.c.authed(ctx, http.MethodDelete, databasePath+q.table, q.params, nil, nil, q.header()))
}
