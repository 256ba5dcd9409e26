package search

import (
	"context"
	"fmt"
	"log"

	"github.com/meridianbank/console/internal/api"
	"github.com/meridianbank/console/internal/models"
)

// Engine binds query building and paging to the backend find endpoint for
// one role's transactions view.
type Engine struct {
	client *api.Client
	role   models.Role

	mode   Mode
	inputs Inputs
	pager  *Pager
}

func NewEngine(client *api.Client, role models.Role) *Engine {
	return &Engine{
		client: client,
		role:   role,
		pager:  NewPager(),
	}
}

// SetMode switches between by-id and by-filter search. Switching clears all
// field values and any stored paging state.
func (e *Engine) SetMode(m Mode) {
	if m == e.mode {
		return
	}
	e.mode = m
	e.inputs = Inputs{}
	e.pager.Reset()
}

func (e *Engine) Mode() Mode { return e.mode }

func (e *Engine) Inputs() Inputs { return e.inputs }

func (e *Engine) SetInputs(in Inputs) { e.inputs = in }

// Search validates the current inputs, issues a fresh query at offset 0 and
// stores the parameters for subsequent page changes. Validation failures
// never reach the network.
func (e *Engine) Search(ctx context.Context) (*ResultSet, error) {
	q, verr := BuildQuery(e.mode, e.inputs, e.pager.Limit, 0)
	if verr != nil {
		return nil, verr
	}
	e.pager.Begin(q)
	return e.run(ctx, q)
}

// NextPage re-issues the stored query with the offset advanced one page.
func (e *Engine) NextPage(ctx context.Context) (*ResultSet, error) {
	q := e.pager.Next()
	if q == nil {
		return nil, fmt.Errorf("no search to page through")
	}
	return e.run(ctx, q)
}

// PrevPage steps back one page, never below offset 0.
func (e *Engine) PrevPage(ctx context.Context) (*ResultSet, error) {
	q := e.pager.Prev()
	if q == nil {
		return nil, fmt.Errorf("no search to page through")
	}
	return e.run(ctx, q)
}

func (e *Engine) HasNext() bool { return e.pager.HasNext() }
func (e *Engine) HasPrev() bool { return e.pager.HasPrev() }
func (e *Engine) Offset() int   { return e.pager.Offset }

func (e *Engine) run(ctx context.Context, q *Query) (*ResultSet, error) {
	var resp struct {
		Transactions ResultSet `json:"transactions"`
	}
	path := fmt.Sprintf("/%s/transactions/find", e.role.PathSegment())
	if err := e.client.Post(ctx, path, q, &resp); err != nil {
		log.Printf("[SEARCH] find failed (mode=%s offset=%d): %v", e.mode, e.pager.Offset, err)
		return nil, err
	}

	e.pager.Record(resp.Transactions.FlatCount())
	return &resp.Transactions, nil
}
