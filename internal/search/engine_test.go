package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meridianbank/console/internal/api"
	"github.com/meridianbank/console/internal/models"
)

// findServer records every payload hitting the find endpoint and serves a
// canned number of records per page.
type findServer struct {
	payloads []map[string]any
	pageLen  func(call int) int
}

func (f *findServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customer/transactions/find", r.URL.Path)

		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		f.payloads = append(f.payloads, payload)

		n := f.pageLen(len(f.payloads))
		records := make([]models.TransactionRecord, n)
		for i := range records {
			records[i] = models.TransactionRecord{TransactionID: int64(i + 1), Status: models.TxSuccess}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"transactions": records})
	}
}

func newTestEngine(t *testing.T, handler http.Handler) (*Engine, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.New(server.URL, 5*time.Second)
	assert.NoError(t, err)
	return NewEngine(client, models.RoleCustomer), server
}

func TestEngine_ValidationFailsBeforeNetwork(t *testing.T) {
	called := false
	engine, _ := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	engine.SetMode(ModeByID)
	engine.SetInputs(Inputs{TransactionID: "1", ReferenceNumber: "2"})

	_, err := engine.Search(context.Background())
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, CodeBothProvided, verr.Code)
	assert.False(t, called, "rejected submission must not reach the network")
}

func TestEngine_PagingReusesStoredQuery(t *testing.T) {
	fs := &findServer{pageLen: func(int) int { return PageSize }}
	engine, _ := newTestEngine(t, fs.handler(t))

	engine.SetMode(ModeByFilter)
	engine.SetInputs(Inputs{
		AccountNumber: "900111",
		FromDate:      "2024-01-01",
		ToDate:        "2024-01-31",
	})

	_, err := engine.Search(context.Background())
	assert.NoError(t, err)
	assert.True(t, engine.HasNext())
	assert.False(t, engine.HasPrev())

	_, err = engine.NextPage(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, PageSize, engine.Offset())

	_, err = engine.PrevPage(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, engine.Offset())

	assert.Len(t, fs.payloads, 3)
	for i, offset := range []float64{0, 10, 0} {
		assert.Equal(t, offset, fs.payloads[i]["offset"], "call %d", i)
		assert.Equal(t, float64(900111), fs.payloads[i]["account_number"])
		assert.Equal(t, float64(10), fs.payloads[i]["limit"])
	}
}

func TestEngine_ShortPageDisablesNext(t *testing.T) {
	fs := &findServer{pageLen: func(call int) int {
		if call == 1 {
			return PageSize
		}
		return PageSize - 1
	}}
	engine, _ := newTestEngine(t, fs.handler(t))

	engine.SetMode(ModeByFilter)
	engine.SetInputs(Inputs{AccountNumber: "900111", FromDate: "2024-01-01", ToDate: "2024-01-31"})

	_, err := engine.Search(context.Background())
	assert.NoError(t, err)
	assert.True(t, engine.HasNext())

	_, err = engine.NextPage(context.Background())
	assert.NoError(t, err)
	assert.False(t, engine.HasNext())
	assert.True(t, engine.HasPrev())
}

func TestEngine_SetModeClearsState(t *testing.T) {
	engine, _ := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"transactions": []}`)
	}))

	engine.SetMode(ModeByFilter)
	engine.SetInputs(Inputs{AccountNumber: "900111", FromDate: "2024-01-01", ToDate: "2024-01-31"})
	_, err := engine.Search(context.Background())
	assert.NoError(t, err)

	engine.SetMode(ModeByID)
	assert.Equal(t, Inputs{}, engine.Inputs())
	assert.False(t, engine.HasNext())
	_, err = engine.NextPage(context.Background())
	assert.Error(t, err)
}
