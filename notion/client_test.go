package notion

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithBaseURL(srv.URL), WithHTTPClient(srv.Client())}, opts...)
	return New("secret-token", opts...)
}

func TestQueryDatabaseFollowsCursor(t *testing.T) {
	var bodies []Query
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/databases/db-1/query", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, APIVersion, r.Header.Get("Notion-Version"))

		var q Query
		require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		bodies = append(bodies, q)

		w.Header().Set("Content-Type", "application/json")
		if q.StartCursor == "" {
			io.WriteString(w, `{"object":"list","results":[{"id":"a"},{"id":"b"}],"has_more":true,"next_cursor":"c2"}`)
			return
		}
		io.WriteString(w, `{"object":"list","results":[{"id":"c"}],"has_more":false,"next_cursor":null}`)
	})

	pages, err := client.QueryDatabase(context.Background(), "db-1", Query{
		Sorts: []Sort{{Property: "Date", Direction: Descending}},
	})
	require.NoError(t, err)

	ids := make([]string, 0, len(pages))
	for _, p := range pages {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	require.Len(t, bodies, 2)
	assert.Equal(t, "c2", bodies[1].StartCursor)
	assert.Equal(t, maxPageSize, bodies[0].PageSize)
	assert.Equal(t, []Sort{{Property: "Date", Direction: Descending}}, bodies[0].Sorts)
	assert.Nil(t, bodies[0].Filter)
}

func TestQueryDatabaseSendsFilter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, map[string]any{
			"property": "Status",
			"select":   map[string]any{"equals": "Published"},
		}, raw["filter"])
		io.WriteString(w, `{"results":[],"has_more":false}`)
	})

	pages, err := client.QueryDatabase(context.Background(), "db", Query{
		Filter: &Filter{Property: "Status", Select: &Condition{Equals: "Published"}},
	})
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestRetrievePageNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"object":"error","status":404,"code":"object_not_found","message":"Could not find page."}`)
	})

	page, err := client.RetrievePage(context.Background(), "missing")
	require.Error(t, err)
	assert.Nil(t, page)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "object_not_found", apiErr.Code)
	assert.Contains(t, err.Error(), "retrieve page missing")
}

func TestRetrievePageNonJSONError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream down")
	})

	_, err := client.RetrievePage(context.Background(), "p")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream down", apiErr.Message)
	assert.False(t, IsNotFound(err))
}

func TestRetrievePageDecodesProperties(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/pages/p-1", r.URL.Path)
		io.WriteString(w, `{
			"object":"page","id":"p-1","archived":false,
			"parent":{"type":"database_id","database_id":"db-1"},
			"properties":{
				"Name":{"id":"title","type":"title","title":[{"type":"text","text":{"content":"Hello"},"plain_text":"Hello"}]},
				"Date":{"id":"d","type":"date","date":{"start":"2025-03-01"}},
				"Tags":{"id":"t","type":"multi_select","multi_select":[{"id":"1","name":"Go"}]}
			}
		}`)
	})

	page, err := client.RetrievePage(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", page.ID)
	assert.Equal(t, "db-1", page.Parent.DatabaseID)
	assert.Contains(t, string(page.Properties["Name"]), `"plain_text":"Hello"`)
	assert.Contains(t, string(page.Properties["Date"]), `"start":"2025-03-01`)
	assert.Contains(t, string(page.Properties["Tags"]), `"name":"Go"`)
}

func TestBaseURLKeepsPathPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/proxy/v1/pages/p-1", r.URL.Path)
		io.WriteString(w, `{"object":"page","id":"p-1","properties":{}}`)
	}))
	t.Cleanup(srv.Close)

	client := New("t", WithBaseURL(srv.URL+"/proxy/v1/"), WithHTTPClient(srv.Client()))
	page, err := client.RetrievePage(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", page.ID)
}

func TestBlockUnmarshalCapturesPayload(t *testing.T) {
	var b Block
	err := json.Unmarshal([]byte(`{"id":"b1","type":"paragraph","has_children":true,"paragraph":{"rich_text":[{"plain_text":"hi"}]}}`), &b)
	require.NoError(t, err)
	assert.Equal(t, "b1", b.ID)
	assert.True(t, b.HasChildren)

	var p struct {
		RichText []RichText `json:"rich_text"`
	}
	require.NoError(t, b.Decode(&p))
	assert.Equal(t, "hi", PlainText(p.RichText))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "", PlainText(nil))
	assert.Equal(t, "one", PlainText([]RichText{{PlainText: "one"}}))
	assert.Equal(t, "onetwo", PlainText([]RichText{{PlainText: "one"}, {PlainText: "two"}}))
}
