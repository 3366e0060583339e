package notion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paragraph(id string, hasChildren bool) string {
	return fmt.Sprintf(`{"object":"block","id":%q,"type":"paragraph","has_children":%t,"paragraph":{"rich_text":[{"plain_text":%q}]}}`, id, hasChildren, id)
}

func TestResolvePageBuildsTree(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch {
		case r.URL.Path == "/v1/pages/root":
			io.WriteString(w, `{"object":"page","id":"root","properties":{}}`)
		case r.URL.Path == "/v1/blocks/root/children" && r.URL.Query().Get("start_cursor") == "":
			fmt.Fprintf(w, `{"results":[%s,%s],"has_more":true,"next_cursor":"more"}`, paragraph("a", true), paragraph("b", false))
		case r.URL.Path == "/v1/blocks/root/children":
			fmt.Fprintf(w, `{"results":[%s,{"id":"sub","type":"child_page","has_children":true,"child_page":{"title":"Sub"}}],"has_more":false}`, paragraph("c", false))
		case r.URL.Path == "/v1/blocks/a/children":
			fmt.Fprintf(w, `{"results":[%s],"has_more":false}`, paragraph("a1", false))
		default:
			t.Errorf("unexpected request %s", r.URL.String())
			w.WriteHeader(http.StatusNotFound)
		}
	})

	rm, err := client.ResolvePage(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, "root", rm.RootID())
	assert.Equal(t, []string{"a", "b", "c", "sub"}, rm.Children["root"])
	assert.Equal(t, []string{"a1"}, rm.Children["a"])
	assert.NotContains(t, rm.Children, "sub")

	children := rm.ChildrenOf("root")
	require.Len(t, children, 4)
	assert.Equal(t, "child_page", children[3].Type)
	assert.EqualValues(t, 4, calls.Load())
}

func TestResolvePageFailsWhenChildrenFail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v1/pages/") {
			io.WriteString(w, `{"object":"page","id":"root","properties":{}}`)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"object":"error","status":503,"code":"service_unavailable","message":"try later"}`)
	})

	rm, err := client.ResolvePage(context.Background(), "root")
	require.Error(t, err)
	assert.Nil(t, rm)
	assert.Contains(t, err.Error(), "service_unavailable")
}

func TestResolvePageRespectsMaxDepth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/pages/root":
			io.WriteString(w, `{"object":"page","id":"root","properties":{}}`)
		case "/v1/blocks/root/children":
			fmt.Fprintf(w, `{"results":[%s],"has_more":false}`, paragraph("deep", true))
		default:
			t.Errorf("descended past max depth: %s", r.URL.Path)
		}
	}, WithMaxDepth(1))

	rm, err := client.ResolvePage(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, []string{"deep"}, rm.Children["root"])
}
