package notion

import (
	"encoding/json"
	"time"
)

// Properties is a page's raw property bag, keyed by property name. Values are
// left undecoded because their shape depends on the database schema.
type Properties map[string]json.RawMessage

// Parent identifies where a page lives.
type Parent struct {
	Type       string `json:"type"`
	DatabaseID string `json:"database_id,omitempty"`
	PageID     string `json:"page_id,omitempty"`
}

// Page is a database row or standalone page as returned by the API.
type Page struct {
	Object         string     `json:"object"`
	ID             string     `json:"id"`
	CreatedTime    time.Time  `json:"created_time"`
	LastEditedTime time.Time  `json:"last_edited_time"`
	Archived       bool       `json:"archived"`
	InTrash        bool       `json:"in_trash"`
	URL            string     `json:"url"`
	PublicURL      string     `json:"public_url,omitempty"`
	Parent         Parent     `json:"parent"`
	Properties     Properties `json:"properties"`
}

// RichText is one fragment of formatted text.
type RichText struct {
	Type        string      `json:"type"`
	PlainText   string      `json:"plain_text"`
	Href        string      `json:"href,omitempty"`
	Annotations Annotations `json:"annotations"`
}

// Annotations carry inline styling for a RichText fragment.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

// PlainText concatenates the plain text of every fragment with no separator.
func PlainText(fragments []RichText) string {
	switch len(fragments) {
	case 0:
		return ""
	case 1:
		return fragments[0].PlainText
	}
	n := 0
	for _, f := range fragments {
		n += len(f.PlainText)
	}
	b := make([]byte, 0, n)
	for _, f := range fragments {
		b = append(b, f.PlainText...)
	}
	return string(b)
}

// Block is a single content block. Payload holds the type-specific object
// (the value stored under the key named by Type).
type Block struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	HasChildren bool            `json:"has_children"`
	Archived    bool            `json:"archived"`
	Payload     json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the common block fields and captures the payload
// stored under the block's type key.
func (b *Block) UnmarshalJSON(data []byte) error {
	type plain Block
	var head plain
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Block(head)
	b.Payload = raw[head.Type]
	return nil
}

// Decode unmarshals the block payload into v.
func (b *Block) Decode(v any) error {
	if len(b.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(b.Payload, v)
}

// BlockList is one page of block children.
type BlockList struct {
	Results    []*Block `json:"results"`
	HasMore    bool     `json:"has_more"`
	NextCursor string   `json:"next_cursor"`
}

// Sort orders database query results by a property.
type Sort struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

// Sort directions.
const (
	Ascending  = "ascending"
	Descending = "descending"
)

// Condition is an equality test used by select and status filters.
type Condition struct {
	Equals string `json:"equals"`
}

// Filter restricts a database query to rows whose property matches. Exactly
// one of Select or Status should be set, matching the property's type.
type Filter struct {
	Property string     `json:"property"`
	Select   *Condition `json:"select,omitempty"`
	Status   *Condition `json:"status,omitempty"`
}

// Query is the body of a database query.
type Query struct {
	Filter      *Filter `json:"filter,omitempty"`
	Sorts       []Sort  `json:"sorts,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
}

// RecordMap is a resolved page: the page itself plus its block tree.
type RecordMap struct {
	Page     *Page
	Blocks   map[string]*Block
	Children map[string][]string
}

// ChildrenOf returns the ordered child blocks of id.
func (rm *RecordMap) ChildrenOf(id string) []*Block {
	ids := rm.Children[id]
	out := make([]*Block, 0, len(ids))
	for _, cid := range ids {
		if b, ok := rm.Blocks[cid]; ok {
			out = append(out, b)
		}
	}
	return out
}

// RootID returns the id of the resolved page.
func (rm *RecordMap) RootID() string {
	if rm == nil || rm.Page == nil {
		return ""
	}
	return rm.Page.ID
}
