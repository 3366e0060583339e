package notion

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ResolvePage retrieves a page and its complete block tree. The tree is read
// level by level; each level fans out over at most c.concurrency calls. Child
// pages and databases are linked, not inlined, so they are not descended.
func (c *Client) ResolvePage(ctx context.Context, pageID string) (*RecordMap, error) {
	page, err := c.RetrievePage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	rm := &RecordMap{
		Page:     page,
		Blocks:   make(map[string]*Block),
		Children: make(map[string][]string),
	}

	var mu sync.Mutex
	frontier := []string{page.ID}
	for depth := 0; len(frontier) > 0; depth++ {
		var next []string
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.concurrency)
		for _, parent := range frontier {
			g.Go(func() error {
				blocks, err := c.allChildren(gctx, parent)
				if err != nil {
					return err
				}
				ids := make([]string, 0, len(blocks))
				mu.Lock()
				defer mu.Unlock()
				for _, b := range blocks {
					if b.Archived {
						continue
					}
					ids = append(ids, b.ID)
					rm.Blocks[b.ID] = b
					if b.HasChildren && descends(b.Type) && depth+1 < c.maxDepth {
						next = append(next, b.ID)
					}
				}
				rm.Children[parent] = ids
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("resolve page %s: %w", pageID, err)
		}
		frontier = next
	}
	return rm, nil
}

func (c *Client) allChildren(ctx context.Context, blockID string) ([]*Block, error) {
	var blocks []*Block
	cursor := ""
	for {
		list, err := c.ListBlockChildren(ctx, blockID, cursor)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, list.Results...)
		if !list.HasMore || list.NextCursor == "" {
			return blocks, nil
		}
		cursor = list.NextCursor
	}
}

func descends(blockType string) bool {
	switch blockType {
	case "child_page", "child_database", "link_to_page":
		return false
	}
	return true
}
