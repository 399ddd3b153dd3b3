package chatclient

import (
	"sync"

	"github.com/concordlabs/concord/internal/dtos/chat_dto"
)

// Page is one fetched batch of messages, newest first, plus the cursor
// that continues past it.
type Page struct {
	Items      []chat_dto.MessagePayload
	NextCursor *string
}

// PageCache holds the paged message list for one scope and merges
// realtime events into it. Creations are prepended to the newest page;
// edits and soft-deletes are swapped in place by id.
type PageCache struct {
	mu    sync.RWMutex
	pages []Page
}

func NewPageCache() *PageCache {
	return &PageCache{}
}

// Pages returns a copy of the cached pages in fetch order (page 0 is
// the newest).
func (c *PageCache) Pages() []Page {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Page, len(c.pages))
	for i, p := range c.pages {
		out[i] = Page{
			Items:      append([]chat_dto.MessagePayload(nil), p.Items...),
			NextCursor: p.NextCursor,
		}
	}
	return out
}

// Items flattens the cache newest first.
func (c *PageCache) Items() []chat_dto.MessagePayload {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []chat_dto.MessagePayload
	for _, p := range c.pages {
		out = append(out, p.Items...)
	}
	return out
}

// PageCount distinguishes "nothing fetched yet" from "fetched an
// empty history".
func (c *PageCache) PageCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, p := range c.pages {
		n += len(p.Items)
	}
	return n
}

// Replace swaps the whole cache for freshly fetched pages.
func (c *PageCache) Replace(pages []Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = pages
}

// ReplaceFirst swaps only the newest page, keeping older pages as they
// are. Used by the disconnected-poll refetch, which only refreshes the
// head of the list.
func (c *PageCache) ReplaceFirst(page Page) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pages) == 0 {
		c.pages = []Page{page}
		return
	}
	c.pages[0] = page
}

// Append adds a fetched page after the existing ones.
func (c *PageCache) Append(page Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = append(c.pages, page)
}

// NextCursor returns the continuation cursor of the last fetched page,
// or nil when the history is exhausted (or nothing is cached yet).
func (c *PageCache) NextCursor() (*string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.pages) == 0 {
		return nil, false
	}
	last := c.pages[len(c.pages)-1]
	return last.NextCursor, last.NextCursor != nil
}

// ApplyAdd prepends a newly created message to the newest page. An
// empty cache becomes a single page holding just the new message, so
// events arriving before the first fetch are not lost.
func (c *PageCache) ApplyAdd(msg chat_dto.MessagePayload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pages) == 0 {
		c.pages = []Page{{Items: []chat_dto.MessagePayload{msg}}}
		return
	}
	first := &c.pages[0]
	first.Items = append([]chat_dto.MessagePayload{msg}, first.Items...)
}

// ApplyUpdate replaces the cached message with the same id, wherever
// it sits. A message not in the cache is ignored; it will carry the
// new content whenever its page is fetched.
func (c *PageCache) ApplyUpdate(msg chat_dto.MessagePayload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for pi := range c.pages {
		for ii := range c.pages[pi].Items {
			if c.pages[pi].Items[ii].ID == msg.ID {
				c.pages[pi].Items[ii] = msg
				return
			}
		}
	}
}
