package chatclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"

	jsoniter "github.com/json-iterator/go"

	"github.com/concordlabs/concord/internal/dtos/chat_dto"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrFetchInFlight = fmt.Errorf("a page fetch is already in flight")

	// ErrNoMorePages is returned by FetchNext once the cached history
	// carries no next cursor.
	ErrNoMorePages = fmt.Errorf("message history is exhausted")
)

// ChatQuery pulls paged message history for one scope over HTTP and
// accumulates the pages in a PageCache. At most one fetch runs at a
// time; callers racing FetchNext get ErrFetchInFlight instead of a
// duplicate request.
type ChatQuery struct {
	client     *http.Client
	apiURL     string
	paramKey   string
	paramValue string
	authToken  string

	Cache    *PageCache
	inFlight atomic.Bool
}

// NewChatQuery builds a query for one scope. paramKey names the scope
// query parameter ("channelId" or "conversationId") and paramValue is
// the scope id.
func NewChatQuery(client *http.Client, apiURL, paramKey, paramValue, authToken string) *ChatQuery {
	if client == nil {
		client = http.DefaultClient
	}
	return &ChatQuery{
		client:     client,
		apiURL:     apiURL,
		paramKey:   paramKey,
		paramValue: paramValue,
		authToken:  authToken,
		Cache:      NewPageCache(),
	}
}

// HasNextPage reports whether another FetchNext would extend the
// history. Before the first fetch it is true.
func (q *ChatQuery) HasNextPage() bool {
	if q.Cache.PageCount() == 0 {
		return true
	}
	_, ok := q.Cache.NextCursor()
	return ok
}

// FetchNext fetches the next page (the newest page when nothing is
// cached yet) and appends it to the cache. Once the history is
// exhausted it returns ErrNoMorePages without issuing a request.
func (q *ChatQuery) FetchNext(ctx context.Context) (*Page, error) {
	if !q.inFlight.CompareAndSwap(false, true) {
		return nil, ErrFetchInFlight
	}
	defer q.inFlight.Store(false)

	var cursor *string
	if c, ok := q.Cache.NextCursor(); ok {
		cursor = c
	} else if q.Cache.PageCount() > 0 {
		return nil, ErrNoMorePages
	}

	page, err := q.fetchPage(ctx, cursor)
	if err != nil {
		return nil, err
	}

	q.Cache.Append(*page)
	return page, nil
}

// RefetchFirst re-pulls the newest page and swaps it into the cache,
// leaving older pages untouched.
func (q *ChatQuery) RefetchFirst(ctx context.Context) error {
	if !q.inFlight.CompareAndSwap(false, true) {
		return ErrFetchInFlight
	}
	defer q.inFlight.Store(false)

	page, err := q.fetchPage(ctx, nil)
	if err != nil {
		return err
	}

	q.Cache.ReplaceFirst(*page)
	return nil
}

func (q *ChatQuery) fetchPage(ctx context.Context, cursor *string) (*Page, error) {
	u, err := url.Parse(q.apiURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	qs := u.Query()
	qs.Set(q.paramKey, q.paramValue)
	if cursor != nil {
		qs.Set("cursor", *cursor)
	}
	u.RawQuery = qs.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if q.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+q.authToken)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: unexpected status %d", resp.StatusCode)
	}

	var body chat_dto.ListMessagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}

	return &Page{Items: body.Items, NextCursor: body.NextCursor}, nil
}
