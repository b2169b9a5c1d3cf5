package service

import (
	"context"
	"sync"

	"github.com/pageza/foodtrove/internal/client"
)

// BrowseStatus is the state of the category page.
type BrowseStatus string

const (
	BrowseNoTag   BrowseStatus = "no_tag"
	BrowseLoading BrowseStatus = "loading"
	BrowseLoaded  BrowseStatus = "loaded"
	BrowseErrored BrowseStatus = "errored"
)

// PageSizes are the page sizes offered on the category page.
var PageSizes = []int{6, 12, 24, 48}

const DefaultPageSize = 12

// MaxPage bounds the requested page so the skip offset cannot overflow.
const MaxPage = 1000

// BrowseParams selects one page of a tag.
type BrowseParams struct {
	Tag     string
	Page    int
	Limit   int
	Refresh bool
}

// NormalizeBrowseParams clamps the page to [1, MaxPage] and the limit to a
// known page size.
func NormalizeBrowseParams(tag string, page, limit int, refresh bool) BrowseParams {
	page = min(max(page, 1), MaxPage)
	valid := false
	for _, size := range PageSizes {
		if limit == size {
			valid = true
			break
		}
	}
	if !valid {
		limit = DefaultPageSize
	}
	return BrowseParams{Tag: tag, Page: page, Limit: limit, Refresh: refresh}
}

// Skip is the number of recipes before the selected page.
func (p BrowseParams) Skip() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns the page count for total results, never less than 1.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

// BrowseView is what the category page renders.
type BrowseView struct {
	Status     BrowseStatus
	Params     BrowseParams
	Recipes    []client.Recipe
	Total      int
	TotalPages int
	Error      string
	// Stale is set when an error is shown next to the last good page.
	Stale bool
}

// CategoryBrowser drives the category page state machine. Every selection
// starts a new generation; a load that finishes after a newer selection is
// discarded.
type CategoryBrowser struct {
	data *DataService

	mu   sync.Mutex
	gen  uint64
	view BrowseView
}

func NewCategoryBrowser(data *DataService) *CategoryBrowser {
	return &CategoryBrowser{
		data: data,
		view: BrowseView{Status: BrowseNoTag, TotalPages: 1},
	}
}

// View returns the current state.
func (b *CategoryBrowser) View() BrowseView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view
}

// Select moves to Loading for params and loads the page. It returns the view
// after the load, or the newer view when the load was superseded.
func (b *CategoryBrowser) Select(ctx context.Context, params BrowseParams) BrowseView {
	if TagKey(params.Tag) == "" {
		b.mu.Lock()
		b.gen++
		b.view = BrowseView{Status: BrowseNoTag, Params: params, TotalPages: 1}
		v := b.view
		b.mu.Unlock()
		return v
	}

	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.view = BrowseView{Status: BrowseLoading, Params: params, TotalPages: 1}
	b.mu.Unlock()

	page, err := b.data.RecipesByTag(ctx, params.Tag, params.Skip(), params.Limit, params.Refresh)

	next := BrowseView{Params: params, TotalPages: 1}
	if err != nil {
		next.Status = BrowseErrored
		next.Error = Message(err, "Failed to fetch recipes by tag")
		if last, ok := b.data.PeekRecipesByTag(ctx, params.Tag); ok && last.Skip == params.Skip() && last.Limit == params.Limit {
			next.Recipes = last.Recipes
			next.Total = last.Total
			next.TotalPages = TotalPages(last.Total, params.Limit)
			next.Stale = true
		}
	} else {
		next.Status = BrowseLoaded
		next.Recipes = page.Recipes
		next.Total = page.Total
		next.TotalPages = TotalPages(page.Total, params.Limit)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return b.view
	}
	b.view = next
	return next
}

const maxBrowsers = 10000

// CategoryBrowsers keeps one CategoryBrowser per visitor session so that a
// visitor's newer selection supersedes their older in-flight one.
type CategoryBrowsers struct {
	data *DataService

	mu       sync.Mutex
	browsers map[string]*CategoryBrowser
}

func NewCategoryBrowsers(data *DataService) *CategoryBrowsers {
	return &CategoryBrowsers{data: data, browsers: make(map[string]*CategoryBrowser)}
}

// For returns the browser of sessionID, creating it on first use.
func (r *CategoryBrowsers) For(sessionID string) *CategoryBrowser {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.browsers[sessionID]; ok {
		return b
	}
	if len(r.browsers) >= maxBrowsers {
		// browsers hold no state worth keeping past a page view
		r.browsers = make(map[string]*CategoryBrowser)
	}
	b := NewCategoryBrowser(r.data)
	r.browsers[sessionID] = b
	return b
}
