package website

import (
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/unentropy/website/authors"
)

// ErrNotFound is returned when a requested post or page does not exist.
var ErrNotFound = sql.ErrNoRows

// postIndex is a snapshot of the published posts with lookups by slug,
// normalized tag and author identifier. Every list keeps date order.
type postIndex struct {
	posts    []Post
	bySlug   map[string]Post
	byTag    map[string][]Post
	byAuthor map[string][]Post
	tags     []string
}

func newPostIndex(posts []Post) *postIndex {
	idx := &postIndex{
		posts:    posts,
		bySlug:   make(map[string]Post, len(posts)),
		byTag:    make(map[string][]Post),
		byAuthor: make(map[string][]Post),
	}
	for _, p := range posts {
		idx.bySlug[p.Slug] = p
		seen := make(map[string]bool, len(p.Tags))
		for _, t := range p.Tags {
			tag := normalizeTag(t)
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			idx.byTag[tag] = append(idx.byTag[tag], p)
		}
		for _, e := range authors.Entries(p.Authors) {
			if id, ok := e.(authors.Identifier); ok {
				idx.byAuthor[string(id)] = append(idx.byAuthor[string(id)], p)
			}
		}
	}
	idx.tags = make([]string, 0, len(idx.byTag))
	for tag := range idx.byTag {
		idx.tags = append(idx.tags, tag)
	}
	sort.Strings(idx.tags)
	return idx
}

// PostCache holds a postIndex of published posts for ttl.
type PostCache struct {
	mu      sync.RWMutex
	index   *postIndex
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.index != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read hits the store.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.index = nil
	c.mu.Unlock()
}

// snapshot returns the current index, rebuilding it under the write lock
// only when the entry has expired.
func (c *PostCache) snapshot() (*postIndex, error) {
	c.mu.RLock()
	if c.valid() {
		idx := c.index
		c.mu.RUnlock()
		return idx, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.index, nil
	}
	posts, err := c.store.ListPosts("")
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []Post{}
	}
	c.index = newPostIndex(posts)
	c.fetched = time.Now()
	return c.index, nil
}

// ListPosts returns published posts, optionally filtered by tag. Tags match
// case-insensitively and ignore surrounding space.
func (c *PostCache) ListPosts(tag string) ([]Post, error) {
	idx, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return idx.posts, nil
	}
	return nonNil(idx.byTag[normalizeTag(tag)]), nil
}

// ListPostsByAuthor returns published posts crediting directory identifier id.
func (c *PostCache) ListPostsByAuthor(id string) ([]Post, error) {
	idx, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	return nonNil(idx.byAuthor[id]), nil
}

// ListTags returns the sorted, normalized tags of published posts.
func (c *PostCache) ListTags() ([]string, error) {
	idx, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	return idx.tags, nil
}

// GetPost returns a single published post by slug from the cache.
func (c *PostCache) GetPost(slug string) (Post, error) {
	idx, err := c.snapshot()
	if err != nil {
		return Post{}, err
	}
	p, ok := idx.bySlug[slug]
	if !ok {
		return Post{}, ErrNotFound
	}
	return p, nil
}

func nonNil(posts []Post) []Post {
	if posts == nil {
		return []Post{}
	}
	return posts
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
