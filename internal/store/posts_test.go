package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog/internal/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestPermalink(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello, World!", "helloworld"},
		{"Go  Rocks", "gorocks"},
		{"already-lower case", "alreadylowercase"},
		{"Release 1.2", "release12"},
		{"Café", "caf"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Permalink(tt.title), "title %q", tt.title)
		// Derivation is pure: retrying the same input yields the same slug.
		assert.Equal(t, Permalink(tt.title), Permalink(tt.title))
	}
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"foo", "bar", "Baz"}, ParseTags(" foo, bar ,foo,,Baz"))
	assert.Nil(t, ParseTags("  , ,"))
}

func TestNormalizeTags_CaseSensitiveDedup(t *testing.T) {
	got := normalizeTags([]string{"foo", "Foo", "bar", "foo"})
	assert.Equal(t, []string{"foo", "Foo", "bar"}, got)
}

func TestPostStore_CreateAndGet(t *testing.T) {
	posts := NewPostStore(newTestDB(t))
	ctx := context.Background()

	permalink, err := posts.Create(ctx, "Hello, World!", "body text", []string{"foo", "Foo", "bar"}, "alice")
	require.NoError(t, err)
	assert.Equal(t, "helloworld", permalink)

	got, err := posts.GetByPermalink(ctx, permalink)
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", got.Title)
	assert.Equal(t, "alice", got.Author)
	assert.Equal(t, "body text", got.Body)
	assert.Equal(t, []string{"foo", "Foo", "bar"}, got.Tags)
	assert.Empty(t, got.Comments)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestPostStore_GetByPermalink_NotFound(t *testing.T) {
	posts := NewPostStore(newTestDB(t))
	_, err := posts.GetByPermalink(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostStore_Create_DuplicatePermalink(t *testing.T) {
	posts := NewPostStore(newTestDB(t))
	ctx := context.Background()

	_, err := posts.Create(ctx, "Hello, World!", "first", nil, "alice")
	require.NoError(t, err)

	// A different title deriving the same slug collides.
	_, err = posts.Create(ctx, "hello world", "second", nil, "bob")
	assert.ErrorIs(t, err, ErrDuplicatePermalink)
}

func TestPostStore_ListRecent(t *testing.T) {
	posts := NewPostStore(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := posts.Create(ctx, fmt.Sprintf("Post %d", i), "body", nil, "alice")
		require.NoError(t, err)
	}

	got, err := posts.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "post4", got[0].Permalink)
	assert.Equal(t, "post3", got[1].Permalink)
	assert.Equal(t, "post2", got[2].Permalink)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i-1].CreatedAt.Before(got[i].CreatedAt))
	}
}

func TestPostStore_ListByTag(t *testing.T) {
	posts := NewPostStore(newTestDB(t))
	ctx := context.Background()

	_, err := posts.Create(ctx, "Tagged", "body", []string{"go"}, "alice")
	require.NoError(t, err)
	_, err = posts.Create(ctx, "Other Case", "body", []string{"Go"}, "alice")
	require.NoError(t, err)
	_, err = posts.Create(ctx, "Untagged", "body", nil, "alice")
	require.NoError(t, err)

	got, err := posts.ListByTag(ctx, "go", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "tagged", got[0].Permalink)

	got, err = posts.ListByTag(ctx, "rust", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPostStore_ListByTag_DefaultLimit(t *testing.T) {
	posts := NewPostStore(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < DefaultTagLimit+2; i++ {
		_, err := posts.Create(ctx, fmt.Sprintf("Tagged %d", i), "body", []string{"go"}, "alice")
		require.NoError(t, err)
	}

	got, err := posts.ListByTag(ctx, "go", 0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultTagLimit)
}

func TestPostStore_AppendComment_Order(t *testing.T) {
	posts := NewPostStore(newTestDB(t))
	ctx := context.Background()

	permalink, err := posts.Create(ctx, "Hello, World!", "body", nil, "alice")
	require.NoError(t, err)

	require.NoError(t, posts.AppendComment(ctx, permalink, "bob", "bob@example.com", "first"))
	require.NoError(t, posts.AppendComment(ctx, permalink, "carol", "", "second"))
	require.NoError(t, posts.AppendComment(ctx, permalink, "bob", "", "third"))

	got, err := posts.GetByPermalink(ctx, permalink)
	require.NoError(t, err)
	require.Len(t, got.Comments, 3)
	assert.Equal(t, "first", got.Comments[0].Body)
	assert.Equal(t, "second", got.Comments[1].Body)
	assert.Equal(t, "third", got.Comments[2].Body)
	assert.Equal(t, "bob@example.com", got.Comments[0].Email)
}

func TestPostStore_AppendComment_NotFound(t *testing.T) {
	posts := NewPostStore(newTestDB(t))
	err := posts.AppendComment(context.Background(), "missing", "bob", "", "hi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostStore_AppendComment_EmptyEmailStoredAbsent(t *testing.T) {
	database := newTestDB(t)
	posts := NewPostStore(database)
	ctx := context.Background()

	permalink, err := posts.Create(ctx, "Hello, World!", "body", nil, "alice")
	require.NoError(t, err)
	require.NoError(t, posts.AppendComment(ctx, permalink, "bob", "", "nice post"))

	var absent bool
	err = database.QueryRow(`SELECT email IS NULL FROM comments`).Scan(&absent)
	require.NoError(t, err)
	assert.True(t, absent, "empty email should be stored as NULL, not empty string")
}

func TestPostStore_AppendComment_ConcurrentNoLostUpdates(t *testing.T) {
	posts := NewPostStore(newTestDB(t))
	ctx := context.Background()

	permalink, err := posts.Create(ctx, "Busy Thread", "body", nil, "alice")
	require.NoError(t, err)

	const commenters = 10
	var wg sync.WaitGroup
	errs := make([]error, commenters)
	for i := 0; i < commenters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = posts.AppendComment(ctx, permalink, fmt.Sprintf("user%d", i), "", "hi")
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		require.NoError(t, err, "commenter %d", i)
	}

	got, err := posts.GetByPermalink(ctx, permalink)
	require.NoError(t, err)
	assert.Len(t, got.Comments, commenters)
}
