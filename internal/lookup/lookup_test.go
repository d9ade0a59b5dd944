package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autograph-kg/autograph/internal/model"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()
	key := Key{Text: "BMW", Type: "ORG", Domain: "wirtschaft"}

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, &Result{Found: true, Record: &model.CatalogRecord{CanonicalName: "BMW AG"}})
	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, "BMW AG", got.Record.CanonicalName)

	// Negative answers are cacheable too.
	miss := Key{Text: "Nobody"}
	c.Set(ctx, miss, &Result{Found: false})
	got, ok = c.Get(ctx, miss)
	require.True(t, ok)
	assert.False(t, got.Found)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(10 * time.Millisecond)
	ctx := context.Background()
	key := Key{Text: "BMW"}

	c.Set(ctx, key, &Result{Found: true})
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()
	key := Key{Text: "BMW"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Set(ctx, key, &Result{Found: true})
			c.Get(ctx, key)
		}()
	}
	wg.Wait()

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.True(t, got.Found)
}

func TestKeyString(t *testing.T) {
	k := Key{Text: "BMW", Type: "ORG", Domain: "wirtschaft"}
	assert.Equal(t, "lookup:wirtschaft:ORG:BMW", k.String())
}

func TestHTTPClientLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BMW", r.URL.Query().Get("query"))
		assert.Equal(t, "ORG", r.URL.Query().Get("type"))
		fmt.Fprint(w, `{"entities":[{"canonical_name":"BMW AG","entity_type":"ORG","uri":"http://example.org/bmw"}]}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	got, err := c.Lookup(context.Background(), "BMW", "ORG", "")
	require.NoError(t, err)
	require.True(t, got.Found)
	assert.Equal(t, "BMW AG", got.Record.CanonicalName)
	assert.Equal(t, "external", got.Record.SourceCatalog)
}

func TestHTTPClientEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"entities":[]}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	got, err := c.Lookup(context.Background(), "Nobody", "", "")
	require.NoError(t, err)
	assert.False(t, got.Found)
}

func TestHTTPClientUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	srvURL := srv.URL
	srv.Close()

	c := NewHTTPClient(srvURL, 100*time.Millisecond)
	_, err := c.Lookup(context.Background(), "BMW", "", "")
	assert.ErrorIs(t, err, ErrUnavailable)
}
