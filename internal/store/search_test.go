package store_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/models"
	"admissions-platform/internal/store"
	"admissions-platform/internal/store/memory"
)

// fakeElastic answers just enough of the Elasticsearch API for the college index.
type fakeElastic struct {
	mu       sync.Mutex
	searches []map[string]interface{}
	indexed  []string
	mapping  map[string]interface{}
	fail     bool
}

func (f *fakeElastic) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case strings.HasSuffix(r.URL.Path, "/_search"):
		if f.fail {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"boom"}`)
			return
		}
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.searches = append(f.searches, body)
		_, _ = io.WriteString(w, `{"hits":{"hits":[{"_source":{"id":"college-x","name":"Search Hit College","tuition":1000}}]}}`)
	case strings.Contains(r.URL.Path, "/_doc/"):
		f.indexed = append(f.indexed, r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:])
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case r.Method == http.MethodHead:
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPut:
		_ = json.NewDecoder(r.Body).Decode(&f.mapping)
		_, _ = io.WriteString(w, `{"acknowledged":true}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newFakeElastic(t *testing.T) (*fakeElastic, *elasticsearch.Client) {
	t.Helper()
	fake := &fakeElastic{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return fake, client
}

func TestCollegeSearch_UsesElasticsearchForText(t *testing.T) {
	fake, client := newFakeElastic(t)
	repo := memory.NewSeeded().Colleges
	search := store.NewCollegeSearch(client, "colleges", repo, logger.NewTestLogger(t))

	got, err := search.Search(context.Background(), models.CollegeFilter{Query: "engineering", State: "MI", MaxTuition: 20000})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Search Hit College", got[0].Name)

	require.Len(t, fake.searches, 1)
	query := fake.searches[0]["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Len(t, query["must"], 1)
	assert.Len(t, query["filter"], 2)
}

func TestCollegeSearch_StateAndTypeFilterExactly(t *testing.T) {
	fake, client := newFakeElastic(t)
	search := store.NewCollegeSearch(client, "colleges", memory.NewSeeded().Colleges, logger.NewNoOpLogger())

	_, err := search.Search(context.Background(), models.CollegeFilter{Query: "engineering", State: "New York", Type: "Private"})
	require.NoError(t, err)

	require.Len(t, fake.searches, 1)
	query := fake.searches[0]["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Equal(t, []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"state": "new york"}},
		map[string]interface{}{"term": map[string]interface{}{"type": "private"}},
	}, query["filter"])
}

func TestCollegeSearch_FallsBackOnError(t *testing.T) {
	fake, client := newFakeElastic(t)
	fake.fail = true
	repo := memory.NewSeeded().Colleges
	search := store.NewCollegeSearch(client, "colleges", repo, logger.NewNoOpLogger())

	got, err := search.Search(context.Background(), models.CollegeFilter{Query: "ann arbor"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "University of Michigan", got[0].Name)
}

func TestCollegeSearch_WithoutClientOrText(t *testing.T) {
	repo := memory.NewSeeded().Colleges

	search := store.NewCollegeSearch(nil, "colleges", repo, logger.NewNoOpLogger())
	got, err := search.Search(context.Background(), models.CollegeFilter{Query: "stanford"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	fake, client := newFakeElastic(t)
	search = store.NewCollegeSearch(client, "colleges", repo, logger.NewNoOpLogger())
	got, err = search.Search(context.Background(), models.CollegeFilter{State: "CA"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Empty(t, fake.searches)

	assert.NoError(t, store.NewCollegeSearch(nil, "colleges", repo, logger.NewNoOpLogger()).Index(context.Background(), got[0]))
}

func TestCollegeSearch_SyncIndexesRepository(t *testing.T) {
	fake, client := newFakeElastic(t)
	repo := memory.NewSeeded().Colleges
	search := store.NewCollegeSearch(client, "colleges", repo, logger.NewNoOpLogger())

	require.NoError(t, search.Sync(context.Background()))

	all, _ := repo.List(context.Background(), models.CollegeFilter{})
	assert.Len(t, fake.indexed, len(all))
	assert.Contains(t, fake.indexed, "college-stanford")

	props := fake.mapping["mappings"].(map[string]interface{})["properties"].(map[string]interface{})
	for _, field := range []string{"state", "type"} {
		prop := props[field].(map[string]interface{})
		assert.Equal(t, "keyword", prop["type"], field)
		assert.Equal(t, "lowercase_keyword", prop["normalizer"], field)
	}
	normalizers := fake.mapping["settings"].(map[string]interface{})["analysis"].(map[string]interface{})["normalizer"].(map[string]interface{})
	assert.Contains(t, normalizers, "lowercase_keyword")
}
