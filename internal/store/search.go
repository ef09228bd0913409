package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"admissions-platform/internal/common/errors"
	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/models"
)

// CollegeSearcher finds colleges for a listing filter.
type CollegeSearcher interface {
	Search(ctx context.Context, f models.CollegeFilter) ([]*models.College, error)
}

// CollegeSearch runs free-text college queries against Elasticsearch. Queries without text,
// a nil client, or a failed search fall back to the repository listing.
type CollegeSearch struct {
	client   *elasticsearch.Client
	index    string
	fallback CollegeRepository
	logger   logger.Logger
}

func NewCollegeSearch(client *elasticsearch.Client, index string, fallback CollegeRepository, log logger.Logger) *CollegeSearch {
	return &CollegeSearch{
		client:   client,
		index:    index,
		fallback: fallback,
		logger:   log.WithFields(map[string]interface{}{"component": "college_search", "index": index}),
	}
}

func (s *CollegeSearch) Search(ctx context.Context, f models.CollegeFilter) ([]*models.College, error) {
	if s.client == nil || strings.TrimSpace(f.Query) == "" {
		return s.fallback.List(ctx, f)
	}

	colleges, err := s.search(ctx, f)
	if err != nil {
		s.logger.Warn("elasticsearch query failed, using repository search", map[string]interface{}{
			"query": f.Query,
			"error": err,
		})
		return s.fallback.List(ctx, f)
	}
	return colleges, nil
}

// buildCollegeQuery matches the text against name, location and majors, and turns the
// structured filter fields into non-scoring filters.
func buildCollegeQuery(f models.CollegeFilter) map[string]interface{} {
	must := []interface{}{
		map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     f.Query,
				"fields":    []string{"name^3", "city", "state", "majors"},
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		},
	}

	// state and type are lowercase-normalized keywords, so term gives the same
	// case-insensitive exact match as the repositories.
	filter := []interface{}{}
	if f.State != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"state": strings.ToLower(f.State)},
		})
	}
	if f.Type != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"type": strings.ToLower(f.Type)},
		})
	}
	if f.MaxTuition > 0 {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{"tuition": map[string]interface{}{"lte": f.MaxTuition}},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.College `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *CollegeSearch) search(ctx context.Context, f models.CollegeFilter) ([]*models.College, error) {
	body, err := json.Marshal(buildCollegeQuery(f))
	if err != nil {
		return nil, err
	}

	size := f.Limit
	if size <= 0 {
		size = 20
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
		s.client.Search.WithFrom(f.Offset),
		s.client.Search.WithSize(size),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewSearchTimeoutError(s.index)
		}
		return nil, errors.NewSearchQueryFailedError(s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(s.index, fmt.Errorf("search returned %s", res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewSearchQueryFailedError(s.index, err)
	}

	out := make([]*models.College, 0, len(parsed.Hits.Hits))
	for i := range parsed.Hits.Hits {
		out = append(out, &parsed.Hits.Hits[i].Source)
	}
	return out, nil
}

// Index writes c into the search index. A nil client is a no-op.
func (s *CollegeSearch) Index(ctx context.Context, c *models.College) error {
	if s.client == nil {
		return nil
	}
	body, err := json.Marshal(c)
	if err != nil {
		return err
	}

	res, err := s.client.Index(s.index, bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(c.ID),
	)
	if err != nil {
		return errors.NewSearchQueryFailedError(s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.NewSearchQueryFailedError(s.index, fmt.Errorf("index %s returned %s", c.ID, res.Status()))
	}
	return nil
}

// Remove deletes a college from the index; a missing document is not an error.
func (s *CollegeSearch) Remove(ctx context.Context, id string) error {
	if s.client == nil {
		return nil
	}
	res, err := s.client.Delete(s.index, id, s.client.Delete.WithContext(ctx))
	if err != nil {
		return errors.NewSearchQueryFailedError(s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return errors.NewSearchQueryFailedError(s.index, fmt.Errorf("delete %s returned %s", id, res.Status()))
	}
	return nil
}

const collegeMapping = `{
	"settings": {
		"analysis": {
			"normalizer": {
				"lowercase_keyword": {"type": "custom", "filter": ["lowercase"]}
			}
		}
	},
	"mappings": {
		"properties": {
			"id":             {"type": "keyword"},
			"name":           {"type": "text"},
			"city":           {"type": "text"},
			"state":          {"type": "keyword", "normalizer": "lowercase_keyword"},
			"type":           {"type": "keyword", "normalizer": "lowercase_keyword"},
			"majors":         {"type": "text"},
			"tuition":        {"type": "integer"},
			"acceptanceRate": {"type": "float"}
		}
	}
}`

// Sync creates the index when it is missing and indexes every college in the repository.
func (s *CollegeSearch) Sync(ctx context.Context) error {
	if s.client == nil {
		return nil
	}

	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return errors.NewSearchQueryFailedError(s.index, err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		created, err := s.client.Indices.Create(s.index,
			s.client.Indices.Create.WithContext(ctx),
			s.client.Indices.Create.WithBody(strings.NewReader(collegeMapping)),
		)
		if err != nil {
			return errors.NewSearchQueryFailedError(s.index, err)
		}
		created.Body.Close()
		if created.IsError() {
			return errors.NewSearchQueryFailedError(s.index, fmt.Errorf("create index returned %s", created.Status()))
		}
	}

	colleges, err := s.fallback.List(ctx, models.CollegeFilter{})
	if err != nil {
		return err
	}
	for _, c := range colleges {
		if err := s.Index(ctx, c); err != nil {
			return err
		}
	}

	s.logger.Info("college index synced", map[string]interface{}{"documents": len(colleges)})
	return nil
}
