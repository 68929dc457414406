package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"hallbook/internal/config"
	"hallbook/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticsearchClient indexes halls for full-text browse and search
type ElasticsearchClient struct {
	client *elasticsearch.Client
	config config.ElasticsearchConfig
}

func NewElasticsearchClient(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	client := &ElasticsearchClient{
		client: es,
		config: cfg,
	}

	// Check connection and create index if needed
	if err := client.ensureIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return client, nil
}

func (c *ElasticsearchClient) ensureIndex(ctx context.Context) error {
	req := esapi.IndicesExistsRequest{
		Index: []string{c.config.Index},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		slog.Info("Elasticsearch index already exists", "index", c.config.Index)
		return nil
	}

	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
			"analysis": map[string]interface{}{
				"analyzer": map[string]interface{}{
					"english_analyzer": map[string]interface{}{
						"type":      "custom",
						"tokenizer": "standard",
						"filter":    []string{"lowercase", "english_stop", "english_stemmer"},
					},
				},
				"filter": map[string]interface{}{
					"english_stop": map[string]interface{}{
						"type":      "stop",
						"stopwords": "_english_",
					},
					"english_stemmer": map[string]interface{}{
						"type":     "stemmer",
						"language": "english",
					},
				},
			},
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type": "long",
				},
				"owner_id": map[string]interface{}{
					"type": "long",
				},
				"name": map[string]interface{}{
					"type":     "text",
					"analyzer": "english_analyzer",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{
							"type":         "keyword",
							"ignore_above": 256,
						},
					},
				},
				"description": map[string]interface{}{
					"type":     "text",
					"analyzer": "english_analyzer",
				},
				"city": map[string]interface{}{
					"type": "keyword",
				},
				"state": map[string]interface{}{
					"type": "keyword",
				},
				"address": map[string]interface{}{
					"type": "text",
				},
				"price_per_hour": map[string]interface{}{
					"type": "double",
				},
				"is_active": map[string]interface{}{
					"type": "boolean",
				},
				"created_at": map[string]interface{}{
					"type": "date",
				},
				"updated_at": map[string]interface{}{
					"type": "date",
				},
			},
		},
	}

	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createReq := esapi.IndicesCreateRequest{
		Index: c.config.Index,
		Body:  strings.NewReader(string(mappingJSON)),
	}

	createRes, err := createReq.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	slog.Info("Created Elasticsearch index", "index", c.config.Index)
	return nil
}

// GetByID fetches a single hall document, nil when not indexed
func (c *ElasticsearchClient) GetByID(ctx context.Context, id int64) (*models.HallDocument, error) {
	req := esapi.GetRequest{
		Index:      c.config.Index,
		DocumentID: strconv.FormatInt(id, 10),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, nil
	}

	if res.IsError() {
		return nil, fmt.Errorf("Elasticsearch error: %s", res.String())
	}

	var response struct {
		Source models.HallDocument `json:"_source"`
	}

	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &response.Source, nil
}

// Search finds active halls matching a free-text query and optional city filter
func (c *ElasticsearchClient) Search(ctx context.Context, query, city string, page, pageSize int) ([]models.HallDocument, error) {
	searchQuery := c.buildSearchQuery(query, city)

	from := 0
	if page > 0 && pageSize > 0 {
		from = (page - 1) * pageSize
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	searchRequest := map[string]interface{}{
		"query": searchQuery,
		"sort":  c.buildSortQuery(query),
		"from":  from,
		"size":  pageSize,
	}

	searchJSON, err := json.Marshal(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{c.config.Index},
		Body:  strings.NewReader(string(searchJSON)),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source models.HallDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	halls := make([]models.HallDocument, len(response.Hits.Hits))
	for i, hit := range response.Hits.Hits {
		halls[i] = hit.Source
	}

	return halls, nil
}

func (c *ElasticsearchClient) buildSearchQuery(query, city string) map[string]interface{} {
	mustQueries := []map[string]interface{}{
		{"term": map[string]interface{}{"is_active": true}},
	}

	if query != "" {
		mustQueries = append(mustQueries, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description", "address"},
				"analyzer":  "english_analyzer",
				"fuzziness": "AUTO",
			},
		})
	}

	if city != "" {
		mustQueries = append(mustQueries, map[string]interface{}{
			"term": map[string]interface{}{
				"city": strings.ToLower(city),
			},
		})
	}

	return map[string]interface{}{
		"bool": map[string]interface{}{
			"must": mustQueries,
		},
	}
}

func (c *ElasticsearchClient) buildSortQuery(query string) []map[string]interface{} {
	if query != "" {
		// Sort by relevance when searching
		return []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"id": map[string]interface{}{"order": "asc"}},
		}
	}

	// Sort by ID when not searching
	return []map[string]interface{}{
		{"id": map[string]interface{}{"order": "asc"}},
	}
}

// IndexHall indexes or reindexes a hall document
func (c *ElasticsearchClient) IndexHall(ctx context.Context, hall *models.HallDocument) error {
	if hall.CreatedAt.IsZero() {
		hall.CreatedAt = time.Now()
	}
	hall.UpdatedAt = time.Now()
	if hall.City != "" {
		hall.City = strings.ToLower(hall.City)
	}

	hallJSON, err := json.Marshal(hall)
	if err != nil {
		return fmt.Errorf("failed to marshal hall: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.config.Index,
		DocumentID: strconv.FormatInt(hall.ID, 10),
		Body:       strings.NewReader(string(hallJSON)),
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to index hall: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing error: %s", res.String())
	}

	return nil
}

// DeleteHall removes a hall from the index
func (c *ElasticsearchClient) DeleteHall(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{
		Index:      c.config.Index,
		DocumentID: strconv.FormatInt(id, 10),
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to delete hall: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete error: %s", res.String())
	}

	return nil
}

// Count returns the number of indexed halls matching the filters
func (c *ElasticsearchClient) Count(ctx context.Context, query, city string) (int64, error) {
	countRequest := map[string]interface{}{
		"query": c.buildSearchQuery(query, city),
	}

	countJSON, err := json.Marshal(countRequest)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal count query: %w", err)
	}

	req := esapi.CountRequest{
		Index: []string{c.config.Index},
		Body:  strings.NewReader(string(countJSON)),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return 0, fmt.Errorf("failed to execute count: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("count error: %s", res.String())
	}

	var response struct {
		Count int64 `json:"count"`
	}

	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return 0, fmt.Errorf("failed to decode count response: %w", err)
	}

	return response.Count, nil
}

// HealthCheck verifies the cluster is at least yellow
func (c *ElasticsearchClient) HealthCheck(ctx context.Context) error {
	req := esapi.ClusterHealthRequest{
		WaitForStatus: "yellow",
		Timeout:       10 * time.Second,
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("health check error: %s", res.String())
	}

	return nil
}
