package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/online_pharmacy/internal/models"
)

// Indexer keeps the search index in step with the catalog.
type Indexer interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type Results struct {
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
}

type Searcher interface {
	Search(ctx context.Context, query string, from, size int) (Results, error)
}

type NopIndexer struct{}

func (NopIndexer) IndexProduct(context.Context, models.Product) error { return nil }
func (NopIndexer) DeleteProduct(context.Context, string) error        { return nil }

type Config struct {
	URL      string
	Username string
	Password string
}

// NewClient builds an Elasticsearch client and checks the cluster answers.
func NewClient(cfg Config) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("search: create client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("search: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search: info: %s: %s", res.Status(), body)
	}
	return client, nil
}

type ESIndex struct {
	ES    *elasticsearch.Client
	Index string
}

var (
	_ Indexer  = (*ESIndex)(nil)
	_ Searcher = (*ESIndex)(nil)
)

func NewESIndex(es *elasticsearch.Client, index string) *ESIndex {
	return &ESIndex{ES: es, Index: index}
}

func (s *ESIndex) IndexProduct(ctx context.Context, p models.Product) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("search: encode product: %w", err)
	}

	res, err := s.ES.Index(s.Index, &buf,
		s.ES.Index.WithContext(ctx),
		s.ES.Index.WithDocumentID(p.ID),
	)
	if err != nil {
		return fmt.Errorf("search: index %s: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index %s: %s", p.ID, res.Status())
	}
	return nil
}

func (s *ESIndex) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.ES.Delete(s.Index, id, s.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search: delete %s: %w", id, err)
	}
	defer res.Body.Close()
	// a missing document is already in the desired state
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search: delete %s: %s", id, res.Status())
	}
	return nil
}

func (s *ESIndex) Search(ctx context.Context, query string, from, size int) (Results, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Results{Products: []models.Product{}}, nil
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "formula"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return Results{}, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return Results{}, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return Results{}, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return Results{}, fmt.Errorf("search: decode: %w", err)
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return Results{Total: r.Hits.Total.Value, Products: prods}, nil
}
