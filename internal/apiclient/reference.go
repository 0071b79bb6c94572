package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

// SearchNationalities returns nationality names matching query
func (c *Client) SearchNationalities(ctx context.Context, query string) ([]string, error) {
	return c.searchReference(ctx, "search_nationalities", nationalitiesPath, query)
}

// SearchBirthplaces returns birthplace names matching query
func (c *Client) SearchBirthplaces(ctx context.Context, query string) ([]string, error) {
	return c.searchReference(ctx, "search_birthplaces", birthplacesPath, query)
}

func (c *Client) searchReference(ctx context.Context, operation, path, query string) ([]string, error) {
	var out []string
	if err := c.do(ctx, request{
		operation: operation,
		method:    http.MethodGet,
		path:      path,
		query:     url.Values{"q": []string{query}},
	}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
