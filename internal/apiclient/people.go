package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/prefeitura-rio/app-pessoas/internal/models"
)

// PeoplePage is a page of people mapped from the backend
type PeoplePage = models.PaginatedResponse[models.Person]

// ListPeople fetches a page of people, filtered by params.Search when set
func (c *Client) ListPeople(ctx context.Context, params models.PaginationParams) (*PeoplePage, error) {
	params = params.WithDefaults()

	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("limit", strconv.Itoa(params.Limit))
	if params.Search != "" {
		query.Set("q", params.Search)
	}

	operation := "list_people"
	if params.Search != "" {
		operation = "search_people"
	}

	var raw json.RawMessage
	if err := c.do(ctx, request{
		operation: operation,
		method:    http.MethodGet,
		path:      peoplePath,
		query:     query,
	}, &raw); err != nil {
		return nil, err
	}

	return decodePeoplePage(raw, params)
}

// SearchPeople fetches the page of people matching query
func (c *Client) SearchPeople(ctx context.Context, query string, params models.PaginationParams) (*PeoplePage, error) {
	params.Search = query
	return c.ListPeople(ctx, params)
}

// GetPerson fetches a single person
func (c *Client) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	var out models.APIPerson
	if err := c.do(ctx, request{
		operation: "get_person",
		method:    http.MethodGet,
		path:      personPath(id),
	}, &out); err != nil {
		return nil, err
	}
	person := models.PersonFromAPI(out)
	return &person, nil
}

// CreatePerson registers a new person and returns it with the assigned id
func (c *Client) CreatePerson(ctx context.Context, p models.Person) (*models.Person, error) {
	var out models.APIPerson
	if err := c.do(ctx, request{
		operation: "create_person",
		method:    http.MethodPost,
		path:      peoplePath,
		body:      p.ToAPI(),
	}, &out); err != nil {
		return nil, err
	}
	person := models.PersonFromAPI(out)
	return &person, nil
}

// UpdatePerson replaces the stored record of id with p
func (c *Client) UpdatePerson(ctx context.Context, id string, p models.Person) (*models.Person, error) {
	var out models.APIPerson
	if err := c.do(ctx, request{
		operation: "update_person",
		method:    http.MethodPut,
		path:      personPath(id),
		body:      p.ToAPI(),
	}, &out); err != nil {
		return nil, err
	}
	person := models.PersonFromAPI(out)
	return &person, nil
}

// DeletePerson removes the person with id
func (c *Client) DeletePerson(ctx context.Context, id string) error {
	return c.do(ctx, request{
		operation: "delete_person",
		method:    http.MethodDelete,
		path:      personPath(id),
	}, nil)
}

func personPath(id string) string {
	return peoplePath + "/" + url.PathEscape(id)
}

// decodePeoplePage accepts the paginated envelope or, from older backends,
// a bare array which is treated as a single page.
func decodePeoplePage(raw json.RawMessage, params models.PaginationParams) (*PeoplePage, error) {
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []models.APIPerson
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to decode people list: %w", err)
		}
		page := &PeoplePage{
			Data:  mapPeople(list),
			Page:  models.DefaultPage,
			Limit: params.Limit,
			Total: len(list),
		}
		if len(list) > 0 {
			page.TotalPages = 1
		}
		return page, nil
	}

	var envelope models.PaginatedResponse[models.APIPerson]
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode people page: %w", err)
	}
	return &PeoplePage{
		Data:        mapPeople(envelope.Data),
		Page:        envelope.Page,
		Limit:       envelope.Limit,
		Total:       envelope.Total,
		TotalPages:  envelope.TotalPages,
		HasPrevious: envelope.HasPrevious,
		HasNext:     envelope.HasNext,
	}, nil
}

func mapPeople(list []models.APIPerson) []models.Person {
	people := make([]models.Person, 0, len(list))
	for _, p := range list {
		people = append(people, models.PersonFromAPI(p))
	}
	return people
}
