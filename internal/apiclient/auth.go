package apiclient

import (
	"context"
	"net/http"

	"github.com/prefeitura-rio/app-pessoas/internal/models"
)

// Login exchanges credentials for an access token
func (c *Client) Login(ctx context.Context, creds models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.do(ctx, request{
		operation: "login",
		method:    http.MethodPost,
		path:      authLoginPath,
		body:      creds,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
