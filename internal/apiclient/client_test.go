package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/config"
	"github.com/prefeitura-rio/app-pessoas/internal/logging"
	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxRetries:    2,
		BaseDelay:     time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		APIBaseURL:    srv.URL,
		APIVersion:    "v1",
		APITimeout:    time.Second,
		APIMaxRetries: 2,
	}
	return NewClient(cfg, logging.Logger, WithRetryConfig(fastRetry())), srv
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func strPtr(s string) *string { return &s }

func TestListPeople_SendsParamsAndToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/people", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "maria", r.URL.Query().Get("q"))
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		writeJSON(w, http.StatusOK, models.PaginatedResponse[models.APIPerson]{
			Data: []models.APIPerson{{
				ID:          7,
				Name:        "Maria Souza",
				CPF:         "529.982.247-25",
				BirthDate:   "1990-05-15T00:00:00.000Z",
				Nationality: strPtr("Brasileira"),
			}},
			Page:        2,
			Limit:       20,
			Total:       21,
			TotalPages:  2,
			HasPrevious: true,
		})
	})

	ctx := WithToken(context.Background(), "tok-123")
	page, err := client.SearchPeople(ctx, "maria", models.PaginationParams{Page: 2, Limit: 20})
	require.NoError(t, err)

	require.Len(t, page.Data, 1)
	person := page.Data[0]
	assert.Equal(t, "7", person.ID)
	assert.Equal(t, "52998224725", person.CPF)
	assert.Equal(t, "1990-05-15", person.DataNascimento)
	assert.Equal(t, "Brasileira", person.Nacionalidade)
	assert.Equal(t, "", person.Email)
	assert.Equal(t, 21, page.Total)
	assert.True(t, page.HasPrevious)
	assert.False(t, page.HasNext)
}

func TestListPeople_DefaultsAndNoToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.False(t, r.URL.Query().Has("q"))
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, models.PaginatedResponse[models.APIPerson]{Data: []models.APIPerson{}, Page: 1, Limit: 10})
	})

	page, err := client.ListPeople(context.Background(), models.PaginationParams{})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}

func TestListPeople_BareArray(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.APIPerson{
			{ID: 1, Name: "Ana", CPF: "11144477735", BirthDate: "1980-01-01"},
			{ID: 2, Name: "Bruno", CPF: "12345678909", BirthDate: "1985-02-02"},
		})
	})

	page, err := client.ListPeople(context.Background(), models.PaginationParams{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestCreatePerson_SendsAPIShape(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "João Silva", body["name"])
		assert.Equal(t, "12345678909", body["cpf"])
		assert.Nil(t, body["email"])
		assert.Nil(t, body["gender"])
		assert.Equal(t, "Carioca", body["naturalness"])

		writeJSON(w, http.StatusCreated, models.APIPerson{
			ID: 42, Name: "João Silva", CPF: "12345678909", BirthDate: "1990-01-01", Naturalness: strPtr("Carioca"),
		})
	})

	created, err := client.CreatePerson(context.Background(), models.Person{
		Nome:           "João Silva",
		CPF:            "123.456.789-09",
		DataNascimento: "1990-01-01",
		Naturalidade:   "Carioca",
	})
	require.NoError(t, err)
	assert.Equal(t, "42", created.ID)
	assert.Equal(t, "Carioca", created.Naturalidade)
}

func TestUpdateAndDeletePerson(t *testing.T) {
	var (
		mu      sync.Mutex
		methods []string
	)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		methods = append(methods, r.Method+" "+r.URL.Path)
		mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			writeJSON(w, http.StatusOK, models.APIPerson{ID: 5, Name: "Novo Nome", CPF: "11144477735", BirthDate: "1970-07-07"})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	updated, err := client.UpdatePerson(context.Background(), "5", models.Person{Nome: "Novo Nome", CPF: "11144477735", DataNascimento: "1970-07-07"})
	require.NoError(t, err)
	assert.Equal(t, "Novo Nome", updated.Nome)

	require.NoError(t, client.DeletePerson(context.Background(), "5"))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"PUT /v1/people/5", "DELETE /v1/people/5"}, methods)
}

func TestGetPerson_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, models.APIErrorResponse{
			StatusCode: 404,
			Error:      models.ErrTypePersonNotFound,
			Message:    []string{"Person with id 9 not found"},
			Path:       "/v1/people/9",
		})
	})

	_, err := client.GetPerson(context.Background(), "9")
	require.Error(t, err)

	apiErr, ok := models.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, models.KindHTTP, apiErr.Kind)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Equal(t, "Pessoa não encontrada", apiErr.UserMessage())
	assert.Equal(t, "/v1/people/9", apiErr.Path)
}

func TestCreatePerson_ValidationError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, models.APIErrorResponse{
			StatusCode: 400,
			Error:      models.ErrTypeInvalidCPF,
			Message:    []string{"cpf must be valid"},
		})
	})

	_, err := client.CreatePerson(context.Background(), models.Person{Nome: "X"})
	assert.True(t, models.IsKind(err, models.KindValidation))
	assert.Equal(t, "CPF inválido", models.UserMessageFor(err))
}

func TestUnauthorized_InvokesHook(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, models.APIErrorResponse{StatusCode: 401, Error: "UNAUTHORIZED", Message: []string{"Unauthorized"}})
	})

	var calls int32
	var seenToken string
	client.OnUnauthorized(func(ctx context.Context, apiErr *models.APIError) {
		atomic.AddInt32(&calls, 1)
		seenToken = TokenFromContext(ctx)
		assert.Equal(t, models.KindUnauthorized, apiErr.Kind)
	})

	_, err := client.ListPeople(WithToken(context.Background(), "expired"), models.PaginationParams{})
	assert.True(t, models.IsKind(err, models.KindUnauthorized))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "401 is not retried")
	assert.Equal(t, "expired", seenToken)
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var attempts int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			writeJSON(w, http.StatusServiceUnavailable, models.APIErrorResponse{StatusCode: 503, Error: models.ErrTypeInternal})
			return
		}
		writeJSON(w, http.StatusOK, []string{"Brasileira"})
	})

	got, err := client.SearchNationalities(context.Background(), "bra")
	require.NoError(t, err)
	assert.Equal(t, []string{"Brasileira"}, got)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestGet_GivesUpAfterMaxRetries(t *testing.T) {
	var attempts int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		writeJSON(w, http.StatusInternalServerError, models.APIErrorResponse{StatusCode: 500, Error: models.ErrTypeDatabase})
	})

	_, err := client.SearchBirthplaces(context.Background(), "rio")
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	assert.Equal(t, "Erro no banco de dados", models.UserMessageFor(err))
}

func TestWrites_AreNotRetried(t *testing.T) {
	var attempts int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		writeJSON(w, http.StatusBadGateway, models.APIErrorResponse{StatusCode: 502})
	})

	_, err := client.CreatePerson(context.Background(), models.Person{Nome: "X"})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestTimeout_MapsToTimeoutKind(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := &config.Config{APIBaseURL: srv.URL, APIVersion: "v1", APITimeout: 50 * time.Millisecond}
	client := NewClient(cfg, nil, WithRetryConfig(RetryConfig{MaxRetries: 0}))

	err := client.DeletePerson(context.Background(), "1")
	require.Error(t, err)

	apiErr, ok := models.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, models.KindTimeout, apiErr.Kind)
	assert.Equal(t, 408, apiErr.StatusCode)
	assert.Equal(t, "Timeout da requisição", apiErr.UserMessage())
}

func TestNetworkFailure_MapsToNetworkKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	cfg := &config.Config{APIBaseURL: url, APIVersion: "v1", APITimeout: time.Second, APIMaxRetries: 1}
	client := NewClient(cfg, nil, WithRetryConfig(fastRetry()))

	_, err := client.GetPerson(context.Background(), "1")
	require.Error(t, err)

	apiErr, ok := models.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, models.KindNetwork, apiErr.Kind)
	assert.Equal(t, "Erro de conexão", apiErr.UserMessage())
}

func TestNonJSONErrorBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("<html>forbidden</html>"))
	})

	err := client.DeletePerson(context.Background(), "1")
	apiErr, ok := models.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 403, apiErr.StatusCode)
	assert.Equal(t, models.ErrTypeUnknown, apiErr.ErrorType)
	assert.Equal(t, "Forbidden", apiErr.UserMessage())
}

func TestLogin(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/auth/login", r.URL.Path)
		var creds models.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin@example.com", creds.Email)

		writeJSON(w, http.StatusOK, models.LoginResponse{
			AccessToken: "jwt-token",
			User:        models.User{ID: "1", Email: "admin@example.com", Name: "Admin"},
		})
	})

	resp, err := client.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", resp.AccessToken)
	assert.Equal(t, "Admin", resp.User.Name)
}

func TestSearchReference_NullIsEmpty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/reference/birthplaces", r.URL.Path)
		assert.Equal(t, "são paulo", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte("null"))
	})

	got, err := client.SearchBirthplaces(context.Background(), "são paulo")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRetry_StopsOnCancelledContext(t *testing.T) {
	var attempts int32
	ctx, cancel := context.WithCancel(context.Background())
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		cancel()
		writeJSON(w, http.StatusServiceUnavailable, models.APIErrorResponse{StatusCode: 503})
	})

	_, err := client.SearchNationalities(ctx, "x")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestTokenContext(t *testing.T) {
	assert.Empty(t, TokenFromContext(context.Background()))
	assert.Equal(t, "abc", TokenFromContext(WithToken(context.Background(), "abc")))
}
