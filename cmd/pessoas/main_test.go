package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/personform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken    = "cli-token"
	testPassword = "secret"
)

type fakeBackend struct {
	mu      sync.Mutex
	people  map[int]models.APIPerson
	nextID  int
	creates int
	last    models.APIPerson
	revoked bool
}

func newFakeBackend(t *testing.T) (*fakeBackend, string) {
	t.Helper()
	b := &fakeBackend{
		people: map[int]models.APIPerson{
			1: {ID: 1, Name: "Ana Souza", CPF: "52998224725", BirthDate: "1990-05-10"},
		},
		nextID: 2,
	}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return b, srv.URL
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r.URL.Path == "/v1/auth/login" {
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != testPassword {
			writeJSON(w, http.StatusUnauthorized, models.APIErrorResponse{StatusCode: 401, Error: models.ErrTypeUnauthorized})
			return
		}
		writeJSON(w, http.StatusOK, models.LoginResponse{AccessToken: testToken, User: models.User{ID: "u1", Email: req.Email}})
		return
	}
	if b.revoked || r.Header.Get("Authorization") != "Bearer "+testToken {
		writeJSON(w, http.StatusUnauthorized, models.APIErrorResponse{StatusCode: 401, Error: models.ErrTypeUnauthorized})
		return
	}

	switch {
	case r.URL.Path == "/v1/reference/nationalities":
		writeJSON(w, http.StatusOK, []string{"Brasileira"})
	case r.URL.Path == "/v1/people" && r.Method == http.MethodGet:
		list := []models.APIPerson{}
		for id := 1; id < b.nextID; id++ {
			if p, ok := b.people[id]; ok {
				list = append(list, p)
			}
		}
		writeJSON(w, http.StatusOK, models.PaginatedResponse[models.APIPerson]{Data: list, Page: 1, Limit: 10, Total: len(list), TotalPages: 1})
	case r.URL.Path == "/v1/people" && r.Method == http.MethodPost:
		var p models.APIPerson
		_ = json.NewDecoder(r.Body).Decode(&p)
		b.creates++
		p.ID = b.nextID
		b.nextID++
		b.people[p.ID] = p
		b.last = p
		writeJSON(w, http.StatusCreated, p)
	case strings.HasPrefix(r.URL.Path, "/v1/people/"):
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/v1/people/"))
		p, ok := b.people[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, models.APIErrorResponse{StatusCode: 404, Error: models.ErrTypePersonNotFound})
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, p)
		case http.MethodPut:
			var upd models.APIPerson
			_ = json.NewDecoder(r.Body).Decode(&upd)
			upd.ID = id
			b.people[id] = upd
			b.last = upd
			writeJSON(w, http.StatusOK, upd)
		case http.MethodDelete:
			delete(b.people, id)
			w.WriteHeader(http.StatusNoContent)
		}
	default:
		writeJSON(w, http.StatusNotFound, models.APIErrorResponse{StatusCode: 404, Error: models.ErrTypeRouteNotFound})
	}
}

type cliEnv struct {
	backend     *fakeBackend
	url         string
	sessionFile string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("API_MAX_RETRIES", "0")
	t.Setenv("PESSOAS_PASSWORD", "")

	backend, url := newFakeBackend(t)
	return &cliEnv{
		backend:     backend,
		url:         url,
		sessionFile: filepath.Join(t.TempDir(), "session.json"),
	}
}

func (e *cliEnv) run(stdin string, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--api-url", e.url, "--session-file", e.sessionFile))
	err := root.Execute()
	return out.String(), err
}

func (e *cliEnv) login(t *testing.T) {
	t.Helper()
	out, err := e.run("", "login", "--email", "admin@rio.rj.gov.br", "--password", testPassword)
	require.NoError(t, err)
	require.Contains(t, out, "Logged in as admin@rio.rj.gov.br")
}

func TestCPFValidate(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("", "cpf", "validate", "52998224725")
	require.NoError(t, err)
	assert.Equal(t, "CPF válido: 529.982.247-25\n", out)

	_, err = env.run("", "cpf", "validate", "111.111.111-11")
	require.Error(t, err)
	assert.Contains(t, err.Error(), models.MsgInvalidCPF)
}

func TestCPFFormat(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("", "cpf", "format", "5299822")
	require.NoError(t, err)
	assert.Equal(t, "529.982.2\n", out)

	out, err = env.run("", "cpf", "format", "--display", "5299822")
	require.NoError(t, err)
	assert.Equal(t, "5299822\n", out)
}

func TestLoginListLogout(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)
	assert.FileExists(t, env.sessionFile)

	out, err := env.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana Souza")
	assert.Contains(t, out, "529.982.247-25")
	assert.Contains(t, out, "Mostrando 1 a 1 de 1")

	out, err = env.run("", "logout")
	require.NoError(t, err)
	assert.Equal(t, "Logged out\n", out)
	assert.NoFileExists(t, env.sessionFile)

	_, err = env.run("", "list")
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestLogin_PasswordFromStdin(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(testPassword+"\n", "login", "--email", "admin@rio.rj.gov.br")

	require.NoError(t, err)
	assert.Contains(t, out, "Logged in")
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("", "login", "--email", "admin@rio.rj.gov.br", "--password", "nope")

	require.Error(t, err)
	assert.Equal(t, "Email ou senha incorretos", err.Error())
	assert.NoFileExists(t, env.sessionFile)
}

func TestCreate_InvalidCPFIsNotSent(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	out, err := env.run("", "create", "--nome", "Bruno Lima", "--cpf", "123.456.789-00", "--nascimento", "1985-03-20")

	assert.ErrorIs(t, err, personform.ErrValidation)
	assert.Equal(t, "cpf: CPF inválido!\n", out)
	assert.Zero(t, env.backend.creates)
}

func TestCreate_ReportsEveryFieldError(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	out, err := env.run("", "create", "--email", "nope")

	assert.ErrorIs(t, err, personform.ErrValidation)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "cpf: "))
	assert.True(t, strings.HasPrefix(lines[1], "dataNascimento: "))
	assert.True(t, strings.HasPrefix(lines[2], "email: "))
	assert.True(t, strings.HasPrefix(lines[3], "nome: "))
}

func TestCreate_Success(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	out, err := env.run("", "create",
		"--nome", "Bruno Lima",
		"--cpf", "390.533.447-05",
		"--nascimento", "1985-03-20",
		"--sexo", "Masculino")

	require.NoError(t, err)
	assert.Contains(t, out, models.MsgPersonCreated)
	assert.Contains(t, out, "390.533.447-05")
	assert.Equal(t, 1, env.backend.creates)
	assert.Equal(t, "39053344705", env.backend.last.CPF)
	assert.Nil(t, env.backend.last.Email)
}

func TestUpdate_KeepsUnsetFields(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	out, err := env.run("", "update", "1", "--nome", "Ana Souza Lima")

	require.NoError(t, err)
	assert.Contains(t, out, models.MsgPersonUpdated)
	assert.Equal(t, "Ana Souza Lima", env.backend.last.Name)
	assert.Equal(t, "52998224725", env.backend.last.CPF)
	assert.Equal(t, "1990-05-10", env.backend.last.BirthDate)
}

func TestGetAndDelete(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	out, err := env.run("", "get", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana Souza")

	out, err = env.run("", "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, models.MsgPersonDeleted+"\n", out)

	_, err = env.run("", "get", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), models.MsgPersonNotFound)
}

func TestUnauthorized_RemovesLocalSession(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)
	env.backend.revoked = true

	_, err := env.run("", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Sessão expirada")
	_, statErr := os.Stat(env.sessionFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSuggest_Genders(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("f\nfe\nfem\n", "suggest", "genders", "--delay", "1h")

	require.NoError(t, err)
	assert.Equal(t, "fem: Feminino\n", out)
}

func TestSuggest_NationalitiesNeedSession(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("bra\n", "suggest", "nationalities")
	assert.ErrorIs(t, err, errNotLoggedIn)

	env.login(t)
	out, err := env.run("b\nbra\n", "suggest", "nationalities", "--delay", "1h")
	require.NoError(t, err)
	assert.Equal(t, "bra: Brasileira\n", out)
}

func TestSuggest_UnknownKind(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("", "suggest", "planets")

	assert.Error(t, err)
}
