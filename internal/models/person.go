package models

import (
	"strconv"
	"strings"

	"github.com/prefeitura-rio/app-pessoas/internal/utils"
)

// Person is the admin-side representation of a registered person.
// CPF is always kept digits-only; use FormattedCPF for display.
type Person struct {
	ID             string `json:"id,omitempty"`
	Nome           string `json:"nome" validate:"required"`
	CPF            string `json:"cpf" validate:"required"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	DataNascimento string `json:"dataNascimento" validate:"required,isodate,notfuture,minage"`
	Sexo           string `json:"sexo,omitempty"`
	Naturalidade   string `json:"naturalidade,omitempty"`
	Nacionalidade  string `json:"nacionalidade,omitempty"`
}

// FormattedCPF returns the CPF in the 000.000.000-00 display form.
func (p Person) FormattedCPF() string {
	return utils.FormatCPFDisplay(p.CPF)
}

// Normalized returns a copy with trimmed strings and a digits-only CPF.
func (p Person) Normalized() Person {
	p.Nome = strings.TrimSpace(p.Nome)
	p.CPF = utils.CleanCPF(p.CPF)
	p.Email = strings.TrimSpace(p.Email)
	p.DataNascimento = strings.TrimSpace(p.DataNascimento)
	p.Sexo = strings.TrimSpace(p.Sexo)
	p.Naturalidade = strings.TrimSpace(p.Naturalidade)
	p.Nacionalidade = strings.TrimSpace(p.Nacionalidade)
	return p
}

// PersonResponse is what handlers send back to the admin UI.
type PersonResponse struct {
	Person
	CPFFormatado string `json:"cpfFormatado"`
}

// NewPersonResponse decorates a person with its display CPF.
func NewPersonResponse(p Person) PersonResponse {
	return PersonResponse{Person: p, CPFFormatado: p.FormattedCPF()}
}

// APIPerson is the person shape exchanged with the backend REST API.
type APIPerson struct {
	ID          int     `json:"id,omitempty"`
	Name        string  `json:"name"`
	Gender      *string `json:"gender"`
	Email       *string `json:"email"`
	BirthDate   string  `json:"birthDate"`
	Naturalness *string `json:"naturalness"`
	Nationality *string `json:"nationality"`
	CPF         string  `json:"cpf"`
	Address     *string `json:"address,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

// PersonFromAPI maps a backend record into a Person.
func PersonFromAPI(a APIPerson) Person {
	birth := a.BirthDate
	if i := strings.Index(birth, "T"); i >= 0 {
		birth = birth[:i]
	}
	return Person{
		ID:             strconv.Itoa(a.ID),
		Nome:           a.Name,
		CPF:            utils.CleanCPF(a.CPF),
		Email:          deref(a.Email),
		DataNascimento: birth,
		Sexo:           deref(a.Gender),
		Naturalidade:   deref(a.Naturalness),
		Nacionalidade:  deref(a.Nationality),
	}
}

// ToAPI maps a Person into the backend payload. Empty optional fields are sent as null.
func (p Person) ToAPI() APIPerson {
	return APIPerson{
		Name:        p.Nome,
		Gender:      nullable(p.Sexo),
		Email:       nullable(p.Email),
		BirthDate:   p.DataNascimento,
		Naturalness: nullable(p.Naturalidade),
		Nationality: nullable(p.Nacionalidade),
		CPF:         utils.CleanCPF(p.CPF),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
