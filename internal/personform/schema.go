package personform

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/utils"
)

// Field names as they appear in drafts and in error maps
const (
	FieldNome           = "nome"
	FieldCPF            = "cpf"
	FieldEmail          = "email"
	FieldDataNascimento = "dataNascimento"
	FieldSexo           = "sexo"
	FieldNaturalidade   = "naturalidade"
	FieldNacionalidade  = "nacionalidade"
)

// Messages reported per field
const (
	MsgNomeRequired    = "Nome é obrigatório"
	MsgCPFRequired     = "CPF é obrigatório"
	MsgEmailInvalid    = "E-mail inválido"
	MsgBirthRequired   = "Data de nascimento é obrigatória"
	MsgBirthInvalid    = "Data de nascimento inválida"
	MsgBirthFuture     = "Data de nascimento não pode ser uma data futura"
	MsgCPFInvalid      = "CPF inválido!"
	MsgCPFAlreadyInUse = "CPF já cadastrado"
	msgMinAge          = "Idade mínima de %d anos"
	msgInvalidField    = "Campo inválido"
)

// Schema checks a person against its struct tags. Custom tags:
// isodate (YYYY-MM-DD), notfuture (not after today) and minage
// (born on or before today minus the minimum age).
type Schema struct {
	validate *validator.Validate
	now      func() time.Time
	minAge   int
}

// NewSchema builds a schema; now defaults to time.Now
func NewSchema(now func() time.Time, minAge int) *Schema {
	if now == nil {
		now = time.Now
	}
	s := &Schema{validate: validator.New(), now: now, minAge: minAge}

	s.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = s.validate.RegisterValidation("isodate", s.isISODate)
	_ = s.validate.RegisterValidation("notfuture", s.notFuture)
	_ = s.validate.RegisterValidation("minage", s.hasMinAge)
	return s
}

// Check returns the first failure of each field, keyed by field name.
// An empty map means the person passed.
func (s *Schema) Check(p models.Person) map[string]string {
	out := map[string]string{}
	err := s.validate.Struct(p)
	if err == nil {
		return out
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["form"] = msgInvalidField
		return out
	}
	for _, fe := range errs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = s.message(fe)
	}
	return out
}

func (s *Schema) message(fe validator.FieldError) string {
	switch fe.Field() + ":" + fe.Tag() {
	case FieldNome + ":required":
		return MsgNomeRequired
	case FieldCPF + ":required":
		return MsgCPFRequired
	case FieldEmail + ":email":
		return MsgEmailInvalid
	case FieldDataNascimento + ":required":
		return MsgBirthRequired
	case FieldDataNascimento + ":isodate":
		return MsgBirthInvalid
	case FieldDataNascimento + ":notfuture":
		return MsgBirthFuture
	case FieldDataNascimento + ":minage":
		return fmt.Sprintf(msgMinAge, s.minAge)
	}
	return msgInvalidField
}

func (s *Schema) isISODate(fl validator.FieldLevel) bool {
	_, err := utils.ParseISODate(fl.Field().String())
	return err == nil
}

func (s *Schema) notFuture(fl validator.FieldLevel) bool {
	d, err := utils.ParseISODate(fl.Field().String())
	if err != nil {
		return true
	}
	return !utils.IsFutureDate(d, s.now())
}

func (s *Schema) hasMinAge(fl validator.FieldLevel) bool {
	if s.minAge <= 0 {
		return true
	}
	d, err := utils.ParseISODate(fl.Field().String())
	if err != nil {
		return true
	}
	return !d.After(utils.LatestBirthDate(s.now(), s.minAge))
}
