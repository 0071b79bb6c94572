package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-pessoas/internal/middleware"
)

// Routes groups the handlers mounted under /v1
type Routes struct {
	Auth      *AuthHandlers
	People    *PeopleHandlers
	Reference *ReferenceHandlers
	Health    *HealthHandlers

	Sessions middleware.SessionResolver
	Cookies  middleware.SessionCookies
	// Audit is optional
	Audit middleware.AuditRecorder
}

// Register mounts every endpoint on v1
func (r Routes) Register(v1 *gin.RouterGroup) {
	if r.Audit != nil {
		v1.Use(middleware.AuditMiddleware(r.Audit))
	}

	v1.GET("/health", r.Health.HealthCheck)

	cpf := v1.Group("/cpf")
	{
		cpf.GET("/format", FormatCPF)
		cpf.POST("/validate", ValidateCPF)
	}

	auth := v1.Group("/auth")
	{
		auth.POST("/login", r.Auth.Login)
		auth.POST("/logout", r.Auth.Logout)
		auth.GET("/session", middleware.RequireSession(r.Sessions, r.Cookies), r.Auth.Session)
	}

	protected := v1.Group("", middleware.RequireSession(r.Sessions, r.Cookies))
	{
		protected.GET("/people", r.People.ListPeople)
		protected.GET("/people/:id", r.People.GetPerson)
		protected.POST("/people", r.People.CreatePerson)
		protected.PUT("/people/:id", r.People.UpdatePerson)
		protected.DELETE("/people/:id", r.People.DeletePerson)

		protected.GET("/reference/:kind", r.Reference.Suggest)
	}
}
