package router

import (
	"log"

	"safra/config"
	"safra/controllers"
	"safra/middleware"

	"github.com/gin-gonic/gin"
)

// Initialize wires all routes and middlewares:
// public routes + token routes (producer) + authenticated routes + validated
// routes (Authorizer) + admin routes (Adminizer).
func Initialize(r *gin.Engine, cfg config.Configuration) {
	_ = cfg

	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")

	// Public (no auth)
	api.POST("/workspaces", Logger(), controllers.CreateWorkspace)
	api.POST("/users", Logger(), controllers.CreateUser)
	api.POST("/login", Logger(), controllers.Login)

	// Producer path (token público, sem auth)
	api.GET("/public/checklists/:token", Logger(), controllers.GetPublicChecklist)
	api.POST("/public/checklists/:token/responses", Logger(), controllers.SubmitResponses)
	api.POST("/public/checklists/:token/scope-answers", Logger(), controllers.SubmitScopeAnswers)
	api.POST("/public/checklists/:token/files", Logger(), controllers.RequestFileUpload)

	// Authenticated routes (token required)
	auth := api.Group("")
	auth.Use(controllers.AuthRequired())

	// Validated routes (token + active user)
	validated := auth.Group("")
	validated.Use(Authorizer())

	validated.GET("/me", Logger(), controllers.Me)
	validated.GET("/workspaces", Logger(), controllers.GetWorkspaces)

	// Producers
	validated.GET("/producers", Logger(), controllers.GetProducers)
	validated.GET("/producers/:id", Logger(), controllers.GetProducerByID)
	validated.POST("/producers", Logger(), controllers.CreateProducer)
	validated.PUT("/producers/:id", Logger(), controllers.UpdateProducer)
	validated.DELETE("/producers/:id", Logger(), controllers.DetachProducer)

	// Templates
	validated.GET("/templates", Logger(), controllers.GetTemplates)
	validated.GET("/templates/:id", Logger(), controllers.GetTemplateByID)
	validated.POST("/templates", Logger(), controllers.CreateTemplate)
	validated.PUT("/templates/:id", Logger(), controllers.UpdateTemplate)
	validated.POST("/templates/:id/duplicate", Logger(), controllers.DuplicateTemplate)
	validated.POST("/templates/:id/sections", Logger(), controllers.CreateSection)
	validated.POST("/sections/:id/items", Logger(), controllers.CreateItem)
	validated.POST("/templates/:id/scope-questions", Logger(), controllers.CreateScopeQuestion)

	// Checklists
	validated.GET("/checklists", Logger(), controllers.GetChecklists)
	validated.GET("/checklists/:id", Logger(), controllers.GetChecklistByID)
	validated.POST("/checklists", Logger(), controllers.CreateChecklist)
	validated.POST("/checklists/:id/send", Logger(), controllers.SendChecklist)
	validated.POST("/checklists/:id/children", Logger(), controllers.CreateChildChecklist)
	validated.POST("/checklists/:id/review", Logger(), controllers.ReviewChecklist)
	validated.POST("/checklists/:id/finalize", Logger(), controllers.FinalizeChecklist)
	validated.PUT("/checklists/:id/responses", Logger(), controllers.UpdateResponse)
	validated.GET("/checklists/:id/audit", Logger(), controllers.GetChecklistAuditLogs)

	// Admin routes
	admin := validated.Group("")
	admin.Use(Adminizer())

	admin.PUT("/workspaces", Logger(), controllers.UpdateWorkspace)
	admin.POST("/workspaces/sub", Logger(), controllers.CreateSubWorkspace)

	log.Printf("Routes initialized")
}
