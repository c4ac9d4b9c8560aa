package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the quest log API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>questlog API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "questlog", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "Objective": { "type": "object", "properties": { "id": {"type":"string"}, "title": {"type":"string"}, "completed": {"type":"boolean"} } },
      "Quest": { "type": "object", "properties": { "id": {"type":"string"}, "title": {"type":"string"}, "description": {"type":"string"}, "objectives": {"type":"array","items":{"$ref":"#/components/schemas/Objective"}}, "created": {"type":"string"}, "updated": {"type":"string"} } },
      "QuestLog": { "type": "object", "required": ["id","name"], "properties": { "id": {"type":"string"}, "name": {"type":"string"}, "description": {"type":"string"}, "quests": {"type":"array","items":{"$ref":"#/components/schemas/Quest"}}, "created": {"type":"string"}, "updated": {"type":"string"} } }
    }
  },
  "paths": {
    "/api/logs": { "get": { "summary": "List quest logs (summary view)", "responses": { "200": { "description": "{logs: [...]}" } } } },
    "/api/log/{id}": { "get": { "summary": "Get one quest log", "responses": { "200": { "description": "{log: {...}}" }, "404": { "description": "not found" } } } },
    "/api/save": { "post": { "summary": "Create or overwrite a quest log", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"log":{"$ref":"#/components/schemas/QuestLog"}}}}}}, "responses": { "200": { "description": "{success: true}" }, "400": { "description": "missing id or name" } } } },
    "/api/delete/{id}": { "delete": { "summary": "Delete a quest log", "responses": { "200": { "description": "{success: true}" }, "404": { "description": "not found" } } } },
    "/api/templates": { "get": { "summary": "List templates", "responses": { "200": { "description": "{templates: [...]}" } } } },
    "/api/import-template/{id}": { "get": { "summary": "Create a new log from a template", "responses": { "200": { "description": "{success: true, log: {...}}" }, "404": { "description": "template not found" } } } },
    "/api/export/{id}": { "get": { "summary": "Download a quest log as a .quest file", "responses": { "200": { "description": "attachment" }, "404": { "description": "not found" } } } },
    "/api/import": { "post": { "summary": "Import a .quest document", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"log":{"$ref":"#/components/schemas/QuestLog"}}}}}}, "responses": { "200": { "description": "{success: true, log: {...}}" }, "400": { "description": "invalid file" } } } },
    "/api/backup": { "post": { "summary": "Copy every log to object storage (when configured)", "responses": { "200": { "description": "{success: true, count: n}" } } } },
    "/api/restore/{id}": { "post": { "summary": "Restore one log from object storage (when configured)", "responses": { "200": { "description": "{success: true, log: {...}}" }, "404": { "description": "no backup" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
