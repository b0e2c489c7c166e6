package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the portal API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>student-portal Swagger</title>
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
  "info": { "title": "student-portal", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer" } },
    "schemas": {
      "Error": { "type": "object", "properties": { "error": { "type": "string" } } },
      "Document": {
        "type": "object",
        "properties": {
          "id": { "type": "integer" },
          "original_name": { "type": "string" },
          "stored_name": { "type": "string" },
          "uploaded_at": { "type": "string", "example": "2024-05-01T10:00:00.123456" }
        }
      }
    }
  },
  "paths": {
    "/api/auth/login": {
      "post": {
        "summary": "Log in with email and password",
        "requestBody": { "content": { "application/json": { "schema": { "type": "object", "properties": { "email": { "type": "string" }, "password": { "type": "string" } } } } } },
        "responses": {
          "200": { "description": "token issued; any previous token of the account is revoked" },
          "400": { "description": "Email and password required" },
          "401": { "description": "Invalid credentials" }
        }
      }
    },
    "/api/documents/upload": {
      "post": {
        "summary": "Upload a file for an owner id",
        "security": [ { "bearer": [] } ],
        "requestBody": { "content": { "multipart/form-data": { "schema": { "type": "object", "properties": { "file": { "type": "string", "format": "binary" }, "user_id": { "type": "integer" } } } } } },
        "responses": {
          "200": { "description": "uploaded" },
          "400": { "description": "No file / user_id required" },
          "401": { "description": "Authentication required / Invalid or expired token" },
          "413": { "description": "File too large (MAX_UPLOAD_MB)" }
        }
      }
    },
    "/api/documents": {
      "get": {
        "summary": "List documents of an owner id",
        "security": [ { "bearer": [] } ],
        "parameters": [ { "name": "user_id", "in": "query", "schema": { "type": "integer" } } ],
        "responses": {
          "200": { "description": "array of documents", "content": { "application/json": { "schema": { "type": "array", "items": { "$ref": "#/components/schemas/Document" } } } } },
          "401": { "description": "Authentication required / Invalid or expired token" }
        }
      }
    },
    "/api/documents/download": {
      "get": {
        "summary": "Download a document as an attachment",
        "security": [ { "bearer": [] } ],
        "parameters": [ { "name": "file_id", "in": "query", "required": true, "schema": { "type": "integer" } } ],
        "responses": {
          "200": { "description": "file content" },
          "400": { "description": "file_id required" },
          "401": { "description": "Authentication required / Invalid or expired token" },
          "404": { "description": "File not found" }
        }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "exposition format" } } } }
  }
}`
