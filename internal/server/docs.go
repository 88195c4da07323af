package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// registerDocs registers the OpenAPI description and a docs UI.
func registerDocs(e *echo.Echo) {
	e.GET("/openapi.json", func(c echo.Context) error {
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(openAPISpec))
	})

	e.GET("/docs", func(c echo.Context) error {
		html := `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>webqa API Docs</title>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <style>body{margin:0;padding:0;} .redoc-wrap{height:100vh;}</style>
  </head>
  <body>
    <div id="redoc-container" class="redoc-wrap"></div>
    <script src="https://cdn.jsdelivr.net/npm/redoc/bundles/redoc.standalone.js"></script>
    <script>
      Redoc.init('/openapi.json', {}, document.getElementById('redoc-container'))
    </script>
  </body>
</html>`
		return c.HTML(http.StatusOK, html)
	})
}

const openAPISpec = `{
  "openapi": "3.0.3",
  "info": {"title": "webqa", "version": "1.0.0", "description": "Index web pages and ask questions about them."},
  "paths": {
    "/index/": {
      "post": {
        "summary": "Fetch a page and store its first sentences",
        "parameters": [{"name": "url", "in": "query", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "status/message", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/StatusResponse"}}}}}
      }
    },
    "/start_chat/": {
      "post": {
        "summary": "Open a chat session",
        "responses": {"200": {"description": "new session", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/StartChatResponse"}}}}}
      }
    },
    "/ask/": {
      "post": {
        "summary": "Answer a question about an indexed page",
        "parameters": [
          {"name": "url", "in": "query", "required": true, "schema": {"type": "string"}},
          {"name": "question", "in": "query", "required": true, "schema": {"type": "string"}},
          {"name": "session_id", "in": "query", "required": false, "schema": {"type": "string"}}
        ],
        "responses": {"200": {"description": "answer or error", "content": {"application/json": {"schema": {"oneOf": [
          {"$ref": "#/components/schemas/AskResponse"},
          {"$ref": "#/components/schemas/StatusResponse"}
        ]}}}}}
      }
    }
  },
  "components": {
    "schemas": {
      "StatusResponse": {"type": "object", "properties": {"status": {"type": "string", "enum": ["success", "error"]}, "message": {"type": "string"}}},
      "StartChatResponse": {"type": "object", "properties": {"status": {"type": "string"}, "session_id": {"type": "string"}}},
      "AskResponse": {"type": "object", "properties": {"status": {"type": "string"}, "answer": {"type": "string"}, "chat_history": {"type": "array", "items": {"type": "string"}}}}
    }
  }
}`
