// Package docs registers the OpenAPI description served at /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/credentialsRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/userResponse"}}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/credentialsRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/v1/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Log out",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/v1/habits": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "List habits",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/habitResponse"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "Create a habit",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/habitRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/habitResponse"}}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/v1/habits/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "Get a habit",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/habitResponse"}}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "Update a habit",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/habitRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/habitResponse"}}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["habits"],
                "summary": "Delete a habit",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/tasks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "List daily tasks",
                "parameters": [
                    {"type": "string", "name": "date", "in": "query"},
                    {"type": "string", "name": "start", "in": "query"},
                    {"type": "string", "name": "end", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/taskResponse"}}}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/v1/tasks/generate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Generate daily tasks",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/v1/tasks/{id}/toggle": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Toggle a task",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/tasks/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Get a task",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Delete a task",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Dashboard",
                "parameters": [{"type": "string", "name": "today", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Completion statistics",
                "parameters": [
                    {"type": "string", "name": "today", "in": "query"},
                    {"type": "string", "name": "start", "in": "query"},
                    {"type": "string", "name": "end", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        }
    },
    "definitions": {
        "credentialsRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "userResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "username": {"type": "string"}, "created_at": {"type": "string"}}
        },
        "habitRequest": {
            "type": "object",
            "properties": {"title": {"type": "string"}, "time_of_day": {"type": "string", "example": "07:00"}}
        },
        "habitResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "title": {"type": "string"}, "time_of_day": {"type": "string"}, "created_at": {"type": "string"}}
        },
        "taskResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "habit_id": {"type": "string"}, "habit_title": {"type": "string"}, "habit_time": {"type": "string"}, "date": {"type": "string"}, "is_done": {"type": "boolean"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Habit Tracker API",
	Description:      "Habits, daily tasks and completion statistics",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
