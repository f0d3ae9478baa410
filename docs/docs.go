// Package docs holds the OpenAPI document served under /swagger/.
package docs

import "github.com/swaggo/swag"

// InstanceName is the swag registry key the HTTP server looks the document up by.
const InstanceName = "studylens"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {"name": "StudyLens maintainers"},
        "license": {"name": "MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a new user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object"}},
                    "409": {"description": "Conflict", "schema": {"type": "object"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}},
                    "429": {"description": "Too Many Requests", "schema": {"type": "object"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate tokens",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Current user",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}}
                }
            }
        },
        "/sessions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Sessions"],
                "summary": "List my sessions",
                "description": "Reads the remote tracker backend first and falls back to the local store. The X-Sessions-Source header names the source.",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Sessions"],
                "summary": "Submit a study session",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.SessionCreateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object"}}
                }
            }
        },
        "/sessions/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Sessions"],
                "summary": "Dashboard statistics",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Dashboard"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}}
                }
            }
        },
        "/sessions/log": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Sessions"],
                "summary": "Sorted session log",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "default": "-timestamp", "description": "Sort field", "name": "sort", "in": "query"},
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 15, "description": "Page size", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SessionLog"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object"}}
                }
            }
        },
        "/ws/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Live sessions feed",
                "description": "WebSocket. Send {\"type\":\"auth\",\"token\":\"<access token>\"} within 10 seconds, then receive session_created frames.",
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        }
    },
    "definitions": {
        "dto.RegisterUserRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "name": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "dto.RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            }
        },
        "dto.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "refresh_token": {"type": "string"},
                "access_expires_at": {"type": "string"},
                "refresh_expires_at": {"type": "string"}
            }
        },
        "models.SessionCreateRequest": {
            "type": "object",
            "required": ["total_duration_sec", "focused_time_sec", "wasted_time_sec", "drowsy_time_sec", "max_attention_span_sec", "avg_attention_span_sec", "wasted_percentage"],
            "properties": {
                "timestamp": {"type": "string"},
                "total_duration_sec": {"type": "number", "minimum": 0},
                "focused_time_sec": {"type": "number", "minimum": 0},
                "wasted_time_sec": {"type": "number", "minimum": 0},
                "drowsy_time_sec": {"type": "number", "minimum": 0},
                "max_attention_span_sec": {"type": "number", "minimum": 0},
                "avg_attention_span_sec": {"type": "number", "minimum": 0},
                "wasted_percentage": {"type": "number", "minimum": 0, "maximum": 100}
            }
        },
        "models.StudySession": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "owner_id": {"type": "string"},
                "username": {"type": "string"},
                "timestamp": {"type": "string"},
                "total_duration_sec": {"type": "number"},
                "focused_time_sec": {"type": "number"},
                "wasted_time_sec": {"type": "number"},
                "drowsy_time_sec": {"type": "number"},
                "max_attention_span_sec": {"type": "number"},
                "avg_attention_span_sec": {"type": "number"},
                "wasted_percentage": {"type": "number"},
                "created_at": {"type": "string"}
            }
        },
        "models.SessionView": {
            "allOf": [
                {"$ref": "#/definitions/models.StudySession"},
                {
                    "type": "object",
                    "properties": {
                        "focus_percentage": {"type": "number"},
                        "focus_level": {"type": "string", "enum": ["excellent", "good", "fair", "poor"]},
                        "duration": {"type": "string"}
                    }
                }
            ]
        },
        "models.Dashboard": {
            "type": "object",
            "properties": {
                "source": {"type": "string"},
                "summary": {"type": "object"},
                "summary_labels": {"type": "object"},
                "personal_bests": {"type": "object"},
                "trend": {"type": "array", "items": {"type": "object"}},
                "recent": {"type": "array", "items": {"$ref": "#/definitions/models.SessionView"}}
            }
        },
        "models.SessionLog": {
            "type": "object",
            "properties": {
                "source": {"type": "string"},
                "sessions": {"type": "array", "items": {"$ref": "#/definitions/models.StudySession"}},
                "metadata": {"type": "object"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "StudyLens Dashboard API",
	Description:      "Study session telemetry: ingestion, remote-first retrieval with local fallback, dashboard statistics and a live feed.",
	InfoInstanceName: InstanceName,
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
