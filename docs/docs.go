// Package docs registers the OpenAPI definition served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Authenticate and receive a JWT",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a teacher account",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/questionnaires": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["questionnaires"],
                "summary": "List questionnaires",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["questionnaires"],
                "summary": "Upload a questionnaire document",
                "consumes": ["multipart/form-data"],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "413": {"description": "Request Entity Too Large"}
                }
            }
        },
        "/questionnaires/browse": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["questionnaires"],
                "summary": "Browse the shared questionnaire catalog",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/questionnaires/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["questionnaires"],
                "summary": "Get one questionnaire",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["questionnaires"],
                "summary": "Update questionnaire metadata",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["questionnaires"],
                "summary": "Delete a questionnaire",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/questionnaires/{id}/download": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["questionnaires"],
                "summary": "Download the original document",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/questionnaires/{id}/questions": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["questionnaires"],
                "summary": "List extracted questions of a questionnaire",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/questionnaires/{id}/retry-extraction": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["questionnaires"],
                "summary": "Re-run question extraction for a questionnaire",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/departments": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["departments"],
                "summary": "List departments",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["departments"],
                "summary": "Create a department",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/departments/{id}/subjects": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["departments"],
                "summary": "List subjects assigned to a department",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/subjects": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["subjects"],
                "summary": "List subjects",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["subjects"],
                "summary": "Create a subject",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/teachers": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["teachers"],
                "summary": "List teachers",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["teachers"],
                "summary": "Create a teacher account with profile",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/activity": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["activity"],
                "summary": "Recent activity feed",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/dashboard/admin": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["dashboard"],
                "summary": "Admin dashboard counters",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "QuizBank Backend API",
	Description:      "Backend service for the academic questionnaire bank.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
