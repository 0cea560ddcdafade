// Package docs holds the OpenAPI description served under /swagger.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/papers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["papers"],
                "summary": "List papers",
                "parameters": [
                    {"type": "string", "description": "exam type", "name": "examType", "in": "query"},
                    {"type": "string", "description": "year", "name": "year", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Paper"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/papers/get/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["papers"],
                "summary": "Get paper",
                "parameters": [
                    {"type": "string", "description": "paper id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Paper"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/papers/delete/{id}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["papers"],
                "summary": "Delete paper",
                "parameters": [
                    {"type": "string", "description": "paper id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.deleteResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/papers/upload": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["papers"],
                "summary": "Upload paper",
                "parameters": [
                    {"type": "string", "description": "exam type", "name": "examType", "in": "formData", "required": true},
                    {"type": "string", "description": "year", "name": "year", "in": "formData", "required": true},
                    {"type": "string", "description": "paper type", "name": "paperType", "in": "formData", "required": true},
                    {"type": "file", "description": "paper PDF", "name": "paperFile", "in": "formData", "required": true},
                    {"type": "file", "description": "solution PDF", "name": "solutionFile", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Paper"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/papers/track/{id}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["papers"],
                "summary": "Track paper activity",
                "parameters": [
                    {"type": "string", "description": "paper id", "name": "id", "in": "path", "required": true},
                    {"description": "activity", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.trackRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "boolean"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/papers/{examType}/{year}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["papers"],
                "summary": "List papers by exam and year",
                "parameters": [
                    {"type": "string", "description": "exam type", "name": "examType", "in": "path", "required": true},
                    {"type": "string", "description": "year", "name": "year", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Paper"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/exams/metadata": {
            "get": {
                "produces": ["application/json"],
                "tags": ["exams"],
                "summary": "Exam metadata",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.ExamMetadata"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/exams/latest": {
            "get": {
                "produces": ["application/json"],
                "tags": ["exams"],
                "summary": "Latest papers",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "maximum results", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Paper"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/view-pdf/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "View PDF",
                "parameters": [
                    {"type": "string", "description": "paper id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "paper or solution", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.FileLink"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/download/{id}": {
            "get": {
                "tags": ["files"],
                "summary": "Download file",
                "parameters": [
                    {"type": "string", "description": "paper id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "paper or solution", "name": "type", "in": "query"}
                ],
                "responses": {
                    "302": {"description": "redirect to the file", "schema": {"type": "string"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "handler.deleteResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "paperId": {"type": "string"}
            }
        },
        "handler.trackRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string"}
            }
        },
        "service.FileLink": {
            "type": "object",
            "properties": {
                "external": {"type": "boolean"},
                "pdfUrl": {"type": "string"},
                "title": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "model.ExamMetadata": {
            "type": "object",
            "properties": {
                "examType": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "color": {"type": "string"},
                "years": {"type": "array", "items": {"type": "string"}},
                "totalPapers": {"type": "integer"},
                "latestYear": {"type": "string"}
            }
        },
        "model.Paper": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "partitionKey": {"type": "string"},
                "examType": {"type": "string"},
                "year": {"type": "string"},
                "paperType": {"type": "string"},
                "paperUrl": {"type": "string"},
                "solutionUrl": {"type": "string"},
                "hasDownload": {"type": "boolean"},
                "hasSolution": {"type": "boolean"},
                "uploadDate": {"type": "string"},
                "views": {"type": "integer"},
                "downloads": {"type": "integer"},
                "lastViewed": {"type": "string"},
                "subjects": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Exam Paper API",
	Description:      "Upload, browse and delete exam papers and their solutions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
