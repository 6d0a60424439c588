package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Sparx Timetable API",
        "description": "Semester timetable generation, draft review and publishing.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Schedule", "description": "Published timetable reads"},
        {"name": "Schedule Drafts", "description": "Generation, review and publishing of draft batches"}
    ],
    "paths": {
        "/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List timetable entries visible to the caller",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "semester", "in": "query", "type": "string", "enum": ["WINTER", "SUMMER"]},
                    {"name": "status", "in": "query", "type": "string", "enum": ["DRAFT", "PUBLISHED"]},
                    {"name": "groupId", "in": "query", "type": "string"},
                    {"name": "teacherId", "in": "query", "type": "string"},
                    {"name": "batchId", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedule/group/{id}": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List timetable entries of a student group",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "semester", "in": "query", "type": "string", "enum": ["WINTER", "SUMMER"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedule/teacher/{id}": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List timetable entries of a teacher",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "semester", "in": "query", "type": "string", "enum": ["WINTER", "SUMMER"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedule/drafts": {
            "get": {
                "tags": ["Schedule Drafts"],
                "summary": "List DRAFT batches of a semester",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "semester", "in": "query", "type": "string", "enum": ["WINTER", "SUMMER"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedule/batches": {
            "get": {
                "tags": ["Schedule Drafts"],
                "summary": "List batches",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "semester", "in": "query", "type": "string", "enum": ["WINTER", "SUMMER"]},
                    {"name": "status", "in": "query", "type": "string", "enum": ["DRAFT", "PUBLISHED"]},
                    {"name": "groupId", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedule/batches/{id}": {
            "get": {
                "tags": ["Schedule Drafts"],
                "summary": "Get a batch with its entries",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/batches/{id}/export": {
            "get": {
                "tags": ["Schedule Drafts"],
                "summary": "Download a batch as CSV, PDF or XLSX",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]}
                ],
                "responses": {"200": {"description": "File", "schema": {"type": "file"}}}
            }
        },
        "/schedule/generate": {
            "post": {
                "tags": ["Schedule Drafts"],
                "summary": "Generate a DRAFT schedule for a group",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Group not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Batch not replaceable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/reoptimize": {
            "post": {
                "tags": ["Schedule Drafts"],
                "summary": "Regenerate DRAFT batches in place",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchIDsRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedule/publish": {
            "post": {
                "tags": ["Schedule Drafts"],
                "summary": "Publish DRAFT batches",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchIDsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "No drafts among the ids", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/batch/{id}": {
            "delete": {
                "tags": ["Schedule Drafts"],
                "summary": "Delete a DRAFT batch",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Batch is published", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ResolvedSlot": {
            "type": "object",
            "properties": {
                "week": {"type": "integer", "minimum": 1, "maximum": 15},
                "day": {"type": "integer", "minimum": 0, "maximum": 4},
                "slot": {"type": "integer", "minimum": 1, "maximum": 7},
                "roomId": {"type": "string"}
            }
        },
        "Weights": {
            "type": "object",
            "properties": {
                "preferences": {"type": "number", "minimum": 0, "default": 2},
                "teacherGaps": {"type": "number", "minimum": 0, "default": 2},
                "studentGaps": {"type": "number", "minimum": 0, "default": 2}
            }
        },
        "GenerateScheduleRequest": {
            "type": "object",
            "required": ["groupId"],
            "properties": {
                "groupId": {"type": "string"},
                "semester": {"type": "string", "enum": ["WINTER", "SUMMER"]},
                "existingBatchId": {"type": "string"},
                "resolvedConflicts": {
                    "type": "object",
                    "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/ResolvedSlot"}}
                },
                "weights": {"$ref": "#/definitions/Weights"}
            }
        },
        "BatchIDsRequest": {
            "type": "object",
            "required": ["batchIds"],
            "properties": {
                "batchIds": {"type": "array", "items": {"type": "string"}},
                "semester": {"type": "string", "enum": ["WINTER", "SUMMER"]},
                "weights": {"$ref": "#/definitions/Weights"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
