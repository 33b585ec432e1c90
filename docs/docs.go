// Package docs registers the OpenAPI description served under /swagger.
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
        "/updates": {
            "post": {
                "tags": ["Conversation"],
                "summary": "Deliver a chat event",
                "parameters": [{"in": "body", "name": "update", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.UpdateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/admin/assignments/{id}/grade": {
            "put": {
                "tags": ["Admin - Moderation"],
                "summary": "(Admin) Re-grade a recorded answer",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "grade", "required": true, "schema": {"$ref": "#/definitions/dto.GradeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AssignmentResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Assignment still pending", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/admin/questions": {
            "get": {
                "tags": ["Admin - Questions"],
                "summary": "(Admin) List questions",
                "parameters": [
                    {"type": "integer", "name": "line", "in": "query"},
                    {"type": "boolean", "name": "active", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.QuestionResponse"}}}}
            },
            "post": {
                "tags": ["Admin - Questions"],
                "summary": "(Admin) Bulk insert questions",
                "parameters": [{"in": "body", "name": "questions", "required": true, "schema": {"$ref": "#/definitions/dto.QuestionImportDTO"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.ImportResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/admin/questions/{id}": {
            "get": {
                "tags": ["Admin - Questions"],
                "summary": "(Admin) Get a question",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuestionResponse"}}}
            }
        },
        "/admin/questions/{id}/retire": {
            "post": {
                "tags": ["Admin - Moderation"],
                "summary": "(Admin) Retire a question",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/admin/questions/{id}/restore": {
            "post": {
                "tags": ["Admin - Moderation"],
                "summary": "(Admin) Restore a retired question",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/admin/learners/{chat_id}/today": {
            "get": {
                "tags": ["Admin - Moderation"],
                "summary": "(Admin) Same-day results of a learner",
                "parameters": [
                    {"type": "integer", "name": "chat_id", "in": "path", "required": true},
                    {"type": "string", "name": "day", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TallyResponse"}}}
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {"type": "object", "properties": {"message": {"type": "string"}, "details": {"type": "array", "items": {"type": "string"}}}},
        "dto.UpdateRequest": {"type": "object", "required": ["chat_id", "kind"], "properties": {
            "chat_id": {"type": "integer"}, "handle": {"type": "string"},
            "kind": {"type": "string", "enum": ["command", "text", "callback", "attachment"]},
            "command": {"type": "string"}, "text": {"type": "string"}, "callback": {"type": "string"}, "message_ref": {"type": "string"}}},
        "dto.UpdateResponse": {"type": "object", "properties": {"replies": {"type": "array", "items": {"$ref": "#/definitions/chat.Outbound"}}}},
        "chat.Outbound": {"type": "object", "properties": {
            "kind": {"type": "string", "enum": ["message", "edit", "alert"]}, "chat_id": {"type": "integer"}, "text": {"type": "string"},
            "buttons": {"type": "array", "items": {"type": "array", "items": {"$ref": "#/definitions/chat.Button"}}},
            "keyboard": {"type": "array", "items": {"type": "string"}}, "message_ref": {"type": "string"}}},
        "chat.Button": {"type": "object", "properties": {"label": {"type": "string"}, "callback": {"type": "string"}}},
        "dto.GradeRequest": {"type": "object", "required": ["correct"], "properties": {"correct": {"type": "boolean"}}},
        "dto.AssignmentResponse": {"type": "object", "properties": {
            "id": {"type": "integer"}, "learner_id": {"type": "integer"}, "question_id": {"type": "integer"},
            "status": {"type": "string"}, "submitted_text": {"type": "string"}, "assigned_date": {"type": "string"}}},
        "dto.QuestionCreateDTO": {"type": "object", "required": ["line", "prompt_text", "answer_spec"], "properties": {
            "line": {"type": "integer"}, "prompt_text": {"type": "string"}, "options_text": {"type": "string"},
            "passage_text": {"type": "string"}, "answer_spec": {"type": "string"}}},
        "dto.QuestionImportDTO": {"type": "object", "required": ["questions"], "properties": {"questions": {"type": "array", "items": {"$ref": "#/definitions/dto.QuestionCreateDTO"}}}},
        "dto.ImportResponse": {"type": "object", "properties": {"created": {"type": "integer"}}},
        "dto.QuestionResponse": {"type": "object", "properties": {
            "id": {"type": "integer"}, "line": {"type": "integer"}, "prompt_text": {"type": "string"}, "options_text": {"type": "string"},
            "passage_text": {"type": "string"}, "answer_spec": {"type": "string"}, "active": {"type": "boolean"},
            "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "dto.TallyResponse": {"type": "object", "properties": {
            "chat_id": {"type": "integer"}, "name": {"type": "string"}, "day": {"type": "string"},
            "correct": {"type": "integer"}, "total": {"type": "integer"},
            "items": {"type": "array", "items": {"$ref": "#/definitions/dto.AssignmentResponse"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Literature Exam Drill API",
	Description:      "Daily exam-practice assignment engine behind a chat gateway, with operator moderation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
