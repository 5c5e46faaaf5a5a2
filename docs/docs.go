// Package docs registers the OpenAPI document served at /v1/swagger.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/token": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Issue an anonymous learner token",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.TokenResponse"}}
                }
            }
        },
        "/submissions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["submissions"],
                "summary": "Store a finished quiz session",
                "parameters": [
                    {"description": "responses", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.SubmitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.SubmitResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/submissions/recent": {
            "get": {
                "produces": ["application/json"],
                "tags": ["submissions"],
                "summary": "Newest submissions for a quiz type",
                "parameters": [
                    {"type": "string", "description": "quiz type", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.RecentResponse"}}
                }
            }
        },
        "/studies": {
            "get": {
                "produces": ["application/json"],
                "tags": ["studies"],
                "summary": "List studies",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Study"}}}
                }
            }
        },
        "/studies/{index}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["studies"],
                "summary": "Get one study by position",
                "parameters": [
                    {"type": "integer", "description": "study index", "name": "index", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Study"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "model.Method": {
            "type": "object",
            "properties": {
                "Experimental Methods": {"type": "string"},
                "Correct": {"type": "string"},
                "correctness of methods selection": {"type": "string"},
                "fix1": {"type": "string"},
                "fix1 correct": {"type": "string"},
                "fix2": {"type": "string"},
                "fix2 correct": {"type": "string"},
                "fix3": {"type": "string"},
                "fix3 correct": {"type": "string"},
                "fix4": {"type": "string"},
                "fix4 correct": {"type": "string"}
            }
        },
        "model.Study": {
            "type": "object",
            "properties": {
                "Example": {"type": "string"},
                "Study Description": {"type": "string"},
                "Causal Pathway": {"type": "string"},
                "Independent Variable": {"type": "string"},
                "Dependent Variable": {"type": "string"},
                "subElements": {"type": "array", "items": {"$ref": "#/definitions/model.Method"}}
            }
        },
        "model.Response": {
            "type": "object",
            "properties": {
                "questionIndex": {"type": "integer"},
                "selectedMethodIndex": {"type": "integer"},
                "selectedFixIndex": {"type": "integer"},
                "reasoning": {"type": "string"},
                "fixReasoning": {"type": "string"},
                "isCorrect": {"type": "boolean"},
                "question": {"$ref": "#/definitions/model.Study"},
                "answeredAt": {"type": "string"}
            }
        },
        "model.Submission": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string"},
                "learnerId": {"type": "string"},
                "responses": {"type": "array", "items": {"$ref": "#/definitions/model.Response"}},
                "timestamp": {"type": "string"}
            }
        },
        "model.SubmitRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "type": {"type": "string"},
                "responses": {"type": "array", "items": {"$ref": "#/definitions/model.Response"}}
            }
        },
        "model.SubmitResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "model.RecentResponse": {
            "type": "object",
            "properties": {
                "submissions": {"type": "array", "items": {"$ref": "#/definitions/model.Submission"}}
            }
        },
        "model.TokenResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "learnerId": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Method Quiz Submission API",
	Description:      "Stores finished quiz sessions and serves peer answers for review",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
