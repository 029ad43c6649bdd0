// Package docs holds the OpenAPI document served at /api/docs.
// Regenerate after touching handler annotations:
//
//	swag init --v3.1 -g cmd/toxicbot-hook/main.go -o internal/services/api/docs --instanceName api
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{.Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/moderation/events": {
            "post": {
                "tags": ["Moderation"],
                "summary": "Moderate a webhook delivery",
                "parameters": [
                    {"name": "X-GitHub-Event", "in": "header", "required": true, "schema": {"type": "string"}},
                    {"name": "X-GitHub-Delivery", "in": "header", "schema": {"type": "string"}}
                ],
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {"type": "object"}}}
                },
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Outcome"}}}},
                    "422": {"description": "event not handled", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
                }
            }
        },
        "/moderation/check": {
            "post": {
                "tags": ["Moderation"],
                "summary": "Classify a single text",
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.CheckInput"}}}
                },
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.CheckResult"}}}},
                    "502": {"description": "classifier rejected the call", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
                }
            }
        },
        "/moderation/version": {
            "get": {
                "tags": ["Moderation"],
                "summary": "Build information",
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/version.BuildInfo"}}}}
                }
            }
        }
    },
    "components": {
        "schemas": {
            "domain.CheckInput": {
                "type": "object",
                "required": ["text"],
                "properties": {"text": {"type": "string", "maxLength": 65536}}
            },
            "domain.CheckResult": {
                "type": "object",
                "properties": {
                    "is_toxic": {"type": "boolean"},
                    "threshold": {"type": "number"},
                    "predictions": {"type": "array", "items": {"type": "object"}}
                }
            },
            "domain.Outcome": {
                "type": "object",
                "properties": {
                    "command_id": {"type": "string"},
                    "kind": {"type": "string"},
                    "location": {"type": "string"},
                    "trigger": {"type": "string"},
                    "telemetry": {"type": "string"},
                    "is_toxic": {"type": "boolean"},
                    "should_intervene": {"type": "boolean"}
                }
            },
            "version.BuildInfo": {
                "type": "object",
                "properties": {
                    "service": {"type": "string"},
                    "version": {"type": "string"},
                    "commit": {"type": "string"},
                    "date": {"type": "string"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	BasePath:         "/api/v1",
	Title:            "toxicbot webhook API",
	Description:      "Moderates GitHub comments delivered by webhook",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
