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
        "/confirm/{token}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["subscription"],
                "summary": "Confirm email subscription",
                "parameters": [
                    {"type": "string", "description": "Confirmation token", "name": "token", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/subscription.messageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/subscription.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/subscription.errorResponse"}}
                }
            }
        },
        "/subscribe": {
            "post": {
                "description": "Subscribe an email to receive weather updates for a specific city.",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["subscription"],
                "summary": "Subscribe to weather updates",
                "parameters": [
                    {"description": "Subscription request", "name": "request", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/models.UserSubData"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/subscription.messageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/subscription.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/subscription.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/subscription.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/subscription.errorResponse"}}
                }
            }
        },
        "/unsubscribe/{token}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["subscription"],
                "summary": "Unsubscribe from weather updates",
                "parameters": [
                    {"type": "string", "description": "Unsubscribe token", "name": "token", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/subscription.messageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/subscription.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/subscription.errorResponse"}}
                }
            }
        },
        "/weather": {
            "get": {
                "produces": ["application/json"],
                "tags": ["weather"],
                "summary": "Get current weather for a city",
                "parameters": [
                    {"type": "string", "description": "City name", "name": "city", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.WeatherData"}},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    },
    "definitions": {
        "models.UserSubData": {
            "type": "object",
            "required": ["city", "email", "frequency"],
            "properties": {
                "city": {"type": "string"},
                "email": {"type": "string"},
                "frequency": {"type": "string", "enum": ["hourly", "daily"]}
            }
        },
        "models.WeatherData": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "humidity": {"type": "number"},
                "temperature": {"type": "number"}
            }
        },
        "subscription.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "subscription.messageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Weather Updates API",
	Description:      "Subscribe to periodic weather reports for a city.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
