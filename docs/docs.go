// Package docs registers the OpenAPI document served under /swagger/.
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
        "/healthz": {
            "get": {
                "description": "Ping the configured data source",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "Healthy", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Data source unavailable", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/pages": {
            "get": {
                "description": "List every dashboard page with its selectors and panels",
                "produces": ["application/json"],
                "tags": ["pages"],
                "summary": "List pages",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.PageInfo"}}}
                }
            }
        },
        "/pages/{id}": {
            "get": {
                "description": "Render every panel of a page under the selected filters. Missing selectors take their first option.",
                "produces": ["application/json"],
                "tags": ["pages"],
                "summary": "Render page",
                "parameters": [
                    {"type": "string", "description": "Page ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Year selector", "name": "year", "in": "query"},
                    {"type": "string", "description": "Quarter selector", "name": "quarter", "in": "query"},
                    {"type": "string", "description": "City selector", "name": "city", "in": "query"},
                    {"type": "string", "description": "Month selector", "name": "month", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Invalid selection", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Page not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "503": {"description": "Data source unavailable", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/pages/{id}/filters": {
            "get": {
                "description": "Enumerate the available selector values of a page",
                "produces": ["application/json"],
                "tags": ["pages"],
                "summary": "Page filters",
                "parameters": [
                    {"type": "string", "description": "Page ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}},
                    "404": {"description": "Page not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "503": {"description": "Data source unavailable", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/datasets": {
            "get": {
                "description": "List every table with its columns",
                "produces": ["application/json"],
                "tags": ["datasets"],
                "summary": "List datasets",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.DatasetInfo"}}}
                }
            }
        },
        "/datasets/{table}/distinct": {
            "get": {
                "description": "Distinct non-null values of a column, ascending",
                "produces": ["application/json"],
                "tags": ["datasets"],
                "summary": "Distinct values",
                "parameters": [
                    {"type": "string", "description": "Table name", "name": "table", "in": "path", "required": true},
                    {"type": "string", "description": "Column name", "name": "column", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {}}},
                    "400": {"description": "Unknown column", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Unknown table", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "503": {"description": "Data source unavailable", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/datasets/{table}/aggregate": {
            "post": {
                "description": "Filter, group and reduce a table. Results are encoded as json, csv or msgpack.",
                "consumes": ["application/json"],
                "produces": ["application/json", "text/csv", "application/msgpack"],
                "tags": ["datasets"],
                "summary": "Aggregate",
                "parameters": [
                    {"type": "string", "description": "Table name", "name": "table", "in": "path", "required": true},
                    {"type": "string", "description": "json, csv or msgpack", "name": "format", "in": "query"},
                    {"description": "Aggregation", "name": "query", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.AggregateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/present.ExportTable"}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Unknown table", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "503": {"description": "Data source unavailable", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/regions": {
            "get": {
                "description": "The region code to display name table, its version and the unmapped codes seen so far",
                "produces": ["application/json"],
                "tags": ["regions"],
                "summary": "Region names",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.RegionsResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "requestId": {"type": "string"}
            }
        },
        "handler.SelectorInfo": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "label": {"type": "string"},
                "table": {"type": "string"},
                "column": {"type": "string"}
            }
        },
        "handler.PageInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "selectors": {"type": "array", "items": {"$ref": "#/definitions/handler.SelectorInfo"}},
                "panels": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.ColumnInfo": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "kind": {"type": "string"}
            }
        },
        "handler.DatasetInfo": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "title": {"type": "string"},
                "columns": {"type": "array", "items": {"$ref": "#/definitions/handler.ColumnInfo"}}
            }
        },
        "handler.RankRequest": {
            "type": "object",
            "properties": {
                "by": {"type": "string"},
                "n": {"type": "integer"},
                "direction": {"type": "string"}
            }
        },
        "model.Condition": {
            "type": "object",
            "properties": {
                "column": {"type": "string"},
                "value": {}
            }
        },
        "model.Measure": {
            "type": "object",
            "properties": {
                "column": {"type": "string"},
                "reduction": {"type": "string", "enum": ["sum", "count", "avg", "min", "max"]},
                "as": {"type": "string"}
            }
        },
        "handler.AggregateRequest": {
            "type": "object",
            "properties": {
                "filters": {"type": "array", "items": {"$ref": "#/definitions/model.Condition"}},
                "groupBy": {"type": "array", "items": {"type": "string"}},
                "measures": {"type": "array", "items": {"$ref": "#/definitions/model.Measure"}},
                "keys": {"type": "array", "items": {"type": "array", "items": {}}},
                "rank": {"$ref": "#/definitions/handler.RankRequest"}
            }
        },
        "region.Entry": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "handler.RegionsResponse": {
            "type": "object",
            "properties": {
                "version": {"type": "string"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/region.Entry"}},
                "unmapped": {"type": "array", "items": {"type": "string"}}
            }
        },
        "present.ExportTable": {
            "type": "object",
            "properties": {
                "table": {"type": "string"},
                "columns": {"type": "array", "items": {"type": "string"}},
                "rows": {"type": "array", "items": {"type": "array", "items": {}}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Pulse Dashboard API",
	Description:      "Aggregates PhonePe Pulse and weather datasets into dashboard pages.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
