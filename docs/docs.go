// Package docs holds the OpenAPI description served at /swagger/*.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/api/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "User registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Update current user",
                "parameters": [
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/stores": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stores"],
                "summary": "List stores",
                "parameters": [
                    {"type": "string", "description": "Name contains", "name": "name", "in": "query"},
                    {"type": "string", "description": "Address contains", "name": "address", "in": "query"},
                    {"enum": ["name", "email", "address", "created_at"], "type": "string", "description": "Sort field", "name": "sort_by", "in": "query"},
                    {"enum": ["asc", "desc"], "type": "string", "description": "Sort order", "name": "sort_order", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.storeResponse"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["stores"],
                "summary": "Create a store",
                "parameters": [
                    {"description": "Store details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createStoreRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.createStoreResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/stores/mine": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["stores"],
                "summary": "Stores owned by the caller",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.storeResponse"}}}
                }
            }
        },
        "/api/stores/{id}/ratings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["stores"],
                "summary": "Ratings of an owned store",
                "parameters": [
                    {"type": "string", "description": "Store ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.storeRatingsResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/ratings": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ratings"],
                "summary": "Submit or update a rating",
                "parameters": [
                    {"description": "Store and score (1-5)", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.submitRatingRequest"}}
                ],
                "responses": {
                    "200": {"description": "rating updated", "schema": {"$ref": "#/definitions/handler.submitRatingResponse"}},
                    "201": {"description": "rating created", "schema": {"$ref": "#/definitions/handler.submitRatingResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/ratings/{storeId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ratings"],
                "summary": "The caller's rating of a store",
                "parameters": [
                    {"type": "string", "description": "Store ID", "name": "storeId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.myRatingResponse"}}
                }
            }
        },
        "/api/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "parameters": [
                    {"type": "string", "description": "Name contains", "name": "name", "in": "query"},
                    {"type": "string", "description": "Email contains", "name": "email", "in": "query"},
                    {"type": "string", "description": "Address contains", "name": "address", "in": "query"},
                    {"enum": ["SYSTEM_ADMIN", "STORE_OWNER", "NORMAL_USER"], "type": "string", "description": "Exact role", "name": "role", "in": "query"},
                    {"enum": ["name", "email", "address", "role", "created_at"], "type": "string", "description": "Sort field", "name": "sort_by", "in": "query"},
                    {"enum": ["asc", "desc"], "type": "string", "description": "Sort order", "name": "sort_order", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.userSummaryResponse"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create a user with any role",
                "parameters": [
                    {"description": "Account details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/users/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update a user",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Admin dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.DashboardSummary"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "field": {"type": "string"}}
        },
        "handler.messageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["address", "email", "name", "password"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "address": {"type": "string"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.updateProfileRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "address": {"type": "string"},
                "current_password": {"type": "string"},
                "new_password": {"type": "string"}
            }
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "role": {"type": "string", "enum": ["SYSTEM_ADMIN", "STORE_OWNER", "NORMAL_USER"]},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handler.userSummaryResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "role": {"type": "string", "enum": ["SYSTEM_ADMIN", "STORE_OWNER", "NORMAL_USER"]},
                "average_rating": {"type": "number"},
                "total_ratings": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "user": {"$ref": "#/definitions/handler.userResponse"}
            }
        },
        "handler.createUserRequest": {
            "type": "object",
            "required": ["address", "email", "name", "password", "role"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "address": {"type": "string"},
                "role": {"type": "string", "enum": ["SYSTEM_ADMIN", "STORE_OWNER", "NORMAL_USER"]}
            }
        },
        "handler.updateUserRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "role": {"type": "string", "enum": ["SYSTEM_ADMIN", "STORE_OWNER", "NORMAL_USER"]}
            }
        },
        "handler.createStoreRequest": {
            "type": "object",
            "required": ["address", "email", "name", "owner_id"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "owner_id": {"type": "string"}
            }
        },
        "handler.storeResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "owner_id": {"type": "string"},
                "owner_name": {"type": "string"},
                "owner_email": {"type": "string"},
                "average_rating": {"type": "number"},
                "total_ratings": {"type": "integer"},
                "my_rating": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "handler.createStoreResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "store": {"$ref": "#/definitions/handler.storeResponse"}
            }
        },
        "handler.raterResponse": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "address": {"type": "string"}}
        },
        "handler.storeRatingResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "rating": {"type": "integer"},
                "user": {"$ref": "#/definitions/handler.raterResponse"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handler.storeRatingsResponse": {
            "type": "object",
            "properties": {
                "store": {"$ref": "#/definitions/handler.storeResponse"},
                "average_rating": {"type": "number"},
                "total_ratings": {"type": "integer"},
                "ratings": {"type": "array", "items": {"$ref": "#/definitions/handler.storeRatingResponse"}}
            }
        },
        "handler.submitRatingRequest": {
            "type": "object",
            "required": ["store_id"],
            "properties": {"store_id": {"type": "string"}, "rating": {"type": "integer", "minimum": 1, "maximum": 5}}
        },
        "handler.ratingResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "store_id": {"type": "string"},
                "rating": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handler.submitRatingResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "rating": {"$ref": "#/definitions/handler.ratingResponse"}
            }
        },
        "handler.myRatingResponse": {
            "type": "object",
            "properties": {"rating": {"$ref": "#/definitions/handler.ratingResponse"}}
        },
        "ports.DashboardSummary": {
            "type": "object",
            "properties": {
                "stats": {
                    "type": "object",
                    "properties": {
                        "total_users": {"type": "integer"},
                        "total_stores": {"type": "integer"},
                        "total_ratings": {"type": "integer"}
                    }
                },
                "recent_users": {"type": "array", "items": {"type": "object"}},
                "recent_stores": {"type": "array", "items": {"type": "object"}},
                "recent_ratings": {"type": "array", "items": {"type": "object"}},
                "top_rated_stores": {"type": "array", "items": {"type": "object"}},
                "generated_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
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
	Title:            "Store Rating API",
	Description:      "Accounts, store listings and 1-5 star ratings with role-based access.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
