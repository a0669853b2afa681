package users

import "github.com/MavuriAlekhya2005/docverify/pkg/openapi"

type spec struct {
	Register *openapi.Operation
	Login    *openapi.Operation
	Refresh  *openapi.Operation
	Me       *openapi.Operation
	List     *openapi.Operation
}

var Spec = spec{
	Register: &openapi.Operation{
		Summary:     "Register account",
		Description: "Register a new account and receive a bearer token",
		RequestBody: openapi.RequestBodyJSON("RegisterCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Account created", "TokenResponse"),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Login: &openapi.Operation{
		Summary:     "Log in",
		Description: "Exchange credentials for a bearer token",
		RequestBody: openapi.RequestBodyJSON("LoginRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Token issued", "TokenResponse"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	Refresh: &openapi.Operation{
		Summary:     "Refresh token",
		Description: "Exchange a valid token for a fresh one, extending the inactivity window",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Token issued", "TokenResponse"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	Me: &openapi.Operation{
		Summary: "Current account",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Account details", "User"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	List: &openapi.Operation{
		Summary:     "List accounts",
		Description: "List accounts with pagination; admin only",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Items per page", false),
			openapi.QueryParam("search", "string", "Search in email and name", false),
			openapi.QueryParam("role", "string", "Filter by role", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Accounts list", "UserPageResult"),
			401: openapi.ResponseRef("Unauthorized"),
			403: openapi.ResponseRef("Forbidden"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"User": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"email":      {Type: "string"},
				"name":       {Type: "string"},
				"role":       {Type: "string", Enum: []string{RoleUser, RoleAdmin}},
				"created_at": {Type: "string", Format: "date-time"},
				"updated_at": {Type: "string", Format: "date-time"},
			},
		},
		"RegisterCommand": {
			Type:     "object",
			Required: []string{"email", "name", "password"},
			Properties: map[string]*openapi.Schema{
				"email":    {Type: "string"},
				"name":     {Type: "string"},
				"password": {Type: "string", Description: "At least 8 characters"},
			},
		},
		"LoginRequest": {
			Type:     "object",
			Required: []string{"email", "password"},
			Properties: map[string]*openapi.Schema{
				"email":    {Type: "string"},
				"password": {Type: "string"},
			},
		},
		"TokenResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"token":      {Type: "string", Description: "Bearer token"},
				"expires_at": {Type: "string", Format: "date-time"},
				"user":       openapi.SchemaRef("User"),
			},
		},
		"UserPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("User")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
