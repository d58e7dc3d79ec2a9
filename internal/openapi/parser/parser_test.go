package parser

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
)

const userDocument = `{
  "openapi": "3.0.0",
  "info": { "title": "Users", "version": "1.0.0" },
  "paths": {
    "/users": {
      "post": {
        "operationId": "createUser",
        "summary": "Create a user",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["username"],
                "properties": {
                  "username": {
                    "type": "string",
                    "minLength": 3,
                    "maxLength": 24,
                    "pattern": "^[a-z0-9_]+$"
                  },
                  "password": {"type": "string", "format": "password"},
                  "profile": {
                    "type": "object",
                    "properties": {
                      "displayName": {"type": "string", "default": "Anonymous"}
                    }
                  }
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "ok"}
        }
      }
    }
  }
}`

func mustOperations(t *testing.T, document string, opts ...pkgopenapi.ParserOption) map[string]pkgopenapi.Operation {
	t.Helper()

	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile("inline.json"), []byte(document))
	if err != nil {
		t.Fatalf("construct document: %v", err)
	}
	parser := New(pkgopenapi.NewParserOptions(opts...))
	operations, err := parser.Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("parse operations: %v", err)
	}
	return operations
}

func TestOperationsExtractsRequestSchema(t *testing.T) {
	t.Parallel()

	operations := mustOperations(t, userDocument)

	op, ok := operations["createUser"]
	if !ok {
		t.Fatalf("operation createUser not found, got %v", operations)
	}
	if op.Method != "POST" || op.Path != "/users" {
		t.Fatalf("operation routing = %s %s, want POST /users", op.Method, op.Path)
	}
	if op.Summary != "Create a user" {
		t.Fatalf("summary = %q", op.Summary)
	}

	req := op.Request
	if req.Type != "object" {
		t.Fatalf("request type = %q, want object", req.Type)
	}
	if len(req.Required) != 1 || req.Required[0] != "username" {
		t.Fatalf("required = %v, want [username]", req.Required)
	}

	username, ok := req.Properties["username"]
	if !ok {
		t.Fatalf("expected username property")
	}
	if username.MinLength == nil || *username.MinLength != 3 {
		t.Fatalf("username minLength = %v, want 3", username.MinLength)
	}
	if username.MaxLength == nil || *username.MaxLength != 24 {
		t.Fatalf("username maxLength = %v, want 24", username.MaxLength)
	}
	if username.Pattern != "^[a-z0-9_]+$" {
		t.Fatalf("username pattern = %q", username.Pattern)
	}

	if password := req.Properties["password"]; password.Format != "password" {
		t.Fatalf("password format = %q, want password", password.Format)
	}

	profile, ok := req.Properties["profile"]
	if !ok {
		t.Fatalf("expected profile property")
	}
	display, ok := profile.Properties["displayName"]
	if !ok {
		t.Fatalf("expected profile.displayName property")
	}
	if display.Default != "Anonymous" {
		t.Fatalf("displayName default = %v, want Anonymous", display.Default)
	}
}

func TestOperationsFallbackID(t *testing.T) {
	t.Parallel()

	const document = `{
  "openapi": "3.0.0",
  "info": { "title": "Anon", "version": "1.0.0" },
  "paths": {
    "/things": {
      "put": {
        "responses": {
          "200": {"description": "ok"}
        }
      }
    }
  }
}`

	operations := mustOperations(t, document)
	if _, ok := operations["put:/things"]; !ok {
		t.Fatalf("expected fallback id put:/things, got %v", operations)
	}
}

func TestOperationsMergesAllOfBranches(t *testing.T) {
	t.Parallel()

	const document = `{
  "openapi": "3.0.0",
  "info": { "title": "AllOf", "version": "1.0.0" },
  "paths": {
    "/users": {
      "post": {
        "operationId": "createUser",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "allOf": [
                  {"$ref": "#/components/schemas/BaseUser"},
                  {
                    "type": "object",
                    "required": ["email"],
                    "properties": {
                      "email": {"type": "string", "format": "email"}
                    }
                  }
                ]
              }
            }
          }
        },
        "responses": {
          "200": {"description": "ok"}
        }
      }
    }
  },
  "components": {
    "schemas": {
      "BaseUser": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string"},
          "age": {"type": "integer"}
        }
      }
    }
  }
}`

	operations := mustOperations(t, document)
	req := operations["createUser"].Request

	if req.Type != "object" {
		t.Fatalf("request type = %q, want object", req.Type)
	}
	if len(req.Properties) != 3 {
		t.Fatalf("properties length = %d, want 3", len(req.Properties))
	}
	if _, ok := req.Properties["name"]; !ok {
		t.Fatalf("expected name property from allOf ref")
	}
	if email, ok := req.Properties["email"]; !ok || email.Format != "email" {
		t.Fatalf("expected email property with format email, got %+v", email)
	}

	required := make(map[string]struct{}, len(req.Required))
	for _, name := range req.Required {
		required[name] = struct{}{}
	}
	if _, ok := required["name"]; !ok {
		t.Fatalf("required set missing name: %v", req.Required)
	}
	if _, ok := required["email"]; !ok {
		t.Fatalf("required set missing email: %v", req.Required)
	}
}

func TestConvertSchemaHandlesRecursiveReferences(t *testing.T) {
	const document = `{
  "openapi": "3.0.0",
  "info": { "title": "Cycle", "version": "1.0.0" },
  "paths": {},
  "components": {
    "schemas": {
      "Publisher": {
        "type": "object",
        "properties": {
          "headquarters": { "$ref": "#/components/schemas/Headquarters" }
        }
      },
      "Headquarters": {
        "type": "object",
        "properties": {
          "publisher": { "$ref": "#/components/schemas/Publisher" }
        }
      }
    }
  }
}`

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData([]byte(document))
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}

	publisher := doc.Components.Schemas["Publisher"]
	if publisher == nil {
		t.Fatalf("schema Publisher not found")
	}

	converted := convertSchema(publisher, nil)
	headquarters, ok := converted.Properties["headquarters"]
	if !ok {
		t.Fatalf("expected headquarters property on Publisher schema")
	}
	if len(headquarters.Properties) == 0 {
		t.Fatalf("expected headquarters to resolve one level of properties")
	}
	back, ok := headquarters.Properties["publisher"]
	if !ok {
		t.Fatalf("expected publisher property inside headquarters")
	}
	if back.Ref == "" {
		t.Fatalf("expected cycle to collapse into a bare reference")
	}
	if len(back.Properties) != 0 {
		t.Fatalf("expected cycle to stop recursing, got %+v", back.Properties)
	}
}

func TestOperationsRejectsEmptyDocument(t *testing.T) {
	t.Parallel()

	parser := New(pkgopenapi.NewParserOptions())
	if _, err := parser.Operations(context.Background(), pkgopenapi.Document{}); err == nil {
		t.Fatal("expected error for empty document")
	}
}

func TestOperationsRejectsDocumentWithoutPaths(t *testing.T) {
	t.Parallel()

	const document = `{"openapi":"3.0.0","info":{"title":"Empty","version":"1.0.0"},"paths":{}}`
	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile("inline.json"), []byte(document))
	if err != nil {
		t.Fatalf("construct document: %v", err)
	}
	parser := New(pkgopenapi.NewParserOptions())
	if _, err := parser.Operations(context.Background(), doc); err == nil {
		t.Fatal("expected error for document without paths")
	}
}
