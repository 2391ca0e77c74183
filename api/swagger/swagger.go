package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Case Management API",
        "description": "Compliance case-management REST backend",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Cases", "description": "Compliance/dispute case management"}
    ],
    "paths": {
        "/cases": {
            "get": {
                "tags": ["Cases"],
                "summary": "List cases, optionally filtered",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "owner", "in": "query", "type": "string"},
                    {"name": "bank", "in": "query", "type": "string"},
                    {"name": "dateFrom", "in": "query", "type": "string"},
                    {"name": "dateTo", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Case"}}}
                }
            },
            "post": {
                "tags": ["Cases"],
                "summary": "Create case",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCaseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Case"}},
                    "400": {"description": "Duplicate case id or invalid payload", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/cases/searches": {
            "post": {
                "tags": ["Cases"],
                "summary": "Search cases by criteria list",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SearchCasesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Case"}}}
                }
            }
        },
        "/cases/export": {
            "get": {
                "tags": ["Cases"],
                "summary": "Export the case roster as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File attachment"}
                }
            }
        },
        "/cases/upload-alert": {
            "post": {
                "tags": ["Cases"],
                "summary": "Bulk-create cases from an uploaded alert file",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AlertUploadResponse"}},
                    "400": {"description": "Invalid file type or empty file", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/cases/{caseId}": {
            "get": {
                "tags": ["Cases"],
                "summary": "Get case",
                "parameters": [
                    {"name": "caseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Case"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            },
            "put": {
                "tags": ["Cases"],
                "summary": "Partially update case",
                "parameters": [
                    {"name": "caseId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CaseUpdate"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Case"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/cases/{caseId}/email": {
            "post": {
                "tags": ["Cases"],
                "summary": "Simulate bank e-mail notification",
                "parameters": [
                    {"name": "caseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EmailResponse"}}
                }
            }
        },
        "/cases/{caseId}/upload": {
            "post": {
                "tags": ["Cases"],
                "summary": "Upload evidence file",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "caseId", "in": "path", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UploadEvidenceResponse"}},
                    "400": {"description": "Empty file", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        }
    },
    "definitions": {
        "Case": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "caseId": {"type": "string"},
                "type": {"type": "string"},
                "status": {"type": "string", "enum": ["NEW", "OPEN", "PENDING", "ASSESSMENT", "HOLD", "CLOSED"]},
                "createdDate": {"type": "string"},
                "lastUpdatedDate": {"type": "string"},
                "owner": {"type": "string"},
                "description": {"type": "string"},
                "attachments": {"type": "array", "items": {"type": "string"}},
                "bank": {"type": "string"},
                "fineAmount": {"type": "string"},
                "notes": {"type": "string"},
                "complainantType": {"type": "string"},
                "complainantCompany": {"type": "string"},
                "complainantIca": {"type": "string"},
                "complainantCountry": {"type": "string"},
                "complainantRegion": {"type": "string"},
                "acquirerPrimaryIca": {"type": "string"},
                "acquirerCountry": {"type": "string"},
                "acquirerRegion": {"type": "string"},
                "subProgram": {"type": "string"},
                "overallCaseLead": {"type": "string"}
            }
        },
        "CreateCaseRequest": {
            "type": "object",
            "properties": {
                "caseId": {"type": "string"},
                "type": {"type": "string"},
                "status": {"type": "string"},
                "owner": {"type": "string"},
                "bank": {"type": "string"},
                "description": {"type": "string"},
                "attachments": {"type": "array", "items": {"type": "string"}},
                "fineAmount": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["caseId", "type", "status", "owner", "bank"]
        },
        "CaseUpdate": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "status": {"type": "string"},
                "owner": {"type": "string"},
                "bank": {"type": "string"},
                "description": {"type": "string"},
                "fineAmount": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "SearchCriterion": {
            "type": "object",
            "properties": {
                "field": {"type": "string", "enum": ["CASEID", "CASESTATUS", "ASSIGNTONAME", "COMPLAINANTCOMPANYNAME"]},
                "operator": {"type": "string", "enum": ["CONTAINS", "EQUAL_TO", "NOT_CONTAINS"]},
                "value": {"type": "string"}
            }
        },
        "SearchCasesRequest": {
            "type": "object",
            "properties": {
                "pageLength": {"type": "integer"},
                "pageOffset": {"type": "integer"},
                "sortField": {"type": "string"},
                "exportFlag": {"type": "boolean"},
                "caseType": {"type": "string"},
                "criteria": {"type": "array", "items": {"$ref": "#/definitions/SearchCriterion"}}
            }
        },
        "EmailResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "UploadEvidenceResponse": {
            "type": "object",
            "properties": {
                "filename": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "AlertUploadResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "casesCreated": {"type": "integer"},
                "cases": {"type": "array", "items": {"$ref": "#/definitions/Case"}},
                "filename": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
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
