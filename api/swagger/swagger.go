package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {"title": "Scholarship Approval API", "description": "Hierarchical approval of scholar registrations, work plans and monthly reports", "version": "1.0.0"},
    "basePath": "/",
    "schemes": ["http"],
    "securityDefinitions": {"BearerAuth": {"type": "apiKey", "in": "header", "name": "Authorization"}},
    "tags": [
        {"name": "Auth", "description": "Sessions and tokens"},
        {"name": "Calendar", "description": "Per partner state approval calendar"},
        {"name": "Monthly Reports", "description": "Monthly report approval chain"},
        {"name": "Registrations", "description": "Scholar registration approval chain"},
        {"name": "Work Plans", "description": "Work plan approval chain and schedules"},
        {"name": "Notifications", "description": "User inbox"},
        {"name": "Probes", "description": "Health, readiness and metrics"}
    ],
    "paths": {
        "/api/v1/auth/login": {
            "post": {"tags": ["Auth"], "summary": "Login", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/auth/logout": {
            "post": {"tags": ["Auth"], "summary": "Logout", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}], "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/auth/me": {
            "get": {"tags": ["Auth"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/auth/refresh": {
            "post": {"tags": ["Auth"], "summary": "Refresh access token", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/calendar-config": {
            "get": {"tags": ["Calendar"], "summary": "Calendar configuration of the caller's partner state", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Calendar"], "summary": "Create calendar configuration", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CalendarConfigRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Calendar"], "summary": "Update calendar configuration", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CalendarConfigRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/calendar-config/deadline": {
            "get": {"tags": ["Calendar"], "summary": "Submission deadline and analysis window", "parameters": [{"name": "date", "in": "query", "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/monthly-reports": {
            "get": {"tags": ["Monthly Reports"], "summary": "List monthly reports visible to the caller", "parameters": [{"name": "status", "in": "query", "type": "string"}, {"name": "month", "in": "query", "type": "integer"}, {"name": "year", "in": "query", "type": "integer"}, {"name": "search", "in": "query", "type": "string"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "page_size", "in": "query", "type": "integer"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Monthly Reports"], "summary": "Create monthly report", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MonthlyReportRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/monthly-reports/export": {
            "get": {"tags": ["Monthly Reports"], "summary": "Export monthly reports", "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "parameters": [{"name": "format", "in": "query", "type": "string"}, {"name": "status", "in": "query", "type": "string"}, {"name": "month", "in": "query", "type": "integer"}, {"name": "year", "in": "query", "type": "integer"}, {"name": "search", "in": "query", "type": "string"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "page_size", "in": "query", "type": "integer"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/monthly-reports/scholar/{scholarId}": {
            "get": {"tags": ["Monthly Reports"], "summary": "List reports of a scholar", "parameters": [{"name": "scholarId", "in": "path", "required": true, "type": "string"}, {"name": "status", "in": "query", "type": "string"}, {"name": "month", "in": "query", "type": "integer"}, {"name": "year", "in": "query", "type": "integer"}, {"name": "search", "in": "query", "type": "string"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "page_size", "in": "query", "type": "integer"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/monthly-reports/{id}": {
            "get": {"tags": ["Monthly Reports"], "summary": "Get monthly report", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Monthly Reports"], "summary": "Delete a draft monthly report", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/monthly-reports/{id}/approve": {
            "patch": {"tags": ["Monthly Reports"], "summary": "Approve at the current level", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/DecisionRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/monthly-reports/{id}/begin-validation": {
            "patch": {"tags": ["Monthly Reports"], "summary": "Begin validation at the current level", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/monthly-reports/{id}/document": {
            "post": {"tags": ["Monthly Reports"], "summary": "Attach action document", "consumes": ["multipart/form-data"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "document", "in": "formData", "required": true, "type": "file"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/monthly-reports/{id}/reject": {
            "patch": {"tags": ["Monthly Reports"], "summary": "Reject with justification", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/monthly-reports/{id}/resubmit": {
            "patch": {"tags": ["Monthly Reports"], "summary": "Resubmit a rejected report", "consumes": ["application/json", "multipart/form-data"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResubmitRequest"}}, {"name": "document", "in": "formData", "type": "file"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/monthly-reports/{id}/submit": {
            "patch": {"tags": ["Monthly Reports"], "summary": "Submit for validation", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/notifications": {
            "get": {"tags": ["Notifications"], "summary": "Inbox of the caller", "parameters": [{"name": "unread", "in": "query", "type": "boolean"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "page_size", "in": "query", "type": "integer"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/notifications/{id}/read": {
            "patch": {"tags": ["Notifications"], "summary": "Mark notification as read", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/registrations": {
            "get": {"tags": ["Registrations"], "summary": "List registrations", "parameters": [{"name": "status", "in": "query", "type": "string"}, {"name": "month", "in": "query", "type": "integer"}, {"name": "year", "in": "query", "type": "integer"}, {"name": "search", "in": "query", "type": "string"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "page_size", "in": "query", "type": "integer"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Registrations"], "summary": "Create registration", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegistrationRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/registrations/{id}": {
            "get": {"tags": ["Registrations"], "summary": "Get registration", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/registrations/{id}/approve": {
            "patch": {"tags": ["Registrations"], "summary": "Approve at the current level", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/ApproveRegistrationRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/registrations/{id}/begin-validation": {
            "patch": {"tags": ["Registrations"], "summary": "Begin validation at the current level", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/registrations/{id}/reject": {
            "patch": {"tags": ["Registrations"], "summary": "Reject with justification", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/registrations/{id}/resubmit": {
            "patch": {"tags": ["Registrations"], "summary": "Resubmit a rejected registration", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegistrationRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/registrations/{id}/submit": {
            "patch": {"tags": ["Registrations"], "summary": "Submit for validation", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/work-plans": {
            "get": {"tags": ["Work Plans"], "summary": "List work plans", "parameters": [{"name": "status", "in": "query", "type": "string"}, {"name": "month", "in": "query", "type": "integer"}, {"name": "year", "in": "query", "type": "integer"}, {"name": "search", "in": "query", "type": "string"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "page_size", "in": "query", "type": "integer"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Work Plans"], "summary": "Create work plan", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WorkPlanRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/work-plans/due-schedules": {
            "get": {"tags": ["Work Plans"], "summary": "Approved schedule items due in a month", "parameters": [{"name": "month", "in": "query", "type": "integer"}, {"name": "year", "in": "query", "type": "integer"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/work-plans/{id}": {
            "get": {"tags": ["Work Plans"], "summary": "Get work plan", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/work-plans/{id}/approve": {
            "patch": {"tags": ["Work Plans"], "summary": "Approve at the current level", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/DecisionRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/work-plans/{id}/begin-validation": {
            "patch": {"tags": ["Work Plans"], "summary": "Begin validation at the current level", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/work-plans/{id}/inactivate": {
            "patch": {"tags": ["Work Plans"], "summary": "Inactivate an approved work plan", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/work-plans/{id}/reject": {
            "patch": {"tags": ["Work Plans"], "summary": "Reject with justification", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/work-plans/{id}/resubmit": {
            "patch": {"tags": ["Work Plans"], "summary": "Resubmit a rejected work plan", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WorkPlanRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/work-plans/{id}/schedules": {
            "post": {"tags": ["Work Plans"], "summary": "Add schedule item", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleItemRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/work-plans/{id}/schedules/{scheduleId}": {
            "put": {"tags": ["Work Plans"], "summary": "Update schedule item", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "scheduleId", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleItemRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Work Plans"], "summary": "Delete schedule item", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "scheduleId", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/work-plans/{id}/submit": {
            "patch": {"tags": ["Work Plans"], "summary": "Submit for validation", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/health": {
            "get": {"tags": ["Probes"], "summary": "Health check", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/metrics": {
            "get": {"tags": ["Probes"], "summary": "Prometheus metrics", "produces": ["text/plain"], "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {"tags": ["Probes"], "summary": "Readiness check", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        }
    },
    "definitions": {
        "LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "RefreshTokenRequest": {"type": "object", "required": ["refresh_token"], "properties": {"refresh_token": {"type": "string"}}},
        "CalendarConfigRequest": {"type": "object", "required": ["submission_day_limit"], "properties": {"submission_day_limit": {"type": "integer"}, "analysis_window_days": {"type": "integer"}, "notification_lead_days": {"type": "integer"}}},
        "DecisionRequest": {"type": "object", "properties": {"justification": {"type": "string"}}},
        "ReportActionInput": {"type": "object", "required": ["schedule_id", "detailing", "status"], "properties": {"schedule_id": {"type": "string"}, "detailing": {"type": "string"}, "detailing_result": {"type": "string"}, "training_date": {"type": "string", "format": "date-time"}, "workload_in_minutes": {"type": "integer"}, "expected_graduates": {"type": "integer"}, "attending_graduates": {"type": "integer"}, "training_modality": {"type": "string", "enum": ["IN_PERSON", "REMOTE", "HYBRID"]}, "status": {"type": "string", "enum": ["IN_PROGRESS", "COMPLETED", "NOT_EXECUTED"]}}},
        "MonthlyReportRequest": {"type": "object", "required": ["month", "year"], "properties": {"month": {"type": "integer"}, "year": {"type": "integer"}, "actions": {"type": "array", "items": {"$ref": "#/definitions/ReportActionInput"}}}},
        "ResubmitRequest": {"type": "object", "properties": {"actions": {"type": "array", "items": {"$ref": "#/definitions/ReportActionInput"}}}},
        "RegistrationRequest": {"type": "object", "required": ["axle"], "properties": {"axle": {"type": "string"}, "city": {"type": "string"}, "address": {"type": "string"}, "bank": {"type": "string"}, "agency": {"type": "string"}, "account_type": {"type": "string", "enum": ["CHECKING", "SAVINGS"]}, "account_number": {"type": "string"}, "training_area": {"type": "string"}, "highest_degree": {"type": "string"}, "is_former": {"type": "boolean"}}},
        "ApproveRegistrationRequest": {"type": "object", "properties": {"access_profile_id": {"type": "string"}}},
        "WorkPlanRequest": {"type": "object", "required": ["justification", "general_objectives", "specific_objectives"], "properties": {"justification": {"type": "string"}, "general_objectives": {"type": "string"}, "specific_objectives": {"type": "string"}}},
        "ScheduleItemRequest": {"type": "object", "required": ["month", "year", "action"], "properties": {"month": {"type": "integer"}, "year": {"type": "integer"}, "action": {"type": "string"}, "is_former": {"type": "boolean"}}},
        "Pagination": {"type": "object", "properties": {"page": {"type": "integer"}, "page_size": {"type": "integer"}, "total_count": {"type": "integer"}}},
        "APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}}},
        "ResponseEnvelope": {"type": "object", "properties": {"data": {"type": "object"}, "error": {"$ref": "#/definitions/APIError"}, "pagination": {"$ref": "#/definitions/Pagination"}, "meta": {"type": "object"}}}
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
