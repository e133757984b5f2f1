package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Workforce Scheduling API",
        "description": "Shift scheduling, auto-assignment and attendance tracking",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedules", "description": "Schedule and shift management"},
        {"name": "Reports", "description": "Schedule reports and exports"},
        {"name": "Staff", "description": "Roster views and attendance"},
        {"name": "Auth", "description": "Authentication"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/createSchedule": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Create schedule",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Schedule"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/APIError"}},
                    "403": {"description": "Not an admin", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/addShift": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Add a shift to a schedule",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddShiftRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Shift"}},
                    "404": {"description": "Schedule or staff not found", "schema": {"$ref": "#/definitions/APIError"}},
                    "409": {"description": "Overlapping shift assignment", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/autoPopulateSchedule": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Auto-assign staff to open shifts",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AutoPopulateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AutoPopulateResponse"}},
                    "400": {"description": "Unknown strategy", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/scheduleReport": {
            "get": {
                "tags": ["Reports"],
                "summary": "Snapshot report for a schedule",
                "parameters": [
                    {"name": "admin_id", "in": "query", "required": true, "type": "integer"},
                    {"name": "schedule_id", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ScheduleReport"}},
                    "404": {"description": "Schedule not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/scheduleReport/export": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a CSV or PDF export of a schedule report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ExportReportResponse"}}
                }
            }
        },
        "/exports/download": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download an exported report via signed URL",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "401": {"description": "Invalid or expired link", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/allshifts": {
            "get": {
                "tags": ["Staff"],
                "summary": "Combined roster of every shift",
                "parameters": [
                    {"name": "staff_id", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/ShiftView"}}}
                }
            }
        },
        "/staffshift": {
            "get": {
                "tags": ["Staff"],
                "summary": "A single shift belonging to the acting staff member",
                "parameters": [
                    {"name": "staff_id", "in": "query", "required": true, "type": "integer"},
                    {"name": "shift_id", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ShiftView"}},
                    "404": {"description": "No such shift for this staff member", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/staff/clockIn": {
            "post": {
                "tags": ["Staff"],
                "summary": "Clock in to an assigned shift",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClockRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Shift"}},
                    "409": {"description": "Shift is not awaiting clock-in", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/staff/clockOut": {
            "post": {
                "tags": ["Staff"],
                "summary": "Clock out of an in-progress shift",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClockRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Shift"}},
                    "409": {"description": "Shift is not in progress", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and receive an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        }
    },
    "definitions": {
        "Schedule": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "created_by": {"type": "integer"},
                "user_id": {"type": "integer"},
                "strategy_used": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "Shift": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "schedule_id": {"type": "integer"},
                "staff_id": {"type": "integer"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "type": {"type": "string", "enum": ["day", "night"]},
                "status": {"type": "string", "enum": ["SCHEDULED", "IN_PROGRESS", "COMPLETED", "NO_SHOW"]},
                "clock_in": {"type": "string"},
                "clock_out": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "ShiftView": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "schedule_id": {"type": "integer"},
                "staff_id": {"type": "integer"},
                "staff_name": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "type": {"type": "string"},
                "status": {"type": "string"},
                "clock_in": {"type": "string"},
                "clock_out": {"type": "string"},
                "is_completed": {"type": "boolean"},
                "is_late": {"type": "boolean"}
            }
        },
        "ScheduleReport": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "created_by": {"type": "integer"},
                "created_at": {"type": "string"},
                "strategy_used": {"type": "string"},
                "shift_count": {"type": "integer"},
                "shifts": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ShiftView"}
                }
            }
        },
        "CreateScheduleRequest": {
            "type": "object",
            "properties": {
                "admin_id": {"type": "integer"},
                "name": {"type": "string"},
                "user_id": {"type": "integer"}
            },
            "required": ["admin_id", "name"]
        },
        "AddShiftRequest": {
            "type": "object",
            "properties": {
                "admin_id": {"type": "integer"},
                "staff_id": {"type": "integer"},
                "schedule_id": {"type": "integer"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "shift_type": {"type": "string", "enum": ["day", "night"]}
            },
            "required": ["admin_id", "schedule_id", "start_time", "end_time"]
        },
        "AutoPopulateRequest": {
            "type": "object",
            "properties": {
                "admin_id": {"type": "integer"},
                "schedule_id": {"type": "integer"},
                "strategy_name": {"type": "string", "enum": ["round_robin", "fair_distribution", "balance_day_night"]}
            },
            "required": ["admin_id", "schedule_id", "strategy_name"]
        },
        "AutoPopulateResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "strategy_used": {"type": "string"},
                "shifts_assigned": {"type": "integer"},
                "shifts_skipped": {"type": "integer"}
            }
        },
        "ClockRequest": {
            "type": "object",
            "properties": {
                "staff_id": {"type": "integer"},
                "shift_id": {"type": "integer"}
            },
            "required": ["staff_id", "shift_id"]
        },
        "ExportReportRequest": {
            "type": "object",
            "properties": {
                "admin_id": {"type": "integer"},
                "schedule_id": {"type": "integer"},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["admin_id", "schedule_id", "format"]
        },
        "ExportReportResponse": {
            "type": "object",
            "properties": {
                "job_id": {"type": "string"},
                "file": {"type": "string"},
                "download_url": {"type": "string"},
                "expires_at": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "user_id": {"type": "integer"},
                "role": {"type": "string"},
                "issued_at": {"type": "string"}
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
