package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Horario API",
        "description": "Academic scheduling and registration backend",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Token issuing and refresh"},
        {"name": "Users", "description": "Account administration"},
        {"name": "Programs", "description": "Academic programs"},
        {"name": "Courses", "description": "Course catalog and search"},
        {"name": "Rooms", "description": "Classroom inventory"},
        {"name": "Schedules", "description": "Weekly time slots"},
        {"name": "Enrollments", "description": "Course registration"},
        {"name": "Notifications", "description": "Notifications and receipts"},
        {"name": "Preferences", "description": "Per-user display settings"},
        {"name": "StudentSchedule", "description": "Student weekly view and export"}
    ],
    "paths": {
        "/": {
            "get": {
                "summary": "Resource index",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/token": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by email and password",
                "responses": {
                    "200": {"description": "Tokens issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/token/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Rotate a refresh token",
                "responses": {
                    "200": {"description": "Tokens refreshed"},
                    "401": {"description": "Invalid refresh token"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create user",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get user",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Users"],
                "summary": "Update user",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Delete user",
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/programs": {
            "get": {
                "tags": ["Programs"],
                "summary": "List programs",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Programs"],
                "summary": "Create program",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/courses/search": {
            "get": {
                "tags": ["Courses"],
                "summary": "Search courses by code or name",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/rooms": {
            "get": {
                "tags": ["Rooms"],
                "summary": "List rooms",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Rooms"],
                "summary": "Create room",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List schedules",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Create schedule",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Rule violation"}
                }
            }
        },
        "/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List enrollments",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll in a course",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Cap or duplicate violation"}
                }
            }
        },
        "/notifications/bulk-send": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Fan a notification out to enrolled students",
                "responses": {
                    "201": {"description": "Dispatched"},
                    "403": {"description": "Manager only"}
                }
            }
        },
        "/notifications/receipts": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List the acting user's receipts",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/preferences/dark-theme": {
            "post": {
                "tags": ["Preferences"],
                "summary": "Toggle dark theme",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/student/schedules": {
            "get": {
                "tags": ["StudentSchedule"],
                "summary": "Weekly schedule of the acting student",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/student/schedules/export": {
            "get": {
                "tags": ["StudentSchedule"],
                "summary": "Download schedule as CSV or PDF",
                "responses": {"200": {"description": "Attachment"}}
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
