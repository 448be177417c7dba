package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "OpenCampus Timetable API",
        "description": "Constraint-based timetable construction, conflict detection and repair, and disruption analysis",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetable", "description": "Generation, retrieval, proposals, export"},
        {"name": "Conflicts", "description": "Clash detection and best-effort repair"},
        {"name": "Rescheduling", "description": "Read-only disruption analysis"},
        {"name": "Simulation", "description": "What-if impact estimation"},
        {"name": "Faculty", "description": "Faculty roster"},
        {"name": "Courses", "description": "Course catalog"},
        {"name": "Rooms", "description": "Room catalog"},
        {"name": "Sections", "description": "Student sections"},
        {"name": "TimeSlots", "description": "Teaching periods"},
        {"name": "Availability", "description": "Explicit faculty availability flags"}
    ],
    "paths": {
        "/timetable/generate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Generate timetable candidates",
                "description": "Builds the configured number of randomized candidates, scores and ranks them, and stores all of them as numbered proposals, replacing prior proposals.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/GenerateRequest"}}
                ],
                "responses": {
                    "200": {"description": "Ranked proposals with the best candidate", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Catalogs incomplete"}
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List stored assignments",
                "parameters": [
                    {"name": "proposalId", "in": "query", "type": "integer"},
                    {"name": "sectionId", "in": "query", "type": "string"},
                    {"name": "facultyId", "in": "query", "type": "string"},
                    {"name": "roomId", "in": "query", "type": "string"},
                    {"name": "timeslotId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Timetable"],
                "summary": "Delete all stored proposals",
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/timetable/proposals": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List proposal versions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/apply-changes": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Apply manual assignment edits",
                "description": "Commits the edits verbatim without clash re-validation; run conflict detection afterwards.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/AssignmentUpdate"}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/export": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Export the timetable as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "proposalId", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/conflicts": {
            "get": {
                "tags": ["Conflicts"],
                "summary": "List stored conflicts",
                "parameters": [
                    {"name": "proposalId", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/conflicts/detect": {
            "post": {
                "tags": ["Conflicts"],
                "summary": "Detect conflicts",
                "description": "Deletes stored conflicts in scope and reinserts the freshly computed set.",
                "parameters": [
                    {"name": "proposalId", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/conflicts/resolve": {
            "post": {
                "tags": ["Conflicts"],
                "summary": "Resolve conflicts for one proposal",
                "parameters": [
                    {"name": "proposalId", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "Repair log and residual conflicts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rescheduling/faculty-leave/{id}": {
            "get": {
                "tags": ["Rescheduling"],
                "summary": "Substitutes and reschedule options for a faculty member away for a day",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "day", "in": "query", "type": "string", "required": true},
                    {"name": "proposalId", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rescheduling/room-outage/{id}": {
            "get": {
                "tags": ["Rescheduling"],
                "summary": "Alternate rooms and slots for a room out of service",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "day", "in": "query", "type": "string", "required": true},
                    {"name": "proposalId", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rescheduling/holiday": {
            "get": {
                "tags": ["Rescheduling"],
                "summary": "Make-up slots for a cancelled day",
                "parameters": [
                    {"name": "day", "in": "query", "type": "string", "required": true},
                    {"name": "proposalId", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/simulation/faculty-unavailable/{id}": {
            "post": {
                "tags": ["Simulation"],
                "summary": "Estimate impact of a faculty member being away",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "day", "in": "query", "type": "string", "required": true},
                    {"name": "proposalId", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/simulation/room-shortage/{id}": {
            "post": {
                "tags": ["Simulation"],
                "summary": "Estimate impact of a room dropping out",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "day", "in": "query", "type": "string", "required": true},
                    {"name": "proposalId", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/simulation/history": {
            "get": {
                "tags": ["Simulation"],
                "summary": "List past simulation runs",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Simulation"],
                "summary": "Clear simulation history",
                "responses": {
                    "204": {"description": "Cleared"}
                }
            }
        },
        "/simulation/compare": {
            "get": {
                "tags": ["Simulation"],
                "summary": "Compare two simulation runs",
                "parameters": [
                    {"name": "first", "in": "query", "type": "string", "required": true},
                    {"name": "second", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/faculty": {
            "get": {"tags": ["Faculty"], "summary": "List faculty", "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["Faculty"],
                "summary": "Create faculty member",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateFacultyRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/faculty/{id}": {
            "get": {"tags": ["Faculty"], "summary": "Get faculty member", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Faculty"], "summary": "Update faculty member", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateFacultyRequest"}}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Faculty"], "summary": "Delete faculty member", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/faculty/{id}/availability": {
            "get": {"tags": ["Availability"], "summary": "List availability for one faculty member", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/availability": {
            "get": {"tags": ["Availability"], "summary": "List availability flags", "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["Availability"],
                "summary": "Upsert availability flags",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetAvailabilityRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/availability/{id}": {
            "delete": {"tags": ["Availability"], "summary": "Delete one availability flag", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/courses": {
            "get": {"tags": ["Courses"], "summary": "List courses", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Courses"], "summary": "Create course", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}], "responses": {"201": {"description": "Created"}}}
        },
        "/courses/{id}": {
            "get": {"tags": ["Courses"], "summary": "Get course", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Courses"], "summary": "Update course", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Courses"], "summary": "Delete course", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/rooms": {
            "get": {"tags": ["Rooms"], "summary": "List rooms", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Rooms"], "summary": "Create room", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRoomRequest"}}], "responses": {"201": {"description": "Created"}}}
        },
        "/rooms/{id}": {
            "get": {"tags": ["Rooms"], "summary": "Get room", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Rooms"], "summary": "Update room", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRoomRequest"}}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Rooms"], "summary": "Delete room", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/sections": {
            "get": {"tags": ["Sections"], "summary": "List sections", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Sections"], "summary": "Create section", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSectionRequest"}}], "responses": {"201": {"description": "Created"}}}
        },
        "/sections/{id}": {
            "get": {"tags": ["Sections"], "summary": "Get section", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Sections"], "summary": "Update section", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSectionRequest"}}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Sections"], "summary": "Delete section", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/timeslots": {
            "get": {"tags": ["TimeSlots"], "summary": "List timeslots", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["TimeSlots"], "summary": "Create timeslot", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTimeSlotRequest"}}], "responses": {"201": {"description": "Created"}}}
        },
        "/timeslots/{id}": {
            "get": {"tags": ["TimeSlots"], "summary": "Get timeslot", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["TimeSlots"], "summary": "Update timeslot", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTimeSlotRequest"}}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["TimeSlots"], "summary": "Delete timeslot", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "Deleted"}}}
        }
    },
    "definitions": {
        "GenerateRequest": {
            "type": "object",
            "properties": {
                "section_courses": {
                    "type": "object",
                    "additionalProperties": {"type": "array", "items": {"type": "string"}}
                }
            }
        },
        "AssignmentUpdate": {
            "type": "object",
            "properties": {
                "assignment_id": {"type": "string"},
                "faculty_id": {"type": "string"},
                "room_id": {"type": "string"},
                "timeslot_id": {"type": "string"}
            },
            "required": ["assignment_id"]
        },
        "CreateFacultyRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "max_load": {"type": "integer"}
            },
            "required": ["name"]
        },
        "CreateCourseRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "course_type": {"type": "string", "enum": ["theory", "lab"]},
                "hours_per_week": {"type": "integer"}
            },
            "required": ["name", "course_type"]
        },
        "CreateRoomRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "room_type": {"type": "string", "enum": ["theory", "lab"]},
                "capacity": {"type": "integer"}
            },
            "required": ["name", "room_type", "capacity"]
        },
        "CreateSectionRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "student_count": {"type": "integer"}
            },
            "required": ["name", "student_count"]
        },
        "CreateTimeSlotRequest": {
            "type": "object",
            "properties": {
                "day": {"type": "string", "enum": ["Monday", "Tuesday", "Wednesday", "Thursday", "Friday"]},
                "slot": {"type": "integer"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"}
            },
            "required": ["day", "slot"]
        },
        "SetAvailabilityRequest": {
            "type": "object",
            "properties": {
                "faculty_id": {"type": "string"},
                "entries": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "timeslot_id": {"type": "string"},
                            "is_available": {"type": "boolean"}
                        },
                        "required": ["timeslot_id"]
                    }
                }
            },
            "required": ["faculty_id", "entries"]
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
