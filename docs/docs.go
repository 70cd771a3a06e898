// Package docs registers the OpenAPI document served under /swagger. It is
// maintained by hand alongside the swag annotations on the handlers.
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
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Route index",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.Response"}
                    }
                }
            }
        },
        "/data": {
            "get": {
                "description": "Returns every active lamp timer in store order",
                "produces": ["application/json"],
                "tags": ["timers"],
                "summary": "List active timers",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/types.Response"},
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {"$ref": "#/definitions/types.TimerResponse"}
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "500": {
                        "description": "Record store error",
                        "schema": {"$ref": "#/definitions/types.Response"}
                    }
                }
            }
        },
        "/data/{number}": {
            "get": {
                "description": "Returns the active timer of one lamp",
                "produces": ["application/json"],
                "tags": ["timers"],
                "summary": "Get a lamp's timer",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Lamp number (1-4)",
                        "name": "number",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/types.Response"},
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {"$ref": "#/definitions/types.TimerResponse"}
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Invalid lamp number",
                        "schema": {"$ref": "#/definitions/types.Response"}
                    },
                    "404": {
                        "description": "No active timer",
                        "schema": {"$ref": "#/definitions/types.Response"}
                    },
                    "500": {
                        "description": "Record store error",
                        "schema": {"$ref": "#/definitions/types.Response"}
                    }
                }
            }
        },
        "/health": {
            "get": {
                "description": "Returns the health status of the API and the MQTT publisher",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "Service is healthy",
                        "schema": {"$ref": "#/definitions/types.HealthResponse"}
                    },
                    "503": {
                        "description": "Service is degraded",
                        "schema": {"$ref": "#/definitions/types.HealthResponse"}
                    }
                }
            }
        },
        "/lampu": {
            "post": {
                "description": "Publishes a power command without touching timers; number 0 addresses every lamp",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lamps"],
                "summary": "Switch a lamp",
                "parameters": [
                    {
                        "description": "Lamp number and power state",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.SwitchRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.Response"}
                    },
                    "400": {
                        "description": "Invalid request",
                        "schema": {"$ref": "#/definitions/types.Response"}
                    },
                    "500": {
                        "description": "Publish failed",
                        "schema": {"$ref": "#/definitions/types.Response"}
                    }
                }
            }
        },
        "/reset": {
            "delete": {
                "description": "Removes every timer and broadcasts a power-off to all lamps",
                "produces": ["application/json"],
                "tags": ["timers"],
                "summary": "Reset all timers",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/types.Response"},
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {"$ref": "#/definitions/types.ResetResponse"}
                                    }
                                }
                            ]
                        }
                    },
                    "500": {
                        "description": "Record store error",
                        "schema": {"$ref": "#/definitions/types.Response"}
                    }
                }
            }
        },
        "/stop": {
            "post": {
                "description": "Removes the lamp's timer and switches the lamp off",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["timers"],
                "summary": "Stop a timer",
                "parameters": [
                    {
                        "description": "Lamp number",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.StopRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/types.Response"},
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {"$ref": "#/definitions/types.StopTimerResponse"}
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Invalid request",
                        "schema": {"$ref": "#/definitions/types.Response"}
                    },
                    "404": {
                        "description": "No active timer",
                        "schema": {"$ref": "#/definitions/types.Response"}
                    },
                    "500": {
                        "description": "Record store error",
                        "schema": {"$ref": "#/definitions/types.Response"}
                    }
                }
            }
        },
        "/waktu": {
            "post": {
                "description": "Starts a timer for the lamp, or adds time to the running one, and switches the lamp on",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["timers"],
                "summary": "Start or extend a timer",
                "parameters": [
                    {
                        "description": "Lamp number and minutes to add",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.TimerRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/types.Response"},
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {"$ref": "#/definitions/types.StartTimerResponse"}
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Invalid request",
                        "schema": {"$ref": "#/definitions/types.Response"}
                    },
                    "500": {
                        "description": "Record store error",
                        "schema": {"$ref": "#/definitions/types.Response"}
                    }
                }
            }
        }
    },
    "definitions": {
        "types.HealthResponse": {
            "type": "object",
            "properties": {
                "publisher": {"type": "string"},
                "status": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "types.ResetResponse": {
            "type": "object",
            "properties": {
                "removed": {"type": "integer"}
            }
        },
        "types.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "message": {"type": "string"},
                "status": {"type": "string", "example": "success"}
            }
        },
        "types.StartTimerResponse": {
            "type": "object",
            "properties": {
                "created": {"type": "boolean"},
                "timer": {"$ref": "#/definitions/types.TimerResponse"}
            }
        },
        "types.StopRequest": {
            "type": "object",
            "properties": {
                "number": {"type": "integer", "example": 2}
            }
        },
        "types.StopTimerResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}
            }
        },
        "types.SwitchRequest": {
            "type": "object",
            "properties": {
                "number": {"type": "integer", "example": 2},
                "status": {"type": "boolean", "example": true}
            }
        },
        "types.TimerRequest": {
            "type": "object",
            "properties": {
                "addTime": {"description": "Minutes", "type": "integer", "minimum": 1, "maximum": 525600, "example": 10},
                "number": {"type": "integer", "example": 2}
            }
        },
        "types.TimerResponse": {
            "type": "object",
            "properties": {
                "expired_at": {"type": "integer"},
                "expires_at": {"type": "string"},
                "id": {"type": "string"},
                "number": {"type": "integer"},
                "remaining_ms": {"type": "integer"},
                "start_at": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Lampbridge API",
	Description:      "REST API for timed lamp control over MQTT",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
