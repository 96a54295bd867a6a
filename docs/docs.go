// Package docs holds the swagger document served at /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/register": {
            "post": {
                "tags": [
                    "auth"
                ],
                "summary": "Register a league member",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": [
                    "auth"
                ],
                "summary": "Log in and receive a bearer token",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/health": {
            "get": {
                "tags": [
                    "health"
                ],
                "summary": "Liveness and database reachability",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/league/standings": {
            "get": {
                "tags": [
                    "league"
                ],
                "summary": "League table with badges",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/league/badges": {
            "get": {
                "tags": [
                    "league"
                ],
                "summary": "Every badge a member can earn",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/league/dashboard": {
            "get": {
                "tags": [
                    "league"
                ],
                "summary": "League totals",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/members/{memberID}/badges": {
            "get": {
                "tags": [
                    "league"
                ],
                "summary": "Badges earned by one member",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "name": "memberID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/decks": {
            "get": {
                "tags": [
                    "decks"
                ],
                "summary": "List decks",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "post": {
                "tags": [
                    "decks"
                ],
                "summary": "Create a deck manually",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/decks/import": {
            "post": {
                "tags": [
                    "decks"
                ],
                "summary": "Import an Archidekt or Moxfield deck and save it",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/import": {
            "post": {
                "tags": [
                    "decks"
                ],
                "summary": "Normalize a deck URL without saving it",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/decks/{deckID}": {
            "get": {
                "tags": [
                    "decks"
                ],
                "summary": "Get a deck with its cards",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "name": "deckID",
                        "in": "path",
                        "required": true
                    }
                ]
            },
            "delete": {
                "tags": [
                    "decks"
                ],
                "summary": "Delete a deck",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "name": "deckID",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/decks/{deckID}/budget": {
            "get": {
                "tags": [
                    "budget"
                ],
                "summary": "Allowance summary for a deck",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "name": "deckID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/decks/{deckID}/budget/breakdown": {
            "get": {
                "tags": [
                    "budget"
                ],
                "summary": "Month-by-month spend against the allowance",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "name": "deckID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/decks/{deckID}/upgrades": {
            "get": {
                "tags": [
                    "upgrades"
                ],
                "summary": "Upgrades logged against a deck",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "name": "deckID",
                        "in": "path",
                        "required": true
                    }
                ]
            },
            "post": {
                "tags": [
                    "upgrades"
                ],
                "summary": "Log a card upgrade",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "name": "deckID",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/upgrades/{upgradeID}": {
            "delete": {
                "tags": [
                    "upgrades"
                ],
                "summary": "Remove a logged upgrade and refund its cost",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "name": "upgradeID",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/matches": {
            "get": {
                "tags": [
                    "matches"
                ],
                "summary": "List recorded matches, newest first",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "post": {
                "tags": [
                    "matches"
                ],
                "summary": "Record a pod result",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/matches/{matchID}": {
            "get": {
                "tags": [
                    "matches"
                ],
                "summary": "Get one match",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "name": "matchID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/precons": {
            "get": {
                "tags": [
                    "precons"
                ],
                "summary": "Catalogued preconstructed decks",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/precons/{preconID}/decklist": {
            "get": {
                "tags": [
                    "precons"
                ],
                "summary": "Cached decklist of a precon",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "preconID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/precons/{preconID}/refresh": {
            "post": {
                "tags": [
                    "precons"
                ],
                "summary": "Refetch one precon from Moxfield into the cache",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "preconID",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/precons/refresh": {
            "post": {
                "tags": [
                    "precons"
                ],
                "summary": "Refetch every catalogued precon",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/cards/named": {
            "get": {
                "tags": [
                    "cards"
                ],
                "summary": "Look up a card by exact name",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/cards/search": {
            "get": {
                "tags": [
                    "cards"
                ],
                "summary": "Full-text card search",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/cards/prints": {
            "get": {
                "tags": [
                    "cards"
                ],
                "summary": "Every printing of a card with prices",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Commander League API",
	Description:      "Budget-capped Commander league: decks, upgrades, matches, precons and badges.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
