package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academico API",
        "description": "Eligibility validation and official-document derivation for the academic platform",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Inscricoes", "description": "Subject enrollment with eligibility validation"},
        {"name": "Documentos", "description": "Histórico, boletim, pauta and certificado derivation"}
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
        "/inscricoes": {
            "post": {
                "tags": ["Inscricoes"],
                "summary": "Enroll a student in a subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollSubjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or precondition failure"},
                    "409": {"description": "Duplicate enrollment"}
                }
            }
        },
        "/inscricoes/lote": {
            "post": {
                "tags": ["Inscricoes"],
                "summary": "Enroll a student in several subjects at once",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollBulkRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Structural precondition failure"}
                }
            }
        },
        "/inscricoes/{id}": {
            "delete": {
                "tags": ["Inscricoes"],
                "summary": "Cancel a subject enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/alunos/{alunoId}/historico": {
            "get": {
                "tags": ["Documentos"],
                "summary": "Derive the histórico escolar",
                "parameters": [
                    {"name": "alunoId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Academic block"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/alunos/{alunoId}/boletim/{anoLetivoId}": {
            "get": {
                "tags": ["Documentos"],
                "summary": "Derive the boletim for one academic year",
                "parameters": [
                    {"name": "alunoId", "in": "path", "required": true, "type": "string"},
                    {"name": "anoLetivoId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing annual enrollment"},
                    "403": {"description": "Academic block"}
                }
            }
        },
        "/planos-ensino/{planoEnsinoId}/pauta": {
            "get": {
                "tags": ["Documentos"],
                "summary": "Derive the pauta of a teaching plan",
                "parameters": [
                    {"name": "planoEnsinoId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Closure preconditions unmet"}
                }
            }
        },
        "/alunos/{alunoId}/certificado": {
            "get": {
                "tags": ["Documentos"],
                "summary": "Derive the completion certificate",
                "parameters": [
                    {"name": "alunoId", "in": "path", "required": true, "type": "string"},
                    {"name": "contexto", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "No CONCLUIDO completion"},
                    "403": {"description": "Academic block"}
                }
            }
        },
        "/certificados/verificar/{codigo}": {
            "get": {
                "tags": ["Documentos"],
                "summary": "Verify a certificate code",
                "parameters": [
                    {"name": "codigo", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown code"}
                }
            }
        }
    },
    "definitions": {
        "EnrollSubjectRequest": {
            "type": "object",
            "required": ["aluno_id", "disciplina_id", "ano_letivo_id"],
            "properties": {
                "aluno_id": {"type": "string"},
                "disciplina_id": {"type": "string"},
                "ano_letivo_id": {"type": "string"},
                "turma_id": {"type": "string"},
                "periodo": {"type": "string"}
            }
        },
        "EnrollBulkRequest": {
            "type": "object",
            "required": ["aluno_id", "ano_letivo_id"],
            "properties": {
                "aluno_id": {"type": "string"},
                "ano_letivo_id": {"type": "string"},
                "disciplina_ids": {"type": "array", "items": {"type": "string"}},
                "periodo": {"type": "string"}
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
