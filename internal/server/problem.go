package server

import (
	"encoding/json"
	"net/http"
)

const problemTypeBase = "https://presence-project.github.io/problems/"

// Problem is an RFC 7807 Problem Details response. Every non-2xx JSON
// response from the API uses this shape.
type Problem struct {
	Type     string `json:"type" example:"https://presence-project.github.io/problems/bad-request"`
	Title    string `json:"title" example:"Bad Request"`
	Status   int    `json:"status" example:"400"`
	Detail   string `json:"detail,omitempty" example:"status must be an integer"`
	Instance string `json:"instance,omitempty" example:"/api/v1/status"`
}

// WriteProblem writes an RFC 7807 Problem Details JSON response.
func WriteProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func problem(w http.ResponseWriter, status int, slug, title, detail, instance string) {
	WriteProblem(w, Problem{
		Type:     problemTypeBase + slug,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}

// NotFound writes a 404 problem response.
func NotFound(w http.ResponseWriter, detail, instance string) {
	problem(w, http.StatusNotFound, "not-found", "Not Found", detail, instance)
}

// BadRequest writes a 400 problem response.
func BadRequest(w http.ResponseWriter, detail, instance string) {
	problem(w, http.StatusBadRequest, "bad-request", "Bad Request", detail, instance)
}

// Unauthorized writes a 401 problem response.
func Unauthorized(w http.ResponseWriter, detail, instance string) {
	problem(w, http.StatusUnauthorized, "unauthorized", "Unauthorized", detail, instance)
}

// InternalError writes a 500 problem response.
func InternalError(w http.ResponseWriter, detail, instance string) {
	problem(w, http.StatusInternalServerError, "internal-error", "Internal Server Error", detail, instance)
}

// RateLimited writes a 429 problem response.
func RateLimited(w http.ResponseWriter, detail, instance string) {
	problem(w, http.StatusTooManyRequests, "rate-limited", "Too Many Requests", detail, instance)
}
