package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"schoolhub/internal/crypto"
	"schoolhub/internal/repository"
)

// resourceConfig describes one REST resource: its role allow-lists, required
// create fields, and which query parameters act as exact-match filters.
type resourceConfig struct {
	name       string
	writeRoles []string
	// createRoles overrides writeRoles for POST when non-nil. An empty,
	// non-nil list opens create to any authenticated caller.
	createRoles []string
	required    []string
	filters     []string
	intFilters  []string
	// prepare rewrites the decoded field map before create/update. It
	// returns a non-zero status and message to abort the request.
	prepare func(fields map[string]any) (int, string)
}

type listResponse struct {
	Rows     any   `json:"rows"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

type deleteResponse struct {
	Success bool `json:"success"`
}

// mountResource registers the uniform CRUD routes for one entity. Reads need
// authentication only; writes additionally pass the role allow-list.
func mountResource[T any](r chi.Router, s *Server, path string, repo *repository.Resource[T], cfg resourceConfig) {
	createRoles := cfg.writeRoles
	if cfg.createRoles != nil {
		createRoles = cfg.createRoles
	}

	r.Route(path, func(r chi.Router) {
		r.With(s.authenticate, s.authorize()).Get("/", handleList(repo, cfg))
		r.With(s.authenticate, s.authorize()).Get("/{id}", handleGet(repo, cfg))
		r.With(s.authenticate, s.authorize(createRoles...)).Post("/", handleCreate(repo, cfg))
		r.With(s.authenticate, s.authorize(cfg.writeRoles...)).Put("/{id}", handleUpdate(repo, cfg))
		r.With(s.authenticate, s.authorize(cfg.writeRoles...)).Delete("/{id}", handleDelete(repo, cfg))
	})
}

func handleList[T any](repo *repository.Resource[T], cfg resourceConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := parsePage(r)
		filters := repository.Filters{
			Q:     strings.TrimSpace(r.URL.Query().Get("q")),
			Exact: map[string]any{},
		}
		for _, name := range cfg.filters {
			raw := r.URL.Query().Get(name)
			if raw == "" {
				continue
			}
			if isIntFilter(cfg, name) {
				value, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					writeError(w, http.StatusBadRequest, "invalid "+name)
					return
				}
				filters.Exact[name] = value
				continue
			}
			filters.Exact[name] = raw
		}

		rows, total, err := repo.List(r.Context(), filters, page)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusOK, listResponse{
			Rows:     rows,
			Total:    total,
			Page:     page.Number,
			PageSize: page.Size,
		})
	}
}

func handleGet[T any](repo *repository.Resource[T], cfg resourceConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		record, err := repo.GetByID(r.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, cfg.name+" not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

func handleCreate[T any](repo *repository.Resource[T], cfg resourceConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := decodeFields(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		for _, name := range cfg.required {
			if missingField(fields, name) {
				writeError(w, http.StatusBadRequest, "missing "+name)
				return
			}
		}
		if cfg.prepare != nil {
			if status, message := cfg.prepare(fields); status != 0 {
				writeError(w, status, message)
				return
			}
		}

		record, err := repo.Create(r.Context(), fields)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, record)
	}
}

func handleUpdate[T any](repo *repository.Resource[T], cfg resourceConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		fields, err := decodeFields(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if cfg.prepare != nil {
			if status, message := cfg.prepare(fields); status != 0 {
				writeError(w, status, message)
				return
			}
		}

		record, err := repo.Update(r.Context(), id, fields)
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, cfg.name+" not found")
			return
		}
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

func handleDelete[T any](repo *repository.Resource[T], cfg resourceConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		deleted, err := repo.Delete(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		if !deleted {
			writeError(w, http.StatusNotFound, cfg.name+" not found")
			return
		}
		writeJSON(w, http.StatusOK, deleteResponse{Success: true})
	}
}

// writeStoreError maps constraint violations to client errors and hides
// everything else behind a generic fault.
func writeStoreError(w http.ResponseWriter, err error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			writeError(w, http.StatusConflict, "already exists")
			return
		case "23503":
			writeError(w, http.StatusBadRequest, "invalid reference")
			return
		case "23514":
			writeError(w, http.StatusBadRequest, "invalid value")
			return
		}
	}
	writeError(w, http.StatusInternalServerError, "server error")
}

func isIntFilter(cfg resourceConfig, name string) bool {
	for _, candidate := range cfg.intFilters {
		if candidate == name {
			return true
		}
	}
	return false
}

func missingField(fields map[string]any, name string) bool {
	value, ok := fields[name]
	if !ok || value == nil {
		return true
	}
	if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
		return true
	}
	return false
}

// prepareUserFields normalizes user writes: emails are stored lower-cased,
// plaintext passwords are replaced with a bcrypt hash, roles are checked
// against the known set.
func prepareUserFields(fields map[string]any) (int, string) {
	if raw, ok := fields["email"].(string); ok {
		fields["email"] = strings.TrimSpace(strings.ToLower(raw))
	}
	if raw, ok := fields["role"]; ok {
		role, isString := raw.(string)
		if !isString || !isValidRole(role) {
			return http.StatusBadRequest, "invalid role"
		}
	}
	if raw, ok := fields["password"]; ok {
		password, isString := raw.(string)
		if !isString || password == "" {
			return http.StatusBadRequest, "invalid password"
		}
		hash, err := crypto.HashPassword(password)
		if err != nil {
			return http.StatusInternalServerError, "server error"
		}
		delete(fields, "password")
		fields["passwordHash"] = hash
	}
	return 0, ""
}

func isValidRole(role string) bool {
	switch role {
	case "admin", "teacher", "student", "driver":
		return true
	default:
		return false
	}
}
