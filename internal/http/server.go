package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"schoolhub/internal/auth"
	"schoolhub/internal/config"
	"schoolhub/internal/model"
	"schoolhub/internal/query"
	"schoolhub/internal/repository"
	"schoolhub/internal/session"
)

type Server struct {
	cfg         config.Config
	users       *repository.Users
	students    *repository.Resource[model.Student]
	teachers    *repository.Resource[model.Teacher]
	schedules   *repository.Resource[model.TeacherSchedule]
	assignments *repository.Resource[model.Assignment]
	submissions *repository.Resource[model.AssignmentSubmission]
	sessions    *session.Store
}

func NewServer(cfg config.Config, pool *pgxpool.Pool, redisClient *redis.Client) *Server {
	return &Server{
		cfg:         cfg,
		users:       repository.NewUsers(pool),
		students:    repository.NewStudents(pool),
		teachers:    repository.NewTeachers(pool),
		schedules:   repository.NewSchedules(pool),
		assignments: repository.NewAssignments(pool),
		submissions: repository.NewSubmissions(pool),
		sessions:    session.NewStore(redisClient, cfg.RefreshTokenTTL),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/refresh", s.handleRefresh)
	r.With(s.authenticate).Post("/auth/logout", s.handleLogout)
	r.With(s.authenticate).Get("/auth/profile", s.handleProfile)

	mountResource(r, s, "/users", s.users.Resource, resourceConfig{
		name:       "user",
		writeRoles: []string{"admin"},
		required:   []string{"email", "password", "role", "name"},
		filters:    []string{"role"},
		prepare:    prepareUserFields,
	})
	mountResource(r, s, "/students", s.students, resourceConfig{
		name:       "student",
		writeRoles: []string{"admin"},
		required:   []string{"name"},
		filters:    []string{"class", "section", "feeStatus", "status", "busNumber"},
	})
	mountResource(r, s, "/teachers", s.teachers, resourceConfig{
		name:       "teacher",
		writeRoles: []string{"admin"},
		required:   []string{"name", "email"},
		filters:    []string{"subject", "status"},
	})
	mountResource(r, s, "/schedules", s.schedules, resourceConfig{
		name:       "schedule",
		writeRoles: []string{"admin"},
		required:   []string{"teacherId", "dayOfWeek", "startTime", "endTime"},
		filters:    []string{"teacherId", "dayOfWeek", "class", "section"},
		intFilters: []string{"teacherId", "dayOfWeek"},
	})
	mountResource(r, s, "/assignments", s.assignments, resourceConfig{
		name:       "assignment",
		writeRoles: []string{"admin", "teacher"},
		required:   []string{"title"},
		filters:    []string{"class", "section", "createdBy"},
		intFilters: []string{"createdBy"},
	})
	mountResource(r, s, "/submissions", s.submissions, resourceConfig{
		name:        "submission",
		writeRoles:  []string{"admin", "teacher"},
		createRoles: []string{},
		required:    []string{"assignmentId", "studentId"},
		filters:     []string{"assignmentId", "studentId"},
		intFilters:  []string{"assignmentId", "studentId"},
	})

	return r
}

// Middleware

type claimsKey struct{}

// authenticate requires a valid bearer token and attaches its claims to the
// request context. Handlers behind it never run without an identity.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}
		claims, err := auth.ParseToken(s.cfg.JWTSecret, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authorize gates a route on role membership. With no roles it passes any
// authenticated request through. It always runs after authenticate.
func (s *Server) authorize(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFromContext(r.Context())
			if claims == nil {
				writeError(w, http.StatusUnauthorized, "missing token")
				return
			}
			if len(roles) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "forbidden")
		})
	}
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

// Helpers

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

// decodeFields reads a JSON object as-is. Unknown field names are kept here
// and dropped by the repository's field map.
func decodeFields(r *http.Request) (map[string]any, error) {
	fields := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// parsePage reads page/pageSize, falling back to defaults for absent or
// malformed values.
func parsePage(r *http.Request) query.Page {
	number, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	return query.NewPage(number, size)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return ""
}
