// Copyright 2026 The OpenLMS Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/openlms/openlms/internal/audit"
	"github.com/openlms/openlms/internal/auth"
	"github.com/openlms/openlms/internal/client"
	"github.com/openlms/openlms/internal/course"
	"github.com/openlms/openlms/internal/identity"
	"github.com/openlms/openlms/internal/instructor"
	"github.com/openlms/openlms/internal/notification"
	"github.com/openlms/openlms/internal/realtime"
	"github.com/openlms/openlms/internal/specialization"
	"github.com/openlms/openlms/internal/student"
	"github.com/openlms/openlms/internal/tenant"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Handler holds HTTP handlers and dependencies
type Handler struct {
	tokenService          *auth.TokenService
	identityService       *identity.Service
	tenantService         *tenant.Service
	clientService         *client.Service
	specializationService *specialization.Service
	courseService         *course.Service
	instructorService     *instructor.Service
	studentService        *student.Service
	notificationService   *notification.Service
	hub                   *realtime.Hub
	auditLogger           audit.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	tokenService *auth.TokenService,
	identityService *identity.Service,
	tenantService *tenant.Service,
	clientService *client.Service,
	specializationService *specialization.Service,
	courseService *course.Service,
	instructorService *instructor.Service,
	studentService *student.Service,
	notificationService *notification.Service,
	hub *realtime.Hub,
	auditLogger audit.Logger,
) *Handler {
	return &Handler{
		tokenService:          tokenService,
		identityService:       identityService,
		tenantService:         tenantService,
		clientService:         clientService,
		specializationService: specializationService,
		courseService:         courseService,
		instructorService:     instructorService,
		studentService:        studentService,
		notificationService:   notificationService,
		hub:                   hub,
		auditLogger:           auditLogger,
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/login", h.Login)

		// Authenticated endpoints. Tenant scope comes from the token.
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.Get("/auth/me", h.GetCurrentUser)
			r.Post("/auth/logout", h.Logout)
			r.Post("/auth/change-password", h.ChangePassword)

			// Account administration
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(identity.RoleSuperAdmin, identity.RoleAdmin))
				r.Post("/auth/register", h.Register)
				r.Get("/users", h.ListUsers)
			})

			// Platform administration (cross-tenant)
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(identity.RoleSuperAdmin))

				r.Route("/tenants", func(r chi.Router) {
					r.Post("/", h.CreateTenant)
					r.Get("/", h.ListTenants)
					r.Get("/{tenantID}", h.GetTenant)
					r.Put("/{tenantID}", h.UpdateTenant)
					r.Delete("/{tenantID}", h.DeleteTenant)
				})

				r.Route("/clients", func(r chi.Router) {
					r.Post("/", h.CreateClient)
					r.Get("/", h.ListClients)
					r.Get("/{clientID}", h.GetClient)
					r.Put("/{clientID}", h.UpdateClient)
					r.Delete("/{clientID}", h.DeleteClient)
				})
			})

			// Tenant-scoped resources
			r.Route("/specializations", func(r chi.Router) {
				r.Get("/", h.ListSpecializations)
				r.Get("/{specializationID}", h.GetSpecialization)
				r.Get("/{specializationID}/courses", h.ListCoursesBySpecialization)

				r.Group(func(r chi.Router) {
					r.Use(RequireRole(identity.RoleSuperAdmin, identity.RoleAdmin))
					r.Post("/", h.CreateSpecialization)
					r.Put("/{specializationID}", h.UpdateSpecialization)
					r.Delete("/{specializationID}", h.DeleteSpecialization)
				})
			})

			r.Route("/courses", func(r chi.Router) {
				r.Get("/", h.ListCourses)
				r.Get("/{courseID}", h.GetCourse)
				r.Get("/{courseID}/roster", h.CourseRoster)

				r.Group(func(r chi.Router) {
					r.Use(RequireRole(identity.RoleSuperAdmin, identity.RoleAdmin, identity.RoleTeacher))
					r.Post("/", h.CreateCourse)
					r.Put("/{courseID}", h.UpdateCourse)
					r.Post("/{courseID}/publish", h.PublishCourse)
					r.Post("/{courseID}/archive", h.ArchiveCourse)
					r.Delete("/{courseID}", h.DeleteCourse)
				})
			})

			r.Route("/instructors", func(r chi.Router) {
				r.Get("/", h.ListInstructors)
				r.Get("/{instructorID}", h.GetInstructor)
				r.Get("/{instructorID}/courses", h.ListCoursesByInstructor)

				r.Group(func(r chi.Router) {
					r.Use(RequireRole(identity.RoleSuperAdmin, identity.RoleAdmin))
					r.Post("/", h.CreateInstructor)
					r.Put("/{instructorID}", h.UpdateInstructor)
					r.Delete("/{instructorID}", h.DeleteInstructor)
				})
			})

			r.Route("/students", func(r chi.Router) {
				r.Get("/", h.ListStudents)
				r.Get("/{studentID}", h.GetStudent)
				r.Get("/{studentID}/enrollments", h.ListEnrollments)
				r.Post("/{studentID}/enrollments", h.Enroll)
				r.Delete("/{studentID}/enrollments/{courseID}", h.Unenroll)

				r.Group(func(r chi.Router) {
					r.Use(RequireRole(identity.RoleSuperAdmin, identity.RoleAdmin))
					r.Post("/", h.CreateStudent)
					r.Put("/{studentID}", h.UpdateStudent)
					r.Delete("/{studentID}", h.DeleteStudent)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.ListNotifications)
				r.Get("/unread-count", h.UnreadCount)
				r.Post("/read-all", h.MarkAllNotificationsRead)
				r.Post("/{notificationID}/read", h.MarkNotificationRead)
				r.Delete("/{notificationID}", h.DeleteNotification)
				r.Get("/stream", h.StreamNotifications)

				r.With(RequireRole(identity.RoleSuperAdmin, identity.RoleAdmin, identity.RoleTeacher)).
					Post("/", h.SendNotification)
			})
		})
	})

	return r
}

// HealthCheck returns the health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "openlms",
	})
}

func decodeAndValidate(r *http.Request, req any) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return err
	}
	return validate.Struct(req)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

func getIPAddress(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func pagination(r *http.Request) (limit, offset int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
