package core

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NewRouter constructs the Gin engine with routes wired.
func NewRouter(cfg Config, auth AuthService, verifier *TokenVerifier, tasks TaskRepository, db pinger) *gin.Engine {
	startedAt := time.Now()
	r := gin.Default()

	r.Use(CORSMiddleware(cfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			st := CollectHealth(c.Request.Context(), db, startedAt)
			status := http.StatusOK
			if st.Status != "healthy" {
				status = http.StatusServiceUnavailable
			}
			c.JSON(status, st)
		})

		api.POST("/auth/signup", func(c *gin.Context) {
			var req struct {
				Email    string `json:"email"`
				Password string `json:"password"`
				Name     string `json:"name"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}
			req.Email = NormalizeEmail(req.Email)
			req.Name = strings.TrimSpace(req.Name)
			if err := validateSignup(req.Email, req.Password, req.Name); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
				return
			}

			u, err := auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
			if err != nil {
				if errors.Is(err, ErrDuplicateEmail) {
					respondError(c, http.StatusBadRequest, "DUPLICATE_EMAIL", "Email already registered")
					return
				}
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to register user")
				return
			}
			c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user_id": u.ID})
		})

		api.POST("/auth/signin", func(c *gin.Context) {
			var req struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}

			token, u, err := auth.Login(c.Request.Context(), req.Email, req.Password)
			if err != nil {
				if errors.Is(err, ErrInvalidCredentials) {
					respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
					return
				}
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to sign in")
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"access_token": token,
				"token_type":   "bearer",
				"user": gin.H{
					"id":    u.ID,
					"email": u.Email,
					"name":  u.DisplayName,
				},
			})
		})

		// Task routes are scoped to the owner in the path; RequireAuth
		// establishes the identity and requireOwner enforces the match.
		user := api.Group("/:user_id", RequireAuth(verifier))
		{
			user.GET("/tasks", func(c *gin.Context) {
				ownerID, ok := requireOwner(c)
				if !ok {
					return
				}
				status := c.Query("status")
				if status != "" && status != TaskStatusPending && status != TaskStatusCompleted {
					respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "status must be pending or completed")
					return
				}

				items, err := tasks.ListByUser(c.Request.Context(), ownerID, status)
				if err != nil {
					respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to fetch tasks")
					return
				}
				c.JSON(http.StatusOK, items)
			})

			user.POST("/tasks", func(c *gin.Context) {
				ownerID, ok := requireOwner(c)
				if !ok {
					return
				}
				var req struct {
					Title       string  `json:"title"`
					Description *string `json:"description"`
				}
				if err := c.ShouldBindJSON(&req); err != nil {
					respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
					return
				}
				title, description := normalizeTaskInput(req.Title, req.Description)
				if err := validateTaskFields(title, strValue(description)); err != nil {
					respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
					return
				}

				t := &Task{ID: uuid.New(), UserID: ownerID, Title: title, Description: description}
				if err := tasks.Create(c.Request.Context(), t); err != nil {
					respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to create task")
					return
				}
				c.JSON(http.StatusCreated, t)
			})

			user.GET("/tasks/export", func(c *gin.Context) {
				ownerID, ok := requireOwner(c)
				if !ok {
					return
				}
				items, err := tasks.ListByUser(c.Request.Context(), ownerID, "")
				if err != nil {
					respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to fetch tasks")
					return
				}

				c.Header("Content-Type", "text/csv")
				c.Header("Content-Disposition", `attachment; filename="tasks.csv"`)
				w := csv.NewWriter(c.Writer)
				_ = w.Write([]string{"id", "title", "description", "is_completed", "created_at", "updated_at"})
				for _, t := range items {
					_ = w.Write([]string{
						t.ID.String(),
						t.Title,
						strValue(t.Description),
						strconv.FormatBool(t.IsCompleted),
						t.CreatedAt.Format(time.RFC3339),
						t.UpdatedAt.Format(time.RFC3339),
					})
				}
				w.Flush()
			})

			user.POST("/tasks/import", func(c *gin.Context) {
				ownerID, ok := requireOwner(c)
				if !ok {
					return
				}
				data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBodySize+1))
				if err != nil {
					respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "failed to read request body")
					return
				}
				items, err := ParseTaskBundle(data)
				if err != nil {
					respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
					return
				}

				ctx := c.Request.Context()
				created := 0
				for _, item := range items {
					var description *string
					if item.Description != "" {
						d := item.Description
						description = &d
					}
					t := &Task{ID: uuid.New(), UserID: ownerID, Title: item.Title, Description: description, IsCompleted: item.Completed}
					if err := tasks.Create(ctx, t); err != nil {
						respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to import tasks")
						return
					}
					created++
				}
				c.JSON(http.StatusCreated, gin.H{"created_count": created})
			})

			user.GET("/tasks/:task_id", func(c *gin.Context) {
				ownerID, ok := requireOwner(c)
				if !ok {
					return
				}
				taskID, err := uuid.Parse(c.Param("task_id"))
				if err != nil {
					respondNotFound(c)
					return
				}
				t, err := tasks.Get(c.Request.Context(), taskID, ownerID)
				if err != nil {
					if errors.Is(err, ErrNotFound) {
						respondNotFound(c)
						return
					}
					respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to fetch task")
					return
				}
				c.JSON(http.StatusOK, t)
			})

			user.PUT("/tasks/:task_id", func(c *gin.Context) {
				ownerID, ok := requireOwner(c)
				if !ok {
					return
				}
				taskID, err := uuid.Parse(c.Param("task_id"))
				if err != nil {
					respondNotFound(c)
					return
				}
				var req struct {
					Title       *string `json:"title"`
					Description *string `json:"description"`
				}
				if err := c.ShouldBindJSON(&req); err != nil {
					respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
					return
				}

				ctx := c.Request.Context()
				t, err := tasks.Get(ctx, taskID, ownerID)
				if err != nil {
					if errors.Is(err, ErrNotFound) {
						respondNotFound(c)
						return
					}
					respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to fetch task")
					return
				}

				// Partial update: absent fields keep their current value.
				if req.Title != nil {
					t.Title = strings.TrimSpace(*req.Title)
				}
				if req.Description != nil {
					_, t.Description = normalizeTaskInput(t.Title, req.Description)
				}
				if err := validateTaskFields(t.Title, strValue(t.Description)); err != nil {
					respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
					return
				}

				if err := tasks.Update(ctx, t); err != nil {
					if errors.Is(err, ErrNotFound) {
						respondNotFound(c)
						return
					}
					respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to update task")
					return
				}
				c.JSON(http.StatusOK, t)
			})

			user.PATCH("/tasks/:task_id/complete", func(c *gin.Context) {
				ownerID, ok := requireOwner(c)
				if !ok {
					return
				}
				taskID, err := uuid.Parse(c.Param("task_id"))
				if err != nil {
					respondNotFound(c)
					return
				}

				ctx := c.Request.Context()
				t, err := tasks.Get(ctx, taskID, ownerID)
				if err != nil {
					if errors.Is(err, ErrNotFound) {
						respondNotFound(c)
						return
					}
					respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to fetch task")
					return
				}

				t.IsCompleted = !t.IsCompleted
				if err := tasks.Update(ctx, t); err != nil {
					if errors.Is(err, ErrNotFound) {
						respondNotFound(c)
						return
					}
					respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to update task")
					return
				}
				c.JSON(http.StatusOK, t)
			})

			user.DELETE("/tasks/:task_id", func(c *gin.Context) {
				ownerID, ok := requireOwner(c)
				if !ok {
					return
				}
				taskID, err := uuid.Parse(c.Param("task_id"))
				if err != nil {
					respondNotFound(c)
					return
				}
				if err := tasks.Delete(c.Request.Context(), taskID, ownerID); err != nil {
					if errors.Is(err, ErrNotFound) {
						respondNotFound(c)
						return
					}
					respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to delete task")
					return
				}
				c.Status(http.StatusNoContent)
			})
		}
	}

	return r
}

// validateSignup enforces the registration constraints before any hashing.
func validateSignup(email, password, name string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("a valid email is required")
	}
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if name == "" || len([]rune(name)) > 100 {
		return errors.New("name must be 1-100 characters")
	}
	return nil
}

// normalizeTaskInput trims the title and description; an empty description
// becomes nil so it stores as NULL.
func normalizeTaskInput(title string, description *string) (string, *string) {
	title = strings.TrimSpace(title)
	if description == nil {
		return title, nil
	}
	d := strings.TrimSpace(*description)
	if d == "" {
		return title, nil
	}
	return title, &d
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
