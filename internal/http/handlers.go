package http

import (
	"errors"
	"log/slog"
	"net/http"

	"ledgercore/internal/auth"
	"ledgercore/internal/core"
	"ledgercore/internal/storage"
	"ledgercore/internal/transform"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in core.SignupInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	row, err := s.repo.CreateUser(r.Context(), storage.CreateUserParams{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		ManagerID:    in.ManagerID,
		Created:      in.Created,
		UniqueID:     in.UniqueID,
	})
	if errors.Is(err, core.ErrDuplicate) {
		writeError(w, http.StatusBadRequest, "user already exists")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create user", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	u := transform.User(row)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := s.repo.GetUserByEmail(r.Context(), in.Email)
	if err != nil {
		// Unknown email and wrong password are indistinguishable on the wire.
		writeError(w, http.StatusUnauthorized, core.ErrInvalidCredentials.Error())
		return
	}
	if !auth.CheckPassword(row.Password, in.Password) {
		writeError(w, http.StatusUnauthorized, core.ErrInvalidCredentials.Error())
		return
	}

	writeJSON(w, http.StatusOK, transform.User(row))
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	expenses, err := s.repo.ListExpenses(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	budgets, err := s.repo.ListBudgets(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	notifications, err := s.repo.ListNotifications(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	settings := core.DefaultSettings()
	if row, err := s.repo.GetSettings(ctx); err == nil {
		settings = transform.Settings(row)
	} else if !errors.Is(err, core.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users":         transform.Users(users),
		"expenses":      transform.Expenses(expenses),
		"budgets":       transform.Budgets(budgets),
		"notifications": transform.Notifications(notifications),
		"settings":      settings,
	})
}

// handleSaveExpenses accepts one expense or a batch. Rows are inserted one
// by one; a row that fails validation or insertion is logged and skipped,
// and the response is 200 regardless.
func (s *Server) handleSaveExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := decodeOneOrMany[core.Expense](r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	for _, e := range expenses {
		if err := e.Validate(); err != nil {
			slog.WarnContext(ctx, "Skipping invalid expense", "id", e.ID, "error", err)
			continue
		}
		if err := s.repo.InsertExpense(ctx, e); err != nil {
			slog.WarnContext(ctx, "Failed to insert expense", "id", e.ID, "error", err)
			continue
		}
		if s.publisher != nil {
			if err := s.publisher.PublishExpenseSync(ctx, e.ID, 1); err != nil {
				// The worker's pending scan will pick it up later.
				slog.WarnContext(ctx, "Failed to publish expense sync", "id", e.ID, "error", err)
			}
		}
	}

	writeMessage(w, "Expenses saved")
}

func (s *Server) handleUpdateExpenseStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.repo.UpdateExpenseStatus(r.Context(), r.PathValue("id"), in.Status); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeMessage(w, "Expense updated")
}

func (s *Server) handleSaveBudget(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Category string  `json:"category"`
		Limit    float64 `json:"limit"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.repo.UpsertBudget(r.Context(), in.Category, in.Limit); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeMessage(w, "Budget saved")
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteBudget(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeMessage(w, "Budget deleted")
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name             *string `json:"name"`
		Phone            *string `json:"phone"`
		ProfileImage     *string `json:"profileImage"`
		TwoFactorEnabled *bool   `json:"twoFactorEnabled"`
		ManagerID        *string `json:"managerId"`
		Password         *string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := storage.UpdateUserParams{
		Name:             in.Name,
		Phone:            in.Phone,
		ProfileImage:     in.ProfileImage,
		TwoFactorEnabled: in.TwoFactorEnabled,
		ManagerID:        in.ManagerID,
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to hash password", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		params.PasswordHash = &hash
	}

	if err := s.repo.UpdateUser(r.Context(), r.PathValue("id"), params); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeMessage(w, "User updated")
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeMessage(w, "User deleted")
}

// handleSaveNotifications mirrors the expense batch semantics: per-row
// failures are logged and skipped, the response is always 200.
func (s *Server) handleSaveNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := decodeOneOrMany[core.Notification](r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	for _, n := range notifications {
		if err := n.Validate(); err != nil {
			slog.WarnContext(ctx, "Skipping invalid notification", "id", n.ID, "error", err)
			continue
		}
		if err := s.repo.InsertNotification(ctx, n); err != nil {
			slog.WarnContext(ctx, "Failed to insert notification", "id", n.ID, "error", err)
		}
	}

	writeMessage(w, "Notifications saved")
}

func (s *Server) handleClearNotifications(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RecipientID string `json:"recipientId"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.repo.ClearNotifications(r.Context(), in.RecipientID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeMessage(w, "Notifications cleared")
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in core.Settings
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.repo.UpsertSettings(r.Context(), in.SessionTimeout, in.LoginNotifications); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeMessage(w, "Settings updated")
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.ClearAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeMessage(w, "Data cleared")
}
