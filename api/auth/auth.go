package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Adedunmol/stresspulse/api/custom_errors"
	"github.com/Adedunmol/stresspulse/api/jsonutil"
	"github.com/Adedunmol/stresspulse/api/tokens"
)

type Handler struct {
	Store Store
	Token tokens.TokenService
	Log   *zap.Logger
}

// LoginHandler never tells the caller which of email or password was wrong.
func (h *Handler) LoginHandler(responseWriter http.ResponseWriter, request *http.Request) {
	data, err := jsonutil.UnmarshalJsonResponse[LoginBody](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err)
		return
	}

	admin, err := h.Store.FindAdminByEmail(request.Context(), data.Email)
	if err != nil {
		if errors.Is(err, custom_errors.ErrNotFound) {
			jsonutil.WriteError(responseWriter, custom_errors.ErrUnauthorized)
			return
		}
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	if !h.Token.ComparePasswords(admin.Password, data.Password) {
		jsonutil.WriteError(responseWriter, custom_errors.ErrUnauthorized)
		return
	}

	token, err := h.Token.GenerateToken(admin.ID, admin.Email)
	if err != nil {
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	response := LoginResponse{
		ID:    admin.ID,
		Name:  admin.Name,
		Email: admin.Email,
		Token: token,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

// SeedAdmin creates the admin account, or resets its name and password if
// the email is already registered.
func SeedAdmin(ctx context.Context, store Store, tokenService tokens.TokenService, body SeedAdminBody) (Admin, error) {
	if err := jsonutil.Validate(body); err != nil {
		return Admin{}, err
	}

	hashed, err := tokenService.HashPassword(body.Password)
	if err != nil {
		return Admin{}, err
	}

	admin, err := store.UpsertAdmin(ctx, Admin{Name: body.Name, Email: body.Email, Password: hashed})
	if err != nil {
		return Admin{}, fmt.Errorf("error seeding admin: %w", err)
	}
	return admin, nil
}
