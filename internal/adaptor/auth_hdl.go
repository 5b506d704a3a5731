package adaptor

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"goride/internal/dto/request"
	"goride/internal/usecase"
	"goride/pkg/storage"
	"goride/pkg/utils"

	"go.uber.org/zap"
)

// documentFields are the upload form fields accepted at registration.
var documentFields = []string{"profilePhoto", "license", "rc", "aadhaar", "vehiclePhoto"}

type AuthHandler struct {
	service usecase.AuthService
	store   storage.Storage
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, store storage.Storage, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		store:   store,
		log:     log,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeRegister(r)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	response, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "register")
		return
	}

	utils.ResponseCreated(w, "User registered successfully", response)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	response, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", response)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	response, err := h.service.Me(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "load profile")
		return
	}

	utils.ResponseSuccess(w, "Profile loaded", response)
}

// ForgotPassword handles POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ForgotPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		h.handleServiceError(w, err, "forgot password")
		return
	}

	utils.ResponseSuccess(w, "OTP sent to email", nil)
}

// ResetPassword handles POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.ResetPassword(r.Context(), &req); err != nil {
		h.handleServiceError(w, err, "reset password")
		return
	}

	utils.ResponseSuccess(w, "Password reset successful", nil)
}

// decodeRegister accepts either multipart form data (with document uploads)
// or plain JSON.
func (h *AuthHandler) decodeRegister(r *http.Request) (*request.RegisterRequest, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var req request.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, err
	}

	req := &request.RegisterRequest{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	}
	if plate := r.FormValue("numberPlate"); plate != "" {
		req.NumberPlate = &plate
	}

	for _, field := range documentFields {
		path, err := h.saveUpload(r, field)
		if err != nil {
			return nil, err
		}
		if path == "" {
			continue
		}

		p := path
		switch field {
		case "profilePhoto":
			req.ProfilePhoto = &p
		case "license":
			req.License = &p
		case "rc":
			req.RC = &p
		case "aadhaar":
			req.Aadhaar = &p
		case "vehiclePhoto":
			req.VehiclePhoto = &p
		}
	}

	return req, nil
}

// saveUpload stores one optional form file and returns its opaque path.
func (h *AuthHandler) saveUpload(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()

	return h.storeFile(r, field, file, header)
}

func (h *AuthHandler) storeFile(r *http.Request, field string, file multipart.File, header *multipart.FileHeader) (string, error) {
	path, err := h.store.Save(r.Context(), field, header.Filename, file)
	if err != nil {
		h.log.Error("Failed to store upload",
			zap.Error(err),
			zap.String("field", field),
			zap.String("filename", header.Filename))
		return "", err
	}
	return path, nil
}

// handleServiceError maps domain failures onto responses
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrDuplicateEmail):
		h.log.Warn(operation+" failed - duplicate email", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrInvalidCredentials):
		h.log.Warn(operation+" failed - invalid credentials", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrInvalidOrExpiredOTP):
		h.log.Warn(operation+" failed - invalid OTP", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrValidation):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
