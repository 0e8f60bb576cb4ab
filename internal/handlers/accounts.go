package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"care-dispatch/internal/logger"
	"care-dispatch/internal/middleware"
	"care-dispatch/internal/models"
	"care-dispatch/internal/services"
)

// AccountHandler представляет обработчик учетных записей
type AccountHandler struct {
	accountService *services.AccountService
	cacheService   *services.CacheService
	uploader       *middleware.Uploader
	log            *logger.Logger
}

// NewAccountHandler создает новый обработчик учетных записей
func NewAccountHandler(accountService *services.AccountService, cacheService *services.CacheService, uploader *middleware.Uploader, log *logger.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		cacheService:   cacheService,
		uploader:       uploader,
		log:            log,
	}
}

// RegisterUser регистрирует нового пользователя
func (h *AccountHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.RegisterUserRequest
	if isMultipart(r) {
		if err := h.parseUserForm(r, &req); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.accountService.RegisterUser(r.Context(), &req)
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.log.WithError(err).Error("Failed to register user")
			writeErrorResponse(w, http.StatusInternalServerError, "Failed to register user")
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, user)
}

// LoginUser выполняет вход пользователя
func (h *AccountHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.accountService.LoginUser)
}

// RegisterAssistant регистрирует нового помощника
func (h *AccountHandler) RegisterAssistant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.RegisterAssistantRequest
	if isMultipart(r) {
		if err := h.parseAssistantForm(r, &req); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	assistant, err := h.accountService.RegisterAssistant(r.Context(), &req)
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.log.WithError(err).Error("Failed to register assistant")
			writeErrorResponse(w, http.StatusInternalServerError, "Failed to register assistant")
			return
		}
		writeServiceError(w, err)
		return
	}

	// Справочник свободных помощников изменился
	if err := h.cacheService.Delete(r.Context(), services.BuildKey("assistants", "available")); err != nil {
		h.log.WithError(err).Error("Failed to invalidate assistants cache")
	}

	writeJSONResponse(w, http.StatusCreated, assistant)
}

// LoginAssistant выполняет вход помощника
func (h *AccountHandler) LoginAssistant(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.accountService.LoginAssistant)
}

// RegisterDoctor регистрирует нового врача
func (h *AccountHandler) RegisterDoctor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.RegisterDoctorRequest
	if isMultipart(r) {
		if err := h.parseDoctorForm(r, &req); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doctor, err := h.accountService.RegisterDoctor(r.Context(), &req)
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.log.WithError(err).Error("Failed to register doctor")
			writeErrorResponse(w, http.StatusInternalServerError, "Failed to register doctor")
			return
		}
		writeServiceError(w, err)
		return
	}

	if err := h.cacheService.Delete(r.Context(), services.BuildKey("doctors", "all")); err != nil {
		h.log.WithError(err).Error("Failed to invalidate doctors cache")
	}

	writeJSONResponse(w, http.StatusCreated, doctor)
}

// LoginDoctor выполняет вход врача
func (h *AccountHandler) LoginDoctor(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.accountService.LoginDoctor)
}

// AvailableAssistants возвращает справочник свободных помощников
func (h *AccountHandler) AvailableAssistants(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := r.URL.Query()
	lat, err := parseOptionalFloat(query.Get("latitude"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid latitude")
		return
	}
	lon, err := parseOptionalFloat(query.Get("longitude"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid longitude")
		return
	}

	// Кешируем только неаннотированный справочник: расстояния зависят от
	// координат запрашивающего
	cacheKey := services.BuildKey("assistants", "available")
	if lat == nil && lon == nil {
		var cached []models.AssistantSummary
		if found, _ := h.cacheService.Get(r.Context(), cacheKey, &cached); found {
			writeJSONResponse(w, http.StatusOK, cached)
			return
		}
	}

	assistants, err := h.accountService.AvailableAssistants(r.Context(), lat, lon)
	if err != nil {
		h.log.WithError(err).Error("Failed to list assistants")
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to list assistants")
		return
	}

	if lat == nil && lon == nil {
		if err := h.cacheService.Set(r.Context(), cacheKey, assistants, h.cacheService.GetHotDataTTL()); err != nil {
			h.log.WithError(err).Error("Failed to cache assistants")
		}
	}

	writeJSONResponse(w, http.StatusOK, assistants)
}

// Doctors возвращает справочник врачей
func (h *AccountHandler) Doctors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	cacheKey := services.BuildKey("doctors", "all")
	var cached []models.DoctorSummary
	if found, _ := h.cacheService.Get(r.Context(), cacheKey, &cached); found {
		writeJSONResponse(w, http.StatusOK, cached)
		return
	}

	doctors, err := h.accountService.Doctors(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to list doctors")
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to list doctors")
		return
	}

	if err := h.cacheService.Set(r.Context(), cacheKey, doctors, h.cacheService.GetDefaultTTL()); err != nil {
		h.log.WithError(err).Error("Failed to cache doctors")
	}

	writeJSONResponse(w, http.StatusOK, doctors)
}

// login обрабатывает вход для любой роли
func (h *AccountHandler) login(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, email, password string) (*models.LoginResponse, error)) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := fn(r.Context(), req.Email, req.Password)
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.log.WithError(err).Error("Login failed")
			writeErrorResponse(w, http.StatusInternalServerError, "Login failed")
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, resp)
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// parseUserForm разбирает multipart-форму регистрации пользователя
func (h *AccountHandler) parseUserForm(r *http.Request, req *models.RegisterUserRequest) error {
	if err := r.ParseMultipartForm(h.uploader.MaxSize()); err != nil {
		return err
	}

	req.Name = r.FormValue("name")
	req.Email = r.FormValue("email")
	req.Password = r.FormValue("password")
	req.Address = optionalFormValue(r, "address")
	req.DOB = optionalFormValue(r, "dob")
	req.Gender = optionalFormValue(r, "gender")
	req.Number = optionalFormValue(r, "number")

	name, err := h.saveFormImage(r, "profile_picture")
	if err != nil {
		return err
	}
	req.ProfilePicture = name

	return nil
}

// parseAssistantForm разбирает multipart-форму регистрации помощника
func (h *AccountHandler) parseAssistantForm(r *http.Request, req *models.RegisterAssistantRequest) error {
	if err := r.ParseMultipartForm(h.uploader.MaxSize()); err != nil {
		return err
	}

	req.Name = r.FormValue("name")
	req.Email = r.FormValue("email")
	req.Password = r.FormValue("password")
	req.DOB = optionalFormValue(r, "dob")
	req.Gender = optionalFormValue(r, "gender")
	req.Number = optionalFormValue(r, "number")
	req.Address = optionalFormValue(r, "address")

	if v := r.FormValue("latitude"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		req.Latitude = &lat
	}
	if v := r.FormValue("longitude"); v != "" {
		lon, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		req.Longitude = &lon
	}

	picture, err := h.saveFormImage(r, "profile_picture")
	if err != nil {
		return err
	}
	req.ProfilePicture = picture

	proof, err := h.saveFormDocument(r, "id_proof")
	if err != nil {
		return err
	}
	req.IDProof = proof

	return nil
}

// parseDoctorForm разбирает multipart-форму регистрации врача
func (h *AccountHandler) parseDoctorForm(r *http.Request, req *models.RegisterDoctorRequest) error {
	if err := r.ParseMultipartForm(h.uploader.MaxSize()); err != nil {
		return err
	}

	req.Name = r.FormValue("name")
	req.Email = r.FormValue("email")
	req.Password = r.FormValue("password")
	req.Gender = r.FormValue("gender")
	req.DOB = optionalFormValue(r, "dob")
	req.RegNo = r.FormValue("reg_no")
	req.Specialization = r.FormValue("specialization")
	req.Address = r.FormValue("address")
	if v := r.FormValue("experience"); v != "" {
		exp, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		req.Experience = exp
	}

	picture, err := h.saveFormImage(r, "profile_picture")
	if err != nil {
		return err
	}
	req.ProfilePicture = picture

	proof, err := h.saveFormDocument(r, "id_proof")
	if err != nil {
		return err
	}
	req.IDProof = proof

	return nil
}

func (h *AccountHandler) saveFormImage(r *http.Request, field string) (*string, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	name, err := h.uploader.SaveImage(file, header)
	if err != nil {
		return nil, err
	}
	return &name, nil
}

func (h *AccountHandler) saveFormDocument(r *http.Request, field string) (*string, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	name, err := h.uploader.SaveDocument(file, header)
	if err != nil {
		return nil, err
	}
	return &name, nil
}

func optionalFormValue(r *http.Request, field string) *string {
	if v := r.FormValue(field); v != "" {
		return &v
	}
	return nil
}
