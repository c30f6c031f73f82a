package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	h "eventcheckin/internal/delivery/http/helpers"
	"eventcheckin/internal/delivery/http/middleware"
	"eventcheckin/internal/domain"
)

// phoneRegexp matches a 10-digit phone number.
var phoneRegexp = regexp.MustCompile(`^[0-9]{10}$`)

// RegisterPersonRequest is the request body for POST /users/register and
// POST /users/onspot
type RegisterPersonRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Gender      string `json:"gender"` // "M", "F", or "O"
	Address     string `json:"address"`
	IsNamdharak bool   `json:"is_namdharak"`
}

// Validate implements Validator.
func (p RegisterPersonRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	phone := strings.TrimSpace(p.Phone)
	if phone == "" {
		errs = append(errs, "phone is required")
	} else if !phoneRegexp.MatchString(phone) {
		errs = append(errs, "phone must be a 10-digit number")
	}
	switch p.Gender {
	case domain.GenderMale, domain.GenderFemale, domain.GenderOther:
	case "":
		errs = append(errs, "gender is required")
	default:
		errs = append(errs, "gender must be \"M\", \"F\", or \"O\"")
	}
	if strings.TrimSpace(p.Address) == "" {
		errs = append(errs, "address is required")
	}
	return errs
}

func (p RegisterPersonRequest) toInput() domain.RegistrationInput {
	return domain.RegistrationInput{
		Name:        strings.TrimSpace(p.Name),
		Phone:       strings.TrimSpace(p.Phone),
		Gender:      p.Gender,
		Address:     strings.TrimSpace(p.Address),
		IsNamdharak: p.IsNamdharak,
	}
}

// CheckInRequest is the request body for POST /users/checkin
type CheckInRequest struct {
	Phone string `json:"phone"`
}

// Validate implements Validator.
func (c CheckInRequest) Validate() []string {
	var errs []string
	phone := strings.TrimSpace(c.Phone)
	if phone == "" {
		errs = append(errs, "phone is required")
	} else if !phoneRegexp.MatchString(phone) {
		errs = append(errs, "phone must be a 10-digit number")
	}
	return errs
}

// ListPersonsResponse is the response body for GET /users
type ListPersonsResponse struct {
	Persons    []*domain.Person `json:"persons"`
	Pagination h.PaginationMeta `json:"pagination"`
}

type PersonController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewPersonController(logger *slog.Logger, svc domain.RegistrationService) *PersonController {
	return &PersonController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register for the active event
// @Description Self registration by phone number. Creates the person on first contact; an existing person is registered for the active event. Returns the person, the event, and a QR credential. Public.
// @Tags persons
// @Accept json
// @Produce json
// @Param body body RegisterPersonRequest true "Attendee data"
// @Success 201 {object} helpers.APIResponse "data contains person, event, and qr_code"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or conflict (already registered; details contain is_registered and person_id)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no active event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/register [post]
func (c *PersonController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterPersonRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.RegisterSelf(r.Context(), req.toInput())
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, result)
}

// RegisterOnSpot godoc
// @Summary Register an attendee at the venue
// @Description Staff registration with immediate check-in for the active event. Requires authentication.
// @Tags persons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterPersonRequest true "Attendee data"
// @Success 201 {object} helpers.APIResponse "data contains person, event, and qr_code"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or conflict"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no active event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/onspot [post]
func (c *PersonController) RegisterOnSpot(w http.ResponseWriter, r *http.Request) {
	var req RegisterPersonRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	staffID, _, ok := middleware.StaffFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	result, err := c.Service.RegisterOnSpot(r.Context(), req.toInput(), staffID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, result)
}

// CheckIn godoc
// @Summary Check in an attendee
// @Description Records attendance for the phone number at the active event. The scanned QR credential carries the phone number. Requires authentication.
// @Tags persons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CheckInRequest true "Phone number"
// @Success 200 {object} helpers.APIResponse "data contains the checked-in person"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (not registered) or conflict (already checked in)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown phone or no active event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/checkin [post]
func (c *PersonController) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	staffID, _, ok := middleware.StaffFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	person, err := c.Service.CheckIn(r.Context(), strings.TrimSpace(req.Phone), staffID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, person)
}

// LookupByPhone godoc
// @Summary Look up a registration by phone
// @Description Returns the person, the active event, and a re-derived QR credential for an attendee registered for the active event. Public, so attendees can recover a lost credential.
// @Tags persons
// @Produce json
// @Param phone path string true "10-digit phone number"
// @Success 200 {object} helpers.APIResponse "data contains person, event, and qr_code"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (not registered for the active event)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown phone or no active event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/phone/{phone} [get]
func (c *PersonController) LookupByPhone(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(r.PathValue("phone"))
	if !phoneRegexp.MatchString(phone) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "phone must be a 10-digit number")
		return
	}
	result, err := c.Service.LookupByPhone(r.Context(), phone)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, result)
}

// List godoc
// @Summary List persons registered for the active event
// @Description Paginated list with optional filters: gender, address (substring), registration_method, and checked_in. Requires authentication.
// @Tags persons
// @Produce json
// @Security BearerAuth
// @Param gender query string false "Filter by gender: M, F, or O"
// @Param address query string false "Filter by address substring (case-insensitive)"
// @Param registration_method query string false "Filter by method: self, on-spot, or admin"
// @Param checked_in query bool false "Filter by check-in status for the active event"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains persons and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no active event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users [get]
func (c *PersonController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.PersonFilter{
		Gender:             q.Get("gender"),
		AddressContains:    q.Get("address"),
		RegistrationMethod: q.Get("registration_method"),
	}
	if s := q.Get("checked_in"); s != "" {
		checkedIn := s == "true" || s == "1"
		filter.CheckedIn = &checkedIn
	}
	p := h.ParsePagination(r)
	persons, total, err := c.Service.ListPersons(r.Context(), filter, p)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ListPersonsResponse{
		Persons:    persons,
		Pagination: h.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}
