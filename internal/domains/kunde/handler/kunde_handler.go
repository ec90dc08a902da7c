package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"buchladen-backend/internal/domains/kunde/model"
	"buchladen-backend/internal/domains/kunde/service"
	"buchladen-backend/internal/shared/response"
	"buchladen-backend/pkg/logger"
)

// CleanupFunc is invoked after a record was deleted so its blobs can be
// purged (synchronously or via the queue, depending on configuration).
type CleanupFunc func(ctx *gin.Context, id string)

// Handler serves the kunde REST surface.
type Handler struct {
	service service.Service
	cleanup CleanupFunc
}

func NewHandler(svc service.Service, cleanup CleanupFunc) *Handler {
	return &Handler{service: svc, cleanup: cleanup}
}

type link struct {
	Href string `json:"href"`
}

type links struct {
	Self   link  `json:"self"`
	List   *link `json:"list,omitempty"`
	Add    *link `json:"add,omitempty"`
	Update *link `json:"update,omitempty"`
	Remove *link `json:"remove,omitempty"`
}

type kundeResource struct {
	model.Kunde
	Links links `json:"_links"`
}

// GetAll handles GET /kunden with optional query filters.
func (h *Handler) GetAll(c *gin.Context) {
	criteria := parseCriteria(c)

	kunden, err := h.service.Find(c.Request.Context(), criteria)
	if err != nil {
		h.internalError(c, err)
		return
	}
	if len(kunden) == 0 {
		c.Status(http.StatusNotFound)
		return
	}

	base := baseURL(c)
	resources := make([]kundeResource, len(kunden))
	for i, kunde := range kunden {
		resources[i] = kundeResource{
			Kunde: kunde,
			Links: links{Self: link{Href: base + "/" + kunde.ID}},
		}
	}

	c.JSON(http.StatusOK, resources)
}

// GetByID handles GET /kunden/:id with ETag / If-None-Match support.
func (h *Handler) GetByID(c *gin.Context) {
	id := c.Param("id")

	kunde, err := h.service.FindByID(c.Request.Context(), id)
	if errors.Is(err, model.ErrKundeNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		h.internalError(c, err)
		return
	}

	etag := fmt.Sprintf("%q", strconv.Itoa(kunde.Version))
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	base := baseURL(c)
	self := base + "/" + kunde.ID
	c.Header("ETag", etag)
	c.JSON(http.StatusOK, kundeResource{
		Kunde: *kunde,
		Links: links{
			Self:   link{Href: self},
			List:   &link{Href: base},
			Add:    &link{Href: base},
			Update: &link{Href: self},
			Remove: &link{Href: self},
		},
	})
}

// Create handles POST /kunden.
func (h *Handler) Create(c *gin.Context) {
	if !isJSON(c) {
		c.Status(http.StatusNotAcceptable)
		return
	}

	var kunde model.Kunde
	if err := c.ShouldBindJSON(&kunde); err != nil {
		response.Error(c, http.StatusBadRequest, "request body is not parseable JSON")
		return
	}

	created, err := h.service.Create(c.Request.Context(), &kunde)
	if err != nil {
		var validationErr *model.ValidationError
		var nachnameErr *model.NachnameExistsError
		var strasseErr *model.StrasseExistsError
		switch {
		case errors.As(err, &validationErr):
			response.ValidationErrors(c, http.StatusBadRequest, validationErr.Errors)
		case errors.As(err, &nachnameErr), errors.As(err, &strasseErr):
			response.Text(c, http.StatusBadRequest, err.Error())
		default:
			h.internalError(c, err)
		}
		return
	}

	c.Header("Location", baseURL(c)+"/"+created.ID)
	c.JSON(http.StatusCreated, created)
}

// Update handles PUT /kunden/:id with If-Match precondition handling.
func (h *Handler) Update(c *gin.Context) {
	if !isJSON(c) {
		c.Status(http.StatusNotAcceptable)
		return
	}

	header := c.GetHeader("If-Match")
	if header == "" {
		response.Text(c, http.StatusPreconditionRequired, `header "If-Match" is required`)
		return
	}
	if len(header) < 3 {
		response.Text(c, http.StatusPreconditionFailed, fmt.Sprintf("invalid If-Match header %q", header))
		return
	}
	versionToken := strings.Trim(header, `"`)

	var kunde model.Kunde
	if err := c.ShouldBindJSON(&kunde); err != nil {
		response.Error(c, http.StatusBadRequest, "request body is not parseable JSON")
		return
	}
	kunde.ID = c.Param("id")

	updated, err := h.service.Update(c.Request.Context(), &kunde, versionToken)
	if err != nil {
		var validationErr *model.ValidationError
		var nachnameErr *model.NachnameExistsError
		var versionInvalid *model.VersionInvalidError
		var versionOutdated *model.VersionOutdatedError
		switch {
		case errors.As(err, &validationErr):
			response.ValidationErrors(c, http.StatusBadRequest, validationErr.Errors)
		case errors.As(err, &nachnameErr),
			errors.As(err, &versionInvalid),
			errors.As(err, &versionOutdated),
			errors.Is(err, model.ErrKundeNotFound):
			response.Text(c, http.StatusPreconditionFailed, err.Error())
		default:
			h.internalError(c, err)
		}
		return
	}

	c.Header("ETag", fmt.Sprintf("%q", strconv.Itoa(updated.Version)))
	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /kunden/:id; it answers 204 regardless of
// whether anything was deleted.
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")

	deleted, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		h.internalError(c, err)
		return
	}

	if deleted && h.cleanup != nil {
		h.cleanup(c, id)
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) internalError(c *gin.Context, err error) {
	logger.Error("kunde handler failed", err)
	c.Status(http.StatusInternalServerError)
}

func parseCriteria(c *gin.Context) model.SearchCriteria {
	criteria := model.SearchCriteria{
		Vorname:    c.Query("vorname"),
		Nachname:   c.Query("nachname"),
		Geschlecht: c.Query("geschlecht"),
		Kundenart:  c.Query("kundenart"),
		Plz:        c.Query("plz"),
	}

	if v := c.Query("aktiv"); v != "" {
		if aktiv, err := strconv.ParseBool(v); err == nil {
			criteria.Aktiv = &aktiv
		}
	}

	return criteria
}

func isJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "application/json")
}

func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/api/v1/kunden", scheme, c.Request.Host)
}
