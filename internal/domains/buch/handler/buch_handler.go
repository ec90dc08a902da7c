package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"buchladen-backend/internal/domains/buch/model"
	"buchladen-backend/internal/domains/buch/service"
	"buchladen-backend/internal/shared/response"
	"buchladen-backend/pkg/logger"
)

// CleanupFunc is invoked after a record was deleted so its blobs can be
// purged (synchronously or via the queue, depending on configuration).
type CleanupFunc func(ctx *gin.Context, id string)

// Handler serves the buch REST surface.
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

type buchResource struct {
	model.Buch
	Links links `json:"_links"`
}

// GetAll handles GET /buecher with optional query filters.
func (h *Handler) GetAll(c *gin.Context) {
	criteria := parseCriteria(c)

	buecher, err := h.service.Find(c.Request.Context(), criteria)
	if err != nil {
		h.internalError(c, err)
		return
	}
	if len(buecher) == 0 {
		c.Status(http.StatusNotFound)
		return
	}

	base := baseURL(c)
	resources := make([]buchResource, len(buecher))
	for i, buch := range buecher {
		resources[i] = buchResource{
			Buch:  buch,
			Links: links{Self: link{Href: base + "/" + buch.ID}},
		}
	}

	c.JSON(http.StatusOK, resources)
}

// GetByID handles GET /buecher/:id with ETag / If-None-Match support.
func (h *Handler) GetByID(c *gin.Context) {
	id := c.Param("id")

	buch, err := h.service.FindByID(c.Request.Context(), id)
	if errors.Is(err, model.ErrBuchNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		h.internalError(c, err)
		return
	}

	etag := fmt.Sprintf("%q", strconv.Itoa(buch.Version))
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	base := baseURL(c)
	self := base + "/" + buch.ID
	c.Header("ETag", etag)
	c.JSON(http.StatusOK, buchResource{
		Buch: *buch,
		Links: links{
			Self:   link{Href: self},
			List:   &link{Href: base},
			Add:    &link{Href: base},
			Update: &link{Href: self},
			Remove: &link{Href: self},
		},
	})
}

// Create handles POST /buecher.
func (h *Handler) Create(c *gin.Context) {
	if !isJSON(c) {
		c.Status(http.StatusNotAcceptable)
		return
	}

	var buch model.Buch
	if err := c.ShouldBindJSON(&buch); err != nil {
		response.Error(c, http.StatusBadRequest, "request body is not parseable JSON")
		return
	}

	created, err := h.service.Create(c.Request.Context(), &buch)
	if err != nil {
		var validationErr *model.ValidationError
		var titelErr *model.TitelExistsError
		var isbnErr *model.IsbnExistsError
		switch {
		case errors.As(err, &validationErr):
			response.ValidationErrors(c, http.StatusBadRequest, validationErr.Errors)
		case errors.As(err, &titelErr), errors.As(err, &isbnErr):
			response.Text(c, http.StatusBadRequest, err.Error())
		default:
			h.internalError(c, err)
		}
		return
	}

	c.Header("Location", baseURL(c)+"/"+created.ID)
	c.JSON(http.StatusCreated, created)
}

// Update handles PUT /buecher/:id with If-Match precondition handling.
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

	var buch model.Buch
	if err := c.ShouldBindJSON(&buch); err != nil {
		response.Error(c, http.StatusBadRequest, "request body is not parseable JSON")
		return
	}
	buch.ID = c.Param("id")

	updated, err := h.service.Update(c.Request.Context(), &buch, versionToken)
	if err != nil {
		var validationErr *model.ValidationError
		var titelErr *model.TitelExistsError
		var versionInvalid *model.VersionInvalidError
		var versionOutdated *model.VersionOutdatedError
		switch {
		case errors.As(err, &validationErr):
			response.ValidationErrors(c, http.StatusBadRequest, validationErr.Errors)
		case errors.As(err, &titelErr),
			errors.As(err, &versionInvalid),
			errors.As(err, &versionOutdated),
			errors.Is(err, model.ErrBuchNotFound):
			response.Text(c, http.StatusPreconditionFailed, err.Error())
		default:
			h.internalError(c, err)
		}
		return
	}

	c.Header("ETag", fmt.Sprintf("%q", strconv.Itoa(updated.Version)))
	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /buecher/:id; it answers 204 regardless of
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

// Export handles GET /buecher/export and streams an xlsx workbook.
func (h *Handler) Export(c *gin.Context) {
	reader, err := h.service.ExportExcel(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="buecher.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) internalError(c *gin.Context, err error) {
	logger.Error("buch handler failed", err)
	c.Status(http.StatusInternalServerError)
}

func parseCriteria(c *gin.Context) model.SearchCriteria {
	criteria := model.SearchCriteria{
		Titel:  c.Query("titel"),
		Art:    c.Query("art"),
		Verlag: c.Query("verlag"),
		Isbn:   c.Query("isbn"),
	}

	if v := c.Query("rating"); v != "" {
		if rating, err := strconv.Atoi(v); err == nil {
			criteria.Rating = &rating
		}
	}
	if v := c.Query("lieferbar"); v != "" {
		if lieferbar, err := strconv.ParseBool(v); err == nil {
			criteria.Lieferbar = &lieferbar
		}
	}

	// Recognized tag keys map to canonical uppercase values; anything
	// else is ignored.
	if isTruthy(c.Query("javascript")) {
		criteria.Schlagwoerter = append(criteria.Schlagwoerter, model.SchlagwortJavascript)
	}
	if isTruthy(c.Query("typescript")) {
		criteria.Schlagwoerter = append(criteria.Schlagwoerter, model.SchlagwortTypescript)
	}

	return criteria
}

func isTruthy(v string) bool {
	ok, err := strconv.ParseBool(v)
	return err == nil && ok
}

func isJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "application/json")
}

func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/api/v1/buecher", scheme, c.Request.Host)
}
