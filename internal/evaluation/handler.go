package evaluation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"hv-analyzer/internal/refdata"
	"hv-analyzer/internal/report"
	"hv-analyzer/internal/shared/metrics"
	"hv-analyzer/internal/shared/server/middleware"
	"hv-analyzer/internal/shared/server/respond"
	"hv-analyzer/internal/shared/telemetry"
	"hv-analyzer/internal/shared/util"
)

const DefaultMaxUploadBytes = 10 << 20 // 10MB

// File field names accepted for the uploaded HV.
var fileFields = []string{"pdf", "hvfile"}

// ReferenceAdmin exposes the reference catalog and cache maintenance.
type ReferenceAdmin interface {
	Catalog() refdata.Catalog
	Reload() int
	Warm(ctx context.Context) error
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	References     ReferenceAdmin
	MaxUploadBytes int64
	AdminToken     string

	templates *template.Template
}

// NewHandler constructs a Handler and parses the HTML templates.
func NewHandler(svc *Service, refs ReferenceAdmin, maxUploadBytes int64, adminToken string) (*Handler, error) {
	tmpl, err := report.Templates()
	if err != nil {
		return nil, err
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		Svc:            svc,
		References:     refs,
		MaxUploadBytes: maxUploadBytes,
		AdminToken:     adminToken,
		templates:      tmpl,
	}, nil
}

// RegisterPages attaches the HTML form and report routes.
func (h *Handler) RegisterPages(r gin.IRoutes) {
	r.GET("/", h.form)
	r.POST("/analizar", h.analyzePage)
}

// RegisterRoutes attaches the JSON API routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
	rg.GET("/reference/roles", h.roles)
	rg.POST("/reference/reload", middleware.AdminToken(h.AdminToken), h.reload)
}

func (h *Handler) form(c *gin.Context) {
	catalog := h.References.Catalog()
	h.html(c, http.StatusOK, report.IndexTemplate, report.FormPage{
		Roles:    catalog.Roles,
		Chapters: catalog.Chapters,
		MaxMB:    h.MaxUploadBytes >> 20,
	})
}

func (h *Handler) analyze(c *gin.Context) {
	result, err := h.run(c)
	if err != nil {
		status, code, message, details := h.classify(err)
		respond.Error(c, status, code, message, details)
		return
	}

	resp := ToResponse(result)
	if strings.EqualFold(c.Query("format"), "xlsx") {
		h.xlsx(c, resp)
		return
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) analyzePage(c *gin.Context) {
	result, err := h.run(c)
	if err != nil {
		status, code, message, _ := h.classify(err)
		h.html(c, status, report.ErrorTemplate, report.ErrorPage{Status: status, Code: code, Message: message})
		return
	}
	h.html(c, http.StatusOK, report.ReportTemplate, ToResponse(result))
}

func (h *Handler) roles(c *gin.Context) {
	catalog := h.References.Catalog()
	respond.OK(c, gin.H{
		"roles":    catalog.Roles,
		"chapters": catalog.Chapters,
	})
}

func (h *Handler) reload(c *gin.Context) {
	dropped := h.References.Reload()
	metrics.IncReferenceReload()
	if err := h.References.Warm(c.Request.Context()); err != nil {
		telemetry.Error("refdata.warm_failed", map[string]any{
			"err":        err,
			"request_id": middleware.RequestIDFromContext(c),
		})
		respond.Error(c, http.StatusInternalServerError, ErrorCodeConfiguration, "reference data could not be reloaded", gin.H{
			"dropped": dropped,
		})
		return
	}
	respond.OK(c, gin.H{"dropped": dropped, "reloaded": true})
}

// run reads the multipart submission and analyzes it. Temporary files of
// the parsed form are removed before returning.
func (h *Handler) run(c *gin.Context) (Result, error) {
	if c.Request.ContentLength > h.MaxUploadBytes {
		return Result{}, errTooLarge
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	sub, err := h.readSubmission(c)
	if c.Request.MultipartForm != nil {
		defer func() { _ = c.Request.MultipartForm.RemoveAll() }()
	}
	if err != nil {
		return Result{}, err
	}

	c.Set(middleware.RoleKey, sub.Role)
	c.Set(middleware.ChapterKey, sub.Chapter)

	result, err := h.Svc.Analyze(c.Request.Context(), sub)
	if err != nil {
		return Result{}, err
	}
	c.Set(middleware.EvaluationIDKey, result.ID)
	return result, nil
}

func (h *Handler) readSubmission(c *gin.Context) (Submission, error) {
	if err := c.Request.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Submission{}, errTooLarge
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			return Submission{}, &ValidationError{Field: "pdf", Issue: "could not be read from the form"}
		}
	}

	sub := Submission{
		Name:    strings.TrimSpace(c.PostForm("nombre")),
		Role:    strings.TrimSpace(c.PostForm("cargo")),
		Chapter: strings.TrimSpace(c.PostForm("capitulo")),
	}

	header, err := formFile(c)
	if err != nil {
		// Field validation runs first so a missing name is reported before
		// a missing file.
		if verr := Validate(sub); verr != nil {
			return Submission{}, verr
		}
		return Submission{}, &ValidationError{Field: "pdf", Issue: "file is required"}
	}

	data, err := readAll(header)
	if err != nil {
		return Submission{}, err
	}
	if name, err := util.SanitizeFileName(header.Filename); err == nil {
		sub.FileName = name
	}
	sub.MimeType = header.Header.Get("Content-Type")
	sub.Data = data
	return sub, nil
}

func formFile(c *gin.Context) (*multipart.FileHeader, error) {
	var lastErr error
	for _, field := range fileFields {
		header, err := c.FormFile(field)
		if err == nil {
			return header, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func readAll(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, &ValidationError{Field: "pdf", Issue: "unable to read file"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &ValidationError{Field: "pdf", Issue: "unable to read file"}
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

var errTooLarge = errors.New("upload exceeds size limit")

// classify maps an analysis error onto an HTTP status, error code, message
// and details.
func (h *Handler) classify(err error) (int, string, string, any) {
	var (
		valErr *ValidationError
		extErr *ExtractionError
		cfgErr *refdata.ConfigError
	)
	switch {
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge, ErrorCodeRequestTooLong,
			fmt.Sprintf("file exceeds the %d MB limit", h.MaxUploadBytes>>20), gin.H{"maxBytes": h.MaxUploadBytes}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, ErrorCodeCanceled, "the request was canceled before the analysis finished", nil
	case errors.As(err, &valErr):
		return http.StatusBadRequest, ErrorCodeValidation, fmt.Sprintf("%s %s", valErr.Field, valErr.Issue), gin.H{"field": valErr.Field}
	case errors.As(err, &extErr):
		return http.StatusUnprocessableEntity, ErrorCodeExtraction, "could not extract text from the document", gin.H{"reason": extErr.Reason()}
	case errors.As(err, &cfgErr):
		if cfgErr.UserFacing() {
			return http.StatusUnprocessableEntity, ErrorCodeConfiguration, cfgErr.Error(), gin.H{"role": cfgErr.Role, "chapter": cfgErr.Chapter}
		}
		return http.StatusInternalServerError, ErrorCodeConfiguration, "reference data is not available", nil
	default:
		telemetry.Error("evaluation.failed", map[string]any{"err": err})
		return http.StatusInternalServerError, ErrorCodeInternal, "unexpected error while analyzing", nil
	}
}

func (h *Handler) html(c *gin.Context, status int, name string, data any) {
	c.Render(status, render.HTML{Template: h.templates, Name: name, Data: data})
}

func (h *Handler) xlsx(c *gin.Context, resp report.Response) {
	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, resp); err != nil {
		telemetry.Error("report.xlsx_failed", map[string]any{
			"evaluation_id": resp.EvaluationID,
			"err":           err,
		})
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to render workbook", nil)
		return
	}
	respond.Attachment(c, fmt.Sprintf("evaluacion-%s.xlsx", resp.EvaluationID), report.XLSXContentType, buf.Bytes())
}
