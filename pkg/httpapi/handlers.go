package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"github.com/goliatone/go-rivegen/pkg/orchestrator"
	"github.com/goliatone/go-rivegen/pkg/render"
	"github.com/goliatone/go-rivegen/pkg/schema"
)

const warningHeader = "X-Rivegen-Warning"

type generateRequest struct {
	Template string            `json:"template"`
	Schema   json.RawMessage   `json:"schema"`
	Filename string            `json:"filename"`
	AliasMap map[string]string `json:"aliasMap"`
	Options  map[string]any    `json:"options"`
}

type presetRequest struct {
	Schema   json.RawMessage `json:"schema"`
	Filename string          `json:"filename"`
	Label    string          `json:"label"`
	Layer    int             `json:"layer"`
}

func (s *Server) healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Server) listTemplates(c echo.Context) error {
	templates := s.compiler.Templates()
	if templates == nil {
		templates = []render.Descriptor{}
	}
	return c.JSON(http.StatusOK, templates)
}

func (s *Server) generate(c echo.Context) error {
	var req generateRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	template := strings.TrimSpace(req.Template)
	if template != "" && !s.compiler.HasTemplate(template) {
		return fmt.Errorf("%w: %q", render.ErrUnknownTemplate, template)
	}

	parsed, err := schema.Parse(req.Schema, schema.FormatJSON)
	if err != nil {
		return err
	}

	result, err := s.compiler.Compile(c.Request().Context(), orchestrator.Request{
		Template: template,
		Schema:   parsed,
		Filename: req.Filename,
		AliasMap: req.AliasMap,
		Options:  render.Options(req.Options),
	})
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		c.Response().Header().Add(warningHeader, warning)
	}
	return attachment(c, result.Document.Filename, result.Document.ContentType(), result.Document.Content)
}

func (s *Server) preset(c echo.Context) error {
	var req presetRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	parsed, err := schema.Parse(req.Schema, schema.FormatJSON)
	if err != nil {
		return err
	}

	p, err := s.compiler.Preset(c.Request().Context(), parsed, req.Filename, orchestrator.PresetRequest{
		Label: req.Label,
		Layer: req.Layer,
	})
	if err != nil {
		return err
	}
	return attachment(c, p.Filename, p.ContentType(), p.Content)
}

func decodeBody(c echo.Context, target any) error {
	err := c.Echo().JSONSerializer.Deserialize(c, target)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: request body is required", orchestrator.ErrInvalidRequest)
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Code == http.StatusBadRequest {
			return fmt.Errorf("%w: %v", orchestrator.ErrInvalidRequest, httpErr.Message)
		}
		return err
	}
	return fmt.Errorf("%w: decode body: %v", orchestrator.ErrInvalidRequest, err)
}

func attachment(c echo.Context, filename, contentType string, content []byte) error {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, disposition)
	return c.Blob(http.StatusOK, contentType, content)
}
