package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/huangsam/hoursight/core"
	"github.com/huangsam/hoursight/core/algo"
	"github.com/huangsam/hoursight/internal/contract"
	"github.com/huangsam/hoursight/internal/decode"
	"github.com/huangsam/hoursight/internal/outwriter"
	"github.com/huangsam/hoursight/schema"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// errorBody is the JSON document of every failed request.
type errorBody struct {
	Error string            `json:"error"`
	Stats *schema.DropStats `json:"stats,omitempty"`
}

// monthsBody lists the months of the current range with their labels.
type monthsBody struct {
	Months []schema.MonthKey `json:"months"`
	Labels []string          `json:"labels"`
}

// uploadBody acknowledges a dataset swap.
type uploadBody struct {
	Name    string           `json:"name"`
	Records int              `json:"records"`
	Stats   schema.DropStats `json:"stats"`
}

func (s *Server) handleHealth(c echo.Context) error {
	status := map[string]any{"status": "ok", "dataset": nil}
	if ds := s.Dataset(); ds != nil {
		status["dataset"] = ds.Name
	}
	return c.JSON(http.StatusOK, status)
}

func (s *Server) handleReport(c echo.Context) error {
	report, err := s.recompute(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleMonths(c echo.Context) error {
	report, err := s.recompute(c)
	if err != nil {
		return s.fail(c, err)
	}
	months := report.Bundle.Months
	return c.JSON(http.StatusOK, monthsBody{
		Months: months,
		Labels: lo.Map(months, func(m schema.MonthKey, _ int) string { return m.Label() }),
	})
}

func (s *Server) handleProjects(c echo.Context) error {
	report, err := s.recompute(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, outwriter.BuildProjectsView(report))
}

func (s *Server) handleDevelopers(c echo.Context) error {
	limit := s.cfg.ResultLimit
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "limit must be an integer"})
	}
	if limit < 1 || limit > contract.MaxResultLimit {
		return c.JSON(http.StatusBadRequest, errorBody{Error: fmt.Sprintf("limit must be between 1 and %d", contract.MaxResultLimit)})
	}

	report, err := s.recompute(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, outwriter.BuildDevelopersView(report, limit))
}

func (s *Server) handleDeveloperInsights(c echo.Context) error {
	report, err := s.recompute(c)
	if err != nil {
		return s.fail(c, err)
	}
	insight, err := algo.DeveloperInsights(report.Bundle.Detail, c.Param("user"), c.QueryParam("project"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, insight)
}

func (s *Server) handleOthers(c echo.Context) error {
	report, err := s.recompute(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, outwriter.BuildOthersView(report))
}

// handleUpload decodes the multipart "file" field and swaps it in as the current dataset.
// Rejected datasets leave the current one untouched.
func (s *Server) handleUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "multipart field \"file\" is required"})
	}
	name := filepath.Base(fh.Filename)
	if !decode.IsSupported(name) {
		return c.JSON(http.StatusBadRequest, errorBody{Error: fmt.Sprintf("unsupported file type: %s", name)})
	}

	f, err := fh.Open()
	if err != nil {
		return s.fail(c, err)
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return s.fail(c, err)
	}

	rows, err := decode.DecodeFile(name, data)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	}
	ds, err := core.NewDataset(name, schema.FileSource, rows)
	if err != nil {
		return s.fail(c, err)
	}

	s.SetDataset(ds)
	s.logger.Info("dataset uploaded", zap.String("name", name), zap.Int("records", len(ds.Records)))
	return c.JSON(http.StatusOK, uploadBody{Name: ds.Name, Records: len(ds.Records), Stats: ds.Stats})
}

// recompute builds a report from the current dataset for the request's start and end parameters.
func (s *Server) recompute(c echo.Context) (*schema.Report, error) {
	ds := s.Dataset()
	if ds == nil {
		return nil, errNoDataset
	}
	cfg := s.cfg.Clone()
	if err := contract.RevalidateRange(cfg, c.QueryParam("start"), c.QueryParam("end")); err != nil {
		return nil, &badRequestError{err: err}
	}
	return core.Recompute(ds, cfg.Range, cfg.Policy)
}

var errNoDataset = errors.New("no dataset loaded; POST a file to /api/upload")

// badRequestError marks errors caused by invalid query parameters.
type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

// fail maps an error to its HTTP status and writes the error document.
func (s *Server) fail(c echo.Context, err error) error {
	body := errorBody{Error: err.Error()}
	var (
		schemaErr *schema.SchemaError
		emptyErr  *schema.EmptyResultError
		badReq    *badRequestError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &badReq):
		status = http.StatusBadRequest
	case errors.Is(err, errNoDataset):
		status = http.StatusServiceUnavailable
	case errors.Is(err, algo.ErrUnknownDeveloper), errors.Is(err, algo.ErrUnknownProject):
		status = http.StatusNotFound
	case errors.As(err, &emptyErr):
		status = http.StatusUnprocessableEntity
		if emptyErr.Stats.TotalRows > 0 {
			body.Stats = &emptyErr.Stats
		}
	case errors.As(err, &schemaErr):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.JSON(status, body)
}
