package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"horse.fit/roamsift/internal/pipeline"
	payloadschema "horse.fit/roamsift/schema"
)

type filterSummary struct {
	Collected int `json:"collected"`
	Passed    int `json:"passed"`
	Filtered  int `json:"filtered"`
}

type filterResult struct {
	Retained    []pipeline.ClassifiedRecord `json:"retained"`
	Diagnostics []pipeline.Diagnostic       `json:"diagnostics"`
	Summary     filterSummary               `json:"summary"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]string{"status": "ok"})
}

func (s *Server) handleRules(c echo.Context) error {
	return success(c, s.svc.Rules())
}

func (s *Server) handleFilter(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		s.logger.Error().Err(err).Msg("read filter request body")
		return internalError(c, "failed to read request body")
	}

	batch, err := payloadschema.ValidateBatchPayload(json.RawMessage(body))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid batch payload", map[string]string{
			"detail": err.Error(),
		})
	}

	retained, diagnostics := s.svc.Run(batch.Records, batch.Threshold)

	return success(c, filterResult{
		Retained:    retained,
		Diagnostics: diagnostics,
		Summary: filterSummary{
			Collected: len(batch.Records),
			Passed:    len(retained),
			Filtered:  len(batch.Records) - len(retained),
		},
	})
}
