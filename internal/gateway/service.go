// Package gateway orchestrates inbound conversion and export requests:
// validate the source text, delegate rendering, and wrap the result in a
// single severity-tagged outcome envelope. It also exposes the HTTP API
// around that flow and the slot store.
package gateway

import (
	"context"
	"log/slog"

	"umlgate/internal/diagram"
	"umlgate/internal/result"
)

// Renderer converts diagram source text to image bytes. Satisfied by
// *render.Client; narrowed to an interface so tests can substitute a fake.
type Renderer interface {
	Render(ctx context.Context, text string, format diagram.ImageFormat) ([]byte, error)
}

// ConvertRequest is the inbound envelope for conversion and export.
type ConvertRequest struct {
	SourceText string              `json:"source_text"`
	Format     diagram.ImageFormat `json:"format"`
}

// Service runs the per-request state machine:
//
//	Received -> Validating -> (Rejected | Rendering -> (Succeeded | Failed))
//
// Rejected and Failed terminate with a payload-less outcome; Succeeded
// carries the rendered bytes and the operation's success code.
type Service struct {
	renderer Renderer
	logger   *slog.Logger
}

// NewService creates the orchestration service. A nil logger falls back to
// the default slog logger.
func NewService(renderer Renderer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{renderer: renderer, logger: logger}
}

// Convert validates and renders source text for display.
func (s *Service) Convert(ctx context.Context, req ConvertRequest) result.Outcome {
	return s.process(ctx, req, result.ConversionSucceeded{})
}

// Export validates and renders source text for download. The render call is
// identical to Convert; only the success code differs.
func (s *Service) Export(ctx context.Context, req ConvertRequest) result.Outcome {
	return s.process(ctx, req, result.ExportSucceeded{})
}

func (s *Service) process(ctx context.Context, req ConvertRequest, success result.Code) result.Outcome {
	if err := diagram.ValidateContent(req.SourceText); err != nil {
		out := result.FromError(err)
		s.logger.Warn("input rejected", "kind", out.Code.Kind())
		return out
	}

	data, err := s.renderer.Render(ctx, req.SourceText, req.Format)
	if err != nil {
		out := result.FromError(err)
		s.logger.Error("render failed", "kind", out.Code.Kind(), "format", req.Format)
		return out
	}

	s.logger.Info("render completed", "format", req.Format, "bytes", len(data))
	return result.WithPayload(success, data)
}
