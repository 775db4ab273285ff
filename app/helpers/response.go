package helpers

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/unrolled/render"
)

type Envelope struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type Paginated struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}

// Responder writes every JSON body the API produces.
type Responder struct {
	render *render.Render
	log    zerolog.Logger
}

func NewResponder(r *render.Render, log zerolog.Logger) *Responder {
	return &Responder{render: r, log: log}
}

func (rs *Responder) JSON(w http.ResponseWriter, status int, v interface{}) {
	if err := rs.render.JSON(w, status, v); err != nil {
		rs.log.Error().Err(err).Msg("failed to write response")
	}
}

func (rs *Responder) OK(w http.ResponseWriter, data interface{}, message string) {
	rs.JSON(w, http.StatusOK, Envelope{Data: data, Message: message})
}

func (rs *Responder) Created(w http.ResponseWriter, data interface{}, message string) {
	rs.JSON(w, http.StatusCreated, Envelope{Data: data, Message: message})
}

func (rs *Responder) Message(w http.ResponseWriter, message string) {
	rs.JSON(w, http.StatusOK, Envelope{Message: message})
}

func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr := AsAppError(err)

	if appErr.Status >= http.StatusInternalServerError {
		rs.log.Error().
			Err(appErr.Err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", appErr.Status).
			Msg("request failed")
		if appErr.Status == http.StatusInternalServerError && appErr.Err != nil {
			sentry.CaptureException(appErr.Err)
		}
	}

	body := Envelope{Error: appErr.Message}
	if len(appErr.Details) > 0 {
		body.Data = appErr.Details
	}
	rs.JSON(w, appErr.Status, body)
}

// Wrap adapts a handler that reports failure by returning an error.
func (rs *Responder) Wrap(fn func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			rs.Error(w, r, err)
		}
	}
}
