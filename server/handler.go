package server

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Parkreiner/namebingo"
	"github.com/Parkreiner/namebingo/render"
)

// CardHeader carries the ID of the card in a response, so a printed card can
// be matched with the access log.
const CardHeader = "X-Bingo-Card"

// CardDealer writes a freshly laid out card as an HTML document.
type CardDealer interface {
	Render(w io.Writer) (*bingo.Card, error)
}

// NewHandler returns the HTTP surface of the service. Every GET / deals a new
// card; nothing is cached between requests.
func NewHandler(dealer CardDealer, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", cardHandler(dealer, logger))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})

	return r
}

func cardHandler(dealer CardDealer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		card, err := dealer.Render(&buf)
		if err != nil {
			logger.Error("failed to render card",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Error(err),
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", render.ContentType)
		w.Header().Set(CardHeader, card.ID.String())
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(buf.Bytes()); err != nil {
			logger.Debug("client went away before the card was sent",
				zap.Stringer("card", card.ID),
				zap.Error(err),
			)
		}
	}
}

func accessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			}
			if card := ww.Header().Get(CardHeader); card != "" {
				fields = append(fields, zap.String("card", card))
			}
			logger.Info("request", fields...)
		})
	}
}
