package endpoint

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lazyseq/demo"
	apperrors "github.com/kbukum/lazyseq/errors"
	"github.com/kbukum/lazyseq/logger"
	"github.com/kbukum/lazyseq/sequence"
	"github.com/kbukum/lazyseq/server/middleware"
)

// Evaluate runs a demo.Scenario posted as JSON. Fields missing from the body
// keep their DefaultScenario values, so an empty object runs the canonical
// lazy scenario. A nil rec disables stage metrics; a positive timeout bounds
// each evaluation.
func Evaluate(log *logger.Logger, rec sequence.Recorder, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := demo.DefaultScenario()
		if err := c.ShouldBindJSON(&sc); err != nil && !errors.Is(err, io.EOF) {
			RespondWithError(c, apperrors.InvalidFormat("body", "JSON scenario").WithCause(err))
			return
		}
		if sc.Mode == "" {
			sc.Mode = sequence.ModeLazy
		}

		reqLog := log.WithFields(logger.Fields(
			logger.FieldRequestID, middleware.RequestIDFromContext(c.Request.Context()),
		))
		opts := []demo.Option{demo.WithLogger(reqLog)}
		if rec != nil {
			opts = append(opts, demo.WithRecorder(rec))
		}

		ctx := c.Request.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		result, err := demo.Evaluate(ctx, sc, io.Discard, opts...)
		if errors.Is(err, context.DeadlineExceeded) {
			err = apperrors.Timeout("evaluate").WithCause(err)
		}
		if err != nil {
			reqLog.Warn("evaluation failed", logger.ErrorFields("evaluate", err))
			RespondWithError(c, err)
			return
		}
		RespondOK(c, result)
	}
}
