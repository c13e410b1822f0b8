package telemetry

import (
	"fmt"

	"go.uber.org/zap"
)

// ZapAPI implements API on top of a zap logger, it is used for the log file
// sink where the line layout is controlled by LOG_FORMAT.
type ZapAPI struct {
	logger *zap.SugaredLogger
}

func NewZapAPI(logger *zap.Logger) ZapAPI {
	return ZapAPI{logger: logger.Sugar()}
}

func (ZapAPI) formatParams(out *[]any, params []any) {
	for i, p := range params {
		*out = append(*out, fmt.Sprintf("params.%d", i), p)
	}
}

func (z ZapAPI) ReportBroken(id string, params ...any) {
	pairs := []any{"id", id}
	z.formatParams(&pairs, params)
	z.logger.Errorw("broken component", pairs...)
}

func (z ZapAPI) ReportWarning(id string, params ...any) {
	pairs := []any{"id", id}
	z.formatParams(&pairs, params)
	z.logger.Warnw("warning", pairs...)
}

func (z ZapAPI) ReportDebug(message string, params ...any) {
	pairs := []any{}
	z.formatParams(&pairs, params)
	z.logger.Debugw(message, pairs...)
}

func (z ZapAPI) ReportCount(id string, count int64) {
	z.logger.Infow("count", "id", id, "n", count)
}

// Sync flushes buffered log lines.
func (z ZapAPI) Sync() error {
	return z.logger.Sync()
}
