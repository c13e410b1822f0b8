package telemetry

import (
	"fmt"
)

// API is what every component reports through. The scraper runs unattended
// for hours, so a report id has to be enough to find the failing component in
// a log file the morning after.
//
// Ids name the component and its method, never the failure itself:
// `client.get-offer-page`, `phase.applications`, `store.save-applications`.
// Lowercase, underscores inside a component name, dashes inside a method name.
// A ScopedAPI prefixes the package so ids stay short.
//
// Tests swap in a Recorder and assert on what was reported.
type API interface {
	// ReportBroken is for failures that lose data: a request that gave up, a
	// transaction that rolled back.
	ReportBroken(id string, params ...any)
	// ReportWarning is for data the registry served that looks wrong but can
	// be skipped, like an offer page without the embedded offer or an
	// unknown status label.
	ReportWarning(id string, params ...any)
	ReportDebug(msg string, params ...any)
	// ReportCount records a gauge sample, consecutive samples are not summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with `<namespace>: `.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scoped(id string) string {
	return fmt.Sprintf("%s: %s", s.namespace, id)
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scoped(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scoped(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scoped(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scoped(id), count)
}
