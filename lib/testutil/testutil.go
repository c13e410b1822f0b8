// Package testutil holds fixtures shared by tests outside the store package.
package testutil

import (
	"context"
	"testing"

	"edbo-scraper/internal/components/telemetry"
	"edbo-scraper/internal/model"
	"edbo-scraper/internal/store"
)

// OpenStore opens a migrated in-memory SQLite store that is closed with the
// test. Store reports end up in the returned recorder.
func OpenStore(t testing.TB) (store.Store, *telemetry.Recorder) {
	t.Helper()
	recorder := &telemetry.Recorder{}
	s, err := store.Open(context.Background(), "sqlite://:memory:", recorder)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		err := s.Close()
		if err != nil {
			t.Error(err)
		}
	})
	return s, recorder
}

func Specialities(t testing.TB, codes ...string) []model.Speciality {
	t.Helper()
	out := make([]model.Speciality, 0, len(codes))
	for _, code := range codes {
		s, err := model.ParseSpeciality(code)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, s)
	}
	return out
}
