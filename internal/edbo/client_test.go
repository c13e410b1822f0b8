package edbo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"edbo-scraper/internal/components/telemetry"
	"edbo-scraper/internal/model"

	"github.com/stretchr/testify/require"
)

const rateLimitBody = `{"error":"Перевищено ліміт запитів. Спробуйте пізніше!","message":"Too many requests"}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *telemetry.Recorder) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	rec := &telemetry.Recorder{}
	client, err := NewClient(Options{
		MainURL:     srv.URL,
		RegistryURL: srv.URL + "/api",
		Interval:    time.Millisecond,
		Cooldown:    time.Millisecond,
	}, rec)
	require.NoError(t, err)
	return client, rec
}

func TestListInstitutions(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/universities/", r.URL.Path)
		require.Equal(t, "json", r.URL.Query().Get("exp"))
		require.Equal(t, "8", r.URL.Query().Get("ut"))
		require.Equal(t, "", r.URL.Query().Get("lc"))
		require.Equal(t, UserAgent, r.Header.Get("User-Agent"))

		fmt.Fprint(w, `[{
			"university_name": "Київський політехнічний інститут",
			"university_id": "79",
			"university_parent_id": null,
			"university_short_name": "КПІ",
			"university_name_en": " ",
			"is_from_crimea": "ні",
			"registration_year": "1898",
			"university_type_name": "Наукові інститути (установи)",
			"university_financing_type_name": "Державна",
			"region_name_u": "м. Київ",
			"post_index_u": "03056"
		}]`)
	})

	dtos, err := client.ListInstitutions(context.Background(), InstitutionsQuery{Category: model.CategoryScientific})
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	require.Equal(t, "79", dtos[0].ID)
	require.Nil(t, dtos[0].ParentID)
}

func TestInstitutionsQueryWithoutRegistryCode(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := client.ListInstitutions(context.Background(), InstitutionsQuery{
		Category: model.CategoryGeneralSecondaryEducation,
	})
	require.Error(t, err)
}

func TestRateLimitCooldown(t *testing.T) {
	var calls atomic.Int32
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/offers-universities/", r.URL.Path)
		require.True(t, strings.HasSuffix(r.Header.Get("Referer"), "/offers-universities/"))
		require.NoError(t, r.ParseForm())
		require.Equal(t, "2", r.PostForm.Get("qualification"))
		require.Equal(t, "620", r.PostForm.Get("education_base"))
		require.Equal(t, "F3", r.PostForm.Get("speciality"))
		require.False(t, r.PostForm.Has("region"))

		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, rateLimitBody)
			return
		}
		fmt.Fprint(w, `{"universities":[{"uid":79,"un":"КПІ","ids":"1454003,1513669","n":2}]}`)
	})

	f3, err := model.ParseSpeciality("F3")
	require.NoError(t, err)

	dtos, err := client.ListOffersUniversities(context.Background(), MasterSearch(f3))
	require.NoError(t, err)
	require.Equal(t, int32(3), calls.Load())
	require.Len(t, rec.Find(telemetry.LevelWarning, report_client_rate_limit), 2)

	require.Len(t, dtos, 1)
	relation, err := ParseOffersUniversity(dtos[0])
	require.NoError(t, err)
	require.Equal(t, []int64{1454003, 1513669}, relation.OfferIDs)
}

func TestRateLimitExhausted(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, rateLimitBody)
	})

	_, err := client.GetOfferPage(context.Background(), 1)
	require.ErrorIs(t, err, ErrRateLimitExhausted)
	require.Equal(t, int32(MaxCooldowns+1), calls.Load())
}

func TestUnexpectedErrorResponse(t *testing.T) {
	var calls atomic.Int32
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"error":"Пропозицію не знайдено","message":"not found"}`)
	})

	_, err := client.ListApplicationsPage(context.Background(), 5, 0)
	require.ErrorIs(t, err, ErrUnexpectedResponse)
	require.Equal(t, int32(1), calls.Load())
	require.NotEmpty(t, rec.Find(telemetry.LevelBroken, report_client_list_applications))
}

func TestServerErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html>bad gateway</html>")
	})

	_, err := client.GetOfferPage(context.Background(), 1)
	require.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestCooldownHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rateLimitBody)
		cancel()
	}))
	defer srv.Close()

	client, err := NewClient(Options{
		MainURL:  srv.URL,
		Interval: time.Millisecond,
		Cooldown: time.Hour,
	}, &telemetry.Recorder{})
	require.NoError(t, err)

	start := time.Now()
	_, err = client.GetOfferPage(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, time.Since(start), time.Minute)
}

func TestRequestsArePaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html></html>")
	}))
	defer srv.Close()

	client, err := NewClient(Options{
		MainURL:  srv.URL,
		Interval: 50 * time.Millisecond,
		Cooldown: time.Millisecond,
	}, &telemetry.Recorder{})
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.GetOfferPage(context.Background(), int64(i))
		require.NoError(t, err)
	}
	// the first request is not delayed
	require.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestListApplicationsPage(t *testing.T) {
	full := applicationsResponse{}
	for i := 0; i < PageSize; i++ {
		full.Requests = append(full.Requests, ApplicationDTO{N: int64(i + 1), StatusID: 6})
	}
	fullBody, err := json.Marshal(full)
	require.NoError(t, err)

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/offer-requests/", r.URL.Path)
		require.NoError(t, r.ParseForm())
		switch r.PostForm.Get("id") + ":" + r.PostForm.Get("last") {
		case "10:0":
			w.Write(fullBody)
		case "10:100":
			fmt.Fprint(w, `{"requests":[{"n":101,"prsid":6,"fio":"x","kv":185.5,"p":"y","rss":[]}]}`)
		case "11:0":
		default:
			t.Fatalf("unexpected form %v", r.PostForm)
		}
	})

	page, err := client.ListApplicationsPage(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, page.Entries, PageSize)
	require.False(t, page.Last())

	page, err = client.ListApplicationsPage(context.Background(), 10, 100)
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	require.True(t, page.Last())
	require.Equal(t, "185.5", page.Entries[0].Grade.String())

	page, err = client.ListApplicationsPage(context.Background(), 11, 0)
	require.NoError(t, err)
	require.True(t, page.Empty)
	require.True(t, page.Last())
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := NewClient(Options{MainURL: url, Interval: time.Millisecond}, &telemetry.Recorder{})
	require.NoError(t, err)

	_, err = client.GetOfferPage(context.Background(), 1)
	require.ErrorIs(t, err, ErrTransport)
	require.False(t, errors.Is(err, ErrRateLimitExhausted))
}
