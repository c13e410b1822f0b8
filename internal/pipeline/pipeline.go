// Package pipeline sequences a scrape: lookups, institutions, the
// offers-universities mapping, offer details and finally the paged application
// listings together with applicant resolution. Every phase is skipped when its
// tables are already populated.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"edbo-scraper/internal/components/assert"
	"edbo-scraper/internal/components/telemetry"
	"edbo-scraper/internal/edbo"
	"edbo-scraper/internal/model"
	"edbo-scraper/internal/store"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("edbo-scraper/internal/pipeline")

const (
	report_institutions_parse         = "institutions.parse"
	report_institutions_unknown_label = "institutions.unknown-label"
	report_offers_universities_parse  = "offers-universities.parse"
	report_offers_parse               = "offers.parse"
	report_applications_parse         = "applications.parse"
	report_applications_empty         = "applications.empty"
	report_run_finish                 = "run.finish"
)

// Source is the remote service.
type Source interface {
	ListInstitutions(ctx context.Context, query edbo.InstitutionsQuery) ([]edbo.InstitutionDTO, error)
	ListOffersUniversities(ctx context.Context, query edbo.OffersUniversitiesQuery) ([]edbo.OffersUniversityDTO, error)
	GetOfferPage(ctx context.Context, id int64) (string, error)
	ListApplicationsPage(ctx context.Context, offerID int64, last int) (edbo.ApplicationsPage, error)
}

// Store is the persistence the pipeline needs.
type Store interface {
	SeedLookups(ctx context.Context) error
	IsEmpty(ctx context.Context, table store.Table) (bool, error)
	Truncate(ctx context.Context, tables ...store.Table) error

	CreateInstitutions(ctx context.Context, institutions []model.Institution) error
	FindInstitutions(ctx context.Context) ([]model.Institution, error)
	CreateOffersUniversities(ctx context.Context, relations []model.OffersUniversity) error
	ReplaceOffersUniversities(ctx context.Context, relations []model.OffersUniversity) error
	FindOffersUniversities(ctx context.Context) ([]model.OffersUniversity, error)
	CreateOffers(ctx context.Context, offers []model.Offer) error
	FindOffers(ctx context.Context) ([]model.Offer, error)
	CreateApplicants(ctx context.Context, applicants []model.Applicant) error
	FindApplicants(ctx context.Context) ([]model.Applicant, error)
	CreateApplications(ctx context.Context, applications []model.Application) error
	FindApplications(ctx context.Context) ([]model.Application, error)

	RecordRun(ctx context.Context, startedAt time.Time) (uuid.UUID, error)
	FinishRun(ctx context.Context, id uuid.UUID, finishedAt time.Time, stats store.RunStats, runErr error) error
}

var (
	_ Source = (*edbo.Client)(nil)
	_ Store  = store.Store{}
)

type Options struct {
	// Specialities drive the offers-universities search, the whole catalog
	// when nil.
	Specialities []model.Speciality
	// RefreshApplications rescrapes applications and applicants even when
	// both are populated.
	RefreshApplications bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// EntryFailure is an application entry that could not be decoded, the rest of
// its page is still processed.
type EntryFailure struct {
	OfferID int64
	Number  int64
	Err     error
}

func (f EntryFailure) Error() string {
	return fmt.Sprintf("offer %d entry %d: %s", f.OfferID, f.Number, f.Err)
}

func (f EntryFailure) Unwrap() error {
	return f.Err
}

type Result struct {
	RunID              uuid.UUID
	Institutions       []model.Institution
	OffersUniversities []model.OffersUniversity
	Offers             []model.Offer
	Applications       []model.Application
	Applicants         []model.Applicant
	// Removed holds the offer ids dropped during this run, sorted.
	Removed  []int64
	Failures []EntryFailure
}

func (r Result) Stats() store.RunStats {
	return store.RunStats{
		Institutions:  len(r.Institutions),
		Offers:        len(r.Offers),
		RemovedOffers: len(r.Removed),
		Applications:  len(r.Applications),
		Applicants:    len(r.Applicants),
		FailedEntries: len(r.Failures),
	}
}

type Pipeline struct {
	source Source
	store  Store
	codec  edbo.Decrypter
	opts   Options
	tel    telemetry.API
}

func New(source Source, st Store, codec edbo.Decrypter, opts Options, tel telemetry.API) *Pipeline {
	assert.NotNil(source)
	assert.NotNil(st)
	assert.NotNil(codec)
	assert.NotNil(tel)

	if opts.Specialities == nil {
		opts.Specialities = model.Specialities()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{
		source: source,
		store:  st,
		codec:  codec,
		opts:   opts,
		tel:    telemetry.NewScopedAPI("pipeline", tel),
	}
}

// Run executes every phase in order. A transport, rate limit or persistence
// error stops the run, the partial result is returned next to it. The run
// is recorded in the run history either way.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	runID, err := p.store.RecordRun(ctx, p.opts.Now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	span.SetAttributes(attribute.String("run_id", runID.String()))

	res := Result{RunID: runID}
	runErr := p.run(ctx, &res)

	// the run is written down even when ctx was cancelled
	finishErr := p.store.FinishRun(context.WithoutCancel(ctx), runID, p.opts.Now(), res.Stats(), runErr)
	if finishErr != nil {
		p.tel.ReportBroken(report_run_finish, finishErr, runID.String())
	}

	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
		return res, runErr
	}
	if finishErr != nil {
		return res, finishErr
	}
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, res *Result) error {
	err := p.phase(ctx, "SeedLookups", func(ctx context.Context) error {
		return p.store.SeedLookups(ctx)
	})
	if err != nil {
		return fmt.Errorf("seed lookups: %w", err)
	}

	err = p.phase(ctx, "Institutions", func(ctx context.Context) (err error) {
		res.Institutions, err = p.institutions(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("institutions: %w", err)
	}

	var scraped bool
	err = p.phase(ctx, "OffersUniversities", func(ctx context.Context) (err error) {
		res.OffersUniversities, scraped, err = p.offersUniversities(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("offers universities: %w", err)
	}

	err = p.phase(ctx, "Offers", func(ctx context.Context) (err error) {
		res.Offers, res.Removed, err = p.offers(ctx, res.OffersUniversities, scraped)
		return err
	})
	if err != nil {
		return fmt.Errorf("offers: %w", err)
	}

	err = p.phase(ctx, "Applications", func(ctx context.Context) (err error) {
		res.Applications, res.Applicants, res.Failures, err = p.applications(ctx, res.Offers)
		return err
	})
	if err != nil {
		return fmt.Errorf("applications: %w", err)
	}

	p.tel.ReportCount("institutions", int64(len(res.Institutions)))
	p.tel.ReportCount("offers", int64(len(res.Offers)))
	p.tel.ReportCount("applications", int64(len(res.Applications)))
	p.tel.ReportCount("applicants", int64(len(res.Applicants)))
	return nil
}

func (p *Pipeline) phase(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
