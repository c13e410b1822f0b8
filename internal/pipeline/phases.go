package pipeline

import (
	"context"
	"slices"

	"edbo-scraper/internal/applicants"
	"edbo-scraper/internal/edbo"
	"edbo-scraper/internal/model"
	"edbo-scraper/internal/store"
)

func (p *Pipeline) institutions(ctx context.Context) ([]model.Institution, error) {
	empty, err := p.store.IsEmpty(ctx, store.TableInstitutions)
	if err != nil {
		return nil, err
	}
	if !empty {
		p.tel.ReportDebug("institutions already populated, loading from store")
		return p.store.FindInstitutions(ctx)
	}

	p.tel.ReportDebug("institutions table is empty, requesting registry")
	dtos, err := p.source.ListInstitutions(ctx, edbo.InstitutionsQuery{})
	if err != nil {
		return nil, err
	}

	institutions := make([]model.Institution, 0, len(dtos))
	for _, dto := range dtos {
		institution, unknown, err := edbo.ParseInstitution(dto)
		if err != nil {
			p.tel.ReportWarning(report_institutions_parse, err)
			continue
		}
		for _, u := range unknown {
			p.tel.ReportWarning(report_institutions_unknown_label, u)
		}
		institutions = append(institutions, institution)
	}

	err = p.store.CreateInstitutions(ctx, institutions)
	if err != nil {
		return nil, err
	}
	p.tel.ReportDebug("institutions table populated", "count", len(institutions))
	return institutions, nil
}

// offersUniversities returns the relations and whether they were scraped in
// this run, scraped relations are persisted by the offers phase once the
// removal pass is done.
func (p *Pipeline) offersUniversities(ctx context.Context) ([]model.OffersUniversity, bool, error) {
	empty, err := p.store.IsEmpty(ctx, store.TableOffersUniversity)
	if err != nil {
		return nil, false, err
	}
	if !empty {
		p.tel.ReportDebug("offers universities already populated, loading from store")
		relations, err := p.store.FindOffersUniversities(ctx)
		return relations, false, err
	}

	var relations []model.OffersUniversity
	for _, speciality := range p.opts.Specialities {
		dtos, err := p.source.ListOffersUniversities(ctx, edbo.MasterSearch(speciality))
		if err != nil {
			return nil, false, err
		}
		for _, dto := range dtos {
			relation, err := edbo.ParseOffersUniversity(dto)
			if err != nil {
				p.tel.ReportWarning(report_offers_universities_parse, err, "speciality", speciality.Code)
				continue
			}
			relations = append(relations, relation)
		}
		p.tel.ReportDebug("offers universities listed", "speciality", speciality.Code, "universities", len(dtos))
	}
	return relations, true, nil
}

// offers fetches every offer referenced by relations. Non budgetary and
// malformed offers are not kept and their ids are removed from every relation
// before the relations are persisted.
func (p *Pipeline) offers(ctx context.Context, relations []model.OffersUniversity, scraped bool) ([]model.Offer, []int64, error) {
	empty, err := p.store.IsEmpty(ctx, store.TableOffers)
	if err != nil {
		return nil, nil, err
	}

	var (
		offers  []model.Offer
		removed = make(map[int64]struct{})
	)
	if empty {
		offers, err = p.scrapeOffers(ctx, relations, removed)
		if err != nil {
			return nil, nil, err
		}
		err = p.store.CreateOffers(ctx, offers)
		if err != nil {
			return nil, nil, err
		}
		p.tel.ReportDebug("offers table populated", "count", len(offers), "removed", len(removed))
	} else {
		p.tel.ReportDebug("offers already populated, loading from store")
		offers, err = p.store.FindOffers(ctx)
		if err != nil {
			return nil, nil, err
		}
		// any id the offer table does not know was dropped by an earlier run
		known := make(map[int64]struct{}, len(offers))
		for _, o := range offers {
			known[o.ID] = struct{}{}
		}
		for _, r := range relations {
			for _, id := range r.OfferIDs {
				if _, ok := known[id]; !ok {
					removed[id] = struct{}{}
				}
			}
		}
	}

	for i := range relations {
		relations[i].RemoveOffers(removed)
	}

	switch {
	case scraped:
		err = p.store.CreateOffersUniversities(ctx, relations)
	case len(removed) > 0:
		err = p.store.ReplaceOffersUniversities(ctx, relations)
	}
	if err != nil {
		return nil, nil, err
	}

	ids := make([]int64, 0, len(removed))
	for id := range removed {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return offers, ids, nil
}

func (p *Pipeline) scrapeOffers(ctx context.Context, relations []model.OffersUniversity, removed map[int64]struct{}) ([]model.Offer, error) {
	var (
		offers []model.Offer
		seen   = make(map[int64]struct{})
	)
	for _, relation := range relations {
		for _, id := range relation.OfferIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}

			page, err := p.source.GetOfferPage(ctx, id)
			if err != nil {
				return nil, err
			}

			offer, verdict, err := edbo.ParseOffer(id, page)
			switch verdict {
			case edbo.OfferKept:
				offers = append(offers, offer)
			case edbo.OfferNonBudgetary:
				removed[id] = struct{}{}
				p.tel.ReportDebug("dropping non budgetary offer", "offer", id)
			default:
				removed[id] = struct{}{}
				p.tel.ReportWarning(report_offers_parse, err, "offer", id, "university", relation.UniversityID)
			}
		}
	}
	return offers, nil
}

// applications rescrapes every offer's listing when either the applications
// or the applicants table is empty, both are cleared first since applicant
// ids are only meaningful within one resolution pass.
func (p *Pipeline) applications(ctx context.Context, offers []model.Offer) ([]model.Application, []model.Applicant, []EntryFailure, error) {
	applicationsEmpty, err := p.store.IsEmpty(ctx, store.TableApplications)
	if err != nil {
		return nil, nil, nil, err
	}
	applicantsEmpty, err := p.store.IsEmpty(ctx, store.TableApplicants)
	if err != nil {
		return nil, nil, nil, err
	}

	if !applicationsEmpty && !applicantsEmpty && !p.opts.RefreshApplications {
		p.tel.ReportDebug("applications and applicants already populated, loading from store")
		applications, err := p.store.FindApplications(ctx)
		if err != nil {
			return nil, nil, nil, err
		}
		roster, err := p.store.FindApplicants(ctx)
		if err != nil {
			return nil, nil, nil, err
		}
		return applications, roster, nil, nil
	}

	err = p.store.Truncate(ctx, store.TableApplications, store.TableApplicants)
	if err != nil {
		return nil, nil, nil, err
	}

	var (
		resolver     = applicants.NewResolver()
		applications []model.Application
		failures     []EntryFailure
	)
	for _, offer := range offers {
		for last := 0; ; last += edbo.PageSize {
			page, err := p.source.ListApplicationsPage(ctx, offer.ID, last)
			if err != nil {
				return nil, nil, nil, err
			}
			if len(page.Entries) == 0 {
				p.tel.ReportWarning(report_applications_empty, "offer", offer.ID, "last", last)
			}

			for _, dto := range page.Entries {
				application, name, err := edbo.ParseApplication(dto, offer.ID, p.codec)
				if err != nil {
					failure := EntryFailure{OfferID: offer.ID, Number: dto.N, Err: err}
					failures = append(failures, failure)
					p.tel.ReportWarning(report_applications_parse, failure)
					continue
				}
				application.ApplicantID = resolver.Resolve(name, application.GradeComponents)
				applications = append(applications, application)
			}

			if page.Last() {
				break
			}
		}
	}

	roster := resolver.Applicants()
	err = p.store.CreateApplicants(ctx, roster)
	if err != nil {
		return nil, nil, nil, err
	}
	err = p.store.CreateApplications(ctx, applications)
	if err != nil {
		return nil, nil, nil, err
	}
	p.tel.ReportDebug(
		"applications table populated",
		"applications", len(applications),
		"applicants", len(roster),
		"failed", len(failures),
	)
	return applications, roster, failures, nil
}
