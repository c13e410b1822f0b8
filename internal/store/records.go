package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"edbo-scraper/internal/model"
)

// Table names a table that holds one entity set.
type Table string

const (
	TableInstitutions     Table = "institution"
	TableOffers           Table = "offer"
	TableOffersUniversity Table = "offers_university"
	TableApplications     Table = "application"
	TableApplicants       Table = "applicant"
	TableLookups          Table = "lookup"
	TableSpecialities     Table = "speciality"
	TableScrapeRuns       Table = "scrape_run"
)

// Tables lists every table Counts reports on, in display order.
func Tables() []Table {
	return []Table{
		TableLookups,
		TableSpecialities,
		TableInstitutions,
		TableOffersUniversity,
		TableOffers,
		TableApplicants,
		TableApplications,
		TableScrapeRuns,
	}
}

// IsEmpty reports whether the table holds no rows.
func (s Store) IsEmpty(ctx context.Context, table Table) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s)", table)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check %s is empty: %w", table, err)
	}
	return !exists, nil
}

// Truncate removes every row of the given tables in one transaction.
func (s Store) Truncate(ctx context.Context, tables ...Table) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range tables {
			if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
				return fmt.Errorf("truncate %s: %w", table, err)
			}
		}
		return nil
	})
}

// Count returns the amount of rows in a table.
func (s Store) Count(ctx context.Context, table Table) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

type TableCount struct {
	Table Table
	Rows  int64
}

// Counts returns the row count of every table in Tables.
func (s Store) Counts(ctx context.Context) ([]TableCount, error) {
	var out []TableCount
	for _, table := range Tables() {
		n, err := s.Count(ctx, table)
		if err != nil {
			return nil, err
		}
		out = append(out, TableCount{Table: table, Rows: n})
	}
	return out, nil
}

func (s Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// insertEach prepares query once and executes it for every row.
func insertEach[T any](ctx context.Context, tx *sql.Tx, query string, rows []T, args func(T) ([]any, error)) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		values, err := args(row)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return err
		}
	}
	return nil
}

// SeedLookups writes every enum table row and the speciality catalog. Rows
// already present are left alone, so concurrent seeding is harmless.
func (s Store) SeedLookups(ctx context.Context) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		err := insertEach(ctx, tx,
			`INSERT INTO lookup (kind, code, label) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			model.AllLookups(),
			func(l model.Lookup) ([]any, error) {
				return []any{l.Kind, l.Code, l.Label}, nil
			},
		)
		if err != nil {
			return fmt.Errorf("seed lookups: %w", err)
		}

		err = insertEach(ctx, tx,
			`INSERT INTO knowledge_field (code, title) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			model.KnowledgeFields(),
			func(k model.KnowledgeField) ([]any, error) {
				return []any{string(k), k.Title()}, nil
			},
		)
		if err != nil {
			return fmt.Errorf("seed knowledge fields: %w", err)
		}

		err = insertEach(ctx, tx,
			`INSERT INTO speciality (code, knowledge_field, title) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			model.Specialities(),
			func(sp model.Speciality) ([]any, error) {
				return []any{sp.Code, string(sp.Field), sp.Title}, nil
			},
		)
		if err != nil {
			return fmt.Errorf("seed specialities: %w", err)
		}
		return nil
	})
}

func (s Store) FindLookups(ctx context.Context) ([]model.Lookup, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, code, label FROM lookup ORDER BY kind, code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Lookup
	for rows.Next() {
		var l model.Lookup
		if err := rows.Scan(&l.Kind, &l.Code, &l.Label); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s Store) CreateInstitutions(ctx context.Context, institutions []model.Institution) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		err := insertEach(ctx, tx, `
			INSERT INTO institution (
				id, name, parent_id, short_name, english_name, is_from_crimea,
				registration_year, category, ownership_form, region
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT DO NOTHING`,
			institutions,
			func(i model.Institution) ([]any, error) {
				return []any{
					i.ID, i.Name, i.ParentID, i.ShortName, i.EnglishName, i.IsFromCrimea,
					i.RegistrationYear, int16(i.Category), int16(i.OwnershipForm), int16(i.Region),
				}, nil
			},
		)
		if err != nil {
			return fmt.Errorf("create institutions: %w", err)
		}
		return nil
	})
}

func (s Store) FindInstitutions(ctx context.Context) ([]model.Institution, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id, name, parent_id, short_name, english_name, is_from_crimea,
			registration_year, category, ownership_form, region
		FROM institution
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Institution
	for rows.Next() {
		var (
			i                           model.Institution
			category, ownership, region int16
		)
		err := rows.Scan(
			&i.ID, &i.Name, &i.ParentID, &i.ShortName, &i.EnglishName, &i.IsFromCrimea,
			&i.RegistrationYear, &category, &ownership, &region,
		)
		if err != nil {
			return nil, err
		}
		if i.Category, err = model.InstitutionCategoryFromCode(int(category)); err != nil {
			return nil, fmt.Errorf("institution %d: %w", i.ID, err)
		}
		if i.OwnershipForm, err = model.OwnershipFormFromCode(int(ownership)); err != nil {
			return nil, fmt.Errorf("institution %d: %w", i.ID, err)
		}
		if i.Region, err = model.RegionFromCode(int(region)); err != nil {
			return nil, fmt.Errorf("institution %d: %w", i.ID, err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (s Store) CreateOffers(ctx context.Context, offers []model.Offer) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		err := insertEach(ctx, tx, `
			INSERT INTO offer (
				id, title, degree, education_program, faculty, speciality, master_type,
				study_form, license_volume, budget_places, offer_type
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT DO NOTHING`,
			offers,
			func(o model.Offer) ([]any, error) {
				return []any{
					o.ID, o.Title, int16(o.Degree), o.EducationProgram, o.Faculty, o.Speciality.Code,
					o.MasterType, int16(o.StudyForm), o.LicenseVolume, o.BudgetPlaces, int16(o.Type),
				}, nil
			},
		)
		if err != nil {
			return fmt.Errorf("create offers: %w", err)
		}
		return nil
	})
}

func (s Store) FindOffers(ctx context.Context) ([]model.Offer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id, title, degree, education_program, faculty, speciality, master_type,
			study_form, license_volume, budget_places, offer_type
		FROM offer
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Offer
	for rows.Next() {
		var (
			o                       model.Offer
			degree, studyForm, kind int16
			speciality              string
		)
		err := rows.Scan(
			&o.ID, &o.Title, &degree, &o.EducationProgram, &o.Faculty, &speciality, &o.MasterType,
			&studyForm, &o.LicenseVolume, &o.BudgetPlaces, &kind,
		)
		if err != nil {
			return nil, err
		}
		if o.Degree, err = model.DegreeFromCode(int(degree)); err != nil {
			return nil, fmt.Errorf("offer %d: %w", o.ID, err)
		}
		if o.Speciality, err = model.ParseSpeciality(speciality); err != nil {
			return nil, fmt.Errorf("offer %d: %w", o.ID, err)
		}
		if o.StudyForm, err = model.StudyFormFromCode(int(studyForm)); err != nil {
			return nil, fmt.Errorf("offer %d: %w", o.ID, err)
		}
		if o.Type, err = model.OfferTypeFromCode(int(kind)); err != nil {
			return nil, fmt.Errorf("offer %d: %w", o.ID, err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

type offerPair struct {
	universityID int64
	offerID      int64
	position     int
}

func flattenRelations(relations []model.OffersUniversity) []offerPair {
	var pairs []offerPair
	for _, r := range relations {
		for _, id := range r.OfferIDs {
			pairs = append(pairs, offerPair{
				universityID: r.UniversityID,
				offerID:      id,
				position:     len(pairs),
			})
		}
	}
	return pairs
}

func insertRelations(ctx context.Context, tx *sql.Tx, relations []model.OffersUniversity) error {
	err := insertEach(ctx, tx, `
		INSERT INTO offers_university (university_id, offer_id, position)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`,
		flattenRelations(relations),
		func(p offerPair) ([]any, error) {
			return []any{p.universityID, p.offerID, p.position}, nil
		},
	)
	if err != nil {
		return fmt.Errorf("create offers university relations: %w", err)
	}
	return nil
}

// CreateOffersUniversities stores the (university, offer) pairs of every
// relation, pairs already present are skipped.
func (s Store) CreateOffersUniversities(ctx context.Context, relations []model.OffersUniversity) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return insertRelations(ctx, tx, relations)
	})
}

// ReplaceOffersUniversities swaps the stored relations for the given ones.
func (s Store) ReplaceOffersUniversities(ctx context.Context, relations []model.OffersUniversity) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM offers_university`); err != nil {
			return fmt.Errorf("clear offers university relations: %w", err)
		}
		return insertRelations(ctx, tx, relations)
	})
}

// FindOffersUniversities returns one relation per university ordered by
// university id, the offer ids keep the order they were stored in.
func (s Store) FindOffersUniversities(ctx context.Context) ([]model.OffersUniversity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT university_id, offer_id
		FROM offers_university
		ORDER BY university_id, position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.OffersUniversity
	for rows.Next() {
		var universityID, offerID int64
		if err := rows.Scan(&universityID, &offerID); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].UniversityID != universityID {
			out = append(out, model.OffersUniversity{UniversityID: universityID})
		}
		last := &out[len(out)-1]
		last.OfferIDs = append(last.OfferIDs, offerID)
	}
	return out, rows.Err()
}

func encodeComponents(comps []model.GradeComponent) (string, error) {
	if comps == nil {
		comps = []model.GradeComponent{}
	}
	buff, err := json.Marshal(comps)
	if err != nil {
		return "", err
	}
	return string(buff), nil
}

func decodeComponents(text string) ([]model.GradeComponent, error) {
	var comps []model.GradeComponent
	if err := json.Unmarshal([]byte(text), &comps); err != nil {
		return nil, fmt.Errorf("decode grade components: %w", err)
	}
	return comps, nil
}

func (s Store) CreateApplicants(ctx context.Context, applicants []model.Applicant) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		err := insertEach(ctx, tx, `
			INSERT INTO applicant (id, name, grade_components)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING`,
			applicants,
			func(a model.Applicant) ([]any, error) {
				comps, err := encodeComponents(a.GradeComponents)
				if err != nil {
					return nil, err
				}
				return []any{a.ID, a.Name, comps}, nil
			},
		)
		if err != nil {
			return fmt.Errorf("create applicants: %w", err)
		}
		return nil
	})
}

func (s Store) FindApplicants(ctx context.Context) ([]model.Applicant, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, grade_components FROM applicant ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Applicant
	for rows.Next() {
		var (
			a     model.Applicant
			comps string
		)
		if err := rows.Scan(&a.ID, &a.Name, &comps); err != nil {
			return nil, err
		}
		if a.GradeComponents, err = decodeComponents(comps); err != nil {
			return nil, fmt.Errorf("applicant %d: %w", a.ID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s Store) CreateApplications(ctx context.Context, applications []model.Application) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		err := insertEach(ctx, tx, `
			INSERT INTO application (
				offer_id, number, applicant_id, status, grade, priority, grade_components
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT DO NOTHING`,
			applications,
			func(a model.Application) ([]any, error) {
				comps, err := encodeComponents(a.GradeComponents)
				if err != nil {
					return nil, err
				}
				return []any{
					a.OfferID, a.Number, a.ApplicantID, int16(a.Status),
					a.Grade.StringFixed(3), int16(a.Priority), comps,
				}, nil
			},
		)
		if err != nil {
			return fmt.Errorf("create applications: %w", err)
		}
		return nil
	})
}

func (s Store) FindApplications(ctx context.Context) ([]model.Application, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT offer_id, number, applicant_id, status, grade, priority, grade_components
		FROM application
		ORDER BY offer_id, number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Application
	for rows.Next() {
		var (
			a                model.Application
			status, priority int16
			comps            string
		)
		err := rows.Scan(&a.OfferID, &a.Number, &a.ApplicantID, &status, &a.Grade, &priority, &comps)
		if err != nil {
			return nil, err
		}
		if a.Status, err = model.ParseStatus(int(status)); err != nil {
			return nil, fmt.Errorf("application %d/%d: %w", a.OfferID, a.Number, err)
		}
		if a.Priority, err = model.PriorityFromCode(int(priority)); err != nil {
			return nil, fmt.Errorf("application %d/%d: %w", a.OfferID, a.Number, err)
		}
		if a.GradeComponents, err = decodeComponents(comps); err != nil {
			return nil, fmt.Errorf("application %d/%d: %w", a.OfferID, a.Number, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
