// Package model holds the typed domain records produced by the scraper and the
// code tables that translate the remote service's codes and labels.
package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

type Institution struct {
	ID               int64
	Name             string
	ParentID         *int64
	ShortName        *string
	EnglishName      *string
	IsFromCrimea     bool
	RegistrationYear *int16
	Category         InstitutionCategory
	OwnershipForm    OwnershipForm
	Region           Region
}

type Offer struct {
	ID               int64
	Title            string
	Degree           Degree
	EducationProgram string
	Faculty          *string
	Speciality       Speciality
	MasterType       *string
	StudyForm        StudyForm
	LicenseVolume    int32
	BudgetPlaces     int32
	Type             OfferType
}

var (
	ErrWrongIDAmount = errors.New("declared offer count does not match id list")
	ErrParseOfferID  = errors.New("failed to parse offer id")
)

// OffersUniversity relates an institution to the offers it publishes for one
// search (one speciality).
type OffersUniversity struct {
	UniversityID int64
	OfferIDs     []int64
}

// NewOffersUniversity parses the comma joined id list and validates it against
// the declared count.
func NewOffersUniversity(universityID int64, ids string, declared int) (OffersUniversity, error) {
	parts := strings.Split(ids, ",")
	if len(parts) != declared {
		return OffersUniversity{}, fmt.Errorf(
			"university %d: %w: declared %d, got %d",
			universityID, ErrWrongIDAmount, declared, len(parts),
		)
	}

	offers := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return OffersUniversity{}, fmt.Errorf("university %d: %w %q: %w", universityID, ErrParseOfferID, p, err)
		}
		offers = append(offers, id)
	}

	return OffersUniversity{UniversityID: universityID, OfferIDs: offers}, nil
}

// RemoveOffers drops every id in removed from the relation, keeping order.
// It returns how many ids were removed.
func (o *OffersUniversity) RemoveOffers(removed map[int64]struct{}) int {
	kept := o.OfferIDs[:0]
	for _, id := range o.OfferIDs {
		if _, drop := removed[id]; drop {
			continue
		}
		kept = append(kept, id)
	}
	n := len(o.OfferIDs) - len(kept)
	o.OfferIDs = kept
	return n
}

// GradeEpsilon is the tolerance used when comparing grade components.
const GradeEpsilon = 1e-4

// GradeComponent is one weighted figure of an application's overall grade, for
// example "+26.800" out of "134 x 0.2". SourceID is the listing's identifier of
// the figure, zero when unknown.
type GradeComponent struct {
	Value    float64 `json:"value"`
	SourceID int64   `json:"source_id,omitempty"`
}

// Equal compares values only, within GradeEpsilon.
func (g GradeComponent) Equal(other GradeComponent) bool {
	return math.Abs(g.Value-other.Value) < GradeEpsilon
}

var (
	ErrGradeSplit = errors.New("failed to split grade component")
	ErrGradeParse = errors.New("failed to parse grade component")
)

// ParseGradeComponent reads the leading number of "<number> <formula>", the
// rest of the text is discarded.
func ParseGradeComponent(text string, sourceID int64) (GradeComponent, error) {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	head := trimmed
	if i := strings.IndexFunc(trimmed, unicode.IsSpace); i >= 0 {
		head = trimmed[:i]
	}
	if head == "" {
		return GradeComponent{}, fmt.Errorf("%w: %q", ErrGradeSplit, text)
	}

	value, err := strconv.ParseFloat(head, 32)
	if err != nil {
		return GradeComponent{}, fmt.Errorf("%w: %q: %w", ErrGradeParse, text, err)
	}
	return GradeComponent{Value: value, SourceID: sourceID}, nil
}

type Application struct {
	// Number is the position in the offer's listing, not globally unique.
	Number          int64
	Status          Status
	Grade           decimal.Decimal
	Priority        Priority
	OfferID         int64
	ApplicantID     int64
	GradeComponents []GradeComponent
}

// Applicant is a resolved natural person. It has no upstream identifier, ID is
// assigned by the resolver.
type Applicant struct {
	ID              int64
	Name            string
	GradeComponents []GradeComponent
}
