package edbo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"edbo-scraper/internal/model"
	"edbo-scraper/internal/tagextract"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// GetOfferPage returns the html of an offer page.
func (c *Client) GetOfferPage(ctx context.Context, id int64) (string, error) {
	body, err := c.fetch(ctx, report_client_get_offer_page, func(req *resty.Request) (*resty.Response, error) {
		return req.Get(c.mainURL + "/offer/" + strconv.FormatInt(id, 10))
	})
	if err != nil {
		return "", fmt.Errorf("offer %d: %w", id, err)
	}
	return string(body), nil
}

// OfferVerdict says what the scrape should do with a parsed offer page.
type OfferVerdict int

const (
	OfferKept OfferVerdict = iota
	// OfferNonBudgetary offers are dropped without extracting anything else.
	OfferNonBudgetary
	// OfferMalformed offers miss a required field, they are dropped like
	// non budgetary ones.
	OfferMalformed
)

func (v OfferVerdict) String() string {
	switch v {
	case OfferKept:
		return "kept"
	case OfferNonBudgetary:
		return "non-budgetary"
	case OfferMalformed:
		return "malformed"
	}
	return fmt.Sprintf("verdict(%d)", int(v))
}

// offerScript narrows the page down to the script holding the offer literal,
// a page that does not parse as html is searched as a whole.
func offerScript(page string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return page
	}
	script := ""
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(text, tagextract.Marker) {
			script = text
			return false
		}
		return true
	})
	if script == "" {
		return page
	}
	return script
}

func optionalText(tag, script string) *string {
	value, err := tagextract.Extract[*string](tag, script)
	if err != nil {
		return nil
	}
	return value
}

// ParseOffer extracts an offer from its page. The offer type is read first and
// non budgetary offers short circuit. Malformed offers come with the error that
// explains them.
func ParseOffer(id int64, page string) (model.Offer, OfferVerdict, error) {
	script := offerScript(page)
	malformed := func(err error) (model.Offer, OfferVerdict, error) {
		return model.Offer{}, OfferMalformed, fmt.Errorf("offer %d: %w", id, err)
	}

	typeText, err := tagextract.Extract[string]("ustn", script)
	if err != nil {
		return malformed(err)
	}
	offerType, err := model.ParseOfferType(typeText)
	if err != nil {
		return malformed(err)
	}
	if offerType == model.OfferTypeNonBudgetary {
		return model.Offer{}, OfferNonBudgetary, nil
	}

	program := ""
	if value := optionalText("usn", script); value != nil {
		program = *value
	}

	specialityCode, err := tagextract.Extract[string]("ssc", script)
	if err != nil {
		return malformed(err)
	}
	speciality, err := model.ParseSpeciality(specialityCode)
	if err != nil {
		return malformed(err)
	}
	title, err := tagextract.Extract[string]("spn", script)
	if err != nil {
		return malformed(err)
	}
	licenseVolume, err := tagextract.Extract[int32]("ol", script)
	if err != nil {
		return malformed(err)
	}
	studyFormText, err := tagextract.Extract[string]("efn", script)
	if err != nil {
		return malformed(err)
	}
	studyForm, err := model.ParseStudyForm(studyFormText)
	if err != nil {
		return malformed(err)
	}

	var budgetTag string
	switch offerType {
	case model.OfferTypeOpen:
		budgetTag = "ox"
	case model.OfferTypeFixed:
		budgetTag = "ob"
	default:
		return malformed(fmt.Errorf("%w: offer type %s", ErrUnexpectedResponse, offerType))
	}
	budgetPlaces, err := tagextract.Extract[int32](budgetTag, script)
	if err != nil {
		return malformed(err)
	}

	return model.Offer{
		ID:               id,
		Title:            title,
		Degree:           model.DegreeMaster,
		EducationProgram: program,
		Faculty:          optionalText("ufn", script),
		Speciality:       speciality,
		MasterType:       optionalText("mptn", script),
		StudyForm:        studyForm,
		LicenseVolume:    licenseVolume,
		BudgetPlaces:     budgetPlaces,
		Type:             offerType,
	}, OfferKept, nil
}
