package edbo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"edbo-scraper/internal/edbocrypt"
	"edbo-scraper/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// PageSize is the fixed page length of the application listing, a shorter page
// is the last one.
const PageSize = 100

type applicationsResponse struct {
	Requests []ApplicationDTO `json:"requests"`
}

// ApplicationDTO is one entry of the application listing. The name (`fio`) and
// the priority (`p`) are encrypted with a key derived from N and StatusID.
type ApplicationDTO struct {
	N               int64               `json:"n"`
	StatusID        int64               `json:"prsid"`
	Fio             string              `json:"fio"`
	Grade           decimal.Decimal     `json:"kv"`
	Priority        string              `json:"p"`
	GradeComponents []GradeComponentDTO `json:"rss"`
}

// GradeComponentDTO holds a weighted figure ("+26.800") and the formula it was
// computed with ("134 x 0.2").
type GradeComponentDTO struct {
	Value   string `json:"kv"`
	Formula string `json:"f"`
	ID      int64  `json:"id"`
}

type ApplicationsPage struct {
	Entries []ApplicationDTO
	// Empty is set when the service answered with no body at all, it does so
	// for offers nobody applied to.
	Empty bool
}

// Last reports whether no page follows this one.
func (p ApplicationsPage) Last() bool {
	return p.Empty || len(p.Entries) < PageSize
}

// ListApplicationsPage returns the page of offerID's applications starting at
// offset last.
func (c *Client) ListApplicationsPage(ctx context.Context, offerID int64, last int) (ApplicationsPage, error) {
	endpoint := c.mainURL + "/offer-requests/"
	body, err := c.fetch(ctx, report_client_list_applications, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetHeader("Referer", endpoint).
			SetFormData(map[string]string{
				"id":   strconv.FormatInt(offerID, 10),
				"last": strconv.Itoa(last),
			}).
			Post(endpoint)
	})
	if err != nil {
		return ApplicationsPage{}, fmt.Errorf("offer %d: %w", offerID, err)
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return ApplicationsPage{Empty: true}, nil
	}

	var res applicationsResponse
	err = json.Unmarshal(body, &res)
	if err != nil {
		c.tel.ReportBroken(report_client_list_applications, err, offerID, last)
		return ApplicationsPage{}, fmt.Errorf("%w: applications of offer %d: %w", ErrUnexpectedResponse, offerID, err)
	}
	return ApplicationsPage{Entries: res.Requests}, nil
}

// Decrypter decrypts a field of an application entry.
type Decrypter interface {
	Decrypt(ciphertext string, number, recordID int64) (string, error)
}

// ParseApplication decodes an entry of offerID's listing. It returns the
// decrypted applicant name next to the application; the applicant id is left
// for the caller to resolve.
func ParseApplication(dto ApplicationDTO, offerID int64, codec Decrypter) (model.Application, string, error) {
	fail := func(err error) (model.Application, string, error) {
		return model.Application{}, "", fmt.Errorf("offer %d entry %d: %w", offerID, dto.N, err)
	}

	status, err := model.ParseStatus(int(dto.StatusID))
	if err != nil {
		return fail(err)
	}
	name, err := codec.Decrypt(dto.Fio, dto.N, dto.StatusID)
	if err != nil {
		return fail(fmt.Errorf("name: %w", err))
	}
	priorityText, err := codec.Decrypt(dto.Priority, dto.N, dto.StatusID)
	if err != nil {
		return fail(fmt.Errorf("priority: %w", err))
	}
	priority, err := model.ParsePriority(priorityText)
	if err != nil {
		return fail(err)
	}

	components := make([]model.GradeComponent, 0, len(dto.GradeComponents))
	for _, c := range dto.GradeComponents {
		component, err := model.ParseGradeComponent(c.Value, c.ID)
		if err != nil {
			return fail(err)
		}
		components = append(components, component)
	}

	return model.Application{
		Number:          dto.N,
		Status:          status,
		Grade:           dto.Grade.Round(3),
		Priority:        priority,
		OfferID:         offerID,
		GradeComponents: components,
	}, name, nil
}

var _ Decrypter = (*edbocrypt.Codec)(nil)
