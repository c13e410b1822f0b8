package edbo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"edbo-scraper/internal/model"

	"github.com/go-resty/resty/v2"
)

type offersUniversitiesResponse struct {
	Universities []OffersUniversityDTO `json:"universities"`
}

// OffersUniversityDTO aggregates the offers of one university for a search.
// IDs is a comma joined list of N offer ids.
type OffersUniversityDTO struct {
	UID  int64  `json:"uid"`
	Name string `json:"un"`
	IDs  string `json:"ids"`
	N    int    `json:"n"`
}

// OffersUniversitiesQuery is the offers search form. Optional fields are
// omitted when zero.
type OffersUniversitiesQuery struct {
	Qualification int
	EducationBase int
	Speciality    string

	Region        int
	University    int64
	StudyProgram  string
	EducationForm model.StudyForm
	Course        int
}

// MasterSearch searches master offers open to bachelors for one speciality.
func MasterSearch(speciality model.Speciality) OffersUniversitiesQuery {
	qualification, _ := model.DegreeMaster.Qualification()
	base, _ := model.DegreeBachelor.EducationBase()
	return OffersUniversitiesQuery{
		Qualification: qualification,
		EducationBase: base,
		Speciality:    speciality.Code,
	}
}

func (q OffersUniversitiesQuery) form() map[string]string {
	form := map[string]string{
		"qualification":  strconv.Itoa(q.Qualification),
		"education_base": strconv.Itoa(q.EducationBase),
		"speciality":     q.Speciality,
	}
	if q.Region != 0 {
		form["region"] = strconv.Itoa(q.Region)
	}
	if q.University != 0 {
		form["university"] = strconv.FormatInt(q.University, 10)
	}
	if q.StudyProgram != "" {
		form["study_program"] = q.StudyProgram
	}
	if q.EducationForm != 0 {
		form["education_form"] = strconv.Itoa(int(q.EducationForm))
	}
	if q.Course != 0 {
		form["course"] = strconv.Itoa(q.Course)
	}
	return form
}

// ListOffersUniversities runs one offers search.
func (c *Client) ListOffersUniversities(ctx context.Context, query OffersUniversitiesQuery) ([]OffersUniversityDTO, error) {
	endpoint := c.mainURL + "/offers-universities/"
	body, err := c.fetch(ctx, report_client_list_offers_universities, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetHeader("Referer", endpoint).
			SetFormData(query.form()).
			Post(endpoint)
	})
	if err != nil {
		return nil, err
	}

	var res offersUniversitiesResponse
	err = json.Unmarshal(body, &res)
	if err != nil {
		c.tel.ReportBroken(report_client_list_offers_universities, err, query.Speciality)
		return nil, fmt.Errorf("%w: offers universities %s: %w", ErrUnexpectedResponse, query.Speciality, err)
	}
	return res.Universities, nil
}

// ParseOffersUniversity validates the declared count against the id list.
func ParseOffersUniversity(dto OffersUniversityDTO) (model.OffersUniversity, error) {
	return model.NewOffersUniversity(dto.UID, dto.IDs, dto.N)
}
