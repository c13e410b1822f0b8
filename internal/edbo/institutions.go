package edbo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"edbo-scraper/internal/model"

	"github.com/go-resty/resty/v2"
)

// InstitutionDTO is one record of the registry export. Only the fields the
// model needs are decoded.
type InstitutionDTO struct {
	Name              string  `json:"university_name"`
	ID                string  `json:"university_id"`
	ParentID          *string `json:"university_parent_id"`
	ShortName         *string `json:"university_short_name"`
	EnglishName       *string `json:"university_name_en"`
	IsFromCrimea      *string `json:"is_from_crimea"`
	RegistrationYear  *string `json:"registration_year"`
	TypeName          *string `json:"university_type_name"`
	FinancingTypeName *string `json:"university_financing_type_name"`
	RegionName        string  `json:"region_name_u"`
}

// InstitutionsQuery narrows the registry export, zero values are omitted.
type InstitutionsQuery struct {
	Category model.InstitutionCategory
	// Region is the registry `lc` code.
	Region int
}

func (q InstitutionsQuery) params() (map[string]string, error) {
	params := map[string]string{"exp": "json"}
	if q.Category != model.CategoryUnknown {
		code, ok := q.Category.RegistryCode()
		if !ok {
			return nil, fmt.Errorf("category %s has no registry code", q.Category)
		}
		params["ut"] = strconv.Itoa(code)
	}
	if q.Region != 0 {
		params["lc"] = strconv.Itoa(q.Region)
	}
	return params, nil
}

// ListInstitutions downloads the registry export.
func (c *Client) ListInstitutions(ctx context.Context, query InstitutionsQuery) ([]InstitutionDTO, error) {
	params, err := query.params()
	if err != nil {
		return nil, err
	}

	body, err := c.fetch(ctx, report_client_list_institutions, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetQueryParams(params).
			Get(c.registryURL + "/universities/")
	})
	if err != nil {
		return nil, err
	}

	var out []InstitutionDTO
	err = json.Unmarshal(body, &out)
	if err != nil {
		c.tel.ReportBroken(report_client_list_institutions, err)
		return nil, fmt.Errorf("%w: institutions: %w", ErrUnexpectedResponse, err)
	}
	c.tel.ReportCount(report_client_list_institutions, int64(len(out)))
	return out, nil
}

func parseOptionalInt(field string, value *string, bitSize int) (*int64, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(*value), 10, bitSize)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", field, err)
	}
	return &parsed, nil
}

func optionalString(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return value
}

// ParseInstitution maps a registry record to the model. Unknown category or
// ownership labels do not fail the record, they become Unknown and are returned
// in unknown so the caller can report them. The region is required.
func ParseInstitution(dto InstitutionDTO) (inst model.Institution, unknown []error, err error) {
	id, err := strconv.ParseInt(strings.TrimSpace(dto.ID), 10, 64)
	if err != nil {
		return model.Institution{}, nil, fmt.Errorf("parse institution id %q: %w", dto.ID, err)
	}
	parentID, err := parseOptionalInt("parent id", dto.ParentID, 64)
	if err != nil {
		return model.Institution{}, nil, fmt.Errorf("institution %d: %w", id, err)
	}
	parsedYear, err := parseOptionalInt("registration year", dto.RegistrationYear, 16)
	if err != nil {
		return model.Institution{}, nil, fmt.Errorf("institution %d: %w", id, err)
	}
	var year *int16
	if parsedYear != nil {
		y := int16(*parsedYear)
		year = &y
	}
	region, err := model.ParseRegion(dto.RegionName)
	if err != nil {
		return model.Institution{}, nil, fmt.Errorf("institution %d: %w", id, err)
	}

	category := model.CategoryUnknown
	if dto.TypeName != nil {
		category, err = model.ParseInstitutionCategory(*dto.TypeName)
		if err != nil {
			category = model.CategoryUnknown
			unknown = append(unknown, fmt.Errorf("institution %d: %w", id, err))
		}
	}
	ownership := model.OwnershipUnknown
	if dto.FinancingTypeName != nil {
		ownership, err = model.ParseOwnershipForm(*dto.FinancingTypeName)
		if err != nil {
			ownership = model.OwnershipUnknown
			unknown = append(unknown, fmt.Errorf("institution %d: %w", id, err))
		}
	}

	return model.Institution{
		ID:               id,
		Name:             dto.Name,
		ParentID:         parentID,
		ShortName:        dto.ShortName,
		EnglishName:      optionalString(dto.EnglishName),
		IsFromCrimea:     dto.IsFromCrimea != nil && *dto.IsFromCrimea == "так",
		RegistrationYear: year,
		Category:         category,
		OwnershipForm:    ownership,
		Region:           region,
	}, unknown, nil
}
