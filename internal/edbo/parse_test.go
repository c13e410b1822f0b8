package edbo

import (
	"errors"
	"fmt"
	"testing"

	"edbo-scraper/internal/edbocrypt"
	"edbo-scraper/internal/model"
	"edbo-scraper/internal/tagextract"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func offerPage(literal string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><head>
<script>var search = {"ustn":"Небюджетна","ol":1};</script>
</head><body>
<div id="offer"></div>
<script>
let offer = %s;
render(offer);
</script>
</body></html>`, literal)
}

func ptr[T any](v T) *T {
	return &v
}

func TestParseOffer(t *testing.T) {
	f3, err := model.ParseSpeciality("F3")
	require.NoError(t, err)

	testCases := []struct {
		name     string
		literal  string
		verdict  OfferVerdict
		expected model.Offer
	}{
		{
			name: "open offer",
			literal: `{"ustn":"Відкрита","ufn":"Факультет інформатики","usn":"Інженерія даних",
				"mptn":"освітньо-професійна","ssc":"F3","spn":"Комп'ютерні науки","ol":120,
				"efn":"Денна","ox":15,"ob":3}`,
			verdict: OfferKept,
			expected: model.Offer{
				ID:               1454003,
				Title:            "Комп'ютерні науки",
				Degree:           model.DegreeMaster,
				EducationProgram: "Інженерія даних",
				Faculty:          ptr("Факультет інформатики"),
				Speciality:       f3,
				MasterType:       ptr("освітньо-професійна"),
				StudyForm:        model.StudyFormFullTime,
				LicenseVolume:    120,
				BudgetPlaces:     15,
				Type:             model.OfferTypeOpen,
			},
		},
		{
			name:    "fixed offer reads ob, optional fields absent",
			literal: `{"ustn":"Фіксована","ufn":null,"ssc":"F3","spn":"КН","ol":40,"efn":"Заочна","ox":15,"ob":3}`,
			verdict: OfferKept,
			expected: model.Offer{
				ID:            1454003,
				Title:         "КН",
				Degree:        model.DegreeMaster,
				Speciality:    f3,
				StudyForm:     model.StudyFormExternal,
				LicenseVolume: 40,
				BudgetPlaces:  3,
				Type:          model.OfferTypeFixed,
			},
		},
		{
			name:    "non budgetary short circuits",
			literal: `{"ustn":"Небюджетна","ssc":"F3","spn":"КН","ol":40,"efn":"Денна","ox":15}`,
			verdict: OfferNonBudgetary,
		},
		{
			name:    "non budgetary with nothing else",
			literal: `{"ustn":"Небюджетна"}`,
			verdict: OfferNonBudgetary,
		},
		{
			name:    "missing license volume",
			literal: `{"ustn":"Відкрита","ssc":"F3","spn":"КН","efn":"Денна","ox":15}`,
			verdict: OfferMalformed,
		},
		{
			name:    "missing budget places for open offer",
			literal: `{"ustn":"Відкрита","ssc":"F3","spn":"КН","ol":40,"efn":"Денна","ob":15}`,
			verdict: OfferMalformed,
		},
		{
			name:    "unknown speciality",
			literal: `{"ustn":"Відкрита","ssc":"122","spn":"КН","ol":40,"efn":"Денна","ox":15}`,
			verdict: OfferMalformed,
		},
		{
			name:    "unknown offer type",
			literal: `{"ustn":"Змішана"}`,
			verdict: OfferMalformed,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			offer, verdict, err := ParseOffer(1454003, offerPage(test.literal))
			require.Equal(t, test.verdict, verdict, "err: %v", err)
			switch verdict {
			case OfferKept:
				require.NoError(t, err)
				diff := cmp.Diff(test.expected, offer)
				if diff != "" {
					t.Fatal(diff)
				}
			case OfferNonBudgetary:
				require.NoError(t, err)
				require.Equal(t, model.Offer{}, offer)
			case OfferMalformed:
				require.Error(t, err)
				require.Contains(t, err.Error(), "offer 1454003")
			}
		})
	}
}

func TestParseOfferMissingMarker(t *testing.T) {
	_, verdict, err := ParseOffer(1, "<html><body>Сторінку не знайдено</body></html>")
	require.Equal(t, OfferMalformed, verdict)
	var extractErr *tagextract.ExtractError
	require.True(t, errors.As(err, &extractErr))
	require.Equal(t, "ustn", extractErr.Tag)
}

func TestOfferScript(t *testing.T) {
	script := offerScript(offerPage(`{"ustn":"Відкрита"}`))
	require.Contains(t, script, "let offer")
	require.NotContains(t, script, "var search")

	raw := `let offer = {"ustn":"Відкрита"}`
	require.Equal(t, raw, offerScript(raw))
}

type failingCodec struct{}

func (failingCodec) Decrypt(string, int64, int64) (string, error) {
	return "", &edbocrypt.DecryptError{Kind: edbocrypt.KindPadding, Err: errors.New("bad padding")}
}

func TestParseApplication(t *testing.T) {
	dto := ApplicationDTO{
		N:        7,
		StatusID: 6,
		Fio:      "TTdMQmt4ZkFlN2JqZnA1L1ZZMkhUSmsyL3FrSU53UHRJdGcvMnFnaUV6bz0=",
		Grade:    decimal.RequireFromString("185.4567"),
		Priority: "N1dtV2NNSmkrRjlSWnV5cmJkSWd3UT09",
		GradeComponents: []GradeComponentDTO{
			{Value: "+26.800", Formula: "134 x 0.2", ID: 501},
			{Value: "158.657 ", Formula: "", ID: 502},
		},
	}

	app, name, err := ParseApplication(dto, 1454003, edbocrypt.NewCodec())
	require.NoError(t, err)
	require.Equal(t, "Дем`янчук О. П.", name)
	require.Equal(t, int64(7), app.Number)
	require.Equal(t, model.StatusAdmitted, app.Status)
	require.Equal(t, model.PriorityFourth, app.Priority)
	require.Equal(t, int64(1454003), app.OfferID)
	require.Equal(t, "185.457", app.Grade.String())
	require.Len(t, app.GradeComponents, 2)
	require.InDelta(t, 26.8, app.GradeComponents[0].Value, 1e-5)
	require.Equal(t, int64(501), app.GradeComponents[0].SourceID)
	require.InDelta(t, 158.657, app.GradeComponents[1].Value, 1e-4)
}

func TestParseApplicationFailures(t *testing.T) {
	valid := ApplicationDTO{
		N:        1,
		StatusID: 6,
		Fio:      "MGRoaTJ5eFE3d05GWU0vNjVDcmlJNUNkb3FRZk5nQnhmUTF5ZVh1RDNDaz0=",
		Priority: "N1dtV2NNSmkrRjlSWnV5cmJkSWd3UT09",
	}

	unknownStatus := valid
	unknownStatus.StatusID = 42
	_, _, err := ParseApplication(unknownStatus, 1, edbocrypt.NewCodec())
	var unknown *model.UnknownCodeError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "status", unknown.Kind)

	// the priority was encrypted for entry 7, decrypting it as entry 1 fails
	_, _, err = ParseApplication(valid, 1, edbocrypt.NewCodec())
	require.Error(t, err)

	_, _, err = ParseApplication(valid, 1, failingCodec{})
	require.ErrorIs(t, err, edbocrypt.ErrPadding)

	badGrade := valid
	badGrade.GradeComponents = []GradeComponentDTO{{Value: "н/д"}}
	_, _, err = ParseApplication(badGrade, 1, fixedCodec{"Ковальов О. О.", "1 (Б)"})
	require.ErrorIs(t, err, model.ErrGradeParse)

	badPriority := valid
	_, _, err = ParseApplication(badPriority, 1, fixedCodec{"Ковальов О. О.", "7 (Б)"})
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "priority", unknown.Kind)
}

// fixedCodec answers the name for `fio` and the priority for `p`.
type fixedCodec struct {
	name     string
	priority string
}

func (c fixedCodec) Decrypt(ciphertext string, _, _ int64) (string, error) {
	if ciphertext == "N1dtV2NNSmkrRjlSWnV5cmJkSWd3UT09" {
		return c.priority, nil
	}
	return c.name, nil
}

func TestParseInstitution(t *testing.T) {
	dto := InstitutionDTO{
		Name:              "Київський політехнічний інститут",
		ID:                "79",
		ParentID:          ptr("12"),
		ShortName:         ptr("КПІ"),
		EnglishName:       ptr("  "),
		IsFromCrimea:      ptr("так"),
		RegistrationYear:  ptr("1898"),
		TypeName:          ptr("Заклад вищої освіти"),
		FinancingTypeName: ptr("Державна"),
		RegionName:        "м. Київ",
	}

	inst, unknown, err := ParseInstitution(dto)
	require.NoError(t, err)
	require.Empty(t, unknown)
	diff := cmp.Diff(model.Institution{
		ID:               79,
		Name:             "Київський політехнічний інститут",
		ParentID:         ptr(int64(12)),
		ShortName:        ptr("КПІ"),
		IsFromCrimea:     true,
		RegistrationYear: ptr(int16(1898)),
		Category:         model.CategoryHigherEducation,
		OwnershipForm:    model.OwnershipState,
		Region:           model.RegionKyivCity,
	}, inst)
	if diff != "" {
		t.Fatal(diff)
	}

	dto.TypeName = ptr("Щось нове")
	dto.FinancingTypeName = nil
	dto.IsFromCrimea = nil
	inst, unknown, err = ParseInstitution(dto)
	require.NoError(t, err)
	require.Len(t, unknown, 1)
	require.Equal(t, model.CategoryUnknown, inst.Category)
	require.Equal(t, model.OwnershipUnknown, inst.OwnershipForm)
	require.False(t, inst.IsFromCrimea)

	dto.RegionName = "Автономна Республіка Крим"
	_, _, err = ParseInstitution(dto)
	require.Error(t, err)

	dto.RegionName = "м. Київ"
	dto.ID = "x"
	_, _, err = ParseInstitution(dto)
	require.Error(t, err)
}
