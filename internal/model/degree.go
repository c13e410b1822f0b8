package model

type Degree int16

const (
	DegreeLowerSecondary Degree = iota + 1
	DegreeQualifiedWorker
	DegreeHighSchool
	DegreeBachelor
	DegreeMaster
	DegreeProfessionalJuniorBachelor
	DegreeJuniorBachelor
	DegreeJuniorSpecialist
	DegreeDoctorOfPhilosophy
	DegreeDoctorOfArts
)

var degreeTable = newCodeTable("degree",
	codeRow[Degree]{DegreeLowerSecondary, "Базова середня освіта"},
	codeRow[Degree]{DegreeQualifiedWorker, "Кваліфікований робітник"},
	codeRow[Degree]{DegreeHighSchool, "Повна загальна середня освіта"},
	codeRow[Degree]{DegreeBachelor, "Бакалавр"},
	codeRow[Degree]{DegreeMaster, "Магістр"},
	codeRow[Degree]{DegreeProfessionalJuniorBachelor, "Фаховий молодший бакалавр"},
	codeRow[Degree]{DegreeJuniorBachelor, "Молодший бакалавр"},
	codeRow[Degree]{DegreeJuniorSpecialist, "Молодший спеціаліст"},
	codeRow[Degree]{DegreeDoctorOfPhilosophy, "Доктор філософії"},
	codeRow[Degree]{DegreeDoctorOfArts, "Доктор мистецтв"},
)

// `qualification` form values, only degrees that can be applied for have one.
var qualificationCodes = map[Degree]int{
	DegreeBachelor:                   1,
	DegreeMaster:                     2,
	DegreeDoctorOfPhilosophy:         7,
	DegreeProfessionalJuniorBachelor: 9,
	DegreeDoctorOfArts:               10,
}

// `education_base` form values, only degrees that can be held already have one.
var educationBaseCodes = map[Degree]int{
	DegreeLowerSecondary:             30,
	DegreeHighSchool:                 40,
	DegreeQualifiedWorker:            510,
	DegreeJuniorSpecialist:           520,
	DegreeProfessionalJuniorBachelor: 530,
	DegreeJuniorBachelor:             610,
	DegreeBachelor:                   620,
	DegreeMaster:                     640,
}

var possibleBases = map[Degree][]Degree{
	DegreeBachelor: {
		DegreeBachelor, DegreeMaster, DegreeHighSchool,
		DegreeProfessionalJuniorBachelor, DegreeJuniorBachelor, DegreeJuniorSpecialist,
	},
	DegreeMaster: {
		DegreeBachelor, DegreeMaster, DegreeHighSchool,
		DegreeProfessionalJuniorBachelor, DegreeJuniorBachelor, DegreeJuniorSpecialist,
	},
	DegreeProfessionalJuniorBachelor: {
		DegreeLowerSecondary, DegreeHighSchool, DegreeProfessionalJuniorBachelor,
		DegreeQualifiedWorker, DegreeJuniorSpecialist,
	},
	DegreeDoctorOfPhilosophy: {DegreeMaster},
	DegreeDoctorOfArts:       {DegreeMaster},
}

func DegreeFromCode(code int) (Degree, error) { return degreeTable.fromCode(code) }
func ParseDegree(text string) (Degree, error) { return degreeTable.fromLabel(text) }
func (d Degree) String() string               { return degreeTable.label(d) }
func Degrees() []Degree                       { return degreeTable.values() }

// Qualification is the code the offers search form uses for the target degree.
func (d Degree) Qualification() (int, bool) {
	code, ok := qualificationCodes[d]
	return code, ok
}

// EducationBase is the code the offers search form uses for the degree an
// applicant already holds.
func (d Degree) EducationBase() (int, bool) {
	code, ok := educationBaseCodes[d]
	return code, ok
}

// PossibleBases lists the degrees an applicant may hold when applying for d.
func (d Degree) PossibleBases() []Degree {
	return possibleBases[d]
}
