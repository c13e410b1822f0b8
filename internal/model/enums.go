package model

// Status is the state of a single application as reported by the listing
// endpoint (`prsid`).
type Status int16

const (
	StatusApplicationReceived Status = iota + 1
	StatusPending
	StatusCancelledByApplicant
	StatusCancelledPriorityLost
	StatusRegistered
	StatusAdmitted
	StatusRejected
	StatusCancelledByInstitution
	StatusRecommendedBudget
	StatusRejectedBudget
	StatusAdmittedContractDecision
	StatusRecommendedContract
	StatusRejectedContract
	StatusToEnrollmentOrder
	StatusExpelled
	StatusDeactivatedEnrolled
)

var statusTable = newCodeTable("status",
	codeRow[Status]{StatusApplicationReceived, "Заява надійшла з сайту"},
	codeRow[Status]{StatusPending, "Затримано"},
	codeRow[Status]{StatusCancelledByApplicant, "Скасовано вступником"},
	codeRow[Status]{StatusCancelledPriorityLost, "Скасовано (втрата пріоритету)"},
	codeRow[Status]{StatusRegistered, "Зареєстровано"},
	codeRow[Status]{StatusAdmitted, "Допущено"},
	codeRow[Status]{StatusRejected, "Відмова"},
	codeRow[Status]{StatusCancelledByInstitution, "Скасовано закладом освіти"},
	codeRow[Status]{StatusRecommendedBudget, "Рекомендовано (бюджет)"},
	codeRow[Status]{StatusRejectedBudget, "Відхилено (бюджет)"},
	codeRow[Status]{StatusAdmittedContractDecision, "Допущено (контракт, за ріш. ПК)"},
	codeRow[Status]{StatusRecommendedContract, "Рекомендовано (контракт)"},
	codeRow[Status]{StatusRejectedContract, "Відхилено (контракт)"},
	codeRow[Status]{StatusToEnrollmentOrder, "До наказу"},
	codeRow[Status]{StatusExpelled, "Відраховано"},
	codeRow[Status]{StatusDeactivatedEnrolled, "Деактивовано (зараховано на навчання)"},
)

// ParseStatus decodes the numeric status code used by the listing endpoint.
func ParseStatus(code int) (Status, error) { return statusTable.fromCode(code) }
func (s Status) String() string            { return statusTable.label(s) }
func Statuses() []Status                   { return statusTable.values() }

// Priority is the decrypted priority of an application: the Nth budget choice or
// a contract-only application.
type Priority int16

const (
	PriorityFirst Priority = iota + 1
	PrioritySecond
	PriorityThird
	PriorityFourth
	PriorityFifth
	PriorityContract
)

var priorityTable = newCodeTable("priority",
	codeRow[Priority]{PriorityFirst, "1 (Б)"},
	codeRow[Priority]{PrioritySecond, "2 (Б)"},
	codeRow[Priority]{PriorityThird, "3 (Б)"},
	codeRow[Priority]{PriorityFourth, "4 (Б)"},
	codeRow[Priority]{PriorityFifth, "5 (Б)"},
	codeRow[Priority]{PriorityContract, "(К)"},
)

// ParsePriority decodes "<N> (Б)" or "(К)", surrounding whitespace is ignored.
func ParsePriority(text string) (Priority, error) { return priorityTable.fromLabel(text) }
func PriorityFromCode(code int) (Priority, error) { return priorityTable.fromCode(code) }
func (p Priority) String() string                 { return priorityTable.label(p) }
func Priorities() []Priority                      { return priorityTable.values() }

// IsBudget reports whether the priority competes for state funded places, and
// if so which choice it is.
func (p Priority) IsBudget() (int, bool) {
	if p >= PriorityFirst && p <= PriorityFifth {
		return int(p), true
	}
	return 0, false
}

type StudyForm int16

const (
	StudyFormFullTime StudyForm = 1
	StudyFormExternal StudyForm = 2
	StudyFormEvening  StudyForm = 4
	StudyFormOnline   StudyForm = 5
)

var studyFormTable = newCodeTable("study form",
	codeRow[StudyForm]{StudyFormFullTime, "Денна"},
	codeRow[StudyForm]{StudyFormExternal, "Заочна"},
	codeRow[StudyForm]{StudyFormEvening, "Вечірня"},
	codeRow[StudyForm]{StudyFormOnline, "Дистанційна"},
)

func ParseStudyForm(text string) (StudyForm, error) { return studyFormTable.fromLabel(text) }
func StudyFormFromCode(code int) (StudyForm, error) { return studyFormTable.fromCode(code) }
func (s StudyForm) String() string                  { return studyFormTable.label(s) }
func StudyForms() []StudyForm                       { return studyFormTable.values() }

// OfferType is the funding type of an offer.
type OfferType int16

const (
	OfferTypeOpen OfferType = iota + 1
	OfferTypeFixed
	OfferTypeNonBudgetary
)

var offerTypeTable = newCodeTable("offer type",
	codeRow[OfferType]{OfferTypeOpen, "Відкрита"},
	codeRow[OfferType]{OfferTypeFixed, "Фіксована"},
	codeRow[OfferType]{OfferTypeNonBudgetary, "Небюджетна"},
)

func ParseOfferType(text string) (OfferType, error) { return offerTypeTable.fromLabel(text) }
func OfferTypeFromCode(code int) (OfferType, error) { return offerTypeTable.fromCode(code) }
func (o OfferType) String() string                  { return offerTypeTable.label(o) }
func OfferTypes() []OfferType                       { return offerTypeTable.values() }

type Region int16

const (
	RegionVinnytsia Region = iota + 1
	RegionVolyn
	RegionDnipropetrovsk
	RegionDonetsk
	RegionZhytomyr
	RegionZakarpattia
	RegionZaporizhzhia
	RegionIvanoFrankivsk
	RegionKyiv
	RegionKirovohrad
	RegionLuhansk
	RegionLviv
	RegionMykolaiv
	RegionOdesa
	RegionPoltava
	RegionRivne
	RegionSumy
	RegionTernopil
	RegionKharkiv
	RegionKherson
	RegionKhmelnytskyi
	RegionCherkasy
	RegionChernivtsi
	RegionChernihiv
	RegionKyivCity
)

var regionTable = newCodeTable("region",
	codeRow[Region]{RegionVinnytsia, "Вінницька обл."},
	codeRow[Region]{RegionVolyn, "Волинська обл."},
	codeRow[Region]{RegionDnipropetrovsk, "Дніпропетровська обл."},
	codeRow[Region]{RegionDonetsk, "Донецька обл."},
	codeRow[Region]{RegionZhytomyr, "Житомирська обл."},
	codeRow[Region]{RegionZakarpattia, "Закарпатська обл."},
	codeRow[Region]{RegionZaporizhzhia, "Запорізька обл."},
	codeRow[Region]{RegionIvanoFrankivsk, "Івано-Франківська обл."},
	codeRow[Region]{RegionKyiv, "Київська обл."},
	codeRow[Region]{RegionKirovohrad, "Кіровоградська обл."},
	codeRow[Region]{RegionLuhansk, "Луганська обл."},
	codeRow[Region]{RegionLviv, "Львівська обл."},
	codeRow[Region]{RegionMykolaiv, "Миколаївська обл."},
	codeRow[Region]{RegionOdesa, "Одеська обл."},
	codeRow[Region]{RegionPoltava, "Полтавська обл."},
	codeRow[Region]{RegionRivne, "Рівненська обл."},
	codeRow[Region]{RegionSumy, "Сумська обл."},
	codeRow[Region]{RegionTernopil, "Тернопільська обл."},
	codeRow[Region]{RegionKharkiv, "Харківська обл."},
	codeRow[Region]{RegionKherson, "Херсонська обл."},
	codeRow[Region]{RegionKhmelnytskyi, "Хмельницька обл."},
	codeRow[Region]{RegionCherkasy, "Черкаська обл."},
	codeRow[Region]{RegionChernivtsi, "Чернівецька обл."},
	codeRow[Region]{RegionChernihiv, "Чернігівська обл."},
	codeRow[Region]{RegionKyivCity, "м. Київ"},
)

func ParseRegion(text string) (Region, error) { return regionTable.fromLabel(text) }
func RegionFromCode(code int) (Region, error) { return regionTable.fromCode(code) }
func (r Region) String() string               { return regionTable.label(r) }
func Regions() []Region                       { return regionTable.values() }

// InstitutionCategory is the registry's institution type. CategoryUnknown is not
// part of the table, it is what an institution gets when the registry sends a
// label the table does not know.
type InstitutionCategory int16

const (
	CategoryUnknown InstitutionCategory = iota
	CategoryHigherEducation
	CategoryVocationalTechnical
	CategoryScientific
	CategoryPreUniversityProfessional
	CategoryPostgraduate
	CategoryGeneralSecondaryEducation
	CategoryOtherVocationalTechnical
)

var categoryTable = newCodeTable("institution category",
	codeRow[InstitutionCategory]{CategoryHigherEducation, "Заклад вищої освіти"},
	codeRow[InstitutionCategory]{CategoryVocationalTechnical, "Заклад професійної (професійно-технічної) освіти"},
	codeRow[InstitutionCategory]{CategoryScientific, "Наукові інститути (установи)"},
	codeRow[InstitutionCategory]{CategoryPreUniversityProfessional, "Заклад фахової передвищої освіти"},
	codeRow[InstitutionCategory]{CategoryPostgraduate, "Заклад післядипломної освіти"},
	codeRow[InstitutionCategory]{CategoryGeneralSecondaryEducation, "Заклад загальної середньої освіти"},
	codeRow[InstitutionCategory]{CategoryOtherVocationalTechnical, "Інший заклад освіти, що надає професійну (професійно-технічну освіту)"},
)

// registry `ut` query codes
var categoryRegistryCodes = map[InstitutionCategory]int{
	CategoryHigherEducation:           1,
	CategoryVocationalTechnical:       2,
	CategoryScientific:                8,
	CategoryPreUniversityProfessional: 9,
	CategoryPostgraduate:              10,
}

func ParseInstitutionCategory(text string) (InstitutionCategory, error) {
	return categoryTable.fromLabel(text)
}
func InstitutionCategoryFromCode(code int) (InstitutionCategory, error) {
	if code == int(CategoryUnknown) {
		return CategoryUnknown, nil
	}
	return categoryTable.fromCode(code)
}
func (c InstitutionCategory) String() string { return categoryTable.label(c) }
func InstitutionCategories() []InstitutionCategory {
	return categoryTable.values()
}

// RegistryCode is the `ut` parameter of the registry listing for this category.
func (c InstitutionCategory) RegistryCode() (int, bool) {
	code, ok := categoryRegistryCodes[c]
	return code, ok
}

type OwnershipForm int16

const (
	OwnershipUnknown OwnershipForm = iota
	OwnershipState
	OwnershipMunicipal
	OwnershipCorporate
	OwnershipPrivate
)

var ownershipTable = newCodeTable("ownership form",
	codeRow[OwnershipForm]{OwnershipState, "Державна"},
	codeRow[OwnershipForm]{OwnershipMunicipal, "Комунальна"},
	codeRow[OwnershipForm]{OwnershipCorporate, "Корпоративна"},
	codeRow[OwnershipForm]{OwnershipPrivate, "Приватна"},
)

func ParseOwnershipForm(text string) (OwnershipForm, error) { return ownershipTable.fromLabel(text) }
func OwnershipFormFromCode(code int) (OwnershipForm, error) {
	if code == int(OwnershipUnknown) {
		return OwnershipUnknown, nil
	}
	return ownershipTable.fromCode(code)
}
func (o OwnershipForm) String() string { return ownershipTable.label(o) }
func OwnershipForms() []OwnershipForm  { return ownershipTable.values() }
