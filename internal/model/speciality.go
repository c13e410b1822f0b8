package model

// KnowledgeField is the top level grouping (A..K) of the speciality catalog.
type KnowledgeField string

const (
	KnowledgeFieldEducation                              KnowledgeField = "A"
	KnowledgeFieldCultureArtsHumanities                  KnowledgeField = "B"
	KnowledgeFieldSocialSciences                         KnowledgeField = "C"
	KnowledgeFieldBusinessAdministrationLaw              KnowledgeField = "D"
	KnowledgeFieldNaturalSciencesMathematics             KnowledgeField = "E"
	KnowledgeFieldInformationTechnologies                KnowledgeField = "F"
	KnowledgeFieldEngineeringManufacturingConstruction   KnowledgeField = "G"
	KnowledgeFieldAgricultureForestryFisheriesVeterinary KnowledgeField = "H"
	KnowledgeFieldHealthcareSocialSecurity               KnowledgeField = "I"
	KnowledgeFieldTransportServices                      KnowledgeField = "J"
	KnowledgeFieldSecurityDefense                        KnowledgeField = "K"
)

var knowledgeFieldTitles = []struct {
	field KnowledgeField
	title string
}{
	{KnowledgeFieldEducation, "Освіта"},
	{KnowledgeFieldCultureArtsHumanities, "Культура, мистецтво та гуманітарні науки"},
	{KnowledgeFieldSocialSciences, "Соціальні науки, журналістика, інформація та міжнародні відносини"},
	{KnowledgeFieldBusinessAdministrationLaw, "Бізнес, адміністрування та право"},
	{KnowledgeFieldNaturalSciencesMathematics, "Природничі науки, математика та статистика"},
	{KnowledgeFieldInformationTechnologies, "Інформаційні технології"},
	{KnowledgeFieldEngineeringManufacturingConstruction, "Інженерія, виробництво та будівництво"},
	{KnowledgeFieldAgricultureForestryFisheriesVeterinary, "Сільське, лісове, рибне господарство та ветеринарна медицина"},
	{KnowledgeFieldHealthcareSocialSecurity, "Охорона здоров’я та соціальне забезпечення"},
	{KnowledgeFieldTransportServices, "Транспорт та послуги"},
	{KnowledgeFieldSecurityDefense, "Безпека та оборона"},
}

func ParseKnowledgeField(code string) (KnowledgeField, error) {
	for _, kf := range knowledgeFieldTitles {
		if string(kf.field) == code {
			return kf.field, nil
		}
	}
	return "", &UnknownCodeError{Kind: "knowledge field", Value: code}
}

func (k KnowledgeField) Title() string {
	for _, kf := range knowledgeFieldTitles {
		if kf.field == k {
			return kf.title
		}
	}
	return ""
}

func KnowledgeFields() []KnowledgeField {
	out := make([]KnowledgeField, len(knowledgeFieldTitles))
	for i, kf := range knowledgeFieldTitles {
		out[i] = kf.field
	}
	return out
}

// Specialities returns the catalog entries of the field in catalog order.
func (k KnowledgeField) Specialities() []Speciality {
	var out []Speciality
	for _, s := range specialityCatalog {
		if s.Field == k {
			out = append(out, s)
		}
	}
	return out
}

// Speciality is one entry of the closed speciality catalog. Offers are looked up
// per speciality code, so the catalog also drives the offer search.
type Speciality struct {
	Code  string
	Field KnowledgeField
	Title string
}

var specialityByCode = func() map[string]Speciality {
	out := make(map[string]Speciality, len(specialityCatalog))
	for _, s := range specialityCatalog {
		if _, dup := out[s.Code]; dup {
			panic("duplicate speciality code " + s.Code)
		}
		out[s.Code] = s
	}
	return out
}()

func ParseSpeciality(code string) (Speciality, error) {
	s, ok := specialityByCode[code]
	if !ok {
		return Speciality{}, &UnknownCodeError{Kind: "speciality", Value: code}
	}
	return s, nil
}

// Specialities returns the whole catalog in catalog order.
func Specialities() []Speciality {
	out := make([]Speciality, len(specialityCatalog))
	copy(out, specialityCatalog)
	return out
}

// source: https://zakon.rada.gov.ua/laws/show/266-2015-п#n11
var specialityCatalog = []Speciality{
	{Code: "A1", Field: KnowledgeFieldEducation, Title: "Освітні науки"},
	{Code: "A2", Field: KnowledgeFieldEducation, Title: "Дошкільна освіта"},
	{Code: "A3", Field: KnowledgeFieldEducation, Title: "Початкова освіта"},
	{Code: "A4", Field: KnowledgeFieldEducation, Title: "Середня освіта (за предметними спеціальностями)"},
	{Code: "A5", Field: KnowledgeFieldEducation, Title: "Професійна освіта (за спеціалізаціями)"},
	{Code: "A6", Field: KnowledgeFieldEducation, Title: "Спеціальна освіта (за спеціалізаціями)"},
	{Code: "A7", Field: KnowledgeFieldEducation, Title: "Фізична культура і спорт"},
	{Code: "B1", Field: KnowledgeFieldCultureArtsHumanities, Title: "Аудіовізуальне мистецтво та медіавиробництво"},
	{Code: "B2", Field: KnowledgeFieldCultureArtsHumanities, Title: "Дизайн"},
	{Code: "B3", Field: KnowledgeFieldCultureArtsHumanities, Title: "Декоративне мистецтво та ремесла"},
	{Code: "B4", Field: KnowledgeFieldCultureArtsHumanities, Title: "Образотворче мистецтво та реставрація"},
	{Code: "B5", Field: KnowledgeFieldCultureArtsHumanities, Title: "Музичне мистецтво"},
	{Code: "B6", Field: KnowledgeFieldCultureArtsHumanities, Title: "Перформативні мистецтва"},
	{Code: "B7", Field: KnowledgeFieldCultureArtsHumanities, Title: "Релігієзнавство"},
	{Code: "B8", Field: KnowledgeFieldCultureArtsHumanities, Title: "Богослов’я"},
	{Code: "B9", Field: KnowledgeFieldCultureArtsHumanities, Title: "Історія та археологія"},
	{Code: "B10", Field: KnowledgeFieldCultureArtsHumanities, Title: "Філософія"},
	{Code: "B11", Field: KnowledgeFieldCultureArtsHumanities, Title: "Філологія (за спеціалізаціями)"},
	{Code: "B12", Field: KnowledgeFieldCultureArtsHumanities, Title: "Культурологія та музеєзнавство"},
	{Code: "B13", Field: KnowledgeFieldCultureArtsHumanities, Title: "Бібліотечна, інформаційна та архівна справа"},
	{Code: "B14", Field: KnowledgeFieldCultureArtsHumanities, Title: "Організація соціокультурної діяльності"},
	{Code: "C1", Field: KnowledgeFieldSocialSciences, Title: "Економіка та міжнародні економічні відносини (за спеціалізаціями)"},
	{Code: "C2", Field: KnowledgeFieldSocialSciences, Title: "Політологія"},
	{Code: "C3", Field: KnowledgeFieldSocialSciences, Title: "Міжнародні відносини"},
	{Code: "C4", Field: KnowledgeFieldSocialSciences, Title: "Психологія"},
	{Code: "C5", Field: KnowledgeFieldSocialSciences, Title: "Соціологія"},
	{Code: "C6", Field: KnowledgeFieldSocialSciences, Title: "Географія та регіональні студії"},
	{Code: "C7", Field: KnowledgeFieldSocialSciences, Title: "Журналістика"},
	{Code: "D1", Field: KnowledgeFieldBusinessAdministrationLaw, Title: "Облік і оподаткування"},
	{Code: "D2", Field: KnowledgeFieldBusinessAdministrationLaw, Title: "Фінанси, банківська справа, страхування та фондовий ринок"},
	{Code: "D3", Field: KnowledgeFieldBusinessAdministrationLaw, Title: "Менеджмент"},
	{Code: "D4", Field: KnowledgeFieldBusinessAdministrationLaw, Title: "Публічне управління та адміністрування"},
	{Code: "D5", Field: KnowledgeFieldBusinessAdministrationLaw, Title: "Маркетинг"},
	{Code: "D6", Field: KnowledgeFieldBusinessAdministrationLaw, Title: "Секретарська та офісна справа"},
	{Code: "D7", Field: KnowledgeFieldBusinessAdministrationLaw, Title: "Торгівля"},
	{Code: "D8", Field: KnowledgeFieldBusinessAdministrationLaw, Title: "Право"},
	{Code: "D9", Field: KnowledgeFieldBusinessAdministrationLaw, Title: "Міжнародне право"},
	{Code: "E1", Field: KnowledgeFieldNaturalSciencesMathematics, Title: "Біологія та біохімія"},
	{Code: "E2", Field: KnowledgeFieldNaturalSciencesMathematics, Title: "Екологія"},
	{Code: "E3", Field: KnowledgeFieldNaturalSciencesMathematics, Title: "Хімія"},
	{Code: "E4", Field: KnowledgeFieldNaturalSciencesMathematics, Title: "Науки про Землю"},
	{Code: "E5", Field: KnowledgeFieldNaturalSciencesMathematics, Title: "Фізика та астрономія"},
	{Code: "E6", Field: KnowledgeFieldNaturalSciencesMathematics, Title: "Прикладна фізика та наноматеріали"},
	{Code: "E7", Field: KnowledgeFieldNaturalSciencesMathematics, Title: "Математика"},
	{Code: "E8", Field: KnowledgeFieldNaturalSciencesMathematics, Title: "Статистика"},
	{Code: "F1", Field: KnowledgeFieldInformationTechnologies, Title: "Прикладна математика"},
	{Code: "F2", Field: KnowledgeFieldInformationTechnologies, Title: "Інженерія програмного забезпечення"},
	{Code: "F3", Field: KnowledgeFieldInformationTechnologies, Title: "Комп’ютерні науки"},
	{Code: "F4", Field: KnowledgeFieldInformationTechnologies, Title: "Системний аналіз та наука про дані"},
	{Code: "F5", Field: KnowledgeFieldInformationTechnologies, Title: "Кібербезпека та захист інформації"},
	{Code: "F6", Field: KnowledgeFieldInformationTechnologies, Title: "Інформаційні системи і технології"},
	{Code: "F7", Field: KnowledgeFieldInformationTechnologies, Title: "Комп’ютерна інженерія"},
	{Code: "G1", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Хімічні технології та інженерія"},
	{Code: "G2", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Технології захисту навколишнього середовища"},
	{Code: "G3", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Електрична інженерія"},
	{Code: "G4", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Енерговиробництво (за спеціалізацією)"},
	{Code: "G5", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Електроніка, електронні комунікації, приладобудування та радіотехніка"},
	{Code: "G6", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Інформаційно-вимірювальні технології"},
	{Code: "G7", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Автоматизація, комп’ютерно-інтегровані технології та робототехніка"},
	{Code: "G8", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Матеріалознавство"},
	{Code: "G9", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Прикладна механіка"},
	{Code: "G10", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Металургія"},
	{Code: "G11", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Машинобудування (за спеціалізаціями)"},
	{Code: "G12", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Авіаційна та ракетно-космічна техніка"},
	{Code: "G13", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Харчові технології"},
	{Code: "G14", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Деревообробні та меблеві технології"},
	{Code: "G15", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Технології легкої промисловості"},
	{Code: "G16", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Гірництво та нафтогазові технології"},
	{Code: "G17", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Архітектура та містобудування"},
	{Code: "G18", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Геодезія та землеустрій"},
	{Code: "G19", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Будівництво та цивільна інженерія"},
	{Code: "G20", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Видавництво та поліграфія"},
	{Code: "G21", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Біотехнології та біоінженерія"},
	{Code: "G22", Field: KnowledgeFieldEngineeringManufacturingConstruction, Title: "Біомедична інженерія"},
	{Code: "H1", Field: KnowledgeFieldAgricultureForestryFisheriesVeterinary, Title: "Агрономія"},
	{Code: "H2", Field: KnowledgeFieldAgricultureForestryFisheriesVeterinary, Title: "Тваринництво"},
	{Code: "H3", Field: KnowledgeFieldAgricultureForestryFisheriesVeterinary, Title: "Садово-паркове господарство"},
	{Code: "H4", Field: KnowledgeFieldAgricultureForestryFisheriesVeterinary, Title: "Лісове господарство"},
	{Code: "H5", Field: KnowledgeFieldAgricultureForestryFisheriesVeterinary, Title: "Водні біоресурси та аквакультура"},
	{Code: "H6", Field: KnowledgeFieldAgricultureForestryFisheriesVeterinary, Title: "Ветеринарна медицина"},
	{Code: "H7", Field: KnowledgeFieldAgricultureForestryFisheriesVeterinary, Title: "Агроінженерія"},
	{Code: "I1", Field: KnowledgeFieldHealthcareSocialSecurity, Title: "Стоматологія"},
	{Code: "I2", Field: KnowledgeFieldHealthcareSocialSecurity, Title: "Медицина"},
	{Code: "I3", Field: KnowledgeFieldHealthcareSocialSecurity, Title: "Педіатрія"},
	{Code: "I4", Field: KnowledgeFieldHealthcareSocialSecurity, Title: "Медична психологія"},
	{Code: "I5", Field: KnowledgeFieldHealthcareSocialSecurity, Title: "Медсестринство (за спеціалізаціями)"},
	{Code: "I6", Field: KnowledgeFieldHealthcareSocialSecurity, Title: "Технології медичної діагностики та лікування (за спеціалізаціями)"},
	{Code: "I7", Field: KnowledgeFieldHealthcareSocialSecurity, Title: "Терапія та реабілітація (за спеціалізаціями)"},
	{Code: "I8", Field: KnowledgeFieldHealthcareSocialSecurity, Title: "Фармація (за спеціалізаціями)"},
	{Code: "I9", Field: KnowledgeFieldHealthcareSocialSecurity, Title: "Громадське здоров’я"},
	{Code: "I10", Field: KnowledgeFieldHealthcareSocialSecurity, Title: "Соціальна робота та консультування"},
	{Code: "I11", Field: KnowledgeFieldHealthcareSocialSecurity, Title: "Дитячі та молодіжні служби"},
	{Code: "J1", Field: KnowledgeFieldTransportServices, Title: "Послуги краси"},
	{Code: "J2", Field: KnowledgeFieldTransportServices, Title: "Готельно-ресторанна справа та кейтеринг"},
	{Code: "J3", Field: KnowledgeFieldTransportServices, Title: "Туризм та рекреація"},
	{Code: "J4", Field: KnowledgeFieldTransportServices, Title: "Охорона праці"},
	{Code: "J5", Field: KnowledgeFieldTransportServices, Title: "Морський та внутрішній водний транспорт"},
	{Code: "J6", Field: KnowledgeFieldTransportServices, Title: "Авіаційний транспорт"},
	{Code: "J7", Field: KnowledgeFieldTransportServices, Title: "Залізничний транспорт"},
	{Code: "J8", Field: KnowledgeFieldTransportServices, Title: "Автомобільний транспорт"},
	{Code: "K1", Field: KnowledgeFieldSecurityDefense, Title: "Державна безпека"},
	{Code: "K2", Field: KnowledgeFieldSecurityDefense, Title: "Безпека державного кордону"},
	{Code: "K3", Field: KnowledgeFieldSecurityDefense, Title: "Національна безпека (за окремими сферами забезпечення і видами діяльності)"},
	{Code: "K4", Field: KnowledgeFieldSecurityDefense, Title: "Управління інформаційною безпекою"},
	{Code: "K5", Field: KnowledgeFieldSecurityDefense, Title: "Військове управління (за видами збройних сил)"},
	{Code: "K6", Field: KnowledgeFieldSecurityDefense, Title: "Забезпечення військ (сил)"},
	{Code: "K7", Field: KnowledgeFieldSecurityDefense, Title: "Озброєння та військова техніка"},
	{Code: "K8", Field: KnowledgeFieldSecurityDefense, Title: "Пожежна безпека"},
	{Code: "K9", Field: KnowledgeFieldSecurityDefense, Title: "Правоохоронна діяльність"},
	{Code: "K10", Field: KnowledgeFieldSecurityDefense, Title: "Цивільна безпека"},
}
