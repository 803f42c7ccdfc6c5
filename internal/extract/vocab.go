package extract

// Vocabulary holds the fixed phrase lists matched for location and provider
// constraints. Phrases are matched case-insensitively on word boundaries and
// reported as written here.
type Vocabulary struct {
	Locations []string
	Providers []string
}

// DefaultVocabulary returns a fresh copy of the built-in phrase lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Locations: append([]string(nil), defaultLocations...),
		Providers: append([]string(nil), defaultProviders...),
	}
}

var defaultLocations = []string{
	"consulting rooms",
	"hospital",
	"home",
	"residential aged care facility",
	"emergency department",
	"intensive care unit",
	"icu",
	"theatre",
	"outpatient",
	"inpatient",
	"clinic",
	"medical centre",
	"general practice",
	"specialist rooms",
	"day surgery",
	"day procedure unit",
	"recovery room",
	"ward",
	"private hospital",
	"public hospital",
	"community health centre",
	"mental health facility",
	"rehabilitation centre",
	"palliative care unit",
	"maternity ward",
	"paediatric ward",
	"cardiac unit",
	"neurology unit",
	"oncology unit",
	"radiology department",
	"pathology laboratory",
	"pharmacy",
	"dental surgery",
	"physiotherapy clinic",
	"occupational therapy",
	"speech therapy",
	"dietitian clinic",
	"psychology clinic",
	"counselling centre",
	"telehealth",
	"video consultation",
	"phone consultation",
	"remote consultation",
}

var defaultProviders = []string{
	"general practitioner",
	"specialist",
	"consultant physician",
	"medical practitioner",
	"practice nurse",
	"gp registrar",
	"diagnostic radiologist",
	"surgeon",
	"anaesthetist",
	"psychiatrist",
	"psychologist",
	"physiotherapist",
	"occupational therapist",
	"speech therapist",
	"dietitian",
	"pharmacist",
	"dentist",
	"dental specialist",
	"nurse practitioner",
	"midwife",
	"mental health nurse",
	"community health nurse",
	"palliative care nurse",
	"oncology nurse",
	"cardiac nurse",
	"diabetes educator",
	"social worker",
	"counsellor",
	"mental health worker",
	"allied health professional",
	"health professional",
	"healthcare professional",
	"medical specialist",
	"surgical specialist",
	"paediatrician",
	"geriatrician",
	"cardiologist",
	"neurologist",
	"oncologist",
	"dermatologist",
	"ophthalmologist",
	"orthopaedic surgeon",
	"plastic surgeon",
	"neurosurgeon",
	"cardiothoracic surgeon",
	"urologist",
	"gynaecologist",
	"obstetrician",
	"endocrinologist",
	"gastroenterologist",
	"respiratory physician",
	"rheumatologist",
	"nephrologist",
	"haematologist",
	"pathologist",
	"radiologist",
	"nuclear medicine physician",
	"emergency physician",
	"intensive care physician",
	"palliative care physician",
	"rehabilitation physician",
	"sports physician",
	"occupational physician",
	"public health physician",
	"forensic physician",
	"medical officer",
	"resident medical officer",
	"registrar",
	"resident",
	"intern",
	"medical student",
	"nursing student",
	"allied health student",
}
