package models

// Static feature registry. Each entry instantiates the generic categorical
// ward statistic module for one domain: its tables, its closed category set
// with bilingual labels and chart colors, and the optional positive-outcome
// rate definition.
//
// Category labels follow the municipal profile convention: Nepali primary,
// English secondary.

var defaultBands = []IndexBand{
	{Min: 80, Label: "excellent", LabelNp: "उत्कृष्ट"},
	{Min: 60, Label: "good", LabelNp: "राम्रो"},
	{Min: 40, Label: "medium", LabelNp: "मध्यम"},
	{Min: 0, Label: "low", LabelNp: "न्यून"},
}

var features = []Feature{
	{
		Key:         "delivery-place",
		NameNp:      "वडा अनुसार प्रसूति स्थान",
		NameEn:      "Ward Wise Delivery Place",
		Table:       "ward_wise_delivery_places",
		LegacyTable: "acme_ward_wise_delivery_place",
		CountLabel:  "population",
		Categories: []Category{
			{Code: "GOVERNMENTAL_HEALTH_INSTITUTION", LabelNp: "सरकारी स्वास्थ्य संस्था", LabelEn: "Governmental health institution", Color: "#1A759F"},
			{Code: "PRIVATE_HEALTH_INSTITUTION", LabelNp: "निजी स्वास्थ्य संस्था", LabelEn: "Private health institution", Color: "#34A0A4"},
			{Code: "HOUSE", LabelNp: "घर", LabelEn: "House", Color: "#D9ED92"},
			{Code: "OTHER", LabelNp: "अन्य", LabelEn: "Other", Color: "#B5838D"},
		},
		PositiveCodes: []string{"GOVERNMENTAL_HEALTH_INSTITUTION", "PRIVATE_HEALTH_INSTITUTION"},
		IndexLabel:    "institutional delivery index",
		IndexBands:    defaultBands,
	},
	{
		Key:         "caste-population",
		NameNp:      "वडा अनुसार जातजाति जनसंख्या",
		NameEn:      "Ward Wise Caste Population",
		Table:       "ward_wise_caste_populations",
		LegacyTable: "acme_ward_wise_castes",
		CountLabel:  "population",
		Categories: []Category{
			{Code: "BRAHMIN", LabelNp: "ब्राह्मण", LabelEn: "Brahmin", Color: "#184E77"},
			{Code: "CHHETRI", LabelNp: "क्षेत्री", LabelEn: "Chhetri", Color: "#1E6091"},
			{Code: "MAGAR", LabelNp: "मगर", LabelEn: "Magar", Color: "#1A759F"},
			{Code: "TAMANG", LabelNp: "तामाङ", LabelEn: "Tamang", Color: "#168AAD"},
			{Code: "NEWAR", LabelNp: "नेवार", LabelEn: "Newar", Color: "#34A0A4"},
			{Code: "DALIT", LabelNp: "दलित", LabelEn: "Dalit", Color: "#52B69A"},
			{Code: "THARU", LabelNp: "थारू", LabelEn: "Tharu", Color: "#76C893"},
			{Code: "OTHER", LabelNp: "अन्य", LabelEn: "Other", Color: "#B5838D"},
		},
	},
	{
		Key:         "religion-population",
		NameNp:      "वडा अनुसार धर्मावलम्बी जनसंख्या",
		NameEn:      "Ward Wise Religion Population",
		Table:       "ward_wise_religion_populations",
		LegacyTable: "acme_ward_wise_religion_population",
		CountLabel:  "population",
		Categories: []Category{
			{Code: "HINDU", LabelNp: "हिन्दू", LabelEn: "Hindu", Color: "#184E77"},
			{Code: "BUDDHIST", LabelNp: "बौद्ध", LabelEn: "Buddhist", Color: "#1A759F"},
			{Code: "KIRANT", LabelNp: "किराँत", LabelEn: "Kirant", Color: "#34A0A4"},
			{Code: "CHRISTIAN", LabelNp: "क्रिश्चियन", LabelEn: "Christian", Color: "#52B69A"},
			{Code: "ISLAM", LabelNp: "इस्लाम", LabelEn: "Islam", Color: "#99D98C"},
			{Code: "OTHER", LabelNp: "अन्य", LabelEn: "Other", Color: "#B5838D"},
		},
	},
	{
		Key:         "death-cause",
		NameNp:      "वडा अनुसार मृत्युको कारण",
		NameEn:      "Ward Wise Death Cause",
		Table:       "ward_wise_death_causes",
		LegacyTable: "acme_ward_wise_death_cause",
		CountLabel:  "population",
		Categories: []Category{
			{Code: "HEART_DISEASE", LabelNp: "हृदय रोग", LabelEn: "Heart disease", Color: "#184E77"},
			{Code: "CANCER", LabelNp: "क्यान्सर", LabelEn: "Cancer", Color: "#1A759F"},
			{Code: "RESPIRATORY_DISEASE", LabelNp: "श्वासप्रश्वास रोग", LabelEn: "Respiratory disease", Color: "#34A0A4"},
			{Code: "ACCIDENT", LabelNp: "दुर्घटना", LabelEn: "Accident", Color: "#52B69A"},
			{Code: "SUICIDE", LabelNp: "आत्महत्या", LabelEn: "Suicide", Color: "#99D98C"},
			{Code: "OTHER", LabelNp: "अन्य", LabelEn: "Other", Color: "#B5838D"},
		},
	},
	{
		Key:         "disability-cause",
		NameNp:      "वडा अनुसार अपाङ्गताको कारण",
		NameEn:      "Ward Wise Disability Cause",
		Table:       "ward_wise_disability_causes",
		LegacyTable: "acme_ward_wise_disability_cause",
		CountLabel:  "population",
		Categories: []Category{
			{Code: "CONGENITAL", LabelNp: "जन्मजात", LabelEn: "Congenital", Color: "#184E77"},
			{Code: "DISEASE", LabelNp: "रोग", LabelEn: "Disease", Color: "#1A759F"},
			{Code: "ACCIDENT", LabelNp: "दुर्घटना", LabelEn: "Accident", Color: "#34A0A4"},
			{Code: "CONFLICT", LabelNp: "द्वन्द्व", LabelEn: "Conflict", Color: "#52B69A"},
			{Code: "OTHER", LabelNp: "अन्य", LabelEn: "Other", Color: "#B5838D"},
		},
	},
	{
		Key:         "literacy-status",
		NameNp:      "वडा अनुसार साक्षरता स्थिति",
		NameEn:      "Ward Wise Literacy Status",
		Table:       "ward_wise_literacy_statuses",
		LegacyTable: "acme_ward_wise_literacy_status",
		CountLabel:  "population",
		Categories: []Category{
			{Code: "BOTH_READING_AND_WRITING", LabelNp: "पढ्न लेख्न जान्ने", LabelEn: "Can read and write", Color: "#1A759F"},
			{Code: "READING_ONLY", LabelNp: "पढ्न मात्र जान्ने", LabelEn: "Can read only", Color: "#52B69A"},
			{Code: "ILLITERATE", LabelNp: "निरक्षर", LabelEn: "Illiterate", Color: "#B5838D"},
		},
		PositiveCodes: []string{"BOTH_READING_AND_WRITING", "READING_ONLY"},
		IndexLabel:    "literacy index",
		IndexBands:    defaultBands,
	},
	{
		Key:         "education-level",
		NameNp:      "वडा अनुसार शैक्षिक स्तर",
		NameEn:      "Ward Wise Educational Level",
		Table:       "ward_wise_education_levels",
		LegacyTable: "acme_ward_wise_educational_level",
		CountLabel:  "population",
		Categories: []Category{
			{Code: "PRIMARY", LabelNp: "प्राथमिक", LabelEn: "Primary", Color: "#184E77"},
			{Code: "LOWER_SECONDARY", LabelNp: "निम्न माध्यमिक", LabelEn: "Lower secondary", Color: "#1A759F"},
			{Code: "SECONDARY", LabelNp: "माध्यमिक", LabelEn: "Secondary", Color: "#34A0A4"},
			{Code: "HIGHER_SECONDARY", LabelNp: "उच्च माध्यमिक", LabelEn: "Higher secondary", Color: "#52B69A"},
			{Code: "BACHELOR", LabelNp: "स्नातक", LabelEn: "Bachelor", Color: "#99D98C"},
			{Code: "MASTERS_AND_ABOVE", LabelNp: "स्नातकोत्तर वा माथि", LabelEn: "Masters and above", Color: "#B5838D"},
		},
	},
}

// FeatureByKey looks a feature up in the static registry.
func FeatureByKey(key string) (Feature, bool) {
	for _, f := range features {
		if f.Key == key {
			return f, true
		}
	}
	return Feature{}, false
}

// Features returns the registry in declaration order.
func Features() []Feature {
	out := make([]Feature, len(features))
	copy(out, features)
	return out
}
