package seo

import (
	"fmt"

	"palika_profile/analytics"
	"palika_profile/models"
)

// JSON-LD structured-data blocks for search engines. The emitters consume
// the same aggregate shapes the charts consume and produce schema.org
// documents ready to embed in a page head.

const schemaContext = "https://schema.org"

// Dataset is a schema.org Dataset document.
type Dataset struct {
	Context       string          `json:"@context"`
	Type          string          `json:"@type"`
	Name          string          `json:"name"`
	AlternateName string          `json:"alternateName,omitempty"`
	Description   string          `json:"description"`
	URL           string          `json:"url"`
	Keywords      []string        `json:"keywords,omitempty"`
	Variables     []PropertyValue `json:"variableMeasured,omitempty"`
}

// PropertyValue is one measured variable of a Dataset.
type PropertyValue struct {
	Type     string  `json:"@type"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	UnitText string  `json:"unitText,omitempty"`
}

// FeatureDataset embeds a feature's category totals and percentages as a
// schema.org Dataset. baseURL is the public site origin.
func FeatureDataset(baseURL string, f models.Feature, agg analytics.FeatureAggregate) Dataset {
	ds := Dataset{
		Context:       schemaContext,
		Type:          "Dataset",
		Name:          f.NameEn,
		AlternateName: f.NameNp,
		Description: fmt.Sprintf("%s statistics by ward; total %s %d across %d wards.",
			f.NameEn, f.CountLabel, agg.GrandTotal, len(agg.WardRows)),
		URL:      fmt.Sprintf("%s/profile/%s", baseURL, f.Key),
		Keywords: []string{f.NameEn, f.NameNp, "ward", f.CountLabel},
	}

	for _, share := range agg.Shares {
		ds.Variables = append(ds.Variables,
			PropertyValue{
				Type:  "PropertyValue",
				Name:  share.LabelEn,
				Value: float64(share.Total),
			},
			PropertyValue{
				Type:     "PropertyValue",
				Name:     share.LabelEn + " (share)",
				Value:    share.Percentage,
				UnitText: "percent",
			})
	}

	if agg.IndexLabel != "" {
		ds.Variables = append(ds.Variables, PropertyValue{
			Type:     "PropertyValue",
			Name:     agg.IndexLabel,
			Value:    agg.Index,
			UnitText: "percent",
		})
	}
	return ds
}

// Place is a schema.org Place document for a registry entity page.
type Place struct {
	Context     string   `json:"@context"`
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Address     string   `json:"address,omitempty"`
	URL         string   `json:"url"`
	Image       []string `json:"image,omitempty"`
}

// RegistryPlace builds the Place block for one registry entity. section is
// the URL path segment (roads, parking-facilities, ...). Media URLs are the
// signed URLs already attached to the entity; they expire, so consumers
// regenerate the block per render rather than caching it.
func RegistryPlace(baseURL, section, slug, name, description, address string, media []models.Media) Place {
	p := Place{
		Context:     schemaContext,
		Type:        "Place",
		Name:        name,
		Description: description,
		Address:     address,
		URL:         fmt.Sprintf("%s/%s/%s", baseURL, section, slug),
	}
	for _, m := range media {
		if m.URL != "" {
			p.Image = append(p.Image, m.URL)
		}
	}
	return p
}
