package handlers

import (
	"context"
	"encoding/xml"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"palika_profile/config"
	"palika_profile/models"
)

type URL struct {
	XMLName    xml.Name `xml:"url"`
	Loc        string   `xml:"loc"`
	LastMod    string   `xml:"lastmod,omitempty"`
	ChangeFreq string   `xml:"changefreq,omitempty"`
	Priority   float64  `xml:"priority,omitempty"`
}

type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

type SitemapIndex struct {
	XMLName  xml.Name  `xml:"sitemapindex"`
	XMLNS    string    `xml:"xmlns,attr"`
	Sitemaps []Sitemap `xml:"sitemap"`
}

type Sitemap struct {
	XMLName xml.Name `xml:"sitemap"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod,omitempty"`
}

const sitemapXMLNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// sitemapSections maps the index entries to the per-section endpoints. The
// whole site is small enough that each section fits in one sitemap file, so
// there is no pagination here.
var sitemapSections = []string{
	"features",
	"roads",
	"parking-facilities",
	"petrol-pumps",
	"public-transport",
}

func writeSitemapXML(w http.ResponseWriter, v interface{}) {
	output, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, "Error generating sitemap", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("X-Robots-Tag", "noindex")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	fmt.Fprintf(w, "%s%s", xml.Header, output)
}

// GetSitemapIndex handles the main sitemap index request.
func GetSitemapIndex(w http.ResponseWriter, r *http.Request) {
	base := config.BaseURL()
	now := time.Now().Format(time.RFC3339)

	index := SitemapIndex{XMLNS: sitemapXMLNS}
	for _, section := range sitemapSections {
		index.Sitemaps = append(index.Sitemaps, Sitemap{
			Loc:     fmt.Sprintf("%s/api/v1/sitemaps/%s", base, section),
			LastMod: now,
		})
	}

	writeSitemapXML(w, index)
}

// GetFeaturesSitemap generates the sitemap for the statistical profile pages.
// Feature pages are static so this never touches the database.
func GetFeaturesSitemap(w http.ResponseWriter, r *http.Request) {
	base := config.BaseURL()
	now := time.Now().Format("2006-01-02")

	urlSet := URLSet{XMLNS: sitemapXMLNS}
	urlSet.URLs = append(urlSet.URLs, URL{
		Loc:        base,
		LastMod:    now,
		ChangeFreq: "weekly",
		Priority:   1.0,
	})
	for _, f := range models.Features() {
		urlSet.URLs = append(urlSet.URLs, URL{
			Loc:        fmt.Sprintf("%s/profile/%s", base, f.Key),
			LastMod:    now,
			ChangeFreq: "monthly",
			Priority:   0.8,
		})
	}

	writeSitemapXML(w, urlSet)
}

// slugSitemap builds a URLSet from a slug listing, caching the marshalled
// slug list so repeated crawler hits skip the database.
func slugSitemap(w http.ResponseWriter, r *http.Request, section string, slugs func(context.Context) ([]string, error)) {
	cacheKey := config.GetCacheKey("sitemap", section)

	var list []string
	if cached, found := config.SitemapCache.Get(cacheKey); found {
		list = cached.([]string)
	} else {
		var err error
		list, err = slugs(r.Context())
		if err != nil {
			log.Printf("slugSitemap: listing %s slugs: %v", section, err)
			http.Error(w, "Error generating sitemap", http.StatusInternalServerError)
			return
		}
		config.SitemapCache.SetDefault(cacheKey, list)
	}

	base := config.BaseURL()
	now := time.Now().Format("2006-01-02")

	urlSet := URLSet{XMLNS: sitemapXMLNS}
	for _, s := range list {
		urlSet.URLs = append(urlSet.URLs, URL{
			Loc:        fmt.Sprintf("%s/%s/%s", base, section, url.PathEscape(s)),
			LastMod:    now,
			ChangeFreq: "weekly",
			Priority:   0.7,
		})
	}

	writeSitemapXML(w, urlSet)
}

// GetRoadsSitemap generates the sitemap for road detail pages.
func GetRoadsSitemap(w http.ResponseWriter, r *http.Request) {
	slugSitemap(w, r, "roads", roadsRepo.Slugs)
}

// GetParkingFacilitiesSitemap generates the sitemap for parking facility pages.
func GetParkingFacilitiesSitemap(w http.ResponseWriter, r *http.Request) {
	slugSitemap(w, r, "parking-facilities", parkingRepo.Slugs)
}

// GetPetrolPumpsSitemap generates the sitemap for petrol pump pages.
func GetPetrolPumpsSitemap(w http.ResponseWriter, r *http.Request) {
	slugSitemap(w, r, "petrol-pumps", petrolPumpsRepo.Slugs)
}

// GetPublicTransportSitemap generates the sitemap for public transport routes.
func GetPublicTransportSitemap(w http.ResponseWriter, r *http.Request) {
	slugSitemap(w, r, "public-transport", transportRepo.Slugs)
}
