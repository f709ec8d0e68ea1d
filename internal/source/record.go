package source

import (
	"strings"

	"showreel/internal/domain"
)

// record is the shape shared by the YAML file and the REST API
type record struct {
	ID          string   `yaml:"id" json:"id"`
	DocID       string   `yaml:"-" json:"_id"`
	Title       string   `yaml:"title" json:"title"`
	Issuer      string   `yaml:"issuer" json:"issuer"`
	Description string   `yaml:"description" json:"description"`
	Tech        []string `yaml:"technologies" json:"technologies"`
	URL         string   `yaml:"url" json:"url"`
	Link        string   `yaml:"link" json:"link"`
	Image       string   `yaml:"image" json:"image"`
	Date        string   `yaml:"date" json:"date"`
}

func (r record) item(kind domain.ItemKind) domain.DisplayItem {
	key := r.ID
	if key == "" {
		key = r.DocID
	}
	if key == "" {
		key = derivedKey(kind, r.Title)
	}
	url := r.URL
	if url == "" {
		url = r.Link
	}
	it := domain.DisplayItem{
		Key:         key,
		Kind:        kind,
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		Tags:        r.Tech,
		URL:         url,
		Image:       r.Image,
		Issued:      parseDate(r.Date),
	}
	if kind == domain.KindCertificate {
		it.Subtitle = r.Issuer
	} else if len(r.Tech) > 0 {
		it.Subtitle = strings.Join(r.Tech, " · ")
	}
	return it
}

func toItems(kind domain.ItemKind, records []record) []domain.DisplayItem {
	out := make([]domain.DisplayItem, 0, len(records))
	for _, r := range records {
		out = append(out, r.item(kind))
	}
	return out
}
