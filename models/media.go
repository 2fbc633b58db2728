package models

// Media is an image attached to a registry entity. StoragePath is the
// object key in the media bucket; URL is a time-limited signed URL filled
// in at read time and never persisted.
type Media struct {
	ID          string `json:"id"`
	EntityID    string `json:"-"`
	StoragePath string `json:"-"`
	ContentType string `json:"content_type,omitempty"`
	Caption     string `json:"caption,omitempty"`
	IsPrimary   bool   `json:"is_primary"`
	URL         string `json:"url,omitempty"`
}
