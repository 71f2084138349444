package models

import "time"

// Entry is one logged food item. Entries are never edited after creation.
type Entry struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Calories float64   `json:"calories"`
	Protein  float64   `json:"protein"`
	Carbs    float64   `json:"carbs"`
	Fat      float64   `json:"fat"`
	ImageURL string    `json:"imageUrl,omitempty"` // data:<media-type>;base64,... for image captures
	Date     time.Time `json:"date"`
}

// HasImage reports whether the entry was derived from an image capture.
func (e Entry) HasImage() bool {
	return e.ImageURL != ""
}

// Estimate is the nutrition estimate returned by an analysis provider.
type Estimate struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// NewEntry builds an entry from an estimate. imageURL is empty for text captures.
func NewEntry(id string, est Estimate, imageURL string, at time.Time) Entry {
	return Entry{
		ID:       id,
		Name:     est.Name,
		Calories: est.Calories,
		Protein:  est.Protein,
		Carbs:    est.Carbs,
		Fat:      est.Fat,
		ImageURL: imageURL,
		Date:     at,
	}
}
