package normalizer

import (
	"strings"

	"deliverydir/internal/models"
)

// Classifier tags a row by keyword match on its cleaned name.
// The match is a plain substring test, so "isp" also hits names like "Philisp Co".
type Classifier struct {
	keywords []string
}

// DefaultKeywords are the name fragments that mark a FedEx entry.
func DefaultKeywords() []string {
	return []string{"fedex", "isp"}
}

// NewClassifier creates a classifier for the given keywords.
func NewClassifier(keywords []string) *Classifier {
	folded := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = foldKey(strings.TrimSpace(k)); k != "" {
			folded = append(folded, k)
		}
	}

	return &Classifier{keywords: folded}
}

// Classify returns models.TypeFedEx when name contains any keyword, else models.TypeDSP.
func (c *Classifier) Classify(name string) models.CompanyType {
	key := foldKey(name)

	for _, k := range c.keywords {
		if strings.Contains(key, k) {
			return models.TypeFedEx
		}
	}

	return models.TypeDSP
}
