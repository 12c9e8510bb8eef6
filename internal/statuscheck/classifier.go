package statuscheck

import (
	"errors"
	"net/url"
	"strings"

	"github.com/aleister1102/seotracker/internal/common"
	"github.com/aleister1102/seotracker/internal/models"
)

// Rule maps an error kind to the substrings that select it. Matching is
// case-sensitive.
type Rule struct {
	Kind     models.StatusKind `yaml:"kind" json:"kind" validate:"required"`
	Keywords []string          `yaml:"keywords" json:"keywords" validate:"required,min=1"`
}

// DefaultRules is the built-in classification table. The first rule whose
// keyword occurs in the error message wins.
func DefaultRules() []Rule {
	return []Rule{
		{Kind: models.StatusDNS, Keywords: []string{"DNS", "no such host"}},
		{Kind: models.StatusTimeout, Keywords: []string{"Timeout", "i/o timeout", "deadline exceeded"}},
		{Kind: models.StatusUnsupportedScheme, Keywords: []string{"Unsupported", "unsupported protocol scheme"}},
		{Kind: models.StatusInvalidURL, Keywords: []string{"Invalid argument", "missing protocol scheme", "invalid URL escape", "invalid character", "invalid port"}},
		{Kind: models.StatusForbidden, Keywords: []string{"Forbidden"}},
		{Kind: models.StatusUnauthorized, Keywords: []string{"Unauthorized"}},
		{Kind: models.StatusNotFound, Keywords: []string{"Not Found"}},
		{Kind: models.StatusInternalServerError, Keywords: []string{"Internal"}},
	}
}

// Classifier turns transport errors into failure results.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a classifier over rules. Nil or empty rules select
// DefaultRules.
func NewClassifier(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify maps err to a failure result. Errors matching no rule become
// StatusUnclassified carrying the raw message.
func (c *Classifier) Classify(err error) models.StatusResult {
	msg := causeMessage(err)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(msg, kw) {
				return models.StatusFailure(rule.Kind, msg)
			}
		}
	}
	return models.StatusFailure(models.StatusUnclassified, msg)
}

// causeMessage strips the request URL from err so that keywords inside the
// URL itself cannot select a rule.
func causeMessage(err error) string {
	if err == nil {
		return ""
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}

	var netErr *common.NetworkError
	if errors.As(err, &netErr) && netErr.Wrapped != nil {
		return netErr.Wrapped.Error()
	}
	return err.Error()
}
