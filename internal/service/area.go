package service

import "strings"

// AreaPolicy decides whether a delivery address is inside the service area
type AreaPolicy interface {
	Allows(address string) bool
	Describe() string
}

// NewAreaPolicy returns a keyword policy, or one that allows every address when keyword is blank
func NewAreaPolicy(keyword string) AreaPolicy {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return AnyArea{}
	}
	return KeywordArea{Keyword: keyword}
}

// KeywordArea allows addresses that mention Keyword, ignoring case
type KeywordArea struct {
	Keyword string
}

func (k KeywordArea) Allows(address string) bool {
	return strings.Contains(strings.ToLower(address), strings.ToLower(k.Keyword))
}

func (k KeywordArea) Describe() string {
	return k.Keyword
}

// AnyArea disables the locality check
type AnyArea struct{}

func (AnyArea) Allows(string) bool { return true }

func (AnyArea) Describe() string { return "any area" }
