package config

import (
	"slices"
	"strings"
)

// Fleet is a read-only truck→company and company→trucks mapping.
type Fleet struct {
	companies []string
	trucks    map[string][]string
	owner     map[string]string
	slack     map[string]string
	discord   map[string]string
}

// NewFleet builds a Fleet from company definitions. Both directions of the
// mapping are derived from the same list, so they always agree.
func NewFleet(companies []CompanyConfig) *Fleet {
	f := &Fleet{
		trucks:  make(map[string][]string),
		owner:   make(map[string]string),
		slack:   make(map[string]string),
		discord: make(map[string]string),
	}
	for _, co := range companies {
		if _, seen := f.trucks[co.Name]; !seen {
			f.companies = append(f.companies, co.Name)
		}
		for _, t := range co.Trucks {
			if _, taken := f.owner[t]; taken {
				continue
			}
			f.owner[t] = co.Name
			f.trucks[co.Name] = append(f.trucks[co.Name], t)
		}
		if _, ok := f.trucks[co.Name]; !ok {
			f.trucks[co.Name] = nil
		}
		if co.SlackChannel != "" {
			f.slack[co.Name] = co.SlackChannel
		}
		if co.DiscordChannel != "" {
			f.discord[co.Name] = co.DiscordChannel
		}
	}
	return f
}

// CompanyOf returns the company a truck belongs to.
func (f *Fleet) CompanyOf(truck string) (string, bool) {
	co, ok := f.owner[truck]
	return co, ok
}

// Trucks returns a copy of the company's truck list.
func (f *Fleet) Trucks(company string) []string {
	return slices.Clone(f.trucks[company])
}

// Companies returns company names in configuration order.
func (f *Fleet) Companies() []string {
	return slices.Clone(f.companies)
}

// HasCompany reports whether company is configured.
func (f *Fleet) HasCompany(company string) bool {
	_, ok := f.trucks[company]
	return ok
}

// CompanyBySlug resolves a company from its underscore-joined form, as used
// in page file names and the ?company= query parameter.
func (f *Fleet) CompanyBySlug(slug string) (string, bool) {
	for _, co := range f.companies {
		if Slug(co) == slug {
			return co, true
		}
	}
	return "", false
}

// SlackChannel returns the company's Slack channel override, if any.
func (f *Fleet) SlackChannel(company string) string { return f.slack[company] }

// DiscordChannel returns the company's Discord channel override, if any.
func (f *Fleet) DiscordChannel(company string) string { return f.discord[company] }

// Slug joins whitespace-separated words of name with underscores.
func Slug(name string) string {
	return strings.Join(strings.Fields(name), "_")
}
