package store

import "strings"

// Column width limits, shared by create and update.
var fieldLimits = map[string]int{
	"foundOn":            100,
	"provider":           100,
	"providerTenant":     200,
	"externalId":         200,
	"url":                1000,
	"applyUrl":           1000,
	"hiringCompanyName":  300,
	"postingCompanyName": 300,
	"title":              300,
	"remoteType":         50,
}

func checkLen(name, val string) error {
	max, ok := fieldLimits[name]
	if !ok {
		return nil
	}
	if len(val) > max {
		return invalid("field '%s' exceeds max length (%d)", name, max)
	}
	return nil
}

func validateCreate(p CreateParams) error {
	if strings.TrimSpace(p.URL) == "" {
		return invalid("missing required field: url")
	}
	checks := map[string]string{
		"foundOn":            p.FoundOn,
		"provider":           p.Provider,
		"providerTenant":     p.ProviderTenant,
		"externalId":         p.ExternalID,
		"url":                p.URL,
		"applyUrl":           p.ApplyURL,
		"hiringCompanyName":  p.HiringCompanyName,
		"postingCompanyName": p.PostingCompanyName,
		"title":              p.Title,
		"remoteType":         p.RemoteType,
	}
	for name, val := range checks {
		if err := checkLen(name, val); err != nil {
			return err
		}
	}
	return validateLocations(p.Locations)
}

func validateUpdate(u UpdateParams) error {
	for _, f := range u.fields() {
		if f.val == nil {
			continue
		}
		if err := checkLen(f.name, *f.val); err != nil {
			return err
		}
	}
	if u.Locations != nil {
		return validateLocations(*u.Locations)
	}
	return nil
}

func validateLocations(locs []Location) error {
	for i, loc := range locs {
		if strings.TrimSpace(loc.CountryName) == "" {
			return invalid("locations[%d].countryName is required", i)
		}
		if cc := loc.CountryCode; cc != "" {
			if len(cc) != 2 || !isAlpha(cc) {
				return invalid("locations[%d].countryCode must be a 2-letter ISO code", i)
			}
		}
	}
	return nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
