// Package country reconciles the two storage forms of a country identifier.
// Historical records store either the human-readable name ("Brazil") or the
// coded form ("BR"); both are valid and must be treated as equivalent
// whenever a permitted-country list is compared against a stored field.
package country

// codeToName maps country codes to full names.
var codeToName = map[string]string{
	"BR": "Brazil",
	"RU": "Russia",
	"IN": "India",
	"CN": "China",
	"ZA": "South Africa",
	"EG": "Egypt",
	"ET": "Ethiopia",
	"IR": "Iran",
	"AE": "UAE",
	"US": "USA",
	"GB": "UK",
	"DE": "Germany",
	"FR": "France",
	"JP": "Japan",
	"CA": "Canada",
	"AU": "Australia",
}

// nameToCode is the inverse of codeToName, built once at init.
var nameToCode = func() map[string]string {
	m := make(map[string]string, len(codeToName))
	for code, name := range codeToName {
		m[name] = code
	}

	return m
}()

// NameToCode returns the coded form of a country name, or the input unchanged
// when no mapping exists. Unmapped identifiers are passed through rather than
// rejected: the mapping table fails open, the authorization decision does not.
func NameToCode(name string) string {
	if code, ok := nameToCode[name]; ok {
		return code
	}

	return name
}

// CodeToName returns the full name of a country code, or the input unchanged
// when no mapping exists.
func CodeToName(code string) string {
	if name, ok := codeToName[code]; ok {
		return name
	}

	return code
}

// Variants returns every storage form of a single country identifier: the
// identifier itself plus its mapped counterpart, if one exists.
func Variants(id string) []string {
	if name, ok := codeToName[id]; ok {
		return []string{id, name}
	}
	if code, ok := nameToCode[id]; ok {
		return []string{id, code}
	}

	return []string{id}
}

// ExpandVariants returns, for each input country (name or code), both its
// name and code form. The result is de-duplicated and keeps input order.
func ExpandVariants(countries []string) []string {
	seen := make(map[string]struct{}, len(countries)*2)
	expanded := make([]string, 0, len(countries)*2)
	for _, c := range countries {
		for _, v := range Variants(c) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			expanded = append(expanded, v)
		}
	}

	return expanded
}

// IsCovered reports whether fieldValue is a member of ExpandVariants(assigned).
// An empty assigned list covers nothing.
func IsCovered(fieldValue string, assigned []string) bool {
	for _, c := range assigned {
		for _, v := range Variants(c) {
			if v == fieldValue {
				return true
			}
		}
	}

	return false
}

// NamesToCodes converts country names to their coded form for storage-side
// comparisons, passing unmapped values through.
func NamesToCodes(names []string) []string {
	codes := make([]string, 0, len(names))
	for _, n := range names {
		codes = append(codes, NameToCode(n))
	}

	return codes
}

// CodesToNames converts country codes to display names, passing unmapped
// values through.
func CodesToNames(codes []string) []string {
	names := make([]string, 0, len(codes))
	for _, c := range codes {
		names = append(names, CodeToName(c))
	}

	return names
}
