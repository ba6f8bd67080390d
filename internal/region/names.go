// Package region translates dataset region slugs to the display names used by
// the India states boundary GeoJSON (properties.ST_NM).
package region

import (
	"log/slog"
	"sort"
	"sync"
)

// TableVersion identifies the revision of the slug to display-name table.
// Bump it whenever an entry is added or changed.
const TableVersion = "india-states-2023.1"

var stateNames = map[string]string{
	"andaman-&-nicobar-islands":            "Andaman & Nicobar Island",
	"andhra-pradesh":                       "Andhra Pradesh",
	"arunachal-pradesh":                    "Arunachal Pradesh",
	"assam":                                "Assam",
	"bihar":                                "Bihar",
	"chandigarh":                           "Chandigarh",
	"chhattisgarh":                         "Chhattisgarh",
	"dadra-&-nagar-haveli-&-daman-&-diu":   "Dadra and Nagar Haveli",
	"delhi":                                "Delhi",
	"goa":                                  "Goa",
	"gujarat":                              "Gujarat",
	"haryana":                              "Haryana",
	"himachal-pradesh":                     "Himachal Pradesh",
	"jammu-&-kashmir":                      "Jammu & Kashmir",
	"jharkhand":                            "Jharkhand",
	"karnataka":                            "Karnataka",
	"kerala":                               "Kerala",
	"ladakh":                               "Ladakh",
	"lakshadweep":                          "Lakshadweep",
	"madhya-pradesh":                       "Madhya Pradesh",
	"maharashtra":                          "Maharashtra",
	"manipur":                              "Manipur",
	"meghalaya":                            "Meghalaya",
	"mizoram":                              "Mizoram",
	"nagaland":                             "Nagaland",
	"odisha":                               "Odisha",
	"puducherry":                           "Puducherry",
	"punjab":                               "Punjab",
	"rajasthan":                            "Rajasthan",
	"sikkim":                               "Sikkim",
	"tamil-nadu":                           "Tamil Nadu",
	"telangana":                            "Telangana",
	"tripura":                              "Tripura",
	"uttar-pradesh":                        "Uttar Pradesh",
	"uttarakhand":                          "Uttarakhand",
	"west-bengal":                          "West Bengal",
}

var displayNames = func() map[string]bool {
	m := make(map[string]bool, len(stateNames))
	for _, name := range stateNames {
		m[name] = true
	}
	return m
}()

// Entry is one row of the mapping table
type Entry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Entries returns the mapping table sorted by code
func Entries() []Entry {
	entries := make([]Entry, 0, len(stateNames))
	for code, name := range stateNames {
		entries = append(entries, Entry{Code: code, Name: name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Code < entries[j].Code })
	return entries
}

// Normalizer maps region codes to display names.
//
// Codes missing from the table are returned unchanged, so a region that shows
// up in the data before the table is updated is still listed but will not
// join against the boundary reference. Each such code is logged once.
type Normalizer struct {
	logger   *slog.Logger
	mu       sync.Mutex
	unmapped map[string]bool
}

// NewNormalizer returns a normalizer that reports unmapped codes to logger.
// A nil logger uses slog.Default().
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger, unmapped: make(map[string]bool)}
}

// Name returns the display name for code
func (n *Normalizer) Name(code string) string {
	if name, ok := stateNames[code]; ok {
		return name
	}
	if displayNames[code] || code == "" {
		return code
	}

	n.mu.Lock()
	first := !n.unmapped[code]
	n.unmapped[code] = true
	n.mu.Unlock()

	if first {
		n.logger.Warn("unmapped region code, passing through",
			slog.String("code", code),
			slog.String("table_version", TableVersion))
	}
	return code
}

// Unmapped returns the distinct unmapped codes seen so far, sorted
func (n *Normalizer) Unmapped() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	codes := make([]string, 0, len(n.unmapped))
	for code := range n.unmapped {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
