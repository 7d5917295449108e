package policies

// Record is the flattened, display-ready view of one policy. Both upstream
// shapes reduce to it; absent fields stay empty strings.
type Record struct {
	Name        string
	Description string
	Status      string
	PolicyID    string
}

// SCAPolicy is one Secure Cloud Access policy as returned by the SCA API.
// Status is numeric: 1 means active, anything else inactive.
type SCAPolicy struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      int    `json:"status"`
	PolicyID    string `json:"policyId"`
}

// SCACollection is the SCA policy listing envelope. Total is the declared
// count, which may differ from len(Hits) when the listing is paginated.
type SCACollection struct {
	Hits  []SCAPolicy `json:"hits"`
	Total int         `json:"total"`
}

// Records flattens the collection in API order, resolving the numeric status
// encoding.
func (c *SCACollection) Records() []Record {
	records := make([]Record, 0, len(c.Hits))
	for _, p := range c.Hits {
		status := "Inactive"
		if p.Status == 1 {
			status = "Active"
		}
		records = append(records, Record{
			Name:        p.Name,
			Description: p.Description,
			Status:      status,
			PolicyID:    p.PolicyID,
		})
	}
	return records
}

// SIAStatus carries the SIA status string nested one level down.
type SIAStatus struct {
	Status string `json:"status"`
}

// SIAMetadata holds the descriptive fields of one Secure Infrastructure
// Access policy.
type SIAMetadata struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      SIAStatus `json:"status"`
	PolicyID    string    `json:"policyId"`
}

// SIAResult wraps one SIA listing entry.
type SIAResult struct {
	Metadata SIAMetadata `json:"metadata"`
}

// SIACollection is the SIA policy listing envelope.
type SIACollection struct {
	Results []SIAResult `json:"results"`
	Total   int         `json:"total"`
}

// Records flattens the collection in API order. The status string passes
// through verbatim; no translation is applied.
func (c *SIACollection) Records() []Record {
	records := make([]Record, 0, len(c.Results))
	for _, r := range c.Results {
		records = append(records, Record{
			Name:        r.Metadata.Name,
			Description: r.Metadata.Description,
			Status:      r.Metadata.Status.Status,
			PolicyID:    r.Metadata.PolicyID,
		})
	}
	return records
}
