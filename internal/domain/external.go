package domain

// ExternalFields is the structured answer of an external text-understanding service.
// Values are suggestions; series names are re-checked against the schedule.
type ExternalFields struct {
	Type       string `json:"type"`
	SeriesName string `json:"series_name"`
	Topic      string `json:"topic"`
	Serial     string `json:"serial"`
	Location   string `json:"location"`
}

// Report is everything a run produced, in output order.
type Report struct {
	RunID      string
	Mode       string
	Records    []Record
	Groups     []SeriesGroup
	Unresolved []Record
	Passes     map[string]int
}
