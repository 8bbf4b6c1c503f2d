package report

type Metrics struct {
	OpenVacancies     int     `json:"openVacancies"`
	PendingApprovals  int     `json:"pendingApprovals"`
	ActiveCandidates  int     `json:"activeCandidates"`
	HiredThisMonth    int     `json:"hiredThisMonth"`
	AverageTimeToHire float64 `json:"averageTimeToHire"`
}

type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Series struct {
	Metric string  `json:"metric"`
	Period string  `json:"period"`
	Points []Point `json:"points"`
}
