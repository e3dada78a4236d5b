package reviewjobreport

type Input struct {
	ReportID  string  `json:"reportId"`
	ActorID   string  `json:"actorId"`
	ActorRole string  `json:"actorRole"`
	Decision  string  `json:"decision"`
	Comment   *string `json:"comment,omitempty"`
}

type Output struct {
	ReportID   string `json:"reportId"`
	Status     string `json:"reportStatus"`
	ReviewedBy string `json:"reviewedBy"`
	AuthorID   string `json:"authorId"`
}
