// Package types provides the domain records of the recruiting workflow: jobs,
// candidates, interviews and the derived candidate/job pairs.
//
//nolint:revive // types is a standard Go package name pattern
package types

// FieldMap names the record-store columns read and written by this service.
// Relation keys are instance specific, so every name can be overridden from
// the config file. The primary key is fixed by the store (records.IDField).
type FieldMap struct {
	JobTitle       string `json:"job_title,omitempty"`
	JobClient      string `json:"job_client,omitempty"`
	JobStatus      string `json:"job_status,omitempty"`
	JobCVRelation  string `json:"job_cv_relation,omitempty"`
	JobCVKey       string `json:"job_cv_key,omitempty"`
	JobDescription string `json:"job_description,omitempty"`
	JobDescFiles   string `json:"job_description_files,omitempty"`

	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	CVFiles   string `json:"cv_files,omitempty"`

	Title             string `json:"title,omitempty"`
	PortalLink        string `json:"portal_link,omitempty"`
	DueDate           string `json:"due_date,omitempty"`
	Status            string `json:"status,omitempty"`
	Rank              string `json:"rank,omitempty"`
	Questions         string `json:"questions,omitempty"`
	CVFilename        string `json:"cv_filename,omitempty"`
	Answers           string `json:"answers,omitempty"`
	DateAdded         string `json:"date_added,omitempty"`
	CandidateRelation string `json:"candidate_relation,omitempty"`
	CandidateKey      string `json:"candidate_key,omitempty"`
}

// DefaultFieldMap returns the column names of the production base.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		JobTitle:       "Job Title",
		JobClient:      "Client",
		JobStatus:      "Status",
		JobCVRelation:  "nc_92rx___nc_m2m_JobDescription_CVs",
		JobCVKey:       "CV",
		JobDescription: "Description",
		JobDescFiles:   "Job Description",

		FirstName: "First Name",
		LastName:  "Last Name",
		CVFiles:   "CV",

		Title:             "Title",
		PortalLink:        "Interview Portal Link",
		DueDate:           "Interview Due Date",
		Status:            "Interview Status",
		Rank:              "Interview Rank",
		Questions:         "Text",
		CVFilename:        "CV File",
		Answers:           "Answers",
		DateAdded:         "Date Added",
		CandidateRelation: "nc_m2jd___nc_rel_Candidate",
		CandidateKey:      "Candidate",
	}
}

// WithDefaults fills every empty name from DefaultFieldMap.
func (f FieldMap) WithDefaults() FieldMap {
	d := DefaultFieldMap()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}

	fill(&f.JobTitle, d.JobTitle)
	fill(&f.JobClient, d.JobClient)
	fill(&f.JobStatus, d.JobStatus)
	fill(&f.JobCVRelation, d.JobCVRelation)
	fill(&f.JobCVKey, d.JobCVKey)
	fill(&f.JobDescription, d.JobDescription)
	fill(&f.JobDescFiles, d.JobDescFiles)
	fill(&f.FirstName, d.FirstName)
	fill(&f.LastName, d.LastName)
	fill(&f.CVFiles, d.CVFiles)
	fill(&f.Title, d.Title)
	fill(&f.PortalLink, d.PortalLink)
	fill(&f.DueDate, d.DueDate)
	fill(&f.Status, d.Status)
	fill(&f.Rank, d.Rank)
	fill(&f.Questions, d.Questions)
	fill(&f.CVFilename, d.CVFilename)
	fill(&f.Answers, d.Answers)
	fill(&f.DateAdded, d.DateAdded)
	fill(&f.CandidateRelation, d.CandidateRelation)
	fill(&f.CandidateKey, d.CandidateKey)

	return f
}
