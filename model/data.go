package model

// Dataset is a user-created, named set of vulnerabilities.
type Dataset struct {
	ID          int    `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;size:255"`
	Description string `json:"description" gorm:"size:1000"`
}

func (Dataset) TableName() string {
	return "datasets"
}

type DatasetVulnerability struct {
	DatasetID       int    `json:"dataset_id" gorm:"primaryKey;autoIncrement:false"`
	VulnerabilityID string `json:"vulnerability_id" gorm:"primaryKey;type:text"`
}

func (DatasetVulnerability) TableName() string {
	return "dataset_vulnerabilities"
}

// Profile is a stored, reusable set of filters.
// Nil bounds are not applied.
type Profile struct {
	ID           int      `json:"id" gorm:"primaryKey"`
	Name         string   `json:"name" gorm:"uniqueIndex;size:255"`
	StartYear    *int     `json:"start_year"`
	EndYear      *int     `json:"end_year"`
	StartScore   *float64 `json:"start_score"`
	EndScore     *float64 `json:"end_score"`
	MinChanges   *int     `json:"min_changes"`
	MaxChanges   *int     `json:"max_changes"`
	MinFiles     *int     `json:"min_files"`
	MaxFiles     *int     `json:"max_files"`
	HasCode      bool     `json:"has_code"`
	HasExploit   bool     `json:"has_exploit"`
	HasAdvisory  bool     `json:"has_advisory"`
	SingleCommit bool     `json:"single_commit"`
	Extension    *string  `json:"extension"`
}

func (Profile) TableName() string {
	return "profiles"
}

type ProfileCWE struct {
	ProfileID int `json:"profile_id" gorm:"primaryKey;autoIncrement:false"`
	CWEID     int `json:"cwe_id" gorm:"column:cwe_id;primaryKey;autoIncrement:false"`
}

func (ProfileCWE) TableName() string {
	return "profile_cwes"
}
