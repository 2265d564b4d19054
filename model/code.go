package model

// Line is a single source line of a loaded commit file.
type Line struct {
	ID           string `json:"id" gorm:"primaryKey;type:text"`
	Number       int    `json:"number"`
	Content      string `json:"content" gorm:"type:text"`
	CommitFileID string `json:"commit_file_id" gorm:"type:text;index"`
}

func (Line) TableName() string {
	return "lines"
}

// Function is a method boundary extracted from a commit file.
type Function struct {
	ID           string `json:"id" gorm:"primaryKey;type:text"`
	Name         string `json:"name"`
	StartLine    int    `json:"start_line"`
	StartCol     int    `json:"start_col"`
	EndLine      int    `json:"end_line"`
	EndCol       int    `json:"end_col"`
	Size         int    `json:"size"`
	CommitFileID string `json:"commit_file_id" gorm:"type:text;index"`
}

func (Function) TableName() string {
	return "functions"
}

// All returns every model, in migration order.
func All() []interface{} {
	return []interface{}{
		&Vulnerability{}, &VulnerabilityCWE{}, &Reference{}, &Tag{}, &ReferenceTag{},
		&CWE{}, &Abstraction{}, &Grouping{}, &BFClass{}, &Phase{}, &Operation{},
		&CWEBFClass{}, &CWEPhase{}, &CWEOperation{},
		&Repository{}, &Commit{}, &CommitFile{}, &DiffBlock{}, &Topic{}, &RepositoryTopic{},
		&RepositoryProductType{},
		&ProductType{}, &Vendor{}, &Product{}, &Configuration{}, &ConfigurationVulnerability{},
		&Dataset{}, &DatasetVulnerability{}, &Profile{}, &ProfileCWE{},
		&Line{}, &Function{},
	}
}
