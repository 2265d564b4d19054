package model

// CWE is a Common Weakness Enumeration entry.
type CWE struct {
	ID            int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name          string `json:"name"`
	Description   string `json:"description" gorm:"type:text"`
	AbstractionID *int   `json:"abstraction_id"`
}

func (CWE) TableName() string {
	return "cwes"
}

// Abstraction is the CWE abstraction level (Pillar, Class, Base, Variant, ...).
type Abstraction struct {
	ID   int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"name"`
}

func (Abstraction) TableName() string {
	return "abstractions"
}

// Grouping is a parent/child edge between CWE entries (views and categories).
type Grouping struct {
	ParentID int `json:"parent_id" gorm:"primaryKey;autoIncrement:false"`
	ChildID  int `json:"child_id" gorm:"primaryKey;autoIncrement:false"`
}

func (Grouping) TableName() string {
	return "groupings"
}

// BFClass is a Bugs Framework class.
type BFClass struct {
	ID   int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"name" gorm:"index"`
}

func (BFClass) TableName() string {
	return "bf_classes"
}

// Phase is a Bugs Framework phase.
type Phase struct {
	ID      int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name    string `json:"name"`
	Acronym string `json:"acronym"`
}

func (Phase) TableName() string {
	return "phases"
}

// Operation is a Bugs Framework operation.
type Operation struct {
	ID   int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"name"`
}

func (Operation) TableName() string {
	return "operations"
}

type CWEBFClass struct {
	CWEID     int `json:"cwe_id" gorm:"column:cwe_id;primaryKey;autoIncrement:false"`
	BFClassID int `json:"bf_class_id" gorm:"primaryKey;autoIncrement:false"`
}

func (CWEBFClass) TableName() string {
	return "cwe_bf_classes"
}

type CWEPhase struct {
	CWEID   int `json:"cwe_id" gorm:"column:cwe_id;primaryKey;autoIncrement:false"`
	PhaseID int `json:"phase_id" gorm:"primaryKey;autoIncrement:false"`
}

func (CWEPhase) TableName() string {
	return "cwe_phases"
}

type CWEOperation struct {
	CWEID       int `json:"cwe_id" gorm:"column:cwe_id;primaryKey;autoIncrement:false"`
	OperationID int `json:"operation_id" gorm:"primaryKey;autoIncrement:false"`
}

func (CWEOperation) TableName() string {
	return "cwe_operations"
}
