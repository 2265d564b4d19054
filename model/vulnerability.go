// Package model defines the gorm models mapped onto the relational vulnerability dataset.
//
// The schema is owned by the dataset, not by this service; the models only describe the
// columns the query layer reads and the few tables it writes (datasets, profiles).
package model

import "time"

// Vulnerability is a single CVE record.
type Vulnerability struct {
	ID               string    `json:"id" gorm:"primaryKey;type:text"`
	Description      string    `json:"description" gorm:"type:text"`
	Assigner         string    `json:"assigner"`
	Severity         *string   `json:"severity" gorm:"index"`
	Exploitability   *float64  `json:"exploitability"`
	Impact           *float64  `json:"impact"`
	PublishedDate    time.Time `json:"published_date" gorm:"index"`
	LastModifiedDate time.Time `json:"last_modified_date"`
}

func (Vulnerability) TableName() string {
	return "vulnerabilities"
}

// VulnerabilityCWE links a vulnerability to one of its weaknesses.
type VulnerabilityCWE struct {
	VulnerabilityID string `json:"vulnerability_id" gorm:"primaryKey;type:text"`
	CWEID           int    `json:"cwe_id" gorm:"column:cwe_id;primaryKey;autoIncrement:false;index"`
}

func (VulnerabilityCWE) TableName() string {
	return "vulnerability_cwes"
}

// Reference is an external link attached to a vulnerability.
type Reference struct {
	ID              int    `json:"id" gorm:"primaryKey"`
	URL             string `json:"url" gorm:"type:text"`
	VulnerabilityID string `json:"vulnerability_id" gorm:"type:text;index"`
}

func (Reference) TableName() string {
	return "vulnerability_references"
}

// Tag classifies references (exploit, advisory, patch, ...).
type Tag struct {
	ID   int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"name"`
}

func (Tag) TableName() string {
	return "tags"
}

// ReferenceTag links a reference to a tag.
type ReferenceTag struct {
	ReferenceID int `json:"reference_id" gorm:"primaryKey;autoIncrement:false"`
	TagID       int `json:"tag_id" gorm:"primaryKey;autoIncrement:false;index"`
}

func (ReferenceTag) TableName() string {
	return "reference_tags"
}

// Well known tag ids of the dataset.
const (
	TagAdvisory       = 1
	TagExploit        = 10
	TagVendorAdvisory = 16
)

// AdvisoryTagIDs are the tags that mark a reference as an advisory.
var AdvisoryTagIDs = []int{TagAdvisory, TagVendorAdvisory}
