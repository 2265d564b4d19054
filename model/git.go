package model

import (
	"time"

	"gorm.io/gorm"
)

// CommitKindParent marks the synthetic baseline commit representing the pre-fix state.
const CommitKindParent = "parent"

// NonParentCommits restricts q to commits that are not parent commits. Commits with no kind are kept.
func NonParentCommits(q *gorm.DB) *gorm.DB {
	return q.Where("(commits.kind IS NULL OR commits.kind <> ?)", CommitKindParent)
}

// Repository is a source repository that received vulnerability fixes.
type Repository struct {
	ID          string  `json:"id" gorm:"primaryKey;type:text"`
	Name        string  `json:"name"`
	Owner       string  `json:"owner"`
	Description string  `json:"description" gorm:"type:text"`
	Language    *string `json:"language" gorm:"index"`
	Available   *bool   `json:"available"`
}

func (Repository) TableName() string {
	return "repositories"
}

// Commit is a fix (or parent) commit associated with a vulnerability.
type Commit struct {
	ID              string     `json:"id" gorm:"primaryKey;type:text"`
	SHA             string     `json:"sha" gorm:"column:sha"`
	Kind            string     `json:"kind" gorm:"index"`
	URL             string     `json:"url"`
	Message         string     `json:"message" gorm:"type:text"`
	Changes         *int       `json:"changes"`
	Additions       *int       `json:"additions"`
	Deletions       *int       `json:"deletions"`
	FilesCount      *int       `json:"files_count"`
	Available       *bool      `json:"available"`
	State           *string    `json:"state"`
	Date            *time.Time `json:"date"`
	VulnerabilityID string     `json:"vulnerability_id" gorm:"type:text;index"`
	RepositoryID    string     `json:"repository_id" gorm:"type:text;index"`
}

func (Commit) TableName() string {
	return "commits"
}

// CommitFile is a file touched by a commit.
type CommitFile struct {
	ID        string `json:"id" gorm:"primaryKey;type:text"`
	Filename  string `json:"filename"`
	Extension string `json:"extension" gorm:"index"`
	Changes   *int   `json:"changes"`
	Additions *int   `json:"additions"`
	Deletions *int   `json:"deletions"`
	Status    string `json:"status"`
	Patch     string `json:"patch" gorm:"type:text"`
	RawURL    string `json:"raw_url"`
	CommitID  string `json:"commit_id" gorm:"type:text;index"`
}

func (CommitFile) TableName() string {
	return "commit_files"
}

// DiffBlock is a single hunk of a commit file patch.
type DiffBlock struct {
	ID           string `json:"id" gorm:"primaryKey;type:text"`
	AStart       int    `json:"a_start"`
	ACount       int    `json:"a_count"`
	BStart       int    `json:"b_start"`
	BCount       int    `json:"b_count"`
	CommitFileID string `json:"commit_file_id" gorm:"type:text;index"`
}

func (DiffBlock) TableName() string {
	return "diff_blocks"
}

type Topic struct {
	ID   int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"name"`
}

func (Topic) TableName() string {
	return "topics"
}

type RepositoryTopic struct {
	RepositoryID string `json:"repository_id" gorm:"primaryKey;type:text"`
	TopicID      int    `json:"topic_id" gorm:"primaryKey;autoIncrement:false"`
}

func (RepositoryTopic) TableName() string {
	return "repository_topics"
}

// RepositoryProductType tags a repository with a software type.
type RepositoryProductType struct {
	RepositoryID  string `json:"repository_id" gorm:"primaryKey;type:text"`
	ProductTypeID int    `json:"product_type_id" gorm:"index"`
}

func (RepositoryProductType) TableName() string {
	return "repository_product_types"
}
