package model

// ProductType is a software type (e.g. "web server", "library").
type ProductType struct {
	ID   int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"name"`
}

func (ProductType) TableName() string {
	return "product_types"
}

type Vendor struct {
	ID   int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"name"`
}

func (Vendor) TableName() string {
	return "vendors"
}

type Product struct {
	ID            int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name          string `json:"name"`
	VendorID      int    `json:"vendor_id" gorm:"index"`
	ProductTypeID int    `json:"product_type_id" gorm:"index"`
}

func (Product) TableName() string {
	return "products"
}

// Configuration is a CPE configuration affected by a vulnerability.
type Configuration struct {
	ID              int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Part            string `json:"part"`
	Version         string `json:"version"`
	Vulnerable      bool   `json:"vulnerable"`
	VulnerabilityID string `json:"vulnerability_id" gorm:"type:text;index"`
	VendorID        int    `json:"vendor_id" gorm:"index"`
	ProductID       int    `json:"product_id" gorm:"index"`
}

func (Configuration) TableName() string {
	return "configurations"
}

type ConfigurationVulnerability struct {
	ConfigurationID int    `json:"configuration_id" gorm:"primaryKey;autoIncrement:false"`
	VulnerabilityID string `json:"vulnerability_id" gorm:"primaryKey;type:text"`
}

func (ConfigurationVulnerability) TableName() string {
	return "configuration_vulnerabilities"
}
