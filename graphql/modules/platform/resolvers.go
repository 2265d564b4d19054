package platform

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/graphql/modules/common"
	"github.com/rotas-project/rotas/internal/aggregate"
	"github.com/rotas-project/rotas/model"
)

func ResolveProductTypes(ctx context.Context, db database.DBConnection) ([]model.ProductType, error) {
	var out []model.ProductType
	err := db.Session(ctx).Order("id").Find(&out).Error
	return out, err
}

// ResolveProduct returns the product or nil when it does not exist.
func ResolveProduct(ctx context.Context, db database.DBConnection, id int) (interface{}, error) {
	var product model.Product
	err := db.Session(ctx).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// ResolveVendor returns the vendor or nil when it does not exist.
func ResolveVendor(ctx context.Context, db database.DBConnection, id int) (interface{}, error) {
	var vendor model.Vendor
	err := db.Session(ctx).Where("id = ?", id).First(&vendor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return vendor, nil
}

func ResolveProductSoftwareType(ctx context.Context, db database.DBConnection, product model.Product) (interface{}, error) {
	var pt model.ProductType
	err := db.Session(ctx).Where("id = ?", product.ProductTypeID).First(&pt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return pt.Name, nil
}

// ResolveConfigurations lists the configurations whose column (vendor_id or product_id) equals id.
func ResolveConfigurations(ctx context.Context, db database.DBConnection, column string, id int) ([]model.Configuration, error) {
	var out []model.Configuration
	err := db.Session(ctx).Where(column+" = ?", id).Order("id").Find(&out).Error
	return out, err
}

func CountConfigurations(ctx context.Context, db database.DBConnection, column string, id int) (int, error) {
	var n int64
	err := db.Session(ctx).Model(&model.Configuration{}).Where(column+" = ?", id).Count(&n).Error
	return int(n), err
}

// CountVulnerabilities counts the distinct vulnerabilities with a configuration of the vendor or product.
func CountVulnerabilities(ctx context.Context, db database.DBConnection, column string, id int) (int, error) {
	var n int64
	err := db.Session(ctx).Model(&model.Configuration{}).
		Where(column+" = ?", id).
		Distinct("vulnerability_id").
		Count(&n).Error
	return int(n), err
}

func ResolveVendorProducts(ctx context.Context, db database.DBConnection, vendorID int) ([]model.Product, error) {
	var out []model.Product
	err := db.Session(ctx).Where("vendor_id = ?", vendorID).Order("id").Find(&out).Error
	return out, err
}

func CountVendorProducts(ctx context.Context, db database.DBConnection, vendorID int) (int, error) {
	var n int64
	err := db.Session(ctx).Model(&model.Product{}).Where("vendor_id = ?", vendorID).Count(&n).Error
	return int(n), err
}

// CountSoftwareTypes counts products per software type name.
func CountSoftwareTypes(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	q := db.Session(ctx).Table("products").
		Select("product_types.name AS grp, COUNT(*) AS cnt").
		Joins("JOIN product_types ON product_types.id = products.product_type_id").
		Group("product_types.name")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

// CountProductsByVendor reports how many vendors have each number of products.
func CountProductsByVendor(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	s := db.Session(ctx)
	return aggregate.CountOfCounts(s, s.Table("products").
		Select("COUNT(*) AS n").
		Joins("JOIN vendors ON vendors.id = products.vendor_id").
		Group("products.vendor_id"))
}

// CountVulnerabilitiesByVendor reports how many vendors have each number of affected vulnerabilities.
func CountVulnerabilitiesByVendor(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	s := db.Session(ctx)
	return aggregate.CountOfCounts(s, s.Table("vulnerabilities").
		Select("COUNT(*) AS n").
		Joins("JOIN configurations ON configurations.vulnerability_id = vulnerabilities.id").
		Group("configurations.vendor_id"))
}

// CountVulnerabilitiesByProduct reports how many products have each number of affected vulnerabilities.
func CountVulnerabilitiesByProduct(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	s := db.Session(ctx)
	return aggregate.CountOfCounts(s, s.Table("configurations").
		Select("COUNT(configurations.vulnerability_id) AS n").
		Group("configurations.product_id"))
}

// CountConfigurationParts splits configurations per CPE part into vulnerable and non-vulnerable.
func CountConfigurationParts(ctx context.Context, db database.DBConnection) ([]common.NestedCount, error) {
	type partRow struct {
		Part          string
		Vulnerable    int
		NonVulnerable int
	}
	var rows []partRow
	err := db.Session(ctx).Table("configurations").
		Select("part, " +
			"SUM(CASE WHEN vulnerable THEN 1 ELSE 0 END) AS vulnerable, " +
			"SUM(CASE WHEN vulnerable THEN 0 ELSE 1 END) AS non_vulnerable").
		Group("part").
		Order("part").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]common.NestedCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, common.NestedCount{
			Key: r.Part,
			Values: []aggregate.Pair{
				{Key: "vulnerable", Value: r.Vulnerable},
				{Key: "non-vulnerable", Value: r.NonVulnerable},
			},
		})
	}
	return out, nil
}

// CountConfigurationsByVulnerability reports how many vulnerabilities have each number of
// configurations, including those with none.
func CountConfigurationsByVulnerability(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	s := db.Session(ctx)
	return aggregate.CountOfCounts(s, s.Table("vulnerabilities").
		Select("COUNT(configuration_vulnerabilities.configuration_id) AS n").
		Joins("LEFT JOIN configuration_vulnerabilities ON configuration_vulnerabilities.vulnerability_id = vulnerabilities.id").
		Group("vulnerabilities.id"))
}

// CountConfigurationsByVendor reports how many vendors have each number of configurations.
func CountConfigurationsByVendor(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	s := db.Session(ctx)
	return aggregate.CountOfCounts(s, s.Table("configurations").
		Select("COUNT(*) AS n").
		Joins("JOIN vendors ON vendors.id = configurations.vendor_id").
		Group("configurations.vendor_id"))
}

// CountConfigurationsByProduct reports how many products have each number of configurations,
// including those with none.
func CountConfigurationsByProduct(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	s := db.Session(ctx)
	return aggregate.CountOfCounts(s, s.Table("products").
		Select("COUNT(configurations.product_id) AS n").
		Joins("LEFT JOIN configurations ON configurations.product_id = products.id").
		Group("products.id"))
}
