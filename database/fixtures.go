package database

import (
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/araddon/dateparse"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
	"gorm.io/gorm"

	"github.com/rotas-project/rotas/model"
)

type tabler interface {
	TableName() string
}

var timeType = reflect.TypeOf(time.Time{})

// parseTimeHook lets fixtures write dates in any layout dateparse understands.
func parseTimeHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != timeType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return dateparse.ParseIn(v, time.UTC)
	case int:
		return time.Date(v, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	default:
		return data, nil
	}
}

// LoadFixtures reads a YAML document keyed by table name, each key holding a list of rows,
// and inserts the rows in a single transaction. Tables are inserted in model.All order.
//
//	vulnerabilities:
//	  - id: CVE-2020-0001
//	    published_date: 2020-03-01
func LoadFixtures(db DBConnection, r io.Reader) (int, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("unable to read fixture: %w", err)
	}
	var doc map[string][]map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("unable to parse fixture: %w", err)
	}

	known := map[string]bool{}
	for _, m := range model.All() {
		known[m.(tabler).TableName()] = true
	}
	var errs error
	for table := range doc {
		if !known[table] {
			errs = multierror.Append(errs, fmt.Errorf("unknown table %q", table))
		}
	}
	if errs != nil {
		return 0, errs
	}

	inserted := 0
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		for _, m := range model.All() {
			table := m.(tabler).TableName()
			rows, ok := doc[table]
			if !ok {
				continue
			}
			typ := reflect.TypeOf(m).Elem()
			for i, row := range rows {
				rec := reflect.New(typ).Interface()
				dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
					DecodeHook:       parseTimeHook,
					TagName:          "json",
					WeaklyTypedInput: true,
					Result:           rec,
				})
				if err != nil {
					return err
				}
				if err := dec.Decode(row); err != nil {
					return fmt.Errorf("%s[%d]: %w", table, i, err)
				}
				if err := tx.Create(rec).Error; err != nil {
					return fmt.Errorf("%s[%d]: %w", table, i, err)
				}
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
