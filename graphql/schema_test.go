package graphql

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rotas-project/rotas/internal/dbtest"
)

func newSchema(t *testing.T) graphql.Schema {
	t.Helper()
	schema, err := CreateSchema(dbtest.New(t), zap.NewNop())
	require.NoError(t, err)
	return schema
}

func do(schema graphql.Schema, query string) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: query,
		Context:       context.Background(),
	})
}

// run executes query and returns its data as JSON, failing on any error.
func run(t *testing.T, schema graphql.Schema, query string) string {
	t.Helper()
	r := do(schema, query)
	require.Empty(t, r.Errors, "query errors: %v", r.Errors)
	b, err := json.Marshal(r.Data)
	require.NoError(t, err)
	return string(b)
}

func TestSchema_Counts(t *testing.T) {
	schema := newSchema(t)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "cwe counts",
			query: `{ cweCounts { key value } }`,
			want:  `{"cweCounts":[{"key":"20","value":1},{"key":"79","value":3},{"key":"89","value":1},{"key":"787","value":2}]}`,
		},
		{
			name:  "cwe multiplicity",
			query: `{ cweMultiplicity { key value } }`,
			want:  `{"cweMultiplicity":[{"key":"1","value":5},{"key":"2","value":1}]}`,
		},
		{
			name:  "severity with unknowns",
			query: `{ vulnsSeverity { key value } }`,
			want:  `{"vulnsSeverity":[{"key":"CRITICAL","value":1},{"key":"HIGH","value":2},{"key":"LOW","value":1},{"key":"MEDIUM","value":2},{"key":"N/A","value":1}]}`,
		},
		{
			name:  "assigners by company",
			query: `{ assignersCount(company: true) { key value } }`,
			want:  `{"assignersCount":[{"key":"acme","value":3},{"key":"globex","value":1},{"key":"mitre","value":3}]}`,
		},
		{
			name:  "tags include unused",
			query: `{ tagsCount { key value } }`,
			want:  `{"tagsCount":[{"key":"Advisory","value":1},{"key":"Exploit","value":3},{"key":"Patch","value":1},{"key":"Vendor Advisory","value":2}]}`,
		},
		{
			name:  "software development view",
			query: `{ vulnsCountBySofDevView { key value } }`,
			want:  `{"vulnsCountBySofDevView":[{"key":"CWE-1215: Data Validation Issues","value":5},{"key":"CWE-1218: Memory Buffer Errors","value":2}]}`,
		},
		{
			name:  "commit kinds",
			query: `{ commitKindCount { key value } }`,
			want:  `{"commitKindCount":[{"key":"fix","value":7},{"key":"parent","value":1}]}`,
		},
		{
			name:  "commit availability",
			query: `{ commitsAvailability { key value } }`,
			want:  `{"commitsAvailability":[{"key":"awaiting","value":5},{"key":"false","value":1},{"key":"true","value":2}]}`,
		},
		{
			name:  "repository commit frequency",
			query: `{ repositoriesCommitsFrequency { key value } }`,
			want:  `{"repositoriesCommitsFrequency":[{"key":"1","value":1},{"key":"2","value":1},{"key":"4","value":1}]}`,
		},
		{
			name:  "topics",
			query: `{ topicsCount { key value } }`,
			want:  `{"topicsCount":[{"key":"security","value":2},{"key":"web","value":1}]}`,
		},
		{
			name:  "software type profile",
			query: `{ swTypeVulnerabilityProfile(sw_type: "web server") { key value } }`,
			want:  `{"swTypeVulnerabilityProfile":[{"key":"20","value":1},{"key":"79","value":3}]}`,
		},
		{
			name:  "software type profile without the only repository",
			query: `{ swTypeVulnerabilityProfile(sw_type: "web server", repo_id: "r1") { key value } }`,
			want:  `{"swTypeVulnerabilityProfile":[]}`,
		},
		{
			name:  "configuration parts",
			query: `{ configsPartCount { key values { key value } } }`,
			want: `{"configsPartCount":[` +
				`{"key":"a","values":[{"key":"vulnerable","value":2},{"key":"non-vulnerable","value":1}]},` +
				`{"key":"o","values":[{"key":"vulnerable","value":1},{"key":"non-vulnerable","value":0}]}]}`,
		},
		{
			name:  "configurations per vulnerability",
			query: `{ configsVulnsCount { key value } }`,
			want:  `{"configsVulnsCount":[{"key":"0","value":3},{"key":"1","value":4}]}`,
		},
		{
			name:  "links",
			query: `{ links { at to count } }`,
			want: `{"links":[{"at":"DVL","count":5,"to":"Validate"},{"at":"Validate","count":5,"to":"Check"},` +
				`{"at":"MUS","count":2,"to":"Use"},{"at":"Use","count":2,"to":"Write"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, run(t, schema, tt.query))
		})
	}
}

func TestSchema_Stats(t *testing.T) {
	schema := newSchema(t)
	assert.JSONEq(t,
		`{"stats":{"total":7,"labeled":7,"references":6,"commits":8}}`,
		run(t, schema, `{ stats { total labeled references commits } }`))
}

func TestSchema_UnknownSoftwareType(t *testing.T) {
	r := do(newSchema(t), `{ swTypeVulnerabilityProfile(sw_type: "mainframe") { key } }`)
	require.Len(t, r.Errors, 1)
	assert.Contains(t, r.Errors[0].Message, "software type mainframe not found")
}

func TestSchema_Entities(t *testing.T) {
	schema := newSchema(t)

	t.Run("vulnerability with relations", func(t *testing.T) {
		got := run(t, schema, `{ vulnerability(id: "CVE-2021-0003") {
			id severity cwes { id } references { url tags } configurations { id } commits { id } } }`)
		assert.JSONEq(t, `{"vulnerability":{"id":"CVE-2021-0003","severity":"CRITICAL","cwes":[{"id":89}],
			"references":[{"url":"https://exploit-db.com/3","tags":["Exploit","Vendor Advisory"]}],
			"configurations":[{"id":3}],"commits":[{"id":"c4"}]}}`, got)
	})

	t.Run("missing vulnerability is null", func(t *testing.T) {
		assert.JSONEq(t, `{"vulnerability":null}`, run(t, schema, `{ vulnerability(id: "CVE-1999-0001") { id } }`))
	})

	t.Run("unknown severity is null", func(t *testing.T) {
		assert.JSONEq(t, `{"vulnerability":{"severity":null}}`,
			run(t, schema, `{ vulnerability(id: "CVE-2021-0004") { severity } }`))
	})

	t.Run("newest first window", func(t *testing.T) {
		assert.JSONEq(t, `{"vulnerabilities":[{"id":"CVE-2022-0006"},{"id":"CVE-2022-0005"}]}`,
			run(t, schema, `{ vulnerabilities(first: 2) { id } }`))
		assert.JSONEq(t, `{"vulnerabilities":[{"id":"CVE-2022-0005"},{"id":"CVE-2021-0004"}]}`,
			run(t, schema, `{ vulnerabilities(skip: 1, first: 2) { id } }`))
	})

	t.Run("search ignores case", func(t *testing.T) {
		assert.JSONEq(t, `{"searchVulnerability":[{"id":"CVE-2021-0003"},{"id":"CVE-2021-0004"}]}`,
			run(t, schema, `{ searchVulnerability(keyword: "cve-2021") { id } }`))
	})

	t.Run("repository", func(t *testing.T) {
		got := run(t, schema, `{ repository(id: "r1") {
			name commits_count topics software_type vulnerability_count } }`)
		assert.JSONEq(t, `{"repository":{"name":"webapp","commits_count":4,"topics":["web","security"],
			"software_type":"web server","vulnerability_count":3}}`, got)
	})

	t.Run("commit files with content", func(t *testing.T) {
		got := run(t, schema, `{ commit(id: "c1") { repository { id } files { id content diff_blocks { a_start } } } }`)
		assert.JSONEq(t, `{"commit":{"repository":{"id":"r1"},"files":[
			{"id":"f1","content":"public class Comment {\n  void render() {}\n}","diff_blocks":[{"a_start":10},{"a_start":40}]},
			{"id":"f2","content":"","diff_blocks":[]}]}}`, got)
	})

	t.Run("product and vendor", func(t *testing.T) {
		got := run(t, schema, `{
			product(id: 1) { name sw_type configurations_count vulnerabilities_count }
			vendor(id: 1) { products_count vulnerabilities_count } }`)
		assert.JSONEq(t, `{"product":{"name":"webapp","sw_type":"web server","configurations_count":2,"vulnerabilities_count":2},
			"vendor":{"products_count":2,"vulnerabilities_count":3}}`, got)
	})

	t.Run("functions", func(t *testing.T) {
		got := run(t, schema, `{ functions(file_id: "f1") { name start { line column } end { line column } code } }`)
		assert.JSONEq(t, `{"functions":[
			{"name":"render","start":{"line":2,"column":3},"end":{"line":2,"column":20},"code":["  void render() {}"]},
			{"name":"escape","start":{"line":20,"column":3},"end":{"line":30,"column":3},"code":[]}]}`, got)
	})

	t.Run("dataset", func(t *testing.T) {
		got := run(t, schema, `{ dataset(id: 1) { name size cwes { key value } extensions { key value } } }`)
		assert.JSONEq(t, `{"dataset":{"name":"baseline","size":3,
			"cwes":[{"key":"20","value":1},{"key":"79","value":2},{"key":"89","value":1}],
			"extensions":[{"key":".java","value":2},{"key":".js","value":1},{"key":".py","value":1},{"key":".xml","value":1}]}}`, got)
	})

	t.Run("datasets overlap", func(t *testing.T) {
		assert.JSONEq(t, `{"datasetsOverlap":50}`, run(t, schema, `{ datasetsOverlap(src_id: 2, tgt_id: 1) }`))
	})
}

func TestSchema_Pages(t *testing.T) {
	schema := newSchema(t)

	got := run(t, schema, `{ vulnerabilitiesPage(per_page: 2, severity: [HIGH, MEDIUM]) {
		hasNextPage hasPreviousPage totalPages totalResults page perPage pages elements { id } } }`)
	assert.JSONEq(t, `{"vulnerabilitiesPage":{"hasNextPage":true,"hasPreviousPage":false,"totalPages":2,
		"totalResults":4,"page":1,"perPage":2,"pages":[1,2],
		"elements":[{"id":"CVE-2019-0007"},{"id":"CVE-2020-0001"}]}}`, got)

	got = run(t, schema, `{ vendorsPage(page: 2, per_page: 1) { totalResults elements { name } } }`)
	assert.JSONEq(t, `{"vendorsPage":{"totalResults":2,"elements":[{"name":"globex"}]}}`, got)

	r := do(schema, `{ commitsPage(page: -1) { page } }`)
	require.Len(t, r.Errors, 1)
	assert.Contains(t, r.Errors[0].Message, "page must be at least 1")
}

func TestSchema_ProfileCount(t *testing.T) {
	schema := newSchema(t)

	got := run(t, schema, `{ profileCount(language: "Java") { total } }`)
	assert.JSONEq(t, `{"profileCount":{"total":3}}`, got)

	r := do(schema, `{ profileCount(min_changes: 10, max_changes: 2) { total } }`)
	require.NotEmpty(t, r.Errors)
	assert.Contains(t, r.Errors[0].Message, "invalid range")
}

func TestSchema_Mutations(t *testing.T) {
	schema := newSchema(t)

	got := run(t, schema, `mutation {
		addVulnerabilitiesToDataset(dataset_id: 2, vulnerability_ids: ["CVE-2022-0006"]) { dataset { name size } } }`)
	assert.JSONEq(t, `{"addVulnerabilitiesToDataset":{"dataset":{"name":"exploited","size":3}}}`, got)

	got = run(t, schema, `mutation { repositorySoftwareType(id: "r3", software_type_id: 3) { repository { software_type } } }`)
	assert.JSONEq(t, `{"repositorySoftwareType":{"repository":{"software_type":"operating system"}}}`, got)

	got = run(t, schema, `mutation { removeDatasetVulnerabilities(id: 1) { dataset { size } } }`)
	assert.JSONEq(t, `{"removeDatasetVulnerabilities":{"dataset":{"size":0}}}`, got)

	r := do(schema, `mutation { editDataset(id: 2, name: "baseline") { dataset { id } } }`)
	require.NotEmpty(t, r.Errors)
	assert.Contains(t, r.Errors[0].Message, "already exists")

	got = run(t, schema, `mutation { createDataset(name: "fresh", description: "empty") { dataset { name description size } } }`)
	assert.JSONEq(t, `{"createDataset":{"dataset":{"name":"fresh","description":"empty","size":0}}}`, got)
}
