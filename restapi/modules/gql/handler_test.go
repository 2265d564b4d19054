package gql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMutation(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		operation string
		want      bool
	}{
		{name: "shorthand query", query: `{ stats { total } }`},
		{name: "named query", query: `query Q { stats { total } }`},
		{name: "mutation", query: `mutation { removeDataset(id: 1) { dataset { id } } }`, want: true},
		{name: "syntax error", query: `mutation {`},
		{
			name:      "selected query in mixed document",
			query:     `query Q { stats { total } } mutation M { removeDataset(id: 1) { dataset { id } } }`,
			operation: "Q",
		},
		{
			name:      "selected mutation in mixed document",
			query:     `query Q { stats { total } } mutation M { removeDataset(id: 1) { dataset { id } } }`,
			operation: "M",
			want:      true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMutation(tt.query, tt.operation))
		})
	}
}
