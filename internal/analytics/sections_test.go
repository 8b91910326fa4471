package analytics

import (
	"testing"

	"github.com/Veraticus/tiffin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportSections(t *testing.T) {
	orders := testutil.NewOrderBuilder(t, testutil.Reference).
		Daily("Ravi", "2 Rice", 20, 7).
		Daily("Ravi", "6 Rice", 6, 0).
		Order("Asha", 2, "3 Soup").
		Order("Asha", 30, "Soup").
		Build()

	report := newEngine(t, nil).Analyze(orders, nil)
	sections := report.Sections()

	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.Name
	}
	assert.Equal(t, []string{
		SectionTopItems,
		SectionTrendingIncreasing,
		SectionTrendingNew,
		SectionLowStock,
		SectionRetained,
		SectionChurnTrial,
		SectionChurnQuick,
		SectionChurnSlow,
		SectionReorderByItem,
		SectionReorderByCustomer,
	}, names)

	assert.Equal(t, [][]string{{"Rice", "70"}, {"Soup", "4"}}, sections[0].Rows)
	assert.Equal(t, [][]string{{"Rice", "42", "14.0", "3.00x"}}, sections[1].Rows)
	assert.Equal(t, [][]string{{"Soup", "3"}}, sections[2].Rows)
	assert.Equal(t, [][]string{{"Rice", "70", "10", "-60"}}, sections[3].Rows)

	require.Len(t, sections[4].Rows, 2)
	assert.Equal(t, "Asha", sections[4].Rows[0][0])
	assert.Equal(t, [][]string{{"Rice", "1", "Ravi"}, {"Soup", "1", "Asha"}}, sections[8].Rows)
	assert.Equal(t, [][]string{{"Asha", "Soup"}, {"Ravi", "Rice"}}, sections[9].Rows)

	for _, s := range sections {
		for _, row := range s.Rows {
			assert.Len(t, row, len(s.Columns), s.Name)
		}
	}
}
