package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_NoComparisonData(t *testing.T) {
	rep := Score("", "", "JOHN SMITH", "05-Jan-1990")

	assert.Equal(t, StatusNoComparisonData, rep.Status)
	assert.Nil(t, rep.NameSimilarity)
	assert.Nil(t, rep.DOBSimilarity)
}

func TestScore_WhitespaceOnlyTreatedAsAbsent(t *testing.T) {
	rep := Score("   ", "\t", "JOHN SMITH", "")
	assert.Equal(t, StatusNoComparisonData, rep.Status)
}

func TestScore_IdenticalName(t *testing.T) {
	rep := Score("JOHN SMITH", "", "JOHN SMITH", "")

	require.Equal(t, StatusPartial, rep.Status)
	assert.Equal(t, 1.0, rep.NameSimilarity)
	assert.Nil(t, rep.DOBSimilarity)
}

func TestScore_CaseInsensitive(t *testing.T) {
	rep := Score("john smith", "", "JOHN SMITH", "")
	assert.Equal(t, 1.0, rep.NameSimilarity)
}

func TestScore_CloseName(t *testing.T) {
	rep := Score("JOHN SMYTH", "", "JOHN SMITH", "")

	require.Equal(t, StatusPartial, rep.Status)
	ratio, ok := rep.NameSimilarity.(float64)
	require.True(t, ok)
	assert.Greater(t, ratio, 0.8)
	assert.Less(t, ratio, 1.0)
	assert.Equal(t, 0.9, ratio)
}

func TestScore_SentinelWhenFieldNotExtracted(t *testing.T) {
	rep := Score("JOHN SMITH", "05-Jan-1990", "", "")

	require.Equal(t, StatusPartial, rep.Status)
	assert.Equal(t, NoExtractedName, rep.NameSimilarity)
	assert.Equal(t, NoExtractedDOB, rep.DOBSimilarity)
}

func TestScore_OnlyDOBProvided(t *testing.T) {
	rep := Score("", "05-Jan-1990", "JOHN SMITH", "05-Jan-1990")

	require.Equal(t, StatusPartial, rep.Status)
	assert.Nil(t, rep.NameSimilarity)
	assert.Equal(t, 1.0, rep.DOBSimilarity)
}

func TestRatio_Rounding(t *testing.T) {
	// 9 matching characters out of 10+10 -> 0.9 exactly.
	assert.Equal(t, 0.9, Ratio("JOHN SMYTH", "JOHN SMITH"))
	// Disjoint strings share nothing.
	assert.Equal(t, 0.0, Ratio("AAAA", "BBBB"))
}
