package commands

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks-dev/openbooks/internal/model"
)

func TestParseLineIDs(t *testing.T) {
	ids, err := parseLineIDs("1, 2,7")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 7}, ids)

	_, err = parseLineIDs("1,x")
	require.Error(t, err)

	_, err = parseLineIDs("")
	require.Error(t, err)

	_, err = parseLineIDs(" , ,")
	require.Error(t, err)
}

func TestParseSplitSpecs(t *testing.T) {
	splits, err := parseSplitSpecs([]string{"300.00:1:", "200.00::402"})
	require.NoError(t, err)
	require.Len(t, splits, 2)

	assert.True(t, splits[0].Amount.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, int64(1), splits[0].CategoryID)
	assert.Zero(t, splits[0].OffsetAccountID)

	assert.Equal(t, int64(402), splits[1].OffsetAccountID)
	assert.Zero(t, splits[1].CategoryID)
}

func TestParseSplitSpecs_Invalid(t *testing.T) {
	for _, spec := range []string{
		"300.00",
		"300.00:1",
		"abc:1:",
		"300.00:x:",
		"300.00:1:y",
	} {
		_, err := parseSplitSpecs([]string{spec})
		assert.Error(t, err, "spec %q", spec)
	}
}

func TestParseSplitSpecs_Empty(t *testing.T) {
	splits, err := parseSplitSpecs(nil)
	require.NoError(t, err)
	assert.Nil(t, splits)
}

func TestFormatAccountRow(t *testing.T) {
	checking := model.Account{ID: 101, Number: "1010", Name: "Checking", Type: model.AccountTypeAsset, Active: true}
	row := formatAccountRow(checking)
	assert.Contains(t, row, "debit-normal")
	assert.True(t, strings.HasSuffix(row, "  active"), "row %q", row)

	revenue := model.Account{ID: 401, Number: "4010", Name: "Service Revenue", Type: model.AccountTypeIncome, Active: false}
	row = formatAccountRow(revenue)
	assert.Contains(t, row, "credit-normal")
	assert.True(t, strings.HasSuffix(row, "  inactive"), "row %q", row)
}
