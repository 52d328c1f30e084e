package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDateTpl(t *testing.T) {
	ts := time.Date(2023, time.November, 10, 9, 5, 7, 0, time.UTC)

	assert.Equal(t, "2023/11/10 09:05", FormatDateTpl(ts, "YYYY/MM/DD hh:mm"))
	assert.Equal(t, "10.11.23", FormatDateTpl(ts, "DD.MM.YY"))
	assert.Equal(t, "09:05:07", FormatDateTpl(ts, "hh:mm:ss"))
	assert.Equal(t, "", FormatDateTpl(time.Time{}, "YYYY"))
}
