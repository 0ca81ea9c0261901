package usecases

import (
	"testing"

	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeStripsMarkup(t *testing.T) {
	assert.Equal(t, "hello world", sanitize("  <b>hello</b> <script>alert(1)</script>world "))
	assert.Equal(t, "Tom & Jerry", sanitize("Tom & Jerry"))
	assert.Equal(t, "click", sanitize(`<a href="https://x.test" onclick=alert(1)>click</a>`))
	assert.Equal(t, "x", sanitize("x<br/>"))
	assert.Equal(t, "", sanitize("<!-- note -->"))
	assert.Nil(t, sanitizePtr(nil))
}

func TestSanitizeKeepsPlainAngleBrackets(t *testing.T) {
	for _, in := range []string{
		"x<y",
		"size<M then>",
		"price a<b and c>d",
		"qty >= 10 && qty <= 20",
		"a < b > c",
	} {
		assert.Equal(t, in, sanitize(in), in)
	}
	assert.Equal(t, "x<y", sanitize("  x<y \n"))
}

func TestNormalizeClock(t *testing.T) {
	got, err := normalizeClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30:00", got)

	got, err = normalizeClock("21:15:45")
	require.NoError(t, err)
	assert.Equal(t, "21:15:00", got)

	for _, bad := range []string{"24:00", "9:30", "09:60", "noon", ""} {
		_, err := normalizeClock(bad)
		assert.True(t, apperrors.IsValidationError(err), bad)
	}
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	err := validateStruct(entities.ProductInput{})
	require.Error(t, err)
	msg, ok := apperrors.PublicMessage(err)
	require.True(t, ok)
	assert.Equal(t, "name is required", msg)

	err = validateStruct(entities.BotSettingsPatch{BusinessHoursStart: strPtr("25:00")})
	msg, _ = apperrors.PublicMessage(err)
	assert.Equal(t, "business_hours_start must be HH:MM", msg)

	assert.NoError(t, validateStruct(entities.BotSettingsPatch{BusinessHoursStart: strPtr("08:00")}))
}

func TestValidateStructAllowsBlankBusinessHours(t *testing.T) {
	assert.NoError(t, validateStruct(entities.BotSettingsPatch{
		BusinessHoursStart: strPtr(""),
		BusinessHoursEnd:   strPtr(" "),
	}))

	err := validateStruct(entities.BotSettingsPatch{BusinessHoursEnd: strPtr("7pm")})
	msg, _ := apperrors.PublicMessage(err)
	assert.Equal(t, "business_hours_end must be HH:MM", msg)

	err = validateStruct(entities.BotSettingsPatch{HunterStartTime: strPtr("")})
	assert.True(t, apperrors.IsValidationError(err))
}
