// internal/services/design_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anondesigns/dsm-backend/internal/config"
)

func testUploadLimits() config.UploadConfig {
	return config.UploadConfig{
		MaxPreviewSize: 10 * 1024 * 1024,
		MaxSourceSize:  50 * 1024 * 1024,
	}
}

func validInput() SubmissionInput {
	return SubmissionInput{
		Title:             "Summer Floral Pattern",
		Description:       "A repeating floral pattern for apparel prints.",
		PriceNonExclusive: "49.99",
		PriceExclusive:    "499.99",
		Tags:              "floral, summer, apparel",
		HasPreview:        true,
		PreviewSize:       2 * 1024 * 1024,
		HasSource:         true,
		SourceSize:        12 * 1024 * 1024,
	}
}

func TestValidateSubmission_Valid(t *testing.T) {
	validated, err := ValidateSubmission(validInput(), testUploadLimits())
	require.NoError(t, err)

	assert.Equal(t, "Summer Floral Pattern", validated.Title)
	assert.Equal(t, 49.99, validated.PriceNonExclusive)
	assert.Equal(t, 499.99, validated.PriceExclusive)
	assert.Equal(t, []string{"floral", "summer", "apparel"}, validated.Tags)
}

func TestValidateSubmission_TitleTooShort(t *testing.T) {
	input := validInput()
	input.Title = "ab"

	_, err := ValidateSubmission(input, testUploadLimits())
	require.Error(t, err)

	var validationErr *ValidationFailedError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Title must be at least 3 characters long", validationErr.Message)
}

func TestValidateSubmission_MinimumsCountCharactersNotBytes(t *testing.T) {
	// Multibyte input: each rune is several bytes, so a byte-length check
	// would wrongly accept a two-character title.
	input := validInput()
	input.Title = "桜柄"

	_, err := ValidateSubmission(input, testUploadLimits())
	require.Error(t, err)

	var validationErr *ValidationFailedError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Title must be at least 3 characters long", validationErr.Message)

	input.Title = "桜柄の布"
	_, err = ValidateSubmission(input, testUploadLimits())
	assert.NoError(t, err)

	input = validInput()
	input.Description = "桜柄のパターンです"
	_, err = ValidateSubmission(input, testUploadLimits())
	require.Error(t, err)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Description must be at least 10 characters long", validationErr.Message)

	input.Description = "桜柄のパターンですよ"
	_, err = ValidateSubmission(input, testUploadLimits())
	assert.NoError(t, err)
}

func TestValidateSubmission_TitleWhitespaceOnly(t *testing.T) {
	input := validInput()
	input.Title = "   x   "

	_, err := ValidateSubmission(input, testUploadLimits())
	assert.Error(t, err)
}

func TestValidateSubmission_DescriptionTooShort(t *testing.T) {
	input := validInput()
	input.Description = "too short"

	_, err := ValidateSubmission(input, testUploadLimits())
	require.Error(t, err)

	var validationErr *ValidationFailedError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Description must be at least 10 characters long", validationErr.Message)
}

func TestValidateSubmission_InvalidPrices(t *testing.T) {
	cases := []struct {
		name         string
		nonExclusive string
		exclusive    string
	}{
		{"non-exclusive not a number", "abc", "499.99"},
		{"non-exclusive zero", "0", "499.99"},
		{"non-exclusive negative", "-5", "499.99"},
		{"exclusive not a number", "49.99", "free"},
		{"exclusive zero", "49.99", "0"},
		{"exclusive below non-exclusive", "49.99", "20.00"},
		{"exclusive equals non-exclusive", "49.99", "49.99"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			input.PriceNonExclusive = tc.nonExclusive
			input.PriceExclusive = tc.exclusive

			_, err := ValidateSubmission(input, testUploadLimits())
			require.Error(t, err)

			var validationErr *ValidationFailedError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestValidateSubmission_ExclusivePriceRelationMessage(t *testing.T) {
	input := validInput()
	input.PriceNonExclusive = "100.00"
	input.PriceExclusive = "99.99"

	_, err := ValidateSubmission(input, testUploadLimits())
	require.Error(t, err)

	var validationErr *ValidationFailedError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Exclusive price must be higher than non-exclusive price", validationErr.Message)
}

func TestValidateSubmission_MissingFiles(t *testing.T) {
	input := validInput()
	input.HasPreview = false
	input.PreviewSize = 0

	_, err := ValidateSubmission(input, testUploadLimits())
	require.Error(t, err)
	var validationErr *ValidationFailedError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Design preview image is required", validationErr.Message)

	input = validInput()
	input.HasSource = false
	input.SourceSize = 0

	_, err = ValidateSubmission(input, testUploadLimits())
	require.Error(t, err)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Design source file is required", validationErr.Message)
}

func TestValidateSubmission_FileTooLarge(t *testing.T) {
	input := validInput()
	input.PreviewSize = 11 * 1024 * 1024

	_, err := ValidateSubmission(input, testUploadLimits())
	require.Error(t, err)

	var tooLargeErr *FileTooLargeError
	require.ErrorAs(t, err, &tooLargeErr)
	assert.Equal(t, "Preview image must be smaller than 10MB", tooLargeErr.Message)

	input = validInput()
	input.SourceSize = 51 * 1024 * 1024

	_, err = ValidateSubmission(input, testUploadLimits())
	require.Error(t, err)
	require.ErrorAs(t, err, &tooLargeErr)
	assert.Equal(t, "Source file must be smaller than 50MB", tooLargeErr.Message)
}

func TestValidateSubmission_FileAtCeiling(t *testing.T) {
	input := validInput()
	input.PreviewSize = 10 * 1024 * 1024
	input.SourceSize = 50 * 1024 * 1024

	_, err := ValidateSubmission(input, testUploadLimits())
	assert.NoError(t, err)
}

func TestParseTags(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		expected []string
	}{
		{"json array", `["floral","summer"]`, []string{"floral", "summer"}},
		{"json array with padding", `[" floral ", "summer", ""]`, []string{"floral", "summer"}},
		{"comma separated", "floral, summer,apparel", []string{"floral", "summer", "apparel"}},
		{"single tag", "floral", []string{"floral"}},
		{"empty string", "", []string{}},
		{"only commas", ",,,", []string{}},
		{"malformed json falls back to commas", `["floral", summer`, []string{`["floral"`, "summer"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseTags(tc.raw))
		})
	}
}
