package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateGoalAmount(t *testing.T) {
	assert.Error(t, ValidateGoalAmount(999))
	assert.Error(t, ValidateGoalAmount(999.99))
	assert.NoError(t, ValidateGoalAmount(1000))
	assert.NoError(t, ValidateGoalAmount(50000))
	assert.NoError(t, ValidateGoalAmount(100000))
	assert.Error(t, ValidateGoalAmount(100000.01))
	assert.Error(t, ValidateGoalAmount(0))
	assert.Error(t, ValidateGoalAmount(-1000))
}

func TestValidCampaignType(t *testing.T) {
	for _, ct := range CampaignTypes {
		assert.True(t, ValidCampaignType(ct), ct)
	}
	assert.False(t, ValidCampaignType("family"))
	assert.False(t, ValidCampaignType(""))
	assert.False(t, ValidCampaignType("Charity"))
}

func TestSanitizeVideoLinks(t *testing.T) {
	links := []VideoLink{
		{Type: "youtube", Value: "https://youtube.com/watch?v=abc"},
		{Type: "direct", Value: "https://cdn.example.com/v.mp4"},
		{Type: "embed", Value: "<iframe src=...></iframe>"},
		{Type: "vimeo", Value: "https://vimeo.com/123"},
		{Type: "youtube", Value: ""},
	}
	out := SanitizeVideoLinks(links)
	assert.Len(t, out, 3)
	for _, l := range out {
		assert.NotEmpty(t, l.Value)
		assert.Contains(t, VideoLinkTypes, l.Type)
	}
}

func TestSanitizeVideoLinks_Empty(t *testing.T) {
	assert.Nil(t, SanitizeVideoLinks(nil))
	assert.Nil(t, SanitizeVideoLinks([]VideoLink{{Type: "vimeo", Value: "x"}}))
}

func TestVideoLinkListRoundTrip(t *testing.T) {
	in := VideoLinkList{{Type: "youtube", Value: "https://youtube.com/watch?v=abc"}}
	raw, err := in.Value()
	assert.NoError(t, err)

	var out VideoLinkList
	assert.NoError(t, out.Scan(raw))
	assert.Equal(t, in, out)

	var empty VideoLinkList
	assert.NoError(t, empty.Scan(nil))
	assert.Nil(t, empty)
}
