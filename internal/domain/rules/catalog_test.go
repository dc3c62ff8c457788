package rules

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const customCatalog = `
version: "2"
shots:
  Clear:
    - id: clear_arm_up
      metric: vertical_offset
      landmarks: [right_wrist, right_shoulder]
      op: gt
      threshold: 0
      message: Reach higher on the clear
`

func TestDefaultCatalog_IsValid(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Validate())
	require.Equal(t, []string{ShotServe, ShotSmash}, c.Shots())
	require.Len(t, c.Rules("Serve"), 3)
	require.Len(t, c.Rules("smash"), 3)
	require.Empty(t, c.Rules("dropshot"))
}

func TestDefaultCatalog_Thresholds(t *testing.T) {
	serve := DefaultCatalog().Rules(ShotServe)
	require.Equal(t, 150.0, serve[1].Threshold)
	require.Equal(t, Less, serve[1].Op)
	require.Equal(t, 0.08, serve[2].Threshold)
	require.Equal(t, Greater, serve[2].Op)

	smash := DefaultCatalog().Rules(ShotSmash)
	require.Equal(t, 165.0, smash[1].Threshold)
	require.Equal(t, Greater, smash[1].Op)
	require.Equal(t, 0.04, smash[2].Threshold)
	require.Equal(t, Less, smash[2].Op)
}

func TestLoadCatalog_Custom(t *testing.T) {
	c, err := LoadCatalog(strings.NewReader(customCatalog))
	require.NoError(t, err)
	require.Equal(t, "2", c.Version)
	require.Equal(t, []string{"clear"}, c.Shots())
	require.Equal(t, "clear_arm_up", c.Rules("CLEAR")[0].ID)
}

func TestLoadCatalog_DefaultSurvivesYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DefaultCatalog().WriteYAML(&buf))

	c, err := LoadCatalog(&buf)
	require.NoError(t, err)
	require.Equal(t, DefaultCatalog(), c)
}

func TestLoadCatalog_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown metric": `
shots:
  serve:
    - {id: a, metric: speed, landmarks: [right_wrist, right_hip], op: lt, threshold: 0, message: m}`,
		"wrong arity": `
shots:
  serve:
    - {id: a, metric: joint_angle, landmarks: [right_wrist, right_hip], op: lt, threshold: 0, message: m}`,
		"unknown landmark": `
shots:
  serve:
    - {id: a, metric: vertical_offset, landmarks: [racket, right_hip], op: lt, threshold: 0, message: m}`,
		"unknown op": `
shots:
  serve:
    - {id: a, metric: vertical_offset, landmarks: [right_wrist, right_hip], op: ne, threshold: 0, message: m}`,
		"empty message": `
shots:
  serve:
    - {id: a, metric: vertical_offset, landmarks: [right_wrist, right_hip], op: lt, threshold: 0}`,
		"duplicate id": `
shots:
  serve:
    - {id: a, metric: vertical_offset, landmarks: [right_wrist, right_hip], op: lt, threshold: 0, message: m}
    - {id: a, metric: vertical_offset, landmarks: [right_wrist, right_hip], op: gt, threshold: 0, message: m}`,
		"duplicate shot": `
shots:
  serve: []
  SERVE: []`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCatalog(strings.NewReader(doc))
			require.ErrorIs(t, err, ErrInvalidRule)
		})
	}
}

func TestLoadCatalog_UnknownField(t *testing.T) {
	_, err := LoadCatalog(strings.NewReader("version: \"1\"\nrulez: {}\n"))
	require.Error(t, err)
}

func TestLoadCatalogFile_Missing(t *testing.T) {
	_, err := LoadCatalogFile(t.TempDir() + "/none.yaml")
	require.Error(t, err)
}
