package encoder

import (
	"errors"
	"testing"

	"github.com/S-4-Sidra/heart-disease/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baselineInput() domain.PatientInput {
	return domain.PatientInput{
		Age:            45,
		Sex:            domain.SexMale,
		ChestPain:      domain.ChestPainTypicalAngina,
		RestingBP:      120,
		Cholesterol:    200,
		FastingBSHigh:  false,
		RestingECG:     domain.RestingECGNormal,
		MaxHeartRate:   150,
		ExerciseAngina: false,
		STDepression:   1.0,
		STSlope:        domain.STSlopeUpsloping,
		VesselsColored: 1,
		Thalassemia:    domain.ThalassemiaNormal,
	}
}

func TestEncode_Baseline(t *testing.T) {
	got := Encode(baselineInput())
	want := domain.FeatureVector{45, 1, 0, 120, 200, 0, 0, 150, 0, 1.0, 0, 1, 1}
	assert.Equal(t, want, got)
}

func TestEncode_Deterministic(t *testing.T) {
	in := baselineInput()
	in.Sex = domain.SexFemale
	in.ChestPain = domain.ChestPainAsymptomatic
	in.FastingBSHigh = true
	in.ExerciseAngina = true
	in.RestingECG = domain.RestingECGLVHypertrophy
	in.STSlope = domain.STSlopeDownsloping
	in.Thalassemia = domain.ThalassemiaReversibleDefect

	first := Encode(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Encode(in))
	}
	assert.Equal(t, domain.FeatureVector{45, 0, 3, 120, 200, 1, 2, 150, 1, 1.0, 2, 1, 3}, first)
}

func TestEncode_EnumTables(t *testing.T) {
	in := baselineInput()

	cases := []struct {
		name  string
		apply func(*domain.PatientInput)
		index int
		want  float64
	}{
		{"atypical angina", func(p *domain.PatientInput) { p.ChestPain = domain.ChestPainAtypicalAngina }, 2, 1},
		{"non anginal", func(p *domain.PatientInput) { p.ChestPain = domain.ChestPainNonAnginal }, 2, 2},
		{"st-t abnormality", func(p *domain.PatientInput) { p.RestingECG = domain.RestingECGSTTAbnormality }, 6, 1},
		{"flat slope", func(p *domain.PatientInput) { p.STSlope = domain.STSlopeFlat }, 10, 1},
		{"fixed defect", func(p *domain.PatientInput) { p.Thalassemia = domain.ThalassemiaFixedDefect }, 12, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := in
			tc.apply(&p)
			assert.Equal(t, tc.want, Encode(p)[tc.index])
		})
	}
}

func TestParseForm_DisplayLabels(t *testing.T) {
	p, err := ParseForm(Form{
		Age:            45,
		Sex:            "Male",
		ChestPain:      "Typical Angina",
		RestingBP:      120,
		Cholesterol:    200,
		FastingBSHigh:  "No",
		RestingECG:     "Normal",
		MaxHeartRate:   150,
		ExerciseAngina: "No",
		STDepression:   1.0,
		STSlope:        "Upsloping",
		VesselsColored: 1,
		Thalassemia:    "Normal",
	})
	require.NoError(t, err)
	assert.Equal(t, baselineInput(), p)
}

func TestParseLabels_Aliases(t *testing.T) {
	cp, err := ParseChestPain("Non-anginal Pain")
	require.NoError(t, err)
	assert.Equal(t, domain.ChestPainNonAnginal, cp)

	ecg, err := ParseRestingECG("ST-T Abnormality")
	require.NoError(t, err)
	assert.Equal(t, domain.RestingECGSTTAbnormality, ecg)

	ecg, err = ParseRestingECG("Left Ventricular Hypertrophy")
	require.NoError(t, err)
	assert.Equal(t, domain.RestingECGLVHypertrophy, ecg)

	thal, err := ParseThalassemia("reversible_defect")
	require.NoError(t, err)
	assert.Equal(t, domain.ThalassemiaReversibleDefect, thal)
}

func TestParseForm_UnknownLabel(t *testing.T) {
	_, err := ParseForm(Form{Sex: "Male", ChestPain: "Sharp", FastingBSHigh: "No"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEncoding))
}
