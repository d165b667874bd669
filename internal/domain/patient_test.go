package domain

import (
	"errors"
	"testing"
)

func validInput() PatientInput {
	return PatientInput{
		Age:            45,
		Sex:            SexMale,
		ChestPain:      ChestPainTypicalAngina,
		RestingBP:      120,
		Cholesterol:    200,
		RestingECG:     RestingECGNormal,
		MaxHeartRate:   150,
		STDepression:   1.0,
		STSlope:        STSlopeUpsloping,
		VesselsColored: 1,
		Thalassemia:    ThalassemiaNormal,
	}
}

func TestValidate_AcceptsBounds(t *testing.T) {
	p := validInput()
	p.Age = 18
	p.STDepression = 6.2
	p.VesselsColored = 3
	if err := p.Validate(); err != nil {
		t.Fatalf("expected bounds to be valid, got %v", err)
	}
}

func TestValidate_RejectsOutOfRange(t *testing.T) {
	cases := map[string]func(*PatientInput){
		"age":         func(p *PatientInput) { p.Age = 17 },
		"bp":          func(p *PatientInput) { p.RestingBP = 201 },
		"cholesterol": func(p *PatientInput) { p.Cholesterol = 99 },
		"max hr":      func(p *PatientInput) { p.MaxHeartRate = 221 },
		"st":          func(p *PatientInput) { p.STDepression = 6.3 },
		"vessels":     func(p *PatientInput) { p.VesselsColored = 4 },
		"thal":        func(p *PatientInput) { p.Thalassemia = 0 },
	}
	for name, mutate := range cases {
		p := validInput()
		mutate(&p)
		err := p.Validate()
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}
