package recommend

import (
	"testing"

	"github.com/S-4-Sidra/heart-disease/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDietPlan_LowTable(t *testing.T) {
	plan := DietPlan(domain.TierLow)
	require.Len(t, plan, 4)

	want := []MealPlan{
		{Meal: "Breakfast", Description: "Oatmeal with berries and nuts"},
		{Meal: "Lunch", Description: "Grilled chicken salad with olive oil dressing"},
		{Meal: "Dinner", Description: "Baked salmon with steamed vegetables"},
		{Meal: "Snacks", Description: "Fresh fruits, yogurt, handful of almonds"},
	}
	assert.Equal(t, want, plan)
}

func TestDietPlan_StableAcrossCalls(t *testing.T) {
	for _, tier := range domain.Tiers {
		assert.Equal(t, DietPlan(tier), DietPlan(tier))
		assert.Equal(t, DoctorAdvice(tier), DoctorAdvice(tier))
	}
}

func TestDietPlan_ReturnsFreshSlice(t *testing.T) {
	a := DietPlan(domain.TierHigh)
	a[0].Description = "changed"
	assert.Equal(t, "Smoothie with spinach, banana, and protein powder", DietPlan(domain.TierHigh)[0].Description)
}

func TestUnknownTier_FallsBackToMedium(t *testing.T) {
	unknown := domain.Tier("extreme")
	assert.Equal(t, DietPlan(domain.TierMedium), DietPlan(unknown))
	assert.Equal(t, "Consider consulting a cardiologist for preventive advice.", DoctorAdvice(unknown))
	assert.Equal(t, ResultActions(domain.TierMedium), ResultActions(unknown))
	assert.Equal(t, domain.TierMedium, BundleFor(unknown).Tier)
}

func TestDoctorAdvice(t *testing.T) {
	assert.Equal(t, "Continue maintaining a healthy lifestyle with regular check-ups.", DoctorAdvice(domain.TierLow))
	assert.Equal(t, "Schedule an appointment with a cardiologist as soon as possible.", DoctorAdvice(domain.TierHigh))
}

func TestEmergencyInfo(t *testing.T) {
	info := EmergencyInfo()
	require.Len(t, info, 3)
	assert.Equal(t, "Symptoms", info[0].Title)
	assert.Equal(t, "Immediate Action", info[1].Title)
	assert.Equal(t, "Call emergency services immediately", info[1].Body)
	assert.Equal(t, "While Waiting", info[2].Title)
}
