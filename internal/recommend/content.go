package recommend

import "github.com/S-4-Sidra/heart-disease/internal/domain"

// 页面上的静态展示内容（结果页、饮食页、医生页、急救页）

// Factor simulated importance shown on the results page. Not derived from the classifier.
type Factor struct {
	Name       string  `json:"factor"`
	Importance float64 `json:"importance"`
}

type Cardiologist struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Hospital  string `json:"hospital"`
	Rating    string `json:"rating"`
}

type Contact struct {
	Service string `json:"service"`
	Phone   string `json:"phone_number"`
}

var resultActions = map[domain.Tier][]string{
	domain.TierLow: {
		"Maintain your healthy lifestyle",
		"Continue regular exercise",
		"Annual check-ups are sufficient",
	},
	domain.TierMedium: {
		"Consider lifestyle modifications",
		"Increase physical activity",
		"Monitor blood pressure regularly",
		"Consider consulting a cardiologist",
	},
	domain.TierHigh: {
		"Consult a cardiologist as soon as possible",
		"Implement significant lifestyle changes",
		"Monitor your health indicators regularly",
		"Follow a heart-healthy diet strictly",
	},
}

// ResultActions 结果页的行动建议
func ResultActions(t domain.Tier) []string {
	src := resultActions[resolve(t)]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

func HeartHealthyTips() []string {
	return []string{
		"Choose foods low in saturated and trans fats",
		"Increase intake of fruits and vegetables",
		"Select whole grains over refined grains",
		"Limit sodium intake",
		"Choose lean protein sources",
	}
}

func KeyFactors() []Factor {
	return []Factor{
		{Name: "Age", Importance: 0.25},
		{Name: "Cholesterol", Importance: 0.20},
		{Name: "Blood Pressure", Importance: 0.18},
		{Name: "Max Heart Rate", Importance: 0.15},
		{Name: "Chest Pain Type", Importance: 0.12},
	}
}

func Cardiologists() []Cardiologist {
	return []Cardiologist{
		{Name: "Dr. Sarah Johnson", Specialty: "Preventive Cardiology", Hospital: "City General Hospital", Rating: "4.8/5"},
		{Name: "Dr. Michael Chen", Specialty: "Interventional Cardiology", Hospital: "University Medical Center", Rating: "4.7/5"},
		{Name: "Dr. Emily Williams", Specialty: "Heart Failure Specialist", Hospital: "Heart Institute", Rating: "4.9/5"},
	}
}

func EmergencyContacts() []Contact {
	return []Contact{
		{Service: "Local Emergency", Phone: "911"},
		{Service: "National Heart Helpline", Phone: "1-800-HEART"},
		{Service: "Poison Control", Phone: "1-800-222-1222"},
		{Service: "Local Hospital", Phone: "Check local listing"},
	}
}
