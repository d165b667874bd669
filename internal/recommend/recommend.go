package recommend

import "github.com/S-4-Sidra/heart-disease/internal/domain"

// Meal 餐次
type Meal int

const (
	Breakfast Meal = iota
	Lunch
	Dinner
	Snacks
)

// Meals 固定输出顺序
var Meals = [4]Meal{Breakfast, Lunch, Dinner, Snacks}

func (m Meal) String() string {
	switch m {
	case Breakfast:
		return "Breakfast"
	case Lunch:
		return "Lunch"
	case Dinner:
		return "Dinner"
	case Snacks:
		return "Snacks"
	default:
		return "Unknown"
	}
}

// MealPlan 单个餐次的饮食建议
type MealPlan struct {
	Meal        string `json:"meal"`
	Description string `json:"description"`
}

// InfoItem 标题 + 内容（急救信息等）
type InfoItem struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Bundle 某一风险等级对应的建议集合
type Bundle struct {
	Tier         domain.Tier `json:"tier"`
	DietPlan     []MealPlan  `json:"diet_plan"`
	DoctorAdvice string      `json:"doctor_advice"`
}

var dietPlans = map[domain.Tier][4]string{
	domain.TierLow: {
		"Oatmeal with berries and nuts",
		"Grilled chicken salad with olive oil dressing",
		"Baked salmon with steamed vegetables",
		"Fresh fruits, yogurt, handful of almonds",
	},
	domain.TierMedium: {
		"Whole grain toast with avocado and eggs",
		"Quinoa bowl with vegetables and lean protein",
		"Grilled fish with brown rice and greens",
		"Apple slices with peanut butter, carrot sticks",
	},
	domain.TierHigh: {
		"Smoothie with spinach, banana, and protein powder",
		"Lentil soup with whole grain bread",
		"Baked chicken with sweet potato and broccoli",
		"Walnuts, Greek yogurt, cucumber slices",
	},
}

var doctorAdvice = map[domain.Tier]string{
	domain.TierLow:    "Continue maintaining a healthy lifestyle with regular check-ups.",
	domain.TierMedium: "Consider consulting a cardiologist for preventive advice.",
	domain.TierHigh:   "Schedule an appointment with a cardiologist as soon as possible.",
}

// resolve 未知等级一律回退到 medium
func resolve(t domain.Tier) domain.Tier {
	if t.Known() {
		return t
	}
	return domain.TierMedium
}

// DietPlan 返回 Breakfast/Lunch/Dinner/Snacks 顺序的饮食计划
func DietPlan(t domain.Tier) []MealPlan {
	table := dietPlans[resolve(t)]
	out := make([]MealPlan, 0, len(Meals))
	for _, m := range Meals {
		out = append(out, MealPlan{Meal: m.String(), Description: table[m]})
	}
	return out
}

// DoctorAdvice 医生建议
func DoctorAdvice(t domain.Tier) string {
	return doctorAdvice[resolve(t)]
}

// EmergencyInfo 与风险等级无关的急救信息
func EmergencyInfo() []InfoItem {
	return []InfoItem{
		{Title: "Symptoms", Body: "Chest pain, shortness of breath, palpitations, dizziness"},
		{Title: "Immediate Action", Body: "Call emergency services immediately"},
		{Title: "While Waiting", Body: "Sit down, try to stay calm, and take prescribed medication if available"},
	}
}

// BundleFor 组装饮食计划与医生建议
func BundleFor(t domain.Tier) Bundle {
	r := resolve(t)
	return Bundle{
		Tier:         r,
		DietPlan:     DietPlan(r),
		DoctorAdvice: DoctorAdvice(r),
	}
}
