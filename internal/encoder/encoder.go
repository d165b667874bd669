package encoder

import (
	"github.com/S-4-Sidra/heart-disease/internal/domain"
)

var (
	sexCodes = map[domain.Sex]float64{
		domain.SexMale:   1,
		domain.SexFemale: 0,
	}
	chestPainCodes = map[domain.ChestPainType]float64{
		domain.ChestPainTypicalAngina:  0,
		domain.ChestPainAtypicalAngina: 1,
		domain.ChestPainNonAnginal:     2,
		domain.ChestPainAsymptomatic:   3,
	}
	restingECGCodes = map[domain.RestingECG]float64{
		domain.RestingECGNormal:         0,
		domain.RestingECGSTTAbnormality: 1,
		domain.RestingECGLVHypertrophy:  2,
	}
	stSlopeCodes = map[domain.STSlope]float64{
		domain.STSlopeUpsloping:   0,
		domain.STSlopeFlat:        1,
		domain.STSlopeDownsloping: 2,
	}
	thalassemiaCodes = map[domain.Thalassemia]float64{
		domain.ThalassemiaNormal:           1,
		domain.ThalassemiaFixedDefect:      2,
		domain.ThalassemiaReversibleDefect: 3,
	}
)

// Encode 将体征输入映射为固定顺序的特征向量。
// 编码表必须与已训练模型保持一致，不要调整。
func Encode(p domain.PatientInput) domain.FeatureVector {
	return domain.FeatureVector{
		float64(p.Age),
		sexCodes[p.Sex],
		chestPainCodes[p.ChestPain],
		float64(p.RestingBP),
		float64(p.Cholesterol),
		boolCode(p.FastingBSHigh),
		restingECGCodes[p.RestingECG],
		float64(p.MaxHeartRate),
		boolCode(p.ExerciseAngina),
		p.STDepression,
		stSlopeCodes[p.STSlope],
		float64(p.VesselsColored),
		thalassemiaCodes[p.Thalassemia],
	}
}

func boolCode(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
