// Package skin содержит чистую математику анализа кожи: таблицы регионов,
// калибровочные константы, квантили, текстурные дескрипторы, фильтр формы
// пятен, агрегацию отчёта и сравнение серий анализов. Пакет не зависит от
// OpenCV и собирается без тега gocv.
package skin

import "skin-vision/internal/domain/entity"

// Имена регионов лица.
const (
	RegionLeftCheek  = "left_cheek"
	RegionRightCheek = "right_cheek"
	RegionNose       = "nose"
	RegionForehead   = "forehead"
	RegionChin       = "chin"
	RegionLeftEye    = "left_eye"
	RegionRightEye   = "right_eye"
	RegionFace       = "face"
)

// FaceRegion именованный регион, заданный индексами точек сетки лица.
type FaceRegion struct {
	Name    string
	Indices []int
}

// SegmentationMode выбирает эвристику сегментации кожи.
type SegmentationMode string

const (
	SegmentationOff      SegmentationMode = "off"
	SegmentationSimple   SegmentationMode = "simple"
	SegmentationAdvanced SegmentationMode = "advanced"
)

// SegmentationParams пороги сегментации кожи.
type SegmentationParams struct {
	Mode            SegmentationMode
	CrMin, CrMax    float64 // строгие границы Cr
	CbMin, CbMax    float64 // строгие границы Cb
	HueMax          float64 // H в шкале OpenCV 0..179
	SatMin, ValMin  float64
	SimpleMinSize   int
	AdvancedMinSize int
	CloseRadius     int
}

// ColorParams константы цветовых метрик.
type ColorParams struct {
	CyanosisGain          float64
	JaundiceHueMin        float64
	JaundiceHueMax        float64
	JaundiceSatMin        float64
	JaundiceGain          float64
	RednessGain           float64
	OilValueMin           float64
	OilSatMax             float64
	OilinessGain          float64
	PigmentKernel         int
	PigmentDelta          float64
	PigmentDivisor        float64
	VascularityPercentile float64
	VascularityGain       float64
}

// TextureParams константы текстурных метрик.
type TextureParams struct {
	GradientWeight   float64
	EdgeWeight       float64
	WrinkleGain      float64
	CannySigma       float64
	CannyLow         float32
	CannyHigh        float32
	RoughnessPoints  int
	RoughnessRadius  float64
	RoughnessBins    int
	RoughnessDivisor float64
	PoreClipLimit    float64
	PoreGain         float64
}

// BlemishParams параметры детектора акне.
type BlemishParams struct {
	ClipLimit         float64
	TileGrid          int
	VarianceWindow    int
	TukeyK            float64
	ChromaPercentile  float64
	TexturePercentile float64
	LBPPoints         int
	LBPRadius         float64
	EntropyDownscale  int
	EntropyRadius     int
	EntropyPercentile float64
	MinSizeFraction   float64
	MinSizeFloor      int
	CloseRadius       int
	Gate              ShapeGate
	ScoreDivisor      float64
}

// SeverityBand совместная полоса процентилей (покраснение, локальная дисперсия).
type SeverityBand struct {
	Metric             string
	RednessPercentile  float64
	VariancePercentile float64
	Divisor            float64
}

// Threshold порог для одной метрики.
type Threshold struct {
	Metric string
	Value  float64
}

// Weight вес метрики в общей оценке.
type Weight struct {
	Metric string
	Value  float64
}

// Rule срабатывает, если хотя бы одна метрика превышает свой порог.
type Rule struct {
	AnyOf  []Threshold
	Advice []string
}

// ReportParams таблицы весов, порогов и правил рекомендаций.
type ReportParams struct {
	Weights       []Weight
	Concerns      []Threshold
	Rules         []Rule
	DefaultAdvice string
}

// TrendParams граница «значительного» изменения общей оценки.
type TrendParams struct {
	Significance float64
}

// Params полный набор настроек конвейера. Значение неизменяемо по договорённости:
// DefaultParams каждый раз строит новые срезы, а потребители хранят свои копии.
type Params struct {
	Regions          []FaceRegion
	FaceUnion        []string
	Segmentation     SegmentationParams
	Color            ColorParams
	Texture          TextureParams
	Blemish          BlemishParams
	Severity         []SeverityBand
	DarkCircleOffset int
	Report           ReportParams
	Trend            TrendParams
}

// DefaultRegions возвращает таблицу регионов для 468-точечной сетки лица.
func DefaultRegions() []FaceRegion {
	return []FaceRegion{
		{Name: RegionLeftCheek, Indices: []int{36, 205, 187, 147, 187, 207, 216, 206, 203, 50, 101, 50}},
		{Name: RegionRightCheek, Indices: []int{280, 425, 411, 291, 375, 454}},
		{Name: RegionNose, Indices: []int{6, 197, 195, 5, 4, 1}},
		{Name: RegionForehead, Indices: []int{10, 338, 297, 332, 284, 251, 389, 356, 454, 323, 361, 288, 397, 365, 379, 378, 400, 377}},
		{Name: RegionChin, Indices: []int{152, 148, 176, 149, 150}},
		{Name: RegionLeftEye, Indices: []int{33, 7, 163, 144, 145, 153, 154}},
		{Name: RegionRightEye, Indices: []int{362, 382, 381, 380, 374, 373, 390}},
	}
}

// DefaultParams возвращает откалиброванные настройки.
func DefaultParams() Params {
	return Params{
		Regions:   DefaultRegions(),
		FaceUnion: []string{RegionLeftCheek, RegionRightCheek, RegionNose, RegionForehead, RegionChin},
		Segmentation: SegmentationParams{
			Mode:            SegmentationAdvanced,
			CrMin:           135,
			CrMax:           180,
			CbMin:           85,
			CbMax:           135,
			HueMax:          50,
			SatMin:          30,
			ValMin:          40,
			SimpleMinSize:   100,
			AdvancedMinSize: 150,
			CloseRadius:     3,
		},
		Color: ColorParams{
			CyanosisGain:          2.0,
			JaundiceHueMin:        10,
			JaundiceHueMax:        35,
			JaundiceSatMin:        30,
			JaundiceGain:          1.5,
			RednessGain:           2.0,
			OilValueMin:           220,
			OilSatMax:             50,
			OilinessGain:          10.0,
			PigmentKernel:         25,
			PigmentDelta:          6,
			PigmentDivisor:        0.03,
			VascularityPercentile: 90,
			VascularityGain:       5.0,
		},
		Texture: TextureParams{
			GradientWeight:   0.6,
			EdgeWeight:       0.4,
			WrinkleGain:      3.0,
			CannySigma:       1.5,
			CannyLow:         10,
			CannyHigh:        30,
			RoughnessPoints:  24,
			RoughnessRadius:  3,
			RoughnessBins:    26,
			RoughnessDivisor: 5.0,
			PoreClipLimit:    3.0,
			PoreGain:         8.0,
		},
		Blemish: BlemishParams{
			ClipLimit:         2.0,
			TileGrid:          8,
			VarianceWindow:    9,
			TukeyK:            1.5,
			ChromaPercentile:  80,
			TexturePercentile: 80,
			LBPPoints:         8,
			LBPRadius:         1,
			EntropyDownscale:  4,
			EntropyRadius:     5,
			EntropyPercentile: 85,
			MinSizeFraction:   0.0001,
			MinSizeFloor:      5,
			CloseRadius:       3,
			Gate: ShapeGate{
				MinCircularity:  0.4,
				MaxCircularity:  1.0,
				MaxEccentricity: 0.9,
				MaxAreaFraction: 0.05,
			},
			ScoreDivisor: 0.015,
		},
		Severity: []SeverityBand{
			{Metric: entity.MetricMildAcne, RednessPercentile: 75, VariancePercentile: 70, Divisor: 0.05},
			{Metric: entity.MetricModerateAcne, RednessPercentile: 85, VariancePercentile: 80, Divisor: 0.04},
			{Metric: entity.MetricSevereAcne, RednessPercentile: 92, VariancePercentile: 90, Divisor: 0.03},
		},
		DarkCircleOffset: 10,
		Report:           DefaultReportParams(),
		Trend:            TrendParams{Significance: 0.05},
	}
}

// DefaultReportParams возвращает таблицы отчёта.
func DefaultReportParams() ReportParams {
	return ReportParams{
		Weights: []Weight{
			{entity.MetricPaleness, 0.05},
			{entity.MetricCyanosis, 0.08},
			{entity.MetricJaundice, 0.08},
			{entity.MetricRedness, 0.07},
			{entity.MetricAcneSpots, 0.12},
			{entity.MetricOiliness, 0.08},
			{entity.MetricPigmentation, 0.09},
			{entity.MetricVascularity, 0.06},
			{entity.MetricPuffiness, 0.07},
			{entity.MetricDarkCircles, 0.08},
			{entity.MetricWrinkles, 0.10},
			{entity.MetricTextureRoughness, 0.06},
			{entity.MetricPoreSize, 0.06},
		},
		Concerns: []Threshold{
			{entity.MetricAcneSpots, 0.4},
			{entity.MetricSevereAcne, 0.3},
			{entity.MetricModerateAcne, 0.4},
			{entity.MetricOiliness, 0.5},
			{entity.MetricPigmentation, 0.5},
			{entity.MetricDarkCircles, 0.5},
			{entity.MetricWrinkles, 0.5},
			{entity.MetricPuffiness, 0.5},
			{entity.MetricRedness, 0.5},
			{entity.MetricCyanosis, 0.3},
			{entity.MetricJaundice, 0.3},
		},
		Rules: []Rule{
			{
				AnyOf:  []Threshold{{entity.MetricAcneSpots, 0.4}, {entity.MetricSevereAcne, 0.3}},
				Advice: []string{"Консультация дерматолога для лечения акне", "Использование некомедогенных продуктов"},
			},
			{
				AnyOf:  []Threshold{{entity.MetricOiliness, 0.5}},
				Advice: []string{"Матирующие средства и контроль жирности", "Регулярное очищение кожи"},
			},
			{
				AnyOf:  []Threshold{{entity.MetricPigmentation, 0.5}},
				Advice: []string{"SPF защита ежедневно", "Средства с витамином C и ниацинамидом"},
			},
			{
				AnyOf:  []Threshold{{entity.MetricDarkCircles, 0.5}},
				Advice: []string{"Крем для области вокруг глаз с кофеином", "Контроль режима сна"},
			},
			{
				AnyOf:  []Threshold{{entity.MetricWrinkles, 0.5}},
				Advice: []string{"Антивозрастные средства с ретинолом", "Увлажнение и защита от солнца"},
			},
			{
				AnyOf:  []Threshold{{entity.MetricPuffiness, 0.5}},
				Advice: []string{"Лимфодренажный массаж", "Контроль потребления соли"},
			},
			{
				AnyOf:  []Threshold{{entity.MetricCyanosis, 0.3}, {entity.MetricJaundice, 0.3}},
				Advice: []string{"Обратиться к врачу для обследования"},
			},
			{
				AnyOf:  []Threshold{{entity.MetricTextureRoughness, 0.5}},
				Advice: []string{"Мягкие эксфолианты для выравнивания текстуры"},
			},
			{
				AnyOf:  []Threshold{{entity.MetricPoreSize, 0.5}},
				Advice: []string{"Средства с BHA кислотами для очищения пор"},
			},
		},
		DefaultAdvice: "Кожа в хорошем состоянии",
	}
}

// Region возвращает описание региона по имени.
func (p Params) Region(name string) (FaceRegion, bool) {
	for _, r := range p.Regions {
		if r.Name == name {
			return r, true
		}
	}
	return FaceRegion{}, false
}

func (p ReportParams) clone() ReportParams {
	out := ReportParams{
		Weights:       append([]Weight(nil), p.Weights...),
		Concerns:      append([]Threshold(nil), p.Concerns...),
		Rules:         make([]Rule, len(p.Rules)),
		DefaultAdvice: p.DefaultAdvice,
	}
	for i, r := range p.Rules {
		out.Rules[i] = Rule{
			AnyOf:  append([]Threshold(nil), r.AnyOf...),
			Advice: append([]string(nil), r.Advice...),
		}
	}
	return out
}

// Clone возвращает глубокую копию настроек.
func (p Params) Clone() Params {
	out := p
	out.Regions = make([]FaceRegion, len(p.Regions))
	for i, r := range p.Regions {
		out.Regions[i] = FaceRegion{Name: r.Name, Indices: append([]int(nil), r.Indices...)}
	}
	out.FaceUnion = append([]string(nil), p.FaceUnion...)
	out.Severity = append([]SeverityBand(nil), p.Severity...)
	out.Report = p.Report.clone()
	return out
}
