package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"carbwise/internal/model"
)

// Nutrient identifiers. Dataset exports use either the numeric nutrient id or
// the legacy nutrient number; both are checked for every nutrient.
const (
	nutrientIDCarbs    = 1005
	nutrientIDProtein  = 1003
	nutrientIDFat      = 1004
	nutrientIDEnergy   = 1008
	nutrientIDFiber    = 1079
	nutrientNumCarbs   = "205"
	nutrientNumProtein = "203"
	nutrientNumFat     = "204"
	nutrientNumEnergy  = "208"
	nutrientNumFiber   = "291"
)

// Variant tags recorded in the parse report.
const (
	ServingFlat    = "servingSize"
	ServingObject  = "serving"
	NutrientByID   = "nutrient-id"
	NutrientByNum  = "nutrient-number"
	NutrientMixed  = "mixed"
	NutrientFlat   = "flat"
	ctxCheckStride = 1000
)

// ErrNoValidRecords is returned when a dataset parses but nothing survives validation.
var ErrNoValidRecords = errors.New("dataset contains no valid food records")

// ParsedRecord tells how one record was resolved.
type ParsedRecord struct {
	Index           int      `json:"index"`
	Description     string   `json:"description"`
	ServingVariant  string   `json:"servingVariant"`
	NutrientVariant string   `json:"nutrientVariant"`
	Defaulted       []string `json:"defaulted,omitempty"`
}

// SkippedRecord is a record rejected during parsing.
type SkippedRecord struct {
	Index       int    `json:"index"`
	Description string `json:"description,omitempty"`
	Reason      string `json:"reason"`
}

// ParseReport summarises a dataset parse.
type ParseReport struct {
	Total    int             `json:"total"`
	Accepted []ParsedRecord  `json:"accepted"`
	Skipped  []SkippedRecord `json:"skipped"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexCategory accepts a plain string or an object with a description.
type flexCategory string

func (c *flexCategory) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = flexCategory(s)
		return nil
	}
	var obj struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*c = flexCategory(obj.Description)
	return nil
}

type rawFood struct {
	ID              flexString      `json:"id"`
	FdcID           flexString      `json:"fdcId"`
	Description     string          `json:"description"`
	Category        flexCategory    `json:"category"`
	FoodCategory    flexCategory    `json:"foodCategory"`
	ServingSize     *float64        `json:"servingSize"`
	ServingSizeUnit string          `json:"servingSizeUnit"`
	Serving         *rawServing     `json:"serving"`
	FoodNutrients   []rawNutrient   `json:"foodNutrients"`
	Nutrients       *rawFlat        `json:"nutrients"`
	Portions        []rawPortion    `json:"portions"`
	FoodPortions    []rawFDCPortion `json:"foodPortions"`
}

type rawServing struct {
	Value *float64 `json:"value"`
	Unit  string   `json:"unit"`
}

type rawNutrient struct {
	Nutrient *struct {
		ID     int        `json:"id"`
		Number flexString `json:"number"`
	} `json:"nutrient"`
	NutrientID     int        `json:"nutrientId"`
	NutrientNumber flexString `json:"nutrientNumber"`
	Amount         *float64   `json:"amount"`
	Value          *float64   `json:"value"`
}

type rawFlat struct {
	Carbs    *float64 `json:"carbs"`
	Protein  *float64 `json:"protein"`
	Fat      *float64 `json:"fat"`
	Calories *float64 `json:"calories"`
	Fiber    *float64 `json:"fiber"`
}

type rawPortion struct {
	Label string  `json:"label"`
	Grams float64 `json:"grams"`
}

type rawFDCPortion struct {
	PortionDescription string  `json:"portionDescription"`
	Modifier           string  `json:"modifier"`
	Amount             float64 `json:"amount"`
	GramWeight         float64 `json:"gramWeight"`
}

func (n rawNutrient) id() int {
	if n.Nutrient != nil && n.Nutrient.ID != 0 {
		return n.Nutrient.ID
	}
	return n.NutrientID
}

func (n rawNutrient) number() string {
	if n.Nutrient != nil && n.Nutrient.Number != "" {
		return strings.TrimSpace(string(n.Nutrient.Number))
	}
	return strings.TrimSpace(string(n.NutrientNumber))
}

func (n rawNutrient) amount() (float64, bool) {
	if n.Amount != nil {
		return *n.Amount, true
	}
	if n.Value != nil {
		return *n.Value, true
	}
	return 0, false
}

// Parse decodes a dataset into food records. The top level may be an array
// of foods or an object holding one under "foods" or an FDC export key.
// Invalid records are skipped and listed in the report; the call fails only
// when the JSON is malformed or no record is valid.
func Parse(ctx context.Context, data []byte) ([]model.FoodRecord, *ParseReport, error) {
	raws, err := decodeTopLevel(data)
	if err != nil {
		return nil, nil, err
	}

	report := &ParseReport{Total: len(raws)}
	records := make([]model.FoodRecord, 0, len(raws))

	for i, raw := range raws {
		if i%ctxCheckStride == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}

		var food rawFood
		if err := json.Unmarshal(raw, &food); err != nil {
			report.Skipped = append(report.Skipped, SkippedRecord{Index: i, Reason: "malformed record: " + err.Error()})
			continue
		}

		record, parsed, reason := convert(i, food)
		if reason != "" {
			report.Skipped = append(report.Skipped, SkippedRecord{
				Index:       i,
				Description: strings.TrimSpace(food.Description),
				Reason:      reason,
			})
			continue
		}

		records = append(records, record)
		report.Accepted = append(report.Accepted, parsed)
	}

	if len(records) == 0 {
		return nil, report, ErrNoValidRecords
	}

	return records, report, nil
}

func decodeTopLevel(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}

	switch trimmed[0] {
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("failed to decode dataset: %w", err)
		}
		return raws, nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode dataset: %w", err)
		}
		for _, key := range []string{"foods", "FoundationFoods", "SRLegacyFoods", "SurveyFoods", "BrandedFoods"} {
			body, ok := wrapper[key]
			if !ok {
				continue
			}
			var raws []json.RawMessage
			if err := json.Unmarshal(body, &raws); err != nil {
				return nil, fmt.Errorf("failed to decode %q list: %w", key, err)
			}
			return raws, nil
		}
		return nil, fmt.Errorf("dataset object has no foods list")
	default:
		return nil, fmt.Errorf("dataset must be a JSON array or object")
	}
}

func convert(index int, food rawFood) (model.FoodRecord, ParsedRecord, string) {
	description := strings.TrimSpace(food.Description)
	if description == "" {
		return model.FoodRecord{}, ParsedRecord{}, "missing description"
	}

	parsed := ParsedRecord{Index: index, Description: description}

	grams, unit, servingVariant, reason := resolveServing(food)
	if reason != "" {
		return model.FoodRecord{}, ParsedRecord{}, reason
	}
	parsed.ServingVariant = servingVariant

	macros, nutrientVariant, defaulted, reason := resolveNutrients(food)
	if reason != "" {
		return model.FoodRecord{}, ParsedRecord{}, reason
	}
	parsed.NutrientVariant = nutrientVariant
	parsed.Defaulted = defaulted

	id := strings.TrimSpace(string(food.ID))
	if id == "" {
		id = strings.TrimSpace(string(food.FdcID))
	}
	if id == "" {
		id = "food-" + strconv.Itoa(index+1)
	}

	category := strings.TrimSpace(string(food.Category))
	if category == "" {
		category = strings.TrimSpace(string(food.FoodCategory))
	}

	return model.FoodRecord{
		ID:                   id,
		Description:          description,
		Category:             category,
		StandardServingGrams: grams,
		StandardServingUnit:  unit,
		CarbsPer100g:         macros.carbs,
		ProteinPer100g:       macros.protein,
		FatPer100g:           macros.fat,
		CaloriesPer100g:      macros.calories,
		FiberPer100g:         macros.fiber,
		Portions:             resolvePortions(food),
	}, parsed, ""
}

func resolveServing(food rawFood) (float64, string, string, string) {
	if food.ServingSize != nil {
		if *food.ServingSize <= 0 {
			return 0, "", "", "serving size must be greater than zero"
		}
		return *food.ServingSize, unitOrGrams(food.ServingSizeUnit), ServingFlat, ""
	}
	if food.Serving != nil && food.Serving.Value != nil {
		if *food.Serving.Value <= 0 {
			return 0, "", "", "serving size must be greater than zero"
		}
		return *food.Serving.Value, unitOrGrams(food.Serving.Unit), ServingObject, ""
	}
	return 0, "", "", "missing serving size"
}

func unitOrGrams(unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return "g"
	}
	return unit
}

type macros struct {
	carbs, protein, fat, calories, fiber float64
}

type nutrientKey struct {
	name   string
	id     int
	number string
}

var nutrientKeys = []nutrientKey{
	{name: "carbs", id: nutrientIDCarbs, number: nutrientNumCarbs},
	{name: "protein", id: nutrientIDProtein, number: nutrientNumProtein},
	{name: "fat", id: nutrientIDFat, number: nutrientNumFat},
	{name: "calories", id: nutrientIDEnergy, number: nutrientNumEnergy},
	{name: "fiber", id: nutrientIDFiber, number: nutrientNumFiber},
}

// resolveNutrients reads macros from the nutrient list or the flat object.
// Carbohydrate is required. Protein, fat and fiber default to zero and
// calories default to zero, which makes scaling derive them from macros.
func resolveNutrients(food rawFood) (macros, string, []string, string) {
	values := make(map[string]float64, len(nutrientKeys))
	found := make(map[string]bool, len(nutrientKeys))
	var variant string

	switch {
	case len(food.FoodNutrients) > 0:
		usedID, usedNum := false, false
		for _, key := range nutrientKeys {
			if v, ok := lookupNutrient(food.FoodNutrients, func(n rawNutrient) bool { return n.id() == key.id }); ok {
				values[key.name], found[key.name] = v, true
				usedID = true
				continue
			}
			if v, ok := lookupNutrient(food.FoodNutrients, func(n rawNutrient) bool { return n.number() == key.number }); ok {
				values[key.name], found[key.name] = v, true
				usedNum = true
			}
		}
		switch {
		case usedID && usedNum:
			variant = NutrientMixed
		case usedNum:
			variant = NutrientByNum
		default:
			variant = NutrientByID
		}
	case food.Nutrients != nil:
		variant = NutrientFlat
		flat := map[string]*float64{
			"carbs":    food.Nutrients.Carbs,
			"protein":  food.Nutrients.Protein,
			"fat":      food.Nutrients.Fat,
			"calories": food.Nutrients.Calories,
			"fiber":    food.Nutrients.Fiber,
		}
		for name, v := range flat {
			if v != nil {
				values[name], found[name] = *v, true
			}
		}
	default:
		return macros{}, "", nil, "missing nutrient data"
	}

	if !found["carbs"] {
		return macros{}, "", nil, "missing carbohydrate value"
	}

	var defaulted []string
	for _, key := range nutrientKeys {
		if !found[key.name] {
			defaulted = append(defaulted, key.name)
			continue
		}
		if values[key.name] < 0 {
			return macros{}, "", nil, fmt.Sprintf("negative %s value", key.name)
		}
	}

	return macros{
		carbs:    values["carbs"],
		protein:  values["protein"],
		fat:      values["fat"],
		calories: values["calories"],
		fiber:    values["fiber"],
	}, variant, defaulted, ""
}

func lookupNutrient(list []rawNutrient, match func(rawNutrient) bool) (float64, bool) {
	for _, n := range list {
		if !match(n) {
			continue
		}
		if v, ok := n.amount(); ok {
			return v, true
		}
	}
	return 0, false
}

func resolvePortions(food rawFood) []model.NamedPortion {
	var portions []model.NamedPortion
	for _, p := range food.Portions {
		label := strings.TrimSpace(p.Label)
		if label == "" || p.Grams <= 0 {
			continue
		}
		portions = append(portions, model.NamedPortion{Label: label, Grams: p.Grams})
	}
	for _, p := range food.FoodPortions {
		label := strings.TrimSpace(p.PortionDescription)
		if label == "" {
			label = strings.TrimSpace(p.Modifier)
			if label != "" && p.Amount > 0 {
				label = strconv.FormatFloat(p.Amount, 'f', -1, 64) + " " + label
			}
		}
		if label == "" || p.GramWeight <= 0 {
			continue
		}
		portions = append(portions, model.NamedPortion{Label: label, Grams: p.GramWeight})
	}
	return portions
}
