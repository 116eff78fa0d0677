package main

import (
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// flatFood is the bundled dataset shape.
type flatFood struct {
	ID              string  `json:"id"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	ServingSize     float64 `json:"servingSize"`
	ServingSizeUnit string  `json:"servingSizeUnit"`
	Nutrients       struct {
		Carbs    float64 `json:"carbs"`
		Protein  float64 `json:"protein"`
		Fat      float64 `json:"fat"`
		Calories float64 `json:"calories"`
		Fiber    float64 `json:"fiber"`
	} `json:"nutrients"`
	Portions []struct {
		Label string  `json:"label"`
		Grams float64 `json:"grams"`
	} `json:"portions"`
}

// fdcFood mirrors a FoodData Central export record.
type fdcFood struct {
	FdcID        string            `json:"fdcId"`
	Description  string            `json:"description"`
	FoodCategory map[string]string `json:"foodCategory"`
	Serving      map[string]any    `json:"serving"`
	Nutrients    []fdcNutrient     `json:"foodNutrients"`
	FoodPortions []fdcPortion      `json:"foodPortions"`
}

type fdcNutrient struct {
	Nutrient struct {
		ID     int    `json:"id"`
		Number string `json:"number"`
	} `json:"nutrient"`
	Amount float64 `json:"amount"`
}

type fdcPortion struct {
	PortionDescription string  `json:"portionDescription"`
	GramWeight         float64 `json:"gramWeight"`
}

// generateSampleDataset writes gzipped copies of the bundled dataset for S3
// uploads and loader tests:
//
//	data/samples/foods.json.gz      same records, flat nutrients
//	data/samples/foods-fdc.json.gz  FoodData Central layout under "foods"
func main() {
	src := flag.String("in", "data/foods.json", "bundled dataset to convert")
	outDir := flag.String("out", "data/samples", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	data, err := os.ReadFile(*src)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *src, err)
	}

	var foods []flatFood
	if err := json.Unmarshal(data, &foods); err != nil {
		log.Fatalf("Failed to parse %s: %v", *src, err)
	}

	flatPath := filepath.Join(*outDir, "foods.json.gz")
	if err := writeGzipJSON(flatPath, foods); err != nil {
		log.Fatalf("Failed to create %s: %v", flatPath, err)
	}
	fmt.Printf("Created %s with %d foods\n", flatPath, len(foods))

	fdc := make([]fdcFood, 0, len(foods))
	for i, f := range foods {
		fdc = append(fdc, toFDC(i, f))
	}

	fdcPath := filepath.Join(*outDir, "foods-fdc.json.gz")
	if err := writeGzipJSON(fdcPath, map[string]any{"foods": fdc}); err != nil {
		log.Fatalf("Failed to create %s: %v", fdcPath, err)
	}
	fmt.Printf("Created %s with %d foods\n", fdcPath, len(fdc))

	fmt.Println("\nUpload to S3 under the configured prefix, e.g.:")
	fmt.Printf("  aws s3 cp %s s3://$S3_BUCKET/${S3_PREFIX}data/foods.json.gz\n", flatPath)
}

func toFDC(index int, f flatFood) fdcFood {
	nutrients := []struct {
		id     int
		number string
		amount float64
	}{
		{1005, "205", f.Nutrients.Carbs},
		{1003, "203", f.Nutrients.Protein},
		{1004, "204", f.Nutrients.Fat},
		{1008, "208", f.Nutrients.Calories},
		{1079, "291", f.Nutrients.Fiber},
	}

	out := fdcFood{
		FdcID:        fmt.Sprintf("%d", 100000+index),
		Description:  f.Description,
		FoodCategory: map[string]string{"description": f.Category},
		Serving:      map[string]any{"value": f.ServingSize, "unit": f.ServingSizeUnit},
	}
	for _, n := range nutrients {
		var fn fdcNutrient
		fn.Nutrient.ID = n.id
		fn.Nutrient.Number = n.number
		fn.Amount = n.amount
		out.Nutrients = append(out.Nutrients, fn)
	}
	for _, p := range f.Portions {
		out.FoodPortions = append(out.FoodPortions, fdcPortion{PortionDescription: p.Label, GramWeight: p.Grams})
	}
	return out
}

func writeGzipJSON(filePath string, v any) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	defer gzWriter.Close()

	enc := json.NewEncoder(gzWriter)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
