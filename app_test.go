package main

import (
	"fmt"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/chazu/heft/pkg/calc"
	"github.com/chazu/heft/pkg/mass"
)

func readExample(t *testing.T, name string) string {
	t.Helper()
	source, err := os.ReadFile("examples/" + name)
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(source)
}

func requireOK(t *testing.T, result CalcResult) {
	t.Helper()
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	if !result.Result.OK() {
		t.Fatalf("calculation failed: %s", result.Text)
	}
}

// TestE2EBoxExample exercises the full pipeline: Lisp source -> engine ->
// graph -> design -> calc -> report.
func TestE2EBoxExample(t *testing.T) {
	app := NewApp()
	result := app.Calculate(readExample(t, "box.lisp"), CalcOptions{Variant: calc.VariantAll})
	requireOK(t, result)

	want := strings.Join([]string{
		"heft: Mass Calculate",
		"Total Mass of 4 Solid Bodies:",
		"",
		"Steel:",
		"  33693.243631 g",
		"  33.693244 kg",
		"",
		"Aluminum:",
		"  11663.045872 g",
		"  11.663046 kg",
		"",
		"ABS:",
		"  4406.039552 g",
		"  4.406040 kg",
		"",
		"Total Volume:",
		"  4319.646619 cm3",
	}, "\n")
	if result.Text != want {
		t.Errorf("report mismatch\n got:\n%s\nwant:\n%s", result.Text, want)
	}
	if result.RunID == "" {
		t.Error("expected a run id")
	}
	if result.Result.Bodies != 4 {
		t.Errorf("expected 4 bodies, got %d", result.Result.Bodies)
	}
}

func TestE2EBoxMultiMaterial(t *testing.T) {
	app := NewApp()
	result := app.Calculate(readExample(t, "box.lisp"), CalcOptions{Variant: calc.VariantMultiMaterial})
	requireOK(t, result)

	for _, want := range []string{
		"front:\n  Material: Red Oak\n  866.400000 g\n  0.866400 kg",
		"left:\n  Material: Red Oak\n  567.492000 g\n  0.567492 kg",
		"pin:\n  Material: Steel\n  15.682831 g",
		"Total Mass of 4 Bodies:",
		"Total Mass from Material Properties:",
		calc.MaterialNote,
	} {
		if !strings.Contains(result.Text, want) {
			t.Errorf("report missing %q:\n%s", want, result.Text)
		}
	}
}

func TestE2EBoxUltimateSelection(t *testing.T) {
	app := NewApp()
	source := readExample(t, "box.lisp")

	result := app.Calculate(source, CalcOptions{Variant: calc.VariantUltimate, Selection: []string{"front"}})
	requireOK(t, result)
	if !strings.Contains(result.Text, "Mass of the SELECTED body:") {
		t.Errorf("expected selected body header:\n%s", result.Text)
	}
	if !strings.Contains(result.Text, "Red Oak:\n  866.400000 g") {
		t.Errorf("expected red oak mass of the front board:\n%s", result.Text)
	}

	result = app.Calculate(source, CalcOptions{Variant: calc.VariantUltimate, Selection: []string{"box"}})
	requireOK(t, result)
	if !strings.Contains(result.Text, "Mass of the SELECTED component:") {
		t.Errorf("expected selected component header:\n%s", result.Text)
	}
	if result.Result.Bodies != 4 {
		t.Errorf("expected 4 bodies in component, got %d", result.Result.Bodies)
	}

	result = app.Calculate(source, CalcOptions{Variant: calc.VariantUltimate, Selection: []string{"left:top"}})
	requireOK(t, result)
	if !strings.Contains(result.Text, "Mass of the SELECTED body (face):") {
		t.Errorf("expected face header:\n%s", result.Text)
	}
}

func TestE2EUnknownSelection(t *testing.T) {
	app := NewApp()
	result := app.Calculate(readExample(t, "box.lisp"), CalcOptions{
		Variant:   calc.VariantUltimate,
		Selection: []string{"drawer"},
	})
	if result.Result.Failure == nil || result.Result.Failure.Kind != calc.InvalidSelection {
		t.Fatalf("expected InvalidSelection, got %+v", result.Result)
	}
	if !strings.Contains(result.Text, "drawer") {
		t.Errorf("expected failure to name the selection, got %q", result.Text)
	}
}

func TestE2EClickNeedsSelection(t *testing.T) {
	app := NewApp()
	source := readExample(t, "box.lisp")

	result := app.Calculate(source, CalcOptions{Variant: calc.VariantClick})
	if result.Result.Failure == nil || result.Result.Failure.Message != "No body selected" {
		t.Fatalf("expected 'No body selected', got %+v", result.Result.Failure)
	}

	result = app.Calculate(source, CalcOptions{Variant: calc.VariantClick, Selection: []string{"pin"}})
	requireOK(t, result)
	if !strings.Contains(result.Text, "Mass of pin:") {
		t.Errorf("expected click title:\n%s", result.Text)
	}
}

func TestE2EShelfImperial(t *testing.T) {
	app := NewApp()
	result := app.Calculate(readExample(t, "shelf.lisp"), CalcOptions{Variant: calc.VariantAll})
	requireOK(t, result)

	// The guide is a surface: two brackets and the plank remain.
	for _, want := range []string{
		"Total Mass of 3 Solid Bodies:",
		"Steel:\n  44.503394 lb",
		"Aluminum:\n  15.405021 lb",
		"ABS:\n  5.819675 lb",
		"  2588.000000 cm3",
	} {
		if !strings.Contains(result.Text, want) {
			t.Errorf("report missing %q:\n%s", want, result.Text)
		}
	}
	if strings.Contains(result.Text, " g\n") {
		t.Errorf("imperial report should not contain grams:\n%s", result.Text)
	}
}

func TestE2EShelfUnitOverride(t *testing.T) {
	app := NewApp()
	result := app.Calculate(readExample(t, "shelf.lisp"), CalcOptions{
		Variant: calc.VariantMultiMaterial,
		Units:   "mm",
		Options: mass.Options{Precision: 4},
	})
	requireOK(t, result)
	if !strings.Contains(result.Text, "plank:\n  Material: Pine\n  1159.0000 g\n  1.1590 kg") {
		t.Errorf("expected metric plank block at 4 decimals:\n%s", result.Text)
	}
	if !strings.Contains(result.Text, "bracket:\n  Material: Aluminum\n  364.5000 g") {
		t.Errorf("expected metric bracket block:\n%s", result.Text)
	}
}

func TestE2ECustomTable(t *testing.T) {
	table, err := mass.NewMaterialTable(mass.MaterialDensity{Name: "Walnut", Density: 640})
	if err != nil {
		t.Fatal(err)
	}
	app := NewApp()
	source := `(defpart "shelf" (board :length 600 :width 300 :thickness 18 :grain :x))`
	result := app.Calculate(source, CalcOptions{Table: table})
	requireOK(t, result)

	want := strings.Join([]string{
		"heft: Mass Calculate",
		"Total Mass of 1 Solid Bodies:",
		"",
		"Walnut:",
		"  2073.600000 g",
		"  2.073600 kg",
		"",
		"Total Volume:",
		"  3240.000000 cm3",
	}, "\n")
	if result.Text != want {
		t.Errorf("report mismatch\n got:\n%s\nwant:\n%s", result.Text, want)
	}
}

// TestE2EEmptySource ensures the pipeline reports an empty design rather
// than an evaluation error.
func TestE2EEmptySource(t *testing.T) {
	app := NewApp()
	result := app.Calculate("", CalcOptions{})

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if result.Result.Failure == nil || result.Result.Failure.Kind != calc.EmptyDesign {
		t.Fatalf("expected EmptyDesign, got %+v", result.Result)
	}
	if result.Text != "No bodies or components in the active design." {
		t.Errorf("unexpected text %q", result.Text)
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := NewApp()
	result := app.Calculate("(defpart \"test\"", CalcOptions{})

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if result.OK() {
		t.Error("result should not be OK on error")
	}
	if result.Result.Report != nil {
		t.Error("expected no report on error")
	}
}

// TestE2ESingleBoard ensures a minimal single-board source reports one body.
func TestE2ESingleBoard(t *testing.T) {
	app := NewApp()
	source := `(defpart "shelf" (board :length 600 :width 300 :thickness 18 :grain :x :material (material :species "Steel" :density 7800)))`
	result := app.Calculate(source, CalcOptions{Variant: calc.VariantClick})
	requireOK(t, result)

	// A single solid body needs no selection.
	want := strings.Join([]string{
		"heft: Mass Calculate",
		"Mass of shelf:",
		"",
		"Steel:",
		"  25272.000000 g",
		"  25.272000 kg",
		"",
		"Aluminum:",
		"  8748.000000 g",
		"  8.748000 kg",
		"",
		"ABS:",
		"  3304.800000 g",
		"  3.304800 kg",
		"",
		"Total Volume:",
		"  3240.000000 cm3",
	}, "\n")
	if result.Text != want {
		t.Errorf("report mismatch\n got:\n%s\nwant:\n%s", result.Text, want)
	}
}

// firstValue returns the number on the line following heading.
func firstValue(t *testing.T, text, heading string) float64 {
	t.Helper()
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l == heading && i+1 < len(lines) {
			var v float64
			if _, err := fmt.Sscanf(strings.TrimSpace(lines[i+1]), "%f", &v); err != nil {
				t.Fatalf("no value under %q: %v", heading, err)
			}
			return v
		}
	}
	t.Fatalf("report has no %q heading:\n%s", heading, text)
	return 0
}

// TestE2EBoredBoard checks that holes are taken out of the stock.
func TestE2EBoredBoard(t *testing.T) {
	app := NewApp()
	source := `(defpart "shelf" (bore (board :length 600 :width 300 :thickness 18) :diameter 20 :x 300 :y 150))`
	result := app.Calculate(source, CalcOptions{Variant: calc.VariantClick})
	requireOK(t, result)

	// 3240 cm3 of stock less a 20 mm bore through 18 mm.
	want := 3240 - math.Pi*100*18/1000
	if v := firstValue(t, result.Text, "Total Volume:"); math.Abs(v-want)/want > 0.01 {
		t.Errorf("volume = %v cm3, want ~%v", v, want)
	}
	if g := firstValue(t, result.Text, "Steel:"); math.Abs(g-want*7.8)/(want*7.8) > 0.01 {
		t.Errorf("steel mass = %v g, want ~%v", g, want*7.8)
	}
}

// TestE2ERepeatedBoresStayPositive bores the same spot three times.
func TestE2ERepeatedBoresStayPositive(t *testing.T) {
	app := NewApp()
	source := `(defpart "ring" (bore (bore (bore (board :length 100 :width 100 :thickness 10)
  :diameter 90 :x 50 :y 50) :diameter 90 :x 50 :y 50) :diameter 90 :x 50 :y 50))`
	result := app.Calculate(source, CalcOptions{Variant: calc.VariantAll})
	requireOK(t, result)

	want := (100*100 - math.Pi*45*45) * 10 / 1000
	v := firstValue(t, result.Text, "Total Volume:")
	if v <= 0 || math.Abs(v-want)/want > 0.02 {
		t.Errorf("volume = %v cm3, want ~%v", v, want)
	}
	if g := firstValue(t, result.Text, "Steel:"); g <= 0 {
		t.Errorf("steel mass must be positive, got %v g", g)
	}
}

func TestNewAppOptions(t *testing.T) {
	app := NewApp(WithEvalTimeout(time.Second))
	if d := app.engine.Timeout(); d != time.Second {
		t.Errorf("expected 1s evaluation timeout, got %s", d)
	}
	if NewApp().logger == nil {
		t.Error("default logger should not be nil")
	}
}
