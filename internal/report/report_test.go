package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/tripmeter/internal/model"
	"github.com/theirongolddev/tripmeter/internal/pipeline"
	"github.com/theirongolddev/tripmeter/internal/travelapi"
)

func sampleData() Data {
	trip := model.Trip{
		ID:           "t-1",
		Destination:  "Jaipur",
		DurationDays: 2,
		TravelStyle:  []string{"History", "Food"},
		Budget:       model.Budget{Total: 20000, Currency: "₹"},
		Itinerary: model.Itinerary{Days: []model.Day{
			{Day: 1, Activities: []model.Activity{
				{Title: "Amber Fort", Type: model.TypeActivity, CostEstimate: "₹1,500"},
				{Title: "Heritage haveli stay", Type: model.TypeHotel, CostEstimate: "₹9,000"},
			}},
			{Day: 2, Activities: []model.Activity{
				{Title: "Rajasthani thali → dessert", Type: model.TypeFood, CostEstimate: "$15"},
			}},
		}},
	}
	bd := pipeline.Analyze(trip, pipeline.Options{})
	return Data{
		Trip:        trip,
		Breakdown:   bd,
		Tip:         pipeline.SelectTip(trip, bd.Metrics),
		Insight:     &travelapi.BudgetInsight{BudgetAnalysis: "Spend on forts, save on food.", SavingsStrategies: []string{"Composite ticket"}},
		GeneratedAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestGenerate(t *testing.T) {
	b, err := Generate(sampleData())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header: %q", b[:min(len(b), 16)])
	}
}

func TestGenerate_EmptyTrip(t *testing.T) {
	trip := model.Trip{Destination: "Nowhere"}
	bd := pipeline.Analyze(trip, pipeline.Options{})
	if _, err := Generate(Data{Trip: trip, Breakdown: bd, Tip: pipeline.SelectTip(trip, bd.Metrics)}); err != nil {
		t.Fatalf("Generate(empty): %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "jaipur.pdf")
	if err := WriteFile(path, sampleData()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() < 500 {
		t.Errorf("report is only %d bytes", info.Size())
	}
}

func TestPDFText(t *testing.T) {
	if got := pdfCurrency("₹"); got != "Rs." {
		t.Errorf("pdfCurrency(₹) = %q", got)
	}
	if got := pdfText("Fort → Palace"); strings.Contains(got, "→") {
		t.Errorf("arrow not replaced: %q", got)
	}
}
